// Package version holds the latticed version reported by --version and
// logged at startup.
package version

import (
	"fmt"
	"strings"
	"sync"
)

// validBuildCharacters are the characters allowed in appBuild
const validBuildCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0
)

// appBuild may be set at build time with
// '-ldflags "-X github.com/latticenet/latticed/version.appBuild=foo"'.
// It is ignored unless it only contains validBuildCharacters.
var appBuild string

var (
	version     string
	versionOnce sync.Once
)

// Version returns the application version as a semantic version string,
// with appBuild appended as build metadata when it is set and valid
func Version() string {
	versionOnce.Do(func() {
		version = fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
		if isValidBuild(appBuild) {
			version = fmt.Sprintf("%s-%s", version, appBuild)
		}
	})
	return version
}

func isValidBuild(build string) bool {
	if build == "" {
		return false
	}
	for _, r := range build {
		if !strings.ContainsRune(validBuildCharacters, r) {
			return false
		}
	}
	return true
}
