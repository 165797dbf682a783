package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const currentDatabaseVersion = 1

// checkDatabaseVersion fails if the database at dbPath was written by an
// incompatible version of latticed. A missing version file means the
// database is new.
func checkDatabaseVersion(dbPath string) error {
	versionBytes, err := os.ReadFile(versionFilePath(dbPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WithStack(err)
	}

	databaseVersion, err := strconv.Atoi(strings.TrimSpace(string(versionBytes)))
	if err != nil {
		return errors.Wrapf(err, "malformed database version file in %s", dbPath)
	}

	if databaseVersion != currentDatabaseVersion {
		return errors.Errorf("Invalid database version %d. Expected version: %d", databaseVersion, currentDatabaseVersion)
	}
	return nil
}

func createDatabaseVersionFile(dbPath string) error {
	versionString := strconv.Itoa(currentDatabaseVersion)
	err := os.WriteFile(versionFilePath(dbPath), []byte(versionString), 0600)
	return errors.WithStack(err)
}

func versionFilePath(dbPath string) string {
	return filepath.Join(dbPath, "version")
}
