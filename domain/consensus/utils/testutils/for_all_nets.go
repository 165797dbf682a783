package testutils

import (
	"testing"

	"github.com/latticenet/latticed/domain/consensus"
	"github.com/latticenet/latticed/domain/dagconfig"
)

// ForAllNets runs the passed testFunc with all networks whose genesis
// account can be signed for and whose work thresholds are cheap enough
// to solve in tests
func ForAllNets(t *testing.T, testFunc func(*testing.T, *consensus.Config)) {
	allParams := []dagconfig.Params{
		dagconfig.SimnetParams,
		dagconfig.DevnetParams,
	}

	for _, params := range allParams {
		consensusConfig := consensus.DefaultConfig(&params)
		t.Run(consensusConfig.Name, func(t *testing.T) {
			t.Parallel()
			t.Logf("Running test for %s", consensusConfig.Name)
			testFunc(t, consensusConfig)
		})
	}
}
