package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/latticenet/latticed/domain/dagconfig"
)

func TestLoadConfigDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := loadConfig([]string{"--datadir", tmpDir, "--logdir", tmpDir})
	if err != nil {
		t.Fatalf("loadConfig: %+v", err)
	}
	if cfg.NetParams() != &dagconfig.MainnetParams {
		t.Fatalf("expected mainnet by default, got %s", cfg.NetParams().Name)
	}
	if cfg.DataDir != filepath.Join(tmpDir, dagconfig.MainnetParams.Name) {
		t.Fatalf("data directory %s is not namespaced by network", cfg.DataDir)
	}
	if cfg.LogDir != filepath.Join(tmpDir, dagconfig.MainnetParams.Name) {
		t.Fatalf("log directory %s is not namespaced by network", cfg.LogDir)
	}
	if cfg.BlockProcessorBatchSize != defaultBlockProcessorBatchSize ||
		cfg.BlockProcessorBatchMaxTime != defaultBlockProcessorBatchMaxTime ||
		cfg.CementingBatchSize != defaultCementingBatchSize ||
		cfg.UncheckedCutoff != defaultUncheckedCutoff {
		t.Fatalf("unexpected tuning defaults: %+v", cfg.Flags)
	}
}

func TestLoadConfigNetworks(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		flag   string
		params *dagconfig.Params
	}{
		{"--testnet", &dagconfig.TestnetParams},
		{"--simnet", &dagconfig.SimnetParams},
		{"--devnet", &dagconfig.DevnetParams},
	}
	for _, test := range tests {
		cfg, err := loadConfig([]string{test.flag, "--datadir", tmpDir, "--logdir", tmpDir})
		if err != nil {
			t.Fatalf("loadConfig %s: %+v", test.flag, err)
		}
		if cfg.NetParams() != test.params {
			t.Fatalf("%s: expected %s, got %s", test.flag, test.params.Name, cfg.NetParams().Name)
		}
		if cfg.DataDir != filepath.Join(tmpDir, test.params.Name) {
			t.Fatalf("%s: unexpected data directory %s", test.flag, cfg.DataDir)
		}
	}

	_, err := loadConfig([]string{"--testnet", "--devnet", "--datadir", tmpDir})
	if err == nil {
		t.Fatalf("expected an error when selecting two networks")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"zero batch size", []string{"--blockprocessorbatchsize=0"}},
		{"negative full size", []string{"--blockprocessorfullsize=-1"}},
		{"short batch time", []string{"--blockprocessorbatchmaxtime=100us"}},
		{"negative cutoff", []string{"--uncheckedcutoff=-1s"}},
		{"zero cementing batch", []string{"--cementingbatchsize=0"}},
		{"bad metrics address", []string{"--metricslisten=localhost"}},
		{"autocement on mainnet", []string{"--autocement"}},
	}
	for _, test := range tests {
		args := append([]string{"--datadir", tmpDir, "--logdir", tmpDir}, test.args...)
		_, err := loadConfig(args)
		if err == nil {
			t.Fatalf("%s: expected an error", test.name)
		}
	}

	cfg, err := loadConfig([]string{"--devnet", "--autocement", "--metricslisten=127.0.0.1:9101",
		"--datadir", tmpDir, "--logdir", tmpDir})
	if err != nil {
		t.Fatalf("loadConfig: %+v", err)
	}
	if !cfg.AutoCement || cfg.MetricsListen != "127.0.0.1:9101" {
		t.Fatalf("unexpected config %+v", cfg.Flags)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "test.conf")
	contents := strings.Join([]string{
		"[Application Options]",
		"simnet=1",
		"cementingbatchsize=128",
		"uncheckedcutoff=10m",
		"blockprocessorbatchsize=32",
	}, "\n")
	err := os.WriteFile(configFile, []byte(contents), 0600)
	if err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	// Command line options take precedence over the config file
	cfg, err := loadConfig([]string{"-C", configFile, "--blockprocessorbatchsize=64",
		"--datadir", tmpDir, "--logdir", tmpDir})
	if err != nil {
		t.Fatalf("loadConfig: %+v", err)
	}
	if cfg.NetParams() != &dagconfig.SimnetParams {
		t.Fatalf("expected simnet from the config file, got %s", cfg.NetParams().Name)
	}
	if cfg.CementingBatchSize != 128 {
		t.Fatalf("expected a cementing batch size of 128, got %d", cfg.CementingBatchSize)
	}
	if cfg.UncheckedCutoff != 10*time.Minute {
		t.Fatalf("expected an unchecked cutoff of 10m, got %s", cfg.UncheckedCutoff)
	}
	if cfg.BlockProcessorBatchSize != 64 {
		t.Fatalf("expected the command line batch size 64, got %d", cfg.BlockProcessorBatchSize)
	}

	_, err = loadConfig([]string{"-C", filepath.Join(tmpDir, "missing.conf"), "--datadir", tmpDir})
	if err == nil {
		t.Fatalf("expected an error for a missing explicit config file")
	}
}
