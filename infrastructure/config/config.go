// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/latticenet/latticed/domain/dagconfig"
	"github.com/latticenet/latticed/infrastructure/logger"
	"github.com/latticenet/latticed/version"
	"github.com/pkg/errors"
)

const (
	defaultConfigFilename = "latticed.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "latticed.log"

	defaultBlockProcessorBatchSize    = 256
	defaultBlockProcessorBatchMaxTime = 500 * time.Millisecond
	defaultSigCheckBatchSize          = 2048
	defaultBlockProcessorFullSize     = 65536
	defaultCementingBatchSize         = 16384
	defaultUncheckedCutoff            = 4 * time.Hour
	defaultLevelDBCacheSizeMiB        = 256
)

var (
	// DefaultHomeDir is the default home directory for latticed.
	DefaultHomeDir = appDataDir("latticed")

	defaultConfigFile = filepath.Join(DefaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(DefaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(DefaultHomeDir, defaultLogDirname)
)

// Flags defines the configuration options for latticed.
//
// See loadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir     string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir      string `long:"logdir" description:"Directory to log output."`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	Profile     string `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65536"`

	LevelDBCacheSizeMiB int `long:"leveldbcachesize" description:"Size of the leveldb block cache in MiB"`

	BlockProcessorBatchSize    int           `long:"blockprocessorbatchsize" description:"Maximum number of blocks written to the ledger in one transaction"`
	BlockProcessorBatchMaxTime time.Duration `long:"blockprocessorbatchmaxtime" description:"Maximum time a ledger write transaction is kept open. Valid time units are {ms, s, m}"`
	BlockProcessorFullSize     int           `long:"blockprocessorfullsize" description:"Number of queued blocks above which the block processor reports itself full"`
	SigCheckBatchSize          int           `long:"sigcheckbatchsize" description:"Maximum number of state block signatures verified together"`
	SigCheckThreads            int           `long:"sigcheckthreads" description:"Number of goroutines verifying signatures (default: number of CPUs)"`
	CementingBatchSize         int           `long:"cementingbatchsize" description:"Number of blocks staged before their confirmation heights are written"`
	UncheckedCutoff            time.Duration `long:"uncheckedcutoff" description:"Age after which blocks waiting for a dependency are dropped, 0 to keep them forever. Valid time units are {s, m, h}"`
	AutoCement                 bool          `long:"autocement" description:"Cement every live block as soon as it is accepted. Only meant for single node development networks"`
	MetricsListen              string        `long:"metricslisten" description:"Serve prometheus metrics on the given interface/port (eg. 127.0.0.1:9101)"`

	NetworkFlags
}

// Config defines the configuration options for latticed.
type Config struct {
	*Flags
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// appDataDir returns the directory latticed keeps its data in by default:
// a dot directory in the home directory, or a capitalized directory in
// the application data directory on Windows and macOS
func appDataDir(appName string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	capitalized := strings.ToUpper(appName[:1]) + appName[1:]
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, capitalized)
		}
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", capitalized)
	}
	return filepath.Join(homeDir, "."+appName)
}

func defaultFlags() *Flags {
	return &Flags{
		ConfigFile:                 defaultConfigFile,
		DataDir:                    defaultDataDir,
		LogDir:                     defaultLogDir,
		DebugLevel:                 defaultLogLevel,
		LevelDBCacheSizeMiB:        defaultLevelDBCacheSizeMiB,
		BlockProcessorBatchSize:    defaultBlockProcessorBatchSize,
		BlockProcessorBatchMaxTime: defaultBlockProcessorBatchMaxTime,
		BlockProcessorFullSize:     defaultBlockProcessorFullSize,
		SigCheckBatchSize:          defaultSigCheckBatchSize,
		SigCheckThreads:            runtime.NumCPU(),
		CementingBatchSize:         defaultCementingBatchSize,
		UncheckedCutoff:            defaultUncheckedCutoff,
	}
}

// LoadConfig parses the command line and the config file, and initializes
// the log files and levels accordingly
func LoadConfig() (*Config, error) {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return nil, err
	}

	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	if cfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation. After log rotation has been initialized, the
	// logger variables may be used.
	logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
	err = logger.InitLog(logFile, logger.ErrLogFileName(logFile))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}

	// Parse, validate, and set debug log level(s).
	err = logger.ParseAndSetLogLevels(cfg.DebugLevel)
	if err != nil {
		err := errors.Errorf("loadConfig: %s", err.Error())
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintf(os.Stderr, "Use %s -h to show usage\n", appName)
		return nil, err
	}

	return cfg, nil
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in latticed functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options. Command line options always take precedence.
func loadConfig(args []string) (*Config, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := *cfgFlags
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}
	if preCfg.ShowVersion {
		return &Config{Flags: &preCfg}, nil
	}

	// Load additional config from file.
	parser := flags.NewParser(cfgFlags, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
			return nil, err
		}
		// A missing config file is fine unless it was explicitly requested
		if preCfg.ConfigFile != defaultConfigFile {
			return nil, errors.Wrapf(err, "could not read config file %s", preCfg.ConfigFile)
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Flags: cfgFlags}
	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	err = cfg.validate()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}

	// Append the network type to the data directory so it is "namespaced"
	// per network. All data is specific to a network, so namespacing the
	// data directory means each individual piece of serialized data does
	// not have to worry about changing names per network and such.
	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.DataDir = filepath.Join(cfg.DataDir, cfg.NetParams().Name)

	// Append the network type to the log directory so it is "namespaced"
	// per network in the same fashion as the data directory.
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.LogDir = filepath.Join(cfg.LogDir, cfg.NetParams().Name)

	return cfg, nil
}

func (cfg *Config) validate() error {
	funcName := "loadConfig"

	positive := []struct {
		name  string
		value int
	}{
		{"blockprocessorbatchsize", cfg.BlockProcessorBatchSize},
		{"blockprocessorfullsize", cfg.BlockProcessorFullSize},
		{"sigcheckbatchsize", cfg.SigCheckBatchSize},
		{"sigcheckthreads", cfg.SigCheckThreads},
		{"cementingbatchsize", cfg.CementingBatchSize},
		{"leveldbcachesize", cfg.LevelDBCacheSizeMiB},
	}
	for _, option := range positive {
		if option.value <= 0 {
			return errors.Errorf("%s: the %s option must be positive -- parsed [%d]",
				funcName, option.name, option.value)
		}
	}

	if cfg.BlockProcessorBatchMaxTime < time.Millisecond {
		return errors.Errorf("%s: the blockprocessorbatchmaxtime option may not be less than 1ms -- parsed [%s]",
			funcName, cfg.BlockProcessorBatchMaxTime)
	}
	if cfg.UncheckedCutoff < 0 {
		return errors.Errorf("%s: the uncheckedcutoff option may not be negative -- parsed [%s]",
			funcName, cfg.UncheckedCutoff)
	}

	if cfg.MetricsListen != "" {
		_, _, err := net.SplitHostPort(cfg.MetricsListen)
		if err != nil {
			return errors.Wrapf(err, "%s: invalid metricslisten address %s", funcName, cfg.MetricsListen)
		}
	}

	if cfg.AutoCement && cfg.NetParams() == &dagconfig.MainnetParams {
		return errors.Errorf("%s: the autocement option can't be used on %s", funcName, cfg.NetParams().Name)
	}
	return nil
}
