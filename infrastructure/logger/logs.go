package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// BackendLog is the logging backend used to create all subsystem loggers.
var BackendLog = NewBackend()

var (
	subsystemLoggers      = make(map[string]*Logger)
	subsystemLoggersMutex sync.Mutex
)

// RegisterSubSystem returns the logger of the given subsystem, creating
// it on first use.
func RegisterSubSystem(subsystem string) *Logger {
	subsystemLoggersMutex.Lock()
	defer subsystemLoggersMutex.Unlock()
	logger, exists := subsystemLoggers[subsystem]
	if !exists {
		logger = BackendLog.Logger(subsystem)
		subsystemLoggers[subsystem] = logger
	}
	return logger
}

// InitLog attaches log file and error log file to the backend log,
// mirrors info-level output to stdout, and starts the backend.
func InitLog(logFile, errLogFile string) error {
	err := BackendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		return errors.Wrapf(err, "error adding log file %s as log rotator for level %s", logFile, LevelTrace)
	}
	err = BackendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		return errors.Wrapf(err, "error adding log file %s as log rotator for level %s", errLogFile, LevelWarn)
	}
	err = BackendLog.AddLogWriter(os.Stdout, LevelInfo)
	if err != nil {
		return errors.Wrap(err, "error adding stdout to the logger")
	}
	return BackendLog.Run()
}

// SetLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored. Uninitialized subsystems are dynamically created as
// needed.
func SetLogLevel(subsystemID string, logLevel string) {
	subsystemLoggersMutex.Lock()
	logger, ok := subsystemLoggers[subsystemID]
	subsystemLoggersMutex.Unlock()
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level. It also dynamically creates the subsystem loggers as needed, so it
// can be used to initialize the logging system.
func SetLogLevels(logLevel string) {
	for _, subsystemID := range SupportedSubsystems() {
		SetLogLevel(subsystemID, logLevel)
	}
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	subsystemLoggersMutex.Lock()
	defer subsystemLoggersMutex.Unlock()
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

func validLogLevel(logLevel string) bool {
	_, ok := LevelFromString(logLevel)
	return ok
}

// ParseAndSetLogLevels attempts to parse the specified debug level and set
// the levels accordingly. An appropriate error is returned if anything is
// invalid.
//
// The level is either a single level applied to every subsystem, or a
// comma separated list of subsystem=level pairs such as
// "BLPR=debug,CMNT=trace".
func ParseAndSetLogLevels(debugLevel string) error {
	// When the specified string doesn't have any delimters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !validLogLevel(debugLevel) {
			str := "The specified debug level [%s] is invalid"
			return errors.Errorf(str, debugLevel)
		}

		// Change the logging level for all subsystems.
		SetLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "The specified debug level contains an invalid " +
				"subsystem/level pair [%s]"
			return errors.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		subsystemLoggersMutex.Lock()
		_, exists := subsystemLoggers[subsysID]
		subsystemLoggersMutex.Unlock()
		if !exists {
			str := "The specified subsystem [%s] is invalid -- " +
				"supported subsystems %s"
			return errors.Errorf(str, subsysID, strings.Join(SupportedSubsystems(), ", "))
		}

		// Validate log level.
		if !validLogLevel(logLevel) {
			str := "The specified debug level [%s] is invalid"
			return errors.Errorf(str, logLevel)
		}

		SetLogLevel(subsysID, logLevel)
	}

	return nil
}

// ErrLogFileName returns the error log file name that accompanies the
// given log file name.
func ErrLogFileName(logFile string) string {
	return fmt.Sprintf("%s_err%s", strings.TrimSuffix(logFile, ".log"), ".log")
}
