package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const (
	normalLogSize = 512
	logsBuffer    = 1024

	logRotationThresholdKB = 10 * 1000
	logRotationMaxRolls    = 8
)

// Flags that add the logging callsite to every line
const (
	// LogFlagLongFile adds the full path and line number, e.g. /a/b/c/main.go:123
	LogFlagLongFile uint32 = 1 << iota

	// LogFlagShortFile adds the file name and line number, e.g. main.go:123.
	// It takes precedence over LogFlagLongFile.
	LogFlagShortFile
)

// flagsFromEnvironment reads the comma separated LOGFLAGS environment
// variable, which may hold "longfile" and "shortfile"
func flagsFromEnvironment() uint32 {
	var flags uint32
	for _, f := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch f {
		case "longfile":
			flags |= LogFlagLongFile
		case "shortfile":
			flags |= LogFlagShortFile
		}
	}
	return flags
}

// Backend serializes the lines of all subsystem loggers through a single
// goroutine, which hands every line to the writers whose level it reaches
type Backend struct {
	flag      uint32
	isRunning uint32
	isClosed  uint32
	writers   []logWriter
	writeChan chan logEntry

	// held by the writing goroutine until writeChan is drained
	syncClose sync.Mutex
}

// NewBackend creates a logging backend configured by LOGFLAGS
func NewBackend() *Backend {
	return &Backend{flag: flagsFromEnvironment(), writeChan: make(chan logEntry, logsBuffer)}
}

type logWriter struct {
	io.WriteCloser
	level Level
}

// AddLogFile adds a rotated log file receiving every line at logLevel or
// above. The file and its directory are created if needed.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	if b.IsRunning() {
		return errors.New("The logger is already running")
	}
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	r, err := rotator.New(logFile, logRotationThresholdKB, false, logRotationMaxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create a rotator for %s", logFile)
	}
	b.writers = append(b.writers, logWriter{WriteCloser: r, level: logLevel})
	return nil
}

// AddLogWriter adds a writer receiving every line at logLevel or above
func (b *Backend) AddLogWriter(writer io.WriteCloser, logLevel Level) error {
	if b.IsRunning() {
		return errors.New("The logger is already running")
	}
	b.writers = append(b.writers, logWriter{WriteCloser: writer, level: logLevel})
	return nil
}

// Run launches the logger backend in a separate go-routine. should only be called once.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return errors.New("The logger is already running")
	}
	go func() {
		defer func() {
			if err := recover(); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Fatal error in logger.Backend goroutine: %+v\n", err)
				_, _ = fmt.Fprintf(os.Stderr, "Goroutine stacktrace: %s\n", debug.Stack())
			}
		}()
		b.runBlocking()
	}()
	return nil
}

func (b *Backend) runBlocking() {
	defer atomic.StoreUint32(&b.isRunning, 0)
	b.syncClose.Lock()
	defer b.syncClose.Unlock()

	for log := range b.writeChan {
		for _, writer := range b.writers {
			if log.level >= writer.level {
				_, _ = writer.Write(log.log)
			}
		}
	}
}

// IsRunning returns true if backend.Run() has been called and false if it hasn't.
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) != 0
}

// Close finalizes all log rotators for this backend
func (b *Backend) Close() {
	if !atomic.CompareAndSwapUint32(&b.isClosed, 0, 1) {
		return
	}
	close(b.writeChan)
	// Wait for it to finish writing using the syncClose mutex.
	b.syncClose.Lock()
	defer b.syncClose.Unlock()
	for _, writer := range b.writers {
		_ = writer.Close()
	}
}

// Logger returns a new logger for a particular subsystem that writes to the
// Backend b. A tag describes the subsystem and is included in all log
// messages. The logger uses the info verbosity level by default.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{lvl: LevelInfo, tag: subsystemTag, b: b}
}

// write formats a log line and hands it to the writer goroutine. Lines
// are dropped while the backend is not running.
func (b *Backend) write(level Level, tag string, callDepth int, message string) {
	if !b.IsRunning() || atomic.LoadUint32(&b.isClosed) != 0 {
		return
	}
	buf := make([]byte, 0, normalLogSize)
	buf = formatHeader(buf, b.flag, time.Now(), level, tag, callDepth+1)
	buf = append(buf, message...)
	if len(message) == 0 || message[len(message)-1] != '\n' {
		buf = append(buf, '\n')
	}
	b.writeChan <- logEntry{log: buf, level: level}
}

// formatHeader writes a header in the default format
// "2006-01-02 15:04:05.000 [LVL] TAG: " followed by the callsite
// when one of the file flags is set.
func formatHeader(buf []byte, flag uint32, t time.Time, level Level, tag string, callDepth int) []byte {
	buf = append(buf, t.Format("2006-01-02 15:04:05.000")...)
	buf = append(buf, " ["...)
	buf = append(buf, level.String()...)
	buf = append(buf, "] "...)
	buf = append(buf, tag...)
	if flag&(LogFlagShortFile|LogFlagLongFile) != 0 {
		_, file, line, ok := runtime.Caller(callDepth + 1)
		if !ok {
			file = "???"
			line = 0
		} else if flag&LogFlagShortFile != 0 {
			file = filepath.Base(file)
		}
		buf = append(buf, ' ')
		buf = append(buf, file...)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(line), 10)
	}
	buf = append(buf, ": "...)
	return buf
}
