package panics

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/latticenet/latticed/infrastructure/logger"
)

const exitHandlerTimeout = 5 * time.Second

// HandlePanic recovers a panic, logs it together with the stack traces and
// exits the process. goroutineStackTrace is the stack of whoever spawned
// the panicking goroutine, and may be nil.
func HandlePanic(log *logger.Logger, goroutineStackTrace []byte) {
	err := recover()
	if err == nil {
		return
	}

	exit(log, fmt.Sprintf("Fatal error: %+v", err), debug.Stack(), goroutineStackTrace)
}

// GoroutineWrapperFunc returns a function that runs its argument in a new
// goroutine whose panics are logged to log before the process exits.
func GoroutineWrapperFunc(log *logger.Logger) func(func()) {
	return func(f func()) {
		spawnStackTrace := debug.Stack()
		go func() {
			defer HandlePanic(log, spawnStackTrace)
			f()
		}()
	}
}

func exit(log *logger.Logger, reason string, stackTrace []byte, goroutineStackTrace []byte) {
	exitHandlerDone := make(chan struct{})
	go func() {
		log.Criticalf("Exiting: %s", reason)
		if goroutineStackTrace != nil {
			log.Criticalf("Goroutine stack trace: %s", goroutineStackTrace)
		}
		log.Criticalf("Stack trace: %s", stackTrace)
		log.Backend().Close()
		close(exitHandlerDone)
	}()

	select {
	case <-time.After(exitHandlerTimeout):
		fmt.Fprintln(os.Stderr, "Couldn't flush the logs before exiting.")
	case <-exitHandlerDone:
	}
	os.Exit(1)
}
