package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/latticenet/latticed/infrastructure/config"
	"github.com/latticenet/latticed/infrastructure/db/database"
	"github.com/latticenet/latticed/infrastructure/db/database/ldb"
	"github.com/latticenet/latticed/infrastructure/logger"
	"github.com/latticenet/latticed/infrastructure/os/signal"
	"github.com/latticenet/latticed/util/panics"
	"github.com/latticenet/latticed/util/profiling"
	"github.com/latticenet/latticed/version"
)

const databaseDirname = "ledger"

type latticedApp struct {
	cfg *config.Config
}

// StartApp starts the latticed app, and blocks until it finishes running
func StartApp() error {
	// Load configuration and parse command line. This function also
	// initializes logging and configures it accordingly.
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprint(os.Stderr, err)
		return err
	}
	defer logger.BackendLog.Close()
	defer panics.HandlePanic(log, nil)

	app := &latticedApp{cfg: cfg}
	return app.main(nil)
}

func (app *latticedApp) main(startedChan chan<- struct{}) error {
	// Get a channel that will be closed when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem.
	interrupt := signal.InterruptListener()
	defer log.Info("Shutdown complete")

	// Show version at startup.
	log.Infof("Version %s", version.Version())

	// Enable http profiling server if requested.
	if app.cfg.Profile != "" {
		profiling.Start(app.cfg.Profile, log)
	}

	// Return now if an interrupt signal was triggered.
	if signal.InterruptRequested(interrupt) {
		return nil
	}

	// Open the database
	db, err := openDB(app.cfg)
	if err != nil {
		log.Errorf("Loading database failed: %+v", err)
		return err
	}

	defer func() {
		log.Infof("Gracefully shutting down the database...")
		err := db.Close()
		if err != nil {
			log.Errorf("Failed to close the database: %s", err)
		}
	}()

	// Create componentManager and start it.
	componentManager, err := NewComponentManager(app.cfg, db)
	if err != nil {
		log.Errorf("Unable to start latticed: %+v", err)
		return err
	}

	defer func() {
		log.Infof("Gracefully shutting down latticed...")

		shutdownDone := make(chan struct{})
		go func() {
			componentManager.Stop()
			shutdownDone <- struct{}{}
		}()

		const shutdownTimeout = 2 * time.Minute

		select {
		case <-shutdownDone:
		case <-time.After(shutdownTimeout):
			log.Criticalf("Graceful shutdown timed out %s. Terminating...", shutdownTimeout)
		}
		log.Infof("Latticed shutdown complete")
	}()

	err = componentManager.Start()
	if err != nil {
		log.Errorf("Unable to start latticed: %+v", err)
		return err
	}

	if startedChan != nil {
		startedChan <- struct{}{}
	}

	// Wait until the interrupt signal is received from an OS signal or
	// shutdown is requested through one of the subsystems.
	<-interrupt
	return nil
}

func databasePath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, databaseDirname)
}

func openDB(cfg *config.Config) (database.Database, error) {
	dbPath := databasePath(cfg)

	err := checkDatabaseVersion(dbPath)
	if err != nil {
		return nil, err
	}

	log.Infof("Loading database from '%s'", dbPath)
	db, err := ldb.NewLevelDB(dbPath, cfg.LevelDBCacheSizeMiB)
	if err != nil {
		return nil, err
	}

	err = createDatabaseVersionFile(dbPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
