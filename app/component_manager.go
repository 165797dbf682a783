package app

import (
	"sync/atomic"
	"time"

	"github.com/latticenet/latticed/domain/consensus"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/infrastructure/config"
	infrastructuredatabase "github.com/latticenet/latticed/infrastructure/db/database"
	"github.com/latticenet/latticed/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsShutdownTimeout = 5 * time.Second

// ComponentManager is a wrapper for all the latticed services
type ComponentManager struct {
	cfg           *config.Config
	consensus     externalapi.Consensus
	metricsServer *metrics.Server

	started, shutdown int32
}

// Start launches all the latticed services.
func (a *ComponentManager) Start() error {
	// Already started?
	if atomic.AddInt32(&a.started, 1) != 1 {
		return nil
	}

	log.Trace("Starting latticed")

	err := a.consensus.Init()
	if err != nil {
		return err
	}
	a.consensus.Start()

	if a.metricsServer != nil {
		a.metricsServer.Start()
	}
	return nil
}

// Stop gracefully shuts down all the latticed services.
func (a *ComponentManager) Stop() {
	// Make sure this only happens once.
	if atomic.AddInt32(&a.shutdown, 1) != 1 {
		log.Infof("Latticed is already in the process of shutting down")
		return
	}

	log.Warnf("Latticed shutting down")

	if a.metricsServer != nil {
		err := a.metricsServer.Stop(metricsShutdownTimeout)
		if err != nil {
			log.Errorf("Error stopping the metrics server: %+v", err)
		}
	}

	a.consensus.Stop()
}

// Consensus returns the ledger maintained by this ComponentManager
func (a *ComponentManager) Consensus() externalapi.Consensus {
	return a.consensus
}

// NewComponentManager returns a new ComponentManager instance.
// Use Start() to begin all services within this ComponentManager
func NewComponentManager(cfg *config.Config, db infrastructuredatabase.Database) (*ComponentManager, error) {
	return newComponentManager(cfg, db, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func newComponentManager(cfg *config.Config, db infrastructuredatabase.Database,
	registerer prometheus.Registerer, gatherer prometheus.Gatherer) (*ComponentManager, error) {

	statsSink, err := metrics.NewStatsSink(registerer)
	if err != nil {
		return nil, err
	}

	c, err := consensus.NewFactory().NewConsensus(consensusConfig(cfg), db, statsSink)
	if err != nil {
		return nil, err
	}

	err = metrics.RegisterLedgerGauges(registerer, c.LedgerCounts)
	if err != nil {
		return nil, err
	}

	if cfg.AutoCement {
		c.RegisterBlockObserver(newAutoCementer(c))
		log.Infof("Cementing every live block as soon as it is accepted")
	}

	var metricsServer *metrics.Server
	if cfg.MetricsListen != "" {
		metricsServer = metrics.NewServer(cfg.MetricsListen, gatherer)
	}

	return &ComponentManager{
		cfg:           cfg,
		consensus:     c,
		metricsServer: metricsServer,
	}, nil
}

func consensusConfig(cfg *config.Config) *consensus.Config {
	consensusConfig := consensus.DefaultConfig(cfg.NetParams())
	consensusConfig.BlockProcessor.BatchSize = cfg.BlockProcessorBatchSize
	consensusConfig.BlockProcessor.BatchMaxTime = cfg.BlockProcessorBatchMaxTime
	consensusConfig.BlockProcessor.FullSize = cfg.BlockProcessorFullSize
	consensusConfig.BlockProcessor.SignatureCheckBatchSize = cfg.SigCheckBatchSize
	consensusConfig.BlockProcessor.UncheckedCutoff = cfg.UncheckedCutoff
	consensusConfig.SignatureCheckThreads = cfg.SigCheckThreads
	consensusConfig.CementingBatchSize = cfg.CementingBatchSize
	return consensusConfig
}
