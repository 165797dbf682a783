package metrics

import (
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerCountsFunc reads the current sizes of the ledger tables
type LedgerCountsFunc func() (*externalapi.LedgerCounts, error)

// RegisterLedgerGauges registers gauges reporting the sizes of the
// ledger tables, read from countsFunc on every scrape
func RegisterLedgerGauges(registerer prometheus.Registerer, countsFunc LedgerCountsFunc) error {
	gauges := []struct {
		name  string
		help  string
		value func(counts *externalapi.LedgerCounts) uint64
	}{
		{"blocks", "Number of blocks in the ledger.",
			func(counts *externalapi.LedgerCounts) uint64 { return counts.Blocks }},
		{"cemented_blocks", "Number of cemented blocks.",
			func(counts *externalapi.LedgerCounts) uint64 { return counts.Cemented }},
		{"accounts", "Number of opened accounts.",
			func(counts *externalapi.LedgerCounts) uint64 { return counts.Accounts }},
		{"unchecked_blocks", "Number of blocks waiting for a missing dependency.",
			func(counts *externalapi.LedgerCounts) uint64 { return counts.Unchecked }},
	}

	for _, gauge := range gauges {
		value := gauge.value
		collector := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      gauge.name,
			Help:      gauge.help,
		}, func() float64 {
			counts, err := countsFunc()
			if err != nil {
				log.Errorf("Could not read the ledger counts: %+v", err)
				return 0
			}
			return float64(value(counts))
		})
		err := registerer.Register(collector)
		if err != nil {
			return errors.Wrapf(err, "could not register the %s gauge", gauge.name)
		}
	}
	return nil
}
