package model

// StatType groups statistics counters
type StatType string

// StatType constants
const (
	StatTypeLedger         StatType = "ledger"
	StatTypeBlockProcessor StatType = "block_processor"
	StatTypeRollback       StatType = "rollback"
	StatTypeCementing      StatType = "confirmation_height"
	StatTypeUnchecked      StatType = "unchecked"
)

// StatDir is the direction of the counted event
type StatDir string

// StatDir constants
const (
	StatDirIn  StatDir = "in"
	StatDirOut StatDir = "out"
)

// StatsSink receives counter increments keyed by type, detail and direction
type StatsSink interface {
	Inc(statType StatType, detail string, dir StatDir)
	Add(statType StatType, detail string, dir StatDir, value uint64)
}
