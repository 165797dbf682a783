package blockvalidator

import "github.com/latticenet/latticed/infrastructure/logger"

var log = logger.RegisterSubSystem("BLVL")
