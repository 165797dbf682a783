package consensus

import (
	"github.com/latticenet/latticed/infrastructure/logger"
)

var log = logger.RegisterSubSystem("LDGR")
