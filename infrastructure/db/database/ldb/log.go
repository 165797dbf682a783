package ldb

import "github.com/latticenet/latticed/infrastructure/logger"

var log = logger.RegisterSubSystem("LVDB")
