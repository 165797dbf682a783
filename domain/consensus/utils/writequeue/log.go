package writequeue

import "github.com/latticenet/latticed/infrastructure/logger"

var log = logger.RegisterSubSystem("WRQU")
