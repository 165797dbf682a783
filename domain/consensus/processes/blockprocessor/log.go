package blockprocessor

import (
	"github.com/latticenet/latticed/infrastructure/logger"
	"github.com/latticenet/latticed/util/panics"
)

var log = logger.RegisterSubSystem("BLPR")
var spawn = panics.GoroutineWrapperFunc(log)
