package metrics

import (
	"github.com/latticenet/latticed/infrastructure/logger"
	"github.com/latticenet/latticed/util/panics"
)

var log = logger.RegisterSubSystem("MTRC")
var spawn = panics.GoroutineWrapperFunc(log)
