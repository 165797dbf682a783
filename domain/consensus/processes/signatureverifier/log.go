package signatureverifier

import (
	"github.com/latticenet/latticed/infrastructure/logger"
	"github.com/latticenet/latticed/util/panics"
)

var log = logger.RegisterSubSystem("SGVR")
var spawn = panics.GoroutineWrapperFunc(log)
