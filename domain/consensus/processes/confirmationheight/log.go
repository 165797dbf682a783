package confirmationheight

import (
	"github.com/latticenet/latticed/infrastructure/logger"
	"github.com/latticenet/latticed/util/panics"
)

var log = logger.RegisterSubSystem("CMNT")
var spawn = panics.GoroutineWrapperFunc(log)
