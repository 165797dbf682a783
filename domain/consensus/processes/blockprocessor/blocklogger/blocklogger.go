// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocklogger

import (
	"sync"
	"time"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/util/mstime"
)

const logInterval = 10 * time.Second

// BlockLogger logs the number of accepted blocks as an information
// message to show progress to the user. In order to prevent spam, it
// limits logging to one message every 10 seconds with duration and
// totals included.
type BlockLogger struct {
	lock sync.Mutex

	acceptedBlocks   int64
	acceptedSends    int64
	lastBlockLogTime time.Time
}

// New returns a new BlockLogger
func New() *BlockLogger {
	return &BlockLogger{lastBlockLogTime: time.Now()}
}

// LogBlock counts an accepted block and logs the totals if enough time
// has passed since the last message
func (bl *BlockLogger) LogBlock(block *externalapi.BlockWithSideband) {
	bl.lock.Lock()
	defer bl.lock.Unlock()

	bl.acceptedBlocks++
	if block.Sideband.Details.IsSend {
		bl.acceptedSends++
	}

	now := time.Now()
	duration := now.Sub(bl.lastBlockLogTime)
	if duration < logInterval {
		return
	}

	// Truncate the duration to 10s of milliseconds.
	tDuration := duration.Round(10 * time.Millisecond)

	blockStr := "blocks"
	if bl.acceptedBlocks == 1 {
		blockStr = "block"
	}
	sendStr := "sends"
	if bl.acceptedSends == 1 {
		sendStr = "send"
	}

	log.Infof("Processed %d %s in the last %s (%d %s, %s)",
		bl.acceptedBlocks, blockStr, tDuration, bl.acceptedSends, sendStr,
		mstime.UnixMilliToTime(block.Sideband.Timestamp))

	bl.acceptedBlocks = 0
	bl.acceptedSends = 0
	bl.lastBlockLogTime = now
}
