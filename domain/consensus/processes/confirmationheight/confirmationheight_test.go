package confirmationheight_test

import (
	"sync"
	"testing"

	"github.com/latticenet/latticed/domain/consensus"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/model/testapi"
	"github.com/latticenet/latticed/domain/consensus/processes/confirmationheight"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
	"github.com/latticenet/latticed/domain/consensus/utils/testutils"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type cementingRecorder struct {
	lock            sync.Mutex
	cemented        []externalapi.DomainHash
	alreadyCemented []externalapi.DomainHash
}

func (r *cementingRecorder) OnBlockCemented(_ *externalapi.BlockWithSideband, blockHash externalapi.DomainHash) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.cemented = append(r.cemented, blockHash)
}

func (r *cementingRecorder) OnBlockAlreadyCemented(blockHash externalapi.DomainHash) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.alreadyCemented = append(r.alreadyCemented, blockHash)
}

func (r *cementingRecorder) snapshot() (cemented []externalapi.DomainHash, alreadyCemented []externalapi.DomainHash) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]externalapi.DomainHash{}, r.cemented...), append([]externalapi.DomainHash{}, r.alreadyCemented...)
}

// chain is a genesis send opening the first account, a send from it
// opening the second account, and the blocks in the order they were
// created
type chain struct {
	genesis *testutils.TestAccount
	first   *testutils.TestAccount
	second  *testutils.TestAccount
	blocks  []externalapi.DomainBlock
}

func (c *chain) hash(index int) externalapi.DomainHash {
	return consensushashing.BlockHash(c.blocks[index])
}

func buildChain(t *testing.T, tc testapi.TestConsensus, seed int64) *chain {
	params := tc.DAGParams()
	keys := testutils.NewKeyGenerator(seed)
	firstKey, firstAccount := keys.Next()
	secondKey, secondAccount := keys.Next()
	c := &chain{
		genesis: testutils.GenesisTestAccount(params),
		first:   testutils.NewTestAccount(params, firstKey, firstAccount),
		second:  testutils.NewTestAccount(params, secondKey, secondAccount),
	}

	genesisSend := c.genesis.Send(c.first.Account, 100)
	firstOpen := c.first.Receive(consensushashing.BlockHash(genesisSend), 100)
	firstSend := c.first.Send(c.second.Account, 40)
	secondOpen := c.second.Receive(consensushashing.BlockHash(firstSend), 40)
	c.blocks = []externalapi.DomainBlock{genesisSend, firstOpen, firstSend, secondOpen}

	for _, block := range c.blocks {
		err := tc.ProcessAndFlush(block)
		if err != nil {
			t.Fatalf("ProcessAndFlush: %+v", err)
		}
		exists, err := tc.BlockExists(consensushashing.BlockHash(block))
		if err != nil || !exists {
			t.Fatalf("block %s was not accepted: %+v", consensushashing.BlockHash(block), err)
		}
	}
	return c
}

func requireConfirmationHeight(t *testing.T, tc testapi.TestConsensus, account externalapi.DomainAccount,
	expectedHeight uint64, expectedFrontier externalapi.DomainHash) {

	info, err := tc.ConfirmationHeight(account)
	if err != nil {
		t.Fatalf("ConfirmationHeight: %+v", err)
	}
	if info.Height != expectedHeight || info.Frontier != expectedFrontier {
		t.Fatalf("expected confirmation height %d at %s for %s, got %d at %s",
			expectedHeight, expectedFrontier, account, info.Height, info.Frontier)
	}
}

func testCementReceiveCementsSources(t *testing.T, consensusConfig *consensus.Config, testName string) {
	tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, testName)
	if err != nil {
		t.Fatalf("Error setting up consensus: %+v", err)
	}
	defer teardown(false)

	recorder := &cementingRecorder{}
	tc.RegisterCementingObserver(recorder)
	c := buildChain(t, tc, 1)

	err = tc.CementBlock(c.hash(3))
	if err != nil {
		t.Fatalf("CementBlock: %+v", err)
	}

	requireConfirmationHeight(t, tc, c.genesis.Account, 2, c.hash(0))
	requireConfirmationHeight(t, tc, c.first.Account, 2, c.hash(2))
	requireConfirmationHeight(t, tc, c.second.Account, 1, c.hash(3))

	cemented, _ := recorder.snapshot()
	if len(cemented) != len(c.blocks) {
		t.Fatalf("expected %d cemented notifications, got %d", len(c.blocks), len(cemented))
	}
	// Every send is cemented before the receive that receives it
	for i := range c.blocks {
		if cemented[i] != c.hash(i) {
			t.Fatalf("cemented notification %d is %s, expected %s", i, cemented[i], c.hash(i))
		}
		confirmed, err := tc.BlockConfirmed(c.hash(i))
		if err != nil {
			t.Fatalf("BlockConfirmed: %+v", err)
		}
		if !confirmed {
			t.Fatalf("block %d is not confirmed", i)
		}
	}

	counts, err := tc.LedgerCounts()
	if err != nil {
		t.Fatalf("LedgerCounts: %+v", err)
	}
	if counts.Cemented != counts.Blocks || counts.Blocks != uint64(len(c.blocks)+1) {
		t.Fatalf("unexpected ledger counts %+v", counts)
	}
	confirmed := testutil.ToFloat64(tc.StatsCounter(model.StatTypeCementing, "blocks_confirmed", model.StatDirOut))
	if confirmed != float64(len(c.blocks)) {
		t.Fatalf("expected %d blocks_confirmed, got %f", len(c.blocks), confirmed)
	}
}

func TestCementReceiveCementsSources(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		testCementReceiveCementsSources(t, consensusConfig, "TestCementReceiveCementsSources")
	})
}

func TestCementInSmallBatches(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		smallBatches := *consensusConfig
		smallBatches.CementingBatchSize = 1
		testCementReceiveCementsSources(t, &smallBatches, "TestCementInSmallBatches")
	})
}

func TestCementLongChainInBatches(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		smallBatches := *consensusConfig
		smallBatches.CementingBatchSize = 2
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(&smallBatches, "TestCementLongChainInBatches")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		recorder := &cementingRecorder{}
		tc.RegisterCementingObserver(recorder)

		genesis := testutils.GenesisTestAccount(tc.DAGParams())
		keys := testutils.NewKeyGenerator(5)
		privateKey, account := keys.Next()
		receiver := testutils.NewTestAccount(tc.DAGParams(), privateKey, account)

		var expected []externalapi.DomainHash
		for i := 0; i < 4; i++ {
			send := genesis.Send(testutils.Account(byte(i+1)), 1)
			expected = append(expected, consensushashing.BlockHash(send))
			err := tc.ProcessAndFlush(send)
			if err != nil {
				t.Fatalf("ProcessAndFlush: %+v", err)
			}
		}
		send := genesis.Send(receiver.Account, 10)
		sendHash := consensushashing.BlockHash(send)
		open := receiver.Receive(sendHash, 10)
		expected = append(expected, sendHash, consensushashing.BlockHash(open))
		for _, block := range []externalapi.DomainBlock{send, open} {
			err := tc.ProcessAndFlush(block)
			if err != nil {
				t.Fatalf("ProcessAndFlush: %+v", err)
			}
		}

		err = tc.CementBlock(consensushashing.BlockHash(open))
		if err != nil {
			t.Fatalf("CementBlock: %+v", err)
		}
		requireConfirmationHeight(t, tc, genesis.Account, 6, sendHash)
		requireConfirmationHeight(t, tc, receiver.Account, 1, consensushashing.BlockHash(open))

		cemented, _ := recorder.snapshot()
		if len(cemented) != len(expected) {
			t.Fatalf("expected %d cemented notifications, got %d", len(expected), len(cemented))
		}
		for i, blockHash := range expected {
			if cemented[i] != blockHash {
				t.Fatalf("cemented notification %d is %s, expected %s", i, cemented[i], blockHash)
			}
		}

		counts, err := tc.LedgerCounts()
		if err != nil {
			t.Fatalf("LedgerCounts: %+v", err)
		}
		if counts.Cemented != counts.Blocks {
			t.Fatalf("unexpected ledger counts %+v", counts)
		}
	})
}

func TestCementAlreadyCemented(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestCementAlreadyCemented")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		recorder := &cementingRecorder{}
		tc.RegisterCementingObserver(recorder)
		c := buildChain(t, tc, 2)

		err = tc.CementBlock(c.hash(2))
		if err != nil {
			t.Fatalf("CementBlock: %+v", err)
		}
		requireConfirmationHeight(t, tc, c.first.Account, 2, c.hash(2))

		// Cementing lower blocks never lowers the confirmation height
		err = tc.CementBlock(c.hash(1))
		if err != nil {
			t.Fatalf("CementBlock: %+v", err)
		}
		requireConfirmationHeight(t, tc, c.first.Account, 2, c.hash(2))

		err = tc.CementBlock(tc.DAGParams().GenesisHash)
		if err != nil {
			t.Fatalf("CementBlock: %+v", err)
		}

		cemented, alreadyCemented := recorder.snapshot()
		if len(cemented) != 3 {
			t.Fatalf("expected 3 cemented notifications, got %d", len(cemented))
		}
		if len(alreadyCemented) != 2 || alreadyCemented[0] != c.hash(1) ||
			alreadyCemented[1] != tc.DAGParams().GenesisHash {

			t.Fatalf("unexpected already cemented notifications %v", alreadyCemented)
		}

		confirmed, err := tc.BlockConfirmed(c.hash(3))
		if err != nil {
			t.Fatalf("BlockConfirmed: %+v", err)
		}
		if confirmed {
			t.Fatalf("a block above the confirmation height is confirmed")
		}
	})
}

func TestCementSelfSend(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestCementSelfSend")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		genesis := testutils.GenesisTestAccount(tc.DAGParams())
		send := genesis.Send(genesis.Account, 5)
		receive := genesis.Receive(consensushashing.BlockHash(send), 5)
		for _, block := range []externalapi.DomainBlock{send, receive} {
			err := tc.ProcessAndFlush(block)
			if err != nil {
				t.Fatalf("ProcessAndFlush: %+v", err)
			}
		}

		err = tc.CementBlock(consensushashing.BlockHash(receive))
		if err != nil {
			t.Fatalf("CementBlock: %+v", err)
		}
		requireConfirmationHeight(t, tc, genesis.Account, 3, consensushashing.BlockHash(receive))
	})
}

func TestCementQueued(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestCementQueued")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		c := buildChain(t, tc, 3)
		tc.Cement(c.hash(1))
		tc.Cement(c.hash(3))
		tc.FlushCementing()

		if tc.IsCementing(c.hash(3)) {
			t.Fatalf("block is still being cemented after a flush")
		}
		requireConfirmationHeight(t, tc, c.second.Account, 1, c.hash(3))
		requireConfirmationHeight(t, tc, c.first.Account, 2, c.hash(2))
	})
}

func TestCementVanishedBlock(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestCementVanishedBlock")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		err = tc.CementBlock(testutils.Hash(1))
		if !errors.Is(err, confirmationheight.ErrBlockVanished) {
			t.Fatalf("expected ErrBlockVanished, got: %+v", err)
		}

		// The cementer keeps running after a block vanished
		tc.Cement(testutils.Hash(2))
		tc.FlushCementing()
		vanished := testutil.ToFloat64(tc.StatsCounter(model.StatTypeCementing, "vanished", model.StatDirIn))
		if vanished != 1 {
			t.Fatalf("expected 1 vanished, got %f", vanished)
		}
		requireConfirmationHeight(t, tc, tc.DAGParams().GenesisAccount, 1, tc.DAGParams().GenesisHash)
	})
}

func TestCementAfterStop(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestCementAfterStop")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		c := buildChain(t, tc, 4)
		tc.ConfirmationHeightProcessor().Stop()

		err = tc.CementBlock(c.hash(3))
		if !errors.Is(err, confirmationheight.ErrStopped) {
			t.Fatalf("expected ErrStopped, got: %+v", err)
		}
		requireConfirmationHeight(t, tc, c.second.Account, 0, externalapi.ZeroHash)
	})
}
