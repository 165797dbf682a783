package ledgerrollback_test

import (
	"testing"

	"github.com/latticenet/latticed/domain/consensus"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/model/testapi"
	"github.com/latticenet/latticed/domain/consensus/processes/ledgerrollback"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
	"github.com/latticenet/latticed/domain/consensus/utils/testutils"
	"github.com/pkg/errors"
)

type accounts struct {
	genesis *testutils.TestAccount
	first   *testutils.TestAccount
	second  *testutils.TestAccount
}

// buildLedger accepts a genesis send opening the first account and a
// send from the first account opening the second one
func buildLedger(t *testing.T, tc testapi.TestConsensus) (*accounts, []externalapi.DomainHash) {
	params := tc.DAGParams()
	keys := testutils.NewKeyGenerator(1)
	firstKey, firstAccount := keys.Next()
	secondKey, secondAccount := keys.Next()
	a := &accounts{
		genesis: testutils.GenesisTestAccount(params),
		first:   testutils.NewTestAccount(params, firstKey, firstAccount),
		second:  testutils.NewTestAccount(params, secondKey, secondAccount),
	}

	genesisSend := a.genesis.Send(a.first.Account, 100)
	firstOpen := a.first.Receive(consensushashing.BlockHash(genesisSend), 100)
	firstSend := a.first.Send(a.second.Account, 40)
	secondOpen := a.second.Receive(consensushashing.BlockHash(firstSend), 40)

	var hashes []externalapi.DomainHash
	for _, block := range []externalapi.DomainBlock{genesisSend, firstOpen, firstSend, secondOpen} {
		err := tc.ProcessAndFlush(block)
		if err != nil {
			t.Fatalf("ProcessAndFlush: %+v", err)
		}
		hashes = append(hashes, consensushashing.BlockHash(block))
	}
	counts, err := tc.LedgerCounts()
	if err != nil {
		t.Fatalf("LedgerCounts: %+v", err)
	}
	if counts.Blocks != 5 {
		t.Fatalf("expected 5 blocks, got %d", counts.Blocks)
	}
	return a, hashes
}

func rollback(tc testapi.TestConsensus, blockHash externalapi.DomainHash) ([]*model.RolledBackBlock, error) {
	dbTx, err := tc.DatabaseContext().Begin()
	if err != nil {
		return nil, err
	}
	defer dbTx.RollbackUnlessClosed()

	rolledBack, err := tc.LedgerRollback().Rollback(dbTx, blockHash)
	if err != nil {
		return nil, err
	}
	return rolledBack, dbTx.Commit()
}

func TestRollbackReceivedSend(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestRollbackReceivedSend")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		a, hashes := buildLedger(t, tc)

		rolledBack, err := rollback(tc, hashes[0])
		if err != nil {
			t.Fatalf("Rollback: %+v", err)
		}

		// Receives are removed before the sends they receive
		expectedOrder := []externalapi.DomainHash{hashes[3], hashes[2], hashes[1], hashes[0]}
		if len(rolledBack) != len(expectedOrder) {
			t.Fatalf("expected %d rolled back blocks, got %d", len(expectedOrder), len(rolledBack))
		}
		for i, expected := range expectedOrder {
			if rolledBack[i].Hash != expected {
				t.Fatalf("rolled back block %d is %s, expected %s", i, rolledBack[i].Hash, expected)
			}
		}

		genesisInfo, found, err := tc.GetAccountInfo(a.genesis.Account)
		if err != nil || !found {
			t.Fatalf("GetAccountInfo: %t, %+v", found, err)
		}
		params := tc.DAGParams()
		if genesisInfo.Head != params.GenesisHash || !genesisInfo.Balance.Equal(params.GenesisAmount) ||
			genesisInfo.BlockCount != 1 {

			t.Fatalf("genesis account was not restored: %+v", genesisInfo)
		}
		genesisBlock, _, err := tc.GetBlock(params.GenesisHash)
		if err != nil {
			t.Fatalf("GetBlock: %+v", err)
		}
		if !genesisBlock.Sideband.Successor.IsZero() {
			t.Fatalf("genesis still has the successor %s", genesisBlock.Sideband.Successor)
		}

		for _, account := range []externalapi.DomainAccount{a.first.Account, a.second.Account} {
			_, found, err := tc.GetAccountInfo(account)
			if err != nil {
				t.Fatalf("GetAccountInfo: %+v", err)
			}
			if found {
				t.Fatalf("account %s still exists", account)
			}
			pending, err := tc.Pending(account)
			if err != nil {
				t.Fatalf("Pending: %+v", err)
			}
			if len(pending) != 0 {
				t.Fatalf("account %s still has %d pending entries", account, len(pending))
			}
		}

		counts, err := tc.LedgerCounts()
		if err != nil {
			t.Fatalf("LedgerCounts: %+v", err)
		}
		if counts.Blocks != 1 || counts.Accounts != 1 {
			t.Fatalf("unexpected ledger counts %+v", counts)
		}
	})
}

func TestRollbackReceiveRestoresPending(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestRollbackReceiveRestoresPending")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		a, hashes := buildLedger(t, tc)

		rolledBack, err := rollback(tc, hashes[3])
		if err != nil {
			t.Fatalf("Rollback: %+v", err)
		}
		if len(rolledBack) != 1 {
			t.Fatalf("expected a single rolled back block, got %d", len(rolledBack))
		}

		// The open was never cemented, so the account leaves no
		// confirmation height behind
		height, err := tc.ConfirmationHeight(a.second.Account)
		if err != nil {
			t.Fatalf("ConfirmationHeight: %+v", err)
		}
		if height.Height != 0 || !height.Frontier.IsZero() {
			t.Fatalf("unexpected confirmation height %+v of a rolled back account", height)
		}
		cemented, err := tc.LedgerCounts()
		if err != nil {
			t.Fatalf("LedgerCounts: %+v", err)
		}
		if cemented.Cemented != 1 {
			t.Fatalf("expected only the genesis to be cemented, got %d", cemented.Cemented)
		}

		pending, err := tc.Pending(a.second.Account)
		if err != nil {
			t.Fatalf("Pending: %+v", err)
		}
		if len(pending) != 1 {
			t.Fatalf("expected a single pending entry, got %d", len(pending))
		}
		entry := pending[0]
		if entry.Key.Hash != hashes[2] || entry.Info.Source != a.first.Account ||
			!entry.Info.Amount.Equal(externalapi.NewDomainAmountFromUint64(40)) {

			t.Fatalf("unexpected pending entry %+v %+v", entry.Key, entry.Info)
		}

		firstBlock, _, err := tc.GetBlock(hashes[2])
		if err != nil {
			t.Fatalf("GetBlock: %+v", err)
		}
		if !firstBlock.Sideband.Successor.IsZero() {
			t.Fatalf("the send of the first account has a successor")
		}

		// The restored pending entry can be received again
		a.second.Head = externalapi.ZeroHash
		a.second.Balance = externalapi.ZeroAmount
		reopen := a.second.Receive(hashes[2], 40)
		err = tc.ProcessAndFlush(reopen)
		if err != nil {
			t.Fatalf("ProcessAndFlush: %+v", err)
		}
		exists, err := tc.BlockExists(consensushashing.BlockHash(reopen))
		if err != nil || !exists {
			t.Fatalf("receive of a restored pending entry was not accepted: %+v", err)
		}
	})
}

func TestRollbackCemented(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestRollbackCemented")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		_, hashes := buildLedger(t, tc)
		err = tc.CementBlock(hashes[1])
		if err != nil {
			t.Fatalf("CementBlock: %+v", err)
		}

		_, err = rollback(tc, hashes[1])
		if !errors.Is(err, ledgerrollback.ErrRollbackCemented) {
			t.Fatalf("expected ErrRollbackCemented, got: %+v", err)
		}
		for _, blockHash := range hashes {
			exists, err := tc.BlockExists(blockHash)
			if err != nil || !exists {
				t.Fatalf("block %s was removed by a failed rollback: %+v", blockHash, err)
			}
		}

		// Blocks above the confirmation height can still be rolled back
		rolledBack, err := rollback(tc, hashes[2])
		if err != nil {
			t.Fatalf("Rollback: %+v", err)
		}
		if len(rolledBack) != 2 {
			t.Fatalf("expected 2 rolled back blocks, got %d", len(rolledBack))
		}
	})
}
