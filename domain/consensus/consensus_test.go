package consensus_test

import (
	"math/rand"
	"testing"

	"github.com/latticenet/latticed/domain/consensus"
	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/model/testapi"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
	"github.com/latticenet/latticed/domain/consensus/utils/testutils"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func processAndRequireAccepted(t *testing.T, tc testapi.TestConsensus, blocks ...externalapi.DomainBlock) {
	err := tc.ProcessAndFlush(blocks...)
	if err != nil {
		t.Fatalf("ProcessAndFlush: %+v", err)
	}
	for _, block := range blocks {
		exists, err := tc.BlockExists(consensushashing.BlockHash(block))
		if err != nil {
			t.Fatalf("BlockExists: %+v", err)
		}
		if !exists {
			t.Fatalf("block %s was not accepted", consensushashing.BlockHash(block))
		}
	}
}

type pendingSend struct {
	hash   externalapi.DomainHash
	amount uint64
}

// TestConsensus_Conservation moves random amounts between accounts and
// checks that balances and pending amounts always add up to the genesis
// amount
func TestConsensus_Conservation(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestConsensus_Conservation")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		params := tc.DAGParams()
		keys := testutils.NewKeyGenerator(1)
		participants := []*testutils.TestAccount{testutils.GenesisTestAccount(params)}
		for i := 0; i < 4; i++ {
			privateKey, account := keys.Next()
			participants = append(participants, testutils.NewTestAccount(params, privateKey, account))
		}
		unreceived := make(map[externalapi.DomainAccount][]pendingSend)

		random := rand.New(rand.NewSource(1))
		for step := 0; step < 40; step++ {
			receiver := participants[random.Intn(len(participants))]
			if sends := unreceived[receiver.Account]; len(sends) > 0 && random.Intn(2) == 0 {
				send := sends[0]
				unreceived[receiver.Account] = sends[1:]
				processAndRequireAccepted(t, tc, receiver.Receive(send.hash, send.amount))
				continue
			}

			sender := participants[random.Intn(len(participants))]
			if sender.Head.IsZero() || sender.Balance.IsZero() {
				continue
			}
			amount := uint64(random.Intn(1000) + 1)
			if sender.Balance.Cmp(externalapi.NewDomainAmountFromUint64(amount)) < 0 {
				continue
			}
			send := sender.Send(receiver.Account, amount)
			processAndRequireAccepted(t, tc, send)
			unreceived[receiver.Account] = append(unreceived[receiver.Account],
				pendingSend{hash: consensushashing.BlockHash(send), amount: amount})
		}

		total := externalapi.ZeroAmount
		for _, participant := range participants {
			balance, err := tc.Balance(participant.Account)
			if err != nil {
				t.Fatalf("Balance: %+v", err)
			}
			if !balance.Equal(participant.Balance) {
				t.Fatalf("expected balance %s for %s, got %s", participant.Balance, participant.Account, balance)
			}
			pending, err := tc.Pending(participant.Account)
			if err != nil {
				t.Fatalf("Pending: %+v", err)
			}
			if len(pending) != len(unreceived[participant.Account]) {
				t.Fatalf("expected %d pending entries for %s, got %d",
					len(unreceived[participant.Account]), participant.Account, len(pending))
			}

			var ok bool
			total, ok = total.Add(balance)
			if !ok {
				t.Fatalf("total overflows")
			}
			for _, entry := range pending {
				total, ok = total.Add(entry.Info.Amount)
				if !ok {
					t.Fatalf("total overflows")
				}
			}
		}
		if !total.Equal(params.GenesisAmount) {
			t.Fatalf("expected a total of %s, got %s", params.GenesisAmount, total)
		}

		// Processing the same blocks again changes nothing
		before, err := tc.LedgerCounts()
		if err != nil {
			t.Fatalf("LedgerCounts: %+v", err)
		}
		for _, participant := range participants {
			if participant.Head.IsZero() {
				continue
			}
			head, found, err := tc.GetBlock(participant.Head)
			if err != nil || !found {
				t.Fatalf("GetBlock: %t, %+v", found, err)
			}
			err = tc.ProcessAndFlush(head.Block)
			if err != nil {
				t.Fatalf("ProcessAndFlush: %+v", err)
			}
		}
		after, err := tc.LedgerCounts()
		if err != nil {
			t.Fatalf("LedgerCounts: %+v", err)
		}
		if *before != *after {
			t.Fatalf("processing old blocks changed the ledger counts from %+v to %+v", before, after)
		}
	})
}

func TestConsensus_Frontiers(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestConsensus_Frontiers")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		params := tc.DAGParams()
		genesis := testutils.GenesisTestAccount(params)
		keys := testutils.NewKeyGenerator(2)
		heads := map[externalapi.DomainAccount]externalapi.DomainHash{genesis.Account: params.GenesisHash}
		for i := 0; i < 3; i++ {
			privateKey, account := keys.Next()
			receiver := testutils.NewTestAccount(params, privateKey, account)
			send := genesis.Send(receiver.Account, 10)
			open := receiver.Receive(consensushashing.BlockHash(send), 10)
			processAndRequireAccepted(t, tc, send)
			processAndRequireAccepted(t, tc, open)
			heads[receiver.Account] = receiver.Head
		}
		heads[genesis.Account] = genesis.Head

		frontiers, err := tc.Frontiers(externalapi.BurnAccount, 10)
		if err != nil {
			t.Fatalf("Frontiers: %+v", err)
		}
		if len(frontiers) != len(heads) {
			t.Fatalf("expected %d frontiers, got %d", len(heads), len(frontiers))
		}
		for i, frontier := range frontiers {
			if heads[frontier.Account] != frontier.Head {
				t.Fatalf("unexpected head %s for %s", frontier.Head, frontier.Account)
			}
			if i > 0 && !frontiers[i-1].Account.AsHash().Less(frontier.Account.AsHash()) {
				t.Fatalf("frontiers are not in ascending account order")
			}
		}

		limited, err := tc.Frontiers(frontiers[1].Account, 2)
		if err != nil {
			t.Fatalf("Frontiers: %+v", err)
		}
		if len(limited) != 2 || limited[0].Account != frontiers[1].Account || limited[1].Account != frontiers[2].Account {
			t.Fatalf("unexpected limited frontiers %v", limited)
		}
	})
}

func TestConsensus_ForceCementedBlock(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, consensusConfig *consensus.Config) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(consensusConfig, "TestConsensus_ForceCementedBlock")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		params := tc.DAGParams()
		genesis := testutils.GenesisTestAccount(params)
		send := genesis.Send(testutils.Account(1), 10)
		processAndRequireAccepted(t, tc, send)
		sendHash := consensushashing.BlockHash(send)

		err = tc.CementBlock(sendHash)
		if err != nil {
			t.Fatalf("CementBlock: %+v", err)
		}

		competitor := externalapi.NewStateBlock(genesis.Account, params.GenesisHash, genesis.Representative,
			genesis.Balance, testutils.Account(2).AsHash())
		testutils.SignAndSolve(competitor, genesis.PrivateKey, testutils.MaxThreshold(params))
		tc.ForceBlock(competitor)
		tc.Flush()

		exists, err := tc.BlockExists(consensushashing.BlockHash(competitor))
		if err != nil {
			t.Fatalf("BlockExists: %+v", err)
		}
		if exists {
			t.Fatalf("a forced block replaced a cemented block")
		}
		confirmed, err := tc.BlockConfirmed(sendHash)
		if err != nil || !confirmed {
			t.Fatalf("cemented block is no longer confirmed: %+v", err)
		}
		if value := testutil.ToFloat64(tc.StatsCounter(model.StatTypeRollback, "cemented", model.StatDirIn)); value != 1 {
			t.Fatalf("expected 1 cemented rollback attempt, got %f", value)
		}
	})
}
