package uncheckedstore_test

import (
	"testing"

	"github.com/latticenet/latticed/domain/consensus/datastructures/uncheckedstore"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/testutils"
)

func TestUncheckedStore(t *testing.T) {
	dbManager, teardown, err := testutils.NewTestDBManager("TestUncheckedStore")
	if err != nil {
		t.Fatalf("NewTestDBManager: %+v", err)
	}
	defer teardown(false)

	store := uncheckedstore.New()
	dependency := testutils.Hash(4)
	keys := []*externalapi.UncheckedKey{
		{Dependency: dependency, Hash: testutils.Hash(1)},
		{Dependency: dependency, Hash: testutils.Hash(2)},
		{Dependency: testutils.Hash(5), Hash: testutils.Hash(3)},
	}
	for i, key := range keys {
		block := externalapi.NewReceiveBlock(testutils.Hash(byte(i+10)), key.Dependency)
		err := store.Put(dbManager, key, &externalapi.UncheckedInfo{
			Block:    block,
			Arrival:  int64(i),
			Verified: externalapi.SignatureVerificationValid,
			Source:   externalapi.BlockSourceBootstrap,
		})
		if err != nil {
			t.Fatalf("Put: %+v", err)
		}
	}

	dependents, err := store.Dependents(dbManager, dependency)
	if err != nil {
		t.Fatalf("Dependents: %+v", err)
	}
	if len(dependents) != 2 {
		t.Fatalf("unexpected number of dependents. Want: 2, got: %d", len(dependents))
	}
	for _, dependent := range dependents {
		if dependent.Key.Dependency != dependency {
			t.Fatalf("dependent of %s was returned for %s", dependent.Key.Dependency, dependency)
		}
		if dependent.Info.Verified != externalapi.SignatureVerificationValid {
			t.Fatalf("unexpected verification %s", dependent.Info.Verified)
		}
		if dependent.Info.Source != externalapi.BlockSourceBootstrap {
			t.Fatalf("unexpected source %s", dependent.Info.Source)
		}
	}

	all, err := store.All(dbManager)
	if err != nil {
		t.Fatalf("All: %+v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unexpected number of entries. Want: 3, got: %d", len(all))
	}

	err = store.Delete(dbManager, keys[0])
	if err != nil {
		t.Fatalf("Delete: %+v", err)
	}
	count, err := store.Count(dbManager)
	if err != nil {
		t.Fatalf("Count: %+v", err)
	}
	if count != 2 {
		t.Fatalf("unexpected count. Want: 2, got: %d", count)
	}
}
