package services

import (
	"testing"

	"academic-registry-api/models"
)

func TestPaidAccessFlow(t *testing.T) {
	env := newTestEnv(t)
	owner := newMember(t, env.db)
	buyer := newMember(t, env.db)

	dataset, err := env.datasets.CreateDataset(owner, "QmData", 1000, false, "ipfs://data")
	if err != nil {
		t.Fatalf("create dataset: %v", err)
	}

	// No grant yet: rejected regardless of payment.
	err = env.datasets.RequestAccess(buyer, dataset.DatasetID, 1000)
	wantKind(t, err, KindUnauthorized, "Not authorized")

	if err := env.datasets.GrantAccess(owner, dataset.DatasetID, buyer.UserID, models.AccessRead); err != nil {
		t.Fatalf("grant access: %v", err)
	}

	// Granted but underpaying.
	err = env.datasets.RequestAccess(buyer, dataset.DatasetID, 500)
	wantKind(t, err, KindPayment, "Insufficient payment")

	fund(t, env.db, buyer.UserID, 1000)
	if err := env.datasets.RequestAccess(buyer, dataset.DatasetID, 1000); err != nil {
		t.Fatalf("paid access: %v", err)
	}

	if got := balanceOf(t, env.db, owner.UserID); got != 1000 {
		t.Errorf("owner balance = %d, want 1000", got)
	}
	if got := balanceOf(t, env.db, buyer.UserID); got != 0 {
		t.Errorf("buyer balance = %d, want 0", got)
	}

	updated, err := env.datasets.GetDataset(dataset.DatasetID)
	if err != nil {
		t.Fatalf("get dataset: %v", err)
	}
	if updated.TotalEarned != 1000 {
		t.Errorf("total earned = %d, want 1000", updated.TotalEarned)
	}
}

func TestPublicDatasetAndOwnerAccessAreFree(t *testing.T) {
	env := newTestEnv(t)
	owner := newMember(t, env.db)
	visitor := newMember(t, env.db)

	public, err := env.datasets.CreateDataset(owner, "QmPub", 500, true, "")
	if err != nil {
		t.Fatalf("create public dataset: %v", err)
	}
	if err := env.datasets.RequestAccess(visitor, public.DatasetID, 0); err != nil {
		t.Fatalf("public access: %v", err)
	}

	private, err := env.datasets.CreateDataset(owner, "QmPriv", 500, false, "")
	if err != nil {
		t.Fatalf("create private dataset: %v", err)
	}
	if err := env.datasets.RequestAccess(owner, private.DatasetID, 0); err != nil {
		t.Fatalf("owner access: %v", err)
	}

	if n := countEvents(t, env.db, EventDataAccessed); n != 2 {
		t.Errorf("DataAccessed events = %d, want 2", n)
	}
}

func TestFrozenDatasetRejectsUpdates(t *testing.T) {
	env := newTestEnv(t)
	owner := newMember(t, env.db)

	dataset, err := env.datasets.CreateDataset(owner, "QmV1", 0, true, "")
	if err != nil {
		t.Fatalf("create dataset: %v", err)
	}
	if err := env.datasets.Freeze(owner, dataset.DatasetID, true); err != nil {
		t.Fatalf("freeze: %v", err)
	}

	err = env.datasets.UpdateDataset(owner, dataset.DatasetID, "QmV2", "")
	wantKind(t, err, KindState, "Data is frozen")

	// Unfreeze is allowed and updates flow again, appending a version.
	if err := env.datasets.Freeze(owner, dataset.DatasetID, false); err != nil {
		t.Fatalf("unfreeze: %v", err)
	}
	if err := env.datasets.UpdateDataset(owner, dataset.DatasetID, "QmV2", ""); err != nil {
		t.Fatalf("update after unfreeze: %v", err)
	}

	versions, err := env.datasets.GetVersions(dataset.DatasetID)
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("versions = %d, want 2", len(versions))
	}
	if versions[1].IpfsHash != "QmV2" {
		t.Errorf("latest version hash = %q, want QmV2", versions[1].IpfsHash)
	}
}

func TestGrantRevokeRemovesAuthorizedUser(t *testing.T) {
	env := newTestEnv(t)
	owner := newMember(t, env.db)
	grantee := newMember(t, env.db)

	dataset, err := env.datasets.CreateDataset(owner, "QmData", 0, false, "")
	if err != nil {
		t.Fatalf("create dataset: %v", err)
	}

	if err := env.datasets.GrantAccess(grantee, dataset.DatasetID, grantee.UserID, models.AccessRead); KindOf(err) != KindUnauthorized {
		t.Fatalf("self grant: expected unauthorized, got %v", err)
	}

	if err := env.datasets.GrantAccess(owner, dataset.DatasetID, grantee.UserID, models.AccessWrite); err != nil {
		t.Fatalf("grant: %v", err)
	}
	level, err := env.datasets.CheckAccessLevel(dataset.DatasetID, grantee.UserID)
	if err != nil {
		t.Fatalf("check level: %v", err)
	}
	if level != models.AccessWrite {
		t.Errorf("level = %d, want write", level)
	}

	if err := env.datasets.GrantAccess(owner, dataset.DatasetID, grantee.UserID, models.AccessNone); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	users, err := env.datasets.AuthorizedUsers(dataset.DatasetID)
	if err != nil {
		t.Fatalf("authorized users: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("authorized users = %v, want empty", users)
	}
}
