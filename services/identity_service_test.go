package services

import (
	"testing"

	"academic-registry-api/models"
)

func TestRegisterReviewerGrantsStartingState(t *testing.T) {
	env := newTestEnv(t)
	caller := newMember(t, env.db)

	reviewer, err := env.identity.Register(caller, "ipfs://reviewer-meta")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if reviewer.Tier != models.TierJunior {
		t.Errorf("tier = %d, want %d", reviewer.Tier, models.TierJunior)
	}
	if reviewer.Reputation != models.InitialReputation {
		t.Errorf("reputation = %d, want %d", reviewer.Reputation, models.InitialReputation)
	}
	if reviewer.TokenBalance != models.InitialTokenGrant {
		t.Errorf("token balance = %d, want %d", reviewer.TokenBalance, models.InitialTokenGrant)
	}
	if !reviewer.IsActive {
		t.Error("new reviewer should be active")
	}

	history, err := env.identity.TokenHistory(caller.UserID)
	if err != nil {
		t.Fatalf("token history: %v", err)
	}
	if len(history) != 1 || history[0].Reason != "registration" || history[0].Amount != models.InitialTokenGrant {
		t.Errorf("unexpected mint ledger: %+v", history)
	}

	if n := countEvents(t, env.db, EventReviewerRegistered); n != 1 {
		t.Errorf("ReviewerRegistered events = %d, want 1", n)
	}
}

func TestRegisterReviewerTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	caller := newMember(t, env.db)

	if _, err := env.identity.Register(caller, ""); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := env.identity.Register(caller, "")
	wantKind(t, err, KindDuplicate, "Already registered as reviewer")

	// The failed attempt must not mint anything.
	reviewer, err := env.identity.GetReviewer(caller.UserID)
	if err != nil {
		t.Fatalf("get reviewer: %v", err)
	}
	if reviewer.TokenBalance != models.InitialTokenGrant {
		t.Errorf("token balance = %d, want %d", reviewer.TokenBalance, models.InitialTokenGrant)
	}
}

func TestDeactivatedReviewerStillBlocksReRegistration(t *testing.T) {
	env := newTestEnv(t)
	admin := newAdmin(t, env.db)
	caller := newMember(t, env.db)

	if _, err := env.identity.Register(caller, ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := env.identity.Deactivate(admin, caller.UserID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err := env.identity.Register(caller, "")
	wantKind(t, err, KindDuplicate, "Already registered as reviewer")
}

func TestTierAndReputationUpdatesAreAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := newAdmin(t, env.db)
	member := newMember(t, env.db)

	if _, err := env.identity.Register(member, ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := env.identity.UpdateTier(member, member.UserID, models.TierExpert); KindOf(err) != KindUnauthorized {
		t.Errorf("member tier update: expected unauthorized, got %v", err)
	}
	if err := env.identity.UpdateReputation(member, member.UserID, 50); KindOf(err) != KindUnauthorized {
		t.Errorf("member reputation update: expected unauthorized, got %v", err)
	}

	if err := env.identity.UpdateTier(admin, member.UserID, models.TierSenior); err != nil {
		t.Fatalf("admin tier update: %v", err)
	}
	if err := env.identity.UpdateReputation(admin, member.UserID, -30); err != nil {
		t.Fatalf("admin reputation update: %v", err)
	}

	reviewer, err := env.identity.GetReviewer(member.UserID)
	if err != nil {
		t.Fatalf("get reviewer: %v", err)
	}
	if reviewer.Tier != models.TierSenior {
		t.Errorf("tier = %d, want %d", reviewer.Tier, models.TierSenior)
	}
	if reviewer.Reputation != models.InitialReputation-30 {
		t.Errorf("reputation = %d, want %d", reviewer.Reputation, models.InitialReputation-30)
	}
}

func TestDistributeRewardRejectsUnknownOrchestrator(t *testing.T) {
	env := newTestEnv(t)
	member := newMember(t, env.db)
	if _, err := env.identity.Register(member, ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	impostor := &JournalService{db: env.db}
	err := env.identity.DistributeReward(env.db, impostor, member.UserID, 1, 5)
	wantKind(t, err, KindUnauthorized, "Not authorized")

	err = env.identity.DistributeReward(env.db, nil, member.UserID, 1, 5)
	wantKind(t, err, KindUnauthorized, "Not authorized")
}
