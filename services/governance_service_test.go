package services

import (
	"testing"
	"time"

	"academic-registry-api/models"
)

func registerReviewer(t *testing.T, env *testEnv, caller Caller) {
	t.Helper()
	if _, err := env.identity.Register(caller, ""); err != nil {
		t.Fatalf("register reviewer %d: %v", caller.UserID, err)
	}
}

func closeVoting(t *testing.T, env *testEnv, proposalID int) {
	t.Helper()
	if err := env.db.Model(&models.Proposal{}).
		Where("proposal_id = ?", proposalID).
		Update("voting_deadline", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("close voting: %v", err)
	}
}

func TestProposalLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := newAdmin(t, env.db)
	voterA := newMember(t, env.db)
	voterB := newMember(t, env.db)
	registerReviewer(t, env, voterA)
	registerReviewer(t, env, voterB)

	proposal, err := env.governance.CreateProposal(voterA, models.ProposalParameterChange, "raise the quorum", "")
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	if proposal.Status != models.ProposalActive {
		t.Fatalf("status = %d, want active", proposal.Status)
	}

	if err := env.governance.Vote(voterA, proposal.ProposalID, models.VoteFor); err != nil {
		t.Fatalf("vote A: %v", err)
	}
	if err := env.governance.Vote(voterB, proposal.ProposalID, models.VoteFor); err != nil {
		t.Fatalf("vote B: %v", err)
	}

	// Finalizing before the deadline is a state error.
	if _, err := env.governance.Finalize(proposal.ProposalID); KindOf(err) != KindState {
		t.Fatalf("early finalize: expected state error, got %v", err)
	}

	closeVoting(t, env, proposal.ProposalID)
	settled, err := env.governance.Finalize(proposal.ProposalID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if settled.Status != models.ProposalPassed {
		t.Fatalf("status = %d, want passed", settled.Status)
	}
	if settled.ForWeight != 2*models.InitialTokenGrant {
		t.Errorf("for weight = %d, want %d", settled.ForWeight, 2*models.InitialTokenGrant)
	}

	if err := env.governance.Execute(voterA, proposal.ProposalID); KindOf(err) != KindUnauthorized {
		t.Fatalf("member execute: expected unauthorized, got %v", err)
	}
	if err := env.governance.Execute(admin, proposal.ProposalID); err != nil {
		t.Fatalf("admin execute: %v", err)
	}

	final, _, err := env.governance.GetProposal(proposal.ProposalID)
	if err != nil {
		t.Fatalf("get proposal: %v", err)
	}
	if final.Status != models.ProposalExecuted {
		t.Errorf("status = %d, want executed", final.Status)
	}
}

func TestProposalFailsQuorum(t *testing.T) {
	env := newTestEnv(t)
	voter := newMember(t, env.db)
	registerReviewer(t, env, voter)

	proposal, err := env.governance.CreateProposal(voter, models.ProposalGeneral, "lonely proposal", "")
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	// One voter holding only the registration grant cannot reach the quorum.
	if err := env.governance.Vote(voter, proposal.ProposalID, models.VoteFor); err != nil {
		t.Fatalf("vote: %v", err)
	}

	closeVoting(t, env, proposal.ProposalID)
	settled, err := env.governance.Finalize(proposal.ProposalID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if settled.Status != models.ProposalRejected {
		t.Errorf("status = %d, want rejected", settled.Status)
	}
}

func TestVoteTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	voter := newMember(t, env.db)
	registerReviewer(t, env, voter)

	proposal, err := env.governance.CreateProposal(voter, models.ProposalGeneral, "anything", "")
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	if err := env.governance.Vote(voter, proposal.ProposalID, models.VoteFor); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	err = env.governance.Vote(voter, proposal.ProposalID, models.VoteAgainst)
	wantKind(t, err, KindDuplicate, "Already voted")
}

func TestCreateProposalRequiresTokens(t *testing.T) {
	env := newTestEnv(t)
	outsider := newMember(t, env.db)

	// Not a reviewer at all.
	if _, err := env.governance.CreateProposal(outsider, models.ProposalGeneral, "no tokens", ""); KindOf(err) != KindNotFound {
		t.Fatalf("expected not found for unregistered proposer, got %v", err)
	}

	// A reviewer below the threshold is rejected too.
	poor := newMember(t, env.db)
	registerReviewer(t, env, poor)
	if err := env.db.Model(&models.Reviewer{}).
		Where("user_id = ?", poor.UserID).
		Update("token_balance", ProposalTokenThreshold-1).Error; err != nil {
		t.Fatalf("drain tokens: %v", err)
	}
	_, err := env.governance.CreateProposal(poor, models.ProposalGeneral, "still no tokens", "")
	wantKind(t, err, KindState, "Insufficient tokens to propose")
}
