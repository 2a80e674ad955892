package services

import (
	"testing"

	"academic-registry-api/models"
)

func TestCreateSubmissionStartsSubmitted(t *testing.T) {
	env := newTestEnv(t)
	author := newMember(t, env.db)

	submission, err := env.submissions.CreateSubmission(author, 1, 1, "ipfs://manuscript")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	if submission.Status != models.StatusSubmitted {
		t.Errorf("status = %d, want submitted", submission.Status)
	}
	if submission.SubmissionNumber == "" {
		t.Error("submission number should be assigned")
	}
	if n := countEvents(t, env.db, EventSubmissionCreated); n != 1 {
		t.Errorf("SubmissionCreated events = %d, want 1", n)
	}
}

func TestAssignReviewerRejectsNonOrchestrator(t *testing.T) {
	env := newTestEnv(t)
	author := newMember(t, env.db)
	submission, err := env.submissions.CreateSubmission(author, 1, 1, "")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	err = env.submissions.AssignReviewer(env.db, nil, submission.SubmissionID, author.UserID)
	wantKind(t, err, KindUnauthorized, "Only journal manager can call this function")

	impostor := &JournalService{db: env.db}
	err = env.submissions.AssignReviewer(env.db, impostor, submission.SubmissionID, author.UserID)
	wantKind(t, err, KindUnauthorized, "Only journal manager can call this function")

	err = env.submissions.UpdateStatus(env.db, impostor, submission.SubmissionID, models.StatusAccepted)
	wantKind(t, err, KindUnauthorized, "Only journal manager can call this function")
}

func TestSubmitReviewRequiresAssignment(t *testing.T) {
	env := newTestEnv(t)
	author := newMember(t, env.db)
	outsider := newMember(t, env.db)

	submission, err := env.submissions.CreateSubmission(author, 1, 1, "")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	_, err = env.submissions.SubmitReview(outsider, submission.SubmissionID, models.DecisionAccept, "QmComments")
	wantKind(t, err, KindUnauthorized, "Only assigned reviewers can call this function")
}

func TestSubmitReviewValidatesDecisionAndDuplicates(t *testing.T) {
	env := newTestEnv(t)
	author := newMember(t, env.db)
	reviewer := newMember(t, env.db)

	submission, err := env.submissions.CreateSubmission(author, 1, 1, "")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	// Assign through the ledger directly, acting as the orchestrator.
	if err := env.submissions.AssignReviewer(env.db, env.journals, submission.SubmissionID, reviewer.UserID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	_, err = env.submissions.SubmitReview(reviewer, submission.SubmissionID, models.DecisionNone, "")
	wantKind(t, err, KindState, "Invalid review decision")

	if _, err := env.submissions.SubmitReview(reviewer, submission.SubmissionID, models.DecisionMinorRevision, "QmC1"); err != nil {
		t.Fatalf("first review: %v", err)
	}

	_, err = env.submissions.SubmitReview(reviewer, submission.SubmissionID, models.DecisionAccept, "QmC2")
	wantKind(t, err, KindDuplicate, "Review already submitted")

	// The ledger itself never advances the status on review.
	current, err := env.submissions.GetSubmission(submission.SubmissionID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if current.Status != models.StatusSubmitted {
		t.Errorf("status = %d, want submitted", current.Status)
	}
}

func TestDuplicateAssignmentRejected(t *testing.T) {
	env := newTestEnv(t)
	author := newMember(t, env.db)
	reviewer := newMember(t, env.db)

	submission, err := env.submissions.CreateSubmission(author, 1, 1, "")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	if err := env.submissions.AssignReviewer(env.db, env.journals, submission.SubmissionID, reviewer.UserID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	err = env.submissions.AssignReviewer(env.db, env.journals, submission.SubmissionID, reviewer.UserID)
	wantKind(t, err, KindDuplicate, "Reviewer already assigned")
}

func TestSubmitRevisionFlow(t *testing.T) {
	env := newTestEnv(t)
	author := newMember(t, env.db)
	stranger := newMember(t, env.db)

	submission, err := env.submissions.CreateSubmission(author, 1, 1, "ipfs://v1")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	// Not yet in revision-required state.
	err = env.submissions.SubmitRevision(author, submission.SubmissionID, "ipfs://v2")
	wantKind(t, err, KindState, "Submission is not in revision required status")

	if err := env.submissions.UpdateStatus(env.db, env.journals, submission.SubmissionID, models.StatusRevisionRequired); err != nil {
		t.Fatalf("update status: %v", err)
	}

	err = env.submissions.SubmitRevision(stranger, submission.SubmissionID, "ipfs://v2")
	wantKind(t, err, KindUnauthorized, "Only the author")

	if err := env.submissions.SubmitRevision(author, submission.SubmissionID, "ipfs://v2"); err != nil {
		t.Fatalf("submit revision: %v", err)
	}

	revised, err := env.submissions.GetSubmission(submission.SubmissionID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if revised.Status != models.StatusSubmitted {
		t.Errorf("status = %d, want submitted", revised.Status)
	}
	if revised.RevisionCount != 1 {
		t.Errorf("revision count = %d, want 1", revised.RevisionCount)
	}
	if revised.MetadataURI != "ipfs://v2" {
		t.Errorf("metadata = %q, want ipfs://v2", revised.MetadataURI)
	}
}
