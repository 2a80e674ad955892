package services

import (
	"testing"

	"academic-registry-api/models"
)

// newJournal creates a journal through the orchestrator with sane defaults.
func newJournal(t *testing.T, env *testEnv, admin, owner Caller, requiredReviewers int) *models.Journal {
	t.Helper()
	journal, err := env.journals.CreateJournal(admin, "Journal of Testing", "desc", "ipfs://journal",
		owner.UserID, 0, []string{"cs"}, models.TierJunior, requiredReviewers)
	if err != nil {
		t.Fatalf("create journal: %v", err)
	}
	return journal
}

func TestCreateJournalAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	member := newMember(t, env.db)

	_, err := env.journals.CreateJournal(member, "J", "", "", member.UserID, 0, nil, models.TierJunior, 1)
	wantKind(t, err, KindUnauthorized, "Not authorized")

	admin := newAdmin(t, env.db)
	if _, err := env.journals.CreateJournal(admin, "J", "", "", member.UserID, 0, nil, models.TierJunior, 0); KindOf(err) != KindState {
		t.Fatalf("zero required reviewers: expected state error, got %v", err)
	}

	journal := newJournal(t, env, admin, member, 1)
	if journal.Status != models.JournalActive {
		t.Errorf("status = %d, want active", journal.Status)
	}
	if n := countEvents(t, env.db, EventJournalCreated); n != 1 {
		t.Errorf("JournalCreated events = %d, want 1", n)
	}
}

func TestEditorRoleRefcountAcrossJournals(t *testing.T) {
	env := newTestEnv(t)
	admin := newAdmin(t, env.db)
	owner := newMember(t, env.db)
	editor := newMember(t, env.db)

	j1 := newJournal(t, env, admin, owner, 1)
	j2 := newJournal(t, env, admin, owner, 1)

	if err := env.journals.AddEditor(owner, j1.JournalID, editor.UserID); err != nil {
		t.Fatalf("add editor to j1: %v", err)
	}
	// Duplicate add is a silent no-op and must not inflate the count.
	if err := env.journals.AddEditor(owner, j1.JournalID, editor.UserID); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if err := env.journals.AddEditor(owner, j2.JournalID, editor.UserID); err != nil {
		t.Fatalf("add editor to j2: %v", err)
	}

	var role models.EditorRole
	if err := env.db.Where("user_id = ?", editor.UserID).First(&role).Error; err != nil {
		t.Fatalf("load role: %v", err)
	}
	if role.JournalCount != 2 {
		t.Fatalf("journal count = %d, want 2", role.JournalCount)
	}

	if err := env.journals.RemoveEditor(owner, j1.JournalID, editor.UserID); err != nil {
		t.Fatalf("remove from j1: %v", err)
	}
	held, err := env.journals.HoldsEditorRole(editor.UserID)
	if err != nil {
		t.Fatalf("holds role: %v", err)
	}
	if !held {
		t.Fatal("editor of j2 should still hold the role")
	}

	if err := env.journals.RemoveEditor(owner, j2.JournalID, editor.UserID); err != nil {
		t.Fatalf("remove from j2: %v", err)
	}
	held, err = env.journals.HoldsEditorRole(editor.UserID)
	if err != nil {
		t.Fatalf("holds role: %v", err)
	}
	if held {
		t.Fatal("role should be revoked after removal from the last journal")
	}

	// Removing a non-editor is an error, not a silent decrement.
	if err := env.journals.RemoveEditor(owner, j1.JournalID, editor.UserID); KindOf(err) != KindNotFound {
		t.Fatalf("remove absent editor: expected not found, got %v", err)
	}
}

func TestEditorManagementOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := newAdmin(t, env.db)
	owner := newMember(t, env.db)
	stranger := newMember(t, env.db)

	journal := newJournal(t, env, admin, owner, 1)

	err := env.journals.AddEditor(stranger, journal.JournalID, stranger.UserID)
	wantKind(t, err, KindUnauthorized, "Not authorized")

	// The admin is not the owner either.
	err = env.journals.AddEditor(admin, journal.JournalID, stranger.UserID)
	wantKind(t, err, KindUnauthorized, "Not authorized")
}

// setupWorkflow builds a journal with one editor, an author with a paper, and
// n registered reviewers, returning the submission under review.
func setupWorkflow(t *testing.T, env *testEnv, requiredReviewers int, reviewerCount int) (editor Caller, author Caller, reviewers []Caller, journal *models.Journal, submission *models.Submission) {
	t.Helper()
	admin := newAdmin(t, env.db)
	owner := newMember(t, env.db)
	editor = newMember(t, env.db)
	author = newMember(t, env.db)

	journal = newJournal(t, env, admin, owner, requiredReviewers)
	if err := env.journals.AddEditor(owner, journal.JournalID, editor.UserID); err != nil {
		t.Fatalf("add editor: %v", err)
	}

	paper, err := env.papers.CreatePaper(author, "QmManuscript", "10.1000/42", "")
	if err != nil {
		t.Fatalf("create paper: %v", err)
	}
	submission, err = env.submissions.CreateSubmission(author, paper.PaperID, journal.JournalID, "ipfs://sub")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	for i := 0; i < reviewerCount; i++ {
		reviewer := newMember(t, env.db)
		registerReviewer(t, env, reviewer)
		reviewers = append(reviewers, reviewer)
	}
	return editor, author, reviewers, journal, submission
}

func TestFullReviewWorkflow(t *testing.T) {
	env := newTestEnv(t)
	editor, _, reviewers, journal, submission := setupWorkflow(t, env, 2, 2)

	for _, reviewer := range reviewers {
		if err := env.journals.AssignReviewer(editor, submission.SubmissionID, reviewer.UserID); err != nil {
			t.Fatalf("assign reviewer %d: %v", reviewer.UserID, err)
		}
	}

	// First assignment moved the manuscript under review and counted it once.
	current, err := env.submissions.GetSubmission(submission.SubmissionID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if current.Status != models.StatusUnderReview {
		t.Fatalf("status = %d, want under review", current.Status)
	}
	j, err := env.journals.GetJournal(journal.JournalID)
	if err != nil {
		t.Fatalf("get journal: %v", err)
	}
	if j.TotalSubmissions != 1 {
		t.Errorf("total submissions = %d, want 1", j.TotalSubmissions)
	}

	// Decision before the review quota is met is rejected.
	if err := env.journals.RecordDecision(editor, submission.SubmissionID, models.StatusAccepted); KindOf(err) != KindState {
		t.Fatalf("early decision: expected state error, got %v", err)
	}

	for _, reviewer := range reviewers {
		if _, err := env.submissions.SubmitReview(reviewer, submission.SubmissionID, models.DecisionAccept, "QmComments"); err != nil {
			t.Fatalf("submit review: %v", err)
		}
	}

	// Publishing requires an accepted submission.
	if err := env.journals.PublishPaper(editor, submission.SubmissionID, "Vol. 1"); err == nil {
		t.Fatal("publish before acceptance should fail")
	} else if err.Error() != "Submission must be accepted" {
		t.Fatalf("publish before acceptance: got %v", err)
	}

	if err := env.journals.RecordDecision(editor, submission.SubmissionID, models.StatusAccepted); err != nil {
		t.Fatalf("record decision: %v", err)
	}
	if err := env.journals.PublishPaper(editor, submission.SubmissionID, "Vol. 1"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	published, err := env.submissions.GetSubmission(submission.SubmissionID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if published.Status != models.StatusPublished {
		t.Errorf("status = %d, want published", published.Status)
	}
	j, err = env.journals.GetJournal(journal.JournalID)
	if err != nil {
		t.Fatalf("get journal: %v", err)
	}
	if j.TotalPublished != 1 {
		t.Errorf("total published = %d, want 1", j.TotalPublished)
	}
	if n := countEvents(t, env.db, EventPaperPublished); n != 1 {
		t.Errorf("PaperPublished events = %d, want 1", n)
	}

	// The author got an in-app notification.
	var notifications int64
	env.db.Model(&models.Notification{}).Where("title = ?", "Paper published").Count(&notifications)
	if notifications != 1 {
		t.Errorf("publish notifications = %d, want 1", notifications)
	}
}

func TestAssignReviewerGates(t *testing.T) {
	env := newTestEnv(t)
	editor, author, reviewers, journal, submission := setupWorkflow(t, env, 1, 1)
	reviewer := reviewers[0]

	// Only editors of the submission's journal may assign.
	err := env.journals.AssignReviewer(author, submission.SubmissionID, reviewer.UserID)
	wantKind(t, err, KindUnauthorized, "Not authorized")

	// Unregistered assignee is rejected.
	if err := env.journals.AssignReviewer(editor, submission.SubmissionID, author.UserID); KindOf(err) != KindNotFound {
		t.Fatalf("unregistered reviewer: expected not found, got %v", err)
	}

	// A reviewer below the journal's tier floor is rejected.
	admin := newAdmin(t, env.db)
	if err := env.journals.UpdateJournalRequirements(admin, journal.JournalID, models.TierSenior, 1); err != nil {
		t.Fatalf("raise tier floor: %v", err)
	}
	err = env.journals.AssignReviewer(editor, submission.SubmissionID, reviewer.UserID)
	wantKind(t, err, KindState, "Reviewer tier too low")

	// Inactive reviewers are rejected even above the floor.
	if err := env.journals.UpdateJournalRequirements(admin, journal.JournalID, models.TierJunior, 1); err != nil {
		t.Fatalf("lower tier floor: %v", err)
	}
	if err := env.identity.Deactivate(admin, reviewer.UserID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	err = env.journals.AssignReviewer(editor, submission.SubmissionID, reviewer.UserID)
	wantKind(t, err, KindState, "Reviewer is not active")
}

func TestDistributeReviewReward(t *testing.T) {
	env := newTestEnv(t)
	editor, _, reviewers, _, submission := setupWorkflow(t, env, 1, 1)
	reviewer := reviewers[0]

	if err := env.journals.AssignReviewer(editor, submission.SubmissionID, reviewer.UserID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// Reward before any review exists fails the completion check, not the
	// editor gate.
	if _, err := env.journals.DistributeReviewReward(reviewer, 1, submission.SubmissionID, 80, true); KindOf(err) != KindState {
		t.Fatalf("reward before review: expected state error, got %v", err)
	} else if err.Error() != "Review not completed" {
		t.Fatalf("reward before review: got %v", err)
	}

	review, err := env.submissions.SubmitReview(reviewer, submission.SubmissionID, models.DecisionAccept, "QmComments")
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}

	// Non-editors fail the gate once the review is complete.
	_, err = env.journals.DistributeReviewReward(reviewer, review.ReviewID, submission.SubmissionID, 80, true)
	wantKind(t, err, KindUnauthorized, "Not authorized")

	// quality 80: base 5 * 80/100 = 4, timely bonus 25% -> 5.
	amount, err := env.journals.DistributeReviewReward(editor, review.ReviewID, submission.SubmissionID, 80, true)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if amount != 5 {
		t.Errorf("reward = %d, want 5", amount)
	}

	updated, err := env.identity.GetReviewer(reviewer.UserID)
	if err != nil {
		t.Fatalf("get reviewer: %v", err)
	}
	if updated.TokenBalance != models.InitialTokenGrant+5 {
		t.Errorf("token balance = %d, want %d", updated.TokenBalance, models.InitialTokenGrant+5)
	}
	if updated.Reputation != models.InitialReputation+8 {
		t.Errorf("reputation = %d, want %d", updated.Reputation, models.InitialReputation+8)
	}
	if updated.CompletedReviews != 1 {
		t.Errorf("completed reviews = %d, want 1", updated.CompletedReviews)
	}

	// A second distribution for the same review is a state error.
	if _, err := env.journals.DistributeReviewReward(editor, review.ReviewID, submission.SubmissionID, 80, true); KindOf(err) != KindState {
		t.Fatalf("double reward: expected state error, got %v", err)
	} else if err.Error() != "Review not completed" {
		t.Fatalf("double reward: got %v", err)
	}
}

func TestJournalStatsDeriveFromWorkflow(t *testing.T) {
	env := newTestEnv(t)
	editor, _, reviewers, journal, submission := setupWorkflow(t, env, 1, 1)
	reviewer := reviewers[0]

	if err := env.journals.AssignReviewer(editor, submission.SubmissionID, reviewer.UserID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := env.submissions.SubmitReview(reviewer, submission.SubmissionID, models.DecisionAccept, ""); err != nil {
		t.Fatalf("review: %v", err)
	}
	if err := env.journals.RecordDecision(editor, submission.SubmissionID, models.StatusAccepted); err != nil {
		t.Fatalf("decision: %v", err)
	}
	if err := env.journals.PublishPaper(editor, submission.SubmissionID, "Vol. 1"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	stats, err := env.journals.GetJournalStats(journal.JournalID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalSubmissions != 1 || stats.TotalPublished != 1 {
		t.Errorf("counts = %d/%d, want 1/1", stats.TotalSubmissions, stats.TotalPublished)
	}
	if stats.AcceptanceRate != 1.0 {
		t.Errorf("acceptance rate = %f, want 1.0", stats.AcceptanceRate)
	}
}
