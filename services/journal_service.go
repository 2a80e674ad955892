package services

import (
	"academic-registry-api/config"
	"academic-registry-api/models"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
)

// Review reward parameters. The reward scales linearly with the editor's
// quality score; timely completion adds a 25% bonus. Reputation moves by a
// tenth of the quality score.
const (
	BaseReviewReward     = 5
	TimelyBonusPercent   = 25
	ReputationPerQuality = 10
)

// JournalService is the orchestrator: it owns journal metadata and editor
// sets, and it is the only caller the submission ledger and the identity
// registry trust for status transitions and reward distribution. All
// cross-ledger effects of one operation share one transaction.
type JournalService struct {
	db          *gorm.DB
	submissions *SubmissionService
	identity    *IdentityService
}

func NewJournalService(db *gorm.DB, submissions *SubmissionService, identity *IdentityService) *JournalService {
	s := &JournalService{db: db, submissions: submissions, identity: identity}
	submissions.SetOrchestrator(s)
	identity.SetOrchestrator(s)
	return s
}

// CreateJournal registers a journal. Admin only; the owner is fixed at
// creation.
func (s *JournalService) CreateJournal(caller Caller, name, description, metadataURI string, ownerID int, submissionFee int64, categories []string, minReviewerTier, requiredReviewers int) (*models.Journal, error) {
	if !caller.IsAdmin() {
		return nil, authorizationError("Not authorized")
	}
	if requiredReviewers < 1 {
		return nil, stateError("At least one reviewer required")
	}
	if minReviewerTier < models.TierUnranked || minReviewerTier > models.TierExpert {
		return nil, stateError("Invalid reviewer tier")
	}

	encoded, err := json.Marshal(categories)
	if err != nil {
		return nil, err
	}

	var journal models.Journal
	err = s.db.Transaction(func(tx *gorm.DB) error {
		journal = models.Journal{
			Name:              name,
			Description:       description,
			MetadataURI:       metadataURI,
			OwnerID:           ownerID,
			Status:            models.JournalActive,
			SubmissionFee:     submissionFee,
			Categories:        string(encoded),
			MinReviewerTier:   minReviewerTier,
			RequiredReviewers: requiredReviewers,
			CreatedAt:         time.Now(),
		}
		if err := tx.Create(&journal).Error; err != nil {
			return err
		}

		return recordEvent(tx, EventJournalCreated, journalCreatedPayload{
			JournalID: journal.JournalID,
			Name:      name,
			Owner:     ownerID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &journal, nil
}

// AddEditor adds an editor to a journal. Journal owner only. Set semantics: a
// duplicate add is a silent no-op and does not touch the shared role count.
func (s *JournalService) AddEditor(caller Caller, journalID, editorID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		journal, err := findJournal(tx, journalID)
		if err != nil {
			return err
		}
		if journal.OwnerID != caller.UserID {
			return authorizationError("Not authorized")
		}

		var existing models.JournalEditor
		err = tx.Where("journal_id = ? AND user_id = ?", journalID, editorID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		editor := models.JournalEditor{
			JournalID: journalID,
			UserID:    editorID,
			AddedAt:   time.Now(),
		}
		if err := tx.Create(&editor).Error; err != nil {
			return err
		}

		return s.bumpEditorRole(tx, editorID, +1)
	})
}

// RemoveEditor removes an editor from a journal and decrements the shared
// role count; the editor capability is revoked only when the count reaches
// zero, so an editor serving several journals keeps it until removed from all
// of them.
func (s *JournalService) RemoveEditor(caller Caller, journalID, editorID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		journal, err := findJournal(tx, journalID)
		if err != nil {
			return err
		}
		if journal.OwnerID != caller.UserID {
			return authorizationError("Not authorized")
		}

		var existing models.JournalEditor
		err = tx.Where("journal_id = ? AND user_id = ?", journalID, editorID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("Editor not found")
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&models.JournalEditor{}, existing.ID).Error; err != nil {
			return err
		}

		return s.bumpEditorRole(tx, editorID, -1)
	})
}

// AssignReviewer assigns a reviewer to a submission on behalf of an editor of
// the submission's journal, and moves a freshly submitted manuscript under
// review. The first touch of a submission also counts it on the journal.
func (s *JournalService) AssignReviewer(caller Caller, submissionID, reviewerID int) error {
	var reviewerUserID int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		submission, err := findSubmission(tx, submissionID)
		if err != nil {
			return err
		}

		if err := s.requireEditor(tx, submission.JournalID, caller.UserID); err != nil {
			return err
		}

		reviewer, err := lockReviewer(tx, reviewerID)
		if err != nil {
			return err
		}
		if !reviewer.IsActive {
			return stateError("Reviewer is not active")
		}

		// Journal existence is not guaranteed by the ledger; the tier
		// requirement applies only when the record is there.
		journal, err := findJournal(tx, submission.JournalID)
		if err == nil && reviewer.Tier < journal.MinReviewerTier {
			return stateError("Reviewer tier too low")
		} else if err != nil && KindOf(err) != KindNotFound {
			return err
		}

		if err := s.submissions.AssignReviewer(tx, s, submissionID, reviewerID); err != nil {
			return err
		}

		if submission.Status == models.StatusSubmitted {
			if err := s.submissions.UpdateStatus(tx, s, submissionID, models.StatusUnderReview); err != nil {
				return err
			}
			if journal != nil {
				if err := tx.Model(&models.Journal{}).
					Where("journal_id = ?", journal.JournalID).
					Update("total_submissions", gorm.Expr("total_submissions + 1")).Error; err != nil {
					return err
				}
			}
		}

		reviewerUserID = reviewerID
		return s.notify(tx, reviewerID, "New review assignment",
			fmt.Sprintf("You have been assigned to review submission #%d", submissionID),
			"info", &submissionID)
	})
	if err != nil {
		return err
	}

	go s.emailUser(reviewerUserID, "New review assignment",
		fmt.Sprintf("<p>You have been assigned to review submission #%d.</p>", submissionID))
	return nil
}

// RecordDecision applies an editorial decision to a submission. Editor only;
// when the journal record exists the decision requires the journal's review
// quota to be met.
func (s *JournalService) RecordDecision(caller Caller, submissionID, status int) error {
	if status != models.StatusRejected && status != models.StatusRevisionRequired && status != models.StatusAccepted {
		return stateError("Invalid editorial decision")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		submission, err := findSubmission(tx, submissionID)
		if err != nil {
			return err
		}

		if err := s.requireEditor(tx, submission.JournalID, caller.UserID); err != nil {
			return err
		}

		journal, err := findJournal(tx, submission.JournalID)
		if err != nil && KindOf(err) != KindNotFound {
			return err
		}
		if journal != nil {
			var submitted int64
			if err := tx.Model(&models.Review{}).
				Where("submission_id = ?", submissionID).
				Count(&submitted).Error; err != nil {
				return err
			}
			if submitted < int64(journal.RequiredReviewers) {
				return stateError("Required reviews not completed")
			}
		}

		return s.submissions.UpdateStatus(tx, s, submissionID, status)
	})
}

// DistributeReviewReward rewards a completed review with tokens and a
// reputation bump proportional to the quality score. The completion check
// deliberately precedes the editor gate, matching the original manager.
func (s *JournalService) DistributeReviewReward(caller Caller, reviewID, submissionID, qualityScore int, timely bool) (int64, error) {
	if qualityScore < 0 || qualityScore > 100 {
		return 0, stateError("Quality score out of range")
	}

	var amount int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		err := tx.Where("review_id = ?", reviewID).First(&review).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stateError("Review not completed")
		}
		if err != nil {
			return err
		}
		if review.SubmissionID != submissionID || review.Decision == models.DecisionNone || review.RewardDistributed {
			return stateError("Review not completed")
		}

		submission, err := findSubmission(tx, submissionID)
		if err != nil {
			return err
		}
		if err := s.requireEditor(tx, submission.JournalID, caller.UserID); err != nil {
			return err
		}

		amount = int64(BaseReviewReward) * int64(qualityScore) / 100
		if timely {
			amount += amount * TimelyBonusPercent / 100
		}

		if err := s.identity.DistributeReward(tx, s, review.ReviewerID, reviewID, amount); err != nil {
			return err
		}
		if err := s.identity.addReputation(tx, review.ReviewerID, qualityScore/ReputationPerQuality); err != nil {
			return err
		}

		if err := tx.Model(&models.Review{}).
			Where("review_id = ?", reviewID).
			Update("reward_distributed", true).Error; err != nil {
			return err
		}

		return recordEvent(tx, EventReviewRewardDistributed, reviewRewardDistributedPayload{
			ReviewID: reviewID,
			Reviewer: review.ReviewerID,
			Amount:   amount,
		})
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// PublishPaper publishes an accepted submission into a journal volume.
func (s *JournalService) PublishPaper(caller Caller, submissionID int, volumeInfo string) error {
	var authorID int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		submission, err := findSubmission(tx, submissionID)
		if err != nil {
			return err
		}

		if err := s.requireEditor(tx, submission.JournalID, caller.UserID); err != nil {
			return err
		}

		if submission.Status != models.StatusAccepted {
			return stateError("Submission must be accepted")
		}

		if err := s.submissions.UpdateStatus(tx, s, submissionID, models.StatusPublished); err != nil {
			return err
		}

		journal, err := findJournal(tx, submission.JournalID)
		if err != nil && KindOf(err) != KindNotFound {
			return err
		}
		if journal != nil {
			if err := tx.Model(&models.Journal{}).
				Where("journal_id = ?", journal.JournalID).
				Update("total_published", gorm.Expr("total_published + 1")).Error; err != nil {
				return err
			}
		}

		if err := recordEvent(tx, EventPaperPublished, paperPublishedPayload{
			SubmissionID: submissionID,
			JournalID:    submission.JournalID,
			VolumeInfo:   volumeInfo,
		}); err != nil {
			return err
		}

		authorID = submission.AuthorID
		return s.notify(tx, submission.AuthorID, "Paper published",
			fmt.Sprintf("Your submission #%d has been published (%s)", submissionID, volumeInfo),
			"success", &submissionID)
	})
	if err != nil {
		return err
	}

	go s.emailUser(authorID, "Paper published",
		fmt.Sprintf("<p>Your submission #%d has been published: %s.</p>", submissionID, volumeInfo))
	return nil
}

// UpdateSubmissionFee sets a journal's submission fee. Owner or admin.
func (s *JournalService) UpdateSubmissionFee(caller Caller, journalID int, fee int64) error {
	if fee < 0 {
		return stateError("Fee must not be negative")
	}
	return s.updateJournalField(caller, journalID, map[string]interface{}{"submission_fee": fee})
}

// UpdateJournalStatus sets a journal's status. Owner or admin; Active and
// Suspended are reversible.
func (s *JournalService) UpdateJournalStatus(caller Caller, journalID, status int) error {
	if status < models.JournalActive || status > models.JournalClosed {
		return stateError("Invalid journal status")
	}
	return s.updateJournalField(caller, journalID, map[string]interface{}{"status": status})
}

// UpdateJournalRequirements sets the reviewer tier floor and quota. Owner or
// admin.
func (s *JournalService) UpdateJournalRequirements(caller Caller, journalID, minReviewerTier, requiredReviewers int) error {
	if requiredReviewers < 1 {
		return stateError("At least one reviewer required")
	}
	if minReviewerTier < models.TierUnranked || minReviewerTier > models.TierExpert {
		return stateError("Invalid reviewer tier")
	}
	return s.updateJournalField(caller, journalID, map[string]interface{}{
		"min_reviewer_tier":  minReviewerTier,
		"required_reviewers": requiredReviewers,
	})
}

// GetJournal returns one journal.
func (s *JournalService) GetJournal(journalID int) (*models.Journal, error) {
	return findJournal(s.db, journalID)
}

// ListJournals returns all journals in creation order.
func (s *JournalService) ListJournals() ([]models.Journal, error) {
	var journals []models.Journal
	err := s.db.Order("journal_id ASC").Find(&journals).Error
	return journals, err
}

// GetJournalEditors returns the journal's editor user ids in add order.
func (s *JournalService) GetJournalEditors(journalID int) ([]int, error) {
	if _, err := findJournal(s.db, journalID); err != nil {
		return nil, err
	}
	var editors []models.JournalEditor
	if err := s.db.Where("journal_id = ?", journalID).Order("id ASC").Find(&editors).Error; err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(editors))
	for _, editor := range editors {
		ids = append(ids, editor.UserID)
	}
	return ids, nil
}

// HoldsEditorRole reports whether the shared editor capability is currently
// held, i.e. the user's journal count is above zero.
func (s *JournalService) HoldsEditorRole(userID int) (bool, error) {
	var role models.EditorRole
	err := s.db.Where("user_id = ?", userID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return role.JournalCount > 0, nil
}

// JournalStats are the derived read-only aggregates of a journal.
type JournalStats struct {
	JournalID          int     `json:"journal_id"`
	TotalSubmissions   int     `json:"total_submissions"`
	TotalPublished     int     `json:"total_published"`
	AcceptanceRate     float64 `json:"acceptance_rate"`
	AverageReviewHours float64 `json:"average_review_hours"`
	ImpactScore        float64 `json:"impact_score"`
}

// GetJournalStats derives acceptance rate, average review turnaround and a
// citation-based impact score for a journal.
func (s *JournalService) GetJournalStats(journalID int) (*JournalStats, error) {
	journal, err := findJournal(s.db, journalID)
	if err != nil {
		return nil, err
	}

	stats := &JournalStats{
		JournalID:        journalID,
		TotalSubmissions: journal.TotalSubmissions,
		TotalPublished:   journal.TotalPublished,
	}
	if journal.TotalSubmissions > 0 {
		stats.AcceptanceRate = float64(journal.TotalPublished) / float64(journal.TotalSubmissions)
	}

	var submissions []models.Submission
	if err := s.db.Where("journal_id = ?", journalID).Find(&submissions).Error; err != nil {
		return nil, err
	}
	if len(submissions) == 0 {
		return stats, nil
	}

	submittedAt := make(map[int]time.Time, len(submissions))
	publishedPapers := make([]int, 0)
	ids := make([]int, 0, len(submissions))
	for _, submission := range submissions {
		ids = append(ids, submission.SubmissionID)
		submittedAt[submission.SubmissionID] = submission.SubmittedAt
		if submission.Status == models.StatusPublished {
			publishedPapers = append(publishedPapers, submission.PaperID)
		}
	}

	var reviews []models.Review
	if err := s.db.Where("submission_id IN ?", ids).Find(&reviews).Error; err != nil {
		return nil, err
	}
	if len(reviews) > 0 {
		var totalHours float64
		for _, review := range reviews {
			totalHours += review.ReviewedAt.Sub(submittedAt[review.SubmissionID]).Hours()
		}
		stats.AverageReviewHours = totalHours / float64(len(reviews))
	}

	if len(publishedPapers) > 0 {
		var citationCount int64
		if err := s.db.Model(&models.Citation{}).
			Where("paper_id IN ?", publishedPapers).
			Count(&citationCount).Error; err != nil {
			return nil, err
		}
		stats.ImpactScore = float64(citationCount) / float64(journal.TotalPublished)
	}

	return stats, nil
}

func (s *JournalService) updateJournalField(caller Caller, journalID int, fields map[string]interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		journal, err := findJournal(tx, journalID)
		if err != nil {
			return err
		}
		if journal.OwnerID != caller.UserID && !caller.IsAdmin() {
			return authorizationError("Not authorized")
		}
		return tx.Model(&models.Journal{}).
			Where("journal_id = ?", journalID).
			Updates(fields).Error
	})
}

// requireEditor gates orchestrator operations on per-journal editor
// membership.
func (s *JournalService) requireEditor(tx *gorm.DB, journalID, userID int) error {
	var editor models.JournalEditor
	err := tx.Where("journal_id = ? AND user_id = ?", journalID, userID).First(&editor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return authorizationError("Not authorized")
	}
	return err
}

// bumpEditorRole maintains the cross-journal reference count behind the
// shared editor capability.
func (s *JournalService) bumpEditorRole(tx *gorm.DB, userID, delta int) error {
	var role models.EditorRole
	err := tx.Where("user_id = ?", userID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if delta <= 0 {
			return nil
		}
		role = models.EditorRole{UserID: userID, JournalCount: delta}
		return tx.Create(&role).Error
	}
	if err != nil {
		return err
	}

	role.JournalCount += delta
	if role.JournalCount <= 0 {
		return tx.Delete(&models.EditorRole{}, "user_id = ?", userID).Error
	}
	return tx.Model(&models.EditorRole{}).
		Where("user_id = ?", userID).
		Update("journal_count", role.JournalCount).Error
}

func (s *JournalService) notify(tx *gorm.DB, userID int, title, message, kind string, submissionID *int) error {
	notification := models.Notification{
		UserID:              userID,
		Title:               title,
		Message:             message,
		Type:                kind,
		RelatedSubmissionID: submissionID,
		CreateAt:            time.Now(),
	}
	return tx.Create(&notification).Error
}

// emailUser sends a best-effort notification mail after the transaction has
// committed; failures are logged, never surfaced.
func (s *JournalService) emailUser(userID int, subject, html string) {
	if os.Getenv("SMTP_HOST") == "" {
		return
	}
	var user models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		return
	}
	if err := config.SendMail([]string{user.Email}, subject, html); err != nil {
		log.Printf("Warning: failed to send notification mail to %s: %v", user.Email, err)
	}
}

func findJournal(tx *gorm.DB, journalID int) (*models.Journal, error) {
	var journal models.Journal
	if err := tx.Where("journal_id = ?", journalID).First(&journal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Journal not found")
		}
		return nil, err
	}
	return &journal, nil
}
