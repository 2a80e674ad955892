package services

import (
	"academic-registry-api/models"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionService owns the submission ledger: the status field, the
// reviewer assignment set, and the individual review records. It deliberately
// does not validate paper or journal existence on submission and does not
// enforce a status transition table; legal sequencing belongs to the
// configured orchestrator, exactly as in the original ledger.
type SubmissionService struct {
	db           *gorm.DB
	orchestrator *JournalService
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

// SetOrchestrator configures the journal orchestrator authorized to assign
// reviewers and overwrite submission status.
func (s *SubmissionService) SetOrchestrator(o *JournalService) {
	s.orchestrator = o
}

// CreateSubmission registers a new submission with the caller as author.
func (s *SubmissionService) CreateSubmission(caller Caller, paperID, journalID int, metadataURI string) (*models.Submission, error) {
	var submission models.Submission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		submission = models.Submission{
			SubmissionNumber: uuid.NewString(),
			PaperID:          paperID,
			JournalID:        journalID,
			AuthorID:         caller.UserID,
			Status:           models.StatusSubmitted,
			MetadataURI:      metadataURI,
			SubmittedAt:      now,
			LastUpdateAt:     now,
		}
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		return recordEvent(tx, EventSubmissionCreated, submissionCreatedPayload{
			SubmissionID: submission.SubmissionID,
			Author:       caller.UserID,
			PaperID:      paperID,
			JournalID:    journalID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// AssignReviewer adds a reviewer to the submission's assignment set. Only the
// configured orchestrator may call it, inside the orchestrator's transaction.
func (s *SubmissionService) AssignReviewer(tx *gorm.DB, from *JournalService, submissionID, reviewerID int) error {
	if from == nil || from != s.orchestrator {
		return authorizationError("Only journal manager can call this function")
	}

	if _, err := findSubmission(tx, submissionID); err != nil {
		return err
	}

	var existing models.SubmissionReviewer
	err := tx.Where("submission_id = ? AND user_id = ?", submissionID, reviewerID).First(&existing).Error
	if err == nil {
		return duplicateError("Reviewer already assigned")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	assignment := models.SubmissionReviewer{
		SubmissionID: submissionID,
		UserID:       reviewerID,
		AssignedAt:   time.Now(),
	}
	if err := tx.Create(&assignment).Error; err != nil {
		return err
	}

	return recordEvent(tx, EventReviewerAssigned, reviewerAssignedPayload{
		SubmissionID: submissionID,
		Reviewer:     reviewerID,
	})
}

// SubmitReview records an assigned reviewer's decision. One review per
// reviewer per submission; the submission status is untouched — transitions
// are driven by the orchestrator.
func (s *SubmissionService) SubmitReview(caller Caller, submissionID, decision int, commentsHash string) (*models.Review, error) {
	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findSubmission(tx, submissionID); err != nil {
			return err
		}

		var assignment models.SubmissionReviewer
		err := tx.Where("submission_id = ? AND user_id = ?", submissionID, caller.UserID).First(&assignment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authorizationError("Only assigned reviewers can call this function")
		}
		if err != nil {
			return err
		}

		if decision <= models.DecisionNone || decision > models.DecisionReject {
			return stateError("Invalid review decision")
		}

		var existing models.Review
		err = tx.Where("submission_id = ? AND reviewer_id = ?", submissionID, caller.UserID).First(&existing).Error
		if err == nil {
			return duplicateError("Review already submitted")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		review = models.Review{
			SubmissionID: submissionID,
			ReviewerID:   caller.UserID,
			Decision:     decision,
			CommentsHash: commentsHash,
			ReviewedAt:   time.Now(),
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		return recordEvent(tx, EventReviewSubmitted, reviewSubmittedPayload{
			ReviewID:     review.ReviewID,
			Reviewer:     caller.UserID,
			SubmissionID: submissionID,
			Decision:     decision,
		})
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateStatus overwrites the submission status. Orchestrator only; the
// ledger itself accepts any target status.
func (s *SubmissionService) UpdateStatus(tx *gorm.DB, from *JournalService, submissionID, status int) error {
	if from == nil || from != s.orchestrator {
		return authorizationError("Only journal manager can call this function")
	}
	if status < models.StatusSubmitted || status > models.StatusPublished {
		return stateError("Invalid submission status")
	}

	if _, err := findSubmission(tx, submissionID); err != nil {
		return err
	}

	if err := tx.Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		Updates(map[string]interface{}{
			"status":         status,
			"last_update_at": time.Now(),
		}).Error; err != nil {
		return err
	}

	return recordEvent(tx, EventSubmissionStatusUpdated, submissionStatusUpdatedPayload{
		SubmissionID: submissionID,
		NewStatus:    status,
	})
}

// SubmitRevision returns a revision-required submission to the Submitted
// state with fresh content. Author only.
func (s *SubmissionService) SubmitRevision(caller Caller, submissionID int, metadataURI string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		submission, err := findSubmission(tx, submissionID)
		if err != nil {
			return err
		}
		if submission.AuthorID != caller.UserID {
			return authorizationError("Only the author")
		}
		if submission.Status != models.StatusRevisionRequired {
			return stateError("Submission is not in revision required status")
		}

		if err := tx.Model(&models.Submission{}).
			Where("submission_id = ?", submissionID).
			Updates(map[string]interface{}{
				"status":         models.StatusSubmitted,
				"revision_count": gorm.Expr("revision_count + 1"),
				"metadata_uri":   metadataURI,
				"last_update_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		return recordEvent(tx, EventRevisionSubmitted, revisionSubmittedPayload{
			SubmissionID: submissionID,
			Author:       caller.UserID,
		})
	})
}

// GetSubmission returns one submission with its reviewer set.
func (s *SubmissionService) GetSubmission(submissionID int) (*models.Submission, error) {
	var submission models.Submission
	err := s.db.Preload("Reviewers").Where("submission_id = ?", submissionID).First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("Submission not found")
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetSubmissionReviews returns a submission's reviews in submission order.
func (s *SubmissionService) GetSubmissionReviews(submissionID int) ([]models.Review, error) {
	if _, err := findSubmission(s.db, submissionID); err != nil {
		return nil, err
	}
	var reviews []models.Review
	err := s.db.Where("submission_id = ?", submissionID).Order("review_id ASC").Find(&reviews).Error
	return reviews, err
}

// GetReviewerAssignments returns every submission a reviewer was assigned to.
func (s *SubmissionService) GetReviewerAssignments(reviewerID int) ([]models.SubmissionReviewer, error) {
	var assignments []models.SubmissionReviewer
	err := s.db.Where("user_id = ?", reviewerID).Order("id ASC").Find(&assignments).Error
	return assignments, err
}

func findSubmission(tx *gorm.DB, submissionID int) (*models.Submission, error) {
	var submission models.Submission
	if err := tx.Where("submission_id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Submission not found")
		}
		return nil, err
	}
	return &submission, nil
}
