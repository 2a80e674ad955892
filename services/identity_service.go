package services

import (
	"academic-registry-api/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

// IdentityService owns reviewer registration, tier/reputation, and the reward
// token ledger. It depends on nothing else; the orchestrator is only an
// authorized caller for reward distribution.
type IdentityService struct {
	db           *gorm.DB
	orchestrator *JournalService
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// SetOrchestrator configures the journal orchestrator trusted to distribute
// review rewards, mirroring the registry's editor-role grant to the manager.
func (s *IdentityService) SetOrchestrator(o *JournalService) {
	s.orchestrator = o
}

// Register creates the caller's reviewer record with the fixed starting tier,
// reputation and token grant. One record per user; a deactivated record still
// blocks re-registration.
func (s *IdentityService) Register(caller Caller, metadataURI string) (*models.Reviewer, error) {
	var reviewer models.Reviewer

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Reviewer
		err := tx.Where("user_id = ?", caller.UserID).First(&existing).Error
		if err == nil {
			return duplicateError("Already registered as reviewer")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		reviewer = models.Reviewer{
			UserID:       caller.UserID,
			Tier:         models.TierJunior,
			Reputation:   models.InitialReputation,
			IsActive:     true,
			MetadataURI:  metadataURI,
			RegisteredAt: time.Now(),
		}
		if err := tx.Create(&reviewer).Error; err != nil {
			return err
		}

		if err := s.mintTokens(tx, caller.UserID, models.InitialTokenGrant, "registration", nil); err != nil {
			return err
		}
		reviewer.TokenBalance = models.InitialTokenGrant

		return recordEvent(tx, EventReviewerRegistered, reviewerRegisteredPayload{
			Reviewer: caller.UserID,
			Tier:     models.TierJunior,
		})
	})
	if err != nil {
		return nil, err
	}
	return &reviewer, nil
}

// UpdateMetadata lets a reviewer replace their own metadata URI.
func (s *IdentityService) UpdateMetadata(caller Caller, metadataURI string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		reviewer, err := lockReviewer(tx, caller.UserID)
		if err != nil {
			return err
		}
		reviewer.MetadataURI = metadataURI
		return tx.Model(&models.Reviewer{}).
			Where("user_id = ?", reviewer.UserID).
			Update("metadata_uri", metadataURI).Error
	})
}

// UpdateReputation applies a signed delta to a reviewer's reputation. Admin
// only. No floor beyond the integer type, matching the original registry.
func (s *IdentityService) UpdateReputation(caller Caller, reviewerID, delta int) error {
	if !caller.IsAdmin() {
		return authorizationError("Not authorized")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.addReputation(tx, reviewerID, delta)
	})
}

// UpdateTier overwrites a reviewer's tier. Admin only.
func (s *IdentityService) UpdateTier(caller Caller, reviewerID, tier int) error {
	if !caller.IsAdmin() {
		return authorizationError("Not authorized")
	}
	if tier < models.TierUnranked || tier > models.TierExpert {
		return stateError("Invalid reviewer tier")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		reviewer, err := lockReviewer(tx, reviewerID)
		if err != nil {
			return err
		}
		return tx.Model(&models.Reviewer{}).
			Where("user_id = ?", reviewer.UserID).
			Update("tier", tier).Error
	})
}

// Deactivate marks a reviewer inactive. The record is kept and keeps blocking
// re-registration. Admin only.
func (s *IdentityService) Deactivate(caller Caller, reviewerID int) error {
	if !caller.IsAdmin() {
		return authorizationError("Not authorized")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		reviewer, err := lockReviewer(tx, reviewerID)
		if err != nil {
			return err
		}
		return tx.Model(&models.Reviewer{}).
			Where("user_id = ?", reviewer.UserID).
			Update("is_active", false).Error
	})
}

// DistributeReward mints amount tokens to a reviewer for a completed review.
// Callable only by the configured orchestrator, inside the orchestrator's
// transaction. The (reviewID, reviewer) pair is an idempotency guard.
func (s *IdentityService) DistributeReward(tx *gorm.DB, from *JournalService, reviewerID, reviewID int, amount int64) error {
	if from == nil || from != s.orchestrator {
		return authorizationError("Not authorized")
	}

	reviewer, err := lockReviewer(tx, reviewerID)
	if err != nil {
		return err
	}

	var existing models.ReviewReward
	err = tx.Where("review_id = ? AND user_id = ?", reviewID, reviewerID).First(&existing).Error
	if err == nil {
		return duplicateError("Reward already distributed")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	reward := models.ReviewReward{
		ReviewID:  reviewID,
		UserID:    reviewerID,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&reward).Error; err != nil {
		return err
	}

	if err := s.mintTokens(tx, reviewerID, amount, "review reward", &reviewID); err != nil {
		return err
	}

	return tx.Model(&models.Reviewer{}).
		Where("user_id = ?", reviewer.UserID).
		Update("completed_reviews", gorm.Expr("completed_reviews + 1")).Error
}

// GetReviewer returns a reviewer record by user id.
func (s *IdentityService) GetReviewer(reviewerID int) (*models.Reviewer, error) {
	var reviewer models.Reviewer
	if err := s.db.Where("user_id = ?", reviewerID).First(&reviewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Reviewer not found")
		}
		return nil, err
	}
	return &reviewer, nil
}

// TokenHistory returns the reviewer's mint ledger, newest first.
func (s *IdentityService) TokenHistory(reviewerID int) ([]models.TokenTransaction, error) {
	var txs []models.TokenTransaction
	err := s.db.Where("user_id = ?", reviewerID).
		Order("tx_id DESC").
		Find(&txs).Error
	return txs, err
}

// addReputation is shared with the orchestrator's reward path.
func (s *IdentityService) addReputation(tx *gorm.DB, reviewerID, delta int) error {
	reviewer, err := lockReviewer(tx, reviewerID)
	if err != nil {
		return err
	}
	return tx.Model(&models.Reviewer{}).
		Where("user_id = ?", reviewer.UserID).
		Update("reputation", gorm.Expr("reputation + ?", delta)).Error
}

func (s *IdentityService) mintTokens(tx *gorm.DB, reviewerID int, amount int64, reason string, reviewID *int) error {
	mint := models.TokenTransaction{
		UserID:    reviewerID,
		Amount:    amount,
		Reason:    reason,
		ReviewID:  reviewID,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&mint).Error; err != nil {
		return err
	}
	return tx.Model(&models.Reviewer{}).
		Where("user_id = ?", reviewerID).
		Update("token_balance", gorm.Expr("token_balance + ?", amount)).Error
}

func lockReviewer(tx *gorm.DB, reviewerID int) (*models.Reviewer, error) {
	var reviewer models.Reviewer
	if err := tx.Where("user_id = ?", reviewerID).First(&reviewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Reviewer not found")
		}
		return nil, err
	}
	return &reviewer, nil
}
