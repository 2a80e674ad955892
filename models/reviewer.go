package models

import "time"

// Reviewer tiers. New registrations start at Junior.
const (
	TierUnranked = 0
	TierJunior   = 1
	TierSenior   = 2
	TierExpert   = 3
)

// InitialReputation and InitialTokenGrant are fixed protocol constants applied
// at registration time.
const (
	InitialReputation = 100
	InitialTokenGrant = 10
)

// Reviewer is the per-user reviewer record. One row per user; rows are
// deactivated, never deleted, and a deactivated row still blocks
// re-registration.
type Reviewer struct {
	UserID           int       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Tier             int       `gorm:"column:tier" json:"tier"`
	Reputation       int       `gorm:"column:reputation" json:"reputation"`
	CompletedReviews int       `gorm:"column:completed_reviews" json:"completed_reviews"`
	TokenBalance     int64     `gorm:"column:token_balance" json:"token_balance"`
	IsActive         bool      `gorm:"column:is_active" json:"is_active"`
	MetadataURI      string    `gorm:"column:metadata_uri" json:"metadata_uri"`
	RegisteredAt     time.Time `gorm:"column:registered_at" json:"registered_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TokenTransaction is the append-only mint ledger behind Reviewer.TokenBalance.
type TokenTransaction struct {
	TxID      int       `gorm:"primaryKey;column:tx_id" json:"tx_id"`
	UserID    int       `gorm:"column:user_id" json:"user_id"`
	Amount    int64     `gorm:"column:amount" json:"amount"`
	Reason    string    `gorm:"column:reason" json:"reason"`
	ReviewID  *int      `gorm:"column:review_id" json:"review_id,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// ReviewReward records one reward per (review, reviewer) pair. The unique
// index is the idempotency guard for DistributeReward.
type ReviewReward struct {
	RewardID  int       `gorm:"primaryKey;column:reward_id" json:"reward_id"`
	ReviewID  int       `gorm:"column:review_id;uniqueIndex:idx_review_reviewer" json:"review_id"`
	UserID    int       `gorm:"column:user_id;uniqueIndex:idx_review_reviewer" json:"user_id"`
	Amount    int64     `gorm:"column:amount" json:"amount"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Reviewer) TableName() string {
	return "reviewers"
}

func (TokenTransaction) TableName() string {
	return "token_transactions"
}

func (ReviewReward) TableName() string {
	return "review_rewards"
}
