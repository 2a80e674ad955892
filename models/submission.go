package models

import "time"

// Submission statuses. The submission ledger itself does not enforce a
// transition table; legal sequencing is the orchestrator's responsibility.
const (
	StatusSubmitted        = 0
	StatusUnderReview      = 1
	StatusRejected         = 2
	StatusRevisionRequired = 3
	StatusAccepted         = 4
	StatusPublished        = 5
)

// Review decisions. None marks an unset decision and is rejected on submit.
const (
	DecisionNone          = 0
	DecisionAccept        = 1
	DecisionMinorRevision = 2
	DecisionMajorRevision = 3
	DecisionReject        = 4
)

type Submission struct {
	SubmissionID     int       `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string    `gorm:"column:submission_number" json:"submission_number"`
	PaperID          int       `gorm:"column:paper_id" json:"paper_id"`
	JournalID        int       `gorm:"column:journal_id" json:"journal_id"`
	AuthorID         int       `gorm:"column:author_id" json:"author_id"`
	Status           int       `gorm:"column:status" json:"status"`
	RevisionCount    int       `gorm:"column:revision_count" json:"revision_count"`
	MetadataURI      string    `gorm:"column:metadata_uri" json:"metadata_uri"`
	SubmittedAt      time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	LastUpdateAt     time.Time `gorm:"column:last_update_at" json:"last_update_at"`

	Author    *User                `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Reviewers []SubmissionReviewer `gorm:"foreignKey:SubmissionID" json:"reviewers,omitempty"`
	Reviews   []Review             `gorm:"foreignKey:SubmissionID" json:"reviews,omitempty"`
}

// SubmissionReviewer is the assignment set, and via the user_id index the
// per-reviewer global assignment list. The unique pair index is the
// duplicate-assignment guard.
type SubmissionReviewer struct {
	ID           int       `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID int       `gorm:"column:submission_id;uniqueIndex:idx_submission_reviewer" json:"submission_id"`
	UserID       int       `gorm:"column:user_id;uniqueIndex:idx_submission_reviewer;index" json:"user_id"`
	AssignedAt   time.Time `gorm:"column:assigned_at" json:"assigned_at"`
}

// Review ids are a single global sequence shared across all submissions, as in
// the original ledger. One review per (submission, reviewer).
type Review struct {
	ReviewID          int       `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID      int       `gorm:"column:submission_id;uniqueIndex:idx_submission_review_once" json:"submission_id"`
	ReviewerID        int       `gorm:"column:reviewer_id;uniqueIndex:idx_submission_review_once" json:"reviewer_id"`
	Decision          int       `gorm:"column:decision" json:"decision"`
	CommentsHash      string    `gorm:"column:comments_hash" json:"comments_hash"`
	RewardDistributed bool      `gorm:"column:reward_distributed" json:"reward_distributed"`
	ReviewedAt        time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (SubmissionReviewer) TableName() string {
	return "submission_reviewers"
}

func (Review) TableName() string {
	return "reviews"
}
