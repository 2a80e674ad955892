package models

import "time"

// Journal statuses. Active and Suspended are reversible; Closed is final by
// convention only.
const (
	JournalActive    = 0
	JournalSuspended = 1
	JournalClosed    = 2
)

type Journal struct {
	JournalID         int       `gorm:"primaryKey;column:journal_id" json:"journal_id"`
	Name              string    `gorm:"column:name" json:"name"`
	Description       string    `gorm:"column:description" json:"description"`
	MetadataURI       string    `gorm:"column:metadata_uri" json:"metadata_uri"`
	OwnerID           int       `gorm:"column:owner_id" json:"owner_id"`
	Status            int       `gorm:"column:status" json:"status"`
	SubmissionFee     int64     `gorm:"column:submission_fee" json:"submission_fee"`
	Categories        string    `gorm:"column:categories" json:"categories"` // JSON array of strings
	MinReviewerTier   int       `gorm:"column:min_reviewer_tier" json:"min_reviewer_tier"`
	RequiredReviewers int       `gorm:"column:required_reviewers" json:"required_reviewers"`
	TotalSubmissions  int       `gorm:"column:total_submissions" json:"total_submissions"`
	TotalPublished    int       `gorm:"column:total_published" json:"total_published"`
	CreatedAt         time.Time `gorm:"column:created_at" json:"created_at"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

// JournalEditor is the per-journal editor set (set semantics: a duplicate add
// is a no-op).
type JournalEditor struct {
	ID        int       `gorm:"primaryKey;column:id" json:"id"`
	JournalID int       `gorm:"column:journal_id;uniqueIndex:idx_journal_editor" json:"journal_id"`
	UserID    int       `gorm:"column:user_id;uniqueIndex:idx_journal_editor" json:"user_id"`
	AddedAt   time.Time `gorm:"column:added_at" json:"added_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// EditorRole is the reference-counted shared editor capability. The capability
// is held while JournalCount > 0: an editor serving several journals keeps the
// role until removed from all of them. Maintained only through AddEditor and
// RemoveEditor, never inferred from set scans.
type EditorRole struct {
	UserID       int `gorm:"primaryKey;column:user_id" json:"user_id"`
	JournalCount int `gorm:"column:journal_count" json:"journal_count"`
}

func (Journal) TableName() string {
	return "journals"
}

func (JournalEditor) TableName() string {
	return "journal_editors"
}

func (EditorRole) TableName() string {
	return "editor_roles"
}
