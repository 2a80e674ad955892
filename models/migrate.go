package models

import "gorm.io/gorm"

// Migrate creates or updates the full schema. Intended for development and
// tests; production schemas are managed with SQL migrations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&Reviewer{},
		&TokenTransaction{},
		&ReviewReward{},
		&Proposal{},
		&ProposalVote{},
		&Journal{},
		&JournalEditor{},
		&EditorRole{},
		&Paper{},
		&Citation{},
		&RegistryEarning{},
		&Dataset{},
		&DatasetVersion{},
		&DatasetAccess{},
		&Submission{},
		&SubmissionReviewer{},
		&Review{},
		&DomainEvent{},
		&Notification{},
	)
}
