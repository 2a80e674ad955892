package services

import (
	"academic-registry-api/models"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Event names. The payload structs below fix the field order each event is
// observed with.
const (
	EventJournalCreated          = "JournalCreated"
	EventPaperPublished          = "PaperPublished"
	EventReviewerRegistered      = "ReviewerRegistered"
	EventReviewerAssigned        = "ReviewerAssigned"
	EventReviewSubmitted         = "ReviewSubmitted"
	EventSubmissionCreated       = "SubmissionCreated"
	EventSubmissionStatusUpdated = "SubmissionStatusUpdated"
	EventRevisionSubmitted       = "RevisionSubmitted"
	EventReviewRewardDistributed = "ReviewRewardDistributed"
	EventDataItemCreated         = "DataItemCreated"
	EventDOIUpdated              = "DOIUpdated"
	EventPaperCited              = "PaperCited"
	EventDataAccessed            = "DataAccessed"
	EventAccessGranted           = "AccessGranted"
	EventProposalCreated         = "ProposalCreated"
	EventProposalFinalized       = "ProposalFinalized"
)

type journalCreatedPayload struct {
	JournalID int    `json:"journal_id"`
	Name      string `json:"name"`
	Owner     int    `json:"owner"`
}

type paperPublishedPayload struct {
	SubmissionID int    `json:"submission_id"`
	JournalID    int    `json:"journal_id"`
	VolumeInfo   string `json:"volume_info"`
}

type reviewerRegisteredPayload struct {
	Reviewer int `json:"reviewer"`
	Tier     int `json:"tier"`
}

type reviewerAssignedPayload struct {
	SubmissionID int `json:"submission_id"`
	Reviewer     int `json:"reviewer"`
}

type reviewSubmittedPayload struct {
	ReviewID     int `json:"review_id"`
	Reviewer     int `json:"reviewer"`
	SubmissionID int `json:"submission_id"`
	Decision     int `json:"decision"`
}

type submissionCreatedPayload struct {
	SubmissionID int `json:"submission_id"`
	Author       int `json:"author"`
	PaperID      int `json:"paper_id"`
	JournalID    int `json:"journal_id"`
}

type submissionStatusUpdatedPayload struct {
	SubmissionID int `json:"submission_id"`
	NewStatus    int `json:"new_status"`
}

type revisionSubmittedPayload struct {
	SubmissionID int `json:"submission_id"`
	Author       int `json:"author"`
}

type reviewRewardDistributedPayload struct {
	ReviewID int   `json:"review_id"`
	Reviewer int   `json:"reviewer"`
	Amount   int64 `json:"amount"`
}

type dataItemCreatedPayload struct {
	TokenID  int    `json:"token_id"`
	Owner    int    `json:"owner"`
	IpfsHash string `json:"ipfs_hash"`
}

type doiUpdatedPayload struct {
	TokenID int    `json:"token_id"`
	DOI     string `json:"doi"`
}

type paperCitedPayload struct {
	PaperID int   `json:"paper_id"`
	Citer   int   `json:"citer"`
	Amount  int64 `json:"amount"`
}

type dataAccessedPayload struct {
	TokenID    int   `json:"token_id"`
	Accessor   int   `json:"accessor"`
	AmountPaid int64 `json:"amount_paid"`
}

type accessGrantedPayload struct {
	TokenID int `json:"token_id"`
	Grantee int `json:"grantee"`
	Level   int `json:"level"`
}

type proposalCreatedPayload struct {
	ProposalID int `json:"proposal_id"`
	Proposer   int `json:"proposer"`
	Type       int `json:"type"`
}

type proposalFinalizedPayload struct {
	ProposalID int `json:"proposal_id"`
	Status     int `json:"status"`
}

// recordEvent writes the event row inside the caller's transaction so a rolled
// back operation emits nothing.
func recordEvent(tx *gorm.DB, name string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := models.DomainEvent{
		EventName: name,
		Payload:   string(raw),
		EmittedAt: time.Now(),
	}
	return tx.Create(&event).Error
}
