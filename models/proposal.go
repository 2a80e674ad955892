package models

import "time"

// Proposal types.
const (
	ProposalGeneral         = 0
	ProposalReviewerAdd     = 1
	ProposalReviewerRemoval = 2
	ProposalParameterChange = 3
)

// Proposal statuses.
const (
	ProposalActive   = 0
	ProposalPassed   = 1
	ProposalRejected = 2
	ProposalExecuted = 3
)

// Vote types.
const (
	VoteAgainst = 0
	VoteFor     = 1
	VoteAbstain = 2
)

type Proposal struct {
	ProposalID     int       `gorm:"primaryKey;column:proposal_id" json:"proposal_id"`
	ProposalType   int       `gorm:"column:proposal_type" json:"proposal_type"`
	Description    string    `gorm:"column:description" json:"description"`
	EncodedData    string    `gorm:"column:encoded_data" json:"encoded_data"`
	ProposerID     int       `gorm:"column:proposer_id" json:"proposer_id"`
	Status         int       `gorm:"column:status" json:"status"`
	ForWeight      int64     `gorm:"column:for_weight" json:"for_weight"`
	AgainstWeight  int64     `gorm:"column:against_weight" json:"against_weight"`
	AbstainWeight  int64     `gorm:"column:abstain_weight" json:"abstain_weight"`
	VotingDeadline time.Time `gorm:"column:voting_deadline" json:"voting_deadline"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

// ProposalVote holds one vote per voter per proposal; weight is the voter's
// token balance at vote time.
type ProposalVote struct {
	VoteID     int       `gorm:"primaryKey;column:vote_id" json:"vote_id"`
	ProposalID int       `gorm:"column:proposal_id;uniqueIndex:idx_proposal_voter" json:"proposal_id"`
	VoterID    int       `gorm:"column:voter_id;uniqueIndex:idx_proposal_voter" json:"voter_id"`
	VoteType   int       `gorm:"column:vote_type" json:"vote_type"`
	Weight     int64     `gorm:"column:weight" json:"weight"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Proposal) TableName() string {
	return "proposals"
}

func (ProposalVote) TableName() string {
	return "proposal_votes"
}
