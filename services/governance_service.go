package services

import (
	"academic-registry-api/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Governance parameters. Deliberately simple: token-weighted votes with a flat
// quorum, nothing stronger is exercised by the workflow.
const (
	ProposalTokenThreshold = 10
	ProposalQuorumWeight   = 20
	VotingPeriod           = 7 * 24 * time.Hour
)

// GovernanceService is the proposal subsystem of the identity registry.
type GovernanceService struct {
	db *gorm.DB
}

func NewGovernanceService(db *gorm.DB) *GovernanceService {
	return &GovernanceService{db: db}
}

// CreateProposal opens a proposal. The proposer must hold at least the token
// threshold.
func (s *GovernanceService) CreateProposal(caller Caller, proposalType int, description, encodedData string) (*models.Proposal, error) {
	if proposalType < models.ProposalGeneral || proposalType > models.ProposalParameterChange {
		return nil, stateError("Invalid proposal type")
	}

	var proposal models.Proposal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reviewer, err := lockReviewer(tx, caller.UserID)
		if err != nil {
			return err
		}
		if reviewer.TokenBalance < ProposalTokenThreshold {
			return stateError("Insufficient tokens to propose")
		}

		now := time.Now()
		proposal = models.Proposal{
			ProposalType:   proposalType,
			Description:    description,
			EncodedData:    encodedData,
			ProposerID:     caller.UserID,
			Status:         models.ProposalActive,
			VotingDeadline: now.Add(VotingPeriod),
			CreatedAt:      now,
		}
		if err := tx.Create(&proposal).Error; err != nil {
			return err
		}

		return recordEvent(tx, EventProposalCreated, proposalCreatedPayload{
			ProposalID: proposal.ProposalID,
			Proposer:   caller.UserID,
			Type:       proposalType,
		})
	})
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// Vote records a token-weighted vote. One vote per reviewer per proposal;
// weight is the voter's token balance at vote time.
func (s *GovernanceService) Vote(caller Caller, proposalID, voteType int) error {
	if voteType < models.VoteAgainst || voteType > models.VoteAbstain {
		return stateError("Invalid vote type")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		if err := tx.Where("proposal_id = ?", proposalID).First(&proposal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Proposal not found")
			}
			return err
		}
		if proposal.Status != models.ProposalActive {
			return stateError("Proposal is not active")
		}
		if time.Now().After(proposal.VotingDeadline) {
			return stateError("Voting period has ended")
		}

		reviewer, err := lockReviewer(tx, caller.UserID)
		if err != nil {
			return err
		}
		if !reviewer.IsActive {
			return authorizationError("Not authorized")
		}

		var existing models.ProposalVote
		err = tx.Where("proposal_id = ? AND voter_id = ?", proposalID, caller.UserID).First(&existing).Error
		if err == nil {
			return duplicateError("Already voted")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		vote := models.ProposalVote{
			ProposalID: proposalID,
			VoterID:    caller.UserID,
			VoteType:   voteType,
			Weight:     reviewer.TokenBalance,
			CreatedAt:  time.Now(),
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}

		column := map[int]string{
			models.VoteAgainst: "against_weight",
			models.VoteFor:     "for_weight",
			models.VoteAbstain: "abstain_weight",
		}[voteType]
		return tx.Model(&models.Proposal{}).
			Where("proposal_id = ?", proposalID).
			Update(column, gorm.Expr(column+" + ?", reviewer.TokenBalance)).Error
	})
}

// Finalize settles an active proposal once its voting window has closed:
// Passed when for-votes beat against-votes and the quorum weight was reached,
// Rejected otherwise.
func (s *GovernanceService) Finalize(proposalID int) (*models.Proposal, error) {
	var proposal models.Proposal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("proposal_id = ?", proposalID).First(&proposal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Proposal not found")
			}
			return err
		}
		if proposal.Status != models.ProposalActive {
			return stateError("Proposal is not active")
		}
		if time.Now().Before(proposal.VotingDeadline) {
			return stateError("Voting period not ended")
		}

		total := proposal.ForWeight + proposal.AgainstWeight + proposal.AbstainWeight
		status := models.ProposalRejected
		if proposal.ForWeight > proposal.AgainstWeight && total >= ProposalQuorumWeight {
			status = models.ProposalPassed
		}
		proposal.Status = status

		if err := tx.Model(&models.Proposal{}).
			Where("proposal_id = ?", proposalID).
			Update("status", status).Error; err != nil {
			return err
		}

		return recordEvent(tx, EventProposalFinalized, proposalFinalizedPayload{
			ProposalID: proposalID,
			Status:     status,
		})
	})
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// Execute marks a passed proposal executed. Admin only; the encoded action is
// applied off-band by the caller.
func (s *GovernanceService) Execute(caller Caller, proposalID int) error {
	if !caller.IsAdmin() {
		return authorizationError("Not authorized")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		if err := tx.Where("proposal_id = ?", proposalID).First(&proposal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Proposal not found")
			}
			return err
		}
		if proposal.Status != models.ProposalPassed {
			return stateError("Proposal has not passed")
		}
		return tx.Model(&models.Proposal{}).
			Where("proposal_id = ?", proposalID).
			Update("status", models.ProposalExecuted).Error
	})
}

// GetProposal returns one proposal with its votes.
func (s *GovernanceService) GetProposal(proposalID int) (*models.Proposal, []models.ProposalVote, error) {
	var proposal models.Proposal
	if err := s.db.Where("proposal_id = ?", proposalID).First(&proposal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFoundError("Proposal not found")
		}
		return nil, nil, err
	}
	var votes []models.ProposalVote
	if err := s.db.Where("proposal_id = ?", proposalID).Order("vote_id ASC").Find(&votes).Error; err != nil {
		return nil, nil, err
	}
	return &proposal, votes, nil
}

// ListProposals returns proposals newest first.
func (s *GovernanceService) ListProposals() ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := s.db.Order("proposal_id DESC").Find(&proposals).Error
	return proposals, err
}
