package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CreateProposalRequest struct {
	ProposalType int    `json:"proposal_type" binding:"min=0,max=3"`
	Description  string `json:"description" binding:"required"`
	EncodedData  string `json:"encoded_data"`
}

// CreateProposal opens a governance proposal for token holders.
func CreateProposal(c *gin.Context) {
	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal, err := governanceSvc.CreateProposal(caller(c), req.ProposalType, req.Description, req.EncodedData)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"proposal": proposal})
}

// VoteProposal casts a token-weighted vote.
func VoteProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var req struct {
		VoteType int `json:"vote_type" binding:"min=0,max=2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := governanceSvc.Vote(caller(c), proposalID, req.VoteType); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

// FinalizeProposal settles a proposal whose voting window closed.
func FinalizeProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	proposal, err := governanceSvc.Finalize(proposalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}

// ExecuteProposal marks a passed proposal executed. Admin only.
func ExecuteProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	if err := governanceSvc.Execute(caller(c), proposalID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proposal executed"})
}

// GetProposal returns one proposal with its votes.
func GetProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	proposal, votes, err := governanceSvc.GetProposal(proposalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposal": proposal, "votes": votes})
}

// GetProposals lists proposals newest first.
func GetProposals(c *gin.Context) {
	proposals, err := governanceSvc.ListProposals()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}
