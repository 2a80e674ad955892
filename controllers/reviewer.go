package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RegisterReviewerRequest struct {
	MetadataURI string `json:"metadata_uri"`
}

// RegisterReviewer enrolls the caller in the reviewer registry with the fixed
// starting tier, reputation and token grant.
func RegisterReviewer(c *gin.Context) {
	var req RegisterReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reviewer, err := identitySvc.Register(caller(c), req.MetadataURI)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reviewer": reviewer})
}

// GetReviewer returns a reviewer profile by user id.
func GetReviewer(c *gin.Context) {
	reviewerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}

	reviewer, err := identitySvc.GetReviewer(reviewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviewer": reviewer})
}

// UpdateReviewerMetadata replaces the caller's own metadata URI.
func UpdateReviewerMetadata(c *gin.Context) {
	var req RegisterReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := identitySvc.UpdateMetadata(caller(c), req.MetadataURI); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Metadata updated"})
}

// UpdateReviewerTier sets a reviewer's tier. Admin only (enforced by route).
func UpdateReviewerTier(c *gin.Context) {
	reviewerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}

	var req struct {
		Tier int `json:"tier" binding:"min=0,max=3"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := identitySvc.UpdateTier(caller(c), reviewerID, req.Tier); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tier updated"})
}

// UpdateReviewerReputation applies a signed reputation delta. Admin only.
func UpdateReviewerReputation(c *gin.Context) {
	reviewerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}

	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := identitySvc.UpdateReputation(caller(c), reviewerID, req.Delta); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reputation updated"})
}

// DeactivateReviewer marks a reviewer inactive. Admin only.
func DeactivateReviewer(c *gin.Context) {
	reviewerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}

	if err := identitySvc.Deactivate(caller(c), reviewerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reviewer deactivated"})
}

// GetTokenHistory returns the caller's reward token mint ledger.
func GetTokenHistory(c *gin.Context) {
	history, err := identitySvc.TokenHistory(caller(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": history})
}
