package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CreateSubmissionRequest struct {
	PaperID     int    `json:"paper_id" binding:"required"`
	JournalID   int    `json:"journal_id" binding:"required"`
	MetadataURI string `json:"metadata_uri"`
}

// CreateSubmission submits a paper to a journal with the caller as author.
func CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := submissionSvc.CreateSubmission(caller(c), req.PaperID, req.JournalID, req.MetadataURI)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission": submission})
}

// GetSubmission returns one submission with its reviewer set.
func GetSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	submission, err := submissionSvc.GetSubmission(submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

// SubmitReview records the caller's review decision on a submission they were
// assigned to.
func SubmitReview(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req struct {
		Decision     int    `json:"decision" binding:"required,min=1,max=4"`
		CommentsHash string `json:"comments_hash"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := submissionSvc.SubmitReview(caller(c), submissionID, req.Decision, req.CommentsHash)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// SubmitRevision returns a revision-required submission to the submitted state
// with fresh content. Author only.
func SubmitRevision(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req struct {
		MetadataURI string `json:"metadata_uri" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := submissionSvc.SubmitRevision(caller(c), submissionID, req.MetadataURI); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Revision submitted"})
}

// GetSubmissionReviews returns a submission's reviews.
func GetSubmissionReviews(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	reviews, err := submissionSvc.GetSubmissionReviews(submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// GetMyAssignments returns every submission the caller was assigned to review.
func GetMyAssignments(c *gin.Context) {
	assignments, err := submissionSvc.GetReviewerAssignments(caller(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}
