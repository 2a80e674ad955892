package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CreateJournalRequest struct {
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description"`
	MetadataURI       string   `json:"metadata_uri"`
	OwnerID           int      `json:"owner_id" binding:"required"`
	SubmissionFee     int64    `json:"submission_fee" binding:"min=0"`
	Categories        []string `json:"categories"`
	MinReviewerTier   int      `json:"min_reviewer_tier" binding:"min=0,max=3"`
	RequiredReviewers int      `json:"required_reviewers" binding:"required,min=1"`
}

// CreateJournal registers a journal. Admin only (enforced by route).
func CreateJournal(c *gin.Context) {
	var req CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	journal, err := journalSvc.CreateJournal(caller(c), req.Name, req.Description, req.MetadataURI,
		req.OwnerID, req.SubmissionFee, req.Categories, req.MinReviewerTier, req.RequiredReviewers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"journal": journal})
}

// GetJournal returns one journal.
func GetJournal(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	journal, err := journalSvc.GetJournal(journalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"journal": journal})
}

// GetJournals lists all journals.
func GetJournals(c *gin.Context) {
	journals, err := journalSvc.ListJournals()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"journals": journals})
}

// AddJournalEditor adds an editor to a journal. Journal owner only.
func AddJournalEditor(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := journalSvc.AddEditor(caller(c), journalID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Editor added"})
}

// RemoveJournalEditor removes an editor from a journal. Journal owner only.
func RemoveJournalEditor(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}
	editorID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := journalSvc.RemoveEditor(caller(c), journalID, editorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Editor removed"})
}

// GetJournalEditors returns the journal's editor list.
func GetJournalEditors(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	editors, err := journalSvc.GetJournalEditors(journalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"editors": editors})
}

// AssignSubmissionReviewer assigns a reviewer to a submission on behalf of an
// editor of the submission's journal.
func AssignSubmissionReviewer(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req struct {
		ReviewerID int `json:"reviewer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := journalSvc.AssignReviewer(caller(c), submissionID, req.ReviewerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reviewer assigned"})
}

// RecordSubmissionDecision applies an editorial decision to a submission.
func RecordSubmissionDecision(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req struct {
		Status int `json:"status" binding:"required,min=2,max=4"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := journalSvc.RecordDecision(caller(c), submissionID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Decision recorded"})
}

// DistributeReviewReward rewards a completed review with tokens and
// reputation.
func DistributeReviewReward(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req struct {
		ReviewID     int  `json:"review_id" binding:"required"`
		QualityScore int  `json:"quality_score" binding:"min=0,max=100"`
		Timely       bool `json:"timely"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := journalSvc.DistributeReviewReward(caller(c), req.ReviewID, submissionID, req.QualityScore, req.Timely)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reward distributed", "amount": amount})
}

// PublishSubmission publishes an accepted submission into a journal volume.
func PublishSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req struct {
		VolumeInfo string `json:"volume_info"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := journalSvc.PublishPaper(caller(c), submissionID, req.VolumeInfo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Paper published"})
}

// UpdateJournalFee sets a journal's submission fee. Owner or admin.
func UpdateJournalFee(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	var req struct {
		SubmissionFee int64 `json:"submission_fee" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := journalSvc.UpdateSubmissionFee(caller(c), journalID, req.SubmissionFee); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submission fee updated"})
}

// UpdateJournalStatus sets a journal's status. Owner or admin.
func UpdateJournalStatus(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	var req struct {
		Status int `json:"status" binding:"min=0,max=2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := journalSvc.UpdateJournalStatus(caller(c), journalID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Journal status updated"})
}

// UpdateJournalRequirements sets the reviewer tier floor and quota. Owner or
// admin.
func UpdateJournalRequirements(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	var req struct {
		MinReviewerTier   int `json:"min_reviewer_tier" binding:"min=0,max=3"`
		RequiredReviewers int `json:"required_reviewers" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := journalSvc.UpdateJournalRequirements(caller(c), journalID, req.MinReviewerTier, req.RequiredReviewers); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Journal requirements updated"})
}

// GetJournalStats derives a journal's aggregates.
func GetJournalStats(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	stats, err := journalSvc.GetJournalStats(journalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
