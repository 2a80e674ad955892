package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CreatePaperRequest struct {
	IpfsHash    string `json:"ipfs_hash" binding:"required"`
	DOI         string `json:"doi"`
	MetadataURI string `json:"metadata_uri"`
}

// CreatePaper mints a paper record owned by the caller.
func CreatePaper(c *gin.Context) {
	var req CreatePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paper, err := paperSvc.CreatePaper(caller(c), req.IpfsHash, req.DOI, req.MetadataURI)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"paper": paper})
}

// GetPaper returns one paper.
func GetPaper(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper ID"})
		return
	}

	paper, err := paperSvc.GetPaper(paperID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paper": paper})
}

// UpdatePaper replaces a paper's content hash and metadata. Owner only.
func UpdatePaper(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper ID"})
		return
	}

	var req struct {
		IpfsHash    string `json:"ipfs_hash" binding:"required"`
		MetadataURI string `json:"metadata_uri"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := paperSvc.UpdatePaper(caller(c), paperID, req.IpfsHash, req.MetadataURI); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Paper updated"})
}

// CitePaper records a paid citation; the payment is debited from the caller's
// balance and split 95/5 between the paper owner and the registry.
func CitePaper(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper ID"})
		return
	}

	var req struct {
		Amount int64 `json:"amount" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	citation, err := paperSvc.Cite(caller(c), paperID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"citation": citation})
}

// GetCitations returns a paper's citation list.
func GetCitations(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper ID"})
		return
	}

	citations, err := paperSvc.GetCitations(paperID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"citations": citations})
}

// GetMyPapers returns the caller's papers.
func GetMyPapers(c *gin.Context) {
	papers, err := paperSvc.PapersByOwner(caller(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"papers": papers})
}

// GetPaperRegistryStats reports the registry size and retained citation cut.
func GetPaperRegistryStats(c *gin.Context) {
	total, err := paperSvc.TotalPapers()
	if err != nil {
		respondError(c, err)
		return
	}
	retained, err := paperSvc.RetainedEarnings()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_papers":      total,
		"retained_earnings": retained,
	})
}
