package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CreateDatasetRequest struct {
	IpfsHash    string `json:"ipfs_hash" binding:"required"`
	Price       int64  `json:"price" binding:"min=0"`
	IsPublic    bool   `json:"is_public"`
	MetadataURI string `json:"metadata_uri"`
}

// CreateDataset mints a dataset owned by the caller and records version 1.
func CreateDataset(c *gin.Context) {
	var req CreateDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dataset, err := datasetSvc.CreateDataset(caller(c), req.IpfsHash, req.Price, req.IsPublic, req.MetadataURI)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dataset": dataset})
}

// GetDataset returns one dataset.
func GetDataset(c *gin.Context) {
	datasetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	dataset, err := datasetSvc.GetDataset(datasetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataset": dataset})
}

// UpdateDataset replaces the content and appends a version. Owner only.
func UpdateDataset(c *gin.Context) {
	datasetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
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

	if err := datasetSvc.UpdateDataset(caller(c), datasetID, req.IpfsHash, req.MetadataURI); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dataset updated"})
}

// FreezeDataset toggles the frozen flag. Owner only.
func FreezeDataset(c *gin.Context) {
	datasetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	var req struct {
		Frozen *bool `json:"frozen" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := datasetSvc.Freeze(caller(c), datasetID, *req.Frozen); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Freeze state updated"})
}

// GrantDatasetAccess sets a grantee's access level; level 0 revokes.
func GrantDatasetAccess(c *gin.Context) {
	datasetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	var req struct {
		UserID int `json:"user_id" binding:"required"`
		Level  int `json:"level" binding:"min=0,max=2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := datasetSvc.GrantAccess(caller(c), datasetID, req.UserID, req.Level); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access updated"})
}

// RequestDatasetAccess resolves an access request, charging the caller for
// private priced datasets.
func RequestDatasetAccess(c *gin.Context) {
	datasetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	var req struct {
		Payment int64 `json:"payment" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := datasetSvc.RequestAccess(caller(c), datasetID, req.Payment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access granted"})
}

// GetDatasetVersions returns the ordered content history.
func GetDatasetVersions(c *gin.Context) {
	datasetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	versions, err := datasetSvc.GetVersions(datasetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// GetDatasetAccessLevel reports a user's grant on a dataset.
func GetDatasetAccessLevel(c *gin.Context) {
	datasetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	level, err := datasetSvc.CheckAccessLevel(datasetID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"level": level})
}

// GetDatasetAuthorizedUsers enumerates users holding grants on the dataset.
func GetDatasetAuthorizedUsers(c *gin.Context) {
	datasetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	users, err := datasetSvc.AuthorizedUsers(datasetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
