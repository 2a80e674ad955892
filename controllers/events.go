package controllers

import (
	"net/http"
	"strconv"

	"academic-registry-api/models"

	"github.com/gin-gonic/gin"
)

// GetEvents returns the domain event log, newest first. Optional filters:
// ?event_name=PaperPublished&limit=50
func GetEvents(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	query := db.Model(&models.DomainEvent{}).Order("event_id DESC").Limit(limit)
	if name := c.Query("event_name"); name != "" {
		query = query.Where("event_name = ?", name)
	}

	var events []models.DomainEvent
	if err := query.Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
