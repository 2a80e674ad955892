package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Deposit credits the caller's balance with platform credits.
func Deposit(c *gin.Context) {
	var req struct {
		Amount int64 `json:"amount" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := walletSvc.Deposit(caller(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetBalance returns the caller's credit balance.
func GetBalance(c *gin.Context) {
	balance, err := walletSvc.Balance(caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
