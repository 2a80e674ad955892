package controllers

import (
	"net/http"

	"academic-registry-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	identitySvc   *services.IdentityService
	governanceSvc *services.GovernanceService
	paperSvc      *services.PaperService
	datasetSvc    *services.DatasetService
	submissionSvc *services.SubmissionService
	journalSvc    *services.JournalService
	walletSvc     *services.WalletService
)

// InitServices wires the service layer once at startup. The journal service
// constructor registers itself as the orchestrator with the submission and
// identity services.
func InitServices(database *gorm.DB) {
	db = database
	identitySvc = services.NewIdentityService(database)
	governanceSvc = services.NewGovernanceService(database)
	paperSvc = services.NewPaperService(database)
	datasetSvc = services.NewDatasetService(database)
	submissionSvc = services.NewSubmissionService(database)
	journalSvc = services.NewJournalService(database, submissionSvc, identitySvc)
	walletSvc = services.NewWalletService(database)
}

// caller builds the service-layer authorization context from the claims the
// auth middleware stored on the request.
func caller(c *gin.Context) services.Caller {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")
	uid, _ := userID.(int)
	rid, _ := roleID.(int)
	return services.Caller{UserID: uid, RoleID: rid}
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindUnauthorized:
		status = http.StatusForbidden
	case services.KindState, services.KindDuplicate:
		status = http.StatusConflict
	case services.KindPayment:
		status = http.StatusPaymentRequired
	case services.KindNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
