package routes

import (
	"academic-registry-api/controllers"
	"academic-registry-api/middleware"
	"academic-registry-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Academic Registry API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Wallet
			protected.POST("/wallet/deposit", controllers.Deposit)
			protected.GET("/wallet/balance", controllers.GetBalance)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)
			protected.PUT("/notifications/read-all", controllers.MarkAllNotificationsRead)

			// Domain event log
			protected.GET("/events", middleware.RequireRole(models.RoleAdmin), controllers.GetEvents)

			// Reviewer registry
			reviewers := protected.Group("/reviewers")
			{
				reviewers.POST("", controllers.RegisterReviewer)
				reviewers.GET("/:id", controllers.GetReviewer)
				reviewers.PUT("/me/metadata", controllers.UpdateReviewerMetadata)
				reviewers.GET("/me/tokens", controllers.GetTokenHistory)

				// Only admin can adjust tier, reputation, or active state
				reviewers.PUT("/:id/tier", middleware.RequireRole(models.RoleAdmin), controllers.UpdateReviewerTier)
				reviewers.PUT("/:id/reputation", middleware.RequireRole(models.RoleAdmin), controllers.UpdateReviewerReputation)
				reviewers.POST("/:id/deactivate", middleware.RequireRole(models.RoleAdmin), controllers.DeactivateReviewer)
			}

			// Governance proposals
			proposals := protected.Group("/proposals")
			{
				proposals.GET("", controllers.GetProposals)
				proposals.GET("/:id", controllers.GetProposal)
				proposals.POST("", controllers.CreateProposal)
				proposals.POST("/:id/vote", controllers.VoteProposal)
				proposals.POST("/:id/finalize", controllers.FinalizeProposal)
				proposals.POST("/:id/execute", middleware.RequireRole(models.RoleAdmin), controllers.ExecuteProposal)
			}

			// Paper registry
			papers := protected.Group("/papers")
			{
				papers.POST("", controllers.CreatePaper)
				papers.GET("/mine", controllers.GetMyPapers)
				papers.GET("/stats", controllers.GetPaperRegistryStats)
				papers.GET("/:id", controllers.GetPaper)
				papers.PUT("/:id", controllers.UpdatePaper)
				papers.POST("/:id/cite", controllers.CitePaper)
				papers.GET("/:id/citations", controllers.GetCitations)
			}

			// Dataset registry
			datasets := protected.Group("/datasets")
			{
				datasets.POST("", controllers.CreateDataset)
				datasets.GET("/:id", controllers.GetDataset)
				datasets.PUT("/:id", controllers.UpdateDataset)
				datasets.PUT("/:id/freeze", controllers.FreezeDataset)
				datasets.POST("/:id/access", controllers.GrantDatasetAccess)
				datasets.POST("/:id/request-access", controllers.RequestDatasetAccess)
				datasets.GET("/:id/versions", controllers.GetDatasetVersions)
				datasets.GET("/:id/access/:user_id", controllers.GetDatasetAccessLevel)
				datasets.GET("/:id/authorized", controllers.GetDatasetAuthorizedUsers)
			}

			// Submissions and peer review
			submissions := protected.Group("/submissions")
			{
				submissions.POST("", controllers.CreateSubmission)
				submissions.GET("/mine/assignments", controllers.GetMyAssignments)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.GET("/:id/reviews", controllers.GetSubmissionReviews)
				submissions.POST("/:id/reviews", controllers.SubmitReview)
				submissions.POST("/:id/revision", controllers.SubmitRevision)

				// Editor workflow (editor membership enforced by the service)
				submissions.POST("/:id/reviewers", controllers.AssignSubmissionReviewer)
				submissions.POST("/:id/decision", controllers.RecordSubmissionDecision)
				submissions.POST("/:id/rewards", controllers.DistributeReviewReward)
				submissions.POST("/:id/publish", controllers.PublishSubmission)
			}

			// Journals
			journals := protected.Group("/journals")
			{
				journals.GET("", controllers.GetJournals)
				journals.GET("/:id", controllers.GetJournal)
				journals.GET("/:id/editors", controllers.GetJournalEditors)
				journals.GET("/:id/stats", controllers.GetJournalStats)

				// Only admin can create journals
				journals.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateJournal)

				// Journal owner operations (ownership enforced by the service)
				journals.POST("/:id/editors", controllers.AddJournalEditor)
				journals.DELETE("/:id/editors/:user_id", controllers.RemoveJournalEditor)
				journals.PUT("/:id/fee", controllers.UpdateJournalFee)
				journals.PUT("/:id/status", controllers.UpdateJournalStatus)
				journals.PUT("/:id/requirements", controllers.UpdateJournalRequirements)
			}
		}
	}
}
