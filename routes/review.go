package routes

import (
	"net/http"

	"agency-approval-portal/internal/config"
	"agency-approval-portal/internal/logger"
	"agency-approval-portal/internal/telemetry"
	"agency-approval-portal/middleware"
	"agency-approval-portal/models"
	"agency-approval-portal/services"
	"agency-approval-portal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupReviewRoutes wires the public review flow. These endpoints are
// deliberately unauthenticated: the public link itself is the credential,
// so they sit behind the per-IP rate limiter instead of the auth middleware.
func SetupReviewRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, rdb *redis.Client, metrics *telemetry.Metrics) {
	review := router.Group("/review")
	review.Use(middleware.RateLimitMiddleware(rdb, cfg))

	db := mongoClient.Database(cfg.DBName)
	colls := scheduleCollections{
		clients:   db.Collection("clients"),
		schedules: db.Collection("schedules"),
		items:     db.Collection("schedule_items"),
		feedbacks: db.Collection("item_feedbacks"),
	}

	review.GET("/:client/:month/:year", handleReviewPage(colls))
	review.POST("/:client/:month/:year/feedback", handleSubmitFeedback(colls, metrics))
}

// publicLinkFromParams rebuilds the stored lookup key from the URL segments.
// The link was stored verbatim at schedule creation, so the segments are
// joined as-is with no normalization.
func publicLinkFromParams(c *gin.Context) string {
	return c.Param("client") + "/" + c.Param("month") + "/" + c.Param("year")
}

func handleReviewPage(colls scheduleCollections) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		detail, err := loadScheduleDetail(ctx, colls, bson.M{"public_link": publicLinkFromParams(c)})
		if err != nil {
			if err == mongo.ErrNoDocuments {
				utils.RespondWithNotFound(c, "Schedule not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to load review page", nil)
			return
		}

		c.JSON(http.StatusOK, detail)
	}
}

func handleSubmitFeedback(colls scheduleCollections, metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SubmitFeedbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		var schedule models.Schedule
		if err := colls.schedules.FindOne(ctx, bson.M{"public_link": publicLinkFromParams(c)}).Decode(&schedule); err != nil {
			if err == mongo.ErrNoDocuments {
				utils.RespondWithNotFound(c, "Schedule not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to load schedule", nil)
			return
		}

		// Writes are applied in display order, so fetch items sorted
		cursor, err := colls.items.Find(ctx, bson.M{"schedule_id": schedule.ID},
			options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load schedule items", nil)
			return
		}
		var items []models.ScheduleItem
		if err := cursor.All(ctx, &items); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode schedule items", nil)
			return
		}

		// Validation fully gates the write path: nothing is stored unless
		// every item has a status and every non-approved one has a comment.
		if err := services.ValidateFeedbacks(items, req.Feedbacks); err != nil {
			code := "missing_status"
			if err == services.ErrMissingComment {
				code = "missing_comment"
			}
			metrics.RecordFeedbackSubmission("validation_failed")
			utils.RespondWithValidationError(c, code, err.Error(), nil)
			return
		}

		result, err := services.SubmitFeedbacks(ctx, colls.feedbacks, items, req.Feedbacks)
		if err != nil {
			logger.Error("feedback submission failed",
				"schedule_id", schedule.ID.Hex(),
				"error", err.Error())
			metrics.RecordFeedbackSubmission("store_error")
			utils.RespondWithInternalError(c, "Failed to submit feedback, please try again", nil)
			return
		}

		logger.Info("feedback submitted",
			"schedule_id", schedule.ID.Hex(),
			"inserted", result.Inserted,
			"updated", result.Updated)
		metrics.RecordFeedbackSubmission("success")

		c.JSON(http.StatusOK, gin.H{
			"message":  "Feedback submitted",
			"inserted": result.Inserted,
			"updated":  result.Updated,
		})
	}
}
