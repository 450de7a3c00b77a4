package routes

import (
	"fmt"
	"net/http"
	"time"

	"agency-approval-portal/internal/config"
	"agency-approval-portal/internal/logger"
	"agency-approval-portal/middleware"
	"agency-approval-portal/models"
	"agency-approval-portal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupScheduleRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	api := router.Group("/api")
	api.Use(authMiddleware.RequireAuth())
	api.Use(roleMiddleware.StaffGuard())

	db := mongoClient.Database(cfg.DBName)
	colls := scheduleCollections{
		clients:   db.Collection("clients"),
		schedules: db.Collection("schedules"),
		items:     db.Collection("schedule_items"),
		feedbacks: db.Collection("item_feedbacks"),
	}

	api.POST("/clients/:id/schedules", handleCreateSchedule(colls))
	api.GET("/clients/:id/schedules", handleListSchedules(cfg, colls))
	api.GET("/schedules/:id", handleGetSchedule(colls))
	api.DELETE("/schedules/:id", handleDeleteSchedule(colls))

	api.POST("/schedules/:id/items", handleCreateItem(colls))
	api.PUT("/items/:id", handleUpdateItem(colls))
	api.DELETE("/items/:id", handleDeleteItem(colls))
}

func handleCreateSchedule(colls scheduleCollections) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid client ID format", nil)
			return
		}

		var req models.CreateScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		var client models.Client
		if err := colls.clients.FindOne(ctx, bson.M{"_id": clientID}).Decode(&client); err != nil {
			if err == mongo.ErrNoDocuments {
				utils.RespondWithNotFound(c, "Client not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to load client", nil)
			return
		}

		// The public link is derived once, here, and stored. Renaming the
		// client later must not break links already shared with them.
		schedule := models.Schedule{
			ClientID:   clientID,
			Month:      req.Month,
			Year:       req.Year,
			PublicLink: utils.GeneratePublicLink(client.Name, req.Month, req.Year),
			CreatedAt:  time.Now(),
		}

		result, err := colls.schedules.InsertOne(ctx, schedule)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithConflict(c, "schedule_exists", "A schedule with this public link already exists")
				return
			}
			utils.RespondWithInternalError(c, "Failed to create schedule", nil)
			return
		}

		schedule.ID = result.InsertedID.(primitive.ObjectID)
		logger.Info("schedule created",
			"schedule_id", schedule.ID.Hex(),
			"client_id", clientID.Hex(),
			"public_link", schedule.PublicLink,
			"by", middleware.GetUserID(c))

		c.JSON(http.StatusCreated, schedule)
	}
}

func handleListSchedules(cfg *config.Config, colls scheduleCollections) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid client ID format", nil)
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		cursor, err := colls.schedules.Find(ctx, bson.M{"client_id": clientID},
			options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}}))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list schedules", nil)
			return
		}

		schedules := []models.Schedule{}
		if err := cursor.All(ctx, &schedules); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode schedules", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"schedules":       schedules,
			"total":           len(schedules),
			"public_base_url": cfg.PublicBaseURL,
		})
	}
}

func handleGetSchedule(colls scheduleCollections) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheduleID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid schedule ID format", nil)
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		detail, err := loadScheduleDetail(ctx, colls, bson.M{"_id": scheduleID})
		if err != nil {
			if err == mongo.ErrNoDocuments {
				utils.RespondWithNotFound(c, "Schedule not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to load schedule", nil)
			return
		}

		c.JSON(http.StatusOK, detail)
	}
}

func handleDeleteSchedule(colls scheduleCollections) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheduleID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid schedule ID format", nil)
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		itemIDs, err := collectIDs(ctx, colls.items, bson.M{"schedule_id": scheduleID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to resolve schedule items", nil)
			return
		}

		if len(itemIDs) > 0 {
			if _, err := colls.feedbacks.DeleteMany(ctx, bson.M{"item_id": bson.M{"$in": itemIDs}}); err != nil {
				utils.RespondWithInternalError(c, "Failed to delete item feedbacks", nil)
				return
			}
			if _, err := colls.items.DeleteMany(ctx, bson.M{"schedule_id": scheduleID}); err != nil {
				utils.RespondWithInternalError(c, "Failed to delete schedule items", nil)
				return
			}
		}

		result, err := colls.schedules.DeleteOne(ctx, bson.M{"_id": scheduleID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to delete schedule", nil)
			return
		}
		if result.DeletedCount == 0 {
			utils.RespondWithNotFound(c, "Schedule not found")
			return
		}

		logger.Info("schedule deleted", "schedule_id", scheduleID.Hex(), "items", len(itemIDs), "by", middleware.GetUserID(c))

		c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
	}
}

func handleCreateItem(colls scheduleCollections) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheduleID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid schedule ID format", nil)
			return
		}

		var req models.CreateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		if err := colls.schedules.FindOne(ctx, bson.M{"_id": scheduleID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				utils.RespondWithNotFound(c, "Schedule not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to load schedule", nil)
			return
		}

		count, err := colls.items.CountDocuments(ctx, bson.M{"schedule_id": scheduleID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to count schedule items", nil)
			return
		}

		item := models.ScheduleItem{
			ScheduleID: scheduleID,
			ArtURL:     utils.NormalizeDriveURL(req.ArtURL),
			Caption:    req.Caption,
			Order:      int(count) + 1,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}

		result, err := colls.items.InsertOne(ctx, item)
		if err != nil {
			// Two staff adding items at once can both compute the same
			// order; the unique (schedule_id, order) index rejects the loser.
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithConflict(c, "order_taken",
					fmt.Sprintf("Item #%d was just added by someone else, please retry", item.Order))
				return
			}
			utils.RespondWithInternalError(c, "Failed to create item", nil)
			return
		}

		item.ID = result.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, item)
	}
}

func handleUpdateItem(colls scheduleCollections) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid item ID format", nil)
			return
		}

		var req models.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.ArtURL != nil {
			set["art_url"] = utils.NormalizeDriveURL(*req.ArtURL)
		}
		if req.Caption != nil {
			set["caption"] = *req.Caption
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := colls.items.UpdateOne(ctx, bson.M{"_id": itemID}, bson.M{"$set": set})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to update item", nil)
			return
		}
		if result.MatchedCount == 0 {
			utils.RespondWithNotFound(c, "Item not found")
			return
		}

		var item models.ScheduleItem
		if err := colls.items.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
			utils.RespondWithInternalError(c, "Failed to load item", nil)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

func handleDeleteItem(colls scheduleCollections) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid item ID format", nil)
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		if _, err := colls.feedbacks.DeleteMany(ctx, bson.M{"item_id": itemID}); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete item feedback", nil)
			return
		}

		result, err := colls.items.DeleteOne(ctx, bson.M{"_id": itemID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to delete item", nil)
			return
		}
		if result.DeletedCount == 0 {
			utils.RespondWithNotFound(c, "Item not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
	}
}
