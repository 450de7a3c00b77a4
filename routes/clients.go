package routes

import (
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

func SetupClientRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	api := router.Group("/api")
	api.Use(authMiddleware.RequireAuth())
	api.Use(roleMiddleware.StaffGuard())

	db := mongoClient.Database(cfg.DBName)
	clientsCollection := db.Collection("clients")
	schedulesCollection := db.Collection("schedules")
	itemsCollection := db.Collection("schedule_items")
	feedbacksCollection := db.Collection("item_feedbacks")

	api.POST("/clients", handleCreateClient(clientsCollection))
	api.GET("/clients", handleListClients(clientsCollection))
	api.GET("/clients/:id", handleGetClient(clientsCollection))
	api.PUT("/clients/:id", handleUpdateClient(clientsCollection))
	api.DELETE("/clients/:id", handleDeleteClient(clientsCollection, schedulesCollection, itemsCollection, feedbacksCollection))
}

func handleCreateClient(clientsCollection *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateClientRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		client := models.Client{
			Name:              req.Name,
			InstagramHandle:   req.InstagramHandle,
			ProfilePictureURL: utils.NormalizeDriveURL(req.ProfilePictureURL),
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
		}

		result, err := clientsCollection.InsertOne(ctx, client)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithConflict(c, "handle_exists", "A client with this Instagram handle already exists")
				return
			}
			utils.RespondWithInternalError(c, "Failed to create client", nil)
			return
		}

		client.ID = result.InsertedID.(primitive.ObjectID)
		logger.Info("client created", "client_id", client.ID.Hex(), "by", middleware.GetUserID(c))

		c.JSON(http.StatusCreated, client)
	}
}

func handleListClients(clientsCollection *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		cursor, err := clientsCollection.Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list clients", nil)
			return
		}

		clients := []models.Client{}
		if err := cursor.All(ctx, &clients); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode clients", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"clients": clients, "total": len(clients)})
	}
}

func handleGetClient(clientsCollection *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		objID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid client ID format", nil)
			return
		}

		ctx, cancel := utils.WithShortTimeout(c.Request.Context())
		defer cancel()

		var client models.Client
		if err := clientsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&client); err != nil {
			if err == mongo.ErrNoDocuments {
				utils.RespondWithNotFound(c, "Client not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to load client", nil)
			return
		}

		c.JSON(http.StatusOK, client)
	}
}

func handleUpdateClient(clientsCollection *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		objID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid client ID format", nil)
			return
		}

		var req models.UpdateClientRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		// Profile edits never touch stored public links; those snapshot the
		// slug at schedule creation time.
		set := bson.M{"updated_at": time.Now()}
		if req.Name != nil {
			set["name"] = *req.Name
		}
		if req.InstagramHandle != nil {
			set["instagram_handle"] = *req.InstagramHandle
		}
		if req.ProfilePictureURL != nil {
			set["profile_picture_url"] = utils.NormalizeDriveURL(*req.ProfilePictureURL)
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		result, err := clientsCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithConflict(c, "handle_exists", "A client with this Instagram handle already exists")
				return
			}
			utils.RespondWithInternalError(c, "Failed to update client", nil)
			return
		}
		if result.MatchedCount == 0 {
			utils.RespondWithNotFound(c, "Client not found")
			return
		}

		var client models.Client
		if err := clientsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&client); err != nil {
			utils.RespondWithInternalError(c, "Failed to load client", nil)
			return
		}

		c.JSON(http.StatusOK, client)
	}
}

// handleDeleteClient removes a client and everything hanging off it. Mongo
// has no foreign keys, so the cascade is explicit: feedbacks, items,
// schedules, then the client itself.
func handleDeleteClient(clientsCollection, schedulesCollection, itemsCollection, feedbacksCollection *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		objID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid client ID format", nil)
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		scheduleIDs, err := collectIDs(ctx, schedulesCollection, bson.M{"client_id": objID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to resolve client schedules", nil)
			return
		}

		if len(scheduleIDs) > 0 {
			itemIDs, err := collectIDs(ctx, itemsCollection, bson.M{"schedule_id": bson.M{"$in": scheduleIDs}})
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to resolve schedule items", nil)
				return
			}

			if len(itemIDs) > 0 {
				if _, err := feedbacksCollection.DeleteMany(ctx, bson.M{"item_id": bson.M{"$in": itemIDs}}); err != nil {
					utils.RespondWithInternalError(c, "Failed to delete item feedbacks", nil)
					return
				}
			}
			if _, err := itemsCollection.DeleteMany(ctx, bson.M{"schedule_id": bson.M{"$in": scheduleIDs}}); err != nil {
				utils.RespondWithInternalError(c, "Failed to delete schedule items", nil)
				return
			}
			if _, err := schedulesCollection.DeleteMany(ctx, bson.M{"client_id": objID}); err != nil {
				utils.RespondWithInternalError(c, "Failed to delete schedules", nil)
				return
			}
		}

		result, err := clientsCollection.DeleteOne(ctx, bson.M{"_id": objID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to delete client", nil)
			return
		}
		if result.DeletedCount == 0 {
			utils.RespondWithNotFound(c, "Client not found")
			return
		}

		logger.Info("client deleted", "client_id", objID.Hex(), "schedules", len(scheduleIDs), "by", middleware.GetUserID(c))

		c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
	}
}
