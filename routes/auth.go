package routes

import (
	"net/http"
	"time"

	"agency-approval-portal/internal/auth"
	"agency-approval-portal/internal/config"
	"agency-approval-portal/middleware"
	"agency-approval-portal/models"
	"agency-approval-portal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupAuthRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, rdb *redis.Client, authMiddleware *middleware.AuthMiddleware) {
	authGroup := router.Group("/auth")

	db := mongoClient.Database(cfg.DBName)
	usersCollection := db.Collection("users")

	// Register endpoint (staff accounts only; end clients never get one)
	authGroup.POST("/register", func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		// Check if username already exists
		var existingUser models.User
		if err := usersCollection.FindOne(ctx, bson.M{"username": req.Username}).Decode(&existingUser); err == nil {
			utils.RespondWithConflict(c, "username_exists", "Username already exists")
			return
		}

		hashedPassword, err := utils.HashPassword(req.Password, cfg.BcryptCost)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to process password", nil)
			return
		}

		user := models.User{
			Username:     req.Username,
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hashedPassword,
			Role:         req.Role,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		result, err := usersCollection.InsertOne(ctx, user)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create user", nil)
			return
		}

		userID := result.InsertedID.(primitive.ObjectID).Hex()
		tokenPair, err := auth.IssueTokenPair(userID, req.Role, rdb)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to issue session tokens", nil)
			return
		}

		authMiddleware.SetSessionCookies(c, tokenPair)

		c.JSON(http.StatusCreated, models.LoginResponse{
			AccessToken:  tokenPair.AccessToken,
			RefreshToken: tokenPair.RefreshToken,
			AccessExp:    tokenPair.AccessExp,
			RefreshExp:   tokenPair.RefreshExp,
			User: models.UserInfo{
				ID:       userID,
				Username: req.Username,
				Name:     req.Name,
				Email:    req.Email,
				Role:     req.Role,
			},
		})
	})

	// Login endpoint
	authGroup.POST("/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		var user models.User
		if err := usersCollection.FindOne(ctx, bson.M{"username": req.Username}).Decode(&user); err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password", nil)
			return
		}

		if !utils.CheckPassword(req.Password, user.PasswordHash) {
			utils.RespondWithError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password", nil)
			return
		}

		tokenPair, err := auth.IssueTokenPair(user.ID.Hex(), user.Role, rdb)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to issue session tokens", nil)
			return
		}

		authMiddleware.SetSessionCookies(c, tokenPair)

		c.JSON(http.StatusOK, models.LoginResponse{
			AccessToken:  tokenPair.AccessToken,
			RefreshToken: tokenPair.RefreshToken,
			AccessExp:    tokenPair.AccessExp,
			RefreshExp:   tokenPair.RefreshExp,
			User: models.UserInfo{
				ID:       user.ID.Hex(),
				Username: user.Username,
				Name:     user.Name,
				Email:    user.Email,
				Role:     user.Role,
			},
		})
	})

	// Refresh token endpoint: rotates the pair
	authGroup.POST("/refresh", func(c *gin.Context) {
		refreshToken, err := c.Cookie("refresh_token")
		if err != nil || refreshToken == "" {
			refreshToken = utils.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		}
		if refreshToken == "" {
			utils.RespondWithUnauthorized(c, "Refresh token is required")
			return
		}

		claims, err := auth.ValidateRefreshToken(refreshToken, rdb)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid or expired refresh token")
			return
		}

		_ = auth.RevokeToken(claims.ID, true, rdb)

		tokenPair, err := auth.IssueTokenPair(claims.UserID, claims.Role, rdb)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to issue session tokens", nil)
			return
		}

		authMiddleware.SetSessionCookies(c, tokenPair)

		c.JSON(http.StatusOK, tokenPair)
	})

	// Logout endpoint: revokes both tokens and clears cookies. Stateless
	// beyond that, always succeeds from the caller's point of view.
	authGroup.POST("/logout", func(c *gin.Context) {
		if accessToken, err := c.Cookie("access_token"); err == nil && accessToken != "" {
			if claims, valErr := auth.ValidateAccessToken(accessToken, rdb); valErr == nil {
				_ = auth.RevokeToken(claims.ID, false, rdb)
			}
		}
		if refreshToken, err := c.Cookie("refresh_token"); err == nil && refreshToken != "" {
			if claims, valErr := auth.ValidateRefreshToken(refreshToken, rdb); valErr == nil {
				_ = auth.RevokeToken(claims.ID, true, rdb)
			}
		}

		authMiddleware.ClearSessionCookies(c)

		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	})

	// Current session lookup
	authGroup.GET("/me", authMiddleware.RequireAuth(), func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid session")
			return
		}

		ctx, cancel := utils.WithShortTimeout(c.Request.Context())
		defer cancel()

		var user models.User
		if err := usersCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
			utils.RespondWithNotFound(c, "User not found")
			return
		}

		c.JSON(http.StatusOK, models.UserInfo{
			ID:       user.ID.Hex(),
			Username: user.Username,
			Name:     user.Name,
			Email:    user.Email,
			Role:     user.Role,
		})
	})
}
