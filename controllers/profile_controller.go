package controllers

import (
	"errors"
	"net/http"

	"pitchpilot/apperrors"
	"pitchpilot/db"
	"pitchpilot/models"
	"pitchpilot/structs"
	"pitchpilot/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// GetProfile retrieves and returns user profile data
func GetProfile(ctx *gin.Context) {
	userID := ctx.GetString("userId")
	email := ctx.GetString("userEmail")

	user, err := db.GetUserProfile(ctx.Request.Context(), userID)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			// First visit: respond with a skeleton profile instead of
			// failing the page.
			user = &models.User{UserID: userID, Email: email}
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	// Set avatar URL with DiceBear fallback
	if user.AvatarURL == "" {
		name := user.DisplayName
		if name == "" {
			name = utils.ExtractNameFromEmail(email)
		}
		user.AvatarURL = "https://api.dicebear.com/9.x/adventurer/svg?seed=" + name
	}

	ctx.JSON(http.StatusOK, user)
}

// UpdateProfile merge-updates the caller's profile. Fields omitted from
// the request stay as they were.
func UpdateProfile(ctx *gin.Context) {
	userID := ctx.GetString("userId")
	email := ctx.GetString("userEmail")

	var request structs.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	data := bson.M{"email": email}
	if request.DisplayName != "" {
		data["display_name"] = request.DisplayName
	}
	if request.Company != "" {
		data["company"] = request.Company
	}
	if request.Bio != "" {
		data["bio"] = request.Bio
	}
	if request.AvatarURL != "" {
		data["avatar_url"] = request.AvatarURL
	}

	if err := db.SaveUserProfile(ctx.Request.Context(), userID, data); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile", "message": "Please try again"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
