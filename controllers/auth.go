package controllers

import (
	"errors"
	"net/http"
	"strings"

	"pitchpilot/apperrors"
	"pitchpilot/structs"

	"github.com/gin-gonic/gin"
)

// minPasswordLength is enforced locally before the identity provider
// is ever called.
const minPasswordLength = 6

func SignUp(ctx *gin.Context) {
	var request structs.SignUpRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": "Check email and password format"})
		return
	}

	if request.Password != request.ConfirmPassword {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to sign up", "message": "Passwords do not match"})
		return
	}
	if len(request.Password) < minPasswordLength {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to sign up", "message": "Password must be at least 6 characters"})
		return
	}

	sess, err := Provider.SignUp(ctx.Request.Context(), request.Email, request.Password)
	if err != nil {
		var authErr *apperrors.AuthError
		if errors.As(err, &authErr) {
			status := http.StatusBadRequest
			if strings.Contains(authErr.Message, "already registered") {
				status = http.StatusConflict
			}
			ctx.JSON(status, gin.H{"error": "Failed to sign up", "message": authErr.Message})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up", "message": "Please try again"})
		return
	}

	ctx.JSON(http.StatusOK, structs.AuthResponse{
		Message:     "Sign-up successful",
		UserID:      sess.UserID,
		Email:       sess.Email,
		AccessToken: sess.AccessToken,
	})
}

func Login(ctx *gin.Context) {
	var request structs.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": "Check email and password format"})
		return
	}

	sess, err := Provider.Login(ctx.Request.Context(), request.Email, request.Password)
	if err != nil {
		var authErr *apperrors.AuthError
		if errors.As(err, &authErr) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to sign in", "message": authErr.Message})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in", "message": "Please try again"})
		return
	}

	ctx.JSON(http.StatusOK, structs.AuthResponse{
		Message:     "Sign-in successful",
		UserID:      sess.UserID,
		Email:       sess.Email,
		AccessToken: sess.AccessToken,
	})
}

// Logout acknowledges a sign-out. Bearer tokens are held client-side,
// so the client drops its cached token on this response.
func Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func VerifyToken(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token format"})
		return
	}

	identity, err := Provider.Validate(ctx.Request.Context(), tokenParts[1])
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Token is valid", "userId": identity.UserID, "email": identity.Email})
}
