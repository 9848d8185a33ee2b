package auth

import (
	"net/http"
	"strings"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
	"github.com/gin-gonic/gin"
)

// Define a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserUUIDKey is the context key for user UUID (email/user_id/sub).
	UserUUIDKey contextKey = "user_uuid"
	// UserIDKey is the context key for the stable user ID (for Firestore paths).
	UserIDKey contextKey = "user_id"
)

type FirebaseAuthMiddleware struct {
	validator TokenValidator
}

func NewFirebaseAuthMiddleware(validator TokenValidator) (*FirebaseAuthMiddleware, error) {
	return &FirebaseAuthMiddleware{
		validator: validator,
	}, nil
}

// RequireAuth is a middleware that validates bearer tokens and attaches
// the user identity to the request context.
func (f *FirebaseAuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token is empty"})
			c.Abort()
			return
		}

		userUUID, err := f.validator.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Stable ID for Firestore paths (quota record, saved artifacts).
		userID, err := f.validator.ExtractUserID(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Attach user identity to both Gin context and request context.
		ctx := logger.WithUserID(c.Request.Context(), userUUID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(UserUUIDKey), userUUID)
		c.Set(string(UserIDKey), userID)

		c.Next()
	}
}

// GetUserUUID extracts the user UUID (email/user_id/sub) from the Gin context.
func GetUserUUID(c *gin.Context) (string, bool) {
	userUUID, exists := c.Get(string(UserUUIDKey))
	if !exists {
		return "", false
	}

	uuid, ok := userUUID.(string)
	return uuid, ok
}

// GetUserID extracts the stable user ID from the Gin context.
// This should be used for Firestore paths instead of GetUserUUID.
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(string(UserIDKey))
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	return id, ok
}
