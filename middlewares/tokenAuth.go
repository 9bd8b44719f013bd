package middlewares

import (
	"MediIntake/models"
	"MediIntake/utils"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKey defines a custom context key type to store user details in the context.
type contextKey string

const (
	userIDKey   contextKey = "userID"
	userTypeKey contextKey = "userType"
)

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*utils.TokenClaims, bool)
}

// TokenAuthMiddleware validates the bearer token and adds the user to the
// request context.
func TokenAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			HttpError(c, http.StatusUnauthorized, "Unauthorized", "Missing or invalid authorization header", nil)
			c.Abort()
			return
		}

		claims, ok := verifier.Verify(token)
		if !ok || claims.UserID == "" || !claims.UserType.Valid() {
			HttpError(c, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), claims.UserID, claims.UserType))

		c.Next()
	}
}

// UserTypeMiddleware restricts access to users of the given type.
func UserTypeMiddleware(required models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, err := ExtractUserTypeFromContext(c.Request.Context())
		if err != nil {
			HttpError(c, http.StatusUnauthorized, "Unauthorized", "User not found in request context", err)
			c.Abort()
			return
		}

		if userType != required {
			HttpError(c, http.StatusForbidden, "Forbidden", "This endpoint is only available to "+string(required)+" accounts", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ExtractUserIDFromContext retrieves the userID from the context.
func ExtractUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", errors.New("user ID not found in context")
	}
	return userID, nil
}

// ExtractUserTypeFromContext retrieves the user type from the context.
func ExtractUserTypeFromContext(ctx context.Context) (models.UserType, error) {
	userType, ok := ctx.Value(userTypeKey).(models.UserType)
	if !ok {
		return "", errors.New("user type not found in context")
	}
	return userType, nil
}

// WithUser returns a copy of ctx carrying the given user.
func WithUser(ctx context.Context, userID string, userType models.UserType) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userTypeKey, userType)
}
