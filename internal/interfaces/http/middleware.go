package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/garyjia/claim-forms/internal/application/service"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	identityKey     = "identity"
	submitterKey    = "submitter"
)

// AuthConfig describes the bearer token convention. Tokens are the prefix
// followed by the user id; the admin id is the only administrator.
type AuthConfig struct {
	TokenPrefix        string
	AdminUserID        string
	AnonymousSubmitter string
}

// DefaultAuthConfig returns the stock token convention
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		TokenPrefix:        "mock-token-",
		AdminUserID:        "admin-1",
		AnonymousSubmitter: "admin-1",
	}
}

// requestIDMiddleware propagates or assigns a request id
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// authMiddleware resolves the caller identity. It never rejects a request;
// handlers decide what an anonymous caller may do.
func authMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := userIDFromHeader(c.GetHeader("Authorization"), cfg.TokenPrefix)
		identity := service.Identity{
			UserID: userID,
			Admin:  userID != "" && userID == cfg.AdminUserID,
		}

		submitter := userID
		if submitter == "" {
			submitter = cfg.AnonymousSubmitter
		}

		c.Set(identityKey, identity)
		c.Set(submitterKey, submitter)
		c.Next()
	}
}

func userIDFromHeader(header, prefix string) string {
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return ""
	}
	return strings.TrimPrefix(token, prefix)
}

func identityFrom(c *gin.Context) service.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(service.Identity); ok {
			return id
		}
	}
	return service.Identity{}
}

func submitterFrom(c *gin.Context) string {
	return c.GetString(submitterKey)
}
