package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/talent-shortlist/internal/util"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderSessionID = "X-Session-ID"
	HeaderTenantID  = "X-Tenant-ID"

	localUserID    = "user_id"
	localSessionID = "session_id"
	localTenantID  = "tenant_id"

	maxIdentifierLen = 128
)

// RequireUser rejects requests without a caller id. Authentication happens
// upstream; the id is trusted as given.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(HeaderUserID))
		if id == "" || len(id) > maxIdentifierLen {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:      fiber.StatusUnauthorized,
				ErrorCode: "missing_user",
				Message:   HeaderUserID + " header is required",
			})
		}
		c.Locals(localUserID, id)
		if tenant := strings.TrimSpace(c.Get(HeaderTenantID)); tenant != "" && len(tenant) <= maxIdentifierLen {
			c.Locals(localTenantID, tenant)
		}
		if sid := strings.TrimSpace(c.Get(HeaderSessionID)); sid != "" && len(sid) <= maxIdentifierLen {
			c.Locals(localSessionID, sid)
		}
		return c.Next()
	}
}

// RequireSession rejects requests without a session id. It must run after
// RequireUser.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if SessionID(c) == "" {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:      fiber.StatusBadRequest,
				ErrorCode: "missing_session",
				Message:   HeaderSessionID + " header is required",
			})
		}
		return c.Next()
	}
}

func UserID(c *fiber.Ctx) string    { return local(c, localUserID) }
func SessionID(c *fiber.Ctx) string { return local(c, localSessionID) }
func TenantID(c *fiber.Ctx) string  { return local(c, localTenantID) }

func local(c *fiber.Ctx, key string) string {
	v, _ := c.Locals(key).(string)
	return v
}
