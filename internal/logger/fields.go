package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldUserID    = "user_id"
	FieldSessionID = "session_id"
	FieldTenantID  = "tenant_id"
)

// RequestFields builds the correlation fields attached to per-request loggers.
// Empty values are omitted.
func RequestFields(userID, sessionID, tenantID string) []zap.Field {
	pairs := [][2]string{
		{FieldUserID, userID},
		{FieldSessionID, sessionID},
		{FieldTenantID, tenantID},
	}
	out := make([]zap.Field, 0, len(pairs))
	for _, p := range pairs {
		if v := strings.TrimSpace(p[1]); v != "" {
			out = append(out, zap.String(p[0], v))
		}
	}
	return out
}
