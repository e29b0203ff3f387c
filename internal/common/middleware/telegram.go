package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/open-builders/giveaway-engine/internal/common/errors"
	"github.com/open-builders/giveaway-engine/internal/common/logger"
)

// Context keys set from Telegram init data.
const (
	UserIDCtxParam   = "user_id"
	UsernameCtxParam = "username"
)

const (
	initDataHeader     = "X-Telegram-Init-Data"
	initDataQueryParam = "init_data"
)

// InitData authenticates Mini App requests. Init data is read from the
// X-Telegram-Init-Data header or the init_data query parameter and must be
// signed with token; ttl of zero disables the age check.
func InitData(token string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			AbortWithError(c, errors.New(errors.ErrCodeInternal, "Init data validation is not configured"))
			return
		}

		raw := c.GetHeader(initDataHeader)
		if raw == "" {
			raw = c.Query(initDataQueryParam)
		}
		if raw == "" {
			AbortWithError(c, errors.NewUnauthorizedError("missing init data"))
			return
		}

		if err := initdata.Validate(raw, token, ttl); err != nil {
			logger.Debug().Err(err).Str("request_id", getRequestID(c)).Msg("Init data rejected")
			AbortWithError(c, errors.NewUnauthorizedError("invalid init data"))
			return
		}
		parsed, err := initdata.Parse(raw)
		if err != nil || parsed.User.ID == 0 {
			AbortWithError(c, errors.NewUnauthorizedError("init data carries no user"))
			return
		}

		c.Set(UserIDCtxParam, parsed.User.ID)
		c.Set(UsernameCtxParam, parsed.User.Username)
		c.Next()
	}
}

// RequireAdmin lets through only users accepted by isAdmin.
func RequireAdmin(isAdmin func(userID int64) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			AbortWithError(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}
		if !isAdmin(userID) {
			AbortWithError(c, errors.NewForbiddenError("admin access required"))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated Telegram user id.
func UserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(UserIDCtxParam)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id != 0
}
