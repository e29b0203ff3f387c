package http

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/open-builders/giveaway-engine/internal/common/errors"
	"github.com/open-builders/giveaway-engine/internal/common/middleware"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
)

// participant returns the authenticated caller or records an UNAUTHORIZED
// error on c.
func participant(c *gin.Context) (models.ParticipantID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		_ = c.Error(apperrors.NewUnauthorizedError("Telegram init data required"))
		return 0, false
	}
	return models.ParticipantID(id), true
}
