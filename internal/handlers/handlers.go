package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emilythestrangee/book-review/backend/internal/apperror"
	"github.com/emilythestrangee/book-review/backend/internal/cache"
	"github.com/emilythestrangee/book-review/backend/internal/config"
	"github.com/emilythestrangee/book-review/backend/internal/notify"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Review  *ReviewHandler
	Comment *CommentHandler
	Vote    *VoteHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, store cache.Store, cfg *config.Config, log *logrus.Logger, sms *notify.SMSNotifier) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(db, cfg, log, sms),
		Review:  NewReviewHandler(db, store, cfg, log),
		Comment: NewCommentHandler(db, store, cfg, log),
		Vote:    NewVoteHandler(db, log),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// respondError writes a typed failure, defaulting anything unclassified
// to 500 without leaking the underlying error.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status(), gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
