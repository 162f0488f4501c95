package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emilythestrangee/book-review/backend/internal/apperror"
	"github.com/emilythestrangee/book-review/backend/internal/cache"
	"github.com/emilythestrangee/book-review/backend/internal/config"
	"github.com/emilythestrangee/book-review/backend/internal/models"
)

type CommentHandler struct {
	db    *gorm.DB
	cache cache.Store
	cfg   *config.Config
	log   *logrus.Logger
}

func NewCommentHandler(db *gorm.DB, store cache.Store, cfg *config.Config, log *logrus.Logger) *CommentHandler {
	return &CommentHandler{db: db, cache: store, cfg: cfg, log: log}
}

// commentPage is what gets cached per (review, page, limit).
type commentPage struct {
	Data          []models.Comment `json:"data"`
	TotalComments int64            `json:"totalComments"`
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// CreateComment stores a comment with the author's display name copied
// onto the row, then busts every cached comment listing for the review.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		respondError(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	reviewID, err := strconv.Atoi(c.Param("reviewId"))
	if err != nil || reviewID <= 0 {
		respondError(c, apperror.BadRequest("Invalid review ID"))
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperror.BadRequest("Comment text is required"))
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		respondError(c, apperror.NotFound("User"))
		return
	}

	var review models.ReviewPost
	if err := h.db.First(&review, reviewID).Error; err != nil {
		respondError(c, apperror.NotFound("Review"))
		return
	}

	comment := models.Comment{
		UserID:   userID,
		UserName: user.Name,
		ReviewID: reviewID,
		Comment:  input.Comment,
	}

	if err := h.db.Create(&comment).Error; err != nil {
		respondError(c, err)
		return
	}

	prefix := cache.CommentsNamespace(reviewID)
	if _, err := h.cache.DeletePrefix(c.Request.Context(), prefix); err != nil {
		h.log.WithFields(logrus.Fields{"prefix": prefix, "error": err.Error()}).
			Warn("comment cache invalidation failed")
	}

	h.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"review_id":  reviewID,
		"comment_id": comment.ID,
	}).Info("comment created")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created successfully",
		"data":    comment,
	})
}

// GetComments serves a paginated listing through the cache; a miss runs
// the query and repopulates that exact page key with a short TTL.
func (h *CommentHandler) GetComments(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("reviewId"))
	if err != nil || reviewID <= 0 {
		respondError(c, apperror.BadRequest("Invalid review ID"))
		return
	}

	page, limit := pagination(c)
	key := cache.CommentsKey(reviewID, page, limit)

	var cached commentPage
	hit, err := h.cache.Get(c.Request.Context(), key, &cached)
	if err != nil {
		h.log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("cache read failed")
	}
	if hit {
		h.log.WithField("review_id", reviewID).Info("serving comments from cache")
		c.JSON(http.StatusOK, gin.H{
			"message":       "Comments retrieved successfully (from cache)",
			"data":          cached.Data,
			"totalComments": cached.TotalComments,
		})
		return
	}

	var total int64
	if err := h.db.Model(&models.Comment{}).Where("review_id = ?", reviewID).Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var comments []models.Comment
	if err := h.db.Where("review_id = ?", reviewID).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error; err != nil {
		respondError(c, err)
		return
	}

	if len(comments) == 0 {
		respondError(c, apperror.NotFound("Comments for this review"))
		return
	}

	fresh := commentPage{Data: comments, TotalComments: total}
	ns := cache.CommentsNamespace(reviewID)
	if err := h.cache.Set(c.Request.Context(), ns, key, fresh, h.cfg.CommentCacheTTL); err != nil {
		h.log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("cache write failed")
	} else {
		h.log.WithField("review_id", reviewID).Info("cached comments page")
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Comments retrieved successfully",
		"data":          fresh.Data,
		"totalComments": fresh.TotalComments,
	})
}

// CountComments is an uncached point read.
func (h *CommentHandler) CountComments(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("reviewId"))
	if err != nil || reviewID <= 0 {
		respondError(c, apperror.BadRequest("Invalid review ID"))
		return
	}

	var total int64
	if err := h.db.Model(&models.Comment{}).Where("review_id = ?", reviewID).Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Comment count retrieved successfully",
		"totalComments": total,
	})
}
