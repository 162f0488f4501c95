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
	"github.com/emilythestrangee/book-review/backend/internal/middleware"
	"github.com/emilythestrangee/book-review/backend/internal/models"
)

type ReviewHandler struct {
	db    *gorm.DB
	cache cache.Store
	cfg   *config.Config
	log   *logrus.Logger
}

func NewReviewHandler(db *gorm.DB, store cache.Store, cfg *config.Config, log *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{db: db, cache: store, cfg: cfg, log: log}
}

// CreateReview creates a review post from multipart form fields, with the
// optional cover already resolved to a path by the upload middleware.
// Every cached top-rated page is busted so the new post can place.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		respondError(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		respondError(c, apperror.NotFound("User"))
		return
	}

	var input models.CreateReviewRequest
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, apperror.BadRequest(err.Error()))
		return
	}

	review := models.ReviewPost{
		UserID:   userID,
		UserName: user.Name,
		Title:    input.Title,
		Author:   input.Author,
		Genre:    input.Genre,
		Rating:   input.Rating,
		Review:   input.Review,
		CoverURL: c.GetString(middleware.CtxCoverURLKey),
	}

	if err := h.db.Create(&review).Error; err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.cache.DeletePrefix(c.Request.Context(), cache.TopReviewsNamespace()); err != nil {
		h.log.WithField("error", err.Error()).Warn("top reviews cache invalidation failed")
	}

	h.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"review_id": review.ID,
	}).Info("review post created")

	c.JSON(http.StatusCreated, review)
}

// GetTopReviews lists reviews by rating, cached per page.
func (h *ReviewHandler) GetTopReviews(c *gin.Context) {
	page, limit := pagination(c)
	h.serveListing(c,
		cache.TopReviewsNamespace(),
		cache.TopReviewsKey(page, limit),
		h.db.Order("rating desc, created_at desc"),
		page, limit,
	)
}

// GetRecentReviews lists reviews newest-first, cached per page.
func (h *ReviewHandler) GetRecentReviews(c *gin.Context) {
	page, limit := pagination(c)
	h.serveListing(c,
		cache.RecentReviewsNamespace(),
		cache.RecentReviewsKey(page, limit),
		h.db.Order("created_at desc"),
		page, limit,
	)
}

// GetMyReviews lists the caller's own reviews, cached per user and page.
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		respondError(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	page, limit := pagination(c)
	h.serveListing(c,
		cache.MyReviewsNamespace(userID),
		cache.MyReviewsKey(userID, page, limit),
		h.db.Where("user_id = ?", userID).Order("created_at desc"),
		page, limit,
	)
}

// serveListing is the shared cache-aside read path: return the stored
// page on a hit, otherwise run the query, cache the page under its exact
// key with the default TTL, and return it.
func (h *ReviewHandler) serveListing(c *gin.Context, namespace, key string, query *gorm.DB, page, limit int) {
	var cached []models.ReviewPost
	hit, err := h.cache.Get(c.Request.Context(), key, &cached)
	if err != nil {
		h.log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("cache read failed")
	}
	if hit {
		c.JSON(http.StatusOK, gin.H{
			"message": "Reviews retrieved successfully (from cache)",
			"data":    cached,
			"page":    page,
			"limit":   limit,
		})
		return
	}

	var reviews []models.ReviewPost
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&reviews).Error; err != nil {
		respondError(c, err)
		return
	}
	if reviews == nil {
		reviews = []models.ReviewPost{}
	}

	if err := h.cache.Set(c.Request.Context(), namespace, key, reviews, 0); err != nil {
		h.log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("cache write failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data":    reviews,
		"page":    page,
		"limit":   limit,
	})
}

// DeleteReview removes an owned review and its dependent comments and
// votes in one transaction, then busts the owner's listing pages plus
// every top/recent page.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		respondError(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		respondError(c, apperror.BadRequest("Invalid review ID"))
		return
	}

	var review models.ReviewPost
	if err := h.db.First(&review, reviewID).Error; err != nil {
		respondError(c, apperror.NotFound("Review"))
		return
	}

	if review.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own reviews"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&review).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	for _, prefix := range []string{
		cache.MyReviewsNamespace(userID),
		cache.TopReviewsNamespace(),
		cache.RecentReviewsNamespace(),
	} {
		if _, err := h.cache.DeletePrefix(ctx, prefix); err != nil {
			h.log.WithFields(logrus.Fields{"prefix": prefix, "error": err.Error()}).
				Warn("review cache invalidation failed")
		}
	}

	h.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"review_id": reviewID,
	}).Info("review post deleted")

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
