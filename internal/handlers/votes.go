package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emilythestrangee/book-review/backend/internal/apperror"
	"github.com/emilythestrangee/book-review/backend/internal/models"
)

type VoteHandler struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewVoteHandler(db *gorm.DB, log *logrus.Logger) *VoteHandler {
	return &VoteHandler{db: db, log: log}
}

// voteOutcome is one settled transition of the vote state machine.
type voteOutcome struct {
	status  int
	message string
}

// CastVote applies one input to the per-(voter, review) state machine:
// Absent -> Upvoted/Downvoted on first cast, back to Absent when the same
// type is repeated, and a flip in place when the opposite type arrives.
func (h *VoteHandler) CastVote(c *gin.Context) {
	voterID, ok := extractUserID(c)
	if !ok {
		respondError(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	reviewID, err := strconv.Atoi(c.Param("reviewId"))
	if err != nil || reviewID <= 0 {
		respondError(c, apperror.BadRequest("Invalid review ID"))
		return
	}

	var input models.CastVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperror.BadRequest("Invalid vote type"))
		return
	}

	var review models.ReviewPost
	if err := h.db.First(&review, reviewID).Error; err != nil {
		respondError(c, apperror.NotFound("Review"))
		return
	}

	outcome, err := h.applyVote(voterID, reviewID, input.VoteType, true)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"user_id":   voterID,
			"review_id": reviewID,
			"error":     err.Error(),
		}).Error("vote transition failed")
		respondError(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"user_id":   voterID,
		"review_id": reviewID,
		"vote_type": input.VoteType,
	}).Info(outcome.message)

	c.JSON(outcome.status, gin.H{"message": outcome.message})
}

// applyVote executes a single state-machine transition as one row
// operation. When a first-time create loses the uniqueness race to a
// concurrent cast, the current state is re-read exactly once and the
// non-create transition applied instead; canRetry guards that one retry.
func (h *VoteHandler) applyVote(voterID, reviewID int, voteType string, canRetry bool) (voteOutcome, error) {
	var existing models.Vote
	err := h.db.Where("user_id = ? AND review_id = ?", voterID, reviewID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		vote := models.Vote{UserID: voterID, ReviewID: reviewID, VoteType: voteType}
		if createErr := h.db.Create(&vote).Error; createErr != nil {
			if isUniqueViolation(createErr) && canRetry {
				return h.applyVote(voterID, reviewID, voteType, false)
			}
			return voteOutcome{}, createErr
		}
		return voteOutcome{
			status:  http.StatusCreated,
			message: fmt.Sprintf("Successfully %sd", voteType),
		}, nil
	}
	if err != nil {
		return voteOutcome{}, err
	}

	if existing.VoteType == voteType {
		// Same type repeated - toggle off
		if err := h.db.Delete(&existing).Error; err != nil {
			return voteOutcome{}, err
		}
		return voteOutcome{status: http.StatusOK, message: "Vote removed"}, nil
	}

	// Opposite type - flip in place
	existing.VoteType = voteType
	if err := h.db.Save(&existing).Error; err != nil {
		return voteOutcome{}, err
	}
	return voteOutcome{
		status:  http.StatusOK,
		message: fmt.Sprintf("Vote changed to %s", voteType),
	}, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CountVotes recomputes both totals from the vote rows on every call.
// No cache sits in front of this: vote writes invalidate nothing.
func (h *VoteHandler) CountVotes(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("reviewId"))
	if err != nil || reviewID <= 0 {
		respondError(c, apperror.BadRequest("Invalid review ID"))
		return
	}

	var review models.ReviewPost
	if err := h.db.First(&review, reviewID).Error; err != nil {
		respondError(c, apperror.NotFound("Review"))
		return
	}

	var upvotes, downvotes int64
	if err := h.db.Model(&models.Vote{}).
		Where("review_id = ? AND vote_type = ?", reviewID, models.VoteUp).
		Count(&upvotes).Error; err != nil {
		respondError(c, err)
		return
	}
	if err := h.db.Model(&models.Vote{}).
		Where("review_id = ? AND vote_type = ?", reviewID, models.VoteDown).
		Count(&downvotes).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Vote counts retrieved successfully",
		"reviewId":  reviewID,
		"upvotes":   upvotes,
		"downvotes": downvotes,
	})
}
