package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/book-review/backend/internal/cache"
	"github.com/emilythestrangee/book-review/backend/internal/models"
)

func cachedKeys(t *testing.T, store cache.Store, prefix string) []string {
	t.Helper()
	keys, err := store.Keys(context.Background())
	require.NoError(t, err)
	var matched []string
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			matched = append(matched, k)
		}
	}
	return matched
}

func TestCreateComment_DenormalizesAuthorName(t *testing.T) {
	owner := createTestUser(t, "Owner")
	commenter := createTestUser(t, "Greta")
	review := createTestReview(t, owner, "Piranesi", 5)
	r := newTestRouter(cache.NewMemory(0), commenter.ID)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/create-comment/%d", review.ID), `{"comment":"Loved it"}`)
	requireStatus(t, w, http.StatusCreated)

	var comment models.Comment
	require.NoError(t, testDB.Where("review_id = ?", review.ID).First(&comment).Error)
	assert.Equal(t, "Greta", comment.UserName)
	assert.Equal(t, "Loved it", comment.Comment)
}

func TestCreateComment_MissingTextIsBadRequest(t *testing.T) {
	owner := createTestUser(t, "Owner")
	review := createTestReview(t, owner, "Jonathan Strange", 4)
	r := newTestRouter(cache.NewMemory(0), owner.ID)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/create-comment/%d", review.ID), `{}`)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestCreateComment_MissingReviewIsNotFound(t *testing.T) {
	commenter := createTestUser(t, "Greta")
	r := newTestRouter(cache.NewMemory(0), commenter.ID)

	w := doJSON(r, http.MethodPost, "/create-comment/999999", `{"comment":"hello"}`)
	requireStatus(t, w, http.StatusNotFound)
}

func TestGetComments_PopulatesCacheAndCommentWriteInvalidates(t *testing.T) {
	owner := createTestUser(t, "Owner")
	commenter := createTestUser(t, "Greta")
	review := createTestReview(t, owner, "The Goblin Emperor", 5)
	store := cache.NewMemory(0)
	r := newTestRouter(store, commenter.ID)

	requireStatus(t, doJSON(r, http.MethodPost, fmt.Sprintf("/create-comment/%d", review.ID), `{"comment":"first"}`), http.StatusCreated)

	prefix := cache.CommentsNamespace(review.ID)
	listPath := fmt.Sprintf("/comments/%d", review.ID)

	// Miss populates the page key
	w := doJSON(r, http.MethodGet, listPath, "")
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Comments retrieved successfully", decodeBody(t, w)["message"])
	require.NotEmpty(t, cachedKeys(t, store, prefix))

	// Hit serves the stored page
	w = doJSON(r, http.MethodGet, listPath, "")
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Comments retrieved successfully (from cache)", decodeBody(t, w)["message"])

	// A new comment busts the namespace; the next read recomputes
	requireStatus(t, doJSON(r, http.MethodPost, fmt.Sprintf("/create-comment/%d", review.ID), `{"comment":"second"}`), http.StatusCreated)
	assert.Empty(t, cachedKeys(t, store, prefix))

	w = doJSON(r, http.MethodGet, listPath, "")
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.Equal(t, "Comments retrieved successfully", body["message"])
	assert.EqualValues(t, 2, body["totalComments"])
}

func TestGetComments_NoCommentsIsNotFound(t *testing.T) {
	owner := createTestUser(t, "Owner")
	review := createTestReview(t, owner, "Uprooted", 3)
	r := newTestRouter(cache.NewMemory(0), owner.ID)

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/comments/%d", review.ID), "")
	requireStatus(t, w, http.StatusNotFound)
}

func TestCountComments(t *testing.T) {
	owner := createTestUser(t, "Owner")
	review := createTestReview(t, owner, "Spinning Silver", 4)
	r := newTestRouter(cache.NewMemory(0), owner.ID)

	for i := 0; i < 3; i++ {
		requireStatus(t, doJSON(r, http.MethodPost, fmt.Sprintf("/create-comment/%d", review.ID), `{"comment":"again"}`), http.StatusCreated)
	}

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/count-comments/%d", review.ID), "")
	requireStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 3, decodeBody(t, w)["totalComments"])
}
