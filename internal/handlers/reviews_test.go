package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/book-review/backend/internal/cache"
	"github.com/emilythestrangee/book-review/backend/internal/models"
)

func doReviewForm(t *testing.T, r *gin.Engine, title string, rating int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":  title,
		"author": "Susanna Clarke",
		"genre":  "Fantasy",
		"rating": strconv.Itoa(rating),
		"review": "Remarkable.",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/create-review-post", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateReview_PersistsWithDenormalizedName(t *testing.T) {
	user := createTestUser(t, "Nadia")
	r := newTestRouter(cache.NewMemory(0), user.ID)

	w := doReviewForm(t, r, "Piranesi again", 5)
	requireStatus(t, w, http.StatusCreated)

	var review models.ReviewPost
	require.NoError(t, testDB.Where("title = ?", "Piranesi again").First(&review).Error)
	assert.Equal(t, "Nadia", review.UserName)
	assert.Equal(t, 5, review.Rating)
}

func TestCreateReview_RatingOutOfRangeIsBadRequest(t *testing.T) {
	user := createTestUser(t, "Nadia")
	r := newTestRouter(cache.NewMemory(0), user.ID)

	requireStatus(t, doReviewForm(t, r, "Zero stars", 0), http.StatusBadRequest)
	requireStatus(t, doReviewForm(t, r, "Six stars", 6), http.StatusBadRequest)
}

func TestCreateReview_InvalidatesEveryCachedTopPage(t *testing.T) {
	user := createTestUser(t, "Nadia")
	createTestReview(t, user, "Warmup A", 4)
	createTestReview(t, user, "Warmup B", 2)

	store := cache.NewMemory(0)
	r := newTestRouter(store, user.ID)

	// Warm two distinct top pages
	requireStatus(t, doJSON(r, http.MethodGet, "/reviews/top?page=1&limit=1", ""), http.StatusOK)
	requireStatus(t, doJSON(r, http.MethodGet, "/reviews/top?page=2&limit=1", ""), http.StatusOK)
	require.Len(t, cachedKeys(t, store, cache.TopReviewsNamespace()), 2)

	w := doReviewForm(t, r, "Displaces the ranking", 5)
	requireStatus(t, w, http.StatusCreated)

	assert.Empty(t, cachedKeys(t, store, cache.TopReviewsNamespace()))

	// The next read must see the new post at the top
	w = doJSON(r, http.MethodGet, "/reviews/top?page=1&limit=1", "")
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	data := body["data"].([]interface{})
	require.NotEmpty(t, data)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Displaces the ranking", first["title"])
}

func TestListings_ServeFromCacheOnSecondRead(t *testing.T) {
	user := createTestUser(t, "Nadia")
	createTestReview(t, user, "Cached listing", 4)

	store := cache.NewMemory(0)
	r := newTestRouter(store, user.ID)

	for _, path := range []string{"/reviews/top", "/reviews/recent", "/reviews/mine"} {
		w := doJSON(r, http.MethodGet, path, "")
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "Reviews retrieved successfully", decodeBody(t, w)["message"], path)

		w = doJSON(r, http.MethodGet, path, "")
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "Reviews retrieved successfully (from cache)", decodeBody(t, w)["message"], path)
	}
}

func TestDeleteReview_ClearsAllThreeNamespaces(t *testing.T) {
	user := createTestUser(t, "Nadia")
	bystander := createTestUser(t, "Max")
	review := createTestReview(t, user, "Short-lived", 3)
	otherReview := createTestReview(t, bystander, "Unrelated", 4)

	store := cache.NewMemory(0)
	r := newTestRouter(store, user.ID)
	rOther := newTestRouter(store, bystander.ID)

	// Warm every family, plus a comments page that must survive
	requireStatus(t, doJSON(r, http.MethodGet, "/reviews/top", ""), http.StatusOK)
	requireStatus(t, doJSON(r, http.MethodGet, "/reviews/recent", ""), http.StatusOK)
	requireStatus(t, doJSON(r, http.MethodGet, "/reviews/mine", ""), http.StatusOK)
	requireStatus(t, doJSON(rOther, http.MethodPost, fmt.Sprintf("/create-comment/%d", otherReview.ID), `{"comment":"keep me"}`), http.StatusCreated)
	requireStatus(t, doJSON(rOther, http.MethodGet, fmt.Sprintf("/comments/%d", otherReview.ID), ""), http.StatusOK)

	require.NotEmpty(t, cachedKeys(t, store, cache.TopReviewsNamespace()))
	require.NotEmpty(t, cachedKeys(t, store, cache.RecentReviewsNamespace()))
	require.NotEmpty(t, cachedKeys(t, store, cache.MyReviewsNamespace(user.ID)))
	require.NotEmpty(t, cachedKeys(t, store, cache.CommentsNamespace(otherReview.ID)))

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/reviews/%d", review.ID), "")
	requireStatus(t, w, http.StatusOK)

	assert.Empty(t, cachedKeys(t, store, cache.TopReviewsNamespace()))
	assert.Empty(t, cachedKeys(t, store, cache.RecentReviewsNamespace()))
	assert.Empty(t, cachedKeys(t, store, cache.MyReviewsNamespace(user.ID)))
	assert.NotEmpty(t, cachedKeys(t, store, cache.CommentsNamespace(otherReview.ID)))
}

func TestDeleteReview_OnlyOwnerMay(t *testing.T) {
	owner := createTestUser(t, "Nadia")
	intruder := createTestUser(t, "Max")
	review := createTestReview(t, owner, "Not yours", 4)

	r := newTestRouter(cache.NewMemory(0), intruder.ID)
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/reviews/%d", review.ID), "")
	requireStatus(t, w, http.StatusForbidden)

	var count int64
	testDB.Model(&models.ReviewPost{}).Where("id = ?", review.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteReview_CascadesCommentsAndVotes(t *testing.T) {
	owner := createTestUser(t, "Nadia")
	voter := createTestUser(t, "Max")
	review := createTestReview(t, owner, "Doomed", 2)

	rVoter := newTestRouter(cache.NewMemory(0), voter.ID)
	requireStatus(t, doJSON(rVoter, http.MethodPost, fmt.Sprintf("/vote/%d", review.ID), `{"voteType":"downvote"}`), http.StatusCreated)
	requireStatus(t, doJSON(rVoter, http.MethodPost, fmt.Sprintf("/create-comment/%d", review.ID), `{"comment":"deserved"}`), http.StatusCreated)

	r := newTestRouter(cache.NewMemory(0), owner.ID)
	requireStatus(t, doJSON(r, http.MethodDelete, fmt.Sprintf("/reviews/%d", review.ID), ""), http.StatusOK)

	var votes, comments int64
	testDB.Model(&models.Vote{}).Where("review_id = ?", review.ID).Count(&votes)
	testDB.Model(&models.Comment{}).Where("review_id = ?", review.ID).Count(&comments)
	assert.Zero(t, votes)
	assert.Zero(t, comments)
}

func TestDeleteReview_MissingReviewIsNotFound(t *testing.T) {
	user := createTestUser(t, "Nadia")
	r := newTestRouter(cache.NewMemory(0), user.ID)

	w := doJSON(r, http.MethodDelete, "/reviews/999999", "")
	requireStatus(t, w, http.StatusNotFound)
}
