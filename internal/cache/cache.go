// Package cache provides the process-local query cache and its
// namespace-prefix invalidation contract. Keys are grouped under a
// namespace token; a write busts every live key under a prefix, a read
// repopulates exactly the key it missed on.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is the cache behind the read paths. Values round-trip through
// JSON so the in-memory and Redis backends are interchangeable.
type Store interface {
	// Set stores value under key with the given TTL. A ttl of zero uses
	// the store's default; a zero default means no expiry. The namespace
	// is the invalidation group the key belongs to; it must be a prefix
	// of key.
	Set(ctx context.Context, namespace, key string, value interface{}, ttl time.Duration) error

	// Get unmarshals the live entry for key into dest. The boolean is
	// false on a miss (absent or expired).
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Delete removes a single key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys enumerates all live keys.
	Keys(ctx context.Context) ([]string, error)

	// DeletePrefix removes every live key that starts with prefix and
	// reports how many were removed. Zero matches is not an error.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Cache key families. Listing keys carry page and limit so that the
// documented invalidation prefixes match everything the read paths store.

func TopReviewsNamespace() string { return "top_reviews" }

func TopReviewsKey(page, limit int) string {
	return fmt.Sprintf("top_reviews_page_%d_limit_%d", page, limit)
}

func RecentReviewsNamespace() string { return "recent_reviews" }

func RecentReviewsKey(page, limit int) string {
	return fmt.Sprintf("recent_reviews_page_%d_limit_%d", page, limit)
}

func MyReviewsNamespace(userID int) string {
	return fmt.Sprintf("my_reviews_user_%d_page_", userID)
}

func MyReviewsKey(userID, page, limit int) string {
	return fmt.Sprintf("my_reviews_user_%d_page_%d_limit_%d", userID, page, limit)
}

func CommentsNamespace(reviewID int) string {
	return fmt.Sprintf("comments:%d:", reviewID)
}

func CommentsKey(reviewID, page, limit int) string {
	return fmt.Sprintf("comments:%d:page_%d_limit_%d", reviewID, page, limit)
}
