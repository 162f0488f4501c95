package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is the in-process Store. Alongside the key table it keeps a
// namespace index (namespace token -> set of full keys) so DeletePrefix
// walks only the namespaces that can match instead of every key.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	namespaces map[string]map[string]struct{}
	defaultTTL time.Duration
	now        func() time.Time
}

func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{
		entries:    make(map[string]entry),
		namespaces: make(map[string]map[string]struct{}),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (m *Memory) Set(_ context.Context, namespace, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A zero expiry means the entry never ages out on its own.
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry{data: b, expiresAt: expiresAt}
	set, ok := m.namespaces[namespace]
	if !ok {
		set = make(map[string]struct{})
		m.namespaces[namespace] = set
	}
	set[key] = struct{}{}
	return nil
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && e.expired(m.now()) {
		m.removeLocked(key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(key)
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for key, e := range m.entries {
		if e.expired(m.now()) {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// DeletePrefix removes every key starting with prefix. A namespace can
// match the prefix from either side: the prefix may cover a whole
// namespace and more ("top_reviews" covers nothing beyond itself), or
// fall inside one ("my_reviews_user_7_page_" inside "my_reviews_user_7"
// would, if keys were grouped that way). Checking both directions keeps
// the index an optimization, not a semantic change.
func (m *Memory) DeletePrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for namespace, set := range m.namespaces {
		if !strings.HasPrefix(namespace, prefix) && !strings.HasPrefix(prefix, namespace) {
			continue
		}
		for key := range set {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			if _, ok := m.entries[key]; ok {
				removed++
			}
			m.removeLocked(key)
		}
	}
	return removed, nil
}

func (m *Memory) removeLocked(key string) {
	delete(m.entries, key)
	for namespace, set := range m.namespaces {
		if _, ok := set[key]; ok {
			delete(set, key)
			if len(set) == 0 {
				delete(m.namespaces, namespace)
			}
		}
	}
}
