package cache

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MemoryCache implements Client interface using in-memory storage
type MemoryCache struct {
	data   map[string]*memoryItem
	mu     sync.RWMutex
	config *Config
	logger Logger
	stopCh chan struct{}
}

// memoryItem represents a cache item in memory
type memoryItem struct {
	value     []byte
	expiresAt time.Time
	createdAt time.Time
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache(config *Config, logger Logger) *MemoryCache {
	cache := &MemoryCache{
		data:   make(map[string]*memoryItem),
		config: config,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go cache.cleanupExpired()
	return cache
}

// cleanupExpired removes expired items periodically
func (m *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stopCh:
			return
		}
	}
}

// cleanup removes expired items
func (m *MemoryCache) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	expired := make([]string, 0)

	for key, item := range m.data {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			expired = append(expired, key)
		}
	}

	for _, key := range expired {
		delete(m.data, key)
	}

	if len(expired) > 0 {
		m.logger.Debugf("Cleaned up expired cache items: expired_count=%d", len(expired))
	}
}

// isExpired checks if an item is expired
func (m *MemoryCache) isExpired(item *memoryItem) bool {
	if item.expiresAt.IsZero() {
		return false
	}
	return time.Now().After(item.expiresAt)
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	item, exists := m.data[key]
	m.mu.RUnlock()

	if !exists || m.isExpired(item) {
		return nil, ErrKeyNotFound
	}

	// Return copy to prevent external modification
	result := make([]byte, len(item.value))
	copy(result, item.value)
	return result, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	// Copy value to prevent external modification
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	item := &memoryItem{
		value:     valueCopy,
		expiresAt: expiresAt,
		createdAt: time.Now(),
	}

	m.mu.Lock()
	m.data[key] = item
	m.mu.Unlock()

	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	item, exists := m.data[key]
	m.mu.RUnlock()

	if !exists || m.isExpired(item) {
		return false, nil
	}
	return true, nil
}

func (m *MemoryCache) DeletePattern(ctx context.Context, pattern string) error {
	keys, err := m.GetKeys(ctx, pattern)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *MemoryCache) GetKeys(ctx context.Context, pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.data {
		if matched, _ := filepath.Match(pattern, key); matched {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryCache) Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current int64 = 0

	if item, exists := m.data[key]; exists && !m.isExpired(item) {
		if len(item.value) > 0 {
			if val, err := parseInt64(item.value); err == nil {
				current = val
			}
		}
	}

	newValue := current + delta
	valueBytes := formatInt64(newValue)

	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	m.data[key] = &memoryItem{
		value:     valueBytes,
		expiresAt: expiresAt,
		createdAt: time.Now(),
	}

	return newValue, nil
}

func (m *MemoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.Set(ctx, key, data, ttl)
}

func (m *MemoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := m.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (m *MemoryCache) FlushAll(ctx context.Context) error {
	m.mu.Lock()
	m.data = make(map[string]*memoryItem)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Close() error {
	close(m.stopCh)
	return nil
}

func (m *MemoryCache) Ping(ctx context.Context) error {
	return nil
}
