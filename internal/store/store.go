package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/mosaic/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketPages = []byte("pages")

// PageStore implements domain.PageStore using BoltDB.
type PageStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.PageStore = (*PageStore)(nil)

// NewPageStore opens the page cache under baseCacheDir. Each source gets its
// own database so fixture and live pages never mix.
func NewPageStore(baseCacheDir, sourceID string) (*PageStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &PageStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if sourceID != "" {
		dir = filepath.Join(baseCacheDir, hashSourceID(sourceID))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "mosaic.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPages)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PageStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashSourceID(sourceID string) string {
	normalized := strings.TrimRight(strings.ToLower(sourceID), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func pageKey(q domain.Query, pageNum int) string {
	return fmt.Sprintf("%s:page:%d", q.Key(), pageNum)
}

func (s *PageStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *PageStore) get(key string, dest any) bool {
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPages)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *PageStore) set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPages).Put([]byte(key), data)
	})
}

func (s *PageStore) deletePrefix(prefix string) {
	s.mu.Lock()
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Collect first: deleting under a live cursor skips keys
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPages)
		if b == nil {
			return nil
		}
		var keys [][]byte
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Pages (key: feed:{kind}:{type}:{category}:page:{n}) ===

func (s *PageStore) GetPage(q domain.Query, pageNum int) (domain.CachedPage, bool) {
	var page domain.CachedPage
	ok := s.get(pageKey(q, pageNum), &page)
	return page, ok
}

func (s *PageStore) SavePage(q domain.Query, pageNum int, page domain.CachedPage) error {
	return s.set(pageKey(q, pageNum), page)
}

// InvalidateQuery wipes every page of one listing
func (s *PageStore) InvalidateQuery(q domain.Query) {
	s.deletePrefix(q.Key() + ":page:")
}

func (s *PageStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketPages) != nil {
			if err := tx.DeleteBucket(bucketPages); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(bucketPages)
		return err
	})
}
