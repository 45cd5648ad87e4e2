// Package cache persists the loaded catalog and user-confirmed account
// mappings across sessions in a bolt file.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"

	"github.com/cleared-dev/standardizer/internal/catalog"
	"github.com/cleared-dev/standardizer/internal/model"
)

var (
	catalogBucket = []byte("catalog")
	mappingBucket = []byte("mappings")
	currentKey    = []byte("current")
)

// ErrNotFound is returned when no catalog has been cached yet.
var ErrNotFound = errors.New("not cached")

// Cache wraps a bolt database. It is safe for concurrent use.
type Cache struct {
	db *bolt.DB
}

// Open opens or creates the cache file, creating parent directories.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{catalogBucket, mappingBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the file lock.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveCatalog stores cat as JSON under the fixed key.
func (c *Cache) SaveCatalog(cat *catalog.Catalog) error {
	data, err := json.Marshal(cat)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(catalogBucket).Put(currentKey, data)
	})
}

// LoadCatalog returns the cached catalog or ErrNotFound.
func (c *Cache) LoadCatalog() (*catalog.Catalog, error) {
	var data []byte
	c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(catalogBucket).Get(currentKey); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if data == nil {
		return nil, ErrNotFound
	}

	cat := catalog.New()
	if err := json.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("decoding cached catalog: %w", err)
	}
	return cat, nil
}

// PutMapping remembers a classification for an account name.
func (c *Cache) PutMapping(account string, cl model.Classification) error {
	key := model.NormalizeName(account)
	if key == "" {
		return errors.New("account name is required")
	}
	data, err := json.Marshal(cl)
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(mappingBucket).Put([]byte(key), data)
	})
}

// DeleteMapping forgets a stored mapping.
func (c *Cache) DeleteMapping(account string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(mappingBucket).Delete([]byte(model.NormalizeName(account)))
	})
}

// Mapping returns the stored classification for an account name.
func (c *Cache) Mapping(account string) (model.Classification, bool) {
	var (
		cl    model.Classification
		found bool
	)
	key := []byte(model.NormalizeName(account))
	if len(key) == 0 {
		return cl, false
	}
	c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(mappingBucket).Get(key)
		if v == nil {
			return nil
		}
		found = json.Unmarshal(v, &cl) == nil
		return nil
	})
	return cl, found
}

// Mappings returns every stored mapping keyed by normalised account name.
func (c *Cache) Mappings() (map[string]model.Classification, error) {
	out := make(map[string]model.Classification)
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(mappingBucket).ForEach(func(k, v []byte) error {
			var cl model.Classification
			if err := json.Unmarshal(v, &cl); err != nil {
				return fmt.Errorf("decoding mapping %q: %w", k, err)
			}
			out[string(k)] = cl
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
