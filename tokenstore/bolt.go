package tokenstore

import (
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	tokenBucket = []byte("tokens")
	tokenKey    = []byte("current")
)

// Bolt stores the token under a single key in a BBolt database. It is the
// single-writer alternative to the flat-file stores.
type Bolt struct {
	db *bbolt.DB
}

var _ Store = (*Bolt)(nil)

// NewBolt returns a store backed by the given BBolt database.
func NewBolt(db *bbolt.DB) *Bolt {
	return &Bolt{db: db}
}

// NewBoltFromFile opens a BBolt database at the given path and returns a
// new store.
func NewBoltFromFile(path string, options *bbolt.Options) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewBolt(db), nil
}

// Close closes the underlying BBolt database.
func (s *Bolt) Close() error {
	return s.db.Close()
}

func (s *Bolt) Get() (string, error) {
	var token string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(tokenBucket)
		if b == nil {
			return ErrNoToken
		}
		v := b.Get(tokenKey)
		if v == nil {
			return ErrNoToken
		}
		token = string(v)
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Bolt) Set(token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(tokenBucket)
		if err != nil {
			return err
		}
		return b.Put(tokenKey, []byte(token))
	})
}

func (s *Bolt) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(tokenBucket)
		if b == nil {
			return nil
		}
		return b.Delete(tokenKey)
	})
}
