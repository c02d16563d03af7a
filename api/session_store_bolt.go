package api

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var sessionBucket = []byte("sessions")

// BoltSessionStore persists sessions in a BBolt database so browser logins
// survive server restarts. Expired sessions are pruned lazily on access.
type BoltSessionStore struct {
	db          *bbolt.DB
	idleTimeout time.Duration
}

var _ SessionStore = (*BoltSessionStore)(nil)

// NewBoltSessionStore creates a session store backed by the given BBolt
// database. idleTimeout of 0 disables idle timeout checking.
func NewBoltSessionStore(db *bbolt.DB, idleTimeout time.Duration) *BoltSessionStore {
	return &BoltSessionStore{db: db, idleTimeout: idleTimeout}
}

// NewBoltSessionStoreFromFile opens a BBolt database at the given path and
// returns a new session store.
func NewBoltSessionStoreFromFile(path string, idleTimeout time.Duration, options *bbolt.Options) (*BoltSessionStore, error) {
	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewBoltSessionStore(db, idleTimeout), nil
}

// Close closes the underlying BBolt database.
func (s *BoltSessionStore) Close() error {
	return s.db.Close()
}

func (s *BoltSessionStore) Get(token string) (AuthSession, bool) {
	var session AuthSession
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return fmt.Errorf("no sessions bucket")
		}
		data := b.Get([]byte(token))
		if data == nil {
			return fmt.Errorf("session not found")
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return AuthSession{}, false
	}
	if time.Now().After(session.ExpiresAt) {
		s.Delete(token)
		return AuthSession{}, false
	}
	if s.idleTimeout > 0 && time.Since(session.LastAccessedAt) > s.idleTimeout {
		s.Delete(token)
		return AuthSession{}, false
	}
	return session, true
}

func (s *BoltSessionStore) Put(token string, session AuthSession) {
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(sessionBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(token), data)
	})
}

func (s *BoltSessionStore) Delete(token string) {
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(token))
	})
}
