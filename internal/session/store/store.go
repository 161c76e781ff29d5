// Package store persists sessions in the key-value store so they survive
// process restarts.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"voterfinder/internal/platform/kv"
	"voterfinder/internal/session/models"
	"voterfinder/pkg/platform/sentinel"
)

const keyPrefix = "voter-finder-user:"

// Key returns the persisted key for a client's session.
func Key(clientID string) string {
	return keyPrefix + clientID
}

// KVStore stores sessions as JSON.
type KVStore struct {
	kv  kv.Store
	ttl time.Duration
}

// New creates a session store. A zero ttl keeps sessions until logout.
func New(store kv.Store, ttl time.Duration) *KVStore {
	return &KVStore{kv: store, ttl: ttl}
}

func (s *KVStore) Save(ctx context.Context, session *models.Session) error {
	if session == nil || session.ClientID == "" {
		return fmt.Errorf("save session: %w", sentinel.ErrInvalidState)
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, Key(session.ClientID), raw, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns sentinel.ErrNotFound when nothing usable is stored.
func (s *KVStore) Load(ctx context.Context, clientID string) (*models.Session, error) {
	raw, err := s.kv.Get(ctx, Key(clientID))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil || !session.Authenticated() {
		return nil, sentinel.ErrNotFound
	}
	session.ClientID = clientID
	return &session, nil
}

func (s *KVStore) Delete(ctx context.Context, clientID string) error {
	if err := s.kv.Delete(ctx, Key(clientID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
