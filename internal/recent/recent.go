// Package recent keeps each client's last few distinct search terms.
package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"voterfinder/internal/platform/kv"
	"voterfinder/pkg/platform/sentinel"
	stringutil "voterfinder/pkg/platform/strings"
)

// MaxTerms is how many terms a client's log retains.
const MaxTerms = 5

const keyPrefix = "voter-finder-recent:"

// Log is the recent-search log, persisted per client as a JSON array,
// most recent first.
type Log struct {
	store kv.Store
	mu    sync.Mutex
}

// New creates a log over store.
func New(store kv.Store) *Log {
	return &Log{store: store}
}

// Key returns the persisted key for a client's log.
func Key(clientID string) string {
	return keyPrefix + clientID
}

// Add records term for clientID. Blank terms and terms already in the log
// are ignored; an existing term keeps its position.
func (l *Log) Add(ctx context.Context, clientID, term string) ([]string, error) {
	term = strings.TrimSpace(term)

	l.mu.Lock()
	defer l.mu.Unlock()

	terms, err := l.load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if term == "" || stringutil.Contains(terms, term) {
		return terms, nil
	}

	terms = stringutil.Cap(append([]string{term}, terms...), MaxTerms)
	raw, err := json.Marshal(terms)
	if err != nil {
		return nil, fmt.Errorf("encode recent searches: %w", err)
	}
	if err := l.store.Set(ctx, Key(clientID), raw, 0); err != nil {
		return nil, fmt.Errorf("save recent searches: %w", err)
	}
	return terms, nil
}

// List returns the client's terms, most recent first. A missing log is empty.
func (l *Log) List(ctx context.Context, clientID string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx, clientID)
}

// Clear forgets the client's log.
func (l *Log) Clear(ctx context.Context, clientID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Delete(ctx, Key(clientID)); err != nil {
		return fmt.Errorf("clear recent searches: %w", err)
	}
	return nil
}

// load reads and sanitises persisted terms. Unreadable data counts as empty.
func (l *Log) load(ctx context.Context, clientID string) ([]string, error) {
	raw, err := l.store.Get(ctx, Key(clientID))
	if errors.Is(err, sentinel.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load recent searches: %w", err)
	}
	var terms []string
	if err := json.Unmarshal(raw, &terms); err != nil {
		return []string{}, nil
	}
	terms = stringutil.Cap(stringutil.DedupeAndTrim(terms), MaxTerms)
	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}
