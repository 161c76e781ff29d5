package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"voterfinder/internal/voter/models"
	"voterfinder/pkg/platform/sentinel"
)

// SearchLimit caps the rows returned for one search.
const SearchLimit = 100

// ConnectivityWarning is shown on the dashboard when the roll is unreachable.
const ConnectivityWarning = "Unable to reach the voter database. Searches may return no results until the connection is restored."

// Store is the read side of the voter roll.
type Store interface {
	Search(ctx context.Context, term string, limit int) ([]models.Voter, error)
	FindByID(ctx context.Context, id string) (*models.Voter, error)
	Count(ctx context.Context) (int, error)
}

// Failure explains why an outcome carries no data. Callers switch on it
// instead of receiving errors.
type Failure int

const (
	FailureNone Failure = iota
	FailureStore
	FailureNotFound
)

func (f Failure) String() string {
	switch f {
	case FailureStore:
		return "store_unavailable"
	case FailureNotFound:
		return "not_found"
	default:
		return "none"
	}
}

// SearchOutcome is the result of one search. Searched is false when the term
// was empty and no query ran.
type SearchOutcome struct {
	Term     string
	Voters   []models.Voter
	Searched bool
	Failure  Failure
}

// LookupOutcome is the result of a single-record lookup.
type LookupOutcome struct {
	Voter   *models.Voter
	Failure Failure
}

// Connectivity is the dashboard's view of the roll.
type Connectivity struct {
	OK      bool   `json:"ok"`
	Count   int    `json:"count"`
	Warning string `json:"warning,omitempty"`
}

// Service turns search terms into voter lists and never propagates store
// errors to its callers.
type Service struct {
	store  Store
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a voter service over store.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("voter store is required")
	}
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search matches term against name, father/husband name and voter ID. An
// empty term returns without querying.
func (s *Service) Search(ctx context.Context, term string) SearchOutcome {
	term = strings.TrimSpace(term)
	if term == "" {
		return SearchOutcome{Voters: []models.Voter{}}
	}

	voters, err := s.store.Search(ctx, term, SearchLimit)
	if err != nil {
		failure := degrade(err)
		s.logger.ErrorContext(ctx, "voter search failed",
			"term", term,
			"failure", failure.String(),
			"error", err,
		)
		return SearchOutcome{Term: term, Voters: []models.Voter{}, Searched: true, Failure: failure}
	}
	if voters == nil {
		voters = []models.Voter{}
	}
	return SearchOutcome{Term: term, Voters: voters, Searched: true}
}

// Lookup returns the voter with id, or a Failure explaining its absence.
func (s *Service) Lookup(ctx context.Context, id string) LookupOutcome {
	id = strings.TrimSpace(id)
	if id == "" {
		return LookupOutcome{Failure: FailureNotFound}
	}
	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		failure := degrade(err)
		if failure == FailureStore {
			s.logger.ErrorContext(ctx, "voter lookup failed", "voter_id", id, "error", err)
		}
		return LookupOutcome{Failure: failure}
	}
	if v == nil {
		return LookupOutcome{Failure: FailureNotFound}
	}
	return LookupOutcome{Voter: v}
}

// CheckConnectivity probes the roll with a count query.
func (s *Service) CheckConnectivity(ctx context.Context) Connectivity {
	n, err := s.store.Count(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "voter database unreachable", "error", err)
		return Connectivity{Warning: ConnectivityWarning}
	}
	return Connectivity{OK: true, Count: n}
}

// degrade maps a store error onto the failure reported to callers.
func degrade(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, sentinel.ErrNotFound):
		return FailureNotFound
	default:
		return FailureStore
	}
}
