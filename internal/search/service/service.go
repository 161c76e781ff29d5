package service

import (
	"context"
	"errors"
	"log/slog"

	"voterfinder/internal/audit"
	voterservice "voterfinder/internal/voter/service"
	"voterfinder/pkg/requestcontext"
)

// VoterSearcher runs a search against the voter roll.
type VoterSearcher interface {
	Search(ctx context.Context, term string) voterservice.SearchOutcome
}

// RecentLog remembers submitted terms per client.
type RecentLog interface {
	Add(ctx context.Context, clientID, term string) ([]string, error)
}

// AuditPublisher records submitted searches.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Submission is the outcome of submitting a term.
type Submission struct {
	voterservice.SearchOutcome
	Recent []string
}

// Service submits search terms and records them.
type Service struct {
	voters  VoterSearcher
	recent  RecentLog
	auditor AuditPublisher
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithRecentLog(log RecentLog) Option {
	return func(s *Service) {
		s.recent = log
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a search service over voters.
func New(voters VoterSearcher, opts ...Option) (*Service, error) {
	if voters == nil {
		return nil, errors.New("voter searcher is required")
	}
	s := &Service{voters: voters, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submit searches for term. A non-empty term is added to the client's recent
// log and audited. Recording failures are logged and never fail the search.
func (s *Service) Submit(ctx context.Context, clientID, term string) Submission {
	outcome := s.voters.Search(ctx, term)
	sub := Submission{SearchOutcome: outcome}
	if !outcome.Searched {
		return sub
	}

	if s.recent != nil && clientID != "" {
		recent, err := s.recent.Add(ctx, clientID, outcome.Term)
		if err != nil {
			s.logger.WarnContext(ctx, "recording recent search failed",
				"client_id", clientID,
				"error", err,
			)
		}
		sub.Recent = recent
	}

	if s.auditor != nil {
		event := audit.Event{
			Action:      audit.ActionSearch,
			ClientID:    clientID,
			UserID:      requestcontext.UserID(ctx),
			Term:        outcome.Term,
			ResultCount: len(outcome.Voters),
		}
		if err := s.auditor.Emit(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
		}
	}
	return sub
}
