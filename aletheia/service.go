// Package aletheia composes the fact store, the credential gate, the content
// gate, the flow mapper and the oracle into the operations shared by the
// console and the HTTP server.
package aletheia

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-aletheia/auth"
	"github.com/jrsteele09/go-aletheia/content"
	"github.com/jrsteele09/go-aletheia/facts"
	"github.com/jrsteele09/go-aletheia/flow"
	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
	"github.com/jrsteele09/go-aletheia/oracle"
	"github.com/jrsteele09/go-aletheia/statement"
)

// Service is built once at startup and shared by every entry surface.
type Service struct {
	facts        *facts.Store
	evaluator    *statement.Evaluator
	auth         *auth.Service
	content      *content.Gate
	flow         *flow.Mapper
	oracle       *oracle.Oracle
	observations *observationLog
	nowTime      func() time.Time
}

type Option func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithOracle replaces the default silent oracle.
func WithOracle(o *oracle.Oracle) Option {
	return func(s *Service) {
		s.oracle = o
	}
}

// WithObservationCapacity bounds how many observations are kept in memory.
func WithObservationCapacity(capacity int) Option {
	return func(s *Service) {
		s.observations = newObservationLog(capacity)
	}
}

func New(authService *auth.Service, gate *content.Gate, options ...Option) (*Service, error) {
	if authService == nil {
		return nil, errors.New("[aletheia.New] auth service is required")
	}
	if gate == nil {
		return nil, errors.New("[aletheia.New] content gate is required")
	}

	store := facts.NewStore()
	s := &Service{
		facts:        store,
		evaluator:    statement.NewEvaluator(store),
		auth:         authService,
		content:      gate,
		oracle:       oracle.New(nil),
		observations: newObservationLog(defaultObservationCapacity),
		nowTime:      time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.flow = flow.NewMapper(flow.WithNowTime(s.nowTime))
	return s, nil
}

// Authenticate exchanges a user id and secret for a session token. Every
// failure is ErrAccessDenied so callers cannot tell unknown users from wrong
// secrets.
func (s *Service) Authenticate(userID, secret string) (string, error) {
	if !s.auth.Verify(userID, secret) {
		return "", apperrors.ErrAccessDenied
	}
	token, err := s.auth.OpenSession(userID)
	if err != nil {
		log.Err(err).Str("user_id", userID).Msg("Failed to open session")
		return "", apperrors.ErrAccessDenied
	}
	log.Info().Str("user_id", userID).Msg("Session opened")
	return token, nil
}

func (s *Service) Evaluate(text string) bool {
	return s.evaluator.Evaluate(text)
}

func (s *Service) AddFact(subject, value string) facts.Fact {
	return s.facts.Set(subject, value)
}

// Facts returns every fact ordered by subject.
func (s *Service) Facts() []facts.Fact {
	return s.facts.List()
}

func (s *Service) ListContent(token string) ([]content.Summary, error) {
	clearance, err := s.clearance(token)
	if err != nil {
		return nil, err
	}
	return s.content.ListVisible(clearance), nil
}

// SearchContent lists visible items whose id matches a glob pattern.
func (s *Service) SearchContent(token, pattern string) ([]content.Summary, error) {
	clearance, err := s.clearance(token)
	if err != nil {
		return nil, err
	}
	return s.content.ListMatching(clearance, pattern)
}

// RevealContent returns ErrNotFound both for unknown ids and for items above
// the caller's clearance.
func (s *Service) RevealContent(token, id string) (string, error) {
	clearance, err := s.clearance(token)
	if err != nil {
		return "", err
	}
	payload, ok := s.content.Reveal(id, clearance)
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return payload, nil
}

func (s *Service) Ask(ctx context.Context, prompt string) string {
	return s.oracle.Respond(ctx, prompt)
}

// Observe records a free-text observation from the session's user.
func (s *Service) Observe(token, text string) (Observation, error) {
	userID, _, err := s.activeUser(token)
	if err != nil {
		return Observation{}, err
	}
	obs, err := s.observations.add(userID, text, s.nowTime().UTC())
	if err != nil {
		return Observation{}, err
	}
	log.Info().Str("user_id", userID).Str("observation_id", obs.ID).Msg("Observation received")
	return obs, nil
}

// Observations returns the observations the session's user has submitted,
// oldest first.
func (s *Service) Observations(token string) ([]Observation, error) {
	userID, _, err := s.activeUser(token)
	if err != nil {
		return nil, err
	}
	return s.observations.byUser(userID), nil
}

func (s *Service) clearance(token string) (int, error) {
	_, clearance, err := s.activeUser(token)
	return clearance, err
}

// activeUser resolves the session and then the credential of its user. Every
// session-gated operation goes through it, so a session that outlives its
// user's revocation is denied too.
func (s *Service) activeUser(token string) (string, int, error) {
	userID, ok := s.auth.ResolveSession(token)
	if !ok {
		return "", 0, apperrors.ErrAccessDenied
	}
	clearance, ok := s.auth.Clearance(userID)
	if !ok {
		return "", 0, apperrors.ErrAccessDenied
	}
	return userID, clearance, nil
}
