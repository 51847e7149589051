package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-aletheia/credentials"
	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
	"github.com/jrsteele09/go-aletheia/sessions"
)

const (
	defaultSessionTTL   = 24 * time.Hour
	defaultSecretLength = 32
	sessionEntropyBytes = 32
	sessionSeparator    = ":session"
)

// Service issues and verifies credentials and owns the session table.
// ResolveSession is the authorization check every protected operation runs first.
type Service struct {
	repos        Repos
	sessionTTL   time.Duration
	secretLength int
	hashCost     int
	dummyHash    string           // compared against for unknown users so timing does not reveal them
	nowTime      func() time.Time // nowTime function (injectable for testing)
	random       io.Reader        // entropy source (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithSessionTTL sets how long a session stays valid after it is opened.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.sessionTTL = ttl
	}
}

// WithSecretLength sets the number of random bytes in an issued secret.
func WithSecretLength(length int) ServiceOption {
	return func(s *Service) {
		s.secretLength = length
	}
}

// WithHashCost sets the bcrypt cost used to store secrets. Tests use bcrypt.MinCost.
func WithHashCost(cost int) ServiceOption {
	return func(s *Service) {
		s.hashCost = cost
	}
}

// WithRandom replaces crypto/rand as the entropy source.
func WithRandom(r io.Reader) ServiceOption {
	return func(s *Service) {
		s.random = r
	}
}

// NewService initializes a Service with required dependencies.
func NewService(repos Repos, options ...ServiceOption) (*Service, error) {
	if repos.Credentials == nil {
		return nil, errors.New("[NewService] Credentials repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}

	s := &Service{
		repos:        repos,
		sessionTTL:   defaultSessionTTL,
		secretLength: defaultSecretLength,
		hashCost:     bcrypt.DefaultCost,
		nowTime:      time.Now,
		random:       rand.Reader,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.sessionTTL <= 0 {
		return nil, errors.New("[NewService] session TTL must be positive")
	}
	// bcrypt only reads the first 72 bytes, and a hex secret doubles in length.
	if s.secretLength < 16 || s.secretLength > 36 {
		return nil, errors.Errorf("[NewService] secret length %d must be between 16 and 36 bytes", s.secretLength)
	}

	dummy, err := credentials.HashSecret("aletheia-unknown-user", s.hashCost)
	if err != nil {
		return nil, errors.Wrap(err, "[NewService] hash cost")
	}
	s.dummyHash = dummy

	return s, nil
}

// Issue creates a fresh credential for userID, replacing any previous one, and
// returns the raw secret. The secret is not recoverable afterwards.
func (s *Service) Issue(userID string, clearance int) (string, error) {
	if err := ValidateUserID(userID); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
	}

	secret, err := s.randomHex(s.secretLength)
	if err != nil {
		return "", errors.Wrap(err, "[Service.Issue] generate secret")
	}

	hash, err := credentials.HashSecret(secret, s.hashCost)
	if err != nil {
		return "", errors.Wrap(err, "[Service.Issue] hash secret")
	}

	level := credentials.ClampClearance(clearance)
	if err := s.repos.Credentials.Upsert(credentials.Credential{
		UserID:     userID,
		SecretHash: hash,
		Clearance:  level,
		Active:     true,
		Created:    s.nowTime().UTC(),
	}); err != nil {
		return "", errors.Wrap(err, "[Service.Issue] store credential")
	}

	log.Info().Str("user_id", userID).Int("clearance", level).Msg("Credential issued")
	return secret, nil
}

// Verify reports whether secret is the current secret of an active credential.
func (s *Service) Verify(userID, secret string) bool {
	if err := s.verify(userID, secret); err != nil {
		log.Debug().Err(err).Str("user_id", userID).Msg("Credential verification failed")
		return false
	}
	return true
}

func (s *Service) verify(userID, secret string) error {
	c, err := s.repos.Credentials.Get(userID)
	if err != nil {
		credentials.CheckSecretHash(secret, s.dummyHash)
		return CredentialNotFoundErr
	}
	if !c.Active {
		credentials.CheckSecretHash(secret, s.dummyHash)
		return CredentialRevokedErr
	}
	if !c.CheckSecret(secret) {
		return SecretsDontMatchErr
	}
	return nil
}

// OpenSession creates a session for userID. Call it only after Verify succeeds.
func (s *Service) OpenSession(userID string) (string, error) {
	now := s.nowTime()

	token, err := s.newSessionToken(userID, now)
	if err != nil {
		return "", errors.Wrap(err, "[Service.OpenSession] generate token")
	}

	if err := s.repos.Sessions.Upsert(sessions.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}); err != nil {
		return "", errors.Wrap(err, "[Service.OpenSession] store session")
	}
	return token, nil
}

// ResolveSession returns the user owning token. Unknown and expired tokens are
// indistinguishable to the caller; an expired token is evicted on first sight.
func (s *Service) ResolveSession(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	session, err := s.repos.Sessions.Get(token)
	if err != nil {
		log.Debug().Err(SessionUnknownErr).Msg("Session rejected")
		return "", false
	}

	if session.Expired(s.nowTime()) {
		if err := s.repos.Sessions.Delete(token); err != nil {
			log.Err(err).Msg("Failed to evict expired session")
		}
		log.Debug().Err(SessionExpiredErr).Str("user_id", session.UserID).Msg("Session rejected")
		return "", false
	}

	return session.UserID, true
}

// PurgeExpiredSessions drops every session past its expiry. Lookups already
// evict lazily; this only bounds the table for tokens nobody presents again.
func (s *Service) PurgeExpiredSessions() (int, error) {
	purged, err := s.repos.Sessions.DeleteExpiredSessions(s.nowTime())
	if err != nil {
		return 0, errors.Wrap(err, "[Service.PurgeExpiredSessions]")
	}
	if purged > 0 {
		log.Debug().Int("sessions_purged", purged).Msg("Expired sessions purged")
	}
	return purged, nil
}

// Revoke deactivates the credential of userID and closes its open sessions.
// Other users are untouched. Issue is the only way back to an active credential.
func (s *Service) Revoke(userID string) error {
	if err := s.repos.Credentials.SetActive(userID, false); err != nil {
		return errors.Wrap(err, "[Service.Revoke] deactivate credential")
	}

	closed, err := s.repos.Sessions.DeleteByUser(userID)
	if err != nil {
		return errors.Wrap(err, "[Service.Revoke] close sessions")
	}

	log.Info().Str("user_id", userID).Int("sessions_closed", closed).Msg("Credential revoked")
	return nil
}

// Clearance returns the clearance level of an active credential.
func (s *Service) Clearance(userID string) (int, bool) {
	c, err := s.repos.Credentials.Get(userID)
	if err != nil || !c.Active {
		return 0, false
	}
	return c.Clearance, true
}

// HasCredential reports whether any credential, active or revoked, exists for userID.
func (s *Service) HasCredential(userID string) bool {
	_, err := s.repos.Credentials.Get(userID)
	return err == nil
}

// newSessionToken hashes fresh random bytes together with the user id and the
// current time, so tokens are unpredictable and unique per call.
func (s *Service) newSessionToken(userID string, now time.Time) (string, error) {
	entropy := make([]byte, sessionEntropyBytes)
	if _, err := io.ReadFull(s.random, entropy); err != nil {
		return "", err
	}

	var nanos [8]byte
	binary.BigEndian.PutUint64(nanos[:], uint64(now.UnixNano()))

	h := sha256.New()
	h.Write(entropy)
	h.Write([]byte(userID))
	h.Write(nanos[:])
	h.Write([]byte(sessionSeparator))
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s *Service) randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(s.random, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
