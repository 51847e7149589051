package aletheia

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-aletheia/flow"
	"github.com/jrsteele09/go-aletheia/internal/config"
)

// IssuedCredential is a secret created during Bootstrap. It is shown once.
type IssuedCredential struct {
	UserID    string
	Clearance int
	Secret    string
}

// Bootstrap brings a fresh installation to its initial state. Users and
// content that already exist are left alone, so restarting against persisted
// state issues nothing new. Seed facts, districts and activation events live
// in memory and are always loaded.
func (s *Service) Bootstrap(seed config.Seed) ([]IssuedCredential, error) {
	for _, item := range seed.Content {
		if s.content.Exists(item.ID) {
			continue
		}
		if err := s.content.Publish(item.ID, item.Payload, item.RequiredLevel); err != nil {
			return nil, errors.Wrapf(err, "[Service.Bootstrap] publish %s", item.ID)
		}
		log.Info().Str("content_id", item.ID).Int("required_level", item.RequiredLevel).Msg("Default content published")
	}

	issued := make([]IssuedCredential, 0)
	for _, user := range seed.Users {
		if s.auth.HasCredential(user.UserID) {
			continue
		}
		secret, err := s.auth.Issue(user.UserID, user.Clearance)
		if err != nil {
			return nil, errors.Wrapf(err, "[Service.Bootstrap] issue %s", user.UserID)
		}
		clearance, _ := s.auth.Clearance(user.UserID)
		issued = append(issued, IssuedCredential{UserID: user.UserID, Clearance: clearance, Secret: secret})
	}

	for _, fact := range seed.Facts {
		s.facts.Set(fact.Subject, fact.Value)
	}

	districts := make([]flow.District, 0, len(seed.Districts))
	for _, d := range seed.Districts {
		districts = append(districts, flow.District{ID: d.ID, Name: d.Name, Alignment: d.Alignment, Status: d.Status})
	}
	events := make([]flow.Event, 0, len(seed.Events))
	for _, e := range seed.Events {
		events = append(events, flow.Event{ID: e.ID, Name: e.Name, Status: e.Status})
	}
	if err := s.flow.Load(districts, events); err != nil {
		return nil, errors.Wrap(err, "[Service.Bootstrap] load flow")
	}

	return issued, nil
}
