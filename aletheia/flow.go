package aletheia

import (
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-aletheia/flow"
)

func (s *Service) ActivationEvents(token string) ([]flow.Event, error) {
	if _, _, err := s.activeUser(token); err != nil {
		return nil, err
	}
	return s.flow.Events(), nil
}

func (s *Service) Districts(token string) ([]flow.District, error) {
	if _, _, err := s.activeUser(token); err != nil {
		return nil, err
	}
	return s.flow.Districts(), nil
}

// FlowMap returns the nodes, the districts and their mean alignment.
func (s *Service) FlowMap(token string) (flow.Map, error) {
	if _, _, err := s.activeUser(token); err != nil {
		return flow.Map{}, err
	}
	return s.flow.Map(), nil
}

// Resonate looks a district up by name. An unknown name is ErrNotFound.
func (s *Service) Resonate(token, district string) (flow.Resonance, error) {
	userID, _, err := s.activeUser(token)
	if err != nil {
		return flow.Resonance{}, err
	}
	r, err := s.flow.Resonate(district)
	if err != nil {
		return flow.Resonance{}, err
	}
	log.Info().Str("user_id", userID).Str("district_id", r.District.ID).Msg("District resonance confirmed")
	return r, nil
}

// UpdateFlowNode records the reported state of a flow node.
func (s *Service) UpdateFlowNode(token, id, state string) (flow.Node, error) {
	if _, _, err := s.activeUser(token); err != nil {
		return flow.Node{}, err
	}
	return s.flow.UpdateNode(id, state)
}
