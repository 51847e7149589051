package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-aletheia/flow"
	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
)

type factRequest struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
}

type factResponse struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
}

type authenticateRequest struct {
	UserID string `json:"user_id"`
	Secret string `json:"secret"`
}

type observationRequest struct {
	Observation string `json:"observation"`
}

type observationResponse struct {
	ID       string    `json:"id"`
	Received time.Time `json:"received"`
}

type resonateRequest struct {
	District string `json:"district"`
}

type resonateResponse struct {
	Status string `json:"status"`
	flow.Resonance
}

type flowNodeRequest struct {
	State string `json:"state"`
}

type revealResponse struct {
	ID      string `json:"id"`
	Payload string `json:"payload"`
}

// EvaluateHandler answers {"truth": bool}. A missing or malformed statement is false.
func (s *Server) EvaluateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		truth := s.service.Evaluate(r.URL.Query().Get(paramStatement))
		writeJSON(w, http.StatusOK, map[string]bool{"truth": truth})
	}
}

func (s *Server) FactHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req factRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Object) == "" {
			writeJSONError(w, "subject and object are required", http.StatusBadRequest)
			return
		}

		s.service.AddFact(req.Subject, req.Object)
		writeJSON(w, http.StatusOK, factResponse(req))
	}
}

func (s *Server) FactsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.service.Facts())
	}
}

// AuthenticateHandler returns 401 for every credential failure, including
// missing fields.
func (s *Server) AuthenticateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authenticateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		token, err := s.service.Authenticate(req.UserID, req.Secret)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		writeJSON(w, http.StatusOK, map[string]string{"session_token": token})
	}
}

func (s *Server) ContentListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionFromContext(r.Context())
		pattern := r.URL.Query().Get(paramMatch)

		var (
			items any
			err   error
		)
		if pattern == "" {
			items, err = s.service.ListContent(token)
		} else {
			items, err = s.service.SearchContent(token, pattern)
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// ContentRevealHandler answers 404 both for unknown ids and for items above
// the caller's clearance.
func (s *Server) ContentRevealHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		payload, err := s.service.RevealContent(sessionFromContext(r.Context()), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, revealResponse{ID: id, Payload: payload})
	}
}

func (s *Server) ObservationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req observationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		obs, err := s.service.Observe(sessionFromContext(r.Context()), req.Observation)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, observationResponse{ID: obs.ID, Received: obs.Received})
	}
}

func (s *Server) EventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := s.service.ActivationEvents(sessionFromContext(r.Context()))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

func (s *Server) DistrictsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		districts, err := s.service.Districts(sessionFromContext(r.Context()))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, districts)
	}
}

func (s *Server) FlowHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.service.FlowMap(sessionFromContext(r.Context()))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *Server) FlowNodeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req flowNodeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		node, err := s.service.UpdateFlowNode(sessionFromContext(r.Context()), r.PathValue("id"), req.State)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, node)
	}
}

// ResonateHandler answers 404 for a district name that matches nothing.
func (s *Server) ResonateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resonateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.District) == "" {
			writeJSONError(w, "district is required", http.StatusBadRequest)
			return
		}

		resonance, err := s.service.Resonate(sessionFromContext(r.Context()), req.District)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resonateResponse{Status: "success", Resonance: resonance})
	}
}

// AskHandler always answers 200 once a question is given; generator failures
// become the oracle's fallback answer.
func (s *Server) AskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		question := strings.TrimSpace(r.URL.Query().Get(paramQuestion))
		if question == "" {
			writeJSONError(w, "question is required", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"answer": s.service.Ask(r.Context(), question)})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps service errors onto status codes. Messages stay
// generic so responses never reveal why access was refused.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrAccessDenied):
		writeJSONError(w, "access denied", http.StatusUnauthorized)
	case apperrors.Is(err, apperrors.ErrNotFound):
		writeJSONError(w, "not found", http.StatusNotFound)
	case apperrors.Is(err, apperrors.ErrInvalidPattern):
		writeJSONError(w, "invalid match pattern", http.StatusBadRequest)
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		writeJSONError(w, "invalid request", http.StatusBadRequest)
	default:
		log.Err(err).Str("request_id", requestIDFromContext(r.Context())).Msg("Request failed")
		writeJSONError(w, "internal error", http.StatusInternalServerError)
	}
}
