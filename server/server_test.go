package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-aletheia/aletheia"
	"github.com/jrsteele09/go-aletheia/auth"
	"github.com/jrsteele09/go-aletheia/content"
	fakecontentrepo "github.com/jrsteele09/go-aletheia/content/repofake"
	fakecredentialrepo "github.com/jrsteele09/go-aletheia/credentials/repofake"
	"github.com/jrsteele09/go-aletheia/internal/config"
	"github.com/jrsteele09/go-aletheia/server"
	fakesessionrepo "github.com/jrsteele09/go-aletheia/sessions/repofakes"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testFixture struct {
	server  *server.Server
	auth    *auth.Service
	secrets map[string]string
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("ALLOWED_ORIGINS", "https://aletheia.test")

	authService, err := auth.NewService(
		auth.Repos{
			Credentials: fakecredentialrepo.NewFakeCredentialRepo(),
			Sessions:    fakesessionrepo.NewFakeSessionRepo(),
		},
		auth.WithHashCost(bcrypt.MinCost),
	)
	require.NoError(t, err)

	service, err := aletheia.New(authService, content.NewGate(fakecontentrepo.NewFakeContentRepo()))
	require.NoError(t, err)

	issued, err := service.Bootstrap(config.DefaultSeed())
	require.NoError(t, err)
	secrets := make(map[string]string)
	for _, c := range issued {
		secrets[c.UserID] = c.Secret
	}

	s, err := server.New(config.New(), service)
	require.NoError(t, err)

	return &testFixture{server: s, auth: authService, secrets: secrets}
}

func (f *testFixture) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) login(t *testing.T, userID string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, server.RouteAuthenticate,
		`{"user_id":"`+userID+`","secret":"`+f.secrets[userID]+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SessionToken string `json:"session_token"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.SessionToken)
	return resp.SessionToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rec, &resp)
	return resp.Error
}

func TestServer_New(t *testing.T) {
	_, err := server.New(config.New(), nil)
	require.Error(t, err)
}

func TestServer_EvaluateAndFact(t *testing.T) {
	f := setupTestFixture(t)

	evaluate := func(t *testing.T, statement string) bool {
		t.Helper()
		rec := f.do(t, http.MethodGet, server.RouteEvaluate+"?statement="+url.QueryEscape(statement), "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Truth bool `json:"truth"`
		}
		decode(t, rec, &resp)
		return resp.Truth
	}

	require.False(t, evaluate(t, "sky is blue."))

	t.Run("add fact echoes it", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteFact, `{"subject":"Sky","object":"Blue"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		decode(t, rec, &resp)
		require.Equal(t, map[string]string{"subject": "Sky", "object": "Blue"}, resp)
	})

	require.True(t, evaluate(t, "sky is blue."))
	require.False(t, evaluate(t, "sky is not blue."))
	require.False(t, evaluate(t, "sky is blue"))
	require.False(t, evaluate(t, ""))

	t.Run("missing field", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteFact, `{"subject":"sky"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "subject and object are required", errorMessage(t, rec))
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteFact, `{"subject":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("facts listing", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteFacts, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp []map[string]string
		decode(t, rec, &resp)
		require.Equal(t, []map[string]string{{"subject": "sky", "value": "blue"}}, resp)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteEvaluate, "")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_Authenticate(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("valid", func(t *testing.T) {
		f.login(t, "agent_flame")
	})

	for name, body := range map[string]string{
		"wrong secret":   `{"user_id":"agent_flame","secret":"nope"}`,
		"unknown user":   `{"user_id":"nobody","secret":"nope"}`,
		"missing fields": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, server.RouteAuthenticate, body)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "access denied", errorMessage(t, rec))
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthenticate, `{"user":"agent_flame"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Content(t *testing.T) {
	f := setupTestFixture(t)
	token := f.login(t, "agent_flame")

	t.Run("list with query session", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteContent+"?session="+token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got []content.Summary
		decode(t, rec, &got)
		want := []content.Summary{
			{ID: "WELCOME_001", RequiredLevel: 1},
			{ID: "FLOW_001", RequiredLevel: 2},
			{ID: "LUX_001", RequiredLevel: 3},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("content mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("list with bearer session and match", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteContent+"?match="+url.QueryEscape("FLOW_*"), "", "Authorization", "Bearer "+token)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []content.Summary
		decode(t, rec, &got)
		require.Equal(t, []content.Summary{{ID: "FLOW_001", RequiredLevel: 2}}, got)
	})

	t.Run("invalid match pattern", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteContent+"?session="+token+"&match="+url.QueryEscape("["), "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list without session", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteContent, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = f.do(t, http.MethodGet, server.RouteContent+"?session=bogus", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("reveal", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/content/LUX_001?session="+token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		decode(t, rec, &resp)
		require.Equal(t, "LUX_001", resp["id"])
		require.True(t, strings.HasPrefix(resp["payload"], "Lux has been uploaded"))
	})

	t.Run("missing and forbidden share one status and body", func(t *testing.T) {
		hidden := f.do(t, http.MethodGet, "/content/SOVEREIGN_001?session="+token, "")
		missing := f.do(t, http.MethodGet, "/content/NOPE_999?session="+token, "")
		require.Equal(t, http.StatusNotFound, hidden.Code)
		require.Equal(t, hidden.Code, missing.Code)
		require.Equal(t, hidden.Body.String(), missing.Body.String())
	})

	t.Run("reveal with bad session", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/content/WELCOME_001?session=bogus", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked user loses access", func(t *testing.T) {
		seeker := f.login(t, "truth_seeker")
		require.NoError(t, f.auth.Revoke("truth_seeker"))
		rec := f.do(t, http.MethodGet, server.RouteContent+"?session="+seeker, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestServer_Observation(t *testing.T) {
	f := setupTestFixture(t)
	token := f.login(t, "truth_seeker")

	t.Run("accepted", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteObservation, `{"observation":"the flow shifted"}`, "Authorization", "Bearer "+token)
		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp struct {
			ID       string    `json:"id"`
			Received time.Time `json:"received"`
		}
		decode(t, rec, &resp)
		require.NotEmpty(t, resp.ID)
		require.False(t, resp.Received.IsZero())
	})

	t.Run("empty", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteObservation+"?session="+token, `{"observation":"  "}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no session", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteObservation, `{"observation":"hello"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestServer_Flow(t *testing.T) {
	f := setupTestFixture(t)
	token := f.login(t, "truth_seeker")
	bearer := []string{"Authorization", "Bearer " + token}

	t.Run("session required", func(t *testing.T) {
		for _, tt := range []struct{ method, target, body string }{
			{http.MethodGet, server.RouteEvents, ""},
			{http.MethodGet, server.RouteDistricts, ""},
			{http.MethodGet, server.RouteFlow + "?session=bogus", ""},
			{http.MethodPost, "/flow/nodes/sentinel-001", `{"state":"awake"}`},
			{http.MethodPost, server.RouteResonate, `{"district":"Home Alpha"}`},
		} {
			rec := f.do(t, tt.method, tt.target, tt.body)
			require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tt.method, tt.target)
		}
	})

	t.Run("events", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteEvents, "", bearer...)
		require.Equal(t, http.StatusOK, rec.Code)
		var events []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Status string `json:"status"`
		}
		decode(t, rec, &events)
		require.Len(t, events, 4)
		require.Equal(t, "LUX_TRUTH_01", events[0].ID)
		require.Equal(t, "pending", events[0].Status)
	})

	t.Run("districts", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteDistricts+"?session="+token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var districts []map[string]any
		decode(t, rec, &districts)
		require.Len(t, districts, 4)
		require.Equal(t, "Home Alpha", districts[0]["name"])
		require.Equal(t, 0.87, districts[0]["alignment"])
	})

	t.Run("node update and flow map", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/flow/nodes/sentinel-001", `{"state":"awake"}`, bearer...)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodPost, "/flow/nodes/sentinel-002", `{"state":" "}`, bearer...)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = f.do(t, http.MethodGet, server.RouteFlow, "", bearer...)
		require.Equal(t, http.StatusOK, rec.Code)
		var m struct {
			Nodes []struct {
				ID    string `json:"id"`
				State string `json:"state"`
			} `json:"nodes"`
			Districts        []map[string]any `json:"districts"`
			LastUpdated      *time.Time       `json:"last_updated"`
			OverallAlignment float64          `json:"overall_alignment"`
		}
		decode(t, rec, &m)
		require.Equal(t, 0.79, m.OverallAlignment)
		require.Len(t, m.Districts, 4)
		require.Len(t, m.Nodes, 1)
		require.Equal(t, "sentinel-001", m.Nodes[0].ID)
		require.Equal(t, "awake", m.Nodes[0].State)
		require.NotNil(t, m.LastUpdated)
	})

	t.Run("resonate", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteResonate, `{"district":"gamma quadrant"}`, bearer...)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Status   string `json:"status"`
			District struct {
				ID string `json:"id"`
			} `json:"district"`
			Message         string `json:"message"`
			ActivationEvent string `json:"activation_event"`
			FlowRealignment string `json:"flow_realignment"`
		}
		decode(t, rec, &resp)
		require.Equal(t, "success", resp.Status)
		require.Equal(t, "gamma", resp.District.ID)
		require.Equal(t, "Confirmed: Gamma Quadrant synced.", resp.Message)
		require.Equal(t, "LUX_TRUTH_04", resp.ActivationEvent)
		require.Equal(t, "65%", resp.FlowRealignment)
	})

	t.Run("resonate unknown district", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteResonate, `{"district":"Nowhere"}`, bearer...)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "not found", errorMessage(t, rec))
	})

	t.Run("resonate without district", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteResonate, `{}`, bearer...)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_AskAndHealth(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteAsk+"?question="+url.QueryEscape("what is truth?"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	decode(t, rec, &resp)
	require.Equal(t, "The oracle is silent.", resp["answer"])

	rec = f.do(t, http.MethodGet, server.RouteAsk, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, server.RouteHealth, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Middleware(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("request id and security headers", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteHealth, "")
		require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	})

	t.Run("valid request id is kept", func(t *testing.T) {
		id := "0b9f4c1e-6f7a-4d59-9a57-3f1e2a7c8d10"
		rec := f.do(t, http.MethodGet, server.RouteHealth, "", "X-Request-ID", id)
		require.Equal(t, id, rec.Header().Get("X-Request-ID"))
	})

	t.Run("cors allowed origin", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteHealth, "", "Origin", "https://aletheia.test")
		require.Equal(t, "https://aletheia.test", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("cors other origin", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteHealth, "", "Origin", "https://elsewhere.test")
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		rec := f.do(t, http.MethodOptions, server.RouteAuthenticate, "", "Origin", "https://aletheia.test")
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"subject":"` + strings.Repeat("a", 2<<20) + `","object":"b"}`
		rec := f.do(t, http.MethodPost, server.RouteFact, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_OverHTTP(t *testing.T) {
	f := setupTestFixture(t)
	srv := httptest.NewServer(f.server)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + server.RouteHealth)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
}
