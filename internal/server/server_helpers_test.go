package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"material-mastery/internal/config"
	"material-mastery/internal/game"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	t.Cleanup(ts.Close)
	return ts
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApp returns a server over an in-memory store seeded with one
// challenge card worth 5 bonus points and one bonus card.
func newTestApp(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	engine := game.NewEngine(game.NewMemoryStore(), game.WithSeed(7), game.WithLogger(discardLogger()))
	ctx := context.Background()
	points := 5
	if _, err := engine.CreateChallengeCard(ctx, game.ChallengeCard{Title: "Bridge", Description: "Span a gap", BonusPoints: &points}); err != nil {
		t.Fatalf("seed challenge card: %v", err)
	}
	if _, err := engine.CreateBonusCard(ctx, game.BonusCard{Name: "Recycler", Effect: "Reuse scraps", ScoringRules: "+10"}); err != nil {
		t.Fatalf("seed bonus card: %v", err)
	}
	cfg := config.Default()
	cfg.GinMode = "test"
	srv := New(engine, cfg, append([]Option{WithLogger(discardLogger())}, opts...)...)
	return srv, newTestServer(t, srv.Handler())
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func expectStatus(t *testing.T, resp *http.Response, want int) map[string]any {
	t.Helper()
	body := decodeBody(t, resp)
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d (%v)", want, resp.StatusCode, body)
	}
	return body
}

func expectError(t *testing.T, resp *http.Response, status int, message string) {
	t.Helper()
	body := expectStatus(t, resp, status)
	if body["error"] != message {
		t.Fatalf("expected error %q, got %v", message, body["error"])
	}
}

// createSessionHTTP creates a session and returns its id and team ids in
// request order.
func createSessionHTTP(t *testing.T, ts *httptest.Server, name string, rounds int, teams ...string) (string, []uint) {
	t.Helper()
	payload := map[string]any{"name": name, "number_of_rounds": rounds}
	var teamList []map[string]string
	for _, team := range teams {
		teamList = append(teamList, map[string]string{"name": team})
	}
	payload["teams"] = teamList
	body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/game-sessions", payload), http.StatusCreated)
	session := body["game_session"].(map[string]any)
	var ids []uint
	for _, raw := range session["teams"].([]any) {
		ids = append(ids, uint(raw.(map[string]any)["id"].(float64)))
	}
	return strconv.Itoa(int(session["id"].(float64))), ids
}

func submitDesign(t *testing.T, ts *httptest.Server, sessionID string, teamID uint, design string) *http.Response {
	t.Helper()
	return doRequest(t, ts, http.MethodPut, "/game-sessions/"+sessionID+"/submit-design", map[string]any{
		"team_id":     teamID,
		"design_data": design,
	})
}
