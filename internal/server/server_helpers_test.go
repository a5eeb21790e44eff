package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"word-imposter/internal/bots"
	"word-imposter/internal/config"
	"word-imposter/internal/game"
	"word-imposter/internal/store"
)

// stubSource cycles through a fixed value list; an empty list always picks
// index zero, which makes lobby codes, imposters and words deterministic.
type stubSource struct {
	values []int
	i      int
}

func (s *stubSource) IntN(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.i%len(s.values)] % n
	s.i++
	return v
}

type testClock struct {
	now time.Time
}

func (c *testClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type testHarness struct {
	srv   *Server
	ts    *httptest.Server
	clock *testClock
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	return newTestHarnessWithStore(t, store.NewMemory(game.DefaultCategories()))
}

func newTestHarnessWithStore(t *testing.T, st store.Store) *testHarness {
	t.Helper()
	srv := New(st, config.Default())
	clock := &testClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	srv.rng = &stubSource{}
	srv.now = func() time.Time { return clock.now }
	// Run bot votes inline so tests never sleep.
	srv.bots = bots.NewDirector(bots.Options{
		MinDelay: time.Millisecond,
		MaxDelay: time.Millisecond,
		Rand:     &stubSource{},
		After:    func(d time.Duration, fn func()) { fn() },
		Vote:     srv.castBotVote,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testHarness{srv: srv, ts: ts, clock: clock}
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

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func expectKind(t *testing.T, body map[string]any, want string) {
	t.Helper()
	if body["kind"] != want {
		t.Fatalf("expected error kind %q, got %v", want, body["kind"])
	}
}

func createLobby(t *testing.T, h *testHarness, name, playerID string) string {
	t.Helper()
	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/create", map[string]any{
		"player_name": name,
		"player_id":   playerID,
	})
	expectStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	code, ok := body["code"].(string)
	if !ok || code == "" {
		t.Fatalf("expected lobby code, got %v", body["code"])
	}
	return code
}

func joinLobby(t *testing.T, h *testHarness, code, name, playerID string) {
	t.Helper()
	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/join", map[string]any{
		"code":        code,
		"player_name": name,
		"player_id":   playerID,
	})
	expectStatus(t, resp, http.StatusOK)
}

func startGame(t *testing.T, h *testHarness, code, playerID, category string, totalRounds int) {
	t.Helper()
	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/start", map[string]any{
		"code":         code,
		"player_id":    playerID,
		"category":     category,
		"total_rounds": totalRounds,
	})
	expectStatus(t, resp, http.StatusOK)
}

func advanceTo(t *testing.T, h *testHarness, code, playerID, phase string) {
	t.Helper()
	resp := doRequest(t, h.ts, http.MethodPost, "/api/game/phase", map[string]any{
		"code":      code,
		"player_id": playerID,
		"phase":     phase,
	})
	expectStatus(t, resp, http.StatusOK)
}

func castVote(t *testing.T, h *testHarness, code, playerID, targetID string) {
	t.Helper()
	resp := doRequest(t, h.ts, http.MethodPost, "/api/game/vote", map[string]any{
		"code":         code,
		"player_id":    playerID,
		"voted_for_id": targetID,
	})
	expectStatus(t, resp, http.StatusOK)
}

func getSnapshot(t *testing.T, h *testHarness, code, viewerID string) map[string]any {
	t.Helper()
	path := "/api/game/" + code
	if viewerID != "" {
		path += "?player_id=" + viewerID
	}
	resp := doRequest(t, h.ts, http.MethodGet, path, nil)
	expectStatus(t, resp, http.StatusOK)
	return decodeBody(t, resp)
}

func snapshotScores(t *testing.T, snapshot map[string]any) map[string]int {
	t.Helper()
	raw, ok := snapshot["scores"].([]any)
	if !ok {
		t.Fatalf("expected scores list, got %T", snapshot["scores"])
	}
	scores := make(map[string]int, len(raw))
	for _, entry := range raw {
		row := entry.(map[string]any)
		scores[row["player_id"].(string)] = int(row["total_score"].(float64))
	}
	return scores
}
