package server

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCreateLobby(t *testing.T) {
	h := newTestHarness(t)

	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/create", map[string]any{
		"player_name": "Alice",
		"player_id":   "alice",
	})
	expectStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	if body["code"] != "AAAAAA" {
		t.Fatalf("expected deterministic code, got %v", body["code"])
	}
	if body["player_id"] != "alice" {
		t.Fatalf("expected player_id alice, got %v", body["player_id"])
	}
	if body["avatar_color"] != "#FF6B6B" {
		t.Fatalf("expected first palette color, got %v", body["avatar_color"])
	}
	if body["player_name"] != "Alice" || body["is_host"] != true {
		t.Fatalf("unexpected player fields: %v", body)
	}
}

func TestCreateLobbyGeneratesPlayerID(t *testing.T) {
	h := newTestHarness(t)

	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/create", map[string]any{
		"player_name": "Alice",
	})
	expectStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	if id, ok := body["player_id"].(string); !ok || id == "" {
		t.Fatalf("expected generated player_id, got %v", body["player_id"])
	}
}

func TestCreateLobbyRejectsBadName(t *testing.T) {
	h := newTestHarness(t)

	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/create", map[string]any{
		"player_name": "",
		"player_id":   "alice",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	expectKind(t, decodeBody(t, resp), "validation")
}

func TestJoinUnknownLobby(t *testing.T) {
	h := newTestHarness(t)

	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/join", map[string]any{
		"code":        "ZZZZZZ",
		"player_name": "Bob",
		"player_id":   "bob",
	})
	expectStatus(t, resp, http.StatusNotFound)
	expectKind(t, decodeBody(t, resp), "not_found")
}

func TestJoinUppercasesCode(t *testing.T) {
	h := newTestHarness(t)
	createLobby(t, h, "Alice", "alice")

	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/join", map[string]any{
		"code":        "aaaaaa",
		"player_name": "Bob",
		"player_id":   "bob",
	})
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["player_name"] != "Bob" || body["is_host"] != false {
		t.Fatalf("unexpected player fields: %v", body)
	}
}

func TestJoinAfterStartRejected(t *testing.T) {
	h := newTestHarness(t)
	code := createLobby(t, h, "Alice", "alice")
	joinLobby(t, h, code, "Bob", "bob")
	startGame(t, h, code, "alice", "Animals", 3)

	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/join", map[string]any{
		"code":        code,
		"player_name": "Cara",
		"player_id":   "cara",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	expectKind(t, decodeBody(t, resp), "invalid_state")
}

func TestJoinFullLobbyRejected(t *testing.T) {
	h := newTestHarness(t)
	code := createLobby(t, h, "Alice", "alice")
	for i := 2; i <= 10; i++ {
		joinLobby(t, h, code, fmt.Sprintf("Player%d", i), fmt.Sprintf("player-%d", i))
	}

	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/join", map[string]any{
		"code":        code,
		"player_name": "Overflow",
		"player_id":   "overflow",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	expectKind(t, decodeBody(t, resp), "capacity")
}

func TestStartRequiresHost(t *testing.T) {
	h := newTestHarness(t)
	code := createLobby(t, h, "Alice", "alice")
	joinLobby(t, h, code, "Bob", "bob")

	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/start", map[string]any{
		"code":      code,
		"player_id": "bob",
	})
	expectStatus(t, resp, http.StatusForbidden)
	expectKind(t, decodeBody(t, resp), "forbidden")
}

func TestStartRequiresTwoPlayers(t *testing.T) {
	h := newTestHarness(t)
	code := createLobby(t, h, "Alice", "alice")

	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/start", map[string]any{
		"code":      code,
		"player_id": "alice",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	expectKind(t, decodeBody(t, resp), "capacity")
}

func TestStartRejectsUnknownCategory(t *testing.T) {
	h := newTestHarness(t)
	code := createLobby(t, h, "Alice", "alice")
	joinLobby(t, h, code, "Bob", "bob")

	resp := doRequest(t, h.ts, http.MethodPost, "/api/lobby/start", map[string]any{
		"code":      code,
		"player_id": "alice",
		"category":  "Plants",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	expectKind(t, decodeBody(t, resp), "validation")
}

func TestPhaseRequiresHost(t *testing.T) {
	h := newTestHarness(t)
	code := createLobby(t, h, "Alice", "alice")
	joinLobby(t, h, code, "Bob", "bob")
	startGame(t, h, code, "alice", "Animals", 3)

	resp := doRequest(t, h.ts, http.MethodPost, "/api/game/phase", map[string]any{
		"code":      code,
		"player_id": "bob",
		"phase":     "discussion",
	})
	expectStatus(t, resp, http.StatusForbidden)
	expectKind(t, decodeBody(t, resp), "forbidden")
}

func TestPhaseRejectsBackwardTransition(t *testing.T) {
	h := newTestHarness(t)
	code := createLobby(t, h, "Alice", "alice")
	joinLobby(t, h, code, "Bob", "bob")
	startGame(t, h, code, "alice", "Animals", 3)
	advanceTo(t, h, code, "alice", "discussion")
	advanceTo(t, h, code, "alice", "voting")

	resp := doRequest(t, h.ts, http.MethodPost, "/api/game/phase", map[string]any{
		"code":      code,
		"player_id": "alice",
		"phase":     "discussion",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	expectKind(t, decodeBody(t, resp), "invalid_state")
}

func TestPhaseSameTargetIsNoOp(t *testing.T) {
	h := newTestHarness(t)
	code := createLobby(t, h, "Alice", "alice")
	joinLobby(t, h, code, "Bob", "bob")
	startGame(t, h, code, "alice", "Animals", 3)
	advanceTo(t, h, code, "alice", "discussion")
	advanceTo(t, h, code, "alice", "discussion")

	snapshot := getSnapshot(t, h, code, "")
	round := snapshot["round"].(map[string]any)
	if round["phase"] != "discussion" {
		t.Fatalf("expected discussion phase, got %v", round["phase"])
	}
}

func TestCategories(t *testing.T) {
	h := newTestHarness(t)

	resp := doRequest(t, h.ts, http.MethodGet, "/api/categories", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	categories, ok := body["categories"].([]any)
	if !ok || len(categories) != 4 {
		t.Fatalf("expected 4 categories, got %v", body["categories"])
	}
	if categories[0] != "Animals" {
		t.Fatalf("expected Animals first, got %v", categories[0])
	}
}

func TestHealth(t *testing.T) {
	h := newTestHarness(t)

	resp := doRequest(t, h.ts, http.MethodGet, "/api/health", nil)
	expectStatus(t, resp, http.StatusOK)
}
