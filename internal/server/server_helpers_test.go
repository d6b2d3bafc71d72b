package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func doRequest(t *testing.T, ts *httptest.Server, method, path, caller string, payload any) *http.Response {
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
	if caller != "" {
		req.Header.Set(callerHeader, caller)
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

// expectStatus checks the status code and returns the decoded body.
func expectStatus(t *testing.T, resp *http.Response, status int) map[string]any {
	t.Helper()
	body := decodeBody(t, resp)
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d: %v", status, resp.StatusCode, body)
	}
	return body
}

func expectCode(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	body := expectStatus(t, resp, status)
	if body["code"] != code {
		t.Fatalf("expected code %s, got %v", code, body["code"])
	}
}

func post(t *testing.T, ts *httptest.Server, path, caller string, payload any) map[string]any {
	t.Helper()
	return expectStatus(t, doRequest(t, ts, http.MethodPost, path, caller, payload), http.StatusOK)
}

func gamePath(id uint64, suffix string) string {
	return "/api/games/" + strconv.FormatUint(id, 10) + suffix
}

func asMap(t *testing.T, value any) map[string]any {
	t.Helper()
	m, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", value)
	}
	return m
}

func asNumber(t *testing.T, value any) uint64 {
	t.Helper()
	n, ok := value.(float64)
	if !ok {
		t.Fatalf("expected number, got %T", value)
	}
	return uint64(n)
}

// createGame opens a 3-player, 3-hour game starting ten minutes after now.
func createGame(t *testing.T, ts *httptest.Server, now int64) (uint64, int64) {
	t.Helper()
	start := now + 600
	resp := doRequest(t, ts, http.MethodPost, "/api/games", testCreator, map[string]any{
		"name":           "Friday Night Stake",
		"entry_fee":      100,
		"max_players":    3,
		"start_time":     start,
		"duration_hours": 3,
	})
	body := expectStatus(t, resp, http.StatusCreated)
	g := asMap(t, body["game"])
	return asNumber(t, g["id"]), start
}

// startGame creates a game, fills it, and starts it at its start time.
func startGame(t *testing.T, ts *httptest.Server, clock *testClock) (uint64, map[string]any) {
	t.Helper()
	id, start := createGame(t, ts, clock.Now().Unix())
	for _, player := range []string{"alice", "bob", "carol"} {
		post(t, ts, gamePath(id, "/enter"), player, nil)
	}
	clock.Set(start)
	body := post(t, ts, gamePath(id, "/start"), testCreator, nil)
	for _, player := range []string{"alice", "bob", "carol"} {
		post(t, ts, gamePath(id, "/player-state"), player, nil)
	}
	post(t, ts, gamePath(id, "/pool"), "alice", nil)
	return id, asMap(t, body["game"])
}

func advance(t *testing.T, ts *httptest.Server, clock *testClock, id uint64) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, gamePath(id, ""), "", nil)
	g := asMap(t, expectStatus(t, resp, http.StatusOK)["game"])
	clock.Set(int64(asNumber(t, g["phase_end"])))
	return asMap(t, post(t, ts, gamePath(id, "/advance"), testCreator, nil)["game"])
}

// playChallenge runs a mini-game to a claimed win and returns the challenge id.
func playChallenge(t *testing.T, ts *httptest.Server, id uint64, challenger, opponent, winner string, bet uint64) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, gamePath(id, "/challenges"), challenger, map[string]any{
		"opponent":   opponent,
		"bet_amount": bet,
		"type":       "rock_paper_scissors",
	})
	challenge := asMap(t, expectStatus(t, resp, http.StatusCreated)["challenge"])
	challengeID := challenge["id"].(string)
	base := "/api/challenges/" + challengeID
	post(t, ts, base+"/respond", opponent, map[string]any{"accept": true})
	post(t, ts, base+"/ready", challenger, nil)
	post(t, ts, base+"/start", opponent, nil)
	post(t, ts, base+"/claim", winner, map[string]any{"winner": winner})
	return challengeID
}
