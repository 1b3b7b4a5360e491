package server

import (
	"net/http"
	"testing"
)

func TestSprintScenario(t *testing.T) {
	_, ts := newTestApp(t)
	sessionID, teams := createSessionHTTP(t, ts, "Sprint1", 2, "A", "B")
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}

	body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/game-sessions/"+sessionID+"/start-round", nil), http.StatusCreated)
	if body["message"] != "New round started successfully!" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	round := body["round"].(map[string]any)
	if round["round_number"].(float64) != 1 {
		t.Fatalf("expected round 1, got %v", round["round_number"])
	}

	body = expectStatus(t, submitDesign(t, ts, sessionID, teams[0], "arch"), http.StatusCreated)
	submission := body["submission"].(map[string]any)
	if submission["score"] != nil {
		t.Fatalf("expected unscored submission, got %v", submission["score"])
	}
	expectStatus(t, submitDesign(t, ts, sessionID, teams[1], "truss"), http.StatusCreated)
	expectError(t, submitDesign(t, ts, sessionID, teams[0], "again"), http.StatusBadRequest,
		"Design already submitted for this round.")

	body = expectStatus(t, doRequest(t, ts, http.MethodGet, "/game-sessions/"+sessionID+"/round-results", nil), http.StatusOK)
	if len(body["results"].([]any)) != 2 {
		t.Fatalf("expected 2 results, got %v", body["results"])
	}

	body = expectStatus(t, doRequest(t, ts, http.MethodPost, "/game-sessions/"+sessionID+"/score-round", nil), http.StatusOK)
	if body["message"] != "Round scored successfully!" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	for _, raw := range body["results"].([]any) {
		if score := raw.(map[string]any)["score"]; score != float64(85) {
			t.Fatalf("expected score 85, got %v", score)
		}
	}
	expectError(t, doRequest(t, ts, http.MethodPost, "/game-sessions/"+sessionID+"/score-round", nil),
		http.StatusBadRequest, "Round has already been scored.")

	body = expectStatus(t, doRequest(t, ts, http.MethodGet, "/leaderboards", nil), http.StatusOK)
	board := body["leaderboard"].([]any)
	if len(board) != 2 {
		t.Fatalf("expected 2 standings, got %v", board)
	}
	for _, raw := range board {
		if raw.(map[string]any)["score"] != float64(85) {
			t.Fatalf("expected 85 for every team, got %v", raw)
		}
	}

	expectStatus(t, doRequest(t, ts, http.MethodPost, "/game-sessions/"+sessionID+"/start-round", nil), http.StatusCreated)
	expectError(t, doRequest(t, ts, http.MethodPost, "/game-sessions/"+sessionID+"/start-round", nil),
		http.StatusBadRequest, "All rounds have already been completed.")

	body = expectStatus(t, doRequest(t, ts, http.MethodGet, "/game-sessions/"+sessionID+"/events", nil), http.StatusOK)
	if len(body["events"].([]any)) < 5 {
		t.Fatalf("expected session events, got %v", body["events"])
	}
}

func TestRoundResultsBeforeStart(t *testing.T) {
	_, ts := newTestApp(t)
	sessionID, _ := createSessionHTTP(t, ts, "Sprint1", 1, "A")
	expectError(t, doRequest(t, ts, http.MethodGet, "/game-sessions/"+sessionID+"/round-results", nil),
		http.StatusNotFound, "Current round not found or not yet started.")
	expectError(t, doRequest(t, ts, http.MethodPost, "/game-sessions/"+sessionID+"/score-round", nil),
		http.StatusNotFound, "Current round not found or not yet started.")
}

func TestScoreRoundWithoutSubmissions(t *testing.T) {
	_, ts := newTestApp(t)
	sessionID, _ := createSessionHTTP(t, ts, "Sprint1", 1, "A")
	expectStatus(t, doRequest(t, ts, http.MethodPost, "/game-sessions/"+sessionID+"/start-round", nil), http.StatusCreated)
	expectError(t, doRequest(t, ts, http.MethodPost, "/game-sessions/"+sessionID+"/score-round", nil),
		http.StatusBadRequest, "No submissions found for this round.")
}

func TestSubmitDesignValidation(t *testing.T) {
	_, ts := newTestApp(t)
	expectError(t, submitDesign(t, ts, "999", 1, ""), http.StatusBadRequest, "Team ID and design data are required.")
	expectError(t, submitDesign(t, ts, "999", 1, "arch"), http.StatusNotFound, "Game session not found.")

	sessionID, _ := createSessionHTTP(t, ts, "Sprint1", 1, "A")
	expectStatus(t, doRequest(t, ts, http.MethodPost, "/game-sessions/"+sessionID+"/start-round", nil), http.StatusCreated)
	expectError(t, submitDesign(t, ts, sessionID, 999, "arch"), http.StatusNotFound, "Team not found.")
}

func TestCreateSessionValidation(t *testing.T) {
	_, ts := newTestApp(t)
	const message = "Name, number of rounds, and teams are required fields."
	cases := []map[string]any{
		{"number_of_rounds": 2, "teams": []map[string]string{{"name": "A"}}},
		{"name": "Sprint1", "number_of_rounds": 0, "teams": []map[string]string{{"name": "A"}}},
		{"name": "Sprint1", "number_of_rounds": 2, "teams": []map[string]string{}},
		{"name": "Sprint1", "number_of_rounds": 2, "teams": []map[string]string{{"name": "  "}}},
	}
	for _, payload := range cases {
		expectError(t, doRequest(t, ts, http.MethodPost, "/game-sessions", payload), http.StatusBadRequest, message)
	}
}

func TestUpdateSessionOverridesScore(t *testing.T) {
	_, ts := newTestApp(t)
	sessionID, teams := createSessionHTTP(t, ts, "Sprint1", 1, "A", "B")
	body := expectStatus(t, doRequest(t, ts, http.MethodPut, "/game-sessions/"+sessionID, map[string]any{
		"name":  "Sprint2",
		"teams": []map[string]any{{"id": teams[1], "score": 40}},
	}), http.StatusOK)
	session := body["game_session"].(map[string]any)
	if session["name"] != "Sprint2" {
		t.Fatalf("expected renamed session, got %v", session["name"])
	}

	body = expectStatus(t, doRequest(t, ts, http.MethodGet, "/leaderboards?session_id="+sessionID, nil), http.StatusOK)
	top := body["leaderboard"].([]any)[0].(map[string]any)
	if top["team_name"] != "B" || top["score"] != float64(40) {
		t.Fatalf("expected B on top with 40, got %v", top)
	}
}

func TestDeleteSession(t *testing.T) {
	_, ts := newTestApp(t)
	sessionID, _ := createSessionHTTP(t, ts, "Sprint1", 1, "A")
	expectStatus(t, doRequest(t, ts, http.MethodDelete, "/game-sessions/"+sessionID, nil), http.StatusOK)
	expectError(t, doRequest(t, ts, http.MethodGet, "/game-sessions/"+sessionID, nil), http.StatusNotFound, "Game session not found.")
	expectError(t, doRequest(t, ts, http.MethodGet, "/leaderboards?session_id="+sessionID, nil), http.StatusNotFound, "Game session not found.")
}
