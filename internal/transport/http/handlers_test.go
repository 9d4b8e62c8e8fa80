package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flashcard-quiz-service/internal/app"
	"flashcard-quiz-service/internal/dedup"
	"flashcard-quiz-service/internal/distractor"
	"flashcard-quiz-service/internal/domain"
	"flashcard-quiz-service/internal/infra/memory"
	"flashcard-quiz-service/internal/token"
)

func sampleCorpus() []domain.Question {
	return []domain.Question{
		{ID: "q1", ModuleID: "algebra", Prompt: "What is 2 + 2?", Answer: "4", Tags: []string{"arithmetic"}},
		{ID: "q2", ModuleID: "algebra", Prompt: "What is 2 + 3?", Answer: "5", Tags: []string{"arithmetic"}},
	}
}

func newTestHandler() *Handler {
	tokens := token.NewService([]byte("test-secret"), 10*time.Minute, false)
	service := app.NewQuizService(
		memory.NewCorpusReader(sampleCorpus()),
		memory.NewReplayGuard(),
		tokens,
		distractor.NewSelector(),
		dedup.NewDetector(nil),
		3,
	)
	return NewHandler(service, dedup.DefaultThreshold)
}

func postJSON(t *testing.T, server *httptest.Server, path string, body any, headers map[string]string) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, server.URL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	newTestHandler().Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDealAndGradeOverHTTP(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/api/question", map[string]any{
		"module": "algebra", "userId": "u1", "questionId": "q1",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deal status: %d", resp.StatusCode)
	}
	var dealt domain.DealtQuestion
	if err := json.NewDecoder(resp.Body).Decode(&dealt); err != nil {
		t.Fatalf("decode dealt: %v", err)
	}
	if dealt.Token == "" || dealt.QuestionID != "q1" {
		t.Fatalf("unexpected deal %+v", dealt)
	}

	resp = postJSON(t, server, "/api/answer", map[string]any{
		"token": dealt.Token, "userId": "u1", "answer": "4",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("grade status: %d", resp.StatusCode)
	}
	var result domain.GradeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Correct {
		t.Fatalf("expected correct grade, got %+v", result)
	}

	// Replaying the redeemed token is a conflict.
	resp = postJSON(t, server, "/api/answer", map[string]any{
		"token": dealt.Token, "userId": "u1", "answer": "4",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on replay, got %d", resp.StatusCode)
	}
}

func TestGradeRejectsInvalidToken(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/api/answer", map[string]any{
		"token": "garbage", "userId": "u1", "answer": "4",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid token, got %d", resp.StatusCode)
	}
}

func TestCheckDuplicatesEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/api/check_duplicates", map[string]any{
		"module": "algebra", "question": "Tell me what 2 + 2 equals?",
	}, map[string]string{"X-Similarity-Threshold": "0"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("check status: %d", resp.StatusCode)
	}
	var body struct {
		Duplicates []domain.DuplicateMatch `json:"duplicates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Duplicates) == 0 {
		t.Fatalf("expected duplicates at zero threshold")
	}

	resp = postJSON(t, server, "/api/check_duplicates", map[string]any{
		"module": "algebra", "question": "anything",
	}, map[string]string{"X-Similarity-Threshold": "1.5"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range threshold, got %d", resp.StatusCode)
	}
}
