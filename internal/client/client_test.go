package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"luct/reporting/internal/model"
)

func TestLoginAndBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["username"] != "alice" || body["password"] != "pw" {
				t.Errorf("unexpected login body %v", body)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":7,"username":"alice","full_name":"Alice","role":"lecturer","token":"tok"}`))
		case "/api/lectures":
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("expected bearer token, got %q", got)
			}
			if r.URL.Query().Get("mine") != "true" {
				t.Errorf("expected mine=true, got %q", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`[{"id":1,"course_id":2,"topic":"Intro","status":"pending"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	api := New(server.URL + "/")
	result, err := api.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if result.Role != model.RoleLecturer || result.Token != "tok" {
		t.Fatalf("unexpected result %+v", result)
	}

	lectures, err := api.WithToken(result.Token).ListLectures(ctx, 0, true)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(lectures) != 1 || lectures[0].Topic != "Intro" {
		t.Fatalf("unexpected lectures %+v", lectures)
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_credentials","message":"Invalid username or password"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Login(context.Background(), "alice", "bad")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Code != "invalid_credentials" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestSubmitFeedback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/reports/5/feedback" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["status"]; ok {
			t.Errorf("expected status to be omitted, got %v", body)
		}
		_, _ = w.Write([]byte(`{"message":"ok","reports":[{"id":1,"lecture_id":5,"status":"completed","prl_feedback":"done"}]}`))
	}))
	defer server.Close()

	reports, err := New(server.URL).WithToken("tok").SubmitFeedback(context.Background(), 5, "done", "")
	if err != nil {
		t.Fatalf("feedback error: %v", err)
	}
	if len(reports) != 1 || reports[0].Status != model.ReportCompleted {
		t.Fatalf("unexpected reports %+v", reports)
	}
}
