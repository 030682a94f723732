package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"study_buddy_backend/internal/config"
)

func TestJobListingsMissingCredentials(t *testing.T) {
	s := NewJobService(config.AdzunaConfig{Country: "us"})

	got, err := s.Listings("go, sql", "")
	if err != nil {
		t.Fatalf("Listings: %v", err)
	}
	if got != "Job search API credentials are not set." {
		t.Errorf("got %q", got)
	}
}

func TestJobListingsFormatsTopFive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/jobs/us/search/1") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("what") != "go" {
			t.Errorf("what = %q", r.URL.Query().Get("what"))
		}
		w.Write([]byte(`{"results": [
			{"title": "Backend Engineer", "company": {"display_name": "Acme"}, "location": {"display_name": "Remote"}, "redirect_url": "https://jobs.example/1"},
			{"title": "", "company": {}, "location": {}, "redirect_url": ""},
			{"title": "J3"}, {"title": "J4"}, {"title": "J5"}, {"title": "J6"}
		]}`))
	}))
	defer srv.Close()

	s := NewJobService(config.AdzunaConfig{AppID: "id", AppKey: "key", Country: "us"})
	s.baseURL = srv.URL

	got, err := s.Listings("go", "")
	if err != nil {
		t.Fatalf("Listings: %v", err)
	}

	if !strings.HasPrefix(got, "Here are some job listings matching your skills:\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "- **Backend Engineer** at **Acme** in **Remote**\n  [View Job Posting](https://jobs.example/1)\n\n") {
		t.Errorf("first listing malformed:\n%s", got)
	}
	if !strings.Contains(got, "**No title** at **Unknown company** in **Unknown location**") {
		t.Errorf("missing-field fallbacks not applied:\n%s", got)
	}
	if strings.Contains(got, "J6") {
		t.Errorf("more than five listings returned:\n%s", got)
	}
}

func TestJobListingsEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	s := NewJobService(config.AdzunaConfig{AppID: "id", AppKey: "key", Country: "us"})
	s.baseURL = srv.URL

	got, err := s.Listings("cobol", "nowhere")
	if err != nil {
		t.Fatalf("Listings: %v", err)
	}
	if got != "No job listings found matching your skills." {
		t.Errorf("got %q", got)
	}
}
