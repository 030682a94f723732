package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"study_buddy_backend/internal/config"
)

func newTestSearchService(baseURL string) *SearchService {
	s := NewSearchService(config.SearchConfig{
		GoogleAPIKey:   "g-key",
		GoogleEngineID: "g-cx",
		BingAPIKey:     "b-key",
	})
	s.googleBaseURL = baseURL
	s.bingBaseURL = baseURL
	s.youtubeBaseURL = baseURL
	return s
}

func TestGoogleSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "g-key" || q.Get("cx") != "g-cx" {
			t.Errorf("credentials not forwarded: key=%q cx=%q", q.Get("key"), q.Get("cx"))
		}
		if q.Get("q") != "photosynthesis" {
			t.Errorf("q = %q", q.Get("q"))
		}
		if q.Get("num") != "3" {
			t.Errorf("num = %q", q.Get("num"))
		}
		w.Write([]byte(`{"items": [
			{"title": "Photosynthesis", "link": "https://example.org/ps", "snippet": "Plants make sugar."}
		]}`))
	}))
	defer srv.Close()

	s := newTestSearchService(srv.URL)
	got, err := s.Google("photosynthesis")
	if err != nil {
		t.Fatalf("Google: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
	want := SearchResult{Title: "Photosynthesis", Link: "https://example.org/ps", Snippet: "Plants make sugar."}
	if got[0] != want {
		t.Errorf("result = %+v, want %+v", got[0], want)
	}
}

func TestGoogleSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := newTestSearchService(srv.URL)
	if _, err := s.Google("anything"); err == nil {
		t.Fatal("expected error on non-200 upstream response")
	}
}

func TestBingSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != "b-key" {
			t.Errorf("subscription key = %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "mitosis vs meiosis" {
			t.Errorf("q = %q", got)
		}
		w.Write([]byte(`{"webPages": {"value": [
			{"name": "Cell division", "url": "https://example.org/cells", "snippet": "Two kinds of division."}
		]}}`))
	}))
	defer srv.Close()

	s := newTestSearchService(srv.URL)
	got, err := s.Bing("mitosis vs meiosis")
	if err != nil {
		t.Fatalf("Bing: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
	want := SearchResult{Title: "Cell division", Link: "https://example.org/cells", Snippet: "Two kinds of division."}
	if got[0] != want {
		t.Errorf("result = %+v, want %+v", got[0], want)
	}
}

func TestYouTubeSearchBuildsWatchLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("part") != "snippet" || q.Get("type") != "video" {
			t.Errorf("part=%q type=%q", q.Get("part"), q.Get("type"))
		}
		if q.Get("maxResults") != "3" {
			t.Errorf("maxResults = %q", q.Get("maxResults"))
		}
		w.Write([]byte(`{"items": [
			{"id": {"videoId": "abc123"}, "snippet": {"title": "Krebs cycle", "description": "In 10 minutes."}}
		]}`))
	}))
	defer srv.Close()

	s := newTestSearchService(srv.URL)
	got, err := s.YouTube("krebs cycle")
	if err != nil {
		t.Fatalf("YouTube: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
	if got[0].Link != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("link = %q", got[0].Link)
	}
	if got[0].Title != "Krebs cycle" || got[0].Snippet != "In 10 minutes." {
		t.Errorf("result = %+v", got[0])
	}
}
