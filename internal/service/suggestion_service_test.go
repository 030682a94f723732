package service

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"study_buddy_backend/internal/config"
)

func TestGenerateSuggestionsUsesSentiment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text/analytics/v3.1/sentiment" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != "s-key" {
			t.Errorf("subscription key = %q", got)
		}
		w.Write([]byte(`{"documents": [{"id": "1", "sentiment": "negative"}]}`))
	}))
	defer srv.Close()

	ai := &fakeCompleter{completion: "Take a walk.\n\nCall a friend.\n"}
	s := NewSuggestionService(config.SentimentConfig{Endpoint: srv.URL, APIKey: "s-key"}, ai)

	got, err := s.Generate("stressed", "exams are piling up")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(ai.lastPrompt, "feeling stressed") {
		t.Errorf("mood missing from prompt: %q", ai.lastPrompt)
	}
	if !strings.Contains(ai.lastPrompt, "sentiment of negative") {
		t.Errorf("sentiment missing from prompt: %q", ai.lastPrompt)
	}

	want := []string{"Take a walk.", "Call a friend."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggestions = %v, want %v", got, want)
	}
}

func TestGenerateSuggestionsNeutralFallback(t *testing.T) {
	cases := []struct {
		name    string
		service func(ai *fakeCompleter) *SuggestionService
	}{
		{
			name: "no endpoint configured",
			service: func(ai *fakeCompleter) *SuggestionService {
				return NewSuggestionService(config.SentimentConfig{}, ai)
			},
		},
		{
			name: "analysis endpoint errors",
			service: func(ai *fakeCompleter) *SuggestionService {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
				}))
				t.Cleanup(srv.Close)
				return NewSuggestionService(config.SentimentConfig{Endpoint: srv.URL, APIKey: "s-key"}, ai)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ai := &fakeCompleter{completion: "Drink water."}
			s := tc.service(ai)

			if _, err := s.Generate("tired", "long day"); err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if !strings.Contains(ai.lastPrompt, "sentiment of neutral") {
				t.Errorf("expected neutral fallback in prompt: %q", ai.lastPrompt)
			}
		})
	}
}
