package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"study_buddy_backend/internal/config"
)

// SearchResult 各搜索源统一返回的单条结果
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// SearchService 封装 Google/Bing/YouTube 三个只调一次的搜索客户端，
// 不做重试和翻页
type SearchService struct {
	cfg    config.SearchConfig
	client *http.Client

	// 可在测试中替换
	googleBaseURL  string
	bingBaseURL    string
	youtubeBaseURL string
}

func NewSearchService(cfg config.SearchConfig) *SearchService {
	return &SearchService{
		cfg:            cfg,
		client:         &http.Client{Timeout: 15 * time.Second},
		googleBaseURL:  "https://www.googleapis.com/customsearch/v1",
		bingBaseURL:    "https://api.bing.microsoft.com/v7.0/search",
		youtubeBaseURL: "https://www.googleapis.com/youtube/v3/search",
	}
}

func (s *SearchService) Google(query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("key", s.cfg.GoogleAPIKey)
	params.Set("cx", s.cfg.GoogleEngineID)
	params.Set("q", query)
	params.Set("num", "3")

	resp, err := s.client.Get(s.googleBaseURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google search error (status %d)", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(payload.Items))
	for _, item := range payload.Items {
		results = append(results, SearchResult{Title: item.Title, Link: item.Link, Snippet: item.Snippet})
	}
	return results, nil
}

func (s *SearchService) Bing(query string) ([]SearchResult, error) {
	req, err := http.NewRequest("GET", s.bingBaseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.cfg.BingAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing search error (status %d)", resp.StatusCode)
	}

	var payload struct {
		WebPages struct {
			Value []struct {
				Name    string `json:"name"`
				URL     string `json:"url"`
				Snippet string `json:"snippet"`
			} `json:"value"`
		} `json:"webPages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(payload.WebPages.Value))
	for _, item := range payload.WebPages.Value {
		results = append(results, SearchResult{Title: item.Name, Link: item.URL, Snippet: item.Snippet})
	}
	return results, nil
}

func (s *SearchService) YouTube(query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("key", s.cfg.GoogleAPIKey)
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", "3")
	params.Set("q", query)

	resp, err := s.client.Get(s.youtubeBaseURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search error (status %d)", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(payload.Items))
	for _, item := range payload.Items {
		results = append(results, SearchResult{
			Title:   item.Snippet.Title,
			Link:    "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Snippet: item.Snippet.Description,
		})
	}
	return results, nil
}
