package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"study_buddy_backend/internal/config"
)

// JobService Adzuna 职位搜索，单次调用取第一页前五条
type JobService struct {
	cfg     config.AdzunaConfig
	client  *http.Client
	baseURL string
}

func NewJobService(cfg config.AdzunaConfig) *JobService {
	return &JobService{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://api.adzuna.com/v1/api",
	}
}

func (s *JobService) Listings(skills, location string) (string, error) {
	if s.cfg.AppID == "" || s.cfg.AppKey == "" {
		return "Job search API credentials are not set.", nil
	}

	params := url.Values{}
	params.Set("app_id", s.cfg.AppID)
	params.Set("app_key", s.cfg.AppKey)
	params.Set("what", skills)
	params.Set("content-type", "application/json")
	if location != "" {
		params.Set("where", location)
	}

	endpoint := fmt.Sprintf("%s/jobs/%s/search/1?%s", s.baseURL, s.cfg.Country, params.Encode())
	resp, err := s.client.Get(endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Title   string `json:"title"`
			Company struct {
				DisplayName string `json:"display_name"`
			} `json:"company"`
			Location struct {
				DisplayName string `json:"display_name"`
			} `json:"location"`
			RedirectURL string `json:"redirect_url"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	if len(payload.Results) == 0 {
		return "No job listings found matching your skills.", nil
	}

	jobs := payload.Results
	if len(jobs) > 5 {
		jobs = jobs[:5]
	}

	var b strings.Builder
	b.WriteString("Here are some job listings matching your skills:\n")
	for _, job := range jobs {
		title := job.Title
		if title == "" {
			title = "No title"
		}
		company := job.Company.DisplayName
		if company == "" {
			company = "Unknown company"
		}
		loc := job.Location.DisplayName
		if loc == "" {
			loc = "Unknown location"
		}
		fmt.Fprintf(&b, "- **%s** at **%s** in **%s**\n", title, company, loc)
		fmt.Fprintf(&b, "  [View Job Posting](%s)\n\n", job.RedirectURL)
	}
	return b.String(), nil
}
