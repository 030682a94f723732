package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"study_buddy_backend/internal/config"
	"study_buddy_backend/pkg/logger"

	"go.uber.org/zap"
)

// SuggestionService 先做情感分析，再让模型按心情和情感生成建议
type SuggestionService struct {
	cfg    config.SentimentConfig
	ai     Completer
	client *http.Client
}

func NewSuggestionService(cfg config.SentimentConfig, ai Completer) *SuggestionService {
	return &SuggestionService{
		cfg:    cfg,
		ai:     ai,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Generate 返回按行拆开的建议列表
func (s *SuggestionService) Generate(mood, userInput string) ([]string, error) {
	sentiment := s.analyzeSentiment(userInput)

	prompt := fmt.Sprintf(
		"Suggest some personalized activities or coping mechanisms for someone who is feeling %s and has a sentiment of %s.",
		mood, sentiment,
	)
	completion, err := s.ai.Chat(prompt, "")
	if err != nil {
		return nil, err
	}

	suggestions := []string{}
	for _, line := range strings.Split(completion, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			suggestions = append(suggestions, line)
		}
	}
	return suggestions, nil
}

// analyzeSentiment 调用文本分析接口，失败时退回 neutral 不中断建议流程
func (s *SuggestionService) analyzeSentiment(text string) string {
	if s.cfg.Endpoint == "" {
		return "neutral"
	}

	reqBody := map[string]interface{}{
		"documents": []map[string]string{
			{"id": "1", "text": text},
		},
	}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest("POST", s.cfg.Endpoint+"/text/analytics/v3.1/sentiment", bytes.NewBuffer(jsonData))
	if err != nil {
		return "neutral"
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Warn("Sentiment analysis failed", zap.Error(err))
		return "neutral"
	}
	defer resp.Body.Close()

	var payload struct {
		Documents []struct {
			Sentiment string `json:"sentiment"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Documents) == 0 {
		return "neutral"
	}
	return payload.Documents[0].Sentiment
}
