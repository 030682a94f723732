package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"study_buddy_backend/internal/config"
	"study_buddy_backend/pkg/monitoring"
)

// AIService 调用 OpenAI 兼容的 /chat/completions 接口
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat 发送单轮补全请求，返回模型的文本回复
func (s *AIService) Chat(prompt string, systemContext string) (string, error) {
	messages := []AIChatMessage{}

	if systemContext != "" {
		messages = append(messages, AIChatMessage{
			Role:    "system",
			Content: systemContext,
		})
	}

	messages = append(messages, AIChatMessage{
		Role:    "user",
		Content: prompt,
	})

	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		monitoring.LLMRequestCounter.WithLabelValues("error").Inc()
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		monitoring.LLMRequestCounter.WithLabelValues("error").Inc()
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		monitoring.LLMRequestCounter.WithLabelValues("error").Inc()
		return "", err
	}

	if len(result.Choices) > 0 {
		monitoring.LLMRequestCounter.WithLabelValues("success").Inc()
		return result.Choices[0].Message.Content, nil
	}

	monitoring.LLMRequestCounter.WithLabelValues("error").Inc()
	return "", fmt.Errorf("AI returned no choices")
}
