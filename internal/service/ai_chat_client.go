package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrCompletionAPIKeyMissing 表示未配置语言模型接口的 API Key。
var ErrCompletionAPIKeyMissing = errors.New("completion api key is required")

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// CompletionRequest 描述一次对话补全调用。UserPrompt 为空时只发送 system 消息。
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// CompletionResponse 返回第一条候选结果及用量。
type CompletionResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// CompletionProvider 定义语言模型补全能力，便于在测试中注入替身。
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIChatClient 调用 OpenAI 兼容的 /chat/completions 接口。
type OpenAIChatClient struct {
	http    httpDoer
	apiKey  string
	baseURL string
	model   string
}

// NewOpenAIChatClient 构造客户端，baseURL 为空时使用官方地址。
func NewOpenAIChatClient(apiKey, baseURL, model string) *OpenAIChatClient {
	c := &OpenAIChatClient{
		http:   &http.Client{Timeout: 180 * time.Second},
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
	c.SetBaseURL(baseURL)
	return c
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (c *OpenAIChatClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 180 * time.Second}
		return
	}
	c.http = client
}

// SetBaseURL 覆盖接口地址。
func (c *OpenAIChatClient) SetBaseURL(base string) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	c.baseURL = base
}

// Model 返回当前使用的模型名称。
func (c *OpenAIChatClient) Model() string {
	return c.model
}

// Complete 发送一次补全请求并返回第一条候选内容，接口报错时保留远端错误信息。
func (c *OpenAIChatClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if c.apiKey == "" {
		return CompletionResponse{}, ErrCompletionAPIKeyMissing
	}

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	maxTokens := req.MaxTokens
	if maxTokens < 0 {
		maxTokens = 0
	}

	messages := []chatMessage{{Role: "system", Content: strings.TrimSpace(req.SystemPrompt)}}
	if strings.TrimSpace(req.UserPrompt) != "" {
		messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})
	}

	payload := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("encode completion request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "garmin-report/1.0")

	resp, err := client.Do(httpReq)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("call completion api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("read completion response: %w", err)
	}

	var completion chatCompletionResponse
	decodeErr := json.Unmarshal(respBody, &completion)

	if resp.StatusCode >= http.StatusBadRequest {
		errMsg := strings.TrimSpace(completion.Error.Message)
		if errMsg == "" {
			errMsg = strings.TrimSpace(string(respBody))
		}
		if errMsg == "" {
			errMsg = resp.Status
		}
		return CompletionResponse{}, fmt.Errorf("completion api returned %d: %s", resp.StatusCode, errMsg)
	}

	if decodeErr != nil {
		return CompletionResponse{}, fmt.Errorf("decode completion response: %w", decodeErr)
	}

	if len(completion.Choices) == 0 {
		return CompletionResponse{}, errors.New("completion api returned no choices")
	}

	return CompletionResponse{
		Content:          strings.TrimSpace(completion.Choices[0].Message.Content),
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
	}, nil
}
