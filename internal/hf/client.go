package hf

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the Hugging Face inference router.
const DefaultBaseURL = "https://router.huggingface.co"

const (
	taskChat           = "chat completion"
	taskTextGeneration = "text generation"
)

// Client talks to the Hugging Face inference router (OpenAI-compatible API).
type Client struct {
	BaseURL     string
	Token       string
	Model       string
	Temperature float64
	MaxTokens   int
	client      *http.Client
}

// NewClient creates a client for the given credential and model.
func NewClient(token, model string) *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		Token:       token,
		Model:       model,
		Temperature: 0.7,
		MaxTokens:   500,
		client:      &http.Client{},
	}
}

// StreamCallback is called for each fragment of a streamed response.
type StreamCallback func(chunk string) error

// Usage reports token accounting for a single call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Stream      bool    `json:"stream"`
}

type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Text string `json:"text"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

// fragment returns whichever content field this response shape carries.
func (r *apiResponse) fragment() string {
	if len(r.Choices) == 0 {
		return ""
	}
	c := r.Choices[0]
	if c.Message.Content != "" {
		return c.Message.Content
	}
	if c.Delta.Content != "" {
		return c.Delta.Content
	}
	return c.Text
}

// ChatCompletion sends a system+user message pair and blocks for the full
// response text.
func (c *Client) ChatCompletion(system, user string) (string, Usage, error) {
	body := chatRequest{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Stream:      false,
	}
	return c.post("/v1/chat/completions", taskChat, body)
}

// ChatCompletionStream sends a system+user message pair and streams the
// response. cb receives fragments in arrival order; the accumulated full
// text is returned once the stream is exhausted.
func (c *Client) ChatCompletionStream(system, user string, cb StreamCallback) (string, Usage, error) {
	body := chatRequest{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Stream:      true,
	}
	return c.postStream("/v1/chat/completions", taskChat, body, cb)
}

// TextGeneration sends a single text block to the plain completion endpoint.
// Used as the fallback when the model rejects chat-style inference.
func (c *Client) TextGeneration(input string) (string, Usage, error) {
	body := completionRequest{
		Model:       c.Model,
		Prompt:      input,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Stream:      false,
	}
	return c.post("/v1/completions", taskTextGeneration, body)
}

// TextGenerationStream is the streaming variant of TextGeneration.
func (c *Client) TextGenerationStream(input string, cb StreamCallback) (string, Usage, error) {
	body := completionRequest{
		Model:       c.Model,
		Prompt:      input,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Stream:      true,
	}
	return c.postStream("/v1/completions", taskTextGeneration, body, cb)
}

func (c *Client) newRequest(path string, payload any) (*http.Request, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.BaseURL, "/") + path
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)
	return req, nil
}

func (c *Client) post(path, task string, payload any) (string, Usage, error) {
	req, err := c.newRequest(path, payload)
	if err != nil {
		return "", Usage{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", Usage{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", Usage{}, c.statusError(task, resp)
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", Usage{}, fmt.Errorf("failed to decode response: %w", err)
	}

	var usage Usage
	if result.Usage != nil {
		usage = *result.Usage
	}
	return result.fragment(), usage, nil
}

func (c *Client) postStream(path, task string, payload any, cb StreamCallback) (string, Usage, error) {
	req, err := c.newRequest(path, payload)
	if err != nil {
		return "", Usage{}, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", Usage{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", Usage{}, c.statusError(task, resp)
	}

	var full strings.Builder
	var usage Usage

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}

		var chunk apiResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return full.String(), usage, fmt.Errorf("failed to parse stream event: %w", err)
		}
		if chunk.Usage != nil {
			usage = *chunk.Usage
		}
		if frag := chunk.fragment(); frag != "" {
			full.WriteString(frag)
			if cb != nil {
				if err := cb(frag); err != nil {
					return full.String(), usage, err
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), usage, fmt.Errorf("error reading stream: %w", err)
	}

	return full.String(), usage, nil
}

// statusError reads the error body and maps it to a typed error.
func (c *Client) statusError(task string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return classifyStatus(c.Model, task, resp.StatusCode, errorMessage(body, resp.Status))
}

// errorMessage extracts the message from an error body, which may be either
// {"error": "..."} or {"error": {"message": "..."}}.
func errorMessage(body []byte, fallback string) string {
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}

	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Error != "" {
		return flat.Error
	}

	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return fallback
}
