// Package azureopenai adapts Azure OpenAI chat completions to the
// llm.Provider contract. Azure routes by deployment name and authenticates
// with an api-key header, so the client is hand-rolled on net/http rather
// than an SDK.
package azureopenai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/openpaw/openpaw/internal/llm"
	"github.com/openpaw/openpaw/internal/settings"
)

const (
	defaultTimeout = 60 * time.Second
	maxTokens      = 1024
)

// Provider calls an Azure OpenAI chat-completions deployment.
type Provider struct {
	endpoint   string // https://{resource}.openai.azure.com
	deployment string
	apiVersion string
	apiKey     string
	httpClient *http.Client
}

// New builds a provider from config. A nil httpClient gets a default with
// a 60s timeout; tests pass their own.
func New(cfg settings.AzureConfig, httpClient *http.Client) *Provider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Provider{
		endpoint:   cfg.Endpoint,
		deployment: cfg.Deployment,
		apiVersion: cfg.APIVersion,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
}

func (p *Provider) Name() string { return settings.ProviderAzure }

// Wire types for the chat-completions payload. Only the fields this engine
// uses; Azure ignores unknown absences.

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded argument object, as a string
}

type wireTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Parameters  any    `json:"parameters"`
	} `json:"function"`
}

type wireRequest struct {
	Messages  []wireMessage `json:"messages"`
	Tools     []wireTool    `json:"tools,omitempty"`
	MaxTokens int           `json:"max_tokens"`
}

type wireResponse struct {
	Choices []struct {
		FinishReason string      `json:"finish_reason"`
		Message      wireMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (p *Provider) Generate(ctx context.Context, req llm.Request) (*llm.Turn, error) {
	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("azureopenai: marshal request: %w", err)
	}

	// https://{endpoint}/openai/deployments/{deployment}/chat/completions?api-version={version}
	apiURL := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		p.endpoint, url.PathEscape(p.deployment), url.QueryEscape(p.apiVersion))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("azureopenai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", p.apiKey)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &llm.UnavailableError{Provider: settings.ProviderAzure, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &llm.UnavailableError{Provider: settings.ProviderAzure, Err: err}
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &llm.UnavailableError{
			Provider: settings.ProviderAzure,
			Status:   httpResp.StatusCode,
			Err:      fmt.Errorf("azureopenai: %s", truncate(respBody, 200)),
		}
	}

	var resp wireResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &llm.MalformedError{
			Provider: settings.ProviderAzure,
			Detail:   "response is not valid JSON",
			Err:      err,
		}
	}
	if resp.Error != nil {
		return nil, &llm.UnavailableError{
			Provider: settings.ProviderAzure,
			Err:      fmt.Errorf("azureopenai: %s (%s)", resp.Error.Message, resp.Error.Type),
		}
	}
	return parseTurn(&resp)
}

func (p *Provider) buildRequest(req llm.Request) wireRequest {
	out := wireRequest{MaxTokens: maxTokens}

	if req.System != "" {
		out.Messages = append(out.Messages, wireMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleUser:
			out.Messages = append(out.Messages, wireMessage{Role: "user", Content: m.Content})
		case llm.RoleAssistant:
			wm := wireMessage{Role: "assistant", Content: m.Content}
			for _, tc := range m.ToolCalls {
				wm.ToolCalls = append(wm.ToolCalls, wireToolCall{
					ID:   tc.ID,
					Type: "function",
					Function: wireFunction{
						Name:      tc.Name,
						Arguments: string(tc.Args),
					},
				})
			}
			out.Messages = append(out.Messages, wm)
		case llm.RoleTool:
			out.Messages = append(out.Messages, wireMessage{
				Role:       "tool",
				Content:    m.Content,
				ToolCallID: m.ToolCallID,
				Name:       m.ToolName,
			})
		}
	}

	for _, s := range req.Tools {
		var wt wireTool
		wt.Type = "function"
		wt.Function.Name = s.Name
		wt.Function.Description = s.Description
		wt.Function.Parameters = map[string]any{
			"type":       "object",
			"properties": s.Properties,
			"required":   s.Required,
		}
		out.Tools = append(out.Tools, wt)
	}
	return out
}

func parseTurn(resp *wireResponse) (*llm.Turn, error) {
	if len(resp.Choices) == 0 {
		return nil, &llm.MalformedError{Provider: settings.ProviderAzure, Detail: "response has no choices"}
	}

	msg := resp.Choices[0].Message
	turn := &llm.Turn{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		if tc.Function.Name == "" {
			return nil, &llm.MalformedError{Provider: settings.ProviderAzure, Detail: "tool call without a function name"}
		}
		args := tc.Function.Arguments
		if args == "" {
			args = "{}"
		}
		if !gjson.Valid(args) {
			return nil, &llm.MalformedError{
				Provider: settings.ProviderAzure,
				Detail:   fmt.Sprintf("tool call %s has non-JSON arguments", tc.Function.Name),
			}
		}
		turn.ToolCalls = append(turn.ToolCalls, llm.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: json.RawMessage(args),
		})
	}
	if turn.Text == "" && len(turn.ToolCalls) == 0 {
		return nil, &llm.MalformedError{Provider: settings.ProviderAzure, Detail: "choice has neither content nor tool calls"}
	}
	return turn, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
