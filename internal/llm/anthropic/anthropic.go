// Package anthropic adapts the Anthropic Messages API to the llm.Provider
// contract.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/openpaw/openpaw/internal/llm"
	"github.com/openpaw/openpaw/internal/settings"
)

const maxTokens = 1024

// Provider calls the Anthropic Messages API.
type Provider struct {
	client sdk.Client
	model  string
}

// New builds a provider from config. Extra request options are applied
// after the API key, which lets tests inject an http.Client.
func New(cfg settings.AnthropicConfig, opts ...option.RequestOption) *Provider {
	all := append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &Provider{
		client: sdk.NewClient(all...),
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string { return settings.ProviderAnthropic }

func (p *Provider) Generate(ctx context.Context, req llm.Request) (*llm.Turn, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(p.model),
		MaxTokens: maxTokens,
		Messages:  toMessageParams(req.Messages),
		Tools:     toToolParams(req.Tools),
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}
	return parseTurn(msg)
}

func toMessageParams(msgs []llm.Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case llm.RoleUser:
			out = append(out, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		case llm.RoleAssistant:
			if len(m.ToolCalls) == 0 {
				out = append(out, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
				continue
			}
			blocks := make([]sdk.ContentBlockParamUnion, 0, len(m.ToolCalls)+1)
			if m.Content != "" {
				blocks = append(blocks, sdk.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, sdk.ContentBlockParamUnion{OfToolUse: &sdk.ToolUseBlockParam{
					ID:    tc.ID,
					Name:  tc.Name,
					Input: json.RawMessage(tc.Args),
				}})
			}
			out = append(out, sdk.MessageParam{Role: sdk.MessageParamRoleAssistant, Content: blocks})
		case llm.RoleTool:
			// Anthropic expects tool results as user-role content blocks.
			out = append(out, sdk.NewUserMessage(sdk.NewToolResultBlock(m.ToolCallID, m.Content, false)))
		}
	}
	return out
}

func toToolParams(specs []llm.ToolSpec) []sdk.ToolUnionParam {
	out := make([]sdk.ToolUnionParam, 0, len(specs))
	for _, s := range specs {
		out = append(out, sdk.ToolUnionParam{OfTool: &sdk.ToolParam{
			Name:        s.Name,
			Description: sdk.String(s.Description),
			InputSchema: sdk.ToolInputSchemaParam{
				Properties: s.Properties,
				Required:   s.Required,
			},
		}})
	}
	return out
}

func parseTurn(msg *sdk.Message) (*llm.Turn, error) {
	turn := &llm.Turn{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case sdk.TextBlock:
			if turn.Text != "" {
				turn.Text += "\n"
			}
			turn.Text += v.Text
		case sdk.ToolUseBlock:
			turn.ToolCalls = append(turn.ToolCalls, llm.ToolCall{
				ID:   v.ID,
				Name: v.Name,
				Args: json.RawMessage(v.JSON.Input.Raw()),
			})
		}
	}
	if turn.Text == "" && len(turn.ToolCalls) == 0 {
		return nil, &llm.MalformedError{
			Provider: settings.ProviderAnthropic,
			Detail:   fmt.Sprintf("no usable content blocks (stop_reason=%s)", msg.StopReason),
		}
	}
	return turn, nil
}

// mapError classifies SDK errors. API and transport failures alike mean the
// backend could not serve us, so everything lands on UnavailableError; the
// router may then try the next provider.
func mapError(err error) error {
	var apierr *sdk.Error
	if errors.As(err, &apierr) {
		return &llm.UnavailableError{
			Provider: settings.ProviderAnthropic,
			Status:   apierr.StatusCode,
			Err:      err,
		}
	}
	return &llm.UnavailableError{Provider: settings.ProviderAnthropic, Err: err}
}
