package instrument

import (
	"context"
	"time"

	"github.com/authe-me/authe-go/action"
	"github.com/authe-me/authe-go/client"
)

// ChatClient is the shape of an LLM chat-completion client the wrapper can
// observe. Adapters for concrete SDKs only need to satisfy this one method.
type ChatClient interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// Message is one conversation turn.
type Message struct {
	Role    string
	Content string
}

// ToolDefinition describes a tool offered to the model.
type ToolDefinition struct {
	Name        string
	Description string
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Usage carries token accounting from the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// ChatRequest contains the parameters of a chat-completion call.
type ChatRequest struct {
	Model    string
	Messages []Message
	Tools    []ToolDefinition
}

// ChatResponse contains the result of a chat-completion call.
type ChatResponse struct {
	Model     string
	Content   string
	ToolCalls []ToolCall
	Usage     Usage
}

// chatClient wraps a ChatClient and records every completion as an llm_call,
// plus one tool_call action per tool the model invoked.
type chatClient struct {
	base    ChatClient
	tracker Tracker
}

// WrapChat returns a ChatClient that records completions against t. The
// wrapped client's response and error are passed through unchanged.
func WrapChat(t Tracker, base ChatClient) ChatClient {
	return &chatClient{base: base, tracker: t}
}

func (c *chatClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	start := time.Now()
	resp, err := c.base.Chat(ctx, req)
	duration := time.Since(start)

	model := req.Model
	var usage Usage
	if resp != nil {
		usage = resp.Usage
		if resp.Model != "" {
			model = resp.Model
		}
	}

	opts := client.TrackOptions{
		Tool: "llm.chat.completions",
		Type: action.TypeLLMCall,
		Input: map[string]any{
			"model":          model,
			"messages_count": len(req.Messages),
			"tools_count":    len(req.Tools),
			"has_tools":      len(req.Tools) > 0,
			"input_tokens":   usage.PromptTokens,
		},
		Duration: duration,
	}

	output := map[string]any{"output_tokens": usage.CompletionTokens}
	if cost, ok := EstimateCost(model, usage.PromptTokens, usage.CompletionTokens); ok {
		output["cost_usd"] = cost
	}

	if err != nil {
		opts.Status = action.StatusError
		output["error"] = action.Truncate(err.Error(), 500)
	} else if resp != nil {
		if resp.Content != "" {
			output["content"] = action.Truncate(resp.Content, 500)
		}
		if len(resp.ToolCalls) > 0 {
			calls := make([]any, 0, len(resp.ToolCalls))
			for _, tc := range resp.ToolCalls {
				calls = append(calls, map[string]any{
					"id":        tc.ID,
					"function":  tc.Name,
					"arguments": action.Truncate(tc.Arguments, 500),
				})
			}
			output["tool_calls"] = calls
		}
	}
	opts.Output = output
	c.tracker.Track(opts)

	// Each requested tool call is also surfaced as its own action so the
	// collection side sees tool usage without parsing llm_call payloads.
	if err == nil && resp != nil {
		for _, tc := range resp.ToolCalls {
			c.tracker.Track(client.TrackOptions{
				Tool:  tc.Name,
				Type:  action.TypeToolCall,
				Input: map[string]any{"arguments": action.Truncate(tc.Arguments, 500)},
			})
		}
	}

	return resp, err
}
