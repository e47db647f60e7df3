// Package analysis asks a language model to explain the difference between
// two SQL queries.
//
// The client speaks the OpenAI chat completions protocol, so any compatible
// endpoint works. A missing credential fails only the request that needed
// it; the rest of the application keeps running without analysis.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/singleflight"
)

// MaxTips is the number of optimization tips kept from a response.
const MaxTips = 3

var (
	// ErrMissingInput is returned when either query is empty.
	ErrMissingInput = errors.New("both original and modified SQL are required for analysis")
	// ErrMissingCredential is returned when no API key is configured.
	ErrMissingCredential = errors.New("API key not found")
	// ErrEmptyResponse is returned when the model answers with no content.
	ErrEmptyResponse = errors.New("failed to generate analysis")
)

// Result is the model's structured explanation of a change.
type Result struct {
	Summary          string   `json:"summary"`
	Impact           string   `json:"impact"`
	OptimizationTips []string `json:"optimizationTips"`
}

// Analyzer explains the change from original to modified.
type Analyzer interface {
	Analyze(ctx context.Context, original, modified string) (*Result, error)
}

// Options configures a Client.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client is an Analyzer backed by a chat completions endpoint.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
	group   singleflight.Group
}

// NewClient creates a client. It never fails: without an API key every
// call returns ErrMissingCredential.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Client{
		model:   opts.Model,
		timeout: opts.Timeout,
		logger:  logger,
	}
	if opts.APIKey == "" {
		return c
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	api := openai.NewClient(reqOpts...)
	c.api = &api
	return c
}

// HasInput reports whether both queries have non-blank text.
func HasInput(original, modified string) bool {
	return strings.TrimSpace(original) != "" && strings.TrimSpace(modified) != ""
}

// Analyze sends both queries to the model. Identical concurrent calls share
// one request. Cancelling ctx abandons the wait but not a request that
// another caller is still waiting on.
func (c *Client) Analyze(ctx context.Context, original, modified string) (*Result, error) {
	if !HasInput(original, modified) {
		return nil, ErrMissingInput
	}
	if c.api == nil {
		return nil, ErrMissingCredential
	}

	key := fmt.Sprintf("%d:%s%s", len(original), original, modified)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		reqCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(reqCtx, c.timeout)
			defer cancel()
		}
		return c.complete(reqCtx, original, modified)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("analysis shared with a concurrent caller")
		}
		r := *res.Val.(*Result)
		r.OptimizationTips = append([]string(nil), r.OptimizationTips...)
		return &r, nil
	}
}

func (c *Client) complete(ctx context.Context, original, modified string) (*Result, error) {
	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(Prompt(original, modified)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			c.logger.Warn("analysis request rejected", "status", apiErr.StatusCode, "model", c.model)
		}
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	c.logger.Debug("analysis complete", "model", c.model, "duration", time.Since(start))

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return Decode(resp.Choices[0].Message.Content)
}

// Decode parses a model answer into a Result. Markdown code fences around
// the JSON are tolerated and tips beyond MaxTips are dropped.
func Decode(content string) (*Result, error) {
	content = stripFences(content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	var r Result
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	if r.Summary == "" && r.Impact == "" && len(r.OptimizationTips) == 0 {
		return nil, ErrEmptyResponse
	}
	if len(r.OptimizationTips) > MaxTips {
		r.OptimizationTips = r.OptimizationTips[:MaxTips]
	}
	return &r, nil
}

// stripFences removes a surrounding ```json ... ``` block.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
