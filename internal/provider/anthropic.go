package provider

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/huimingz/commitsmith/internal/catalog"
	"github.com/huimingz/commitsmith/internal/log"
)

const (
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 1024
)

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type anthropicErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type anthropicModelList struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		Type        string `json:"type"`
	} `json:"data"`
}

// anthropicAdapter talks to the Anthropic Messages API
type anthropicAdapter struct {
	desc    Descriptor
	secrets Secrets
	client  *resty.Client
}

func newAnthropic(desc Descriptor, secrets Secrets, transport *Transport) *anthropicAdapter {
	return &anthropicAdapter{
		desc:    desc,
		secrets: secrets,
		client: resty.NewWithClient(transport.Client).
			SetBaseURL(desc.BaseURL).
			SetHeader("anthropic-version", anthropicVersion),
	}
}

func (a *anthropicAdapter) Descriptor() Descriptor {
	return a.desc
}

func (a *anthropicAdapter) apiKey(override string) (string, bool) {
	if override != "" {
		return override, true
	}
	key, ok := a.secrets.Get(a.desc.ID)
	return key, ok && key != ""
}

func (a *anthropicAdapter) CheckAvailable(ctx context.Context) bool {
	_, ok := a.apiKey("")
	return ok
}

func (a *anthropicAdapter) Invoke(ctx context.Context, req InvokeRequest) (*InvokeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key, ok := a.apiKey("")
	if !ok {
		return nil, unavailable(a.desc.ID, "no API key configured (set %s)", a.desc.SecretEnv)
	}

	modelName := req.Model
	if modelName == "" {
		modelName = a.desc.DefaultModel
	}

	callCtx, cancel := withDeadline(ctx, req.Timeout)
	defer cancel()

	var result anthropicResponse
	var errBody anthropicErrorBody

	log.DebugRequest("POST", a.desc.BaseURL+"/v1/messages")
	start := time.Now()

	resp, err := a.client.R().
		SetContext(callCtx).
		SetHeader("x-api-key", key).
		SetBody(anthropicRequest{
			Model:     modelName,
			MaxTokens: anthropicMaxTokens,
			System:    req.System,
			Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
		}).
		SetResult(&result).
		SetError(&errBody).
		Post("/v1/messages")
	if err != nil {
		return nil, classifyFailure(ctx, callCtx, a.desc.ID, err)
	}

	elapsed := time.Since(start)
	log.DebugResponse(resp.StatusCode(), elapsed)

	if resp.IsError() {
		message := errBody.Error.Message
		if message == "" {
			message = resp.String()
		}
		return nil, upstreamError(a.desc.ID, resp.StatusCode(), message)
	}

	var text strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &InvokeResult{Text: text.String(), Elapsed: elapsed}, nil
}

func (a *anthropicAdapter) FetchModels(ctx context.Context, apiKey string) ([]catalog.Model, error) {
	key, ok := a.apiKey(apiKey)
	if !ok {
		return nil, unavailable(a.desc.ID, "no API key configured (set %s)", a.desc.SecretEnv)
	}

	var list anthropicModelList
	var errBody anthropicErrorBody

	log.DebugRequest("GET", a.desc.BaseURL+"/v1/models")
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", key).
		SetQueryParam("limit", "1000").
		SetResult(&list).
		SetError(&errBody).
		Get("/v1/models")
	if err != nil {
		return nil, classifyFailure(ctx, ctx, a.desc.ID, err)
	}
	if resp.IsError() {
		message := errBody.Error.Message
		if message == "" {
			message = resp.String()
		}
		return nil, upstreamError(a.desc.ID, resp.StatusCode(), message)
	}

	entries := make([]catalog.Entry, 0, len(list.Data))
	for _, m := range list.Data {
		entries = append(entries, catalog.Entry{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			Chat:        m.Type == "" || m.Type == "model",
		})
	}
	return catalog.Resolve(entries, catalog.RulesFor(a.desc.ID)), nil
}
