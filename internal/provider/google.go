package provider

import (
	"context"
	"slices"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/huimingz/commitsmith/internal/catalog"
	"github.com/huimingz/commitsmith/internal/log"
)

// googleAdapter talks to Google AI Studio through the genai SDK
type googleAdapter struct {
	desc      Descriptor
	secrets   Secrets
	transport *Transport
}

func newGoogle(desc Descriptor, secrets Secrets, transport *Transport) *googleAdapter {
	return &googleAdapter{desc: desc, secrets: secrets, transport: transport}
}

func (a *googleAdapter) Descriptor() Descriptor {
	return a.desc
}

func (a *googleAdapter) apiKey(override string) (string, bool) {
	if override != "" {
		return override, true
	}
	key, ok := a.secrets.Get(a.desc.ID)
	return key, ok && key != ""
}

func (a *googleAdapter) CheckAvailable(ctx context.Context) bool {
	_, ok := a.apiKey("")
	return ok
}

func (a *googleAdapter) newClient(ctx context.Context, key string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      key,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  a.transport.Client,
		HTTPOptions: genai.HTTPOptions{BaseURL: a.desc.BaseURL},
	})
}

func (a *googleAdapter) Invoke(ctx context.Context, req InvokeRequest) (*InvokeResult, error) {
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

	client, err := a.newClient(callCtx, key)
	if err != nil {
		return nil, classifyFailure(ctx, callCtx, a.desc.ID, err)
	}

	chat, err := gemini.NewChatModel(callCtx, &gemini.Config{
		Client: client,
		Model:  modelName,
	})
	if err != nil {
		return nil, classifyFailure(ctx, callCtx, a.desc.ID, err)
	}

	log.DebugRequest("POST", a.desc.BaseURL+"models/"+modelName+":generateContent")
	return generate(ctx, callCtx, a.desc.ID, chat, req)
}

func (a *googleAdapter) FetchModels(ctx context.Context, apiKey string) ([]catalog.Model, error) {
	key, ok := a.apiKey(apiKey)
	if !ok {
		return nil, unavailable(a.desc.ID, "no API key configured (set %s)", a.desc.SecretEnv)
	}

	client, err := a.newClient(ctx, key)
	if err != nil {
		return nil, classifyFailure(ctx, ctx, a.desc.ID, err)
	}

	log.DebugRequest("GET", a.desc.BaseURL+"models")
	var entries []catalog.Entry
	for m, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, classifyFailure(ctx, ctx, a.desc.ID, err)
		}
		entries = append(entries, catalog.Entry{
			ID:          m.Name,
			DisplayName: m.DisplayName,
			Chat:        slices.Contains(m.SupportedActions, "generateContent"),
		})
	}
	return catalog.Resolve(entries, catalog.RulesFor(a.desc.ID)), nil
}
