package provider

import (
	"context"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/huimingz/commitsmith/internal/catalog"
	"github.com/huimingz/commitsmith/internal/log"
)

// keylessPlaceholder is sent to OpenAI-compatible servers that ignore auth
const keylessPlaceholder = "unused"

// listFunc fetches the raw catalog of a provider
type listFunc func(ctx context.Context, apiKey string) ([]catalog.Entry, error)

// openAICompatAdapter serves every backend speaking the OpenAI chat
// completions protocol.
type openAICompatAdapter struct {
	desc      Descriptor
	secrets   Secrets
	transport *Transport
	list      listFunc
}

func newOpenAICompat(desc Descriptor, secrets Secrets, transport *Transport) *openAICompatAdapter {
	a := &openAICompatAdapter{
		desc:      desc,
		secrets:   secrets,
		transport: transport,
	}
	a.list = a.listOpenAIModels
	return a
}

func newOpenRouter(desc Descriptor, secrets Secrets, transport *Transport) *openAICompatAdapter {
	a := newOpenAICompat(desc, secrets, transport)
	a.list = openRouterLister(desc, transport)
	return a
}

func (a *openAICompatAdapter) Descriptor() Descriptor {
	return a.desc
}

func (a *openAICompatAdapter) apiKey(override string) (string, bool) {
	if override != "" {
		return override, true
	}
	if key, ok := a.secrets.Get(a.desc.ID); ok && key != "" {
		return key, true
	}
	if !a.desc.RequiresSecret() {
		return keylessPlaceholder, true
	}
	return "", false
}

func (a *openAICompatAdapter) CheckAvailable(ctx context.Context) bool {
	_, ok := a.apiKey("")
	return ok
}

func (a *openAICompatAdapter) Invoke(ctx context.Context, req InvokeRequest) (*InvokeResult, error) {
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

	chat, err := openai.NewChatModel(callCtx, &openai.ChatModelConfig{
		APIKey:     key,
		BaseURL:    a.desc.BaseURL,
		Model:      modelName,
		HTTPClient: a.transport.Client,
	})
	if err != nil {
		return nil, classifyFailure(ctx, callCtx, a.desc.ID, err)
	}

	log.DebugRequest("POST", a.desc.BaseURL+"/chat/completions")
	return generate(ctx, callCtx, a.desc.ID, chat, req)
}

func (a *openAICompatAdapter) FetchModels(ctx context.Context, apiKey string) ([]catalog.Model, error) {
	key, ok := a.apiKey(apiKey)
	if !ok {
		return nil, unavailable(a.desc.ID, "no API key configured (set %s)", a.desc.SecretEnv)
	}

	entries, err := a.list(ctx, key)
	if err != nil {
		return nil, classifyFailure(ctx, ctx, a.desc.ID, err)
	}
	return catalog.Resolve(entries, catalog.RulesFor(a.desc.ID)), nil
}

func (a *openAICompatAdapter) listOpenAIModels(ctx context.Context, apiKey string) ([]catalog.Entry, error) {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = a.desc.BaseURL
	cfg.HTTPClient = a.transport.Client

	log.DebugRequest("GET", a.desc.BaseURL+"/models")
	list, err := goopenai.NewClientWithConfig(cfg).ListModels(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]catalog.Entry, 0, len(list.Models))
	for _, m := range list.Models {
		entries = append(entries, catalog.Entry{
			ID:   m.ID,
			Chat: m.Object == "" || m.Object == "model",
		})
	}
	return entries, nil
}

// chatMessages converts a request into the system/user message pair
func chatMessages(req InvokeRequest) []*schema.Message {
	messages := make([]*schema.Message, 0, 2)
	if req.System != "" {
		messages = append(messages, schema.SystemMessage(req.System))
	}
	return append(messages, schema.UserMessage(req.Prompt))
}

// generate runs one non-streaming completion on an eino chat model
func generate(parent, call context.Context, providerID string, chat model.BaseChatModel, req InvokeRequest) (*InvokeResult, error) {
	start := time.Now()

	msg, err := chat.Generate(call, chatMessages(req))
	if err != nil {
		return nil, classifyFailure(parent, call, providerID, err)
	}

	elapsed := time.Since(start)
	log.DebugDuration(providerID+" invoke", elapsed)

	return &InvokeResult{Text: msg.Content, Elapsed: elapsed}, nil
}
