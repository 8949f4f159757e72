package catalog

// ranks builds a priority table from ids listed best-first.
func ranks(ids ...string) map[string]int {
	out := make(map[string]int, len(ids))
	for i, id := range ids {
		out[BaseID(id)] = i + 1
	}
	return out
}

// Non-chat model families shared by OpenAI-compatible catalogs.
var commonExclude = Patterns(
	`embed`,
	`(^|[-/])tts`,
	`whisper`,
	`dall-e`,
	`audio`,
	`realtime`,
	`transcribe`,
	`image`,
	`moderation`,
	`(^|[-/])search`,
	`guard`,
)

var providerRules = map[string]Rules{
	"openai": {
		Include:    Patterns(`^gpt-`, `^o\d`, `^chatgpt-`),
		Exclude:    append(Patterns(`instruct`, `-vision`), commonExclude...),
		Priorities: ranks("gpt-4o-mini", "gpt-4.1-mini", "gpt-4o", "gpt-4.1", "gpt-5-mini", "gpt-5", "o4-mini", "o3-mini"),
	},
	"anthropic": {
		Include:    Patterns(`^claude-`),
		Priorities: ranks("claude-3-5-haiku", "claude-haiku-4-5", "claude-sonnet-4-5", "claude-sonnet-4", "claude-3-7-sonnet", "claude-3-5-sonnet", "claude-opus-4-1", "claude-opus-4"),
	},
	"google": {
		Include:    Patterns(`^gemini-`, `^gemma-`),
		Exclude:    append(Patterns(`-vision`, `aqa`, `-tts`, `live`), commonExclude...),
		Priorities: ranks("gemini-2.5-flash", "gemini-2.0-flash", "gemini-2.5-flash-lite", "gemini-2.5-pro", "gemini-1.5-flash", "gemini-1.5-pro"),
	},
	"openrouter": {
		Exclude: commonExclude,
		Priorities: ranks(
			"openai/gpt-4o-mini",
			"anthropic/claude-3.5-haiku",
			"google/gemini-2.5-flash",
			"meta-llama/llama-3.3-70b-instruct",
			"deepseek/deepseek-chat",
			"anthropic/claude-sonnet-4",
			"openai/gpt-4o",
		),
	},
	"cerebras": {
		Exclude:    commonExclude,
		Priorities: ranks("llama-3.3-70b", "qwen-3-32b", "llama3.1-8b", "gpt-oss-120b"),
	},
	"deepseek": {
		Priorities: ranks("deepseek-chat", "deepseek-reasoner"),
	},
	"grok": {
		Include:    Patterns(`^grok-`),
		Exclude:    append(Patterns(`-vision`), commonExclude...),
		Priorities: ranks("grok-3-mini", "grok-4", "grok-3"),
	},
	"ollama": {
		Exclude: commonExclude,
	},
}

// RulesFor returns the resolve rules for a provider id. Unknown providers get
// no filters and no ranking.
func RulesFor(providerID string) Rules {
	return providerRules[providerID]
}
