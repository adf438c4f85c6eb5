// Package config loads the application configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// GeminiConfig contains connection details for the Gemini API.
type GeminiConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

// OllamaConfig contains connection details for a local Ollama instance.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// LLMConfig selects and configures the generation backend.
type LLMConfig struct {
	Type   string        `yaml:"type"`
	Gemini *GeminiConfig `yaml:"gemini,omitempty"`
	Ollama *OllamaConfig `yaml:"ollama,omitempty"`
}

// EmbeddingConfig selects and configures the query embedder.
type EmbeddingConfig struct {
	Type   string        `yaml:"type"`
	Gemini *GeminiConfig `yaml:"gemini,omitempty"`
	Ollama *OllamaConfig `yaml:"ollama,omitempty"`
}

// IndexConfig locates the persisted vector index.
type IndexConfig struct {
	PersistDir string `yaml:"persist_dir"`
	Watch      bool   `yaml:"watch"`
}

// ChatConfig configures the conversation session.
type ChatConfig struct {
	Persona     string `yaml:"persona"`
	TopK        int    `yaml:"top_k"`
	TokenLimit  int    `yaml:"token_limit"`
	HistorySize int    `yaml:"history_size"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Chat      ChatConfig      `yaml:"chat"`
}

// DefaultPersona is the fixed persona instruction supplied out-of-band on
// every generation call. It is never stored in the conversation buffer, so
// it can neither be evicted by the token budget nor altered by conversation
// content.
const DefaultPersona = `You are RORI, the virtual shopping assistant for the Rorishop store.

Your job:
- Explain and advise on products, categories, sizing, materials, pricing,
  promotions, and the shop's shipping and return policies.
- Keep answers friendly, short, and easy to understand.
- When answering product or policy questions, prefer the information
  retrieved from the shop documents provided to you.
- If the documents do not contain the needed information, say clearly that
  you are not sure and suggest the customer contact Rorishop staff.
- Never invent prices, stock levels, or promotions.

You are a virtual assistant for the Rorishop store, not a human.`

// Load reads a config from the given path. If the file does not exist,
// returns defaults. Environment overrides are applied last.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Server:    ServerConfig{Addr: ":8000"},
		LLM:       LLMConfig{Type: "gemini"},
		Embedding: EmbeddingConfig{Type: "gemini"},
		Index:     IndexConfig{PersistDir: "./db", Watch: true},
		Chat: ChatConfig{
			Persona:     DefaultPersona,
			TopK:        5,
			TokenLimit:  1024,
			HistorySize: 8,
			TimeoutSecs: 60,
		},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.LLM.Type == "" {
		cfg.LLM.Type = "gemini"
	}
	if cfg.LLM.Type == "gemini" {
		if cfg.LLM.Gemini == nil {
			cfg.LLM.Gemini = &GeminiConfig{}
		}
		if cfg.LLM.Gemini.Model == "" {
			cfg.LLM.Gemini.Model = "models/gemini-2.5-flash"
		}
		if cfg.LLM.Gemini.APIKeyEnv == "" {
			cfg.LLM.Gemini.APIKeyEnv = "GOOGLE_API_KEY"
		}
	}
	if cfg.Embedding.Type == "" {
		cfg.Embedding.Type = "gemini"
	}
	if cfg.Embedding.Type == "gemini" {
		if cfg.Embedding.Gemini == nil {
			cfg.Embedding.Gemini = &GeminiConfig{}
		}
		if cfg.Embedding.Gemini.Model == "" {
			cfg.Embedding.Gemini.Model = "models/text-embedding-004"
		}
		if cfg.Embedding.Gemini.APIKeyEnv == "" {
			cfg.Embedding.Gemini.APIKeyEnv = "GOOGLE_API_KEY"
		}
	}
	if cfg.Index.PersistDir == "" {
		cfg.Index.PersistDir = "./db"
	}
	if cfg.Chat.Persona == "" {
		cfg.Chat.Persona = DefaultPersona
	}
	if cfg.Chat.TopK == 0 {
		cfg.Chat.TopK = 5
	}
	if cfg.Chat.TokenLimit == 0 {
		cfg.Chat.TokenLimit = 1024
	}
	if cfg.Chat.HistorySize == 0 {
		cfg.Chat.HistorySize = 8
	}
	if cfg.Chat.TimeoutSecs == 0 {
		cfg.Chat.TimeoutSecs = 60
	}
}

// applyEnvOverrides lets deployment environments override the YAML file
// without editing it, matching the container-era convention the service
// has always shipped with.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PERSIST_DIR"); v != "" {
		cfg.Index.PersistDir = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" && cfg.LLM.Gemini != nil {
		cfg.LLM.Gemini.Model = v
	}
	if v := os.Getenv("EMBED_MODEL"); v != "" && cfg.Embedding.Gemini != nil {
		cfg.Embedding.Gemini.Model = v
	}
}
