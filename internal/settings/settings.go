// Package settings holds the user-editable configuration: which model
// provider is active, per-provider credentials, persona fields, and the
// engine's operating limits.
//
// The router and engine never cache a Snapshot across turns; they call
// Store.Snapshot() each time so settings changes take effect immediately,
// mirroring how the phone app re-reads its preference store on every call.
package settings

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Canonical provider IDs.
const (
	ProviderAnthropic = "anthropic"
	ProviderAzure     = "azure"
	ProviderLocal     = "local"
)

// FallbackOrder is the fixed priority the router walks when the preferred
// provider is unavailable.
var FallbackOrder = []string{ProviderAnthropic, ProviderAzure, ProviderLocal}

// AnthropicConfig configures the Anthropic backend.
type AnthropicConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Disabled bool   `yaml:"disabled"`
}

// AzureConfig configures the Azure OpenAI backend.
type AzureConfig struct {
	Endpoint   string `yaml:"endpoint"`    // https://{resource}.openai.azure.com
	Deployment string `yaml:"deployment"`  // deployment name, not model name
	APIKey     string `yaml:"api_key"`
	APIVersion string `yaml:"api_version"`
	Disabled   bool   `yaml:"disabled"`
}

// LocalConfig configures the on-device fallback backend.
type LocalConfig struct {
	Disabled bool `yaml:"disabled"`
}

// Persona configures how the assistant presents itself in the system prompt.
type Persona struct {
	AgentName   string `yaml:"agent_name"`
	AgentEmoji  string `yaml:"agent_emoji"`
	Personality string `yaml:"personality"` // friendly | professional | witty | direct
	UserName    string `yaml:"user_name"`
	UserBio     string `yaml:"user_bio"`
}

// Snapshot is one immutable view of the configuration.
type Snapshot struct {
	PreferredProvider string          `yaml:"preferred_provider"`
	Anthropic         AnthropicConfig `yaml:"anthropic"`
	Azure             AzureConfig     `yaml:"azure"`
	Local             LocalConfig     `yaml:"local"`
	Persona           Persona         `yaml:"persona"`

	// Engine limits.
	HistoryLimit int `yaml:"history_limit"` // messages loaded per turn
	MaxSteps     int `yaml:"max_steps"`     // reasoning-step ceiling per turn
	TokenBudget  int `yaml:"token_budget"`  // input token budget for windowing

	// Paths and endpoints.
	DataDir    string `yaml:"data_dir"`    // conversation DB + events
	FilesRoot  string `yaml:"files_root"`  // file_manager sandbox root
	BridgeAddr string `yaml:"bridge_addr"` // device bridge base URL
}

// Default returns the baseline configuration applied under a missing or
// partial settings file.
func Default() Snapshot {
	return Snapshot{
		PreferredProvider: ProviderAnthropic,
		Anthropic:         AnthropicConfig{Model: "claude-haiku-4-5-20251001"},
		Azure:             AzureConfig{APIVersion: "2024-10-21"},
		Persona: Persona{
			AgentName:   "OpenPaw",
			AgentEmoji:  "🐾",
			Personality: "friendly",
		},
		HistoryLimit: 40,
		MaxSteps:     10,
		TokenBudget:  24000,
		DataDir:      ".openpaw",
		BridgeAddr:   "http://127.0.0.1:8647",
	}
}

// Load reads the YAML settings file at path, layers it over Default, then
// applies environment overrides. A missing file is not an error: defaults
// plus environment apply.
func Load(path string) (Snapshot, error) {
	snap := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Snapshot{}, fmt.Errorf("read settings %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &snap); err != nil {
				return Snapshot{}, fmt.Errorf("parse settings %s: %w", path, err)
			}
		}
	}

	applyEnv(&snap)
	if err := validate(&snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func applyEnv(s *Snapshot) {
	if v := os.Getenv("OPENPAW_PROVIDER"); v != "" {
		s.PreferredProvider = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		s.Anthropic.APIKey = v
	}
	if v := os.Getenv("OPENPAW_AZURE_ENDPOINT"); v != "" {
		s.Azure.Endpoint = v
	}
	if v := os.Getenv("OPENPAW_AZURE_DEPLOYMENT"); v != "" {
		s.Azure.Deployment = v
	}
	if v := os.Getenv("OPENPAW_AZURE_API_KEY"); v != "" {
		s.Azure.APIKey = v
	}
	if v := os.Getenv("OPENPAW_BRIDGE_ADDR"); v != "" {
		s.BridgeAddr = v
	}
	if v := os.Getenv("OPENPAW_FILES_ROOT"); v != "" {
		s.FilesRoot = v
	}
}

func validate(s *Snapshot) error {
	switch s.PreferredProvider {
	case ProviderAnthropic, ProviderAzure, ProviderLocal:
	default:
		return fmt.Errorf("settings: unknown provider %q", s.PreferredProvider)
	}
	if s.HistoryLimit <= 0 {
		s.HistoryLimit = Default().HistoryLimit
	}
	if s.MaxSteps <= 0 {
		s.MaxSteps = Default().MaxSteps
	}
	if s.TokenBudget <= 0 {
		s.TokenBudget = Default().TokenBudget
	}
	if s.DataDir == "" {
		s.DataDir = Default().DataDir
	}
	return nil
}

// Disabled reports whether the named provider is switched off in s.
func (s Snapshot) Disabled(provider string) bool {
	switch provider {
	case ProviderAnthropic:
		return s.Anthropic.Disabled
	case ProviderAzure:
		return s.Azure.Disabled
	case ProviderLocal:
		return s.Local.Disabled
	}
	return true
}

// Store publishes the current Snapshot to concurrent readers. Reads never
// block writers and vice versa.
type Store struct {
	path string
	cur  atomic.Pointer[Snapshot]
}

// NewStore wraps a fixed Snapshot; Reload is a no-op without a file path.
func NewStore(snap Snapshot) *Store {
	st := &Store{}
	st.cur.Store(&snap)
	return st
}

// Open loads the settings file at path and returns a Store bound to it.
func Open(path string) (*Store, error) {
	snap, err := Load(path)
	if err != nil {
		return nil, err
	}
	st := &Store{path: path}
	st.cur.Store(&snap)
	return st, nil
}

// Snapshot returns the current configuration view.
func (st *Store) Snapshot() Snapshot {
	return *st.cur.Load()
}

// Reload re-reads the settings file, replacing the published Snapshot.
func (st *Store) Reload() error {
	if st.path == "" {
		return nil
	}
	snap, err := Load(st.path)
	if err != nil {
		return err
	}
	st.cur.Store(&snap)
	return nil
}

// Update applies fn to a copy of the current Snapshot and publishes it.
// This is the settings collaborator's mutation path; the orchestration core
// only ever reads.
func (st *Store) Update(fn func(*Snapshot)) {
	snap := st.Snapshot()
	fn(&snap)
	st.cur.Store(&snap)
}
