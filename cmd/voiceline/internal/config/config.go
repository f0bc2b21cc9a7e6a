// Package config loads the voiceline server configuration from YAML.
//
// Secrets may be omitted from the file and supplied through the
// environment instead: TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN,
// ASSEMBLYAI_API_KEY, OPENAI_API_KEY.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the root server configuration.
type Config struct {
	// Listen is the HTTP listen address. Default ":8080".
	Listen string `yaml:"listen"`

	// BaseURL is the public origin provider callbacks are addressed
	// under, e.g. "https://voice.example.com".
	BaseURL string `yaml:"base_url"`

	// DataDir is the BadgerDB directory. Empty with Memory unset is an
	// error at serve time.
	DataDir string `yaml:"data_dir"`

	// AgentName is spoken in call greetings.
	AgentName string `yaml:"agent_name"`

	// WorkflowSID routes captured callers into a TaskRouter workflow.
	WorkflowSID string `yaml:"workflow_sid"`

	Twilio     Twilio     `yaml:"twilio"`
	AssemblyAI AssemblyAI `yaml:"assemblyai"`
	OpenAI     OpenAI     `yaml:"openai"`
	Biometrics Biometrics `yaml:"biometrics"`
}

// Twilio holds provider credentials and numbers.
type Twilio struct {
	AccountSID   string `yaml:"account_sid"`
	AuthToken    string `yaml:"auth_token"`
	FromNumber   string `yaml:"from_number"`
	WhatsAppFrom string `yaml:"whatsapp_from"`
}

// AssemblyAI holds transcription vendor credentials.
type AssemblyAI struct {
	APIKey string `yaml:"api_key"`
}

// OpenAI holds summarization vendor credentials.
type OpenAI struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Biometrics tunes enrollment and verification.
type Biometrics struct {
	// Threshold is the default verification similarity cutoff.
	// Zero means the library default.
	Threshold float64 `yaml:"threshold"`

	// SamplesDir, when set, archives enrollment audio on local disk.
	SamplesDir string `yaml:"samples_dir"`
}

// Load reads and parses the YAML file at path. A missing path yields a
// default configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Twilio.AccountSID == "" {
		c.Twilio.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	}
	if c.Twilio.AuthToken == "" {
		c.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	}
	if c.AssemblyAI.APIKey == "" {
		c.AssemblyAI.APIKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}
