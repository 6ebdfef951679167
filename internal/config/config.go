package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds process-level settings loaded from magent.yml.
type Config struct {
	Coordinator CoordinatorConfig `yaml:"coordinator,omitempty"`
	Agents      AgentsConfig      `yaml:"agents,omitempty"`
	Log         LogConfig         `yaml:"log,omitempty"`
	MCP         MCPConfig         `yaml:"mcp,omitempty"`
}

// CoordinatorConfig configures the coordinator process.
type CoordinatorConfig struct {
	Name            string   `yaml:"name,omitempty"`
	Host            string   `yaml:"host,omitempty"`
	Port            int      `yaml:"port,omitempty"`
	DelegateTimeout string   `yaml:"delegateTimeout,omitempty"`
	SeedAgents      []string `yaml:"seedAgents,omitempty"`
}

// AgentsConfig configures locally spawned specialized agents.
type AgentsConfig struct {
	Host     string `yaml:"host,omitempty"`
	BasePort int    `yaml:"basePort,omitempty"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// MCPConfig configures the MCP tool server.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Addr    string `yaml:"addr,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Coordinator: CoordinatorConfig{
			Name:            "CoordinatorAgent",
			Host:            "127.0.0.1",
			Port:            8000,
			DelegateTimeout: "10s",
		},
		Agents: AgentsConfig{
			Host:     "127.0.0.1",
			BasePort: 8081,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		MCP: MCPConfig{
			Addr: "127.0.0.1:8090",
		},
	}
}

// Load attempts to read magent.yml or magent.yaml from the given directory.
// Returns the default config (not an error) if no config file exists.
func Load(dir string) (*Config, error) {
	cfg := Default()
	for _, name := range []string{"magent.yml", "magent.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, nil
}

// DelegateTimeout parses the coordinator delegate timeout, falling back to
// 10 seconds when unset or unparseable.
func (c *Config) DelegateTimeout() time.Duration {
	d, err := time.ParseDuration(c.Coordinator.DelegateTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
