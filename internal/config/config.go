package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Output defaults for `atlas build`
	GroupBy    string `mapstructure:"group_by" yaml:"group_by"`
	EdgeLabels bool   `mapstructure:"edge_labels" yaml:"edge_labels"`
	Format     string `mapstructure:"format" yaml:"format"`
	Title      string `mapstructure:"title" yaml:"title"`

	// Renderer
	RendererURL                    string  `mapstructure:"renderer_url" yaml:"renderer_url"`
	PhysicsGravitationalConstant   float64 `mapstructure:"physics_gravitational_constant" yaml:"physics_gravitational_constant"`
	PhysicsSpringLength            float64 `mapstructure:"physics_spring_length" yaml:"physics_spring_length"`
	PhysicsSpringConstant          float64 `mapstructure:"physics_spring_constant" yaml:"physics_spring_constant"`
	PhysicsStabilizationIterations int     `mapstructure:"physics_stabilization_iterations" yaml:"physics_stabilization_iterations"`

	// Dataset fetch
	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Ambient
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

// DefaultRendererURL is the vis-network standalone bundle.
const DefaultRendererURL = "https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"

// configPath resolves the config file, defaulting to ~/.atlas/config.yaml.
func configPath(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".atlas", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.atlas/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := configPath(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

var defaults = map[string]any{
	"group_by":                         "Partner Org",
	"edge_labels":                      false,
	"format":                           "html",
	"title":                            "Artasia Atlas",
	"renderer_url":                     DefaultRendererURL,
	"physics_gravitational_constant":   -30.0,
	"physics_spring_length":            80.0,
	"physics_spring_constant":          0.08,
	"physics_stabilization_iterations": 150,
	"http_timeout_sec":                 30,
	"log_level":                        "info",
	"metrics_file":                     "",
}

func setDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Defaults returns the built-in configuration, ignoring files and env.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command-line flags are applied
// on top by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ATLAS")
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".atlas"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
