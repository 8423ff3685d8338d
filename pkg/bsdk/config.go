package bsdk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hpckit/balsamctl/pkg/balsam"
)

// Preset is a named, ready-to-use resource request. Presets replace "edit the
// script and uncomment a line" with an explicit selection.
type Preset struct {
	Queue           string   `mapstructure:"queue"`
	Account         string   `mapstructure:"account"`
	WallTimeMinutes int      `mapstructure:"walltime"`
	NodeCount       int      `mapstructure:"nodes"`
	JobMode         string   `mapstructure:"jobMode"`
	SchedFlags      []string `mapstructure:"schedFlags"`
}

// Request turns the preset into a submission request against the given
// workflow store.
func (p Preset) Request(workflowPath string) balsam.SubmissionRequest {
	return balsam.SubmissionRequest{
		WorkflowPath:        workflowPath,
		Queue:               p.Queue,
		Account:             p.Account,
		WallTimeMinutes:     p.WallTimeMinutes,
		NodeCount:           p.NodeCount,
		JobMode:             balsam.JobMode(p.JobMode),
		ExtraSchedulerFlags: p.SchedFlags,
	}
}

// TaskConfig is the optional local task executed before submission.
type TaskConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

type Config struct {
	WorkflowPath string            `mapstructure:"workflowPath"`
	Binary       string            `mapstructure:"binary"`
	EnvFile      string            `mapstructure:"envFile"`
	Env          map[string]string `mapstructure:"env"`
	Task         TaskConfig        `mapstructure:"task"`
	Presets      map[string]Preset `mapstructure:"presets"`

	v *viper.Viper // instance-specific viper
}

const (
	EnvPrefix  = "BALSAMCTL"
	ConfigRoot = ".balsamctl"

	BinaryKey = "binary"
)

// LoadConfig creates a new Config instance with its own viper
// This is the only way to load config (no global state)
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	} else {
		// Project config (TRACKED) - balsamctl.yaml in current directory
		for _, name := range []string{"balsamctl.yaml", "balsamctl.yml", ".balsamctl.yaml"} {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				if err := v.ReadInConfig(); err == nil {
					break
				}
			}
		}

		// Merge local overrides (UNTRACKED) - .balsamctl/config.yaml
		localConfigPath := filepath.Join(ConfigRoot, "config.yaml")
		if _, err := os.Stat(localConfigPath); err == nil {
			v.SetConfigFile(localConfigPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merging local config: %w", err)
			}
		}
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.v = v
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(BinaryKey, balsam.DefaultBinary)
}

// Preset looks up a named preset.
func (c *Config) Preset(name string) (Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		known := make([]string, 0, len(c.Presets))
		for k := range c.Presets {
			known = append(known, k)
		}
		return Preset{}, fmt.Errorf("unknown preset %q (configured: %s)", name, strings.Join(known, ", "))
	}
	return p, nil
}

// TaskEnv resolves the environment for spawned processes: the envFile (if
// configured) overlaid with the explicit env map. Nothing is written into
// this process's own environment.
func (c *Config) TaskEnv() (map[string]string, error) {
	env := make(map[string]string)
	if c.EnvFile != "" {
		fromFile, err := godotenv.Read(c.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", c.EnvFile, err)
		}
		for k, val := range fromFile {
			env[k] = val
		}
	}
	for k, val := range c.Env {
		env[k] = val
	}
	return env, nil
}

// GetString returns a string value from the underlying viper instance
func (c *Config) GetString(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// Viper returns the underlying viper instance
// Useful for CLI flag binding and dynamic config access
func (c *Config) Viper() *viper.Viper {
	return c.v
}

// ConfigFileUsed returns the config file that was used (if any)
func (c *Config) ConfigFileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}
