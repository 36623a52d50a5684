package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contactbook/internal/contacts"
	"contactbook/internal/script"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	BackendOsascript = "osascript"
	BackendRelay     = "relay"

	DefaultRelayTimeout = 30 * time.Second
	EnvPrefix           = "CONTACTBOOK"
	dirName             = "contactbook"
)

// RelayConfig points the relay backend at a remote script executor.
type RelayConfig struct {
	URL      string
	Token    string
	RetryMax int
	Timeout  time.Duration
}

// RunnerConfig selects and configures the script backend.
type RunnerConfig struct {
	Backend       string
	OsascriptPath string
	OsascriptFlag string
	Relay         RelayConfig
}

// Config holds runtime configuration values.
type Config struct {
	Runner       RunnerConfig
	DefaultLimit int
	Verbose      bool
	JSON         bool
	OutputFormat string
	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string
}

type rawRelay struct {
	URL      string `mapstructure:"url"`
	Token    string `mapstructure:"token"`
	RetryMax int    `mapstructure:"retry_max"`
	Timeout  string `mapstructure:"timeout"`
}

type rawRunner struct {
	Backend       string   `mapstructure:"backend"`
	OsascriptPath string   `mapstructure:"osascript_path"`
	OsascriptFlag string   `mapstructure:"osascript_flag"`
	Relay         rawRelay `mapstructure:"relay"`
}

type rawContacts struct {
	DefaultLimit int `mapstructure:"default_limit"`
}

type rawConfig struct {
	Runner       rawRunner   `mapstructure:"runner"`
	Contacts     rawContacts `mapstructure:"contacts"`
	Verbose      bool        `mapstructure:"verbose"`
	JSON         bool        `mapstructure:"json"`
	OutputFormat string      `mapstructure:"output_format"`
}

// Load resolves configuration from defaults, config files, env, and flags.
func Load(cmd *cobra.Command) (Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = ""
	}
	return load(cmd, configDir)
}

func load(cmd *cobra.Command, configDir string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("runner.backend", BackendOsascript)
	v.SetDefault("runner.osascript_path", script.DefaultOsascriptPath)
	v.SetDefault("runner.osascript_flag", script.DefaultOsascriptFlag)
	v.SetDefault("runner.relay.url", "")
	v.SetDefault("runner.relay.token", "")
	v.SetDefault("runner.relay.retry_max", 0)
	v.SetDefault("runner.relay.timeout", DefaultRelayTimeout.String())
	v.SetDefault("contacts.default_limit", contacts.DefaultListLimit)
	v.SetDefault("verbose", false)
	v.SetDefault("json", false)
	v.SetDefault("output_format", "text")

	if cmd != nil {
		if flag := cmd.Flags().Lookup("verbose"); flag != nil {
			_ = v.BindPFlag("verbose", flag)
		}
		if flag := cmd.Flags().Lookup("json"); flag != nil {
			_ = v.BindPFlag("json", flag)
		}
		if flag := cmd.Flags().Lookup("backend"); flag != nil {
			_ = v.BindPFlag("runner.backend", flag)
		}
	}

	file, err := loadConfigFile(v, configDir)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	decoder, _ := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: &raw, WeaklyTypedInput: true})
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return Config{}, err
	}

	timeout := DefaultRelayTimeout
	if raw.Runner.Relay.Timeout != "" {
		parsed, err := time.ParseDuration(raw.Runner.Relay.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid runner.relay.timeout duration: %w", err)
		}
		timeout = parsed
	}

	backend := strings.ToLower(strings.TrimSpace(raw.Runner.Backend))
	switch backend {
	case "":
		backend = BackendOsascript
	case BackendOsascript, BackendRelay:
	default:
		return Config{}, fmt.Errorf("unknown runner.backend %q (want %s or %s)", raw.Runner.Backend, BackendOsascript, BackendRelay)
	}

	jsonOutput := raw.JSON
	if cmd != nil && cmd.Flags().Changed("json") {
		jsonOutput = v.GetBool("json")
	} else if strings.EqualFold(raw.OutputFormat, "json") {
		jsonOutput = true
	}

	cfg := Config{
		Runner: RunnerConfig{
			Backend:       backend,
			OsascriptPath: raw.Runner.OsascriptPath,
			OsascriptFlag: raw.Runner.OsascriptFlag,
			Relay: RelayConfig{
				URL:      raw.Runner.Relay.URL,
				Token:    raw.Runner.Relay.Token,
				RetryMax: raw.Runner.Relay.RetryMax,
				Timeout:  timeout,
			},
		},
		DefaultLimit: raw.Contacts.DefaultLimit,
		Verbose:      raw.Verbose,
		JSON:         jsonOutput,
		OutputFormat: raw.OutputFormat,
		ConfigFile:   file,
	}

	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = contacts.DefaultListLimit
	}
	if cfg.Runner.Relay.RetryMax < 0 {
		cfg.Runner.Relay.RetryMax = 0
	}
	if cfg.Runner.Relay.Timeout <= 0 {
		cfg.Runner.Relay.Timeout = DefaultRelayTimeout
	}
	if cfg.Runner.Backend == BackendRelay && cfg.Runner.Relay.URL == "" {
		return Config{}, fmt.Errorf("runner.relay.url is required when runner.backend is %s", BackendRelay)
	}

	return cfg, nil
}

func loadConfigFile(v *viper.Viper, configDir string) (string, error) {
	if configDir == "" {
		return "", nil
	}
	base := filepath.Join(configDir, dirName)
	candidates := []string{
		filepath.Join(base, "config.yaml"),
		filepath.Join(base, "config.yml"),
		filepath.Join(base, "config.json"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return "", err
			}
			return path, nil
		}
	}
	return "", nil
}
