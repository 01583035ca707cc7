// Package config loads and validates the relay service configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the relay service.
type Config struct {
	LogLevel       string       `yaml:"logLevel"`
	Slack          SlackConfig  `yaml:"slack"`
	Sender         SenderConfig `yaml:"sender"`
	ErrorChannelID string       `yaml:"errorChannelId,omitempty"`
	Rules          []RuleConfig `yaml:"rules"`
}

// SlackConfig holds the source-workspace credentials. Socket Mode needs
// both the bot token and an app-level token.
type SlackConfig struct {
	BotToken string `yaml:"botToken"`
	AppToken string `yaml:"appToken"`
}

// SenderConfig is the identity stamped on every relayed post.
type SenderConfig struct {
	Name    string `yaml:"name"`
	IconURL string `yaml:"iconUrl,omitempty"`
}

// Rule kinds.
const (
	KindConfirm = "confirm"
	KindDirect  = "direct"
	KindBotFeed = "bot-feed"
)

// RuleConfig describes one source channel and where its messages go.
type RuleConfig struct {
	Kind            string `yaml:"kind"`
	SourceChannelID string `yaml:"sourceChannelId"`
	// SourceUserID is required for confirm rules: only this user's
	// messages raise the prompt.
	SourceUserID string `yaml:"sourceUserId,omitempty"`
	// SubtypePolicy applies to bot-feed rules: "bot-only" (default) or "any".
	SubtypePolicy string `yaml:"subtypePolicy,omitempty"`
	// Keyword is an optional case-insensitive regexp; bot-feed messages
	// not matching it are dropped.
	Keyword string `yaml:"keyword,omitempty"`

	SlackTargets    []SlackTarget    `yaml:"slackTargets,omitempty"`
	SlackWebhooks   []string         `yaml:"slackWebhooks,omitempty"`
	DiscordWebhooks []string         `yaml:"discordWebhooks,omitempty"`
	TelegramTargets []TelegramTarget `yaml:"telegramTargets,omitempty"`
}

// SlackTarget is a channel in another workspace, posted to with that
// workspace's own bot token.
type SlackTarget struct {
	BotToken  string `yaml:"botToken"`
	ChannelID string `yaml:"channelId"`
}

// TelegramTarget is a chat reached through a Telegram bot token.
type TelegramTarget struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chatId"`
}

// HasDestinations reports whether the rule fans out anywhere at all.
func (r *RuleConfig) HasDestinations() bool {
	return len(r.SlackTargets) > 0 || len(r.SlackWebhooks) > 0 ||
		len(r.DiscordWebhooks) > 0 || len(r.TelegramTargets) > 0
}

// DefaultConfigDir returns the default config directory (~/.timesrelay).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".timesrelay"
	}
	return filepath.Join(home, ".timesrelay")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "logLevel must be one of: debug, info, warn, error")
	}

	if cfg.Slack.BotToken == "" {
		errs = append(errs, "slack.botToken is required")
	} else if !strings.HasPrefix(cfg.Slack.BotToken, "xoxb-") {
		errs = append(errs, "slack.botToken must start with xoxb-")
	}
	if cfg.Slack.AppToken == "" {
		errs = append(errs, "slack.appToken is required")
	} else if !strings.HasPrefix(cfg.Slack.AppToken, "xapp-") {
		errs = append(errs, "slack.appToken must start with xapp-")
	}

	if cfg.Sender.Name == "" {
		errs = append(errs, "sender.name is required")
	}

	if len(cfg.Rules) == 0 {
		errs = append(errs, "at least one rule is required")
	}
	for i, rule := range cfg.Rules {
		errs = append(errs, validateRule(i, &rule)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateRule(i int, rule *RuleConfig) []string {
	var errs []string
	prefix := fmt.Sprintf("rules[%d]", i)

	switch rule.Kind {
	case KindConfirm:
		if rule.SourceUserID == "" {
			errs = append(errs, prefix+": confirm rules require sourceUserId")
		}
	case KindDirect, KindBotFeed:
		// valid
	default:
		errs = append(errs, prefix+".kind must be one of: confirm, direct, bot-feed")
	}

	if rule.SourceChannelID == "" {
		errs = append(errs, prefix+".sourceChannelId is required")
	}

	switch rule.SubtypePolicy {
	case "", "bot-only", "any":
		// valid
	default:
		errs = append(errs, prefix+".subtypePolicy must be one of: bot-only, any")
	}

	if rule.Keyword != "" {
		if _, err := regexp.Compile("(?i)" + rule.Keyword); err != nil {
			errs = append(errs, fmt.Sprintf("%s.keyword is not a valid pattern: %v", prefix, err))
		}
	}

	if !rule.HasDestinations() {
		errs = append(errs, prefix+": at least one destination is required")
	}
	for j, tgt := range rule.SlackTargets {
		if !strings.HasPrefix(tgt.BotToken, "xoxb-") {
			errs = append(errs, fmt.Sprintf("%s.slackTargets[%d].botToken must start with xoxb-", prefix, j))
		}
		if tgt.ChannelID == "" {
			errs = append(errs, fmt.Sprintf("%s.slackTargets[%d].channelId is required", prefix, j))
		}
	}
	for j, url := range rule.SlackWebhooks {
		if !strings.HasPrefix(url, "https://hooks.slack.com/") {
			errs = append(errs, fmt.Sprintf("%s.slackWebhooks[%d] is not a slack webhook url", prefix, j))
		}
	}
	for j, url := range rule.DiscordWebhooks {
		if !strings.Contains(url, "/api/webhooks/") {
			errs = append(errs, fmt.Sprintf("%s.discordWebhooks[%d] is not a discord webhook url", prefix, j))
		}
	}
	for j, tgt := range rule.TelegramTargets {
		if tgt.Token == "" {
			errs = append(errs, fmt.Sprintf("%s.telegramTargets[%d].token is required", prefix, j))
		}
		if tgt.ChatID == 0 {
			errs = append(errs, fmt.Sprintf("%s.telegramTargets[%d].chatId is required", prefix, j))
		}
	}

	return errs
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
