package config

// Defaults returns a config skeleton with placeholder credentials. It does
// not pass Validate until the tokens and rules are filled in.
func Defaults() *Config {
	return &Config{
		LogLevel: "info",
		Slack: SlackConfig{
			BotToken: "${SLACK_BOT_TOKEN}",
			AppToken: "${SLACK_APP_TOKEN}",
		},
		Sender: SenderConfig{
			Name: "times-relay",
		},
	}
}

// Example returns a commented starting config for the init command.
func Example() *Config {
	cfg := Defaults()
	cfg.Rules = []RuleConfig{
		{
			Kind:            KindConfirm,
			SourceChannelID: "C00000000",
			SourceUserID:    "U00000000",
			SlackWebhooks:   []string{"https://hooks.slack.com/services/T0/B0/XXXX"},
		},
		{
			Kind:            KindBotFeed,
			SourceChannelID: "C11111111",
			SubtypePolicy:   "bot-only",
			DiscordWebhooks: []string{"https://discord.com/api/webhooks/0000/XXXX"},
		},
	}
	return cfg
}
