package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"timesrelay/internal/config"
	"timesrelay/internal/domain"
	"timesrelay/internal/relay"
	"timesrelay/internal/sink"
	"timesrelay/internal/slackgw"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "timesrelay",
		Short: "Relay times-channel messages to other workspaces and services",
		Long:  "timesrelay watches Slack channels and fans messages out to other Slack workspaces, webhooks, Discord, and Telegram, optionally behind a confirmation prompt.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: ~/.timesrelay/config.yaml)")

	root.AddCommand(initCmd())
	root.AddCommand(relayCmd())
	root.AddCommand(channelsCmd())
	root.AddCommand(joinCmd())
	root.AddCommand(daemonCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write an example config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists: %s", cfgPath)
			}
			if err := config.Save(cfgPath, config.Example()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func relayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Run the relay service (Socket Mode)",
		Long:  "Connects to the source workspace over Socket Mode and relays messages per the configured rules. Press Ctrl+C to stop.",
		RunE:  runRelay,
	}
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := slack.New(cfg.Slack.BotToken, slack.OptionAppLevelToken(cfg.Slack.AppToken))
	gateway := slackgw.NewClient(api, logger)
	sender := domain.Sender{Name: cfg.Sender.Name, IconURL: cfg.Sender.IconURL}

	var reporter domain.ErrorReporter
	if cfg.ErrorChannelID != "" {
		reporter = slackgw.NewChannelReporter(gateway, cfg.ErrorChannelID, sender, logger)
	}
	dispatcher := relay.NewDispatcher(relay.DispatcherConfig{
		Reporter: reporter,
		Logger:   logger,
	})

	for i, rule := range cfg.Rules {
		dests, err := buildDestinations(&rule)
		if err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		cb, err := buildCallback(&rule, gateway, dests, sender)
		if err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		dispatcher.Register(cb)
		logger.Info("rule registered", "kind", rule.Kind, "channel", rule.SourceChannelID)
	}

	socket := slackgw.NewSocket(slackgw.SocketConfig{
		API:        api,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	return socket.Run(ctx)
}

// buildDestinations turns a rule's destination lists into live sinks.
func buildDestinations(rule *config.RuleConfig) (relay.Destinations, error) {
	var dests relay.Destinations

	for _, tgt := range rule.SlackTargets {
		client := slackgw.NewClient(slack.New(tgt.BotToken), logger)
		dests.Chats = append(dests.Chats, relay.ChatDestination{
			Sink:      client,
			ChannelID: tgt.ChannelID,
		})
	}
	for _, url := range rule.SlackWebhooks {
		hook, err := sink.NewSlackWebhook(url, logger)
		if err != nil {
			return dests, err
		}
		dests.Webhooks = append(dests.Webhooks, relay.WebhookDestination{Sink: hook})
	}
	for _, url := range rule.DiscordWebhooks {
		hook, err := sink.NewDiscordWebhook(url, logger)
		if err != nil {
			return dests, err
		}
		dests.Webhooks = append(dests.Webhooks, relay.WebhookDestination{Sink: hook})
	}
	for _, tgt := range rule.TelegramTargets {
		chat, err := sink.NewTelegramChat(tgt.Token, tgt.ChatID, logger)
		if err != nil {
			return dests, err
		}
		dests.Webhooks = append(dests.Webhooks, relay.WebhookDestination{Sink: chat})
	}
	return dests, nil
}

func buildCallback(rule *config.RuleConfig, gateway *slackgw.Client, dests relay.Destinations, sender domain.Sender) (relay.Callback, error) {
	switch rule.Kind {
	case config.KindConfirm:
		return relay.NewConfirmRelay(relay.ConfirmRelayConfig{
			SourceChannelID: rule.SourceChannelID,
			SourceUserID:    rule.SourceUserID,
			Gateway:         gateway,
			Destinations:    dests,
			Sender:          sender,
			Logger:          logger,
		})
	case config.KindDirect:
		return relay.NewDirectRelay(relay.DirectRelayConfig{
			SourceChannelID: rule.SourceChannelID,
			Destinations:    dests,
			Sender:          sender,
			Logger:          logger,
		})
	case config.KindBotFeed:
		return relay.NewBotFeed(relay.BotFeedConfig{
			SourceChannelID: rule.SourceChannelID,
			Policy:          relay.SubtypePolicy(rule.SubtypePolicy),
			Keyword:         rule.Keyword,
			Gateway:         gateway,
			Destinations:    dests,
			Sender:          sender,
			Logger:          logger,
		})
	default:
		return nil, fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
}

func channelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List channels visible in the source workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sourceClient()
			if err != nil {
				return err
			}
			channels, err := client.ListChannels(cmd.Context())
			if err != nil {
				return err
			}
			for _, ch := range channels {
				marker := ""
				if ch.IsArchived {
					marker = " (archived)"
				}
				fmt.Printf("%s\t#%s%s\n", ch.ID, ch.Name, marker)
			}
			return nil
		},
	}
}

func joinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join",
		Short: "Join every unarchived public channel in the source workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sourceClient()
			if err != nil {
				return err
			}
			count, err := client.JoinAllChannels(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("join complete", "joined", count)
			return nil
		},
	}
}

func sourceClient() (*slackgw.Client, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return slackgw.NewClient(slack.New(cfg.Slack.BotToken), logger), nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
