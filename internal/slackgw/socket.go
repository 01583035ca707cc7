package slackgw

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"timesrelay/internal/domain"
	"timesrelay/internal/relay"
)

// Socket runs the Socket Mode event loop for the source workspace and
// feeds normalized events into the dispatcher. Each event is handled to
// completion before the next; the core has no internal parallelism.
type Socket struct {
	api        *slack.Client
	socket     *socketmode.Client
	dispatcher *relay.Dispatcher
	logger     *slog.Logger
	botUID     string
}

// SocketConfig configures the Socket Mode transport.
type SocketConfig struct {
	API        *slack.Client
	Dispatcher *relay.Dispatcher
	Logger     *slog.Logger
}

// NewSocket creates the transport around an app-token-enabled client.
func NewSocket(cfg SocketConfig) *Socket {
	return &Socket{
		api:        cfg.API,
		socket:     socketmode.New(cfg.API),
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger,
	}
}

// Run connects and processes events until the context is canceled.
func (s *Socket) Run(ctx context.Context) error {
	authResp, err := s.api.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("slack auth: %w", err)
	}
	s.botUID = authResp.UserID
	s.logger.Info("relay bot connected", "user", authResp.User, "user_id", authResp.UserID)

	go func() {
		for evt := range s.socket.Events {
			s.handleEvent(ctx, evt)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.socket.RunContext(ctx)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("relay bot disconnecting")
		return nil
	case err := <-errCh:
		return fmt.Errorf("slack socket mode: %w", err)
	}
}

func (s *Socket) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		s.logger.Info("connecting to socket mode")

	case socketmode.EventTypeConnected:
		s.logger.Info("connected to socket mode")

	case socketmode.EventTypeConnectionError:
		s.logger.Error("socket mode connection error", "data", evt.Data)

	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		s.socket.Ack(*evt.Request)
		s.handleEventsAPI(ctx, apiEvent)

	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		// Acknowledge immediately; the platform expects a response
		// regardless of how fan-out goes.
		s.socket.Ack(*evt.Request)
		s.handleInteraction(ctx, callback)

	default:
		// Ack unknown events to avoid Socket Mode disconnection.
		if evt.Request != nil {
			s.socket.Ack(*evt.Request)
		}
	}
}

func (s *Socket) handleEventsAPI(ctx context.Context, event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}
	ev, ok := event.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		return
	}
	// Never react to our own relayed posts.
	if ev.User == s.botUID {
		return
	}

	s.logger.Info("message event",
		"channel", ev.Channel,
		"user", ev.User,
		"subtype", ev.SubType,
		"ts", ev.TimeStamp,
	)

	msg := &domain.MessageEvent{
		ChannelID:       ev.Channel,
		UserID:          ev.User,
		BotID:           ev.BotID,
		SubType:         ev.SubType,
		Timestamp:       ev.TimeStamp,
		ThreadTimestamp: ev.ThreadTimeStamp,
		Text:            ev.Text,
		Attachments:     fromSlackAttachments(ev.Attachments),
	}
	if err := s.dispatcher.NotifyMessage(ctx, msg); err != nil {
		// Already logged and reported at the dispatcher's isolation point.
		s.logger.Debug("message dispatch aborted", "err", err)
	}
}

func (s *Socket) handleInteraction(ctx context.Context, callback slack.InteractionCallback) {
	if callback.Type != slack.InteractionTypeBlockActions {
		return
	}

	// Close the originating ephemeral prompt unconditionally, before and
	// independently of fan-out.
	if callback.ResponseURL != "" {
		if _, _, err := s.api.PostMessageContext(ctx, "", slack.MsgOptionDeleteOriginal(callback.ResponseURL)); err != nil {
			s.logger.Warn("failed to close ephemeral prompt", "err", err)
		}
	}

	for _, action := range callback.ActionCallback.BlockActions {
		act := &domain.ActionEvent{
			ActionID:    action.ActionID,
			Value:       action.Value,
			ChannelID:   callback.Channel.ID,
			UserID:      callback.User.ID,
			ResponseURL: callback.ResponseURL,
		}
		s.logger.Info("interactive action", "action", act.ActionID, "channel", act.ChannelID, "user", act.UserID)
		if err := s.dispatcher.NotifyAction(ctx, act); err != nil {
			s.logger.Debug("action dispatch aborted", "err", err)
		}
	}
}
