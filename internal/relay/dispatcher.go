package relay

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"timesrelay/internal/domain"
)

// Callback is one configured relay rule. Variants additionally implement
// MessageHandler, ActionHandler, or both; the dispatcher skips a callback
// silently when it lacks the handler for the event at hand.
type Callback interface {
	Name() string
}

// MessageHandler handles an inbound message event.
type MessageHandler interface {
	HandleMessage(ctx context.Context, ev *domain.MessageEvent) error
}

// ActionHandler handles an interactive button press.
type ActionHandler interface {
	HandleAction(ctx context.Context, act *domain.ActionEvent) error
}

// DispatcherConfig configures the callback registry.
type DispatcherConfig struct {
	Reporter domain.ErrorReporter // optional failure sink
	Logger   *slog.Logger
}

// Dispatcher holds the ordered callback collection and is the single
// failure-isolation point: a handler error is logged, reported, and then
// returned, aborting delivery to callbacks not yet visited. Fail-fast is
// deliberate; partial fan-out on error beats silently swallowing it.
type Dispatcher struct {
	callbacks []Callback
	reporter  domain.ErrorReporter
	logger    *slog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		reporter: cfg.Reporter,
		logger:   cfg.Logger,
	}
}

// Register appends a callback. Registration order is dispatch order.
func (d *Dispatcher) Register(c Callback) {
	d.callbacks = append(d.callbacks, c)
}

// NotifyMessage delivers one inbound message event to every callback that
// implements MessageHandler, in registration order.
func (d *Dispatcher) NotifyMessage(ctx context.Context, ev *domain.MessageEvent) error {
	for _, c := range d.callbacks {
		h, ok := c.(MessageHandler)
		if !ok {
			continue
		}
		if err := d.invoke(ctx, c.Name(), "message", func() error {
			return h.HandleMessage(ctx, ev)
		}); err != nil {
			return err
		}
	}
	return nil
}

// NotifyAction delivers one interactive action to every callback that
// implements ActionHandler, in registration order.
func (d *Dispatcher) NotifyAction(ctx context.Context, act *domain.ActionEvent) error {
	for _, c := range d.callbacks {
		h, ok := c.(ActionHandler)
		if !ok {
			continue
		}
		if err := d.invoke(ctx, c.Name(), "action", func() error {
			return h.HandleAction(ctx, act)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) invoke(ctx context.Context, name, kind string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback %s: %s handler panicked: %v", name, kind, r)
			d.logger.Error("callback panicked", "callback", name, "handler", kind, "panic", r)
			d.report(ctx, fmt.Sprintf("callback %s: %s handler panicked: %v\n```%s```", name, kind, r, debug.Stack()))
		}
	}()

	if err = fn(); err != nil {
		d.logger.Error("callback failed", "callback", name, "handler", kind, "err", err)
		d.report(ctx, fmt.Sprintf("callback %s: %s handler failed: %v", name, kind, err))
	}
	return err
}

func (d *Dispatcher) report(ctx context.Context, text string) {
	if d.reporter == nil {
		return
	}
	d.reporter.Report(ctx, text)
}
