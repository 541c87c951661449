package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/formlane/formlane/pkg/eventbus"
	"github.com/formlane/formlane/pkg/events"
)

// Dispatcher turns account and submission events into outgoing mail. It runs
// inside the API process on the gochannel bus, or as a separate worker when
// events flow through Kafka.
type Dispatcher struct {
	bus    eventbus.EventBus
	sender Sender
	logger *slog.Logger
}

func NewDispatcher(bus eventbus.EventBus, sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		bus:    bus,
		sender: sender,
		logger: logger,
	}
}

// Start registers the event handlers and begins consuming.
func (d *Dispatcher) Start(ctx context.Context) error {
	err := d.bus.Handle(events.UserRegisteredEvent, d.handleUserRegistered)
	if err != nil {
		return fmt.Errorf("failed to register user handler: %w", err)
	}

	err = d.bus.Handle(events.OTPRequestedEvent, d.handleOTPRequested)
	if err != nil {
		return fmt.Errorf("failed to register otp handler: %w", err)
	}

	err = d.bus.Handle(events.ResponseReceivedEvent, d.handleResponseReceived)
	if err != nil {
		return fmt.Errorf("failed to register response handler: %w", err)
	}

	return d.bus.Subscribe(ctx)
}

func (d *Dispatcher) handleUserRegistered(ctx context.Context, event interface{}) error {
	registered, ok := event.(*events.UserRegistered)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	return d.send(ctx, WelcomeMessage(registered.Email, registered.Name))
}

func (d *Dispatcher) handleOTPRequested(ctx context.Context, event interface{}) error {
	otp, ok := event.(*events.OTPRequested)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	switch otp.Purpose {
	case events.OTPPurposeReset:
		return d.send(ctx, ResetOTPMessage(otp.Email, otp.Code))
	default:
		return d.send(ctx, VerifyOTPMessage(otp.Email, otp.Code))
	}
}

// handleResponseReceived acknowledges a submission when the respondent left
// an email address. Submissions without one are skipped silently.
func (d *Dispatcher) handleResponseReceived(ctx context.Context, event interface{}) error {
	received, ok := event.(*events.ResponseReceived)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	if received.Respondent == "" {
		return nil
	}

	return d.send(ctx, ResponseAckMessage(received.Respondent, received.FormTitle))
}

func (d *Dispatcher) send(ctx context.Context, msg Message) error {
	err := d.sender.Send(ctx, msg)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to send mail", "to", msg.To, "subject", msg.Subject, "error", err)

		return err
	}

	d.logger.DebugContext(ctx, "mail sent", "to", msg.To, "subject", msg.Subject)

	return nil
}
