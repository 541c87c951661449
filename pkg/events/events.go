// Package events defines event types for form lifecycle and account notifications.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Kafka topic carrying all form lifecycle events.
const Topic = "formlane.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Form lifecycle events.
	FormSavedEvent        EventType = "form.saved"
	ResponseReceivedEvent EventType = "response.received"

	// Account events.
	UserRegisteredEvent EventType = "user.registered"
	OTPRequestedEvent   EventType = "otp.requested"
)

// OTP purposes carried on OTPRequested.
const (
	OTPPurposeVerify = "verify"
	OTPPurposeReset  = "reset"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// FormSaved is published every time a builder session persists a snapshot.
// Each save produces a new document, so FormID and ShareID are fresh values.
type FormSaved struct {
	BaseEvent

	FormID     string `json:"form_id"`
	ShareID    string `json:"share_id"`
	Owner      string `json:"owner,omitempty"`
	Title      string `json:"title"`
	FieldCount int    `json:"field_count"`
	StepCount  int    `json:"step_count"`
}

func (f FormSaved) GetType() EventType {
	return FormSavedEvent
}

// ResponseReceived is published when a respondent submits a filled form.
type ResponseReceived struct {
	BaseEvent

	ResponseID string `json:"response_id"`
	ShareID    string `json:"share_id"`
	FormTitle  string `json:"form_title"`
	Owner      string `json:"owner,omitempty"`
	Respondent string `json:"respondent,omitempty"`
}

func (r ResponseReceived) GetType() EventType {
	return ResponseReceivedEvent
}

// UserRegistered is published after a new account is created.
type UserRegistered struct {
	BaseEvent

	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (u UserRegistered) GetType() EventType {
	return UserRegisteredEvent
}

// OTPRequested is published when a one-time code must be delivered, either
// for email verification or a password reset.
type OTPRequested struct {
	BaseEvent

	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
}

func (o OTPRequested) GetType() EventType {
	return OTPRequestedEvent
}

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]any),
	}
}
