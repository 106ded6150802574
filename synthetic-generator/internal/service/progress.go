package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step identifies one pipeline stage of a batch item.
type Step string

const (
	StepPersona    Step = "persona"
	StepUsername   Step = "username"
	StepAvatar     Step = "avatar"
	StepCreateUser Step = "create_user"
	StepPosts      Step = "posts"
	StepPacing     Step = "pacing"
	StepItemDone   Step = "item_done"
	StepItemFailed Step = "item_failed"
)

// ProgressEvent is one structured step-completion notification. Item is 1-based
// for display; failures in BatchResult use the zero-based request index instead.
type ProgressEvent struct {
	BatchID  uuid.UUID `json:"batchId"`
	Item     int       `json:"item"`
	Total    int       `json:"total"`
	Step     Step      `json:"step"`
	Username string    `json:"username,omitempty"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Line renders the event the way the admin response reports it.
func (e ProgressEvent) Line() string {
	return fmt.Sprintf("[%d/%d] %s", e.Item, e.Total, e.Message)
}

// ProgressSink receives progress events. Publishing must never fail the batch:
// implementations swallow their own delivery errors.
type ProgressSink interface {
	Publish(ctx context.Context, event ProgressEvent)
}

// LogSink writes progress events to the service log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("Progress")}
}

func (s *LogSink) Publish(_ context.Context, event ProgressEvent) {
	s.logger.Info(event.Message,
		zap.String("batchID", event.BatchID.String()),
		zap.Int("item", event.Item),
		zap.Int("total", event.Total),
		zap.String("step", string(event.Step)),
		zap.String("username", event.Username))
}

// CollectorSink buffers events in memory so the admin handler can return the
// progress log with the batch response.
type CollectorSink struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (s *CollectorSink) Publish(_ context.Context, event ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns a copy of the collected events in publish order.
func (s *CollectorSink) Events() []ProgressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProgressEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Lines returns the collected events rendered as progress lines.
func (s *CollectorSink) Lines() []string {
	events := s.Events()
	lines := make([]string, len(events))
	for i, event := range events {
		lines[i] = event.Line()
	}
	return lines
}

// MultiSink fans one event out to several sinks.
type MultiSink []ProgressSink

func (s MultiSink) Publish(ctx context.Context, event ProgressEvent) {
	for _, sink := range s {
		if sink != nil {
			sink.Publish(ctx, event)
		}
	}
}
