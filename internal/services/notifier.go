package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leadforge/internal/metrics"
)

type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
)

// Events carried by notifications.
const (
	EventLeadCreated        = "lead.created"
	EventLeadUpdated        = "lead.updated"
	EventLeadDeleted        = "lead.deleted"
	EventLeadConverted      = "lead.converted"
	EventOpportunityCreated = "opportunity.created"
	EventOpportunityUpdated = "opportunity.updated"
	EventOpportunityDeleted = "opportunity.deleted"
	EventOperationFailed    = "operation.failed"
)

type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Event       string           `json:"event"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Notifier is a sink for user-visible success and failure messages.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Channel is a named Notifier inside a Fanout.
type Channel struct {
	Name     string
	Notifier Notifier
	// Events limits delivery; empty means every event.
	Events []string
	// Async delivers off the caller's goroutine, for channels that talk to
	// remote services.
	Async bool
}

func (c Channel) accepts(event string) bool {
	if len(c.Events) == 0 {
		return true
	}
	for _, e := range c.Events {
		if e == event {
			return true
		}
	}
	return false
}

// asyncTimeout bounds a single asynchronous delivery.
const asyncTimeout = 30 * time.Second

// Fanout delivers to every channel. Channel failures are logged and counted,
// never returned: a notification must not fail the operation that raised it.
type Fanout struct {
	channels []Channel
	log      *zap.Logger
	pending  sync.WaitGroup
}

func NewFanout(log *zap.Logger, channels ...Channel) *Fanout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fanout{channels: channels, log: log.Named("notify")}
}

// Notify assigns the notification id and timestamp when missing, so every
// channel sees the same values.
func (f *Fanout) Notify(ctx context.Context, n Notification) error {
	if n.ID == "" {
		n.ID = "ntf_" + uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	for _, ch := range f.channels {
		if !ch.accepts(n.Event) {
			continue
		}
		if !ch.Async {
			f.deliver(ctx, ch, n)
			continue
		}
		f.pending.Add(1)
		go func() {
			defer f.pending.Done()
			actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), asyncTimeout)
			defer cancel()
			f.deliver(actx, ch, n)
		}()
	}
	return nil
}

// Wait blocks until asynchronous deliveries have finished.
func (f *Fanout) Wait() {
	f.pending.Wait()
}

func (f *Fanout) deliver(ctx context.Context, ch Channel, n Notification) {
	if err := ch.Notifier.Notify(ctx, n); err != nil {
		metrics.RecordNotificationFailure(ch.Name)
		f.log.Warn("notification not delivered",
			zap.String("channel", ch.Name), zap.String("event", n.Event), zap.Error(err))
	}
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	fields := []zap.Field{zap.String("event", n.Event), zap.String("title", n.Title)}
	if n.Description != "" {
		fields = append(fields, zap.String("description", n.Description))
	}
	switch n.Type {
	case NotifyError:
		l.log.Warn("notification", fields...)
	default:
		l.log.Info("notification", fields...)
	}
	return nil
}

const DefaultToastDuration = 5 * time.Second

// ToastFeed keeps recent notifications for clients to poll; each expires
// after its duration.
type ToastFeed struct {
	mu       sync.Mutex
	items    []toast
	duration time.Duration
	seq      int
	now      func() time.Time
}

type toast struct {
	n         Notification
	expiresAt time.Time
}

func NewToastFeed(duration time.Duration) *ToastFeed {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &ToastFeed{duration: duration, now: time.Now}
}

func (t *ToastFeed) Notify(_ context.Context, n Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.seq++
	if n.ID == "" {
		n.ID = "toast_" + strconv.Itoa(t.seq)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now.UTC()
	}
	t.prune(now)
	t.items = append(t.items, toast{n: n, expiresAt: now.Add(t.duration)})
	return nil
}

// Active returns the notifications that have not expired, oldest first.
func (t *ToastFeed) Active() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune(t.now())
	out := make([]Notification, 0, len(t.items))
	for _, it := range t.items {
		out = append(out, it.n)
	}
	return out
}

// Dismiss removes a notification before it expires.
func (t *ToastFeed) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, it := range t.items {
		if it.n.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

func (t *ToastFeed) prune(now time.Time) {
	kept := t.items[:0]
	for _, it := range t.items {
		if now.Before(it.expiresAt) {
			kept = append(kept, it)
		}
	}
	t.items = kept
}
