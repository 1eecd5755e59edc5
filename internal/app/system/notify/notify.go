// internal/app/system/notify/notify.go

// Package notify is the fire-and-forget notification collaborator. The
// core reports one-shot user-facing outcomes through it and never blocks
// on or inspects the result.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Kind distinguishes presentation, nothing more.
type Kind string

const (
	Success Kind = "success"
	Info    Kind = "info"
	Error   Kind = "error"
)

// Notifier receives user-facing notices.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Logger is a Notifier that writes notices to the application log. It is
// the default when the consuming shell supplies nothing richer.
type Logger struct {
	log *zap.Logger
}

func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Notify(kind Kind, message string) {
	switch kind {
	case Error:
		l.log.Warn("notice", zap.String("kind", string(kind)), zap.String("message", message))
	default:
		l.log.Info("notice", zap.String("kind", string(kind)), zap.String("message", message))
	}
}

// Notice is one captured notification.
type Notice struct {
	Kind    Kind
	Message string
}

// Capture records notices for assertions in tests.
type Capture struct {
	mu      sync.Mutex
	notices []Notice
}

func NewCapture() *Capture { return &Capture{} }

func (c *Capture) Notify(kind Kind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, Notice{Kind: kind, Message: message})
}

// Notices returns a copy of everything captured so far.
func (c *Capture) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Discard drops every notice. Useful where a Notifier is required but
// irrelevant.
type Discard struct{}

func (Discard) Notify(Kind, string) {}
