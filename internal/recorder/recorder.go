package recorder

import (
	"time"

	"SignalSentinel/internal/model"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
	StatusPanic  = "panic"
)

// RunEvent records one ticker evaluation inside a cycle.
type RunEvent struct {
	CycleID  string
	Ticker   string
	Bars     int
	LastBar  time.Time
	Signals  []model.Label // fired on the latest bar
	Status   string
	Error    string
	Duration time.Duration
}

// AlertEvent records one notification attempt.
type AlertEvent struct {
	CycleID string
	Ticker  string
	Channel string // "email" or "telegram"
	BarTime time.Time
	Labels  []model.Label
	Sent    bool
	Error   string
}

// Recorder persists the alert journal. Nothing written here is read back
// into evaluation.
type Recorder interface {
	RecordRun(evt *RunEvent) error
	RecordAlert(evt *AlertEvent) error
	Close() error
}
