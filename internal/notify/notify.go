package notify

import (
	"strings"
	"sync"
	"time"

	"inventory-console/internal/util"
)

// Level classifies a notification for rendering.
type Level string

const (
	LevelSuccess Level = "success"
	LevelDanger  Level = "danger"
)

// Confirmations fade quickly; errors stay up longer so the user can read
// the detail.
const (
	DefaultSuccessTTL = 3 * time.Second
	DefaultErrorTTL   = 5 * time.Second
)

// Notifier holds at most one transient status message. Setting a new message
// discards any pending auto-clear and arms a fresh one.
type Notifier struct {
	mu         sync.Mutex
	message    string
	timer      *time.Timer
	successTTL time.Duration
	errorTTL   time.Duration
}

// New creates a Notifier with the default expiry delays.
func New() *Notifier {
	return NewWithTTL(DefaultSuccessTTL, DefaultErrorTTL)
}

// NewWithTTL creates a Notifier with explicit expiry delays.
func NewWithTTL(successTTL, errorTTL time.Duration) *Notifier {
	return &Notifier{successTTL: successTTL, errorTTL: errorTTL}
}

// Classify derives the level from the message text. Classification is by
// substring, not a structured flag: any message containing "Error" renders
// as danger. Fragile, but it is what every screen keys off.
func Classify(message string) Level {
	if strings.Contains(message, "Error") {
		return LevelDanger
	}
	return LevelSuccess
}

// Set replaces the current message and schedules its expiry.
func (n *Notifier) Set(message string) {
	level := Classify(message)
	util.NotificationsTotal.WithLabelValues(string(level)).Inc()

	ttl := n.successTTL
	if level == LevelDanger {
		ttl = n.errorTTL
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.message = message
	n.timer = time.AfterFunc(ttl, func() { n.expire(message) })
}

// expire clears the message only if it is still the one that was scheduled.
func (n *Notifier) expire(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.message == message {
		n.message = ""
	}
}

// Message returns the current message and its level; ok is false when no
// message is active.
func (n *Notifier) Message() (string, Level, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.message == "" {
		return "", LevelSuccess, false
	}
	return n.message, Classify(n.message), true
}

// Clear drops the current message immediately.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.message = ""
}
