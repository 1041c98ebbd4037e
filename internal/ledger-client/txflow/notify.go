package txflow

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	// LevelConnectWallet asks the user to connect a wallet.
	LevelConnectWallet Level = "connect_wallet"
)

type Notification struct {
	ID        uuid.UUID   `json:"id"`
	Kind      Kind        `json:"kind"`
	Level     Level       `json:"level"`
	Message   string      `json:"message"`
	Link      string      `json:"link,omitempty"`
	Hash      common.Hash `json:"hash,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

type Notifier interface {
	Notify(n Notification)
}

// Feed keeps the most recent notifications in memory.
type Feed struct {
	mu    sync.RWMutex
	items []Notification
	limit int
}

func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 100
	}
	return &Feed{limit: limit}
}

func (f *Feed) Notify(n Notification) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	f.mu.Lock()
	f.items = append(f.items, n)
	if len(f.items) > f.limit {
		f.items = append([]Notification(nil), f.items[len(f.items)-f.limit:]...)
	}
	f.mu.Unlock()

	log.Info("notification",
		"id", n.ID.String(),
		"kind", string(n.Kind),
		"level", string(n.Level),
		"message", n.Message,
		"link", n.Link,
	)
}

// List returns notifications newest first.
func (f *Feed) List() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Notification, 0, len(f.items))
	for i := len(f.items) - 1; i >= 0; i-- {
		out = append(out, f.items[i])
	}
	return out
}
