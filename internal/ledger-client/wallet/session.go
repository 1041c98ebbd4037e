package wallet

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

type EventKind string

const (
	EventConnected      EventKind = "connected"
	EventAccountChanged EventKind = "account_changed"
	EventDisconnected   EventKind = "disconnected"
)

type Event struct {
	Kind    EventKind
	Account common.Address
}

// Session tracks the connected wallet account and notifies watchers when it changes.
type Session struct {
	// deliver serializes state changes with their watcher calls so watchers
	// see events in the order the state changed.
	deliver  sync.Mutex
	mu       sync.RWMutex
	signer   *Signer
	watchers []func(Event)
}

func NewSession() *Session {
	return &Session{}
}

// Watch registers fn for every future account event. fn runs on the caller's
// goroutine of Connect or Disconnect, must not block and must not call back
// into Connect or Disconnect.
func (s *Session) Watch(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

func (s *Session) Connect(signer *Signer) {
	if signer == nil {
		return
	}

	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	prev := s.signer
	s.signer = signer
	watchers := append([]func(Event){}, s.watchers...)
	s.mu.Unlock()

	var ev Event
	switch {
	case prev == nil:
		ev = Event{Kind: EventConnected, Account: signer.Address()}
	case prev.Address() != signer.Address():
		ev = Event{Kind: EventAccountChanged, Account: signer.Address()}
	default:
		return
	}

	log.Info("wallet session changed", "event", string(ev.Kind), "account", ev.Account.Hex())
	for _, fn := range watchers {
		fn(ev)
	}
}

func (s *Session) Disconnect() {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	prev := s.signer
	s.signer = nil
	watchers := append([]func(Event){}, s.watchers...)
	s.mu.Unlock()

	if prev == nil {
		return
	}

	ev := Event{Kind: EventDisconnected, Account: prev.Address()}
	log.Info("wallet session changed", "event", string(ev.Kind), "account", ev.Account.Hex())
	for _, fn := range watchers {
		fn(ev)
	}
}

func (s *Session) Account() (common.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.signer == nil {
		return common.Address{}, false
	}
	return s.signer.Address(), true
}

func (s *Session) Signer() (*Signer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signer, s.signer != nil
}
