package snapshot

// Subscribe returns a channel that receives every newly published snapshot.
// Slow subscribers only ever see the latest one. The returned func unsubscribes.
func (a *Aggregator) Subscribe() (<-chan Snapshot, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSub
	a.nextSub++
	ch := make(chan Snapshot, 1)
	a.subs[id] = ch

	return ch, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if _, ok := a.subs[id]; ok {
			delete(a.subs, id)
			close(ch)
		}
	}
}

// publishLocked stores next and fans it out. Caller holds a.mu.
func (a *Aggregator) publishLocked(next Snapshot) {
	stored := next.clone()
	a.current.Store(&stored)

	for _, ch := range a.subs {
		snap := stored.clone()
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
