package artifact

import (
	"log"
	"sync"
)

// Status is the derived recovery state of one chat-bound artifact.
type Status int

const (
	// StatusFresh artifacts have never reported a render failure.
	StatusFresh Status = iota
	// StatusRecovering marks an in-flight handle rebuild.
	StatusRecovering
	// StatusRecovered artifacts had their handles rebuilt from the
	// canonical payload.
	StatusRecovered
	// StatusUnrecoverable is terminal: no payload, no way back.
	StatusUnrecoverable
)

func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusRecovering:
		return "recovering"
	case StatusRecovered:
		return "recovered"
	case StatusUnrecoverable:
		return "unrecoverable"
	}
	return "unknown"
}

// Protocol tracks recovery state per message and rebuilds dead
// handles from canonical payloads. A UI may report the same render
// failure several times before the first rebuild finishes; the
// in-flight guard collapses those into one attempt. Unrecoverable is
// terminal so a payload-less artifact never causes a retry storm.
type Protocol struct {
	encoder *Encoder
	handles *HandleTable

	mu       sync.Mutex
	status   map[string]Status
	inflight map[string]bool
	attempts map[string]int
}

func NewProtocol(encoder *Encoder, handles *HandleTable) *Protocol {
	return &Protocol{
		encoder:  encoder,
		handles:  handles,
		status:   make(map[string]Status),
		inflight: make(map[string]bool),
		attempts: make(map[string]int),
	}
}

// Status returns the current state for a message, Fresh by default.
func (p *Protocol) Status(messageID string) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status[messageID]
}

// Attempts returns how many handle rebuilds have run for a message.
func (p *Protocol) Attempts(messageID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts[messageID]
}

// OnRenderFailure is the render-error signal for a message's primary
// handle. The first signal for a message moves it to Recovering and
// runs exactly one rebuild; concurrent duplicates observe Recovering
// and return without doing work. The outcome is Recovered when the
// canonical payload is intact, otherwise the terminal Unrecoverable.
func (p *Protocol) OnRenderFailure(messageID string, a *Artifact) Status {
	p.mu.Lock()
	switch {
	case p.status[messageID] == StatusUnrecoverable:
		p.mu.Unlock()
		return StatusUnrecoverable
	case p.inflight[messageID]:
		p.mu.Unlock()
		return StatusRecovering
	case p.handles.Has(a.PrimaryHandle):
		// The signal names a handle that has since been replaced;
		// the current one is live, so there is nothing to repair.
		st := p.status[messageID]
		p.mu.Unlock()
		return st
	}
	p.inflight[messageID] = true
	p.status[messageID] = StatusRecovering
	p.mu.Unlock()

	final := p.recover(messageID, a)

	p.mu.Lock()
	delete(p.inflight, messageID)
	p.status[messageID] = final
	p.mu.Unlock()
	return final
}

func (p *Protocol) recover(messageID string, a *Artifact) Status {
	if !a.HasPayload() {
		log.Printf("[RECOVERY] %s has no canonical payload, marking unrecoverable", messageID)
		return StatusUnrecoverable
	}

	p.mu.Lock()
	p.attempts[messageID]++
	p.mu.Unlock()

	// Refresh swaps in fresh handles and releases the stale ones.
	if err := p.encoder.Refresh(a); err != nil {
		log.Printf("[RECOVERY] rebuild for %s failed: %v", messageID, err)
		return StatusUnrecoverable
	}
	log.Printf("[RECOVERY] Rebuilt handles for %s", messageID)
	return StatusRecovered
}

// ClassifyOnLoad runs the proactive check when messages are loaded
// (after a reload every handle in the table is gone): a Fresh
// artifact whose handle is already dead and which carries no payload
// is Unrecoverable right away, instead of waiting for a render
// attempt that is guaranteed to fail.
func (p *Protocol) ClassifyOnLoad(messageID string, a *Artifact) Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := p.status[messageID]
	if st != StatusFresh {
		return st
	}
	if a.PrimaryHandle != "" && !p.handles.Has(a.PrimaryHandle) && !a.HasPayload() {
		log.Printf("[RECOVERY] %s loaded with dead handle and no payload, marking unrecoverable", messageID)
		p.status[messageID] = StatusUnrecoverable
		return StatusUnrecoverable
	}
	return StatusFresh
}
