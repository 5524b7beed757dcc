// Package connectivity exposes a single verified "online" signal and a wake
// hook for out-of-process workers. The signal is not the host's raw network
// flag: a native "online" transition only flips the exposed signal after a
// lightweight roundtrip probe succeeds, which filters captive portals and
// flaky reconnects. Offline transitions flip immediately.
package connectivity

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"
)

// DefaultProbeURL is a cheap, always-available static resource reachable
// without authentication.
const DefaultProbeURL = "https://www.gstatic.com/generate_204"

const probeTimeout = 5 * time.Second

// Prober verifies reconnection with one roundtrip.
type Prober interface {
	Probe(ctx context.Context) error
}

// HTTPProber probes a static URL with a HEAD request.
type HTTPProber struct {
	url    string
	client *http.Client
}

// NewHTTPProber creates a prober against url, or DefaultProbeURL if empty.
func NewHTTPProber(url string) *HTTPProber {
	if url == "" {
		url = DefaultProbeURL
	}
	return &HTTPProber{
		url:    url,
		client: &http.Client{Timeout: probeTimeout},
	}
}

func (p *HTTPProber) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// WakeFunc is invoked when connectivity is verified restored or when an
// out-of-process worker requests an immediate drain.
type WakeFunc func(reason string)

// Bridge holds the verified connectivity state and fans discrete transition
// events out to subscribers. It replaces an ambient global "is online" flag
// with an explicit instance plus subscription.
type Bridge struct {
	prober Prober
	onWake WakeFunc

	mu          sync.Mutex
	online      bool
	subscribers []chan bool
}

// NewBridge creates a bridge that starts offline until the host reports a
// native transition. onWake may be nil.
func NewBridge(prober Prober, onWake WakeFunc) *Bridge {
	return &Bridge{
		prober: prober,
		onWake: onWake,
	}
}

// Online returns the current verified state.
func (b *Bridge) Online() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.online
}

// Subscribe returns a channel receiving each verified transition. The
// channel is buffered; slow subscribers drop events rather than block the
// bridge.
func (b *Bridge) Subscribe() <-chan bool {
	ch := make(chan bool, 4)
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

// SetNativeOnline feeds the host's raw network flag into the bridge. A true
// flag triggers a verification probe; only success flips the exposed signal.
// A false flag flips the signal immediately, no probe needed to confirm
// loss of connectivity.
func (b *Bridge) SetNativeOnline(ctx context.Context, online bool) {
	if !online {
		if b.transition(false) {
			log.Printf("[BRIDGE] offline")
		}
		return
	}

	if err := b.prober.Probe(ctx); err != nil {
		log.Printf("[BRIDGE] native online event but probe failed, staying offline: %v", err)
		return
	}

	if b.transition(true) {
		log.Printf("[BRIDGE] online (verified)")
		if b.onWake != nil {
			b.onWake("online")
		}
	}
}

// Wake requests an immediate drain on behalf of an out-of-process worker,
// decoupled from the online event.
func (b *Bridge) Wake(reason string) {
	if b.onWake != nil {
		b.onWake(reason)
	}
}

// transition updates the state and notifies subscribers. Returns false when
// the state did not change.
func (b *Bridge) transition(online bool) bool {
	b.mu.Lock()
	if b.online == online {
		b.mu.Unlock()
		return false
	}
	b.online = online
	subs := make([]chan bool, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- online:
		default:
		}
	}
	return true
}
