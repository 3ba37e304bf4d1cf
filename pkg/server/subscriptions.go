package server

import (
	"sort"
	"sync"
	"time"

	"github.com/ajitpratap0/mcp-service-go/pkg/session"
)

// Subscription represents an active resource subscription
type Subscription struct {
	URI       string    // The resource URI being subscribed to
	CreatedAt time.Time // When the subscription was created
}

// subscriptionManager tracks which sessions want resources/updated for
// which URIs.
type subscriptionManager struct {
	mu    sync.RWMutex
	byURI map[string]map[*session.ServerPeer]Subscription
}

func newSubscriptionManager() *subscriptionManager {
	return &subscriptionManager{
		byURI: make(map[string]map[*session.ServerPeer]Subscription),
	}
}

// subscribe is idempotent; a repeated subscription keeps its creation time.
func (m *subscriptionManager) subscribe(uri string, p *session.ServerPeer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	peers, ok := m.byURI[uri]
	if !ok {
		peers = make(map[*session.ServerPeer]Subscription)
		m.byURI[uri] = peers
	}
	if _, exists := peers[p]; !exists {
		peers[p] = Subscription{URI: uri, CreatedAt: time.Now()}
	}
}

// unsubscribe reports whether p was subscribed to uri
func (m *subscriptionManager) unsubscribe(uri string, p *session.ServerPeer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	peers, ok := m.byURI[uri]
	if !ok {
		return false
	}
	if _, exists := peers[p]; !exists {
		return false
	}
	delete(peers, p)
	if len(peers) == 0 {
		delete(m.byURI, uri)
	}
	return true
}

// drop removes every subscription held by p
func (m *subscriptionManager) drop(p *session.ServerPeer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for uri, peers := range m.byURI {
		delete(peers, p)
		if len(peers) == 0 {
			delete(m.byURI, uri)
		}
	}
}

func (m *subscriptionManager) subscribers(uri string) []*session.ServerPeer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	peers := make([]*session.ServerPeer, 0, len(m.byURI[uri]))
	for p := range m.byURI[uri] {
		peers = append(peers, p)
	}
	return peers
}

// of lists p's subscriptions ordered by URI
func (m *subscriptionManager) of(p *session.ServerPeer) []Subscription {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var subs []Subscription
	for _, peers := range m.byURI {
		if sub, ok := peers[p]; ok {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].URI < subs[j].URI })
	return subs
}
