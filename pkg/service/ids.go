package service

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
)

// RequestIDProvider issues ids for outgoing requests. Ids are unique per
// provider until the id space wraps. Implementations are safe for concurrent
// use.
type RequestIDProvider interface {
	NextRequestID() protocol.RequestID
}

// ProgressTokenProvider issues tokens for progress reporting
type ProgressTokenProvider interface {
	NextProgressToken() protocol.ProgressToken
}

// AtomicProvider issues numeric ids from a single 32-bit counter shared by
// request ids and progress tokens. The first id is 0. After math.MaxUint32
// the counter wraps to 0.
type AtomicProvider struct {
	next atomic.Uint32
}

var (
	_ RequestIDProvider     = (*AtomicProvider)(nil)
	_ ProgressTokenProvider = (*AtomicProvider)(nil)
)

// NewAtomicProvider returns a provider starting at 0
func NewAtomicProvider() *AtomicProvider {
	return &AtomicProvider{}
}

// NewAtomicProviderAt returns a provider whose next id is start
func NewAtomicProviderAt(start uint32) *AtomicProvider {
	p := &AtomicProvider{}
	p.next.Store(start)
	return p
}

func (p *AtomicProvider) fetchAdd() uint32 {
	return p.next.Add(1) - 1
}

// NextRequestID returns the current counter value and advances it
func (p *AtomicProvider) NextRequestID() protocol.RequestID {
	return protocol.NewNumber(uint64(p.fetchAdd()))
}

// NextProgressToken returns the current counter value and advances it
func (p *AtomicProvider) NextProgressToken() protocol.ProgressToken {
	return protocol.NewProgressToken(protocol.NewNumber(uint64(p.fetchAdd())))
}

// UUIDProvider issues random string ids, unique across processes
type UUIDProvider struct{}

var (
	_ RequestIDProvider     = UUIDProvider{}
	_ ProgressTokenProvider = UUIDProvider{}
)

func (UUIDProvider) NextRequestID() protocol.RequestID {
	return protocol.NewString(uuid.NewString())
}

func (UUIDProvider) NextProgressToken() protocol.ProgressToken {
	return protocol.NewProgressToken(protocol.NewString(uuid.NewString()))
}
