// Package client implements the core-facing IDM client stub: the half of
// the protocol a GPU core's driver shim links against to turn a local
// CUDA-style call into a request across the ring and back into a result or
// error.
package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nyxgate/idmbroker/internal/logger"
	"github.com/nyxgate/idmbroker/internal/protocol/idm"
	"github.com/nyxgate/idmbroker/internal/transport"
)

// DefaultRetryBudget is the number of extra waits Call makes for an
// unanswered request after the first one times out, matching spec.md's
// bounded-retry requirement: a stuck broker must not hang a core
// indefinitely. The request itself is sent only once.
const DefaultRetryBudget = 3

// DefaultRetryTimeout is how long each of Call's waits for a response
// lasts.
const DefaultRetryTimeout = 2 * time.Second

// Stub is the client side of one zone's IDM connection. It multiplexes
// concurrent Call invocations over a single Connection by matching
// responses to requests on SeqNum.
type Stub struct {
	zone uint32
	conn *transport.Connection

	nextSeq atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan idm.Frame
	closed  chan struct{}

	retryBudget  int
	retryTimeout time.Duration
}

// New returns a Stub for zone, reading from and writing to conn. Call
// Run in its own goroutine before issuing any Call.
func New(zone uint32, conn *transport.Connection) *Stub {
	return &Stub{
		zone:         zone,
		conn:         conn,
		pending:      make(map[uint64]chan idm.Frame),
		closed:       make(chan struct{}),
		retryBudget:  DefaultRetryBudget,
		retryTimeout: DefaultRetryTimeout,
	}
}

// Run reads responses off the connection and routes each to the Call
// awaiting it, until ctx is done or the stub is closed. It must run in its
// own goroutine for the lifetime of the Stub.
func (s *Stub) Run(ctx context.Context) {
	for {
		raw, err := s.conn.Recv(ctx)
		if err != nil {
			return
		}
		frame, err := idm.Parse(raw, transport.DefaultSlotSize-idm.HeaderSize)
		if err != nil {
			logger.WarnCtx(ctx, "client: dropping malformed response", logger.Err(err))
			continue
		}
		s.mu.Lock()
		ch, ok := s.pending[frame.Header.SeqNum]
		if ok {
			delete(s.pending, frame.Header.SeqNum)
		}
		s.mu.Unlock()
		if !ok {
			// Late arrival after a Call already gave up retrying, or an
			// unsolicited frame; neither is actionable here.
			continue
		}
		select {
		case ch <- frame:
		default:
		}
	}
}

// Call sends a request of kind kind with the given wire-encoded payload,
// and blocks until the matching response arrives, the retry budget is
// exhausted, or ctx is done.
func (s *Stub) Call(ctx context.Context, kind idm.Kind, payload []byte) (idm.Frame, error) {
	select {
	case <-s.closed:
		return idm.Frame{}, ErrClosed
	default:
	}

	seq := s.nextSeq.Add(1)
	frame := idm.Build(s.zone, 0, kind, seq, payload)
	buf := make([]byte, frame.EncodedLen())
	frame.Encode(buf)

	ch := make(chan idm.Frame, 1)
	s.mu.Lock()
	s.pending[seq] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, seq)
		s.mu.Unlock()
	}()

	if err := s.conn.Send(buf); err != nil {
		return idm.Frame{}, fmt.Errorf("client: send request: %w", err)
	}

	for attempt := 0; attempt <= s.retryBudget; attempt++ {
		timer := time.NewTimer(s.retryTimeout)
		select {
		case resp := <-ch:
			timer.Stop()
			if !resp.Header.Kind.IsResponse() {
				return idm.Frame{}, ErrUnexpectedKind
			}
			return resp, nil
		case <-ctx.Done():
			timer.Stop()
			return idm.Frame{}, ctx.Err()
		case <-s.closed:
			timer.Stop()
			return idm.Frame{}, ErrClosed
		case <-timer.C:
			logger.WarnCtx(ctx, "client: awaiting response, retrying recv",
				logger.SeqNum(seq), logger.Kind(kind.String()))
		}
	}
	return idm.Frame{}, ErrRetriesExhausted
}

// Close unblocks any in-flight Call and Run.
func (s *Stub) Close() error {
	select {
	case <-s.closed:
		return nil
	default:
		close(s.closed)
	}
	return s.conn.Close()
}
