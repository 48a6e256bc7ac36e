package transport

import (
	"context"

	"github.com/google/uuid"
)

// Connection is one zone's half of an IDM channel: a ring it sends on, a
// ring it receives on, and the notifiers attached to each direction. ID
// distinguishes one Connect/ConnectBroker call from another in logs and
// metrics labels; it has no wire meaning.
type Connection struct {
	Zone uint32
	ID   string

	tx       *Ring
	rx       *Ring
	txNotify Notifier
	rxNotify Notifier

	closed chan struct{}
}

// NewConnection assembles a Connection from its rings and notifiers. tx/rx
// are from this side's point of view: tx is the ring this side pushes
// frames into, rx is the ring this side pops frames from.
func NewConnection(zone uint32, tx, rx *Ring, txNotify, rxNotify Notifier) *Connection {
	return &Connection{
		Zone:     zone,
		ID:       uuid.NewString(),
		tx:       tx,
		rx:       rx,
		txNotify: txNotify,
		rxNotify: rxNotify,
		closed:   make(chan struct{}),
	}
}

// Send pushes frame onto the outbound ring and signals the peer. It returns
// ErrRingFull if the peer has fallen behind draining its ring.
func (c *Connection) Send(frame []byte) error {
	select {
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}
	if err := c.tx.Push(frame); err != nil {
		return err
	}
	return c.txNotify.Signal()
}

// Recv blocks until a frame is available on the inbound ring or ctx is
// done. It drains eagerly: a frame already sitting in the ring is returned
// without waiting on the notifier.
func (c *Connection) Recv(ctx context.Context) ([]byte, error) {
	for {
		frame, err := c.rx.Pop()
		if err == nil {
			return frame, nil
		}
		if err != ErrRingEmpty {
			return nil, err
		}
		waitErr := make(chan error, 1)
		go func() { waitErr <- c.rxNotify.Wait(c.closed) }()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case err := <-waitErr:
			if err != nil {
				return nil, err
			}
		}
	}
}

// Close tears down the connection's notifiers and unblocks any in-flight
// Recv.
func (c *Connection) Close() error {
	select {
	case <-c.closed:
		return nil
	default:
		close(c.closed)
	}
	errTx := c.txNotify.Close()
	errRx := c.rxNotify.Close()
	if errTx != nil {
		return errTx
	}
	return errRx
}
