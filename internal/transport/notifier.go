package transport

import (
	"sync"

	"golang.org/x/sys/unix"
)

// Notifier wakes a blocked receiver when the peer has pushed a new frame.
// The ring itself carries no wakeup signal; Notifier is the side-channel
// spec.md §4.1 calls the "event channel".
type Notifier interface {
	// Signal wakes one waiter. Safe to call with no waiter blocked.
	Signal() error
	// Wait blocks until Signal is called at least once since the last Wait
	// returned, or until stop is closed.
	Wait(stop <-chan struct{}) error
	// Close releases the notifier's resources.
	Close() error
}

// eventfdNotifier implements Notifier with a Linux eventfd in semaphore
// mode: each Signal increments the kernel counter by one, each Wait blocks
// until the counter is non-zero then decrements it by one.
type eventfdNotifier struct {
	fd       int
	closeOne sync.Once
}

// newEventfdNotifier creates a notifier backed by a fresh eventfd.
func newEventfdNotifier() (*eventfdNotifier, error) {
	fd, err := unix.Eventfd(0, unix.EFD_SEMAPHORE|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &eventfdNotifier{fd: fd}, nil
}

// openEventfdNotifier wraps an already-open eventfd descriptor, e.g. one
// received over a unix socket from the peer process.
func openEventfdNotifier(fd int) *eventfdNotifier {
	return &eventfdNotifier{fd: fd}
}

func (n *eventfdNotifier) Signal() error {
	buf := make([]byte, 8)
	buf[0] = 1
	_, err := unix.Write(n.fd, buf)
	return err
}

func (n *eventfdNotifier) Wait(stop <-chan struct{}) error {
	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 8)
		_, err := unix.Read(n.fd, buf)
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-stop:
		return ErrConnectionClosed
	}
}

// Close releases the eventfd. It is idempotent: a notifier pair minted once
// per zone by DevBackend is shared by both the zone's and the broker's
// Connection for that zone, and both Connections' Close reach here.
func (n *eventfdNotifier) Close() error {
	var err error
	n.closeOne.Do(func() {
		err = unix.Close(n.fd)
	})
	return err
}

// FD returns the underlying eventfd descriptor, for passing to a peer
// process over a unix domain socket (SCM_RIGHTS).
func (n *eventfdNotifier) FD() int { return n.fd }
