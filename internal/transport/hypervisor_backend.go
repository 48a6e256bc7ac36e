//go:build hypervisor

package transport

import "errors"

// ErrHypervisorUnimplemented is returned by every HypervisorBackend method.
// spec.md §4.1 describes the production transport as a region the
// hypervisor maps into the guest at a fixed address it communicates out of
// band; that handshake is hypervisor-specific and out of scope for this
// core (see SPEC_FULL.md §4.1). This type exists so a second Backend
// implementation compiles under the hypervisor build tag; idmbrokerd
// always constructs a DevBackend and does not select this one.
var ErrHypervisorUnimplemented = errors.New("transport: hypervisor backend not implemented")

// HypervisorBackend is the production Backend: it would obtain each zone's
// ring region from the hypervisor's guest-memory mapping rather than from
// local files. Left unimplemented pending a concrete hypervisor target.
type HypervisorBackend struct{}

// NewHypervisorBackend returns a HypervisorBackend. Every method it exposes
// fails with ErrHypervisorUnimplemented until a real mapping is wired in.
func NewHypervisorBackend() *HypervisorBackend {
	return &HypervisorBackend{}
}

func (b *HypervisorBackend) Connect(zone uint32) (*Connection, error) {
	return nil, ErrHypervisorUnimplemented
}

func (b *HypervisorBackend) ConnectBroker(zone uint32) (*Connection, error) {
	return nil, ErrHypervisorUnimplemented
}

func (b *HypervisorBackend) Close() error {
	return nil
}
