// Package cmdutil holds state shared by idmctl's subcommands: the
// connection flags bound to the root command's persistent flags, and the
// helper that turns them into a live client.Stub.
package cmdutil

import (
	"context"
	"fmt"
	"time"

	"github.com/nyxgate/idmbroker/internal/client"
	"github.com/nyxgate/idmbroker/internal/transport"
)

// Flags holds the persistent connection flags. The root command binds its
// persistent flags directly to these fields, so cobra fills them in while
// parsing the command line.
var Flags struct {
	RingDir   string
	Zone      uint32
	SlotSize  uint32
	SlotCount uint32
	Timeout   time.Duration
}

// Session is a live connection to a broker as a synthetic zone, plus the
// context its caller should use for the single request it intends to make.
type Session struct {
	Stub    *client.Stub
	Ctx     context.Context
	cancel  context.CancelFunc
	backend *transport.DevBackend
}

// Connect opens the configured zone's rings and starts the stub's response
// reader. Callers must defer Close.
func Connect() (*Session, error) {
	backend, err := transport.NewDevBackend(Flags.RingDir, Flags.SlotSize, Flags.SlotCount)
	if err != nil {
		return nil, fmt.Errorf("open ring dir %q: %w", Flags.RingDir, err)
	}

	conn, err := backend.Connect(Flags.Zone)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("connect zone %d: %w", Flags.Zone, err)
	}

	stub := client.New(Flags.Zone, conn)
	ctx, cancel := context.WithTimeout(context.Background(), Flags.Timeout)
	go stub.Run(ctx)

	return &Session{Stub: stub, Ctx: ctx, cancel: cancel, backend: backend}, nil
}

// Close tears down the stub, its connection, and the backing ring mappings.
func (s *Session) Close() {
	s.cancel()
	_ = s.Stub.Close()
	_ = s.backend.Close()
}
