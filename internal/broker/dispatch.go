package broker

import "github.com/nyxgate/idmbroker/internal/protocol/idm"

// CommandHandler processes the payload of one request kind and returns its
// result or a Failure. zone is the verified sender of the request (the
// frame's SrcZone).
type CommandHandler func(b *Broker, zone uint32, payload []byte) (Outcome, error)

// Command is one dispatch-table entry.
type Command struct {
	Name    string
	Handler CommandHandler
}

// DispatchTable maps a request Kind to its Command. Populated once at
// package init, mirroring the teacher's SMB2 DispatchTable.
var DispatchTable map[idm.Kind]*Command

func init() {
	DispatchTable = map[idm.Kind]*Command{
		idm.KindAlloc:   {Name: "ALLOC", Handler: handleAlloc},
		idm.KindFree:    {Name: "FREE", Handler: handleFree},
		idm.KindCopyH2D: {Name: "COPY_H2D", Handler: handleCopyH2D},
		idm.KindCopyD2H: {Name: "COPY_D2H", Handler: handleCopyD2H},
		idm.KindCopyD2D: {Name: "COPY_D2D", Handler: handleCopyD2D},
		idm.KindMemset:  {Name: "MEMSET", Handler: handleMemset},
		idm.KindSync:    {Name: "SYNC", Handler: handleSync},
		idm.KindGetInfo: {Name: "GET_INFO", Handler: handleGetInfo},
	}
}
