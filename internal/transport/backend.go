package transport

// Backend provisions the Connection a zone uses to reach the broker. The
// development backend maps plain files as shared memory; a hypervisor
// deployment would instead map a region the hypervisor has already set up
// for the guest (see hypervisor_backend.go).
type Backend interface {
	// Connect returns this zone's Connection to the broker, from the
	// zone's side: it sends requests on the uplink ring and receives
	// responses on the downlink ring. Creates the backing rings on first
	// use.
	Connect(zone uint32) (*Connection, error)
	// ConnectBroker returns the broker's side of zone's Connection: it
	// receives requests off the uplink ring and sends responses on the
	// downlink ring, the mirror image of Connect. The broker calls this,
	// never Connect.
	ConnectBroker(zone uint32) (*Connection, error)
	// Close releases all resources held by the backend, closing every
	// Connection handed out by Connect or ConnectBroker.
	Close() error
}
