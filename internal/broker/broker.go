// Package broker implements the GPU virtualization broker core: it reads
// IDM requests from every connected zone, dispatches each to the handler
// for its kind, and writes back the matching OK or ERROR response. The
// dispatch loop is single-threaded by design (spec.md §4.4) — concurrency
// comes from serving many zones, not from parallelizing one zone's
// requests, which keeps handle-table and device-driver access free of
// internal locking races.
package broker

import (
	"context"
	"fmt"

	"github.com/nyxgate/idmbroker/internal/device"
	"github.com/nyxgate/idmbroker/internal/handletable"
	"github.com/nyxgate/idmbroker/internal/logger"
	"github.com/nyxgate/idmbroker/internal/protocol/idm"
	"github.com/nyxgate/idmbroker/internal/transport"
	"github.com/nyxgate/idmbroker/pkg/metrics"
)

// BrokerZone is the zone id the broker itself presents as SrcZone on every
// response it sends.
const BrokerZone = 0

// MaxPayload bounds the payload size the broker will parse out of a frame:
// the default ring slot size (transport.DefaultSlotSize) less the header.
// It does not follow a slot size configured on the backend.
const MaxPayload = transport.DefaultSlotSize - idm.HeaderSize

// Broker owns the shared handle table and device driver and serves every
// connected zone against them.
type Broker struct {
	backend transport.Backend
	handles *handletable.Table
	device  device.Driver
	metrics *metrics.Recorder

	maxPayload uint32
}

// New constructs a Broker. metrics may be nil, in which case stats
// recording is skipped (see pkg/metrics.Recorder's nil-safe methods).
func New(backend transport.Backend, handles *handletable.Table, driver device.Driver, rec *metrics.Recorder) *Broker {
	return &Broker{
		backend:    backend,
		handles:    handles,
		device:     driver,
		metrics:    rec,
		maxPayload: MaxPayload,
	}
}

// inboundFrame pairs a parsed request with the connection it arrived on, so
// the single dispatch loop can answer it without re-resolving the zone.
type inboundFrame struct {
	conn  *transport.Connection
	zone  uint32
	frame idm.Frame
}

// Serve connects to every zone in zones and runs the dispatch loop until
// ctx is canceled. One reader goroutine per zone feeds a shared channel;
// the loop itself never runs two handlers concurrently.
func (b *Broker) Serve(ctx context.Context, zones []uint32) error {
	inbound := make(chan inboundFrame, 64)
	conns := make(map[uint32]*transport.Connection, len(zones))

	for _, zone := range zones {
		conn, err := b.backend.ConnectBroker(zone)
		if err != nil {
			return fmt.Errorf("broker: connect zone %d: %w", zone, err)
		}
		conns[zone] = conn
		logger.Info("broker: connected zone", logger.DstZone(zone), logger.ConnID(conn.ID))
		go b.readZone(ctx, zone, conn, inbound)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-inbound:
			b.dispatch(in)
		}
	}
}

// readZone pulls frames off conn and forwards them to inbound until ctx is
// done. Malformed frames are logged and dropped; a zone that sends garbage
// cannot wedge the broker or other zones.
func (b *Broker) readZone(ctx context.Context, zone uint32, conn *transport.Connection, inbound chan<- inboundFrame) {
	for {
		raw, err := conn.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WarnCtx(ctx, "broker: zone recv failed", logger.DstZone(zone), logger.Err(err))
			continue
		}
		frame, err := idm.Parse(raw, b.maxPayload)
		if err != nil {
			logger.WarnCtx(ctx, "broker: dropping malformed frame", logger.DstZone(zone), logger.Err(err))
			continue
		}
		if frame.Header.SrcZone != zone {
			logger.WarnCtx(ctx, "broker: dropping frame with spoofed src zone",
				logger.DstZone(zone), logger.SrcZone(frame.Header.SrcZone))
			continue
		}
		select {
		case inbound <- inboundFrame{conn: conn, zone: zone, frame: frame}:
		case <-ctx.Done():
			return
		}
	}
}

// dispatch handles exactly one inbound frame and sends its response. It is
// only ever called from the Serve loop, never concurrently.
func (b *Broker) dispatch(in inboundFrame) {
	cmd, ok := DispatchTable[in.frame.Header.Kind]
	if !ok {
		b.respondError(in, fail(idm.ErrorKindUnknown, 0, "unknown message kind"))
		return
	}
	b.metrics.ObserveRequest(cmd.Name)

	outcome, err := cmd.Handler(b, in.zone, in.frame.Payload)
	if err != nil {
		failure, ok := err.(*Failure)
		if !ok {
			failure = fail(idm.ErrorKindUnknown, 0, err.Error())
		}
		b.respondError(in, failure)
		return
	}
	b.respondOK(in, outcome)
}

func (b *Broker) respondOK(in inboundFrame, outcome Outcome) {
	resp := idm.OKResponse{
		RequestSeq:   in.frame.Header.SeqNum,
		ResultHandle: outcome.ResultHandle,
		ResultScalar: outcome.ResultScalar,
		InlineData:   outcome.InlineData,
	}
	payload := make([]byte, resp.EncodedLen())
	resp.Encode(payload)
	b.send(in, idm.KindOK, payload)
}

func (b *Broker) respondError(in inboundFrame, failure *Failure) {
	resp := idm.ErrorResponse{
		RequestSeq: in.frame.Header.SeqNum,
		Kind:       failure.Kind,
		DriverCode: failure.DriverCode,
		Message:    failure.Message,
	}
	payload := make([]byte, resp.EncodedLen())
	resp.Encode(payload)
	b.send(in, idm.KindError, payload)
	b.metrics.ObserveError(failure.Kind)
}

func (b *Broker) send(in inboundFrame, kind idm.Kind, payload []byte) {
	frame := idm.Build(BrokerZone, in.zone, kind, in.frame.Header.SeqNum, payload)
	buf := make([]byte, frame.EncodedLen())
	frame.Encode(buf)
	if err := in.conn.Send(buf); err != nil {
		logger.Warn("broker: send response failed", logger.DstZone(in.zone), logger.Err(err))
	}
}
