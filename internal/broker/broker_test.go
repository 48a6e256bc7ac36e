package broker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxgate/idmbroker/internal/broker"
	"github.com/nyxgate/idmbroker/internal/client"
	"github.com/nyxgate/idmbroker/internal/device"
	"github.com/nyxgate/idmbroker/internal/handletable"
	"github.com/nyxgate/idmbroker/internal/protocol/idm"
	"github.com/nyxgate/idmbroker/internal/transport"
)

const (
	testZoneTenant  uint32 = 2
	testZoneTenant2 uint32 = 3
)

// testBroker wires up a Broker over a DevBackend in a scratch directory and
// a connected client.Stub per zone, torn down together by the returned
// cleanup func.
type testBroker struct {
	t        *testing.T
	ctx      context.Context
	cancel   context.CancelFunc
	backend  *transport.DevBackend
	stubs    map[uint32]*client.Stub
	brokerDn chan error
}

func newTestBroker(t *testing.T, zones ...uint32) *testBroker {
	t.Helper()

	backend, err := transport.NewDevBackend(t.TempDir(), 4096, 32)
	require.NoError(t, err)

	handles := handletable.New()
	driver := device.NewMock("test-gpu", 64<<20)
	b := broker.New(backend, handles, driver, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Serve(ctx, zones) }()

	tb := &testBroker{t: t, ctx: ctx, cancel: cancel, backend: backend, stubs: make(map[uint32]*client.Stub), brokerDn: done}
	for _, z := range zones {
		conn, err := backend.Connect(z)
		require.NoError(t, err)
		stub := client.New(z, conn)
		go stub.Run(ctx)
		tb.stubs[z] = stub
	}
	return tb
}

func (tb *testBroker) stub(zone uint32) *client.Stub {
	return tb.stubs[zone]
}

func (tb *testBroker) close() {
	tb.cancel()
	for _, s := range tb.stubs {
		_ = s.Close()
	}
	_ = tb.backend.Close()
}

func callCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Scenario A — alloc/free round-trip.
func TestScenarioA_AllocFreeRoundTrip(t *testing.T) {
	tb := newTestBroker(t, testZoneTenant)
	defer tb.close()
	z2 := tb.stub(testZoneTenant)
	ctx := callCtx(t)

	h, err := z2.Alloc(ctx, 1024, 0)
	require.NoError(t, err)
	require.NotZero(t, h)

	require.NoError(t, z2.Free(ctx, h))

	err = z2.Free(ctx, h)
	var rerr *client.ResponseError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, idm.ErrorKindInvalidHandle, rerr.Kind)
}

// Scenario B — cross-tenant isolation.
func TestScenarioB_CrossTenantIsolation(t *testing.T) {
	tb := newTestBroker(t, testZoneTenant, testZoneTenant2)
	defer tb.close()
	z2, z3 := tb.stub(testZoneTenant), tb.stub(testZoneTenant2)
	ctx := callCtx(t)

	h, err := z2.Alloc(ctx, 2048, 0)
	require.NoError(t, err)

	err = z3.Free(ctx, h)
	var rerr *client.ResponseError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, idm.ErrorKindInvalidHandle, rerr.Kind)

	_, err = z3.CopyD2H(ctx, h, 0, 16)
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, idm.ErrorKindInvalidHandle, rerr.Kind)

	require.NoError(t, z2.Free(ctx, h))
}

// Scenario C — data round-trip.
func TestScenarioC_DataRoundTrip(t *testing.T) {
	tb := newTestBroker(t, testZoneTenant)
	defer tb.close()
	z2 := tb.stub(testZoneTenant)
	ctx := callCtx(t)

	h, err := z2.Alloc(ctx, 256, 0)
	require.NoError(t, err)

	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, z2.CopyH2D(ctx, h, 0, data))

	out, err := z2.CopyD2H(ctx, h, 0, 256)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	require.NoError(t, z2.Free(ctx, h))
}

// Scenario D — bounds violation.
func TestScenarioD_BoundsViolation(t *testing.T) {
	tb := newTestBroker(t, testZoneTenant)
	defer tb.close()
	z2 := tb.stub(testZoneTenant)
	ctx := callCtx(t)

	h, err := z2.Alloc(ctx, 100, 0)
	require.NoError(t, err)

	err = z2.CopyH2D(ctx, h, 50, make([]byte, 60))
	var rerr *client.ResponseError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, idm.ErrorKindInvalidSize, rerr.Kind)
}

// Scenario E — double-free attack.
func TestScenarioE_DoubleFreeAttack(t *testing.T) {
	tb := newTestBroker(t, testZoneTenant)
	defer tb.close()
	z2 := tb.stub(testZoneTenant)
	ctx := callCtx(t)

	h1, err := z2.Alloc(ctx, 1024, 0)
	require.NoError(t, err)
	h2, err := z2.Alloc(ctx, 1024, 0)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)

	require.NoError(t, z2.Free(ctx, h1))

	err = z2.Free(ctx, h1)
	var rerr *client.ResponseError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, idm.ErrorKindInvalidHandle, rerr.Kind)

	require.NoError(t, z2.CopyH2D(ctx, h2, 0, make([]byte, 1024)))
}

// Scenario F — malformed frame is dropped without mutating broker state.
func TestScenarioF_MalformedFrameDropped(t *testing.T) {
	tb := newTestBroker(t, testZoneTenant)
	defer tb.close()
	z2 := tb.stub(testZoneTenant)
	ctx := callCtx(t)

	h, err := z2.Alloc(ctx, 128, 0)
	require.NoError(t, err)

	conn, err := tb.backend.Connect(testZoneTenant)
	require.NoError(t, err)
	garbage := make([]byte, idm.HeaderSize)
	req := idm.AllocRequest{Size: 64}
	payload := make([]byte, 12)
	req.Encode(payload)
	frame := idm.Build(testZoneTenant, broker.BrokerZone, idm.KindAlloc, 999, payload)
	buf := make([]byte, frame.EncodedLen())
	frame.Encode(buf)
	copy(garbage, buf)
	garbage[0] ^= 0xFF // flip the magic
	require.NoError(t, conn.Send(garbage))

	// A subsequent valid request must still succeed, proving the broker
	// kept running and did not mutate the handle table for the garbage.
	h2, err := z2.Alloc(ctx, 64, 0)
	require.NoError(t, err)
	require.NotZero(t, h2)

	// Original handle is unaffected.
	out, err := z2.CopyD2H(ctx, h, 0, 1)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

// A response-kind frame sent as though it were a request (a category
// idm.Parse still accepts, unlike a fully unknown code) has no
// DispatchTable entry and must surface as ErrorKindUnknown rather than being
// silently dropped.
func TestNonRequestKindProducesUnknownKindError(t *testing.T) {
	tb := newTestBroker(t, testZoneTenant)
	defer tb.close()
	ctx := callCtx(t)
	stub := tb.stub(testZoneTenant)

	resp, err := stub.Call(ctx, idm.KindOK, nil)
	require.NoError(t, err)
	assert.Equal(t, idm.KindError, resp.Header.Kind)
	ef, err := idm.DecodeErrorResponse(resp.Payload)
	require.NoError(t, err)
	assert.Equal(t, idm.ErrorKindUnknown, ef.Kind)
}
