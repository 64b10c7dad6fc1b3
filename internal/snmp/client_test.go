package snmp

import (
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netgauge/internal/models"
)

// startFakeAgent runs a loopback UDP responder. handle gets the decoded
// request and returns the response datagram, or nil to drop the request.
func startFakeAgent(t *testing.T, handle func(pduType byte, id int32, oid OID) []byte) models.Target {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { pc.Close() })

	go func() {
		buf := make([]byte, maxDatagram)
		for {
			n, addr, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			pduType, id, oid, err := parseRequest(buf[:n])
			if err != nil {
				continue
			}
			if resp := handle(pduType, id, oid); resp != nil {
				pc.WriteTo(resp, addr)
			}
		}
	}()

	return models.Target{
		Host:      "127.0.0.1",
		Port:      pc.LocalAddr().(*net.UDPAddr).Port,
		Community: "public",
	}
}

func testClient() *Client {
	c := NewClient()
	c.Timeout = 500 * time.Millisecond
	c.Retries = 0
	return c
}

func respond(id int32, vbs ...VarBind) []byte {
	return marshalResponse("public", PDU{
		Type:      tagGetResponse,
		RequestID: id,
		VarBinds:  vbs,
	})
}

func TestGetCounter(t *testing.T) {
	oid := MustOID("1.3.6.1.2.1.2.2.1.10.2")
	target := startFakeAgent(t, func(pduType byte, id int32, got OID) []byte {
		if got.Compare(oid) != 0 {
			return nil
		}
		return respond(id, VarBind{OID: got, Value: Value{Type: TypeCounter32, Uint: 1234}})
	})

	value, ok, err := testClient().Get(target, oid)
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := value.AsUint64()
	assert.Equal(t, uint64(1234), v)
}

func TestGetAbsentValueIsNotAnError(t *testing.T) {
	target := startFakeAgent(t, func(pduType byte, id int32, oid OID) []byte {
		return respond(id, VarBind{OID: oid, Value: Value{Type: TypeNoSuchObject}})
	})

	_, ok, err := testClient().Get(target, MustOID("1.3.6.1.9.9.9.0"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetRetriesLostDatagram(t *testing.T) {
	var requests atomic.Int32
	target := startFakeAgent(t, func(pduType byte, id int32, oid OID) []byte {
		if requests.Add(1) == 1 {
			// First datagram disappears into the void
			return nil
		}
		return respond(id, VarBind{OID: oid, Value: Value{Type: TypeCounter32, Uint: 7}})
	})

	c := testClient()
	c.Timeout = 200 * time.Millisecond
	c.Retries = 1

	value, ok, err := c.Get(target, sysDescrOID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(7), value.Uint)
	assert.GreaterOrEqual(t, requests.Load(), int32(2))
}

func TestGetIgnoresStaleRequestID(t *testing.T) {
	oid := MustOID("1.3.6.1.2.1.1.3.0")

	// An agent that first answers with someone else's request ID, then with
	// the right one, as two separate datagrams.
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { pc.Close() })
	go func() {
		buf := make([]byte, maxDatagram)
		for {
			n, addr, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			_, id, got, err := parseRequest(buf[:n])
			if err != nil {
				continue
			}
			pc.WriteTo(respond(id-100, VarBind{OID: got, Value: Value{Type: TypeTimeTicks, Uint: 1}}), addr)
			pc.WriteTo(respond(id, VarBind{OID: got, Value: Value{Type: TypeTimeTicks, Uint: 99}}), addr)
		}
	}()
	target := models.Target{
		Host:      "127.0.0.1",
		Port:      pc.LocalAddr().(*net.UDPAddr).Port,
		Community: "public",
	}

	value, ok, err := testClient().Get(target, oid)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(99), value.Uint)
}

func TestIsAvailable(t *testing.T) {
	target := startFakeAgent(t, func(pduType byte, id int32, oid OID) []byte {
		return respond(id, VarBind{OID: oid, Value: Value{Type: TypeOctetString, Bytes: []byte("Test Router v1")}})
	})

	assert.True(t, testClient().IsAvailable(target))
}

func TestIsAvailableAgentAbsent(t *testing.T) {
	// Grab a port and release it so nothing is listening there.
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	port := pc.LocalAddr().(*net.UDPAddr).Port
	pc.Close()

	c := testClient()
	c.Timeout = 200 * time.Millisecond

	assert.False(t, c.IsAvailable(models.Target{Host: "127.0.0.1", Port: port, Community: "public"}))
}

func TestGetRejectsInvalidTarget(t *testing.T) {
	_, _, err := testClient().Get(models.Target{Host: "", Port: 161, Community: "public"}, sysDescrOID)
	assert.Error(t, err)

	_, _, err = testClient().Get(models.Target{Host: "127.0.0.1", Port: 161, Community: ""}, sysDescrOID)
	assert.Error(t, err)
}

// tableAgent answers GetNext against a fixed sorted varbind table, the way
// an ifDescr walk sees it, and endOfMibView past the last row.
func tableAgent(t *testing.T, rows []VarBind) models.Target {
	return startFakeAgent(t, func(pduType byte, id int32, oid OID) []byte {
		if pduType != tagGetNextRequest {
			return nil
		}
		for _, row := range rows {
			if row.OID.Compare(oid) > 0 {
				return respond(id, row)
			}
		}
		return respond(id, VarBind{OID: oid, Value: Value{Type: TypeEndOfMibView}})
	})
}

func TestWalkCollectsSubtreeAndStopsAtPrefixExit(t *testing.T) {
	ifDescr := MustOID("1.3.6.1.2.1.2.2.1.2")
	target := tableAgent(t, []VarBind{
		{OID: ifDescr.Append(1), Value: Value{Type: TypeOctetString, Bytes: []byte("lo")}},
		{OID: ifDescr.Append(2), Value: Value{Type: TypeOctetString, Bytes: []byte("eth0")}},
		{OID: ifDescr.Append(3), Value: Value{Type: TypeOctetString, Bytes: []byte("ppp0")}},
		// Next column; the walk must not cross into it
		{OID: MustOID("1.3.6.1.2.1.2.2.1.3.1"), Value: Value{Type: TypeInteger, Int: 6}},
	})

	var names []string
	err := testClient().Walk(target, ifDescr, func(vb VarBind) error {
		name, _ := vb.Value.AsString()
		names = append(names, name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"lo", "eth0", "ppp0"}, names)
}

func TestWalkStopsAtEndOfMibView(t *testing.T) {
	target := tableAgent(t, nil)

	visits := 0
	err := testClient().Walk(target, MustOID("1.3.6.1.2.1.2.2.1.2"), func(VarBind) error {
		visits++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, visits)
}

func TestWalkEarlyStop(t *testing.T) {
	ifDescr := MustOID("1.3.6.1.2.1.2.2.1.2")
	target := tableAgent(t, []VarBind{
		{OID: ifDescr.Append(1), Value: Value{Type: TypeOctetString, Bytes: []byte("lo")}},
		{OID: ifDescr.Append(2), Value: Value{Type: TypeOctetString, Bytes: []byte("ppp0")}},
	})

	visits := 0
	err := testClient().Walk(target, ifDescr, func(VarBind) error {
		visits++
		return ErrStopWalk
	})
	require.NoError(t, err, "a deliberate stop is not an error")
	assert.Equal(t, 1, visits)
}

func TestWalkTerminatesOnNonIncreasingOID(t *testing.T) {
	// A broken agent that echoes the requested OID back forever
	target := startFakeAgent(t, func(pduType byte, id int32, oid OID) []byte {
		return respond(id, VarBind{OID: oid, Value: Value{Type: TypeOctetString, Bytes: []byte("loop")}})
	})

	visits := 0
	err := testClient().Walk(target, MustOID("1.3.6.1.2.1.2.2.1.2"), func(VarBind) error {
		visits++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, visits)
}

func TestWalkHonorsRowBound(t *testing.T) {
	// An agent with an endless strictly-increasing subtree
	target := startFakeAgent(t, func(pduType byte, id int32, oid OID) []byte {
		return respond(id, VarBind{OID: oid.Append(1), Value: Value{Type: TypeCounter32, Uint: 1}})
	})

	c := testClient()
	c.MaxWalk = 5

	visits := 0
	err := c.Walk(target, MustOID("1.3.6.1.2.1.2.2.1.2"), func(VarBind) error {
		visits++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, visits)
}
