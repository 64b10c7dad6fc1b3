// Package snmp is a minimal SNMP v1/v2c client over UDP: enough GetRequest,
// GetNextRequest and table-walk support for counter retrieval from a
// router. No v3, traps or SET.
package snmp

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"netgauge/internal/models"
)

// Protocol version values as they appear on the wire.
const (
	Version1  = 0
	Version2c = 1
)

const (
	defaultTimeout = 2 * time.Second
	defaultRetries = 1
	defaultMaxWalk = 256

	maxDatagram = 4096
)

var sysDescrOID = MustOID("1.3.6.1.2.1.1.1.0")

// ErrStopWalk can be returned from a walk callback to end the walk early
// without reporting an error.
var ErrStopWalk = errors.New("snmp: stop walk")

var requestID atomic.Int32

func init() {
	// Avoid colliding with a previous incarnation's outstanding requests.
	requestID.Store(int32(time.Now().UnixNano() & 0x3FFFFFFF))
}

// Client issues SNMP requests. The zero value is not ready; use NewClient.
// Timeouts and bounds are configurable because they are deployment
// dependent (a LAN router answers in milliseconds, a WAN hop may not).
type Client struct {
	Version int           // Version1 or Version2c
	Timeout time.Duration // per-request read timeout
	Retries int           // extra attempts after the first; UDP drops are not agent absence
	MaxWalk int           // upper bound on rows per walk, defends against looping agents
}

// NewClient returns a v2c client with the default timeout, a single retry
// and the default walk bound.
func NewClient() *Client {
	return &Client{
		Version: Version2c,
		Timeout: defaultTimeout,
		Retries: defaultRetries,
		MaxWalk: defaultMaxWalk,
	}
}

// IsAvailable probes the agent with a cheap get against sysDescr.0.
// "SNMP is absent" is an expected outcome, so every failure mode (timeout,
// refused port, decode garbage) comes back as false, never as an error.
func (c *Client) IsAvailable(target models.Target) bool {
	pdu, err := c.roundTrip(target, tagGetRequest, sysDescrOID)
	if err != nil {
		return false
	}
	return len(pdu.VarBinds) > 0
}

// Get fetches a single OID. The second return is false when the agent has
// no value there (noSuchObject and friends); that is an expected outcome,
// not an error. Network and decode failures are errors.
func (c *Client) Get(target models.Target, oid OID) (Value, bool, error) {
	pdu, err := c.roundTrip(target, tagGetRequest, oid)
	if err != nil {
		return Value{}, false, err
	}
	if pdu.ErrorStatus == errStatusNoSuchName {
		return Value{}, false, nil
	}
	if pdu.ErrorStatus != 0 {
		return Value{}, false, fmt.Errorf("snmp get %s: agent error status %d", oid, pdu.ErrorStatus)
	}
	if len(pdu.VarBinds) == 0 || pdu.VarBinds[0].Value.Absent() {
		return Value{}, false, nil
	}
	return pdu.VarBinds[0].Value, true, nil
}

// GetNext fetches the lexicographically next varbind after oid. The second
// return is false at the end of the MIB view.
func (c *Client) GetNext(target models.Target, oid OID) (VarBind, bool, error) {
	pdu, err := c.roundTrip(target, tagGetNextRequest, oid)
	if err != nil {
		return VarBind{}, false, err
	}
	if pdu.ErrorStatus == errStatusNoSuchName {
		return VarBind{}, false, nil
	}
	if pdu.ErrorStatus != 0 {
		return VarBind{}, false, fmt.Errorf("snmp getnext %s: agent error status %d", oid, pdu.ErrorStatus)
	}
	if len(pdu.VarBinds) == 0 {
		return VarBind{}, false, nil
	}
	vb := pdu.VarBinds[0]
	if vb.Value.Type == TypeEndOfMibView {
		return VarBind{}, false, nil
	}
	return vb, true, nil
}

// Walk issues repeated GetNext requests starting at prefix and calls fn for
// every varbind still under the prefix. It terminates on prefix exit,
// end-of-MIB, a non-increasing OID (a misbehaving agent would loop us
// forever otherwise), or after MaxWalk rows. Each call walks fresh; there
// is no cursor to resume.
func (c *Client) Walk(target models.Target, prefix OID, fn func(VarBind) error) error {
	bound := c.MaxWalk
	if bound <= 0 {
		bound = defaultMaxWalk
	}

	current := prefix
	for i := 0; i < bound; i++ {
		vb, ok, err := c.GetNext(target, current)
		if err != nil {
			return err
		}
		if !ok || !vb.OID.HasPrefix(prefix) {
			return nil
		}
		if vb.OID.Compare(current) <= 0 {
			return nil
		}
		if err := fn(vb); err != nil {
			if errors.Is(err, ErrStopWalk) {
				return nil
			}
			return err
		}
		current = vb.OID
	}
	return nil
}

// roundTrip sends one request PDU and waits for the matching response,
// retrying once on a lost datagram.
func (c *Client) roundTrip(target models.Target, pduType byte, oid OID) (PDU, error) {
	if err := target.Validate(); err != nil {
		return PDU{}, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	id := requestID.Add(1)
	request, err := marshalMessage(c.Version, target.Community, PDU{
		Type:      pduType,
		RequestID: id,
		VarBinds:  []VarBind{{OID: oid}},
	})
	if err != nil {
		return PDU{}, err
	}

	conn, err := net.DialTimeout("udp", target.Addr(), timeout)
	if err != nil {
		return PDU{}, fmt.Errorf("snmp dial %s: %w", target.Addr(), err)
	}
	defer conn.Close()

	buf := make([]byte, maxDatagram)
	attempts := c.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if _, err := conn.Write(request); err != nil {
			lastErr = fmt.Errorf("snmp send: %w", err)
			continue
		}

		deadline := time.Now().Add(timeout)
		if err := conn.SetReadDeadline(deadline); err != nil {
			return PDU{}, err
		}

		for {
			n, err := conn.Read(buf)
			if err != nil {
				lastErr = fmt.Errorf("snmp read: %w", err)
				break
			}
			pdu, err := unmarshalMessage(buf[:n])
			if err != nil {
				// Garbage on the wire is a protocol failure for this
				// request, not something a retry will fix.
				return PDU{}, err
			}
			if pdu.RequestID != id {
				// Stale response to an earlier request; keep listening.
				continue
			}
			return pdu, nil
		}
	}
	return PDU{}, lastErr
}
