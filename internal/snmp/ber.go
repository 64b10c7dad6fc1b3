package snmp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BER tag bytes used by SNMP v1/v2c messages. Application-class tags
// (Counter32 and friends) and the context-class PDU tags are what rule out
// the stdlib asn1 package here.
const (
	tagInteger     = 0x02
	tagOctetString = 0x04
	tagNull        = 0x05
	tagOID         = 0x06
	tagSequence    = 0x30

	tagIPAddress = 0x40
	tagCounter32 = 0x41
	tagGauge32   = 0x42
	tagTimeTicks = 0x43
	tagOpaque    = 0x44
	tagCounter64 = 0x46

	tagNoSuchObject   = 0x80
	tagNoSuchInstance = 0x81
	tagEndOfMibView   = 0x82

	tagGetRequest     = 0xA0
	tagGetNextRequest = 0xA1
	tagGetResponse    = 0xA2
)

// ErrDecode marks a malformed SNMP response: bad length fields, truncated
// datagrams, impossible tag contents. Unknown-but-well-formed fields are
// ignored instead.
var ErrDecode = errors.New("snmp: malformed response")

// OID is a dotted-numeric object identifier path.
type OID []uint32

// ParseOID parses a dotted OID string like "1.3.6.1.2.1.1.1.0".
func ParseOID(s string) (OID, error) {
	parts := strings.Split(strings.TrimPrefix(s, "."), ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("oid %q: need at least two arcs", s)
	}
	oid := make(OID, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("oid %q: bad arc %q", s, p)
		}
		oid[i] = uint32(v)
	}
	return oid, nil
}

// MustOID is ParseOID for compile-time constants.
func MustOID(s string) OID {
	oid, err := ParseOID(s)
	if err != nil {
		panic(err)
	}
	return oid
}

func (o OID) String() string {
	var b strings.Builder
	for i, arc := range o {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(uint64(arc), 10))
	}
	return b.String()
}

// Append returns a copy of the OID with extra arcs appended, e.g. a table
// column OID indexed by interface number.
func (o OID) Append(arcs ...uint32) OID {
	out := make(OID, 0, len(o)+len(arcs))
	out = append(out, o...)
	return append(out, arcs...)
}

// HasPrefix reports whether the OID falls under the given subtree prefix.
func (o OID) HasPrefix(prefix OID) bool {
	if len(o) < len(prefix) {
		return false
	}
	for i, arc := range prefix {
		if o[i] != arc {
			return false
		}
	}
	return true
}

// Compare orders two OIDs lexicographically, the order GetNext traverses
// the MIB in.
func (o OID) Compare(other OID) int {
	n := len(o)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		switch {
		case o[i] < other[i]:
			return -1
		case o[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(o) < len(other):
		return -1
	case len(o) > len(other):
		return 1
	}
	return 0
}

// appendTLV appends one tag-length-value triple.
func appendTLV(dst []byte, tag byte, body []byte) []byte {
	dst = append(dst, tag)
	dst = appendLength(dst, len(body))
	return append(dst, body...)
}

// appendLength appends a definite-form BER length (short form below 128,
// long form above).
func appendLength(dst []byte, n int) []byte {
	if n < 0x80 {
		return append(dst, byte(n))
	}
	var tmp [4]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte(n)
		n >>= 8
	}
	dst = append(dst, byte(0x80|(len(tmp)-i)))
	return append(dst, tmp[i:]...)
}

// appendInt appends a signed INTEGER in minimal two's complement form under
// the given tag.
func appendInt(dst []byte, tag byte, v int64) []byte {
	var body []byte
	switch {
	case v >= 0:
		body = minimalUintBytes(uint64(v))
		if body[0]&0x80 != 0 {
			body = append([]byte{0x00}, body...)
		}
	default:
		n := 1
		for tv := v; tv < -0x80; tv >>= 8 {
			n++
		}
		body = make([]byte, n)
		for i := n - 1; i >= 0; i-- {
			body[i] = byte(v)
			v >>= 8
		}
	}
	return appendTLV(dst, tag, body)
}

// appendUint appends an unsigned application-type integer (Counter32,
// Gauge32, TimeTicks, Counter64) under the given tag.
func appendUint(dst []byte, tag byte, v uint64) []byte {
	body := minimalUintBytes(v)
	if body[0]&0x80 != 0 {
		body = append([]byte{0x00}, body...)
	}
	return appendTLV(dst, tag, body)
}

func minimalUintBytes(v uint64) []byte {
	n := 1
	for tv := v; tv > 0xFF; tv >>= 8 {
		n++
	}
	body := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		body[i] = byte(v)
		v >>= 8
	}
	return body
}

// appendOID appends an OBJECT IDENTIFIER. The first two arcs collapse into
// one byte (40*x+y); the rest are base-128 with continuation bits.
func appendOID(dst []byte, oid OID) ([]byte, error) {
	if len(oid) < 2 || oid[0] > 2 || oid[1] >= 40 {
		return nil, fmt.Errorf("oid %s: not encodable", oid)
	}
	body := []byte{byte(40*oid[0] + oid[1])}
	for _, arc := range oid[2:] {
		body = append(body, base128(arc)...)
	}
	return appendTLV(dst, tagOID, body), nil
}

func base128(v uint32) []byte {
	var tmp [5]byte
	i := len(tmp) - 1
	tmp[i] = byte(v & 0x7F)
	v >>= 7
	for v > 0 {
		i--
		tmp[i] = byte(v&0x7F) | 0x80
		v >>= 7
	}
	return tmp[i:]
}

// berReader walks a BER-encoded buffer. Every read is bounds-checked so a
// truncated datagram surfaces as ErrDecode instead of a panic.
type berReader struct {
	buf []byte
	pos int
}

func (r *berReader) empty() bool {
	return r.pos >= len(r.buf)
}

// readTLV consumes one tag-length-value triple and returns the tag and
// content bytes.
func (r *berReader) readTLV() (byte, []byte, error) {
	if r.pos+2 > len(r.buf) {
		return 0, nil, fmt.Errorf("%w: truncated header", ErrDecode)
	}
	tag := r.buf[r.pos]
	r.pos++

	length := int(r.buf[r.pos])
	r.pos++
	if length >= 0x80 {
		numBytes := length & 0x7F
		if numBytes == 0 || numBytes > 4 {
			return 0, nil, fmt.Errorf("%w: unsupported length form", ErrDecode)
		}
		if r.pos+numBytes > len(r.buf) {
			return 0, nil, fmt.Errorf("%w: truncated length", ErrDecode)
		}
		length = 0
		for i := 0; i < numBytes; i++ {
			length = length<<8 | int(r.buf[r.pos])
			r.pos++
		}
	}

	if length < 0 || r.pos+length > len(r.buf) {
		return 0, nil, fmt.Errorf("%w: content length %d exceeds datagram", ErrDecode, length)
	}
	content := r.buf[r.pos : r.pos+length]
	r.pos += length
	return tag, content, nil
}

// expect reads one TLV and checks the tag.
func (r *berReader) expect(tag byte) ([]byte, error) {
	got, content, err := r.readTLV()
	if err != nil {
		return nil, err
	}
	if got != tag {
		return nil, fmt.Errorf("%w: expected tag 0x%02X, got 0x%02X", ErrDecode, tag, got)
	}
	return content, nil
}

func decodeInt(content []byte) (int64, error) {
	if len(content) == 0 || len(content) > 8 {
		return 0, fmt.Errorf("%w: integer of %d bytes", ErrDecode, len(content))
	}
	v := int64(0)
	if content[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range content {
		v = v<<8 | int64(b)
	}
	return v, nil
}

func decodeUint(content []byte) (uint64, error) {
	// Counter64 may arrive as 9 bytes with a leading zero pad.
	if len(content) == 9 && content[0] == 0x00 {
		content = content[1:]
	}
	if len(content) == 0 || len(content) > 8 {
		return 0, fmt.Errorf("%w: unsigned of %d bytes", ErrDecode, len(content))
	}
	v := uint64(0)
	for _, b := range content {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

func decodeOID(content []byte) (OID, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty oid", ErrDecode)
	}
	oid := OID{uint32(content[0] / 40), uint32(content[0] % 40)}
	var arc uint32
	inArc := false
	for _, b := range content[1:] {
		arc = arc<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			oid = append(oid, arc)
			arc = 0
			inArc = false
		} else {
			inArc = true
		}
	}
	if inArc {
		return nil, fmt.Errorf("%w: oid ends mid-arc", ErrDecode)
	}
	return oid, nil
}
