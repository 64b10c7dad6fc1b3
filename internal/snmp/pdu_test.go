package snmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// marshalResponse builds a GetResponse datagram the way an agent would.
// Shared with the client tests, which use it inside a fake agent.
func marshalResponse(community string, pdu PDU) []byte {
	var body []byte
	body = appendInt(body, tagInteger, int64(pdu.RequestID))
	body = appendInt(body, tagInteger, int64(pdu.ErrorStatus))
	body = appendInt(body, tagInteger, int64(pdu.ErrorIndex))

	var binds []byte
	for _, vb := range pdu.VarBinds {
		one, err := appendOID(nil, vb.OID)
		if err != nil {
			panic(err)
		}
		one = appendValue(one, vb.Value)
		binds = appendTLV(binds, tagSequence, one)
	}
	body = appendTLV(body, tagSequence, binds)

	var msg []byte
	msg = appendInt(msg, tagInteger, Version2c)
	msg = appendTLV(msg, tagOctetString, []byte(community))
	msg = appendTLV(msg, tagGetResponse, body)
	return appendTLV(nil, tagSequence, msg)
}

func appendValue(dst []byte, v Value) []byte {
	switch v.Type {
	case TypeInteger:
		return appendInt(dst, tagInteger, v.Int)
	case TypeOctetString:
		return appendTLV(dst, tagOctetString, v.Bytes)
	case TypeCounter32:
		return appendUint(dst, tagCounter32, v.Uint)
	case TypeGauge32:
		return appendUint(dst, tagGauge32, v.Uint)
	case TypeTimeTicks:
		return appendUint(dst, tagTimeTicks, v.Uint)
	case TypeCounter64:
		return appendUint(dst, tagCounter64, v.Uint)
	case TypeNoSuchObject:
		return appendTLV(dst, tagNoSuchObject, nil)
	case TypeNoSuchInstance:
		return appendTLV(dst, tagNoSuchInstance, nil)
	case TypeEndOfMibView:
		return appendTLV(dst, tagEndOfMibView, nil)
	default:
		return appendTLV(dst, tagNull, nil)
	}
}

// parseRequest decodes the fields of an outgoing request datagram.
func parseRequest(datagram []byte) (pduType byte, id int32, oid OID, err error) {
	outer := &berReader{buf: datagram}
	msgBytes, err := outer.expect(tagSequence)
	if err != nil {
		return 0, 0, nil, err
	}
	msg := &berReader{buf: msgBytes}
	if _, err = msg.expect(tagInteger); err != nil {
		return 0, 0, nil, err
	}
	if _, err = msg.expect(tagOctetString); err != nil {
		return 0, 0, nil, err
	}
	pduType, pduBytes, err := msg.readTLV()
	if err != nil {
		return 0, 0, nil, err
	}
	body := &berReader{buf: pduBytes}
	idBytes, err := body.expect(tagInteger)
	if err != nil {
		return 0, 0, nil, err
	}
	idVal, err := decodeInt(idBytes)
	if err != nil {
		return 0, 0, nil, err
	}
	if _, err = body.expect(tagInteger); err != nil {
		return 0, 0, nil, err
	}
	if _, err = body.expect(tagInteger); err != nil {
		return 0, 0, nil, err
	}
	bindBytes, err := body.expect(tagSequence)
	if err != nil {
		return 0, 0, nil, err
	}
	binds := &berReader{buf: bindBytes}
	oneBytes, err := binds.expect(tagSequence)
	if err != nil {
		return 0, 0, nil, err
	}
	one := &berReader{buf: oneBytes}
	oidBytes, err := one.expect(tagOID)
	if err != nil {
		return 0, 0, nil, err
	}
	oid, err = decodeOID(oidBytes)
	if err != nil {
		return 0, 0, nil, err
	}
	return pduType, int32(idVal), oid, nil
}

func TestMessageRoundTrip(t *testing.T) {
	want := PDU{
		Type:      tagGetResponse,
		RequestID: 42,
		VarBinds: []VarBind{
			{OID: MustOID("1.3.6.1.2.1.2.2.1.2.2"), Value: Value{Type: TypeOctetString, Bytes: []byte("ppp0")}},
			{OID: MustOID("1.3.6.1.2.1.2.2.1.10.2"), Value: Value{Type: TypeCounter32, Uint: 4294967290}},
			{OID: MustOID("1.3.6.1.2.1.31.1.1.1.6.2"), Value: Value{Type: TypeCounter64, Uint: 1 << 40}},
			{OID: MustOID("1.3.6.1.2.1.1.3.0"), Value: Value{Type: TypeTimeTicks, Uint: 123456}},
			{OID: MustOID("1.3.6.1.2.1.2.1.0"), Value: Value{Type: TypeInteger, Int: 3}},
		},
	}

	got, err := unmarshalMessage(marshalResponse("public", want))
	require.NoError(t, err)

	assert.Equal(t, int32(42), got.RequestID)
	assert.Zero(t, got.ErrorStatus)
	require.Len(t, got.VarBinds, 5)

	name, ok := got.VarBinds[0].Value.AsString()
	assert.True(t, ok)
	assert.Equal(t, "ppp0", name)

	rx, ok := got.VarBinds[1].Value.AsUint64()
	assert.True(t, ok)
	assert.Equal(t, uint64(4294967290), rx)
	assert.Equal(t, TypeCounter32, got.VarBinds[1].Value.Type)

	hc, ok := got.VarBinds[2].Value.AsUint64()
	assert.True(t, ok)
	assert.Equal(t, uint64(1<<40), hc)
	assert.Equal(t, TypeCounter64, got.VarBinds[2].Value.Type)

	assert.Equal(t, TypeTimeTicks, got.VarBinds[3].Value.Type)
	assert.Equal(t, int64(3), got.VarBinds[4].Value.Int)
	assert.Equal(t, MustOID("1.3.6.1.2.1.2.2.1.10.2"), got.VarBinds[1].OID)
}

func TestRequestWireFormat(t *testing.T) {
	oid := MustOID("1.3.6.1.2.1.1.1.0")
	datagram, err := marshalMessage(Version2c, "public", PDU{
		Type:      tagGetNextRequest,
		RequestID: 7,
		VarBinds:  []VarBind{{OID: oid}},
	})
	require.NoError(t, err)

	pduType, id, gotOID, err := parseRequest(datagram)
	require.NoError(t, err)
	assert.Equal(t, byte(tagGetNextRequest), pduType)
	assert.Equal(t, int32(7), id)
	assert.Equal(t, oid, gotOID)
}

func TestUnmarshalRejectsNonResponsePDU(t *testing.T) {
	datagram, err := marshalMessage(Version2c, "public", PDU{
		Type:      tagGetRequest,
		RequestID: 7,
		VarBinds:  []VarBind{{OID: sysDescrOID}},
	})
	require.NoError(t, err)

	_, err = unmarshalMessage(datagram)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestUnmarshalTruncatedDatagram(t *testing.T) {
	full := marshalResponse("public", PDU{
		Type:      tagGetResponse,
		RequestID: 9,
		VarBinds:  []VarBind{{OID: sysDescrOID, Value: Value{Type: TypeOctetString, Bytes: []byte("router")}}},
	})

	for cut := 1; cut < len(full); cut++ {
		_, err := unmarshalMessage(full[:cut])
		assert.Error(t, err, "cut at %d bytes must not parse", cut)
	}
}

func TestUnmarshalToleratesUnknownValueTag(t *testing.T) {
	oidBytes, err := appendOID(nil, sysDescrOID)
	require.NoError(t, err)
	one := appendTLV(oidBytes, 0x47, []byte{0xDE, 0xAD})
	binds := appendTLV(nil, tagSequence, one)

	var body []byte
	body = appendInt(body, tagInteger, 9)
	body = appendInt(body, tagInteger, 0)
	body = appendInt(body, tagInteger, 0)
	body = appendTLV(body, tagSequence, binds)

	var msg []byte
	msg = appendInt(msg, tagInteger, Version2c)
	msg = appendTLV(msg, tagOctetString, []byte("public"))
	msg = appendTLV(msg, tagGetResponse, body)

	pdu, err := unmarshalMessage(appendTLV(nil, tagSequence, msg))
	require.NoError(t, err)
	require.Len(t, pdu.VarBinds, 1)
	assert.Equal(t, TypeNull, pdu.VarBinds[0].Value.Type)
	assert.True(t, pdu.VarBinds[0].Value.Absent())
}

func TestUnmarshalIgnoresTrailingMessageFields(t *testing.T) {
	full := marshalResponse("public", PDU{
		Type:      tagGetResponse,
		RequestID: 11,
		VarBinds:  []VarBind{{OID: sysDescrOID, Value: Value{Type: TypeCounter32, Uint: 5}}},
	})

	// Extra bytes after the outer sequence are someone else's problem
	withTrailer := append(append([]byte{}, full...), 0x02, 0x01, 0x00)
	pdu, err := unmarshalMessage(withTrailer)
	require.NoError(t, err)
	assert.Equal(t, int32(11), pdu.RequestID)
}
