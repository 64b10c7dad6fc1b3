package snmp

import "fmt"

// ValueType discriminates the typed union carried in a varbind.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeInteger
	TypeOctetString
	TypeOID
	TypeIPAddress
	TypeCounter32
	TypeGauge32
	TypeTimeTicks
	TypeCounter64
	TypeNoSuchObject
	TypeNoSuchInstance
	TypeEndOfMibView
)

// Value is a decoded varbind value. Exactly one payload field is
// meaningful, picked by Type.
type Value struct {
	Type  ValueType
	Int   int64
	Uint  uint64
	Bytes []byte
	OID   OID
}

// Absent reports whether the value is an "exception" marker rather than
// data: v2c noSuchObject/noSuchInstance/endOfMibView or a bare null.
func (v Value) Absent() bool {
	switch v.Type {
	case TypeNull, TypeNoSuchObject, TypeNoSuchInstance, TypeEndOfMibView:
		return true
	}
	return false
}

// AsUint64 returns the value as an unsigned counter where that makes sense
// (any of the unsigned application types, or a non-negative integer).
func (v Value) AsUint64() (uint64, bool) {
	switch v.Type {
	case TypeCounter32, TypeGauge32, TypeTimeTicks, TypeCounter64:
		return v.Uint, true
	case TypeInteger:
		if v.Int >= 0 {
			return uint64(v.Int), true
		}
	}
	return 0, false
}

// AsString returns the value as a string for octet-string payloads.
func (v Value) AsString() (string, bool) {
	if v.Type == TypeOctetString {
		return string(v.Bytes), true
	}
	return "", false
}

// VarBind pairs an OID with its value.
type VarBind struct {
	OID   OID
	Value Value
}

// PDU is one SNMP protocol data unit: a request or response with its
// varbind list.
type PDU struct {
	Type        byte
	RequestID   int32
	ErrorStatus int
	ErrorIndex  int
	VarBinds    []VarBind
}

// SNMP v1 error-status code of interest; everything else is treated as a
// generic request failure.
const errStatusNoSuchName = 2

// marshalMessage encodes a whole SNMP message: a SEQUENCE holding the
// version, the community string, and the PDU.
func marshalMessage(version int, community string, pdu PDU) ([]byte, error) {
	var body []byte
	body = appendInt(body, tagInteger, int64(pdu.RequestID))
	body = appendInt(body, tagInteger, int64(pdu.ErrorStatus))
	body = appendInt(body, tagInteger, int64(pdu.ErrorIndex))

	var binds []byte
	for _, vb := range pdu.VarBinds {
		var one []byte
		one, err := appendOID(one, vb.OID)
		if err != nil {
			return nil, err
		}
		// Requests carry null placeholders only.
		one = appendTLV(one, tagNull, nil)
		binds = appendTLV(binds, tagSequence, one)
	}
	body = appendTLV(body, tagSequence, binds)

	var msg []byte
	msg = appendInt(msg, tagInteger, int64(version))
	msg = appendTLV(msg, tagOctetString, []byte(community))
	msg = appendTLV(msg, pdu.Type, body)

	return appendTLV(nil, tagSequence, msg), nil
}

// unmarshalMessage decodes a response datagram. Parsing is lenient about
// anything beyond the fields we use (extra trailing fields are ignored),
// but truncation and bad lengths are decode errors.
func unmarshalMessage(datagram []byte) (PDU, error) {
	outer := &berReader{buf: datagram}
	msgBytes, err := outer.expect(tagSequence)
	if err != nil {
		return PDU{}, err
	}

	msg := &berReader{buf: msgBytes}
	if _, err := msg.expect(tagInteger); err != nil { // version
		return PDU{}, err
	}
	if _, err := msg.expect(tagOctetString); err != nil { // community
		return PDU{}, err
	}

	pduTag, pduBytes, err := msg.readTLV()
	if err != nil {
		return PDU{}, err
	}
	if pduTag != tagGetResponse {
		return PDU{}, fmt.Errorf("%w: unexpected PDU tag 0x%02X", ErrDecode, pduTag)
	}

	pdu := PDU{Type: pduTag}
	body := &berReader{buf: pduBytes}

	reqID, err := body.expect(tagInteger)
	if err != nil {
		return PDU{}, err
	}
	id, err := decodeInt(reqID)
	if err != nil {
		return PDU{}, err
	}
	pdu.RequestID = int32(id)

	status, err := body.expect(tagInteger)
	if err != nil {
		return PDU{}, err
	}
	st, err := decodeInt(status)
	if err != nil {
		return PDU{}, err
	}
	pdu.ErrorStatus = int(st)

	index, err := body.expect(tagInteger)
	if err != nil {
		return PDU{}, err
	}
	ix, err := decodeInt(index)
	if err != nil {
		return PDU{}, err
	}
	pdu.ErrorIndex = int(ix)

	bindBytes, err := body.expect(tagSequence)
	if err != nil {
		return PDU{}, err
	}
	binds := &berReader{buf: bindBytes}
	for !binds.empty() {
		oneBytes, err := binds.expect(tagSequence)
		if err != nil {
			return PDU{}, err
		}
		one := &berReader{buf: oneBytes}

		oidBytes, err := one.expect(tagOID)
		if err != nil {
			return PDU{}, err
		}
		oid, err := decodeOID(oidBytes)
		if err != nil {
			return PDU{}, err
		}

		valueTag, valueBytes, err := one.readTLV()
		if err != nil {
			return PDU{}, err
		}
		value, err := decodeValue(valueTag, valueBytes)
		if err != nil {
			return PDU{}, err
		}

		pdu.VarBinds = append(pdu.VarBinds, VarBind{OID: oid, Value: value})
	}

	return pdu, nil
}

func decodeValue(tag byte, content []byte) (Value, error) {
	switch tag {
	case tagNull:
		return Value{Type: TypeNull}, nil
	case tagInteger:
		v, err := decodeInt(content)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeInteger, Int: v}, nil
	case tagOctetString, tagOpaque:
		return Value{Type: TypeOctetString, Bytes: content}, nil
	case tagOID:
		oid, err := decodeOID(content)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeOID, OID: oid}, nil
	case tagIPAddress:
		return Value{Type: TypeIPAddress, Bytes: content}, nil
	case tagCounter32, tagGauge32, tagTimeTicks, tagCounter64:
		v, err := decodeUint(content)
		if err != nil {
			return Value{}, err
		}
		t := TypeCounter32
		switch tag {
		case tagGauge32:
			t = TypeGauge32
		case tagTimeTicks:
			t = TypeTimeTicks
		case tagCounter64:
			t = TypeCounter64
		}
		return Value{Type: t, Uint: v}, nil
	case tagNoSuchObject:
		return Value{Type: TypeNoSuchObject}, nil
	case tagNoSuchInstance:
		return Value{Type: TypeNoSuchInstance}, nil
	case tagEndOfMibView:
		return Value{Type: TypeEndOfMibView}, nil
	default:
		// Unknown value types are tolerated, not fatal.
		return Value{Type: TypeNull}, nil
	}
}
