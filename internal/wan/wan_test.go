package wan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netgauge/internal/models"
	"netgauge/internal/snmp"
)

// fakeClient serves canned ifDescr rows and counter cells.
type fakeClient struct {
	descrs   map[int]string       // ifIndex -> ifDescr
	counters map[string]uint64    // full OID string -> counter value
	getErr   error
	walkErr  error
}

func (f *fakeClient) Get(_ models.Target, oid snmp.OID) (snmp.Value, bool, error) {
	if f.getErr != nil {
		return snmp.Value{}, false, f.getErr
	}
	v, ok := f.counters[oid.String()]
	if !ok {
		return snmp.Value{}, false, nil
	}
	return snmp.Value{Type: snmp.TypeCounter32, Uint: v}, true, nil
}

func (f *fakeClient) Walk(_ models.Target, prefix snmp.OID, fn func(snmp.VarBind) error) error {
	if f.walkErr != nil {
		return f.walkErr
	}
	for i := 1; i <= len(f.descrs); i++ {
		descr, ok := f.descrs[i]
		if !ok {
			continue
		}
		err := fn(snmp.VarBind{
			OID:   prefix.Append(uint32(i)),
			Value: snmp.Value{Type: snmp.TypeOctetString, Bytes: []byte(descr)},
		})
		if errors.Is(err, snmp.ErrStopWalk) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

var testTarget = models.Target{Host: "192.168.1.1", Port: 161, Community: "public"}

func TestDetectInterfaceIndex(t *testing.T) {
	f := &Fetcher{client: &fakeClient{
		descrs: map[int]string{1: "eth0", 2: "ppp0", 3: "lo"},
	}}

	index, name, found := f.DetectInterfaceIndex(testTarget, "ppp")
	require.True(t, found)
	assert.Equal(t, 2, index)
	assert.Equal(t, "ppp0", name)
}

func TestDetectInterfaceIndexFirstMatchWins(t *testing.T) {
	f := &Fetcher{client: &fakeClient{
		descrs: map[int]string{1: "ppp0", 2: "ppp1"},
	}}

	index, name, found := f.DetectInterfaceIndex(testTarget, "ppp")
	require.True(t, found)
	assert.Equal(t, 1, index)
	assert.Equal(t, "ppp0", name)
}

func TestDetectInterfaceIndexNoMatch(t *testing.T) {
	f := &Fetcher{client: &fakeClient{
		descrs: map[int]string{1: "eth0", 2: "lo"},
	}}

	_, _, found := f.DetectInterfaceIndex(testTarget, "ppp")
	assert.False(t, found)

	// Matching is case-sensitive
	_, _, found = f.DetectInterfaceIndex(testTarget, "ETH")
	assert.False(t, found)
}

func TestDetectInterfaceIndexWalkFailure(t *testing.T) {
	f := &Fetcher{client: &fakeClient{walkErr: errors.New("timeout")}}

	_, _, found := f.DetectInterfaceIndex(testTarget, "ppp")
	assert.False(t, found, "a failed walk reads as nothing detected")
}

func TestFetchWanStats(t *testing.T) {
	f := &Fetcher{client: &fakeClient{
		counters: map[string]uint64{
			"1.3.6.1.2.1.2.2.1.10.2": 123456,
			"1.3.6.1.2.1.2.2.1.16.2": 654321,
		},
	}}

	stats, err := f.FetchWanStats(testTarget, 2, "ppp0")
	require.NoError(t, err)
	assert.Equal(t, "ppp0", stats.Interface)
	assert.Equal(t, uint64(123456), stats.RxBytes)
	assert.Equal(t, uint64(654321), stats.TxBytes)
	assert.Equal(t, models.KindWan, stats.Kind)
	assert.Equal(t, 2, stats.IfIndex)
	assert.False(t, stats.SampledAt.IsZero())
}

func TestFetchWanStatsMissingCounterFails(t *testing.T) {
	// rx present, tx absent
	f := &Fetcher{client: &fakeClient{
		counters: map[string]uint64{"1.3.6.1.2.1.2.2.1.10.2": 123456},
	}}

	_, err := f.FetchWanStats(testTarget, 2, "ppp0")
	assert.Error(t, err, "partial counters are worse than none")
}

func TestFetchWanStatsNetworkFailure(t *testing.T) {
	netErr := errors.New("read timeout")
	f := &Fetcher{client: &fakeClient{getErr: netErr}}

	_, err := f.FetchWanStats(testTarget, 2, "ppp0")
	assert.ErrorIs(t, err, netErr)
}
