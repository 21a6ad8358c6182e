package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_registersOnOwnRegistry(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := NewClient(reg)

	m.Inserts.Add(3)
	m.InsertDuration.Observe(0.002)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Inserts))
	n, err := testutil.GatherAndCount(reg, "vectrasmoke_inserts_total", "vectrasmoke_insert_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// a second run gets a clean slate on a fresh registry
	require.NotPanics(t, func() { NewClient(prometheus.NewRegistry()) })
}

func TestNewServer_nilRegistererIsUnregistered(t *testing.T) {
	a := NewServer(nil)
	b := NewServer(nil)

	a.TotalVectors.Set(10)
	assert.Equal(t, 10.0, testutil.ToFloat64(a.TotalVectors))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.TotalVectors))
}
