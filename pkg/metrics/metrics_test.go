package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.AssistantQueries.WithLabelValues("ok").Inc()
	m.ReferenceIntegrityFailures.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.AssistantQueries.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReferenceIntegrityFailures))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	// a second set on a fresh registry must not collide
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}
