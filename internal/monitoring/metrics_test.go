package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordFlowWithNoopMeter(t *testing.T) {
	// Without a configured meter provider the global meter is a no-op;
	// recording must still work.
	m, err := NewMetrics()
	require.NoError(t, err)

	m.RecordFlow(context.Background(), "search", OutcomeSuccess, 120*time.Millisecond)
	m.RecordFlow(context.Background(), "translate", OutcomeFailed, time.Second)
}
