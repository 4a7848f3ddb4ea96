package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortSimulationRunsClean(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping simulation in short mode")
	}

	sim := NewSimulator(SimConfig{
		NumReaders:     3,
		NumPosts:       40,
		PageSize:       8,
		OverlapPages:   true,
		Duration:       2 * time.Second,
		RefreshPercent: 0.2,
		LikePercent:    0.2,
		TickInterval:   10 * time.Millisecond,
	})

	require.NoError(t, sim.Run(context.Background()))

	stats := sim.GetStats()
	assert.Greater(t, stats.PageLoads, int64(0))
	assert.Zero(t, stats.DuplicateViolations, "snapshots must never contain duplicate post ids")
	assert.Zero(t, stats.OrderViolations, "snapshots must stay sorted newest first")
	assert.Zero(t, stats.FailedOps)
}
