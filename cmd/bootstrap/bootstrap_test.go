package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSyncContext_IndependentOfStartupDeadline(t *testing.T) {
	startup, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	<-startup.Done()
	cancel()

	ctx, cancelSync := newSyncContext()
	defer cancelSync()

	require.NoError(t, ctx.Err())
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(slotSyncTimeout), deadline, 5*time.Second)
	assert.Greater(t, slotSyncTimeout, 10*time.Second)
}

func TestSetupLogger_FallsBackToInfo(t *testing.T) {
	assert.Equal(t, "debug", setupLogger("debug").GetLevel().String())
	assert.Equal(t, "info", setupLogger("chatty").GetLevel().String())
}
