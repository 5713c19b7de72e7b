package sampler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTickerSchedulerRunsPeriodically(t *testing.T) {
	var calls int64
	cancel := TickerScheduler{}.SchedulePeriodic(5*time.Millisecond, func() {
		atomic.AddInt64(&calls, 1)
	})
	defer cancel()

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&calls) >= 3
	}, time.Second, time.Millisecond)
}

func TestTickerSchedulerCancelStopsFurtherCalls(t *testing.T) {
	var calls int64
	cancel := TickerScheduler{}.SchedulePeriodic(2*time.Millisecond, func() {
		atomic.AddInt64(&calls, 1)
	})

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&calls) >= 1
	}, time.Second, time.Millisecond)

	cancel()
	cancel() // must be idempotent
	after := atomic.LoadInt64(&calls)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, after, atomic.LoadInt64(&calls))
}
