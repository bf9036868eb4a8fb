package signal

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickerScheduler_RunsUntilStopped(t *testing.T) {
	var n atomic.Int32
	stop := TickerScheduler{}.Every(5*time.Millisecond, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	stop()
	stop()
	time.Sleep(20 * time.Millisecond)
	after := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}

func TestTickerScheduler_StopFromCallback(t *testing.T) {
	var n atomic.Int32
	var stop func()
	ready := make(chan struct{})
	stop = TickerScheduler{}.Every(5*time.Millisecond, func() {
		<-ready
		n.Add(1)
		stop()
	})
	close(ready)

	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), n.Load())
}
