package sysstats

import (
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestWorkerStartAndShutdown(t *testing.T) {
	w := New(10*time.Millisecond, zaptest.NewLogger(t))
	w.Start()
	time.Sleep(25 * time.Millisecond)
	w.Shutdown()
}

func TestSampleDoesNotPanic(t *testing.T) {
	w := New(time.Second, zaptest.NewLogger(t))
	w.sample()
}
