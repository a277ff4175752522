// Package sysstats periodically samples host CPU and memory usage and
// logs it, giving long-running batch jobs a visible heartbeat of resource
// pressure without requiring an external metrics scrape.
package sysstats

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
)

// Worker samples system stats on a fixed interval until Shutdown is called.
type Worker struct {
	interval time.Duration
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a stats worker that logs a sample every interval.
func New(interval time.Duration, logger *zap.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{interval: interval, logger: logger, ctx: ctx, cancel: cancel}
}

// Start begins periodic sampling in a background goroutine.
func (w *Worker) Start() {
	ticker := time.NewTicker(w.interval)
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.sample()
			case <-w.ctx.Done():
				return
			}
		}
	}()
}

// Shutdown stops sampling and waits for the background goroutine to exit.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) sample() {
	percents, err := cpu.Percent(0, false)
	var cpuPercent float64
	if err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}

	vmem, err := mem.VirtualMemory()
	var memUsedPercent float64
	var memUsedBytes uint64
	if err == nil {
		memUsedPercent = vmem.UsedPercent
		memUsedBytes = vmem.Used
	}

	w.logger.Info("system stats",
		zap.Float64("cpu_percent", cpuPercent),
		zap.Float64("mem_used_percent", memUsedPercent),
		zap.Uint64("mem_used_bytes", memUsedBytes),
	)
}
