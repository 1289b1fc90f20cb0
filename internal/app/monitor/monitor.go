package monitor

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

//go:generate mockgen -source=monitor.go -destination=monitor_mock.go -package=monitor

// bytesPerMB converts RSS bytes to megabytes
const bytesPerMB = 1024 * 1024

// Stats contains process resource statistics
type Stats struct {
	CPU float64
	MEM float64 // in MB
}

// String renders the stats for the footer
func (s Stats) String() string {
	if s.MEM >= 1024 {
		return fmt.Sprintf("cpu %.1f%% • mem %.1fGB", s.CPU, s.MEM/1024)
	}

	return fmt.Sprintf("cpu %.1f%% • mem %.0fMB", s.CPU, s.MEM)
}

// Monitor samples CPU and memory of a process
type Monitor interface {
	GetStats(ctx context.Context, pid int) (Stats, error)
	Self(ctx context.Context) (Stats, error)
}

type monitor struct {
	pid int
}

// NewMonitor creates a monitor whose Self reports the current process
func NewMonitor() Monitor {
	return &monitor{pid: os.Getpid()}
}

// Self returns the stats of the viewer process itself
func (m *monitor) Self(ctx context.Context) (Stats, error) {
	return m.GetStats(ctx, m.pid)
}

func (m *monitor) GetStats(ctx context.Context, pid int) (Stats, error) {
	if pid <= 0 || pid > math.MaxInt32 {
		return Stats{}, nil
	}

	proc, err := process.NewProcessWithContext(ctx, int32(pid)) // #nosec G115 -- PID range checked above
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{}

	if cpuPercent, err := proc.CPUPercentWithContext(ctx); err == nil {
		stats.CPU = cpuPercent
	}

	if memInfo, err := proc.MemoryInfoWithContext(ctx); err == nil {
		stats.MEM = float64(memInfo.RSS) / bytesPerMB
	}

	return stats, nil
}
