package monitoring

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is a point-in-time snapshot of the host the process runs on.
type HostStats struct {
	CPUPercent       float64 `json:"cpuPercent"`
	MemoryTotalBytes uint64  `json:"memoryTotalBytes"`
	MemoryUsedBytes  uint64  `json:"memoryUsedBytes"`
	MemoryPercent    float64 `json:"memoryPercent"`
	UptimeSeconds    uint64  `json:"uptimeSeconds"`
}

// SnapshotHostStats collects CPU, memory, and uptime figures for the host.
func SnapshotHostStats() (HostStats, error) {
	var stats HostStats

	percents, err := cpu.Percent(0, false)
	if err != nil {
		return stats, err
	}
	if len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return stats, err
	}
	stats.MemoryTotalBytes = vm.Total
	stats.MemoryUsedBytes = vm.Used
	stats.MemoryPercent = vm.UsedPercent

	uptime, err := host.Uptime()
	if err != nil {
		return stats, err
	}
	stats.UptimeSeconds = uptime

	return stats, nil
}
