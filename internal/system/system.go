// Package system inspects the host the CLI runs on.
package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// DefaultWorkers returns the number of physical cores, falling back to the
// logical CPU count when the host cannot report it.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Host summarizes the machine for the stats command.
type Host struct {
	CPUModel      string  `json:"cpuModel,omitempty" yaml:"cpuModel,omitempty"`
	PhysicalCores int     `json:"physicalCores" yaml:"physicalCores"`
	LogicalCores  int     `json:"logicalCores" yaml:"logicalCores"`
	TotalMemory   uint64  `json:"totalMemory,omitempty" yaml:"totalMemory,omitempty"`
	UsedPercent   float64 `json:"memoryUsedPercent,omitempty" yaml:"memoryUsedPercent,omitempty"`
}

// Inspect reports what the host exposes. Fields the host cannot report are
// left zero.
func Inspect() Host {
	h := Host{
		PhysicalCores: DefaultWorkers(),
		LogicalCores:  runtime.NumCPU(),
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		h.LogicalCores = n
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.TotalMemory = vm.Total
		h.UsedPercent = vm.UsedPercent
	}
	return h
}
