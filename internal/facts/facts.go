// Package facts collects basic platform information about the system
// imagecheck runs on, for inclusion alongside verification reports.
package facts

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Facts is a snapshot of the local platform.
type Facts struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelVersion   string `json:"kernel_version"`
	Arch            string `json:"arch"`
	CPUThreads      int    `json:"cpu_threads"`
	MemoryTotal     uint64 `json:"memory_total_bytes"`
}

// Collect gathers facts about the local system.
func Collect() (*Facts, error) {
	info, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("host info: %w", err)
	}

	f := &Facts{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		Arch:            info.KernelArch,
	}

	if threads, err := cpu.Counts(true); err == nil {
		f.CPUThreads = threads
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		f.MemoryTotal = vm.Total
	}
	return f, nil
}

// WriteTable renders the facts as a property/value table.
func WriteTable(w io.Writer, f *Facts) error {
	table := tablewriter.NewWriter(w)
	table.Header("PROPERTY", "VALUE")
	table.Append("Hostname", f.Hostname)
	table.Append("OS", f.OS)
	table.Append("Platform", fmt.Sprintf("%s %s", f.Platform, f.PlatformVersion))
	table.Append("Kernel", f.KernelVersion)
	table.Append("Architecture", f.Arch)
	table.Append("CPU Threads", fmt.Sprintf("%d", f.CPUThreads))
	table.Append("Memory", fmt.Sprintf("%.2f GB", float64(f.MemoryTotal)/(1024*1024*1024)))
	return table.Render()
}

// WriteJSON renders the facts as indented JSON.
func WriteJSON(w io.Writer, f *Facts) error {
	out, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal facts: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
