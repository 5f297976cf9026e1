package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SysHealth is a point-in-time view of the process and its data directories.
type SysHealth struct {
	AllocMB      uint64
	SysMB        uint64
	NumGC        uint32
	Goroutines   int
	DataDiskSize string
}

// GetSysHealth collects memory stats and the combined size of dirs. Missing directories
// count as empty.
func GetSysHealth(dirs ...string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var size int64
	for _, dir := range dirs {
		size += dirSize(dir)
	}

	return SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DataDiskSize: humanBytes(size),
	}
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func humanBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// FormatReport renders usage rows and health as plain text for the CLI and the bot.
func FormatReport(usage []DailyUsage, health SysHealth) string {
	var sb strings.Builder
	sb.WriteString("Usage by day\n")
	if len(usage) == 0 {
		sb.WriteString("  no calls recorded\n")
	}
	for _, u := range usage {
		fmt.Fprintf(&sb, "  %s  calls: %d  failed: %d  prompt: %d  completion: %d\n",
			u.Date, u.TotalExecution, u.Failures, u.TotalPrompt, u.TotalCompletion)
	}
	sb.WriteString("\nSystem\n")
	fmt.Fprintf(&sb, "  memory: %d MB alloc / %d MB sys\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(&sb, "  goroutines: %d  gc cycles: %d\n", health.Goroutines, health.NumGC)
	fmt.Fprintf(&sb, "  data on disk: %s\n", health.DataDiskSize)
	return sb.String()
}
