package system

import (
	"log"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// frameBudget is the memory reserved per export worker.
const frameBudget = 64 << 20

// WorkerCount returns the number of export workers to run. A positive
// request is honored; otherwise the logical CPU count is used, reduced when
// available memory cannot hold a frame budget per worker.
func WorkerCount(requested int) int {
	if requested > 0 {
		return requested
	}

	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}

	if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
		if byMem := int(vm.Available / frameBudget); byMem < n {
			log.Printf("[!] Limiting workers to %d by available memory (%d MiB)", max(byMem, 1), vm.Available>>20)
			n = byMem
		}
	}
	return max(n, 1)
}

// ResolveEncoder maps "auto" or "" to the best H.264 encoder the given
// ffmpeg binary offers and returns any other name unchanged. An empty
// binary means ffmpeg on PATH.
func ResolveEncoder(binary, name string) string {
	if name == "" || name == "auto" {
		return GetBestH264Encoder(binary)
	}
	return name
}

// GetBestH264Encoder asks binary for its encoders, preferring hardware ones
// and falling back to libx264.
func GetBestH264Encoder(binary string) string {
	if binary == "" {
		binary = "ffmpeg"
	}
	// Priority:
	// 1. macOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	out, err := exec.Command(binary, "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, enc := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}
	return "libx264"
}

// HasFFmpeg reports whether ffmpeg is on PATH.
func HasFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}
