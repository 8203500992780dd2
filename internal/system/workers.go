package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// RecommendedWorkers sizes the sampler pool: one worker per logical core,
// capped so that in-flight frame buffers (two per worker: canvas plus
// encoder copy) stay within a quarter of available memory.
func RecommendedWorkers(frameBytes uint64) int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}

	if frameBytes > 0 {
		if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
			budget := int(vm.Available / 4 / (frameBytes * 2))
			if budget < n {
				n = budget
			}
		}
	}

	if n < 1 {
		n = 1
	}
	return n
}
