package score

import (
	"log/slog"

	"golang.org/x/sys/cpu"
)

// useWideAccumulate selects the 4-way unrolled accumulation path for hosts
// that expose wide SIMD register files, following the capability-probe
// pattern in the teacher's internal/fit/ssd.go and sad.go (AVX2 on amd64,
// ASIMD on arm64), gated at init() time exactly as those files do.
var useWideAccumulate bool

func init() {
	switch {
	case cpu.X86.HasAVX2:
		useWideAccumulate = true
		slog.Debug("score: wide accumulation enabled", "reason", "AVX2")
	case cpu.ARM64.HasASIMD:
		useWideAccumulate = true
		slog.Debug("score: wide accumulation enabled", "reason", "ASIMD")
	default:
		useWideAccumulate = false
		slog.Debug("score: scalar accumulation selected", "reason", "no wide SIMD detected")
	}
}
