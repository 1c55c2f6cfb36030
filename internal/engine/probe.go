package engine

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sirupsen/logrus"
)

// probeCapabilities asks the engine binary what it supports. Checking the
// encoder list proves the software stack is ready, not just that a codec
// library exists somewhere on the system.
func probeCapabilities(ctx context.Context, binPath string, log *logrus.Entry) Capabilities {
	caps := Capabilities{EncodeThreads: defaultEncodeThreads()}

	if info, err := cpu.InfoWithContext(ctx); err == nil && len(info) > 0 {
		caps.CPUModel = info[0].ModelName
	}

	cmd := exec.CommandContext(ctx, binPath, "-hide_banner", "-encoders")
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.WithError(err).Warn("encoder discovery failed; assuming full codec support")
		caps.VP9, caps.Opus, caps.MP3, caps.PCM = true, true, true, true
		return caps
	}

	outStr := string(output)
	caps.VP9 = strings.Contains(outStr, "libvpx-vp9")
	caps.Opus = strings.Contains(outStr, "libopus")
	caps.MP3 = strings.Contains(outStr, "libmp3lame")
	caps.PCM = strings.Contains(outStr, "pcm_s16le")
	return caps
}

func assumeAllCapabilities() Capabilities {
	return Capabilities{
		VP9:           true,
		Opus:          true,
		MP3:           true,
		PCM:           true,
		EncodeThreads: defaultEncodeThreads(),
	}
}

// defaultEncodeThreads picks a thread count for multi-threaded encoders.
// Capped because libvpx row-mt gains flatten out on wide machines.
func defaultEncodeThreads() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		n = runtime.NumCPU()
	}
	if n > 8 {
		n = 8
	}
	return n
}
