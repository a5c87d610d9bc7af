package procfs

import (
	sysconf "github.com/tklauser/go-sysconf"

	"github.com/perfkit/usertop/internal/log"
)

// fallbackTicksPerSecond is used when sysconf cannot report the clock tick
// rate. 100 Hz is the kernel default on every platform this tool targets.
const fallbackTicksPerSecond = 100

// TicksPerSecond returns the scheduler clock tick rate,
// sysconf(_SC_CLK_TCK). The rate is needed to convert the tick counters in
// /proc/<pid>/stat into wall-clock units.
func TicksPerSecond() int64 {
	hz, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || hz <= 0 {
		log.Debug("unable to read _SC_CLK_TCK, assuming %d Hz: %v", fallbackTicksPerSecond, err)
		return fallbackTicksPerSecond
	}
	return hz
}
