// Package procfs reads point-in-time process snapshots from a procfs
// mountpoint: the cumulative CPU time a process has been scheduled for and
// the user account that owns it.
package procfs

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/procfs"
)

// DefaultMountPoint is the usual mountpoint of the proc pseudo-filesystem.
const DefaultMountPoint = procfs.DefaultMountPoint

// ProcSnapshot is one process's state at a single read: the cumulative CPU
// time it has consumed since it started, in scheduler clock ticks, and the
// real UID that owns it.
type ProcSnapshot struct {
	UID   uint32
	Ticks uint64
}

// FS reads processes from a procfs mountpoint.
type FS struct {
	path string
	fs   procfs.FS
}

// NewFS returns a new FS for the given mountpoint.
func NewFS(path string) (FS, error) {
	fs, err := procfs.NewFS(path)
	if err != nil {
		return FS{}, errors.Wrapf(err, "unable to open procfs at %q", path)
	}
	return FS{path: path, fs: fs}, nil
}

// PIDs returns the PIDs of every currently visible process, in no
// particular order.
func (fs FS) PIDs() ([]int, error) {
	procs, err := fs.fs.AllProcs()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list processes")
	}

	pids := make([]int, 0, len(procs))
	for _, p := range procs {
		pids = append(pids, p.PID)
	}
	return pids, nil
}

// Snapshot reads pid's cumulative CPU time and owner. ok is false when the
// process no longer exists or its stat record cannot be read whole;
// processes exit between enumeration and read at every pass under normal
// load, so callers treat a false here as "skip", not as a failure.
func (fs FS) Snapshot(pid int) (ProcSnapshot, bool) {
	uid, ok := fs.owner(pid)
	if !ok {
		return ProcSnapshot{}, false
	}

	ticks, ok := fs.cpuTicks(pid)
	if !ok {
		return ProcSnapshot{}, false
	}

	return ProcSnapshot{UID: uid, Ticks: ticks}, true
}

// owner returns the real UID of pid. The /proc/<pid> directory is owned by
// the process's real UID; unlike the Uid line in status, directory
// ownership is assigned by the kernel and cannot be misreported by the
// process itself.
func (fs FS) owner(pid int) (uint32, bool) {
	fi, err := os.Stat(filepath.Join(fs.path, strconv.Itoa(pid)))
	if err != nil {
		return 0, false
	}

	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return st.Uid, true
}

func (fs FS) cpuTicks(pid int) (uint64, bool) {
	b, err := os.ReadFile(filepath.Join(fs.path, strconv.Itoa(pid), "stat"))
	if err != nil {
		return 0, false
	}
	return parseStatTicks(string(b))
}

// parseStatTicks extracts utime+stime (fields 14 and 15 of
// /proc/<pid>/stat, 1-indexed) from a stat record. The comm field is free
// text that may itself contain spaces and parentheses, so the parser
// anchors on the last ')' in the record and walks the remaining fields
// positionally: state, ten integers, utime, stime.
func parseStatTicks(line string) (uint64, bool) {
	i := strings.LastIndexByte(line, ')')
	if i < 0 {
		return 0, false
	}

	fields := strings.Fields(line[i+1:])
	if len(fields) < 13 {
		return 0, false
	}

	utime, err := strconv.ParseUint(fields[11], 10, 64)
	if err != nil {
		return 0, false
	}

	stime, err := strconv.ParseUint(fields[12], 10, 64)
	if err != nil {
		return 0, false
	}

	return utime + stime, true
}
