// Package sampler implements the per-user CPU attribution engine. It polls
// every visible process once per pass, diffs each cumulative CPU counter
// against the previous pass and folds the growth into a running total per
// owning user. The process table changes underneath it the whole time, so
// the engine has to tolerate processes vanishing between enumeration and
// read, PIDs being recycled for unrelated processes and counters that appear
// to move backwards.
package sampler

import (
	"os/user"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/perfkit/usertop/internal/log"
	"github.com/perfkit/usertop/procfs"
)

// maxUsers caps the user table, matching the sizing of comparable per-user
// accounting tools. At capacity, charges to users not yet in the table are
// dropped; users already tracked keep accumulating normally.
const maxUsers = 4096

// Source lists the currently visible PIDs and reads point-in-time process
// snapshots. procfs.FS is the production implementation.
type Source interface {
	PIDs() ([]int, error)
	Snapshot(pid int) (procfs.ProcSnapshot, bool)
}

// UserTotal is the CPU time charged to one user so far.
type UserTotal struct {
	UID       uint32
	Name      string
	CPUMillis int64
}

// history is what the engine remembers about a PID between passes: the
// owner recorded when the PID was first seen and the counter value at the
// previous pass. A slot is overwritten, never diffed, when the same PID
// resurfaces under a different owner, since that means the kernel recycled
// the PID for an unrelated process.
type history struct {
	uid   uint32
	ticks uint64
}

// Sampler charges per-process CPU time growth to the owning users. Each
// Sampler instance owns its history and totals outright, so independent
// instances never interfere.
type Sampler struct {
	src    Source
	hz     int64
	lookup func(id string) (*user.User, error)

	// mu exists for the optional live metrics endpoint, which reads
	// Totals while the tick loop is mid-pass. The tick loop itself is
	// strictly sequential.
	mu     sync.Mutex
	seen   map[int]history
	totals map[uint32]*UserTotal
	order  []uint32
}

// New returns a Sampler reading from src, converting counters at
// ticksPerSecond scheduler ticks per second.
func New(src Source, ticksPerSecond int64) *Sampler {
	return &Sampler{
		src:    src,
		hz:     ticksPerSecond,
		lookup: user.LookupId,
		seen:   make(map[int]history),
		totals: make(map[uint32]*UserTotal),
	}
}

// Sample performs one full pass over the visible process table. The
// baseline pass records every counter without charging, so CPU time spent
// before the run started is never counted. Every later pass charges counter
// growth to the owner — or, for a process with no usable history in this
// run, its whole counter: a process first seen mid-run is taken to have
// been born after the run started. That deliberately over-charges a process
// the baseline pass happened to miss; the alternative would silently drop
// genuinely new processes, which is worse.
func (s *Sampler) Sample(baseline bool) error {
	pids, err := s.src.PIDs()
	if err != nil {
		return errors.Wrap(err, "process enumeration failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pid := range pids {
		snap, ok := s.src.Snapshot(pid)
		if !ok {
			// raced away between enumeration and read
			continue
		}

		prev, known := s.seen[pid]
		switch {
		case !known || prev.uid != snap.UID:
			// First sight, or the PID now belongs to a different
			// user's process. Either way there is nothing to diff
			// against.
			if !baseline {
				s.charge(snap.UID, ticksToMillis(snap.Ticks, s.hz))
			}
			s.seen[pid] = history{uid: snap.UID, ticks: snap.Ticks}
		case !baseline:
			delta := int64(snap.Ticks) - int64(prev.ticks)
			if delta < 0 {
				// a live process's counter never decreases, but a
				// measurement race must not poison the totals
				delta = 0
			}
			s.seen[pid] = history{uid: snap.UID, ticks: snap.Ticks}
			s.charge(snap.UID, ticksToMillis(uint64(delta), s.hz))
		}
	}

	return nil
}

// Totals returns every user with charged CPU time, highest first. Users tied
// on total keep the order they were first charged in, so repeated calls
// rank identically.
func (s *Sampler) Totals() []UserTotal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]UserTotal, 0, len(s.order))
	for _, uid := range s.order {
		t := s.totals[uid]
		if t.CPUMillis <= 0 {
			continue
		}
		out = append(out, *t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CPUMillis > out[j].CPUMillis
	})
	return out
}

// charge adds ms to uid's running total, creating the table entry on the
// first positive charge. Callers must hold s.mu.
func (s *Sampler) charge(uid uint32, ms int64) {
	if ms <= 0 {
		return
	}

	t, ok := s.totals[uid]
	if !ok {
		if len(s.totals) >= maxUsers {
			log.Debug("user table full (%d entries), dropping charge for uid %d", maxUsers, uid)
			return
		}
		t = &UserTotal{UID: uid, Name: s.resolveName(uid)}
		s.totals[uid] = t
		s.order = append(s.order, uid)
	}

	t.CPUMillis += ms
}

// resolveName maps uid to an account name once, at table-entry creation.
// When the host has no matching account the decimal UID is used instead.
func (s *Sampler) resolveName(uid uint32) string {
	id := strconv.FormatUint(uint64(uid), 10)
	u, err := s.lookup(id)
	if err != nil || u.Username == "" {
		return id
	}
	return u.Username
}

// ticksToMillis converts scheduler ticks to milliseconds with integer math,
// so 250 ticks at 100 Hz is exactly 2500 ms.
func ticksToMillis(ticks uint64, hz int64) int64 {
	return int64(ticks) * 1000 / hz
}
