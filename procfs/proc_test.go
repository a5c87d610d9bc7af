package procfs

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// statLine builds a /proc/<pid>/stat record around the given comm, utime
// and stime, with realistic filler for the remaining fields.
func statLine(pid int, comm string, utime, stime uint64) string {
	return strconv.Itoa(pid) + " (" + comm + ") S 1 1 1 0 -1 4194560 1000 0 2 0 " +
		strconv.FormatUint(utime, 10) + " " + strconv.FormatUint(stime, 10) +
		" 0 0 20 0 1 0 12345 223456256 1220 18446744073709551615\n"
}

func writeFakeProc(t *testing.T, root string, pid int, stat string) {
	t.Helper()
	dir := filepath.Join(root, strconv.Itoa(pid))
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stat"), []byte(stat), 0o644))
}

func TestParseStatTicks(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		ticks uint64
		ok    bool
	}{
		{
			name:  "plain comm",
			line:  statLine(1, "init", 100, 50),
			ticks: 150,
			ok:    true,
		},
		{
			name:  "comm with spaces",
			line:  statLine(42, "tmux: server", 7, 3),
			ticks: 10,
			ok:    true,
		},
		{
			name:  "comm with parentheses",
			line:  statLine(42, "weird (name) ((", 250, 0),
			ticks: 250,
			ok:    true,
		},
		{
			name: "no closing parenthesis",
			line: "42 no-parens S 1 1",
			ok:   false,
		},
		{
			name: "truncated record",
			line: "42 (short) S 1 1 1 0 -1",
			ok:   false,
		},
		{
			name: "garbage where utime should be",
			line: "42 (bad) S 1 1 1 0 -1 4194560 1000 0 2 0 xyz 5 0 0 20 0 1 0",
			ok:   false,
		},
		{
			name: "empty",
			line: "",
			ok:   false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ticks, ok := parseStatTicks(test.line)
			require.Equal(t, test.ok, ok)
			if test.ok {
				require.Equal(t, test.ticks, ticks)
			}
		})
	}
}

func TestPIDsEnumeratesNumericEntries(t *testing.T) {
	root := t.TempDir()
	writeFakeProc(t, root, 1, statLine(1, "init", 1, 1))
	writeFakeProc(t, root, 42, statLine(42, "worker", 2, 2))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sys"), 0o755))

	fs, err := NewFS(root)
	require.NoError(t, err)

	pids, err := fs.PIDs()
	require.NoError(t, err)
	require.ElementsMatch(t, []int{1, 42}, pids)
}

func TestSnapshotReadsTicksAndOwner(t *testing.T) {
	root := t.TempDir()
	writeFakeProc(t, root, 42, statLine(42, "worker (v2)", 100, 150))

	fs, err := NewFS(root)
	require.NoError(t, err)

	snap, ok := fs.Snapshot(42)
	require.True(t, ok)
	require.Equal(t, uint64(250), snap.Ticks)
	// the fake pid directory was created by the test, so its owner is us
	require.Equal(t, uint32(os.Getuid()), snap.UID)
}

func TestSnapshotGoneProcessIsNotFound(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	_, ok := fs.Snapshot(12345)
	require.False(t, ok)
}

func TestSnapshotMalformedStatIsNotFound(t *testing.T) {
	root := t.TempDir()
	writeFakeProc(t, root, 7, "7 (broken\n")

	fs, err := NewFS(root)
	require.NoError(t, err)

	_, ok := fs.Snapshot(7)
	require.False(t, ok)
}

func TestNewFSMissingMountpoint(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestTicksPerSecondIsPositive(t *testing.T) {
	require.Greater(t, TicksPerSecond(), int64(0))
}
