package writer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perfkit/usertop/pkg/sampler"
)

func TestTableWritesRankedReport(t *testing.T) {
	var buf bytes.Buffer
	w := NewTable(&buf)

	err := w.Write([]sampler.UserTotal{
		{UID: 1001, Name: "bob", CPUMillis: 5000},
		{UID: 1000, Name: "alice", CPUMillis: 3000},
		{UID: 0, Name: "root", CPUMillis: 120},
	})
	require.NoError(t, err)

	want := "Rank User                 CPU Time (milliseconds)\n" +
		"----------------------------------------\n" +
		"1    bob                  5000\n" +
		"2    alice                3000\n" +
		"3    root                 120\n"
	require.Equal(t, want, buf.String())
}

func TestTableSkipsUsersWithNoChargedTime(t *testing.T) {
	var buf bytes.Buffer
	w := NewTable(&buf)

	err := w.Write([]sampler.UserTotal{
		{UID: 1000, Name: "alice", CPUMillis: 10},
		{UID: 1001, Name: "bob", CPUMillis: 0},
		{UID: 1002, Name: "carol", CPUMillis: 7},
	})
	require.NoError(t, err)

	want := "Rank User                 CPU Time (milliseconds)\n" +
		"----------------------------------------\n" +
		"1    alice                10\n" +
		"2    carol                7\n"
	require.Equal(t, want, buf.String())
}

func TestTableEmptyTotals(t *testing.T) {
	var buf bytes.Buffer
	w := NewTable(&buf)

	require.NoError(t, w.Write(nil))

	want := "Rank User                 CPU Time (milliseconds)\n" +
		"----------------------------------------\n"
	require.Equal(t, want, buf.String())
}

func TestTableName(t *testing.T) {
	require.Equal(t, "table", NewTable(&bytes.Buffer{}).Name())
}
