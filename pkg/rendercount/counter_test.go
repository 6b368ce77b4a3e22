package rendercount

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestCounterIsMonotonic(t *testing.T) {
	t.Parallel()

	c := New("Parent", "purple")
	require.Equal(t, 0, c.Count())
	require.Equal(t, 1, c.Render())
	require.Equal(t, 2, c.Render())
	require.Equal(t, "Parent | Render Count: 2", c.Label())
	require.True(t, strings.Contains(ansi.Strip(c.Badge()), c.Label()))
}

func TestUnknownColorFallsBack(t *testing.T) {
	t.Parallel()

	require.Equal(t, "blue", New("x", "chartreuse").Color)
}

func TestTrackerRemountResets(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	child := tr.Counter("child", "Child", "green")
	child.Render()
	child.Render()
	require.Same(t, child, tr.Counter("child", "ignored", "red"))
	require.Equal(t, 1, tr.Mounts("child"))

	fresh := tr.Remount("child")
	require.NotSame(t, child, fresh)
	require.Equal(t, 0, fresh.Count())
	require.Equal(t, "Child", fresh.Name)
	require.Equal(t, "green", fresh.Color)
	require.Equal(t, 2, tr.Mounts("child"))
}
