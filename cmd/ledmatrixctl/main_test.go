package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/device"
	"codeberg.org/mutker/ledmatrixctl/internal/inventory"
	"codeberg.org/mutker/ledmatrixctl/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentProfile(t *testing.T) {
	dir := t.TempDir()
	sel := profile.NewFileSelector(filepath.Join(dir, ".ledmatrix-profile"))

	name, note := currentProfile(sel)
	assert.Equal(t, profile.Default, name)
	assert.Contains(t, note, "unreadable")

	require.NoError(t, os.WriteFile(sel.Path(), []byte(" Shimmer\n"), 0o644))
	name, note = currentProfile(sel)
	assert.Equal(t, profile.Shimmer, name)
	assert.Empty(t, note)

	require.NoError(t, os.WriteFile(sel.Path(), []byte("\n"), 0o644))
	name, note = currentProfile(sel)
	assert.Equal(t, profile.Default, name)
	assert.Contains(t, note, "empty")

	require.NoError(t, os.WriteFile(sel.Path(), []byte("disco"), 0o644))
	name, note = currentProfile(sel)
	assert.Equal(t, profile.Default, name)
	assert.Contains(t, note, `"disco"`)
}

func TestProfileSetAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ledmatrix-profile")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"profile", "set", "ram", "--profile-file", path})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "ram")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ram\n", string(data))

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"profile", "list", "--profile-file", path})
	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(profile.All()))
	for _, l := range lines {
		if strings.HasPrefix(l, "*") {
			assert.Contains(t, l, "ram")
		}
	}
}

func TestProfileSetRejectsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ledmatrix-profile")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"profile", "set", "disco", "--profile-file", path})
	require.Error(t, root.Execute())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRenderPorts(t *testing.T) {
	assert.Contains(t, renderPorts(nil), "No serial ports")

	out := renderPorts([]device.PortInfo{
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "32ac", PID: "0020", Product: "LED Matrix Input Module"},
		{Name: "/dev/ttyS0"},
	})
	assert.Contains(t, out, "/dev/ttyACM0")
	assert.Contains(t, out, "32ac:0020")
	assert.Contains(t, out, "/dev/ttyS0")
}

func TestRenderPanels(t *testing.T) {
	assert.Contains(t, renderPanels(nil), "No panels")

	seen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := renderPanels([]inventory.Panel{
		{Port: "/dev/ttyACM1", Side: "left", Firmware: "0.1.7", Connected: true, SeenAt: seen},
		{Port: "/dev/ttyACM0", Side: "right", SeenAt: seen},
	})
	assert.Contains(t, out, "0.1.7")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, seen.Format(time.RFC3339))
}
