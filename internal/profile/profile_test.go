package profile_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantukin/dx3/internal/output"
	"github.com/mantukin/dx3/internal/profile"
	"github.com/mantukin/dx3/internal/xpad"
	"github.com/mantukin/dx3/mapping"
)

func TestDefaultCompiles(t *testing.T) {
	p := profile.Default()

	table, tun, err := p.Compile()
	require.NoError(t, err)
	assert.Len(t, table, len(p.Mappings))
	assert.Equal(t, 0.1, tun.DeadzoneLeft)
	assert.Equal(t, 25.0, tun.SensLeft)

	// Sorted source order keeps the table stable across loads.
	assert.Equal(t, mapping.Circle, table[0].Source)
	assert.Equal(t, mapping.Cross, table[1].Source)
}

func TestCompileRejectsBadSource(t *testing.T) {
	p := profile.Default()
	p.Mappings["warp"] = []string{"pad:a"}

	_, _, err := p.Compile()
	assert.ErrorContains(t, err, "warp")
}

func TestCompileRejectsBadTarget(t *testing.T) {
	p := profile.Default()
	p.Mappings["cross"] = []string{"pad:nope"}

	_, _, err := p.Compile()
	assert.ErrorContains(t, err, "nope")
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want mapping.Target
	}{
		{"pad:a", mapping.Target{Kind: mapping.TargetPadButtons, Buttons: xpad.ButtonA}},
		{"pad:dpad_left", mapping.Target{Kind: mapping.TargetPadButtons, Buttons: xpad.ButtonDPadLeft}},
		{"pad:lt", mapping.Target{Kind: mapping.TargetPadLT}},
		{"pad:rs", mapping.Target{Kind: mapping.TargetPadRS}},
		{"key:space", mapping.Target{Kind: mapping.TargetKey, Key: output.KeySpace}},
		{"KEY:W", mapping.Target{Kind: mapping.TargetKey, Key: output.KeyW}},
		{"mouse:left", mapping.Target{Kind: mapping.TargetMouseButton, MouseButton: output.MouseLeft}},
		{"mouse:right", mapping.Target{Kind: mapping.TargetMouseButton, MouseButton: output.MouseRight}},
		{"mouse-move:1.5,0.5", mapping.Target{Kind: mapping.TargetMouseMove, XSpeed: 1.5, YSpeed: 0.5}},
		{"mouse-move: 2 , 3 ", mapping.Target{Kind: mapping.TargetMouseMove, XSpeed: 2, YSpeed: 3}},
		{"scroll:2", mapping.Target{Kind: mapping.TargetScroll, Speed: 2}},
		{"scroll:-1.5", mapping.Target{Kind: mapping.TargetScroll, Speed: -1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := profile.ParseTarget(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTargetErrors(t *testing.T) {
	bad := []string{
		"",
		"pad",
		"pad:zz",
		"key:notakey",
		"mouse:side",
		"mouse-move:1",
		"mouse-move:a,b",
		"scroll:fast",
		"laser:1",
	}

	for _, in := range bad {
		t.Run(in, func(t *testing.T) {
			_, err := profile.ParseTarget(in)
			assert.Error(t, err)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"profile.toml", "profile.yaml", "profile.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			p := profile.Default()
			p.Mappings["touchpad"] = []string{"mouse-move:1,1"}
			p.Output.LightbarRed = 128
			p.Output.LeftTrigger = profile.Trigger{Mode: 2, Start: 50, Force: 200}

			require.NoError(t, p.Save(path))

			got, err := profile.Load(path)
			require.NoError(t, err)
			assert.Equal(t, p.Mappings, got.Mappings)
			assert.Equal(t, p.Tunables, got.Tunables)
			assert.Equal(t, p.Output, got.Output)
		})
	}
}

func TestUnsupportedExtension(t *testing.T) {
	p := profile.Default()
	assert.Error(t, p.Save(filepath.Join(t.TempDir(), "profile.ini")))

	_, err := profile.Load(filepath.Join(t.TempDir(), "profile.ini"))
	assert.Error(t, err)
}

func TestOutputSettingsBrightness(t *testing.T) {
	p := profile.Default()
	p.Output.LightbarRed = 200
	p.Output.LightbarBlue = 100
	p.Output.Brightness = 128
	p.Output.RightTrigger = profile.Trigger{Mode: 2, Start: 40, Force: 255}

	set := p.OutputSettings()
	assert.Equal(t, uint8(100), set.Red)
	assert.Equal(t, uint8(0), set.Green)
	assert.Equal(t, uint8(50), set.Blue)
	assert.Equal(t, uint8(2), set.Right.Mode)
	assert.Equal(t, uint8(40), set.Right.Start)
	assert.Equal(t, uint8(255), set.Right.Force)
}
