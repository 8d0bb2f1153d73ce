package hidhide_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantukin/dx3/internal/hidhide"
)

func TestPathToInstanceID(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "hidapi path",
			path: `\\?\hid#vid_054c&pid_0ce6#7&2f3a9b1&0&0000#{4d1e55b2-f16f-11cf-88cb-001111000030}`,
			want: `HID\VID_054C&PID_0CE6\7&2F3A9B1&0&0000`,
		},
		{
			name: "uppercase prefix",
			path: `\\?\HID#VID_054C&PID_05C4#8&c0ffee&0&0000#{guid}`,
			want: `HID\VID_054C&PID_05C4\8&C0FFEE&0&0000`,
		},
		{
			name: "no hid marker",
			path: `\\?\usb#vid_054c&pid_0ce6#serial#{guid}`,
			want: "",
		},
		{
			name: "too few segments",
			path: `hid#vid_054c&pid_0ce6`,
			want: "",
		},
		{
			name: "empty",
			path: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hidhide.PathToInstanceID(tt.path))
		})
	}
}

func TestDisabledClientIsInert(t *testing.T) {
	c := hidhide.Disabled()

	assert.False(t, c.Installed())
	assert.NoError(t, c.WhitelistSelf())
	assert.NoError(t, c.Hide(`HID\VID_054C&PID_0CE6\1`))
	assert.NoError(t, c.Unhide(`HID\VID_054C&PID_0CE6\1`))
	c.UnhideAll()
}
