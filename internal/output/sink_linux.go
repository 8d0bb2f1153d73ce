//go:build linux

package output

import (
	"fmt"
	"log/slog"

	"github.com/bendahl/uinput"

	"github.com/mantukin/dx3/internal/xpad"
)

const uinputPath = "/dev/uinput"

// Trigger press threshold for the digital trigger buttons uinput exposes.
const triggerThreshold = 0x20

// uinputSink drives three uinput devices: an xbox-layout gamepad plus a
// keyboard and mouse for the injection targets. The gamepad is created
// lazily in PlugPad so no phantom pad appears before the first decoded frame.
type uinputSink struct {
	keyboard uinput.Keyboard
	mouse    uinput.Mouse
	gamepad  uinput.Gamepad

	lastButtons uint16
	lastLT      bool
	lastRT      bool
}

// NewSink opens the keyboard and mouse injection devices. Requires write
// access to /dev/uinput.
func NewSink() (Sink, error) {
	return &uinputSink{}, nil
}

func (u *uinputSink) Connect() error {
	kb, err := uinput.CreateKeyboard(uinputPath, []byte("dx3 keyboard"))
	if err != nil {
		return fmt.Errorf("create uinput keyboard: %w", err)
	}
	mouse, err := uinput.CreateMouse(uinputPath, []byte("dx3 mouse"))
	if err != nil {
		kb.Close()
		return fmt.Errorf("create uinput mouse: %w", err)
	}
	u.keyboard = kb
	u.mouse = mouse
	slog.Debug("uinput injection devices created")
	return nil
}

func (u *uinputSink) PlugPad() error {
	if u.gamepad != nil {
		return nil
	}
	gp, err := uinput.CreateGamepad(uinputPath, []byte("dx3 virtual pad"), 0x045E, 0x028E)
	if err != nil {
		return fmt.Errorf("create uinput gamepad: %w", err)
	}
	u.gamepad = gp
	u.lastButtons = 0
	u.lastLT, u.lastRT = false, false
	slog.Info("Virtual pad plugged in")
	return nil
}

func (u *uinputSink) UnplugPad() error {
	if u.gamepad == nil {
		return nil
	}
	err := u.gamepad.Close()
	u.gamepad = nil
	return err
}

// buttonCodes pairs each XInput bit with its evdev gamepad button.
var buttonCodes = []struct {
	mask uint16
	code int
}{
	{xpad.ButtonA, uinput.ButtonSouth},
	{xpad.ButtonB, uinput.ButtonEast},
	{xpad.ButtonX, uinput.ButtonWest},
	{xpad.ButtonY, uinput.ButtonNorth},
	{xpad.ButtonLShoulder, uinput.ButtonBumperLeft},
	{xpad.ButtonRShoulder, uinput.ButtonBumperRight},
	{xpad.ButtonBack, uinput.ButtonSelect},
	{xpad.ButtonStart, uinput.ButtonStart},
	{xpad.ButtonLThumb, uinput.ButtonThumbLeft},
	{xpad.ButtonRThumb, uinput.ButtonThumbRight},
	{xpad.ButtonGuide, uinput.ButtonMode},
	{xpad.ButtonDPadUp, uinput.ButtonDpadUp},
	{xpad.ButtonDPadDown, uinput.ButtonDpadDown},
	{xpad.ButtonDPadLeft, uinput.ButtonDpadLeft},
	{xpad.ButtonDPadRight, uinput.ButtonDpadRight},
}

func (u *uinputSink) UpdatePad(st xpad.State) error {
	if u.gamepad == nil {
		return nil
	}

	changed := u.lastButtons ^ st.Buttons
	for _, bc := range buttonCodes {
		if changed&bc.mask == 0 {
			continue
		}
		var err error
		if st.Buttons&bc.mask != 0 {
			err = u.gamepad.ButtonDown(bc.code)
		} else {
			err = u.gamepad.ButtonUp(bc.code)
		}
		if err != nil {
			return err
		}
	}
	u.lastButtons = st.Buttons

	// uinput gamepads expose triggers as buttons, not axes.
	lt := st.LT >= triggerThreshold
	if lt != u.lastLT {
		if err := triggerEvent(u.gamepad, uinput.ButtonTriggerLeft, lt); err != nil {
			return err
		}
		u.lastLT = lt
	}
	rt := st.RT >= triggerThreshold
	if rt != u.lastRT {
		if err := triggerEvent(u.gamepad, uinput.ButtonTriggerRight, rt); err != nil {
			return err
		}
		u.lastRT = rt
	}

	// evdev sticks are down-positive; pad state is up-positive.
	if err := u.gamepad.LeftStickMove(float32(st.LX)/32767, -float32(st.LY)/32767); err != nil {
		return err
	}
	return u.gamepad.RightStickMove(float32(st.RX)/32767, -float32(st.RY)/32767)
}

func triggerEvent(gp uinput.Gamepad, code int, down bool) error {
	if down {
		return gp.ButtonDown(code)
	}
	return gp.ButtonUp(code)
}

func (u *uinputSink) SendKey(code uint16, down bool) error {
	ev, ok := hidToEvdev[code]
	if !ok {
		return fmt.Errorf("no evdev code for key 0x%02X", code)
	}
	if down {
		return u.keyboard.KeyDown(ev)
	}
	return u.keyboard.KeyUp(ev)
}

func (u *uinputSink) SendMouseButton(btn uint8, down bool) error {
	switch btn {
	case MouseLeft:
		if down {
			return u.mouse.LeftPress()
		}
		return u.mouse.LeftRelease()
	case MouseMiddle:
		if down {
			return u.mouse.MiddlePress()
		}
		return u.mouse.MiddleRelease()
	case MouseRight:
		if down {
			return u.mouse.RightPress()
		}
		return u.mouse.RightRelease()
	}
	return fmt.Errorf("unknown mouse button %d", btn)
}

func (u *uinputSink) SendMouseMove(dx, dy int32) error {
	return u.mouse.Move(dx, dy)
}

func (u *uinputSink) SendScroll(ticks int32) error {
	return u.mouse.Wheel(false, ticks)
}

func (u *uinputSink) Close() error {
	_ = u.UnplugPad()
	if u.mouse != nil {
		_ = u.mouse.Close()
		u.mouse = nil
	}
	if u.keyboard != nil {
		_ = u.keyboard.Close()
		u.keyboard = nil
	}
	return nil
}

// hidToEvdev maps HID keyboard usage codes to Linux input event codes.
var hidToEvdev = map[uint16]int{
	KeyA: 30, KeyB: 48, KeyC: 46, KeyD: 32, KeyE: 18, KeyF: 33,
	KeyG: 34, KeyH: 35, KeyI: 23, KeyJ: 36, KeyK: 37, KeyL: 38,
	KeyM: 50, KeyN: 49, KeyO: 24, KeyP: 25, KeyQ: 16, KeyR: 19,
	KeyS: 31, KeyT: 20, KeyU: 22, KeyV: 47, KeyW: 17, KeyX: 45,
	KeyY: 21, KeyZ: 44,

	Key1: 2, Key2: 3, Key3: 4, Key4: 5, Key5: 6,
	Key6: 7, Key7: 8, Key8: 9, Key9: 10, Key0: 11,

	KeyEnter: 28, KeyEscape: 1, KeyBackspace: 14, KeyTab: 15, KeySpace: 57,

	KeyF1: 59, KeyF2: 60, KeyF3: 61, KeyF4: 62, KeyF5: 63, KeyF6: 64,
	KeyF7: 65, KeyF8: 66, KeyF9: 67, KeyF10: 68, KeyF11: 87, KeyF12: 88,

	KeyInsert: 110, KeyHome: 102, KeyPageUp: 104,
	KeyDelete: 111, KeyEnd: 107, KeyPageDown: 109,
	KeyRight: 106, KeyLeft: 105, KeyDown: 108, KeyUp: 103,

	KeyLeftCtrl: 29, KeyLeftShift: 42, KeyLeftAlt: 56,
	KeyRightCtrl: 97, KeyRightShift: 54, KeyRightAlt: 100,
}
