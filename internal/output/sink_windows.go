//go:build windows

package output

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/mantukin/dx3/internal/xpad"
)

var (
	vigemDLL = windows.NewLazySystemDLL("ViGEmClient.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")

	procAlloc      = vigemDLL.NewProc("vigem_alloc")
	procFree       = vigemDLL.NewProc("vigem_free")
	procConnect    = vigemDLL.NewProc("vigem_connect")
	procDisconnect = vigemDLL.NewProc("vigem_disconnect")
	procX360Alloc  = vigemDLL.NewProc("vigem_target_x360_alloc")
	procTargetAdd  = vigemDLL.NewProc("vigem_target_add")
	procTargetRem  = vigemDLL.NewProc("vigem_target_remove")
	procTargetFree = vigemDLL.NewProc("vigem_target_free")
	procX360Update = vigemDLL.NewProc("vigem_target_x360_update")

	procSendInput      = user32.NewProc("SendInput")
	procMapVirtualKeyW = user32.NewProc("MapVirtualKeyW")
)

const vigemErrorNone = 0x20000000

const (
	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002

	mouseeventfMove       = 0x0001
	mouseeventfLeftDown   = 0x0002
	mouseeventfLeftUp     = 0x0004
	mouseeventfRightDown  = 0x0008
	mouseeventfRightUp    = 0x0010
	mouseeventfMiddleDown = 0x0020
	mouseeventfMiddleUp   = 0x0040
	mouseeventfWheel      = 0x0800

	inputKeyboard = 1
	inputMouse    = 0

	wheelDelta = 120
)

// keybdInputWin and mouseInputWin are INPUT struct layouts for the x64 ABI,
// each padded to the full 40-byte union size.
type keybdInputWin struct {
	typ         uint32
	_           uint32
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	_           uint32
	dwExtraInfo uintptr
	_           [8]byte
}

type mouseInputWin struct {
	typ         uint32
	_           uint32
	dx          int32
	dy          int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	_           uint32
	dwExtraInfo uintptr
}

// xusbReport mirrors XUSB_REPORT as consumed by the ViGEm bus driver.
type xusbReport struct {
	wButtons      uint16
	bLeftTrigger  uint8
	bRightTrigger uint8
	sThumbLX      int16
	sThumbLY      int16
	sThumbRX      int16
	sThumbRY      int16
}

// vigemSink drives the virtual pad through ViGEmClient.dll and injects
// keyboard/mouse events through user32 SendInput. A missing ViGEmBus install
// surfaces as a Connect error, which the session treats as retryable.
type vigemSink struct {
	client uintptr
	target uintptr
}

func NewSink() (Sink, error) {
	if err := vigemDLL.Load(); err != nil {
		return nil, fmt.Errorf("load ViGEmClient.dll: %w", err)
	}
	return &vigemSink{}, nil
}

func (v *vigemSink) Connect() error {
	client, _, _ := procAlloc.Call()
	if client == 0 {
		return fmt.Errorf("vigem_alloc returned null")
	}
	ret, _, _ := procConnect.Call(client)
	if uint32(ret) != vigemErrorNone {
		procFree.Call(client)
		return fmt.Errorf("vigem_connect failed: 0x%08X (is ViGEmBus installed?)", uint32(ret))
	}
	v.client = client
	slog.Debug("Connected to ViGEm bus")
	return nil
}

func (v *vigemSink) PlugPad() error {
	if v.target != 0 {
		return nil
	}
	target, _, _ := procX360Alloc.Call()
	if target == 0 {
		return fmt.Errorf("vigem_target_x360_alloc returned null")
	}
	ret, _, _ := procTargetAdd.Call(v.client, target)
	if uint32(ret) != vigemErrorNone {
		procTargetFree.Call(target)
		return fmt.Errorf("vigem_target_add failed: 0x%08X", uint32(ret))
	}
	v.target = target
	slog.Info("Virtual pad plugged in")
	return nil
}

func (v *vigemSink) UnplugPad() error {
	if v.target == 0 {
		return nil
	}
	procTargetRem.Call(v.client, v.target)
	procTargetFree.Call(v.target)
	v.target = 0
	return nil
}

func (v *vigemSink) UpdatePad(st xpad.State) error {
	if v.target == 0 {
		return nil
	}
	rep := xusbReport{
		wButtons:      st.Buttons,
		bLeftTrigger:  st.LT,
		bRightTrigger: st.RT,
		sThumbLX:      st.LX,
		sThumbLY:      st.LY,
		sThumbRX:      st.RX,
		sThumbRY:      st.RY,
	}
	// XUSB_REPORT is 12 bytes, passed by reference under the x64 ABI.
	ret, _, _ := procX360Update.Call(v.client, v.target, uintptr(unsafe.Pointer(&rep)))
	if uint32(ret) != vigemErrorNone {
		return fmt.Errorf("vigem_target_x360_update failed: 0x%08X", uint32(ret))
	}
	return nil
}

func (v *vigemSink) SendKey(code uint16, down bool) error {
	vk, ok := hidToVK[code]
	if !ok {
		return fmt.Errorf("no virtual-key code for key 0x%02X", code)
	}
	scan, _, _ := procMapVirtualKeyW.Call(uintptr(vk), 0)

	var flags uint32
	if extendedVK[vk] {
		flags |= keyeventfExtendedKey
	}
	if !down {
		flags |= keyeventfKeyUp
	}
	in := keybdInputWin{
		typ:     inputKeyboard,
		wVk:     vk,
		wScan:   uint16(scan),
		dwFlags: flags,
	}
	return sendInput(unsafe.Pointer(&in), unsafe.Sizeof(in))
}

func (v *vigemSink) SendMouseButton(btn uint8, down bool) error {
	var flags uint32
	switch btn {
	case MouseLeft:
		flags = mouseeventfLeftDown
		if !down {
			flags = mouseeventfLeftUp
		}
	case MouseMiddle:
		flags = mouseeventfMiddleDown
		if !down {
			flags = mouseeventfMiddleUp
		}
	case MouseRight:
		flags = mouseeventfRightDown
		if !down {
			flags = mouseeventfRightUp
		}
	default:
		return fmt.Errorf("unknown mouse button %d", btn)
	}
	in := mouseInputWin{typ: inputMouse, dwFlags: flags}
	return sendInput(unsafe.Pointer(&in), unsafe.Sizeof(in))
}

func (v *vigemSink) SendMouseMove(dx, dy int32) error {
	in := mouseInputWin{typ: inputMouse, dx: dx, dy: dy, dwFlags: mouseeventfMove}
	return sendInput(unsafe.Pointer(&in), unsafe.Sizeof(in))
}

func (v *vigemSink) SendScroll(ticks int32) error {
	in := mouseInputWin{
		typ:       inputMouse,
		mouseData: uint32(ticks * wheelDelta),
		dwFlags:   mouseeventfWheel,
	}
	return sendInput(unsafe.Pointer(&in), unsafe.Sizeof(in))
}

func (v *vigemSink) Close() error {
	_ = v.UnplugPad()
	if v.client != 0 {
		procDisconnect.Call(v.client)
		procFree.Call(v.client)
		v.client = 0
	}
	return nil
}

func sendInput(in unsafe.Pointer, size uintptr) error {
	sent, _, err := procSendInput.Call(1, uintptr(in), size)
	if sent != 1 {
		return fmt.Errorf("SendInput: %w", err)
	}
	return nil
}

// hidToVK maps HID keyboard usage codes to Windows virtual-key codes.
var hidToVK = map[uint16]uint16{
	KeyA: 'A', KeyB: 'B', KeyC: 'C', KeyD: 'D', KeyE: 'E', KeyF: 'F',
	KeyG: 'G', KeyH: 'H', KeyI: 'I', KeyJ: 'J', KeyK: 'K', KeyL: 'L',
	KeyM: 'M', KeyN: 'N', KeyO: 'O', KeyP: 'P', KeyQ: 'Q', KeyR: 'R',
	KeyS: 'S', KeyT: 'T', KeyU: 'U', KeyV: 'V', KeyW: 'W', KeyX: 'X',
	KeyY: 'Y', KeyZ: 'Z',

	Key1: '1', Key2: '2', Key3: '3', Key4: '4', Key5: '5',
	Key6: '6', Key7: '7', Key8: '8', Key9: '9', Key0: '0',

	KeyEnter: 0x0D, KeyEscape: 0x1B, KeyBackspace: 0x08,
	KeyTab: 0x09, KeySpace: 0x20,

	KeyF1: 0x70, KeyF2: 0x71, KeyF3: 0x72, KeyF4: 0x73, KeyF5: 0x74,
	KeyF6: 0x75, KeyF7: 0x76, KeyF8: 0x77, KeyF9: 0x78, KeyF10: 0x79,
	KeyF11: 0x7A, KeyF12: 0x7B,

	KeyInsert: 0x2D, KeyHome: 0x24, KeyPageUp: 0x21,
	KeyDelete: 0x2E, KeyEnd: 0x23, KeyPageDown: 0x22,
	KeyLeft: 0x25, KeyUp: 0x26, KeyRight: 0x27, KeyDown: 0x28,

	KeyLeftCtrl: 0xA2, KeyLeftShift: 0xA0, KeyLeftAlt: 0xA4,
	KeyRightCtrl: 0xA3, KeyRightShift: 0xA1, KeyRightAlt: 0xA5,
}

// extendedVK marks keys on the extended scancode page; SendInput needs the
// flag or the navigation cluster acts like the numpad.
var extendedVK = map[uint16]bool{
	0x2D: true, 0x24: true, 0x21: true, 0x2E: true, 0x23: true, 0x22: true,
	0x25: true, 0x26: true, 0x27: true, 0x28: true,
	0xA3: true, 0xA5: true,
}
