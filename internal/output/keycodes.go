package output

import (
	"fmt"
	"strings"
)

// HID usage codes for keyboard keys (USB HID Keyboard/Keypad usage page).
// Mapping targets carry these portable codes; the platform sinks translate
// them to virtual-key or evdev codes.
const (
	KeyA uint16 = 0x04
	KeyB uint16 = 0x05
	KeyC uint16 = 0x06
	KeyD uint16 = 0x07
	KeyE uint16 = 0x08
	KeyF uint16 = 0x09
	KeyG uint16 = 0x0A
	KeyH uint16 = 0x0B
	KeyI uint16 = 0x0C
	KeyJ uint16 = 0x0D
	KeyK uint16 = 0x0E
	KeyL uint16 = 0x0F
	KeyM uint16 = 0x10
	KeyN uint16 = 0x11
	KeyO uint16 = 0x12
	KeyP uint16 = 0x13
	KeyQ uint16 = 0x14
	KeyR uint16 = 0x15
	KeyS uint16 = 0x16
	KeyT uint16 = 0x17
	KeyU uint16 = 0x18
	KeyV uint16 = 0x19
	KeyW uint16 = 0x1A
	KeyX uint16 = 0x1B
	KeyY uint16 = 0x1C
	KeyZ uint16 = 0x1D

	Key1 uint16 = 0x1E
	Key2 uint16 = 0x1F
	Key3 uint16 = 0x20
	Key4 uint16 = 0x21
	Key5 uint16 = 0x22
	Key6 uint16 = 0x23
	Key7 uint16 = 0x24
	Key8 uint16 = 0x25
	Key9 uint16 = 0x26
	Key0 uint16 = 0x27

	KeyEnter     uint16 = 0x28
	KeyEscape    uint16 = 0x29
	KeyBackspace uint16 = 0x2A
	KeyTab       uint16 = 0x2B
	KeySpace     uint16 = 0x2C

	KeyF1  uint16 = 0x3A
	KeyF2  uint16 = 0x3B
	KeyF3  uint16 = 0x3C
	KeyF4  uint16 = 0x3D
	KeyF5  uint16 = 0x3E
	KeyF6  uint16 = 0x3F
	KeyF7  uint16 = 0x40
	KeyF8  uint16 = 0x41
	KeyF9  uint16 = 0x42
	KeyF10 uint16 = 0x43
	KeyF11 uint16 = 0x44
	KeyF12 uint16 = 0x45

	KeyInsert   uint16 = 0x49
	KeyHome     uint16 = 0x4A
	KeyPageUp   uint16 = 0x4B
	KeyDelete   uint16 = 0x4C
	KeyEnd      uint16 = 0x4D
	KeyPageDown uint16 = 0x4E
	KeyRight    uint16 = 0x4F
	KeyLeft     uint16 = 0x50
	KeyDown     uint16 = 0x51
	KeyUp       uint16 = 0x52

	KeyLeftCtrl   uint16 = 0xE0
	KeyLeftShift  uint16 = 0xE1
	KeyLeftAlt    uint16 = 0xE2
	KeyRightCtrl  uint16 = 0xE4
	KeyRightShift uint16 = 0xE5
	KeyRightAlt   uint16 = 0xE6
)

var keyByName = map[string]uint16{
	"a": KeyA, "b": KeyB, "c": KeyC, "d": KeyD, "e": KeyE, "f": KeyF,
	"g": KeyG, "h": KeyH, "i": KeyI, "j": KeyJ, "k": KeyK, "l": KeyL,
	"m": KeyM, "n": KeyN, "o": KeyO, "p": KeyP, "q": KeyQ, "r": KeyR,
	"s": KeyS, "t": KeyT, "u": KeyU, "v": KeyV, "w": KeyW, "x": KeyX,
	"y": KeyY, "z": KeyZ,

	"1": Key1, "2": Key2, "3": Key3, "4": Key4, "5": Key5,
	"6": Key6, "7": Key7, "8": Key8, "9": Key9, "0": Key0,

	"enter": KeyEnter, "escape": KeyEscape, "backspace": KeyBackspace,
	"tab": KeyTab, "space": KeySpace,

	"f1": KeyF1, "f2": KeyF2, "f3": KeyF3, "f4": KeyF4, "f5": KeyF5,
	"f6": KeyF6, "f7": KeyF7, "f8": KeyF8, "f9": KeyF9, "f10": KeyF10,
	"f11": KeyF11, "f12": KeyF12,

	"insert": KeyInsert, "home": KeyHome, "pageup": KeyPageUp,
	"delete": KeyDelete, "end": KeyEnd, "pagedown": KeyPageDown,
	"right": KeyRight, "left": KeyLeft, "down": KeyDown, "up": KeyUp,

	"ctrl": KeyLeftCtrl, "shift": KeyLeftShift, "alt": KeyLeftAlt,
	"rctrl": KeyRightCtrl, "rshift": KeyRightShift, "ralt": KeyRightAlt,
}

// ParseKey resolves a profile key name to a HID usage code.
func ParseKey(name string) (uint16, error) {
	if code, ok := keyByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// KeyName returns the profile name for a HID usage code, or "" if unnamed.
func KeyName(code uint16) string {
	for name, c := range keyByName {
		if c == code {
			return name
		}
	}
	return ""
}
