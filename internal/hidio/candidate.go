package hidio

import (
	"github.com/mantukin/dx3/protocol"
	"github.com/mantukin/dx3/protocol/dualsense"
	"github.com/mantukin/dx3/protocol/dualshock4"
)

const (
	usagePageGenericDesktop = 0x0001
	usageGamepad            = 0x0005
)

// Candidate is a scan result picked for opening.
type Candidate struct {
	Info DeviceInfo

	// Mode is the transport guess from enumeration data alone; the codec
	// refines it from observed report IDs after open.
	Mode protocol.Mode
}

func supportedProduct(pid uint16) bool {
	switch pid {
	case dualsense.ProductID, dualshock4.ProductIDv1, dualshock4.ProductIDv2:
		return true
	}
	return false
}

// PickCandidate chooses the device to open from one enumeration pass.
// Gamepad-usage interfaces always beat interfaces enumerated without a usage
// page; an interface number of -1 on a DualSense means the Bluetooth
// instance, which exposes no USB interface numbering.
func PickCandidate(infos []DeviceInfo) (Candidate, bool) {
	var fallback *DeviceInfo

	for i := range infos {
		info := infos[i]
		if info.VendorID != dualsense.VendorSony || !supportedProduct(info.ProductID) {
			continue
		}
		if info.UsagePage == usagePageGenericDesktop && info.Usage == usageGamepad {
			return Candidate{Info: info, Mode: guessMode(info)}, true
		}
		if info.UsagePage == 0 && fallback == nil {
			fallback = &infos[i]
		}
	}

	if fallback != nil {
		return Candidate{Info: *fallback, Mode: guessMode(*fallback)}, true
	}
	return Candidate{}, false
}

func guessMode(info DeviceInfo) protocol.Mode {
	bluetooth := info.Interface == -1
	switch info.ProductID {
	case dualsense.ProductID:
		if bluetooth {
			// Report format unknown until the first frame arrives.
			return protocol.ModeBTSimple
		}
		return protocol.ModeUSBNative
	case dualshock4.ProductIDv1, dualshock4.ProductIDv2:
		if bluetooth {
			return protocol.ModeDS4BT
		}
		return protocol.ModeDS4USB
	}
	return protocol.ModeUnknown
}
