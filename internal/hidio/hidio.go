// Package hidio wraps the hidapi bindings behind small interfaces so the
// session worker can be driven by mock transports in tests.
package hidio

import (
	"time"

	"github.com/sstallion/go-hid"
)

// DeviceInfo is the subset of enumeration data candidate selection needs.
type DeviceInfo struct {
	Path      string
	VendorID  uint16
	ProductID uint16
	Serial    string
	Product   string
	UsagePage uint16
	Usage     uint16
	Interface int
}

// Device is an open HID handle.
type Device interface {
	// ReadWithTimeout returns (0, nil) when the timeout expires with no
	// report pending; the session treats that as an idle tick.
	ReadWithTimeout(buf []byte, timeout time.Duration) (int, error)
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)
	SendFeatureReport(data []byte) (int, error)
	GetFeatureReport(data []byte) (int, error)
	SetNonblock(nonblock bool) error
	Close() error
}

// System is the process-wide HID layer: init/teardown plus enumeration and
// open. Exactly one implementation talks to hidapi; everything else is mocks.
type System interface {
	Init() error
	Exit() error
	Enumerate(vendorID, productID uint16) ([]DeviceInfo, error)
	Open(path string) (Device, error)
}

type hidSystem struct{}

// NewSystem returns the hidapi-backed System.
func NewSystem() System {
	return hidSystem{}
}

func (hidSystem) Init() error {
	return hid.Init()
}

func (hidSystem) Exit() error {
	return hid.Exit()
}

func (hidSystem) Enumerate(vendorID, productID uint16) ([]DeviceInfo, error) {
	var found []DeviceInfo
	err := hid.Enumerate(vendorID, productID, func(info *hid.DeviceInfo) error {
		found = append(found, DeviceInfo{
			Path:      info.Path,
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
			Serial:    info.SerialNbr,
			Product:   info.ProductStr,
			UsagePage: info.UsagePage,
			Usage:     info.Usage,
			Interface: info.InterfaceNbr,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (hidSystem) Open(path string) (Device, error) {
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, err
	}
	return dev, nil
}
