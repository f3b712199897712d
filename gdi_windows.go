package gamma

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func init() {
	register(W32GDI, &backend{
		suggested: always,
		open:      openGDISite,
	})
}

var (
	modUser32 = windows.NewLazySystemDLL("user32.dll")
	modGdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procEnumDisplayDevicesW = modUser32.NewProc("EnumDisplayDevicesW")
	procCreateDCW           = modGdi32.NewProc("CreateDCW")
	procDeleteDC            = modGdi32.NewProc("DeleteDC")
	procGetDeviceCaps       = modGdi32.NewProc("GetDeviceCaps")
	procGetDeviceGammaRamp  = modGdi32.NewProc("GetDeviceGammaRamp")
	procSetDeviceGammaRamp  = modGdi32.NewProc("SetDeviceGammaRamp")
)

// gdiRampSize is the fixed number of stops of a GDI gamma ramp.
const gdiRampSize = 256

const (
	displayDeviceActive = 0x00000001
	colorMgmtCaps       = 121
	cmGammaRamp         = 0x00000002
)

// From <wingdi.h>
type displayDevice struct {
	Cb           uint32
	DeviceName   [32]uint16
	DeviceString [128]uint16
	StateFlags   uint32
	DeviceID     [128]uint16
	DeviceKey    [128]uint16
}

// gdiRamp is the layout GetDeviceGammaRamp and SetDeviceGammaRamp use.
type gdiRamp [3][gdiRampSize]uint16

// gdiSite is the only site of the GDI method; it has a single partition
// holding every active display device.
type gdiSite struct {
	notSupported

	devices []string
}

func openGDISite(site string) (siteBackend, error) {
	if site != "" {
		return nil, ErrNoSuchSite
	}
	return &gdiSite{devices: activeDisplayDevices()}, nil
}

func activeDisplayDevices() []string {
	var names []string
	for i := uintptr(0); ; i++ {
		dev := displayDevice{Cb: uint32(unsafe.Sizeof(displayDevice{}))}
		ok, _, _ := procEnumDisplayDevicesW.Call(0, i, uintptr(unsafe.Pointer(&dev)), 0)
		if ok == 0 {
			return names
		}
		if dev.StateFlags&displayDeviceActive != 0 {
			names = append(names, windows.UTF16ToString(dev.DeviceName[:]))
		}
	}
}

func (s *gdiSite) partitions() int {
	return 1
}

func (s *gdiSite) openPartition(int) (partitionBackend, error) {
	return &gdiPartition{devices: s.devices}, nil
}

func (s *gdiSite) close() error {
	return nil
}

type gdiPartition struct {
	notSupported

	devices []string
}

func (p *gdiPartition) crtcs() int {
	return len(p.devices)
}

func (p *gdiPartition) openCRTC(index int) (crtcBackend, error) {
	driver, err := windows.UTF16PtrFromString("DISPLAY")
	if err != nil {
		return nil, err
	}
	device, err := windows.UTF16PtrFromString(p.devices[index])
	if err != nil {
		return nil, err
	}
	hdc, _, callErr := procCreateDCW.Call(uintptr(unsafe.Pointer(driver)), uintptr(unsafe.Pointer(device)), 0, 0)
	if hdc == 0 {
		return nil, codeError(ErrOpenCRTCFailed, callErr)
	}
	caps, _, _ := procGetDeviceCaps.Call(hdc, colorMgmtCaps)
	return &gdiCRTC{
		name:  p.devices[index],
		hdc:   hdc,
		gamma: caps&cmGammaRamp != 0,
	}, nil
}

func (p *gdiPartition) close() error {
	return nil
}

type gdiCRTC struct {
	notSupported

	name  string
	hdc   uintptr
	gamma bool
}

func (c *gdiCRTC) information(info *CRTCInformation) error {
	if info.wants(InfoGammaSupport) {
		info.GammaSupport = c.gamma
	}
	if info.wants(InfoConnectorName) {
		info.ConnectorName = c.name
	}
	return nil
}

func (c *gdiCRTC) rampSizes() (red, green, blue int, err error) {
	return gdiRampSize, gdiRampSize, gdiRampSize, nil
}

func (c *gdiCRTC) depth() Depth {
	return Depth16
}

func (c *gdiCRTC) readRamps(ramps RampSet) error {
	var ramp gdiRamp
	ok, _, err := procGetDeviceGammaRamp.Call(c.hdc, uintptr(unsafe.Pointer(&ramp)))
	if ok == 0 {
		return codeError(ErrGammaRampReadFailed, err)
	}
	r := ramps.(*GammaRamps16)
	copy(r.Red.samples, ramp[0][:])
	copy(r.Green.samples, ramp[1][:])
	copy(r.Blue.samples, ramp[2][:])
	return nil
}

func (c *gdiCRTC) writeRamps(ramps RampSet) error {
	var ramp gdiRamp
	r := ramps.(*GammaRamps16)
	copy(ramp[0][:], r.Red.samples)
	copy(ramp[1][:], r.Green.samples)
	copy(ramp[2][:], r.Blue.samples)
	ok, _, err := procSetDeviceGammaRamp.Call(c.hdc, uintptr(unsafe.Pointer(&ramp)))
	if ok == 0 {
		return codeError(ErrGammaRampWriteFailed, err)
	}
	return nil
}

func (c *gdiCRTC) close() error {
	procDeleteDC.Call(c.hdc)
	return nil
}
