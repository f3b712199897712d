package gamma

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

func init() {
	register(QuartzCoreGraphics, &backend{
		suggested: always,
		open:      openQuartzSite,
	})
}

const coreGraphicsPath = "/System/Library/Frameworks/CoreGraphics.framework/CoreGraphics"

// maxDisplays bounds the number of online displays listed.
const maxDisplays = 64

type cgDirectDisplayID = uint32

// purego function bindings
var (
	cgGetOnlineDisplayList            func(maxDisplays uint32, displays *cgDirectDisplayID, count *uint32) int32
	cgDisplayGammaTableCapacity       func(display cgDirectDisplayID) uint32
	cgGetDisplayTransferByTable       func(display cgDirectDisplayID, capacity uint32, red, green, blue *float32, count *uint32) int32
	cgSetDisplayTransferByTable       func(display cgDirectDisplayID, size uint32, red, green, blue *float32) int32
	cgDisplayRestoreColorSyncSettings func()
)

var (
	coreGraphicsOnce sync.Once
	coreGraphicsErr  error
)

func loadCoreGraphics() error {
	coreGraphicsOnce.Do(func() {
		cg, err := purego.Dlopen(coreGraphicsPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			coreGraphicsErr = err
			return
		}
		purego.RegisterLibFunc(&cgGetOnlineDisplayList, cg, "CGGetOnlineDisplayList")
		purego.RegisterLibFunc(&cgDisplayGammaTableCapacity, cg, "CGDisplayGammaTableCapacity")
		purego.RegisterLibFunc(&cgGetDisplayTransferByTable, cg, "CGGetDisplayTransferByTable")
		purego.RegisterLibFunc(&cgSetDisplayTransferByTable, cg, "CGSetDisplayTransferByTable")
		purego.RegisterLibFunc(&cgDisplayRestoreColorSyncSettings, cg, "CGDisplayRestoreColorSyncSettings")
	})
	return coreGraphicsErr
}

// cgError is a failed CoreGraphics call.
type cgError int32

func (err cgError) Error() string {
	return fmt.Sprintf("CoreGraphics error %d", int32(err))
}

// quartzSite is the only site of the Quartz method. It has one partition
// holding every online display.
type quartzSite struct {
	displays []cgDirectDisplayID
}

func openQuartzSite(site string) (siteBackend, error) {
	if site != "" {
		return nil, ErrNoSuchSite
	}
	if err := loadCoreGraphics(); err != nil {
		return nil, codeError(ErrOpenSiteFailed, err)
	}
	var (
		displays [maxDisplays]cgDirectDisplayID
		count    uint32
	)
	if rc := cgGetOnlineDisplayList(maxDisplays, &displays[0], &count); rc != 0 {
		return nil, codeError(ErrListCRTCsFailed, cgError(rc))
	}
	return &quartzSite{displays: displays[:count:count]}, nil
}

func (s *quartzSite) partitions() int {
	return 1
}

func (s *quartzSite) openPartition(int) (partitionBackend, error) {
	return &quartzPartition{displays: s.displays}, nil
}

// restore resets every display to its ColorSync profile.
func (s *quartzSite) restore() error {
	cgDisplayRestoreColorSyncSettings()
	return nil
}

func (s *quartzSite) close() error {
	return nil
}

type quartzPartition struct {
	displays []cgDirectDisplayID
}

func (p *quartzPartition) crtcs() int {
	return len(p.displays)
}

func (p *quartzPartition) openCRTC(index int) (crtcBackend, error) {
	id := p.displays[index]
	return &quartzCRTC{id: id, size: int(cgDisplayGammaTableCapacity(id))}, nil
}

func (p *quartzPartition) restore() error {
	cgDisplayRestoreColorSyncSettings()
	return nil
}

func (p *quartzPartition) close() error {
	return nil
}

type quartzCRTC struct {
	notSupported

	id   cgDirectDisplayID
	size int
}

func (c *quartzCRTC) information(info *CRTCInformation) error {
	if info.wants(InfoGammaSupport) {
		info.GammaSupport = c.size > 1
	}
	return nil
}

func (c *quartzCRTC) rampSizes() (red, green, blue int, err error) {
	return c.size, c.size, c.size, nil
}

func (c *quartzCRTC) depth() Depth {
	return DepthFloat
}

func (c *quartzCRTC) readRamps(ramps RampSet) error {
	r := ramps.(*GammaRampsF)
	if c.size == 0 {
		return nil
	}
	var count uint32
	rc := cgGetDisplayTransferByTable(c.id, uint32(c.size),
		&r.Red.samples[0], &r.Green.samples[0], &r.Blue.samples[0], &count)
	if rc != 0 {
		return codeError(ErrGammaRampReadFailed, cgError(rc))
	}
	if int(count) != c.size {
		return ErrGammaRampSizeChanged
	}
	return nil
}

func (c *quartzCRTC) writeRamps(ramps RampSet) error {
	r := ramps.(*GammaRampsF)
	if c.size == 0 {
		return nil
	}
	rc := cgSetDisplayTransferByTable(c.id, uint32(c.size),
		&r.Red.samples[0], &r.Green.samples[0], &r.Blue.samples[0])
	if rc != 0 {
		return codeError(ErrGammaRampWriteFailed, cgError(rc))
	}
	return nil
}

func (c *quartzCRTC) close() error {
	return nil
}
