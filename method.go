package gamma

import (
	"fmt"
	"os"
	"sync"
)

// Method is an adjustment method: a display server and protocol combination.
// The numeric values are stable.
type Method int

// Adjustment methods.
const (
	// Dummy is a fake method that keeps gamma ramps in memory. It can be
	// configured with SetDummyConfig and is useful for testing.
	Dummy Method = iota

	// XRandR uses the RandR extension of the X display server.
	XRandR

	// XVidMode uses the VidMode extension of the X display server. It can
	// only control the primary CRTC of each screen.
	XVidMode

	// LinuxDRM uses the Linux Direct Rendering Manager. It works without a
	// display server.
	LinuxDRM

	// W32GDI uses the Windows Graphics Device Interface.
	W32GDI

	// QuartzCoreGraphics uses CoreGraphics under the macOS Quartz display
	// server.
	QuartzCoreGraphics

	// MethodCount is the number of defined methods, including those that
	// are not available on this platform.
	MethodCount = int(QuartzCoreGraphics) + 1
)

// Preference levels for ListMethods, from strict to permissive.
const (
	// SuggestedReal lists methods the environment suggests will work,
	// excluding fake methods.
	SuggestedReal = iota

	// Suggested lists methods the environment suggests will work,
	// including fake methods.
	Suggested

	// RealNonFake lists all real methods that are not fake.
	RealNonFake

	// AllReal lists all real methods.
	AllReal

	// All lists every available method.
	All
)

type methodInfo struct {
	name         string
	caps         Capabilities
	siteVariable string
}

var methods = [MethodCount]methodInfo{
	Dummy: {name: "dummy"},
	XRandR: {
		name: "x-randr",
		caps: Capabilities{
			CRTCInformation:     InfoEDIDMacro | InfoViewport | InfoRamp | InfoSubpixelOrder | InfoActive | InfoConnector | InfoGammaSupport,
			DefaultSiteKnown:    true,
			MultipleSites:       true,
			MultiplePartitions:  true,
			MultipleCRTCs:       true,
			IdenticalGammaSizes: true,
			FixedGammaDepth:     true,
			Real:                true,
		},
		siteVariable: "DISPLAY",
	},
	XVidMode: {
		name: "x-vidmode",
		caps: Capabilities{
			CRTCInformation:     InfoRamp | InfoGammaSupport,
			DefaultSiteKnown:    true,
			MultipleSites:       true,
			MultiplePartitions:  true,
			IdenticalGammaSizes: true,
			FixedGammaDepth:     true,
			Real:                true,
		},
		siteVariable: "DISPLAY",
	},
	LinuxDRM: {
		name: "linux-drm",
		caps: Capabilities{
			CRTCInformation:            InfoEDIDMacro | InfoViewport | InfoRamp | InfoSubpixelOrder | InfoActive | InfoConnector | InfoGammaSupport,
			DefaultSiteKnown:           true,
			MultiplePartitions:         true,
			MultipleCRTCs:              true,
			PartitionsAreGraphicsCards: true,
			IdenticalGammaSizes:        true,
			FixedGammaDepth:            true,
			Real:                       true,
		},
	},
	W32GDI: {
		name: "w32-gdi",
		caps: Capabilities{
			CRTCInformation:     InfoRamp | InfoGammaSupport | InfoConnectorName,
			DefaultSiteKnown:    true,
			MultipleCRTCs:       true,
			IdenticalGammaSizes: true,
			FixedGammaSize:      true,
			FixedGammaDepth:     true,
			Real:                true,
		},
	},
	QuartzCoreGraphics: {
		name: "quartz-cg",
		caps: Capabilities{
			CRTCInformation:     InfoRamp | InfoGammaSupport,
			DefaultSiteKnown:    true,
			MultipleCRTCs:       true,
			SiteRestore:         true,
			PartitionRestore:    true,
			IdenticalGammaSizes: true,
			FixedGammaDepth:     true,
			Real:                true,
		},
	},
}

// preference is the order in which methods are listed, most likely to work
// first.
var preference = []Method{XRandR, XVidMode, LinuxDRM, W32GDI, QuartzCoreGraphics, Dummy}

// backend is a compiled in adjustment method implementation.
type backend struct {
	// suggested reports whether the environment suggests the method works.
	suggested func() bool

	// open connects to a site; the empty site selects the default.
	open func(site string) (siteBackend, error)
}

var (
	backendsMu sync.RWMutex
	backends   = make(map[Method]*backend)
)

// register makes a method implementation available. It is called from init
// functions of the platform specific backend files.
func register(m Method, b *backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[m] = b
}

func lookupBackend(m Method) (*backend, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[m]
	return b, ok
}

// IsValid reports whether m is a defined method, available or not.
func (m Method) IsValid() bool {
	return m >= 0 && int(m) < MethodCount
}

func (m Method) String() string {
	if !m.IsValid() {
		return fmt.Sprintf("method(%d)", int(m))
	}
	return methods[m].name
}

// Available reports whether the method is compiled in. Unknown methods are
// reported as unavailable.
func (m Method) Available() bool {
	if !m.IsValid() {
		return false
	}
	_, ok := lookupBackend(m)
	return ok
}

// Capabilities returns what the method supports. Unknown methods have no
// capabilities.
func (m Method) Capabilities() Capabilities {
	switch {
	case !m.IsValid():
		return Capabilities{}
	case m == Dummy:
		return currentDummyConfig().Capabilities
	default:
		return methods[m].caps
	}
}

// DefaultSiteVariable returns the name of the environment variable that
// selects the default site, if the method has one.
func (m Method) DefaultSiteVariable() (string, bool) {
	if !m.IsValid() || methods[m].siteVariable == "" {
		return "", false
	}
	return methods[m].siteVariable, true
}

// DefaultSite returns the site the method connects to when no site is given.
// It is not set if the site cannot be determined, or if the method does not
// support multiple sites.
func (m Method) DefaultSite() (string, bool) {
	name, ok := m.DefaultSiteVariable()
	if !ok {
		return "", false
	}
	if site := os.Getenv(name); site != "" {
		return site, true
	}
	return "", false
}

// ListMethods returns the available methods in order of preference, filtered
// by a preference level from SuggestedReal to All. Levels above All are
// treated as All, levels below SuggestedReal as SuggestedReal.
func ListMethods(level int) []Method {
	var list []Method
	for _, m := range preference {
		b, ok := lookupBackend(m)
		if !ok {
			continue
		}
		caps := m.Capabilities()
		var include bool
		switch {
		case level >= All:
			include = true
		case level == AllReal:
			include = caps.Real
		case level == RealNonFake:
			include = caps.Real && !caps.Fake
		case level == Suggested:
			include = (caps.Real || caps.Fake) && b.suggested()
		default:
			include = caps.Real && !caps.Fake && b.suggested()
		}
		if include {
			list = append(list, m)
		}
	}
	return list
}

// hasDisplayServer reports whether the environment names a running X or
// Wayland display server.
func hasDisplayServer() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func always() bool { return true }
