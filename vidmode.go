//go:build !windows

package gamma

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xf86vidmode"
	"github.com/BurntSushi/xgb/xproto"
)

func init() {
	register(XVidMode, &backend{
		suggested: hasX,
		open:      openVidModeSite,
	})
}

// vidmodeSite drives the VidMode extension. Every screen is a partition
// with a single CRTC.
type vidmodeSite struct {
	notSupported

	conn    *xgb.Conn
	screens []xproto.ScreenInfo
}

func openVidModeSite(site string) (siteBackend, error) {
	conn, screens, err := dialX(site)
	if err != nil {
		return nil, err
	}
	if err := xf86vidmode.Init(conn); err != nil {
		conn.Close()
		return nil, codeError(ErrProtocolVersionNotSupported, err)
	}
	version, err := xf86vidmode.QueryVersion(conn).Reply()
	if err != nil {
		conn.Close()
		return nil, codeError(ErrProtocolVersionQueryFailed, err)
	}
	if version.MajorVersion < 2 {
		conn.Close()
		return nil, ErrProtocolVersionNotSupported
	}
	return &vidmodeSite{conn: conn, screens: screens}, nil
}

func (s *vidmodeSite) partitions() int {
	return len(s.screens)
}

func (s *vidmodeSite) openPartition(index int) (partitionBackend, error) {
	return &vidmodePartition{site: s, screen: uint16(index)}, nil
}

func (s *vidmodeSite) close() error {
	s.conn.Close()
	return nil
}

type vidmodePartition struct {
	notSupported

	site   *vidmodeSite
	screen uint16
}

func (p *vidmodePartition) crtcs() int {
	return 1
}

func (p *vidmodePartition) openCRTC(int) (crtcBackend, error) {
	reply, err := xf86vidmode.GetGammaRampSize(p.site.conn, p.screen).Reply()
	if err != nil {
		return nil, codeError(ErrGammaRampsSizeQueryFailed, err)
	}
	return &vidmodeCRTC{partition: p, size: int(reply.Size)}, nil
}

func (p *vidmodePartition) close() error {
	return nil
}

type vidmodeCRTC struct {
	notSupported

	partition *vidmodePartition
	size      int
}

func (c *vidmodeCRTC) information(info *CRTCInformation) error {
	if info.wants(InfoGammaSupport) {
		info.GammaSupport = c.size > 1
	}
	return nil
}

func (c *vidmodeCRTC) rampSizes() (red, green, blue int, err error) {
	return c.size, c.size, c.size, nil
}

func (c *vidmodeCRTC) depth() Depth {
	return Depth16
}

func (c *vidmodeCRTC) readRamps(ramps RampSet) error {
	p := c.partition
	reply, err := xf86vidmode.GetGammaRamp(p.site.conn, p.screen, uint16(c.size)).Reply()
	if err != nil {
		return codeError(ErrGammaRampReadFailed, err)
	}
	if int(reply.Size) != c.size {
		return ErrGammaRampSizeChanged
	}
	r := ramps16(ramps)
	copy(r.Red.samples, reply.Red)
	copy(r.Green.samples, reply.Green)
	copy(r.Blue.samples, reply.Blue)
	return nil
}

func (c *vidmodeCRTC) writeRamps(ramps RampSet) error {
	p, r := c.partition, ramps16(ramps)
	err := xf86vidmode.SetGammaRampChecked(p.site.conn, p.screen, uint16(c.size),
		r.Red.samples, r.Green.samples, r.Blue.samples).Check()
	if err != nil {
		return codeError(ErrGammaRampWriteFailed, err)
	}
	return nil
}

func (c *vidmodeCRTC) close() error {
	return nil
}
