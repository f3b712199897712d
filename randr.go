//go:build !windows

package gamma

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

func init() {
	register(XRandR, &backend{
		suggested: hasX,
		open:      openRandRSite,
	})
}

// edidLength is the longest EDID read, in 32-bit units.
const edidLength = 128

type randrSite struct {
	conn    *xgb.Conn
	screens []xproto.ScreenInfo
	edid    xproto.Atom
}

func openRandRSite(site string) (siteBackend, error) {
	conn, screens, err := dialX(site)
	if err != nil {
		return nil, err
	}
	s := &randrSite{conn: conn, screens: screens}
	if err := s.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *randrSite) init() error {
	if err := randr.Init(s.conn); err != nil {
		return codeError(ErrProtocolVersionNotSupported, err)
	}
	version, err := randr.QueryVersion(s.conn, 1, 3).Reply()
	if err != nil {
		return codeError(ErrProtocolVersionQueryFailed, err)
	}
	if version.MajorVersion != 1 || version.MinorVersion < 3 {
		return ErrProtocolVersionNotSupported
	}
	atom, err := xproto.InternAtom(s.conn, false, uint16(len("EDID")), "EDID").Reply()
	if err != nil {
		return codeError(ErrListPropertiesFailed, err)
	}
	s.edid = atom.Atom
	return nil
}

func (s *randrSite) partitions() int {
	return len(s.screens)
}

func (s *randrSite) openPartition(index int) (partitionBackend, error) {
	res, err := randr.GetScreenResourcesCurrent(s.conn, s.screens[index].Root).Reply()
	if err != nil {
		return nil, codeError(ErrListCRTCsFailed, err)
	}
	return &randrPartition{site: s, res: res}, nil
}

func (s *randrSite) restore() error {
	return ErrNotSupported
}

func (s *randrSite) close() error {
	s.conn.Close()
	return nil
}

type randrPartition struct {
	notSupported

	site *randrSite
	res  *randr.GetScreenResourcesCurrentReply
}

func (p *randrPartition) crtcs() int {
	return len(p.res.Crtcs)
}

func (p *randrPartition) openCRTC(index int) (crtcBackend, error) {
	c := &randrCRTC{partition: p, id: p.res.Crtcs[index]}
	size, err := c.querySize()
	if err != nil {
		return nil, err
	}
	c.size = size
	return c, nil
}

func (p *randrPartition) close() error {
	return nil
}

type randrCRTC struct {
	notSupported

	partition *randrPartition
	id        randr.Crtc
	size      int
}

func (c *randrCRTC) conn() *xgb.Conn {
	return c.partition.site.conn
}

func (c *randrCRTC) querySize() (int, error) {
	reply, err := randr.GetCrtcGammaSize(c.conn(), c.id).Reply()
	if err != nil {
		return 0, codeError(ErrGammaRampsSizeQueryFailed, err)
	}
	return int(reply.Size), nil
}

func (c *randrCRTC) rampSizes() (red, green, blue int, err error) {
	return c.size, c.size, c.size, nil
}

func (c *randrCRTC) depth() Depth {
	return Depth16
}

func (c *randrCRTC) readRamps(ramps RampSet) error {
	reply, err := randr.GetCrtcGamma(c.conn(), c.id).Reply()
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

func (c *randrCRTC) writeRamps(ramps RampSet) error {
	r := ramps16(ramps)
	err := randr.SetCrtcGammaChecked(c.conn(), c.id, uint16(c.size),
		r.Red.samples, r.Green.samples, r.Blue.samples).Check()
	if err != nil {
		return codeError(ErrGammaRampWriteFailed, err)
	}
	return nil
}

func (c *randrCRTC) information(info *CRTCInformation) error {
	if info.wants(InfoGammaSupport) {
		info.GammaSupport = c.size > 1
	}

	const outputFields = InfoEDID | InfoViewport | InfoSubpixelOrder | InfoActive | InfoConnector
	crtc, err := randr.GetCrtcInfo(c.conn(), c.id, c.partition.res.ConfigTimestamp).Reply()
	if err != nil {
		info.fail(outputFields, codeError(ErrOutputInformationQueryFailed, err))
		return nil
	}
	if len(crtc.Outputs) == 0 {
		info.fail(outputFields&^InfoActive, ErrConnectorDisabled)
		return nil
	}
	output := crtc.Outputs[0]
	out, err := randr.GetOutputInfo(c.conn(), output, c.partition.res.ConfigTimestamp).Reply()
	if err != nil {
		info.fail(outputFields, codeError(ErrOutputInformationQueryFailed, err))
		return nil
	}

	if info.wants(InfoWidthMM) {
		info.WidthMM = int(out.MmWidth)
	}
	if info.wants(InfoHeightMM) {
		info.HeightMM = int(out.MmHeight)
	}
	if info.wants(InfoSubpixelOrder) {
		info.SubpixelOrder, info.SubpixelOrderErr = x11Subpixel(out.SubpixelOrder)
	}
	if info.wants(InfoActive) {
		switch out.Connection {
		case randr.ConnectionConnected:
			info.Active = true
		case randr.ConnectionDisconnected:
			info.Active = false
		default:
			info.ActiveErr = ErrStateUnknown
		}
	}
	if info.wants(InfoConnectorName) {
		info.ConnectorName = string(out.Name)
	}
	if info.wants(InfoConnectorType) {
		info.ConnectorType, info.ConnectorTypeErr = connectorTypeFromOutputName(string(out.Name))
	}
	if info.wants(InfoEDID) {
		info.EDID, info.EDIDErr = c.readEDID(output)
	}
	return nil
}

func (c *randrCRTC) readEDID(output randr.Output) ([]byte, error) {
	prop, err := randr.GetOutputProperty(c.conn(), output, c.partition.site.edid,
		xproto.AtomAny, 0, edidLength, false, false).Reply()
	if err != nil {
		return nil, codeError(ErrPropertyValueQueryFailed, err)
	}
	if prop.Format != 8 || len(prop.Data) == 0 {
		return nil, ErrEDIDNotFound
	}
	return prop.Data, nil
}

func (c *randrCRTC) close() error {
	return nil
}
