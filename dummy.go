package gamma

import (
	"fmt"
	"strconv"
)

func init() {
	register(Dummy, &backend{
		suggested: always,
		open:      openDummySite,
	})
}

// dummyOutput is the simulated hardware state of one CRTC.
type dummyOutput struct {
	desc  DummyOutput
	ramps RampSet
}

type dummySite struct {
	cfg     *DummyConfig
	outputs [][]*dummyOutput
}

func openDummySite(site string) (siteBackend, error) {
	cfg := currentDummyConfig()
	if err := cfg.fault(cfg.Faults.OpenSite); err != nil {
		return nil, err
	}
	if site != "" && !cfg.Capabilities.MultipleSites {
		return nil, ErrNoSuchSite
	}

	s := &dummySite{cfg: cfg, outputs: make([][]*dummyOutput, cfg.Partitions)}
	for p := range s.outputs {
		s.outputs[p] = make([]*dummyOutput, cfg.CRTCs)
		for c := range s.outputs[p] {
			out := &dummyOutput{desc: cfg.Outputs[fmt.Sprintf("%d.%d", p, c)]}
			red, green, blue := cfg.gammaSizes(out.desc)
			ramps, err := NewRampSet(cfg.GammaDepth, red, green, blue)
			if err != nil {
				return nil, err
			}
			ramps.Identity()
			out.ramps = ramps
			s.outputs[p][c] = out
		}
	}
	return s, nil
}

func (cfg *DummyConfig) fault(name string) error {
	if code, _ := faultCode(name); code != 0 {
		return code
	}
	return nil
}

func (s *dummySite) partitions() int {
	return s.cfg.Partitions
}

func (s *dummySite) openPartition(index int) (partitionBackend, error) {
	if err := s.cfg.fault(s.cfg.Faults.OpenPartition); err != nil {
		return nil, err
	}
	return &dummyPartition{site: s, index: index}, nil
}

func (s *dummySite) restore() error {
	for p := range s.outputs {
		if err := (&dummyPartition{site: s, index: p}).restore(); err != nil {
			return err
		}
	}
	return nil
}

func (s *dummySite) close() error {
	for _, outputs := range s.outputs {
		for _, out := range outputs {
			out.ramps.Close()
		}
	}
	s.outputs = nil
	return nil
}

type dummyPartition struct {
	site  *dummySite
	index int
}

func (p *dummyPartition) crtcs() int {
	return len(p.site.outputs[p.index])
}

func (p *dummyPartition) openCRTC(index int) (crtcBackend, error) {
	if err := p.site.cfg.fault(p.site.cfg.Faults.OpenCRTC); err != nil {
		return nil, err
	}
	return &dummyCRTC{
		cfg:       p.site.cfg,
		partition: p.index,
		index:     index,
		out:       p.site.outputs[p.index][index],
	}, nil
}

func (p *dummyPartition) restore() error {
	for c, out := range p.site.outputs[p.index] {
		crtc := &dummyCRTC{cfg: p.site.cfg, partition: p.index, index: c, out: out}
		if err := crtc.restore(); err != nil {
			return err
		}
	}
	return nil
}

func (p *dummyPartition) close() error {
	return nil
}

type dummyCRTC struct {
	cfg       *DummyConfig
	partition int
	index     int
	out       *dummyOutput
}

func (c *dummyCRTC) information(info *CRTCInformation) error {
	if err := c.cfg.fault(c.cfg.Faults.Information); err != nil {
		return err
	}
	desc := c.out.desc

	if info.wants(InfoEDID) {
		if desc.EDID == "" {
			info.EDIDErr = ErrEDIDNotFound
		} else if info.EDID, info.EDIDErr = ParseEDIDHex(desc.EDID); info.EDIDErr != nil {
			info.EDID = nil
		}
	}
	if info.wants(InfoWidthMM) {
		info.WidthMM = desc.WidthMM
	}
	if info.wants(InfoHeightMM) {
		info.HeightMM = desc.HeightMM
	}
	if info.wants(InfoGammaSupport) {
		red, green, blue := c.out.ramps.Sizes()
		info.GammaSupport = red > 1 && green > 1 && blue > 1
	}
	if info.wants(InfoSubpixelOrder) {
		info.SubpixelOrder = SubpixelOrder(desc.SubpixelOrder)
		if info.SubpixelOrder < SubpixelUnknown || info.SubpixelOrder > SubpixelVerticalBGR {
			info.SubpixelOrderErr = ErrSubpixelOrderNotRecognised
		}
	}
	if info.wants(InfoActive) {
		info.Active = desc.Active == nil || *desc.Active
	}
	if info.wants(InfoConnectorName) {
		info.ConnectorName = desc.ConnectorName
		if info.ConnectorName == "" {
			info.ConnectorName = "dummy-" + strconv.Itoa(c.partition) + "-" + strconv.Itoa(c.index)
		}
	}
	if info.wants(InfoConnectorType) {
		if desc.ConnectorType == "" {
			info.ConnectorType = ConnectorVirtual
		} else {
			info.ConnectorType, _ = ConnectorTypeByName(desc.ConnectorType)
		}
	}
	return nil
}

func (c *dummyCRTC) rampSizes() (red, green, blue int, err error) {
	red, green, blue = c.out.ramps.Sizes()
	return
}

func (c *dummyCRTC) depth() Depth {
	return c.out.ramps.Depth()
}

func (c *dummyCRTC) readRamps(ramps RampSet) error {
	if err := c.cfg.fault(c.cfg.Faults.ReadRamps); err != nil {
		return err
	}
	ramps.copyFrom(c.out.ramps)
	return nil
}

func (c *dummyCRTC) writeRamps(ramps RampSet) error {
	if err := c.cfg.fault(c.cfg.Faults.WriteRamps); err != nil {
		return err
	}
	c.out.ramps.copyFrom(ramps)
	return nil
}

// restore resets the ramps to the identity ramp, the dummy system default.
func (c *dummyCRTC) restore() error {
	if err := c.cfg.fault(c.cfg.Faults.Restore); err != nil {
		return err
	}
	c.out.ramps.Identity()
	return nil
}

func (c *dummyCRTC) close() error {
	return nil
}
