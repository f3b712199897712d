package gamma

import "github.com/BeatGlow/gamma/internal/handle"

type crtcState struct {
	partition handle.ID
	backend   crtcBackend
}

// CRTC is one output of a partition. It refers to its partition and site by
// handle; both must stay open while the CRTC is in use.
type CRTC struct {
	id        handle.ID
	site      handle.ID
	partition handle.ID
	index     int
}

// Index returns the index of the CRTC within its partition.
func (c *CRTC) Index() int {
	return c.index
}

// Information reads the requested fields. Fields that cannot be read carry
// an error in the returned information rather than failing the call; the
// returned error is for failures of the whole query.
func (c *CRTC) Information(fields InfoField) (*CRTCInformation, error) {
	const op = "read CRTC information"

	site, state, err := c.lock(op)
	if err != nil {
		return nil, err
	}
	defer site.mu.Unlock()

	caps := site.caps
	info := newInformation(fields, caps.CRTCInformation)

	if info.wants(InfoGammaSize) {
		info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize, info.GammaSizeErr = state.backend.rampSizes()
		if info.GammaSizeErr != nil {
			info.GammaSizeErr = wrapError(op, info.GammaSizeErr)
		}
	}
	if info.wants(InfoGammaDepth) {
		info.GammaDepth = state.backend.depth()
	}

	// EDID derived fields need the EDID even if it was not requested.
	edidRequested := info.wants(InfoEDID)
	if fields&InfoEDIDMacro != 0 && caps.CRTCInformation&InfoEDID != 0 && !edidRequested {
		info.EDIDErr = nil
	}
	if err := state.backend.information(info); err != nil {
		return nil, wrapError(op, err)
	}
	info.fillFromEDID()
	if !edidRequested {
		info.EDID = nil
		if fields&InfoEDID == 0 {
			info.EDIDErr = ErrNotRequested
		}
	}
	return info, nil
}

// GammaRamps reads the current gamma ramps into ramps. The ramp sizes must
// match the sizes of the CRTC.
func (c *CRTC) GammaRamps(ramps RampSet) error {
	return c.transfer("get gamma ramps", ramps, false)
}

// SetGammaRamps applies ramps. The ramp sizes must match the sizes of the
// CRTC.
func (c *CRTC) SetGammaRamps(ramps RampSet) error {
	return c.transfer("set gamma ramps", ramps, true)
}

func (c *CRTC) transfer(op string, ramps RampSet, write bool) error {
	site, state, err := c.lock(op)
	if err != nil {
		return err
	}
	defer site.mu.Unlock()

	red, green, blue := ramps.Sizes()
	if site.caps.IdenticalGammaSizes && (red != green || red != blue) {
		return &Error{Op: op, Code: ErrMixedGammaRampSize}
	}
	r, g, b, err := state.backend.rampSizes()
	if err != nil {
		return wrapError(op, err)
	}
	if red != r || green != g || blue != b {
		return &Error{Op: op, Code: ErrWrongGammaRampSize}
	}

	native := ramps
	if ramps.Depth() != state.backend.depth() {
		if native, err = NewRampSet(state.backend.depth(), red, green, blue); err != nil {
			return wrapError(op, err)
		}
		defer native.Close()
	}

	if write {
		if native != ramps {
			native.copyFrom(ramps)
		}
		return wrapError(op, state.backend.writeRamps(native))
	}
	if err := state.backend.readRamps(native); err != nil {
		return wrapError(op, err)
	}
	if native != ramps {
		ramps.copyFrom(native)
	}
	return nil
}

// Restore restores the gamma ramps of the CRTC to the system settings.
func (c *CRTC) Restore() error {
	const op = "restore CRTC"

	site, state, err := c.lock(op)
	if err != nil {
		return err
	}
	defer site.mu.Unlock()

	if !site.caps.CRTCRestore {
		return wrapError(op, ErrNotSupported)
	}
	return wrapError(op, state.backend.restore())
}

// Close releases the CRTC.
func (c *CRTC) Close() error {
	const op = "close CRTC"

	if site, ok := sites.Lookup(c.site); ok {
		site.mu.Lock()
		defer site.mu.Unlock()
	}
	state, ok := crtcs.Remove(c.id)
	if !ok {
		return &Error{Op: op, Code: ErrInvalidHandle}
	}
	Logger().Debug("gamma: CRTC closed", "id", c.id)
	return wrapError(op, state.backend.close())
}

// lock resolves the CRTC and locks the connection of its site. The
// partition must still be open.
func (c *CRTC) lock(op string) (*siteState, *crtcState, error) {
	site, err := lockSite(op, c.site)
	if err != nil {
		return nil, nil, err
	}
	state, ok := crtcs.Lookup(c.id)
	if ok {
		_, ok = partitions.Lookup(state.partition)
	}
	if !ok {
		site.mu.Unlock()
		return nil, nil, &Error{Op: op, Code: ErrInvalidHandle}
	}
	return site, state, nil
}
