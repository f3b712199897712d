package gamma

import "github.com/BeatGlow/gamma/internal/handle"

type partitionState struct {
	site    handle.ID
	backend partitionBackend
}

// Partition is a subdivision of a site, typically a screen or a graphics
// card. It refers to its site by handle; the site must stay open while the
// partition is in use.
type Partition struct {
	id    handle.ID
	site  handle.ID
	index int
	crtcs int
}

// Index returns the index of the partition within its site.
func (p *Partition) Index() int {
	return p.index
}

// CRTCsAvailable returns the number of CRTCs in the partition.
func (p *Partition) CRTCsAvailable() int {
	return p.crtcs
}

// OpenCRTC opens CRTC index, in [0, CRTCsAvailable()).
func (p *Partition) OpenCRTC(index int) (*CRTC, error) {
	const op = "open CRTC"

	site, state, err := p.lock(op)
	if err != nil {
		return nil, err
	}
	defer site.mu.Unlock()

	if index < 0 || index >= p.crtcs {
		return nil, &Error{Op: op, Code: ErrNoSuchCRTC}
	}
	cb, err := state.backend.openCRTC(index)
	if err != nil {
		return nil, wrapError(op, err)
	}

	c := &CRTC{
		site:      p.site,
		partition: p.id,
		index:     index,
	}
	c.id = crtcs.Insert(&crtcState{partition: p.id, backend: cb})
	Logger().Debug("gamma: CRTC opened", "partition", p.id, "index", index, "id", c.id)
	return c, nil
}

// Restore restores the gamma ramps of every CRTC in the partition to the
// system settings. Without native support each CRTC is restored in turn and
// the first failure aborts the rest.
func (p *Partition) Restore() error {
	const op = "restore partition"

	site, state, err := p.lock(op)
	if err != nil {
		return err
	}
	defer site.mu.Unlock()

	return wrapError(op, restorePartition(site.caps, state.backend))
}

// Close releases the partition. CRTCs opened from the partition should be
// closed first.
func (p *Partition) Close() error {
	const op = "close partition"

	if site, ok := sites.Lookup(p.site); ok {
		site.mu.Lock()
		defer site.mu.Unlock()
	}
	state, ok := partitions.Remove(p.id)
	if !ok {
		return &Error{Op: op, Code: ErrInvalidHandle}
	}
	Logger().Debug("gamma: partition closed", "id", p.id)
	return wrapError(op, state.backend.close())
}

// lock resolves the partition and locks the connection of its site.
func (p *Partition) lock(op string) (*siteState, *partitionState, error) {
	site, err := lockSite(op, p.site)
	if err != nil {
		return nil, nil, err
	}
	state, ok := partitions.Lookup(p.id)
	if !ok {
		site.mu.Unlock()
		return nil, nil, &Error{Op: op, Code: ErrInvalidHandle}
	}
	return site, state, nil
}
