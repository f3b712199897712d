package gamma

import (
	"sync"

	"github.com/BeatGlow/gamma/internal/handle"
)

var (
	sites      handle.Table[*siteState]
	partitions handle.Table[*partitionState]
	crtcs      handle.Table[*crtcState]
)

type siteState struct {
	// mu serialises all use of the backend connection, including that of
	// the partitions and CRTCs opened from the site.
	mu      sync.Mutex
	method  Method
	caps    Capabilities
	backend siteBackend
}

// Site is a connection to an adjustment method backend.
type Site struct {
	id         handle.ID
	method     Method
	name       string
	partitions int
}

// OpenSite connects to a site of the given method. An empty site name
// selects the method's default site.
func OpenSite(method Method, site string) (*Site, error) {
	const op = "open site"

	b, ok := lookupBackend(method)
	if !ok {
		return nil, &Error{Op: op, Code: ErrNoSuchAdjustmentMethod}
	}

	sb, err := b.open(site)
	if err != nil {
		return nil, wrapError(op, err)
	}
	n := sb.partitions()
	if n < 0 {
		closeBackend(op, sb)
		return nil, &Error{Op: op, Code: ErrNegativePartitionCount}
	}

	s := &Site{
		method:     method,
		name:       site,
		partitions: n,
	}
	s.id = sites.Insert(&siteState{method: method, caps: method.Capabilities(), backend: sb})
	Logger().Debug("gamma: site opened", "method", method, "site", site, "partitions", n, "id", s.id)
	return s, nil
}

// Method returns the adjustment method of the site.
func (s *Site) Method() Method {
	return s.method
}

// Name returns the site name the site was opened with; empty for the
// default site.
func (s *Site) Name() string {
	return s.name
}

// PartitionsAvailable returns the number of partitions in the site.
func (s *Site) PartitionsAvailable() int {
	return s.partitions
}

// OpenPartition opens partition index, in [0, PartitionsAvailable()).
func (s *Site) OpenPartition(index int) (*Partition, error) {
	const op = "open partition"

	state, err := s.lock(op)
	if err != nil {
		return nil, err
	}
	defer state.mu.Unlock()

	if index < 0 || index >= s.partitions {
		return nil, &Error{Op: op, Code: ErrNoSuchPartition}
	}
	pb, err := state.backend.openPartition(index)
	if err != nil {
		return nil, wrapError(op, err)
	}
	n := pb.crtcs()
	if n < 0 {
		closeBackend(op, pb)
		return nil, &Error{Op: op, Code: ErrNegativeCRTCCount}
	}

	p := &Partition{
		site:  s.id,
		index: index,
		crtcs: n,
	}
	p.id = partitions.Insert(&partitionState{site: s.id, backend: pb})
	Logger().Debug("gamma: partition opened", "site", s.id, "index", index, "crtcs", n, "id", p.id)
	return p, nil
}

// Restore restores the gamma ramps of every CRTC in the site to the system
// settings. If the method cannot restore a whole site, each CRTC is restored
// in turn and the first failure aborts the rest; the operation is not
// transactional.
func (s *Site) Restore() error {
	const op = "restore site"

	state, err := s.lock(op)
	if err != nil {
		return err
	}
	defer state.mu.Unlock()

	caps := state.caps
	if caps.SiteRestore {
		return wrapError(op, state.backend.restore())
	}
	if !caps.PartitionRestore && !caps.CRTCRestore {
		return wrapError(op, ErrNotSupported)
	}
	for i := 0; i < s.partitions; i++ {
		pb, err := state.backend.openPartition(i)
		if err != nil {
			return wrapError(op, err)
		}
		err = restorePartition(caps, pb)
		closeBackend(op, pb)
		if err != nil {
			return wrapError(op, err)
		}
	}
	return nil
}

// Close disconnects from the site. Partitions and CRTCs opened from the site
// should be closed first; they cannot be used once the site is closed.
func (s *Site) Close() error {
	state, ok := sites.Lookup(s.id)
	if !ok {
		return &Error{Op: "close site", Code: ErrInvalidHandle}
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	if _, ok := sites.Remove(s.id); !ok {
		return &Error{Op: "close site", Code: ErrInvalidHandle}
	}
	Logger().Debug("gamma: site closed", "id", s.id)
	return wrapError("close site", state.backend.close())
}

// lock resolves the site and locks its connection.
func (s *Site) lock(op string) (*siteState, error) {
	return lockSite(op, s.id)
}

func lockSite(op string, id handle.ID) (*siteState, error) {
	state, ok := sites.Lookup(id)
	if !ok {
		return nil, &Error{Op: op, Code: ErrInvalidHandle}
	}
	state.mu.Lock()
	if _, ok := sites.Lookup(id); !ok {
		// Closed while waiting for the lock.
		state.mu.Unlock()
		return nil, &Error{Op: op, Code: ErrInvalidHandle}
	}
	return state, nil
}

// restorePartition restores all CRTCs of a partition backend, natively if
// possible, else one by one stopping at the first failure.
func restorePartition(caps Capabilities, pb partitionBackend) error {
	if caps.PartitionRestore {
		return pb.restore()
	}
	if !caps.CRTCRestore {
		return ErrNotSupported
	}
	for i, n := 0, pb.crtcs(); i < n; i++ {
		cb, err := pb.openCRTC(i)
		if err != nil {
			return err
		}
		err = cb.restore()
		closeBackend("restore", cb)
		if err != nil {
			return err
		}
	}
	return nil
}

type closer interface {
	close() error
}

// closeBackend closes backend state on a path where the close error cannot
// be returned.
func closeBackend(op string, c closer) {
	if err := c.close(); err != nil {
		Logger().Warn("gamma: close failed", "op", op, "err", err)
	}
}
