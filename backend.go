package gamma

// siteBackend is the method specific state of an open site.
type siteBackend interface {
	// partitions returns the number of partitions in the site.
	partitions() int

	// openPartition opens partition index, which is in range.
	openPartition(index int) (partitionBackend, error)

	// restore restores every CRTC in the site to the system gamma ramps.
	// It is only called if the method has the SiteRestore capability.
	restore() error

	close() error
}

// partitionBackend is the method specific state of an open partition.
type partitionBackend interface {
	// crtcs returns the number of CRTCs in the partition.
	crtcs() int

	// openCRTC opens CRTC index, which is in range.
	openCRTC(index int) (crtcBackend, error)

	// restore is only called if the method has the PartitionRestore
	// capability.
	restore() error

	close() error
}

// crtcBackend is the method specific state of an open CRTC.
type crtcBackend interface {
	// information fills in the requested fields of info that are supported
	// by the method. Fields not to be filled in already carry an error.
	information(info *CRTCInformation) error

	// rampSizes returns the current red, green and blue ramp sizes.
	rampSizes() (red, green, blue int, err error)

	// depth returns the native ramp depth.
	depth() Depth

	// readRamps and writeRamps transfer ramps of the native depth and the
	// current sizes.
	readRamps(ramps RampSet) error
	writeRamps(ramps RampSet) error

	// restore is only called if the method has the CRTCRestore capability.
	restore() error

	close() error
}

// notSupported is embedded by backends lacking native restore.
type notSupported struct{}

func (notSupported) restore() error {
	return ErrNotSupported
}
