package gamma

import "fmt"

// Capabilities describes what an adjustment method supports.
type Capabilities struct {
	// CRTCInformation is the set of CRTC information fields the method may
	// be able to report; a field in the set can still fail for a given CRTC.
	CRTCInformation InfoField `yaml:"crtc_information"`

	// DefaultSiteKnown is set if the default site is integrated with the
	// system or can be determined from the environment.
	DefaultSiteKnown bool `yaml:"default_site_known"`

	// MultipleSites is set if sites other than the default site exist.
	MultipleSites bool `yaml:"multiple_sites"`

	// MultiplePartitions is set if a site can have more than one partition.
	MultiplePartitions bool `yaml:"multiple_partitions"`

	// MultipleCRTCs is set if a partition can have more than one CRTC.
	MultipleCRTCs bool `yaml:"multiple_crtcs"`

	// PartitionsAreGraphicsCards is set if partitions map one to one to
	// graphics cards.
	PartitionsAreGraphicsCards bool `yaml:"partitions_are_graphics_cards"`

	// SiteRestore, PartitionRestore and CRTCRestore are set if the method
	// can restore the system gamma ramps natively at that level.
	SiteRestore      bool `yaml:"site_restore"`
	PartitionRestore bool `yaml:"partition_restore"`
	CRTCRestore      bool `yaml:"crtc_restore"`

	// IdenticalGammaSizes is set if the red, green and blue ramps of a CRTC
	// always have the same size.
	IdenticalGammaSizes bool `yaml:"identical_gamma_sizes"`

	// FixedGammaSize is set if all CRTCs report the same ramp sizes.
	FixedGammaSize bool `yaml:"fixed_gamma_size"`

	// FixedGammaDepth is set if all CRTCs report the same ramp depth.
	FixedGammaDepth bool `yaml:"fixed_gamma_depth"`

	// Real is set if the method performs actual adjustments.
	Real bool `yaml:"real"`

	// Fake is set if the method is a stand-in that does not touch any
	// hardware, or is implemented through a translation layer.
	Fake bool `yaml:"fake"`
}

// Bit positions of the flags in Capabilities.Bits, above the 32 bits of the
// CRTC information mask.
const (
	capDefaultSiteKnown = 32 + iota
	capMultipleSites
	capMultiplePartitions
	capMultipleCRTCs
	capPartitionsAreGraphicsCards
	capSiteRestore
	capPartitionRestore
	capCRTCRestore
	capIdenticalGammaSizes
	capFixedGammaSize
	capFixedGammaDepth
	capReal
	capFake
)

func (c Capabilities) flags() []*bool {
	return []*bool{
		&c.DefaultSiteKnown,
		&c.MultipleSites,
		&c.MultiplePartitions,
		&c.MultipleCRTCs,
		&c.PartitionsAreGraphicsCards,
		&c.SiteRestore,
		&c.PartitionRestore,
		&c.CRTCRestore,
		&c.IdenticalGammaSizes,
		&c.FixedGammaSize,
		&c.FixedGammaDepth,
		&c.Real,
		&c.Fake,
	}
}

// Bits packs the capabilities into one word: bits 0-31 hold the CRTC
// information mask, bits 32 and up one flag each, in field order.
func (c Capabilities) Bits() uint64 {
	bits := uint64(uint32(c.CRTCInformation))
	for i, flag := range c.flags() {
		if *flag {
			bits |= 1 << (capDefaultSiteKnown + i)
		}
	}
	return bits
}

// CapabilitiesFromBits unpacks a word produced by Capabilities.Bits.
func CapabilitiesFromBits(bits uint64) Capabilities {
	c := Capabilities{CRTCInformation: InfoField(uint32(bits))}
	c.DefaultSiteKnown = bits&(1<<capDefaultSiteKnown) != 0
	c.MultipleSites = bits&(1<<capMultipleSites) != 0
	c.MultiplePartitions = bits&(1<<capMultiplePartitions) != 0
	c.MultipleCRTCs = bits&(1<<capMultipleCRTCs) != 0
	c.PartitionsAreGraphicsCards = bits&(1<<capPartitionsAreGraphicsCards) != 0
	c.SiteRestore = bits&(1<<capSiteRestore) != 0
	c.PartitionRestore = bits&(1<<capPartitionRestore) != 0
	c.CRTCRestore = bits&(1<<capCRTCRestore) != 0
	c.IdenticalGammaSizes = bits&(1<<capIdenticalGammaSizes) != 0
	c.FixedGammaSize = bits&(1<<capFixedGammaSize) != 0
	c.FixedGammaDepth = bits&(1<<capFixedGammaDepth) != 0
	c.Real = bits&(1<<capReal) != 0
	c.Fake = bits&(1<<capFake) != 0
	return c
}

func (c Capabilities) String() string {
	return fmt.Sprintf("capabilities %#x", c.Bits())
}
