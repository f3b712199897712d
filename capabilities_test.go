package gamma

import "testing"

func TestCapabilitiesBits(t *testing.T) {
	c := Capabilities{DefaultSiteKnown: true}
	if bits := c.Bits(); bits != 1<<32 {
		t.Errorf("expected default site known at bit 32, got %#x", bits)
	}
	c = Capabilities{Fake: true}
	if bits := c.Bits(); bits != 1<<44 {
		t.Errorf("expected fake at bit 44, got %#x", bits)
	}

	tests := []Capabilities{
		{},
		{CRTCInformation: InfoAll},
		methods[XRandR].caps,
		methods[LinuxDRM].caps,
		methods[QuartzCoreGraphics].caps,
		DefaultDummyConfig().Capabilities,
		{CRTCInformation: InfoGamma, SiteRestore: true, CRTCRestore: true, Real: true, Fake: true},
	}
	for _, want := range tests {
		t.Run(want.String(), func(t *testing.T) {
			if got := CapabilitiesFromBits(want.Bits()); got != want {
				t.Errorf("expected %+v, got %+v", want, got)
			}
		})
	}
}
