package gamma

import (
	"bytes"
	"testing"
)

func TestInformation(t *testing.T) {
	edid := testEDID(60, 34, 120)
	active := false
	cfg := DefaultDummyConfig()
	cfg.Outputs = map[string]DummyOutput{
		"0.0": {
			ConnectorType: "DP",
			Active:        &active,
			EDID:          EDIDHex(edid),
			WidthMM:       597,
			HeightMM:      336,
			SubpixelOrder: int(SubpixelHorizontalRGB),
		},
	}
	useDummyConfig(t, cfg)
	_, _, crtc := openDummy(t)

	info, err := crtc.Information(InfoAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.HasError() {
		for _, f := range info.fieldErrors() {
			if *f.err != nil {
				t.Errorf("field %#x: %v", uint32(f.field), *f.err)
			}
		}
	}
	if !bytes.Equal(info.EDID, edid) {
		t.Error("expected EDID to be returned")
	}
	if info.WidthMM != 597 || info.HeightMM != 336 {
		t.Errorf("expected 597x336 mm, got %dx%d mm", info.WidthMM, info.HeightMM)
	}
	if info.WidthMMEDID != 600 || info.HeightMMEDID != 340 {
		t.Errorf("expected 600x340 mm from EDID, got %dx%d mm", info.WidthMMEDID, info.HeightMMEDID)
	}
	if info.RedGammaSize != 256 || info.GreenGammaSize != 256 || info.BlueGammaSize != 256 {
		t.Errorf("expected 256 stops, got %d, %d, %d", info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize)
	}
	if info.GammaDepth != Depth16 {
		t.Errorf("expected depth 16, got %s", info.GammaDepth)
	}
	if !info.GammaSupport {
		t.Error("expected gamma support")
	}
	if info.SubpixelOrder != SubpixelHorizontalRGB {
		t.Errorf("expected horizontal RGB, got %s", info.SubpixelOrder)
	}
	if info.Active {
		t.Error("expected inactive output")
	}
	if info.ConnectorName != "dummy-0-0" || info.ConnectorType != ConnectorDisplayPort {
		t.Errorf("expected dummy-0-0 (DP), got %s (%s)", info.ConnectorName, info.ConnectorType)
	}
	if info.GammaRed != 2.2 || info.GammaGreen != 2.2 || info.GammaBlue != 2.2 {
		t.Errorf("expected gamma 2.2, got %g, %g, %g", info.GammaRed, info.GammaGreen, info.GammaBlue)
	}
}

func TestInformationFieldSelection(t *testing.T) {
	cfg := DefaultDummyConfig()
	cfg.Capabilities.CRTCInformation = InfoAll &^ InfoWidthMM
	cfg.Outputs = map[string]DummyOutput{"0.0": {EDID: EDIDHex(testEDID(50, 30, 0xff))}}
	useDummyConfig(t, cfg)
	_, _, crtc := openDummy(t)

	info, err := crtc.Information(InfoGamma | InfoEDIDViewport | InfoWidthMM)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.EDID != nil {
		t.Error("expected EDID not to be returned when not requested")
	}
	if info.EDIDErr != ErrNotRequested {
		t.Errorf("expected EDID not requested, got %v", info.EDIDErr)
	}
	if info.WidthMMEDID != 500 || info.WidthMMEDIDErr != nil {
		t.Errorf("expected 500 mm from EDID, got %d (%v)", info.WidthMMEDID, info.WidthMMEDIDErr)
	}
	if info.GammaErr != ErrGammaNotSpecified {
		t.Errorf("expected %v, got %v", ErrGammaNotSpecified, info.GammaErr)
	}
	if info.WidthMMErr != ErrCRTCInfoNotSupported {
		t.Errorf("expected %v, got %v", ErrCRTCInfoNotSupported, info.WidthMMErr)
	}
	if err := info.Err(InfoActive); err != ErrNotRequested {
		t.Errorf("expected active not requested, got %v", err)
	}
	if !info.HasError() {
		t.Error("expected HasError to report the failed fields")
	}
}

func TestInformationWithoutEDID(t *testing.T) {
	useDummyConfig(t, nil)
	_, _, crtc := openDummy(t)

	info, err := crtc.Information(InfoEDIDMacro | InfoActive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, field := range []InfoField{InfoEDID, InfoWidthMMEDID, InfoHeightMMEDID, InfoGamma} {
		if err := info.Err(field); err != ErrEDIDNotFound {
			t.Errorf("field %#x: expected %v, got %v", uint32(field), ErrEDIDNotFound, err)
		}
	}
	if !info.Active || info.ActiveErr != nil {
		t.Errorf("expected active output, got %t (%v)", info.Active, info.ActiveErr)
	}
}

func TestInformationFault(t *testing.T) {
	cfg := DefaultDummyConfig()
	cfg.Faults.Information = "OUTPUT_INFORMATION_QUERY_FAILED"
	useDummyConfig(t, cfg)
	_, _, crtc := openDummy(t)

	if _, err := crtc.Information(InfoAll); CodeOf(err) != ErrOutputInformationQueryFailed {
		t.Errorf("expected %v, got %v", ErrOutputInformationQueryFailed, err)
	}
}

func TestConnectorTypeNames(t *testing.T) {
	for typ := ConnectorUnknown; typ <= ConnectorLFP; typ++ {
		got, ok := ConnectorTypeByName(typ.String())
		if !ok || got != typ {
			t.Errorf("expected %s to resolve to %d, got %d", typ, int(typ), int(got))
		}
	}
	if _, ok := ConnectorTypeByName("SCART"); ok {
		t.Error("expected unknown connector name not to resolve")
	}
}

func TestInformationGammaSupport(t *testing.T) {
	for _, test := range []struct {
		size    int
		support bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{256, true},
	} {
		cfg := DefaultDummyConfig()
		cfg.GammaSize = test.size
		useDummyConfig(t, cfg)
		_, _, crtc := openDummy(t)

		info, err := crtc.Information(InfoGammaSupport)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info.GammaSupport != test.support {
			t.Errorf("size %d: expected gamma support %t, got %t", test.size, test.support, info.GammaSupport)
		}
	}
}
