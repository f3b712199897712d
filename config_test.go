package gamma

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testDummyConfig = `
partitions: 2
crtcs: 3
gamma_size: 1024
gamma_depth: -1
capabilities:
  site_restore: false
  real: true
outputs:
  "1.2":
    connector_name: HDMI-A-1
    connector_type: HDMI-A
    width_mm: 600
    height_mm: 340
    red_gamma_size: 1024
faults:
  write_ramps: GAMMA_RAMP_WRITE_FAILED
`

func TestLoadDummyConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dummy.yaml")
	if err := os.WriteFile(path, []byte(testDummyConfig), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadDummyConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Partitions != 2 || cfg.CRTCs != 3 {
		t.Errorf("expected 2 partitions of 3 CRTCs, got %d of %d", cfg.Partitions, cfg.CRTCs)
	}
	if cfg.GammaSize != 1024 || cfg.GammaDepth != DepthFloat {
		t.Errorf("expected 1024 float stops, got %d %s", cfg.GammaSize, cfg.GammaDepth)
	}
	if cfg.Capabilities.SiteRestore || !cfg.Capabilities.Real {
		t.Errorf("expected capabilities to be overridden, got %+v", cfg.Capabilities)
	}
	if !cfg.Capabilities.CRTCRestore || cfg.Capabilities.CRTCInformation != InfoAll {
		t.Errorf("expected unset capabilities to keep their defaults, got %+v", cfg.Capabilities)
	}
	if out := cfg.Outputs["1.2"]; out.ConnectorName != "HDMI-A-1" || out.WidthMM != 600 {
		t.Errorf("unexpected output %+v", out)
	}

	useDummyConfig(t, cfg)
	site, err := OpenSite(Dummy, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer site.Close()
	if n := site.PartitionsAvailable(); n != 2 {
		t.Errorf("expected 2 partitions, got %d", n)
	}
	part, err := site.OpenPartition(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer part.Close()
	crtc, err := part.OpenCRTC(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer crtc.Close()

	ramps, _ := NewGammaRamps[uint16](1024, 1024, 1024)
	if err := crtc.SetGammaRamps(ramps); CodeOf(err) != ErrGammaRampWriteFailed {
		t.Errorf("expected %v, got %v", ErrGammaRampWriteFailed, err)
	}
	info, err := crtc.Information(InfoConnector | InfoRamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.ConnectorName != "HDMI-A-1" || info.ConnectorType != ConnectorHDMIA {
		t.Errorf("expected HDMI-A-1, got %s (%s)", info.ConnectorName, info.ConnectorType)
	}
	if info.GammaDepth != DepthFloat || info.RedGammaSize != 1024 {
		t.Errorf("expected 1024 float stops, got %d %s", info.RedGammaSize, info.GammaDepth)
	}
}

func TestParseDummyConfigErrors(t *testing.T) {
	tests := []struct {
		name, yaml string
	}{
		{"syntax", "partitions: [1"},
		{"negative partitions", "partitions: -1"},
		{"negative CRTCs", "crtcs: -2"},
		{"depth", "gamma_depth: 12"},
		{"fault", "faults: {restore: NOT_AN_ERROR}"},
		{"connector", `outputs: {"0.0": {connector_type: SCART}}`},
		{"edid", `outputs: {"0.0": {edid: xyz}}`},
		{"negative output size", `outputs: {"0.0": {blue_gamma_size: -1}}`},
		{"mixed output sizes", `outputs: {"0.0": {red_gamma_size: 512}}`},
		{"unfixed output size", `outputs: {"0.0": {red_gamma_size: 512, green_gamma_size: 512, blue_gamma_size: 512}}`},
		{"mixed output sizes without fixed size", `
capabilities: {fixed_gamma_size: false}
outputs: {"0.0": {red_gamma_size: 512}}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseDummyConfig([]byte(test.yaml)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseDummyConfigOutputSizes(t *testing.T) {
	cfg, err := ParseDummyConfig([]byte(`
capabilities: {identical_gamma_sizes: false, fixed_gamma_size: false}
outputs: {"0.0": {red_gamma_size: 512}}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	useDummyConfig(t, cfg)
	_, _, crtc := openDummy(t)

	info, err := crtc.Information(InfoGammaSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.RedGammaSize != 512 || info.GreenGammaSize != 256 || info.BlueGammaSize != 256 {
		t.Fatalf("expected 512, 256, 256 stops, got %d, %d, %d", info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize)
	}
	ramps, _ := NewGammaRamps[uint16](512, 256, 256)
	if err := crtc.GammaRamps(ramps); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := crtc.SetGammaRamps(ramps); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSetDummyConfigRejectsMixedSizes(t *testing.T) {
	cfg := DefaultDummyConfig()
	cfg.Outputs = map[string]DummyOutput{"0.0": {RedGammaSize: 512}}
	if err := SetDummyConfig(cfg); !errors.Is(err, ErrMixedGammaRampSize) {
		t.Errorf("expected %v, got %v", ErrMixedGammaRampSize, err)
	}
}

func TestSetDummyConfigCopies(t *testing.T) {
	cfg := DefaultDummyConfig()
	cfg.Outputs = map[string]DummyOutput{"0.0": {ConnectorName: "before"}}
	useDummyConfig(t, cfg)
	cfg.Partitions = 5
	cfg.Outputs["0.0"] = DummyOutput{ConnectorName: "after"}

	site, err := OpenSite(Dummy, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer site.Close()
	if n := site.PartitionsAvailable(); n != 1 {
		t.Errorf("expected 1 partition, got %d", n)
	}
	part, err := site.OpenPartition(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer part.Close()
	crtc, err := part.OpenCRTC(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer crtc.Close()
	info, err := crtc.Information(InfoConnectorName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.ConnectorName != "before" {
		t.Errorf("expected before, got %s", info.ConnectorName)
	}
}
