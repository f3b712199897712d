package gamma

import (
	"fmt"
	"maps"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// DummyConfig configures the Dummy adjustment method.
type DummyConfig struct {
	// Capabilities advertised by the method.
	Capabilities Capabilities `yaml:"capabilities"`

	// Partitions is the number of partitions of every site.
	Partitions int `yaml:"partitions"`

	// CRTCs is the number of CRTCs of every partition.
	CRTCs int `yaml:"crtcs"`

	// GammaSize is the default number of stops of each ramp.
	GammaSize int `yaml:"gamma_size"`

	// GammaDepth is the native ramp depth.
	GammaDepth Depth `yaml:"gamma_depth"`

	// Outputs describes individual CRTCs, keyed by "partition.crtc", for
	// example "0.1". CRTCs without an entry use defaults.
	Outputs map[string]DummyOutput `yaml:"outputs"`

	// Faults names error codes, as in ErrorCode.Name, to fail operations
	// with.
	Faults DummyFaults `yaml:"faults"`
}

// DummyOutput describes one CRTC of the Dummy method.
type DummyOutput struct {
	ConnectorName  string `yaml:"connector_name"`
	ConnectorType  string `yaml:"connector_type"`
	Active         *bool  `yaml:"active"`
	EDID           string `yaml:"edid"`
	WidthMM        int    `yaml:"width_mm"`
	HeightMM       int    `yaml:"height_mm"`
	SubpixelOrder  int    `yaml:"subpixel_order"`
	RedGammaSize   int    `yaml:"red_gamma_size"`
	GreenGammaSize int    `yaml:"green_gamma_size"`
	BlueGammaSize  int    `yaml:"blue_gamma_size"`
}

// DummyFaults injects errors into Dummy method operations.
type DummyFaults struct {
	OpenSite      string `yaml:"open_site"`
	OpenPartition string `yaml:"open_partition"`
	OpenCRTC      string `yaml:"open_crtc"`
	ReadRamps     string `yaml:"read_ramps"`
	WriteRamps    string `yaml:"write_ramps"`
	Restore       string `yaml:"restore"`
	Information   string `yaml:"information"`
}

// DefaultDummyConfig returns the configuration the Dummy method starts with:
// one partition with one CRTC of 256 stop 16-bit ramps.
func DefaultDummyConfig() *DummyConfig {
	return &DummyConfig{
		Capabilities: Capabilities{
			CRTCInformation:     InfoAll,
			DefaultSiteKnown:    true,
			MultipleSites:       true,
			MultiplePartitions:  true,
			MultipleCRTCs:       true,
			SiteRestore:         true,
			PartitionRestore:    true,
			CRTCRestore:         true,
			IdenticalGammaSizes: true,
			FixedGammaSize:      true,
			FixedGammaDepth:     true,
			Fake:                true,
		},
		Partitions: 1,
		CRTCs:      1,
		GammaSize:  256,
		GammaDepth: Depth16,
	}
}

// ParseDummyConfig parses a YAML Dummy method configuration. Fields not set
// keep their DefaultDummyConfig values.
func ParseDummyConfig(data []byte) (*DummyConfig, error) {
	cfg := DefaultDummyConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("gamma: parsing dummy config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDummyConfig reads a YAML Dummy method configuration file.
func LoadDummyConfig(path string) (*DummyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseDummyConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *DummyConfig) validate() error {
	switch {
	case cfg.Partitions < 0:
		return fmt.Errorf("gamma: dummy config: %w", ErrNegativePartitionCount)
	case cfg.CRTCs < 0:
		return fmt.Errorf("gamma: dummy config: %w", ErrNegativeCRTCCount)
	case cfg.GammaSize < 0:
		return fmt.Errorf("gamma: dummy config: %w", ErrImpossibleAmount)
	case !cfg.GammaDepth.IsValid():
		return fmt.Errorf("gamma: dummy config: invalid gamma depth %d", cfg.GammaDepth)
	}
	for key, out := range cfg.Outputs {
		if out.ConnectorType != "" {
			if _, ok := ConnectorTypeByName(out.ConnectorType); !ok {
				return fmt.Errorf("gamma: dummy config: output %s: %w", key, ErrConnectorTypeNotRecognised)
			}
		}
		if out.EDID != "" {
			if _, err := ParseEDIDHex(out.EDID); err != nil {
				return fmt.Errorf("gamma: dummy config: output %s: edid: %w", key, err)
			}
		}
		if out.RedGammaSize < 0 || out.GreenGammaSize < 0 || out.BlueGammaSize < 0 {
			return fmt.Errorf("gamma: dummy config: output %s: %w", key, ErrImpossibleAmount)
		}
		red, green, blue := cfg.gammaSizes(out)
		if cfg.Capabilities.IdenticalGammaSizes && (red != green || red != blue) {
			return fmt.Errorf("gamma: dummy config: output %s: %w", key, ErrMixedGammaRampSize)
		}
		if cfg.Capabilities.FixedGammaSize && (red != cfg.GammaSize || green != cfg.GammaSize || blue != cfg.GammaSize) {
			return fmt.Errorf("gamma: dummy config: output %s: %w", key, ErrWrongGammaRampSize)
		}
	}
	for _, name := range []string{
		cfg.Faults.OpenSite, cfg.Faults.OpenPartition, cfg.Faults.OpenCRTC,
		cfg.Faults.ReadRamps, cfg.Faults.WriteRamps, cfg.Faults.Restore, cfg.Faults.Information,
	} {
		if _, err := faultCode(name); err != nil {
			return err
		}
	}
	return nil
}

// gammaSizes returns the ramp sizes of an output; sizes it leaves unset are
// GammaSize.
func (cfg *DummyConfig) gammaSizes(out DummyOutput) (red, green, blue int) {
	red, green, blue = cfg.GammaSize, cfg.GammaSize, cfg.GammaSize
	if out.RedGammaSize > 0 {
		red = out.RedGammaSize
	}
	if out.GreenGammaSize > 0 {
		green = out.GreenGammaSize
	}
	if out.BlueGammaSize > 0 {
		blue = out.BlueGammaSize
	}
	return red, green, blue
}

// faultCode resolves an injected fault name; the empty name is no fault and
// resolves to zero.
func faultCode(name string) (ErrorCode, error) {
	if name == "" {
		return 0, nil
	}
	code, ok := ErrorCodeByName(name)
	if !ok {
		return 0, fmt.Errorf("gamma: dummy config: unknown error name %q", name)
	}
	return code, nil
}

var (
	dummyConfigMu sync.RWMutex
	dummyConfig   = DefaultDummyConfig()
)

func init() {
	if path := os.Getenv("GAMMA_DUMMY_CONFIG"); path != "" {
		cfg, err := LoadDummyConfig(path)
		if err != nil {
			Logger().Warn("gamma: ignoring dummy config", "path", path, "err", err)
			return
		}
		dummyConfig = cfg
	}
}

// SetDummyConfig replaces the Dummy method configuration. Sites opened
// before keep the configuration they were opened with. A nil config restores
// the default.
func SetDummyConfig(cfg *DummyConfig) error {
	if cfg == nil {
		cfg = DefaultDummyConfig()
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	c := *cfg
	c.Outputs = maps.Clone(cfg.Outputs)
	dummyConfigMu.Lock()
	defer dummyConfigMu.Unlock()
	dummyConfig = &c
	return nil
}

func currentDummyConfig() *DummyConfig {
	dummyConfigMu.RLock()
	defer dummyConfigMu.RUnlock()
	return dummyConfig
}
