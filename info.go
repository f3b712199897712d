package gamma

import (
	"errors"
	"fmt"
	"strconv"
)

// InfoField selects fields of CRTCInformation.
type InfoField uint32

// CRTC information fields.
const (
	InfoEDID          InfoField = 1 << iota // EDID
	InfoWidthMM                             // WidthMM
	InfoHeightMM                            // HeightMM
	InfoWidthMMEDID                         // WidthMMEDID
	InfoHeightMMEDID                        // HeightMMEDID
	InfoGammaSize                           // RedGammaSize, GreenGammaSize, BlueGammaSize
	InfoGammaDepth                          // GammaDepth
	InfoGammaSupport                        // GammaSupport
	InfoSubpixelOrder                       // SubpixelOrder
	InfoActive                              // Active
	InfoConnectorName                       // ConnectorName
	InfoConnectorType                       // ConnectorType
	InfoGamma                               // GammaRed, GammaGreen, GammaBlue

	// InfoFieldCount is the number of defined fields.
	InfoFieldCount = 13

	// InfoAll selects every field.
	InfoAll InfoField = 1<<InfoFieldCount - 1
)

// Field groups.
const (
	// InfoEDIDViewport is the monitor size as stated in the EDID.
	InfoEDIDViewport = InfoWidthMMEDID | InfoHeightMMEDID

	// InfoEDIDMacro is every field that is read from the EDID.
	InfoEDIDMacro = InfoEDID | InfoEDIDViewport | InfoGamma

	// InfoViewport is the monitor size as reported by the method.
	InfoViewport = InfoWidthMM | InfoHeightMM

	// InfoRamp is the gamma ramp sizes and depth.
	InfoRamp = InfoGammaSize | InfoGammaDepth

	// InfoConnector is the connector name and type.
	InfoConnector = InfoConnectorName | InfoConnectorType

	// InfoActiveMacro is every field that requires a connected monitor.
	InfoActiveMacro = InfoEDIDMacro | InfoViewport | InfoSubpixelOrder | InfoActive
)

// ErrNotRequested is the field error of a field that was not requested.
var ErrNotRequested = errors.New("gamma: field not requested")

// SubpixelOrder is the physical layout of the subpixels of a monitor.
type SubpixelOrder int

// Subpixel orders.
const (
	SubpixelUnknown SubpixelOrder = iota
	SubpixelNone
	SubpixelHorizontalRGB
	SubpixelHorizontalBGR
	SubpixelVerticalRGB
	SubpixelVerticalBGR
)

var subpixelOrderNames = [...]string{
	SubpixelUnknown:       "unknown",
	SubpixelNone:          "none",
	SubpixelHorizontalRGB: "horizontal RGB",
	SubpixelHorizontalBGR: "horizontal BGR",
	SubpixelVerticalRGB:   "vertical RGB",
	SubpixelVerticalBGR:   "vertical BGR",
}

func (o SubpixelOrder) String() string {
	if o >= 0 && int(o) < len(subpixelOrderNames) {
		return subpixelOrderNames[o]
	}
	return "subpixel(" + strconv.Itoa(int(o)) + ")"
}

// ConnectorType is the type of the connector a CRTC drives.
type ConnectorType int

// Connector types.
const (
	ConnectorUnknown ConnectorType = iota
	ConnectorVGA
	ConnectorDVI
	ConnectorDVII
	ConnectorDVID
	ConnectorDVIA
	ConnectorComposite
	ConnectorSVideo
	ConnectorLVDS
	ConnectorComponent
	Connector9PinDIN
	ConnectorDisplayPort
	ConnectorHDMI
	ConnectorHDMIA
	ConnectorHDMIB
	ConnectorTV
	ConnectorEDP
	ConnectorVirtual
	ConnectorDSI
	ConnectorLFP
)

var connectorTypeNames = [...]string{
	ConnectorUnknown:     "Unknown",
	ConnectorVGA:         "VGA",
	ConnectorDVI:         "DVI",
	ConnectorDVII:        "DVI-I",
	ConnectorDVID:        "DVI-D",
	ConnectorDVIA:        "DVI-A",
	ConnectorComposite:   "Composite",
	ConnectorSVideo:      "SVIDEO",
	ConnectorLVDS:        "LVDS",
	ConnectorComponent:   "Component",
	Connector9PinDIN:     "DIN",
	ConnectorDisplayPort: "DP",
	ConnectorHDMI:        "HDMI",
	ConnectorHDMIA:       "HDMI-A",
	ConnectorHDMIB:       "HDMI-B",
	ConnectorTV:          "TV",
	ConnectorEDP:         "eDP",
	ConnectorVirtual:     "Virtual",
	ConnectorDSI:         "DSI",
	ConnectorLFP:         "LFP",
}

func (t ConnectorType) String() string {
	if t >= 0 && int(t) < len(connectorTypeNames) {
		return connectorTypeNames[t]
	}
	return "connector(" + strconv.Itoa(int(t)) + ")"
}

// ConnectorTypeByName returns the connector type with the given name as
// returned by ConnectorType.String.
func ConnectorTypeByName(name string) (ConnectorType, bool) {
	for i, n := range connectorTypeNames {
		if n == name {
			return ConnectorType(i), true
		}
	}
	return ConnectorUnknown, false
}

// CRTCInformation is a snapshot of information about a CRTC. Each value has
// a matching error field that is nil if the value was read.
type CRTCInformation struct {
	// EDID is the raw Extended Display Identification Data of the monitor,
	// usually 128 bytes.
	EDID    []byte
	EDIDErr error

	// WidthMM and HeightMM are the physical viewport size in millimetres as
	// reported by the method. Zero means not applicable, as for projectors.
	WidthMM     int
	WidthMMErr  error
	HeightMM    int
	HeightMMErr error

	// WidthMMEDID and HeightMMEDID are the physical viewport size in
	// millimetres as stated in the EDID, in whole centimetres.
	WidthMMEDID     int
	WidthMMEDIDErr  error
	HeightMMEDID    int
	HeightMMEDIDErr error

	// RedGammaSize, GreenGammaSize and BlueGammaSize are the number of stops
	// of the gamma ramps.
	RedGammaSize   int
	GreenGammaSize int
	BlueGammaSize  int
	GammaSizeErr   error

	// GammaDepth is the native depth of the gamma ramps.
	GammaDepth    Depth
	GammaDepthErr error

	// GammaSupport is set if the gamma ramps can be adjusted.
	GammaSupport    bool
	GammaSupportErr error

	// SubpixelOrder is the subpixel layout. It cannot be relied on,
	// especially for CRTs.
	SubpixelOrder    SubpixelOrder
	SubpixelOrderErr error

	// Active is set if a monitor is connected.
	Active    bool
	ActiveErr error

	// ConnectorName is the name of the connector as given by the display
	// server, or as made up by this package.
	ConnectorName    string
	ConnectorNameErr error

	// ConnectorType is the type of the connector.
	ConnectorType    ConnectorType
	ConnectorTypeErr error

	// GammaRed, GammaGreen and GammaBlue are the gamma characteristics of
	// the monitor as stated in its EDID.
	GammaRed   float32
	GammaGreen float32
	GammaBlue  float32
	GammaErr   error
}

// newInformation returns information where every field not in fields is
// marked as not requested, and every requested field not supported by the
// method as not supported.
func newInformation(fields, supported InfoField) *CRTCInformation {
	info := new(CRTCInformation)
	for _, f := range info.fieldErrors() {
		switch {
		case fields&f.field == 0:
			*f.err = ErrNotRequested
		case supported&f.field == 0:
			*f.err = ErrCRTCInfoNotSupported
		}
	}
	return info
}

type fieldError struct {
	field InfoField
	err   *error
}

func (info *CRTCInformation) fieldErrors() []fieldError {
	return []fieldError{
		{InfoEDID, &info.EDIDErr},
		{InfoWidthMM, &info.WidthMMErr},
		{InfoHeightMM, &info.HeightMMErr},
		{InfoWidthMMEDID, &info.WidthMMEDIDErr},
		{InfoHeightMMEDID, &info.HeightMMEDIDErr},
		{InfoGammaSize, &info.GammaSizeErr},
		{InfoGammaDepth, &info.GammaDepthErr},
		{InfoGammaSupport, &info.GammaSupportErr},
		{InfoSubpixelOrder, &info.SubpixelOrderErr},
		{InfoActive, &info.ActiveErr},
		{InfoConnectorName, &info.ConnectorNameErr},
		{InfoConnectorType, &info.ConnectorTypeErr},
		{InfoGamma, &info.GammaErr},
	}
}

// wants reports whether field was requested and is still to be filled in.
func (info *CRTCInformation) wants(field InfoField) bool {
	for _, f := range info.fieldErrors() {
		if f.field == field {
			return *f.err == nil
		}
	}
	return false
}

// fail sets the error of every field in fields that is still to be filled in.
func (info *CRTCInformation) fail(fields InfoField, err error) {
	for _, f := range info.fieldErrors() {
		if fields&f.field != 0 && *f.err == nil {
			*f.err = err
		}
	}
}

// Err returns the error of a single field.
func (info *CRTCInformation) Err(field InfoField) error {
	for _, f := range info.fieldErrors() {
		if f.field == field {
			return *f.err
		}
	}
	return fmt.Errorf("gamma: unknown information field %#x", uint32(field))
}

// HasError reports whether any requested field could not be read.
func (info *CRTCInformation) HasError() bool {
	for _, f := range info.fieldErrors() {
		if *f.err != nil && *f.err != ErrNotRequested {
			return true
		}
	}
	return false
}

// fillFromEDID derives the EDID viewport and gamma fields from info.EDID.
func (info *CRTCInformation) fillFromEDID() {
	const want = InfoEDIDViewport | InfoGamma
	if !info.wants(InfoWidthMMEDID) && !info.wants(InfoHeightMMEDID) && !info.wants(InfoGamma) {
		return
	}
	if info.EDID == nil {
		err := info.EDIDErr
		if err == nil || err == ErrNotRequested {
			err = ErrEDIDNotFound
		}
		info.fail(want, err)
		return
	}

	edid, err := ParseEDID(info.EDID)
	if err != nil {
		info.fail(want, err)
		return
	}
	checksumErr := edid.ChecksumErr()
	if info.wants(InfoWidthMMEDID) {
		info.WidthMMEDID, info.WidthMMEDIDErr = edid.WidthMM, checksumErr
	}
	if info.wants(InfoHeightMMEDID) {
		info.HeightMMEDID, info.HeightMMEDIDErr = edid.HeightMM, checksumErr
	}
	if info.wants(InfoGamma) {
		if err := edid.GammaErr(); err != nil {
			info.GammaErr = err
		} else {
			info.GammaRed, info.GammaGreen, info.GammaBlue = edid.Gamma, edid.Gamma, edid.Gamma
		}
	}
}
