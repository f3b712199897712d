package gamma

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"
	"periph.io/x/host/v3/fs"

	"github.com/BeatGlow/gamma/internal/ioctl"
)

func init() {
	register(LinuxDRM, &backend{
		suggested: func() bool { return !hasDisplayServer() },
		open:      openDRMSite,
	})
}

// From <drm/drm_mode.h>
type drmModeCardRes struct {
	FbIDPtr         uint64
	CRTCIDPtr       uint64
	ConnectorIDPtr  uint64
	EncoderIDPtr    uint64
	CountFbs        uint32
	CountCRTCs      uint32
	CountConnectors uint32
	CountEncoders   uint32
	MinWidth        uint32
	MaxWidth        uint32
	MinHeight       uint32
	MaxHeight       uint32
}

type drmModeCRTC struct {
	SetConnectorsPtr uint64
	CountConnectors  uint32
	CRTCID           uint32
	FbID             uint32
	X, Y             uint32
	GammaSize        uint32
	ModeValid        uint32
	Mode             [68]byte
}

type drmModeCRTCLUT struct {
	CRTCID    uint32
	GammaSize uint32
	Red       uint64
	Green     uint64
	Blue      uint64
}

type drmModeGetEncoder struct {
	EncoderID      uint32
	EncoderType    uint32
	CRTCID         uint32
	PossibleCRTCs  uint32
	PossibleClones uint32
}

type drmModeGetConnector struct {
	EncodersPtr     uint64
	ModesPtr        uint64
	PropsPtr        uint64
	PropValuesPtr   uint64
	CountModes      uint32
	CountProps      uint32
	CountEncoders   uint32
	EncoderID       uint32
	ConnectorID     uint32
	ConnectorType   uint32
	ConnectorTypeID uint32
	Connection      uint32
	MmWidth         uint32
	MmHeight        uint32
	Subpixel        uint32
	_               uint32
}

type drmModeGetProperty struct {
	ValuesPtr      uint64
	EnumBlobPtr    uint64
	PropID         uint32
	Flags          uint32
	Name           [32]byte
	CountValues    uint32
	CountEnumBlobs uint32
}

type drmModeGetBlob struct {
	BlobID uint32
	Length uint32
	Data   uint64
}

const drmIoctlBase = 'd'

var (
	drmIoctlModeGetResources = ioctl.Pointer(ioctl.ReadWrite, (*drmModeCardRes)(nil), drmIoctlBase, 0xa0)
	drmIoctlModeGetCRTC      = ioctl.Pointer(ioctl.ReadWrite, (*drmModeCRTC)(nil), drmIoctlBase, 0xa1)
	drmIoctlModeGetGamma     = ioctl.Pointer(ioctl.ReadWrite, (*drmModeCRTCLUT)(nil), drmIoctlBase, 0xa4)
	drmIoctlModeSetGamma     = ioctl.Pointer(ioctl.ReadWrite, (*drmModeCRTCLUT)(nil), drmIoctlBase, 0xa5)
	drmIoctlModeGetEncoder   = ioctl.Pointer(ioctl.ReadWrite, (*drmModeGetEncoder)(nil), drmIoctlBase, 0xa6)
	drmIoctlModeGetConnector = ioctl.Pointer(ioctl.ReadWrite, (*drmModeGetConnector)(nil), drmIoctlBase, 0xa7)
	drmIoctlModeGetProperty  = ioctl.Pointer(ioctl.ReadWrite, (*drmModeGetProperty)(nil), drmIoctlBase, 0xaa)
	drmIoctlModeGetPropBlob  = ioctl.Pointer(ioctl.ReadWrite, (*drmModeGetBlob)(nil), drmIoctlBase, 0xac)
)

// Connector states.
const (
	drmModeConnected         = 1
	drmModeDisconnected      = 2
	drmModeUnknownConnection = 3
)

var drmConnectorTypes = [...]ConnectorType{
	0:  ConnectorUnknown,
	1:  ConnectorVGA,
	2:  ConnectorDVII,
	3:  ConnectorDVID,
	4:  ConnectorDVIA,
	5:  ConnectorComposite,
	6:  ConnectorSVideo,
	7:  ConnectorLVDS,
	8:  ConnectorComponent,
	9:  Connector9PinDIN,
	10: ConnectorDisplayPort,
	11: ConnectorHDMIA,
	12: ConnectorHDMIB,
	13: ConnectorTV,
	14: ConnectorEDP,
	15: ConnectorVirtual,
	16: ConnectorDSI,
}

func drmConnectorType(t uint32) (ConnectorType, error) {
	if int(t) < len(drmConnectorTypes) {
		return drmConnectorTypes[t], nil
	}
	return ConnectorUnknown, ErrConnectorTypeNotRecognised
}

var drmSubpixelOrders = [...]SubpixelOrder{
	1: SubpixelUnknown,
	2: SubpixelHorizontalRGB,
	3: SubpixelHorizontalBGR,
	4: SubpixelVerticalRGB,
	5: SubpixelVerticalBGR,
	6: SubpixelNone,
}

func drmSubpixel(s uint32) (SubpixelOrder, error) {
	if s >= 1 && int(s) < len(drmSubpixelOrders) {
		return drmSubpixelOrders[s], nil
	}
	return SubpixelUnknown, ErrSubpixelOrderNotRecognised
}

// drmCardPath returns the device node of graphics card index.
var drmCardPath = func(index int) string {
	return "/dev/dri/card" + strconv.Itoa(index)
}

// drmOpenCard opens a card device node for ioctl access.
var drmOpenCard = func(path string) (drmDevice, error) {
	return fs.Open(path, os.O_RDWR)
}

type drmDevice interface {
	ioctl.Ioctler
	io.Closer
}

// drmSite is the single site of the DRM method. Every graphics card is a
// partition.
type drmSite struct {
	notSupported

	cards int
}

func openDRMSite(site string) (siteBackend, error) {
	if site != "" {
		return nil, ErrNoSuchSite
	}
	s := new(drmSite)
	for {
		if _, err := os.Stat(drmCardPath(s.cards)); err != nil {
			break
		}
		s.cards++
	}
	return s, nil
}

func (s *drmSite) partitions() int {
	return s.cards
}

func (s *drmSite) openPartition(index int) (partitionBackend, error) {
	path := drmCardPath(index)
	dev, err := drmOpenCard(path)
	if err != nil {
		return nil, drmAccessError(path, err)
	}
	card := &drmCard{dev: dev}
	if err = card.readResources(); err != nil {
		_ = dev.Close()
		return nil, err
	}
	return card, nil
}

func (s *drmSite) close() error {
	return nil
}

// drmAccessError turns a failure to open a device node into a library error,
// naming the group to join if that would grant access.
func drmAccessError(path string, err error) error {
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENXIO), errors.Is(err, unix.ENODEV):
		return codeError(ErrNoSuchPartition, err)
	case errors.Is(err, unix.EACCES):
	default:
		return codeError(ErrOpenPartitionFailed, err)
	}

	var st unix.Stat_t
	if unix.Stat(path, &st) != nil || st.Mode&0o060 != 0o060 {
		return codeError(ErrDeviceRestricted, err)
	}
	gid := strconv.FormatUint(uint64(st.Gid), 10)
	if u, uerr := user.Current(); uerr == nil {
		if groups, gerr := u.GroupIds(); gerr == nil {
			for _, g := range groups {
				if g == gid {
					return codeError(ErrDeviceAccessFailed, err)
				}
			}
		}
	}
	out := &Error{Code: ErrDeviceRequireGroup, GroupID: int(st.Gid), Err: err}
	if g, gerr := user.LookupGroupId(gid); gerr == nil {
		out.GroupName = g.Name
	}
	return out
}

// drmError converts a failed ioctl, reporting removed cards as such.
func drmError(code ErrorCode, err error) error {
	if errors.Is(err, unix.ENODEV) {
		return codeError(ErrGraphicsCardRemoved, err)
	}
	return codeError(code, err)
}

// drmCard is an open graphics card.
type drmCard struct {
	notSupported

	dev        drmDevice
	crtcIDs    []uint32
	connectors []uint32
}

func (c *drmCard) do(command ioctl.Command, arg unsafe.Pointer) error {
	return ioctl.Do(c.dev, command, arg)
}

func (c *drmCard) readResources() error {
	// The counts can change between the two calls when connectors are
	// hotplugged; retry until they are stable.
	for {
		var res drmModeCardRes
		if err := c.do(drmIoctlModeGetResources, unsafe.Pointer(&res)); err != nil {
			return drmError(ErrAcquiringModeResourcesFailed, err)
		}
		crtcs := make([]uint32, res.CountCRTCs)
		connectors := make([]uint32, res.CountConnectors)
		want := res
		res = drmModeCardRes{
			CRTCIDPtr:       slicePtr(crtcs),
			ConnectorIDPtr:  slicePtr(connectors),
			CountCRTCs:      want.CountCRTCs,
			CountConnectors: want.CountConnectors,
		}
		err := c.do(drmIoctlModeGetResources, unsafe.Pointer(&res))
		runtime.KeepAlive(crtcs)
		runtime.KeepAlive(connectors)
		if err != nil {
			return drmError(ErrAcquiringModeResourcesFailed, err)
		}
		if res.CountCRTCs == want.CountCRTCs && res.CountConnectors == want.CountConnectors {
			c.crtcIDs, c.connectors = crtcs, connectors
			return nil
		}
	}
}

func (c *drmCard) crtcs() int {
	return len(c.crtcIDs)
}

func (c *drmCard) openCRTC(index int) (crtcBackend, error) {
	crtc := drmModeCRTC{CRTCID: c.crtcIDs[index]}
	if err := c.do(drmIoctlModeGetCRTC, unsafe.Pointer(&crtc)); err != nil {
		return nil, drmError(ErrOpenCRTCFailed, err)
	}
	return &drmCRTC{card: c, id: crtc.CRTCID, size: int(crtc.GammaSize)}, nil
}

func (c *drmCard) close() error {
	return c.dev.Close()
}

type drmCRTC struct {
	notSupported

	card *drmCard
	id   uint32
	size int
}

func (c *drmCRTC) rampSizes() (red, green, blue int, err error) {
	return c.size, c.size, c.size, nil
}

func (c *drmCRTC) depth() Depth {
	return Depth16
}

func (c *drmCRTC) lut(ramps RampSet) drmModeCRTCLUT {
	r := ramps.(*GammaRamps16)
	return drmModeCRTCLUT{
		CRTCID:    c.id,
		GammaSize: uint32(c.size),
		Red:       slicePtr(r.Red.samples),
		Green:     slicePtr(r.Green.samples),
		Blue:      slicePtr(r.Blue.samples),
	}
}

func (c *drmCRTC) readRamps(ramps RampSet) error {
	lut := c.lut(ramps)
	err := c.card.do(drmIoctlModeGetGamma, unsafe.Pointer(&lut))
	runtime.KeepAlive(ramps)
	if err != nil {
		return drmError(ErrGammaRampReadFailed, err)
	}
	return nil
}

func (c *drmCRTC) writeRamps(ramps RampSet) error {
	lut := c.lut(ramps)
	err := c.card.do(drmIoctlModeSetGamma, unsafe.Pointer(&lut))
	runtime.KeepAlive(ramps)
	if err != nil {
		return drmError(ErrGammaRampWriteFailed, err)
	}
	return nil
}

func (c *drmCRTC) information(info *CRTCInformation) error {
	if info.wants(InfoGammaSupport) {
		info.GammaSupport = c.size > 1
	}

	const connectorFields = InfoEDID | InfoViewport | InfoSubpixelOrder | InfoActive | InfoConnector
	conn, err := c.connector()
	if err != nil {
		info.fail(connectorFields, err)
		return nil
	}
	if conn == nil {
		info.fail(connectorFields&^InfoActive, ErrConnectorDisabled)
		return nil
	}

	if info.wants(InfoWidthMM) {
		info.WidthMM = int(conn.MmWidth)
	}
	if info.wants(InfoHeightMM) {
		info.HeightMM = int(conn.MmHeight)
	}
	if info.wants(InfoSubpixelOrder) {
		info.SubpixelOrder, info.SubpixelOrderErr = drmSubpixel(conn.Subpixel)
	}
	if info.wants(InfoActive) {
		switch conn.Connection {
		case drmModeConnected:
			info.Active = true
		case drmModeDisconnected:
			info.Active = false
		case drmModeUnknownConnection:
			info.ActiveErr = ErrStateUnknown
		default:
			info.ActiveErr = ErrConnectorUnknown
		}
	}
	typ, typErr := drmConnectorType(conn.ConnectorType)
	if info.wants(InfoConnectorType) {
		info.ConnectorType, info.ConnectorTypeErr = typ, typErr
	}
	if info.wants(InfoConnectorName) {
		if typErr != nil {
			info.ConnectorNameErr = typErr
		} else {
			info.ConnectorName = fmt.Sprintf("%s-%d", typ, conn.ConnectorTypeID)
		}
	}
	if info.wants(InfoEDID) {
		info.EDID, info.EDIDErr = c.readEDID(conn)
	}
	return nil
}

// connector finds the connector driving the CRTC; nil if none does.
func (c *drmCRTC) connector() (*drmModeGetConnector, error) {
	for _, id := range c.card.connectors {
		conn := drmModeGetConnector{ConnectorID: id}
		if err := c.card.do(drmIoctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
			return nil, drmError(ErrConnectorUnknown, err)
		}
		if conn.EncoderID == 0 {
			continue
		}
		enc := drmModeGetEncoder{EncoderID: conn.EncoderID}
		if err := c.card.do(drmIoctlModeGetEncoder, unsafe.Pointer(&enc)); err != nil {
			return nil, drmError(ErrConnectorUnknown, err)
		}
		if enc.CRTCID == c.id {
			return &conn, nil
		}
	}
	return nil, nil
}

func (c *drmCRTC) readEDID(conn *drmModeGetConnector) ([]byte, error) {
	var (
		props  = make([]uint32, conn.CountProps)
		values = make([]uint64, conn.CountProps)
		query  = drmModeGetConnector{
			ConnectorID:   conn.ConnectorID,
			PropsPtr:      slicePtr(props),
			PropValuesPtr: slicePtr(values),
			CountProps:    conn.CountProps,
		}
	)
	err := c.card.do(drmIoctlModeGetConnector, unsafe.Pointer(&query))
	runtime.KeepAlive(props)
	runtime.KeepAlive(values)
	if err != nil {
		return nil, drmError(ErrListPropertiesFailed, err)
	}
	if query.CountProps < conn.CountProps {
		props, values = props[:query.CountProps], values[:query.CountProps]
	}

	for i, id := range props {
		prop := drmModeGetProperty{PropID: id}
		if err := c.card.do(drmIoctlModeGetProperty, unsafe.Pointer(&prop)); err != nil {
			return nil, drmError(ErrPropertyValueQueryFailed, err)
		}
		if unix.ByteSliceToString(prop.Name[:]) != "EDID" {
			continue
		}
		return c.readBlob(uint32(values[i]))
	}
	return nil, ErrEDIDNotFound
}

func (c *drmCRTC) readBlob(id uint32) ([]byte, error) {
	if id == 0 {
		return nil, ErrEDIDNotFound
	}
	blob := drmModeGetBlob{BlobID: id}
	if err := c.card.do(drmIoctlModeGetPropBlob, unsafe.Pointer(&blob)); err != nil {
		return nil, drmError(ErrPropertyValueQueryFailed, err)
	}
	data := make([]byte, blob.Length)
	blob.Data = slicePtr(data)
	err := c.card.do(drmIoctlModeGetPropBlob, unsafe.Pointer(&blob))
	runtime.KeepAlive(data)
	if err != nil {
		return nil, drmError(ErrPropertyValueQueryFailed, err)
	}
	if len(data) == 0 {
		return nil, ErrEDIDNotFound
	}
	return data, nil
}

func (c *drmCRTC) close() error {
	return nil
}

// slicePtr returns the address of the first element of s as the kernel
// expects it, or zero for an empty slice.
func slicePtr[T any](s []T) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&s[0])))
}
