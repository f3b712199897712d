package gamma

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrorCode is a library error code. Codes are negative and stable; zero is
// never used for an error.
type ErrorCode int

// Error codes.
const (
	// ErrErrnoSet means the failure came from a system call; the errno is
	// carried in Error.Errno.
	ErrErrnoSet                            ErrorCode = -1
	ErrNoSuchAdjustmentMethod              ErrorCode = -2
	ErrNoSuchSite                          ErrorCode = -3
	ErrNoSuchPartition                     ErrorCode = -4
	ErrNoSuchCRTC                          ErrorCode = -5
	ErrImpossibleAmount                    ErrorCode = -6
	ErrConnectorDisabled                   ErrorCode = -7
	ErrOpenCRTCFailed                      ErrorCode = -8
	ErrCRTCInfoNotSupported                ErrorCode = -9
	ErrGammaRampReadFailed                 ErrorCode = -10
	ErrGammaRampWriteFailed                ErrorCode = -11
	ErrGammaRampSizeChanged                ErrorCode = -12
	ErrMixedGammaRampSize                  ErrorCode = -13
	ErrWrongGammaRampSize                  ErrorCode = -14
	ErrSingletonGammaRamp                  ErrorCode = -15
	ErrListCRTCsFailed                     ErrorCode = -16
	ErrAcquiringModeResourcesFailed        ErrorCode = -17
	ErrNegativePartitionCount              ErrorCode = -18
	ErrNegativeCRTCCount                   ErrorCode = -19
	ErrDeviceRestricted                    ErrorCode = -20
	ErrDeviceAccessFailed                  ErrorCode = -21
	ErrDeviceRequireGroup                  ErrorCode = -22
	ErrGraphicsCardRemoved                 ErrorCode = -23
	ErrStateUnknown                        ErrorCode = -24
	ErrConnectorUnknown                    ErrorCode = -25
	ErrConnectorTypeNotRecognised          ErrorCode = -26
	ErrSubpixelOrderNotRecognised          ErrorCode = -27
	ErrEDIDLengthUnsupported               ErrorCode = -28
	ErrEDIDWrongMagicNumber                ErrorCode = -29
	ErrEDIDRevisionUnsupported             ErrorCode = -30
	ErrGammaNotSpecified                   ErrorCode = -31
	ErrEDIDChecksumError                   ErrorCode = -32
	ErrGammaNotSpecifiedAndEDIDChecksumErr ErrorCode = -33
	ErrGammaRampsSizeQueryFailed           ErrorCode = -34
	ErrOpenPartitionFailed                 ErrorCode = -35
	ErrOpenSiteFailed                      ErrorCode = -36
	ErrProtocolVersionQueryFailed          ErrorCode = -37
	ErrProtocolVersionNotSupported         ErrorCode = -38
	ErrListPartitionsFailed                ErrorCode = -39
	ErrNullPartition                       ErrorCode = -40
	ErrNotConnected                        ErrorCode = -41
	ErrReplyValueExtractionFailed          ErrorCode = -42
	ErrEDIDNotFound                        ErrorCode = -43
	ErrListPropertiesFailed                ErrorCode = -44
	ErrPropertyValueQueryFailed            ErrorCode = -45
	ErrOutputInformationQueryFailed        ErrorCode = -46
	// ErrInvalidHandle is returned when a closed handle is used.
	ErrInvalidHandle ErrorCode = -47

	// ErrorCodeMin is the lowest defined error code.
	ErrorCodeMin = ErrInvalidHandle
)

// ErrOutOfMemory is the errno reported when a ramp set cannot be allocated.
const ErrOutOfMemory = syscall.ENOMEM

// ErrNotSupported is the errno reported when a method cannot perform an
// operation, such as restoring gamma ramps.
const ErrNotSupported = syscall.ENOTSUP

type errorCodeInfo struct {
	name, text string
}

var errorCodes = [...]errorCodeInfo{
	{"ERRNO_SET", "system error"},
	{"NO_SUCH_ADJUSTMENT_METHOD", "no such adjustment method"},
	{"NO_SUCH_SITE", "no such site"},
	{"NO_SUCH_PARTITION", "no such partition"},
	{"NO_SUCH_CRTC", "no such CRTC"},
	{"IMPOSSIBLE_AMOUNT", "impossible amount"},
	{"CONNECTOR_DISABLED", "connector disabled"},
	{"OPEN_CRTC_FAILED", "could not open CRTC"},
	{"CRTC_INFO_NOT_SUPPORTED", "CRTC information not supported"},
	{"GAMMA_RAMP_READ_FAILED", "could not read gamma ramps"},
	{"GAMMA_RAMP_WRITE_FAILED", "could not write gamma ramps"},
	{"GAMMA_RAMP_SIZE_CHANGED", "gamma ramp size changed"},
	{"MIXED_GAMMA_RAMP_SIZE", "gamma ramps have mixed sizes"},
	{"WRONG_GAMMA_RAMP_SIZE", "wrong gamma ramp size"},
	{"SINGLETON_GAMMA_RAMP", "gamma ramp has a single stop"},
	{"LIST_CRTCS_FAILED", "could not list CRTCs"},
	{"ACQUIRING_MODE_RESOURCES_FAILED", "could not acquire mode resources"},
	{"NEGATIVE_PARTITION_COUNT", "negative partition count"},
	{"NEGATIVE_CRTC_COUNT", "negative CRTC count"},
	{"DEVICE_RESTRICTED", "device access restricted"},
	{"DEVICE_ACCESS_FAILED", "device access failed"},
	{"DEVICE_REQUIRE_GROUP", "device requires group membership"},
	{"GRAPHICS_CARD_REMOVED", "graphics card removed"},
	{"STATE_UNKNOWN", "connector state unknown"},
	{"CONNECTOR_UNKNOWN", "connector unknown"},
	{"CONNECTOR_TYPE_NOT_RECOGNISED", "connector type not recognised"},
	{"SUBPIXEL_ORDER_NOT_RECOGNISED", "subpixel order not recognised"},
	{"EDID_LENGTH_UNSUPPORTED", "unsupported EDID length"},
	{"EDID_WRONG_MAGIC_NUMBER", "EDID has the wrong magic number"},
	{"EDID_REVISION_UNSUPPORTED", "unsupported EDID revision"},
	{"GAMMA_NOT_SPECIFIED", "gamma not specified"},
	{"EDID_CHECKSUM_ERROR", "EDID checksum error"},
	{"GAMMA_NOT_SPECIFIED_AND_EDID_CHECKSUM_ERROR", "gamma not specified and EDID checksum error"},
	{"GAMMA_RAMPS_SIZE_QUERY_FAILED", "could not query gamma ramp size"},
	{"OPEN_PARTITION_FAILED", "could not open partition"},
	{"OPEN_SITE_FAILED", "could not open site"},
	{"PROTOCOL_VERSION_QUERY_FAILED", "could not query protocol version"},
	{"PROTOCOL_VERSION_NOT_SUPPORTED", "protocol version not supported"},
	{"LIST_PARTITIONS_FAILED", "could not list partitions"},
	{"NULL_PARTITION", "partition has no CRTCs"},
	{"NOT_CONNECTED", "not connected"},
	{"REPLY_VALUE_EXTRACTION_FAILED", "could not extract value from reply"},
	{"EDID_NOT_FOUND", "EDID not found"},
	{"LIST_PROPERTIES_FAILED", "could not list properties"},
	{"PROPERTY_VALUE_QUERY_FAILED", "could not query property value"},
	{"OUTPUT_INFORMATION_QUERY_FAILED", "could not query output information"},
	{"INVALID_HANDLE", "invalid handle"},
}

func (code ErrorCode) info() (errorCodeInfo, bool) {
	i := -int(code) - 1
	if i < 0 || i >= len(errorCodes) {
		return errorCodeInfo{}, false
	}
	return errorCodes[i], true
}

// Name returns the stable name of the error code, or the empty string if the
// code is not defined.
func (code ErrorCode) Name() string {
	info, _ := code.info()
	return info.name
}

func (code ErrorCode) Error() string {
	if info, ok := code.info(); ok {
		return "gamma: " + info.text
	}
	return fmt.Sprintf("gamma: error %d", int(code))
}

// ErrorCodeByName returns the error code with the given stable name.
func ErrorCodeByName(name string) (ErrorCode, bool) {
	for i, info := range errorCodes {
		if info.name == name {
			return ErrorCode(-i - 1), true
		}
	}
	return 0, false
}

// Error is an error returned by this package.
type Error struct {
	// Op is the operation that failed.
	Op string

	// Code is the library error code.
	Code ErrorCode

	// Errno is the system error captured when Code is ErrErrnoSet.
	Errno syscall.Errno

	// GroupID and GroupName name the group a device requires membership of,
	// set when Code is ErrDeviceRequireGroup. GroupName may be empty if the
	// group has no name.
	GroupID   int
	GroupName string

	// Err is the underlying backend error, if any.
	Err error
}

func (err *Error) Error() string {
	var msg string
	switch {
	case err.Code == ErrErrnoSet && err.Errno != 0:
		msg = "gamma: " + err.Errno.Error()
	case err.Code == ErrDeviceRequireGroup && err.GroupName != "":
		msg = fmt.Sprintf("%s %q", err.Code.Error(), err.GroupName)
	case err.Code == ErrDeviceRequireGroup:
		msg = fmt.Sprintf("%s %d", err.Code.Error(), err.GroupID)
	default:
		msg = err.Code.Error()
	}
	if err.Op != "" {
		msg = fmt.Sprintf("%s: %s", err.Op, msg)
	}
	if err.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err.Err)
	}
	return msg
}

// Unwrap returns the error code, the errno and the underlying error, as set.
func (err *Error) Unwrap() []error {
	errs := []error{err.Code}
	if err.Errno != 0 {
		errs = append(errs, err.Errno)
	}
	if err.Err != nil {
		errs = append(errs, err.Err)
	}
	return errs
}

// CodeOf returns the library error code of err, ErrErrnoSet for system
// errors, or zero if err is nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}
	return ErrErrnoSet
}

// wrapError turns a backend error into an *Error tagged with op.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		out := *e
		if out.Op == "" {
			out.Op = op
		}
		return &out
	}

	var code ErrorCode
	if errors.As(err, &code) {
		if code == err {
			return &Error{Op: op, Code: code}
		}
		return &Error{Op: op, Code: code, Err: err}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &Error{Op: op, Code: ErrErrnoSet, Errno: errno, Err: unlessSame(err, errno)}
	}

	return &Error{Op: op, Code: ErrErrnoSet, Errno: syscall.EIO, Err: err}
}

func unlessSame(err error, errno syscall.Errno) error {
	if e, ok := err.(syscall.Errno); ok && e == errno {
		return nil
	}
	return err
}

// codeError pairs a library code with the backend error that caused it.
func codeError(code ErrorCode, err error) error {
	return &Error{Code: code, Err: err}
}
