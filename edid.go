package gamma

import (
	"encoding/hex"
	"strings"
)

// EDIDBlockSize is the size of an EDID block in bytes.
const EDIDBlockSize = 128

var edidMagic = [8]byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

// EDID is the part of a monitor's Extended Display Identification Data that
// is of interest for gamma correction.
type EDID struct {
	// Version and Revision of the EDID structure.
	Version, Revision int

	// WidthMM and HeightMM are the maximum image size, zero if not
	// applicable. The EDID states them in whole centimetres.
	WidthMM, HeightMM int

	// Gamma is the display transfer characteristic, valid if
	// GammaSpecified is set.
	Gamma          float32
	GammaSpecified bool

	// ChecksumValid is set if the base block checksum is valid.
	ChecksumValid bool
}

// ParseEDID parses the base block of raw EDID data. Checksum and gamma
// problems do not fail parsing; they are reported by ChecksumErr and
// GammaErr.
func ParseEDID(data []byte) (*EDID, error) {
	if len(data) < EDIDBlockSize || len(data)%EDIDBlockSize != 0 {
		return nil, ErrEDIDLengthUnsupported
	}
	if [8]byte(data[:8]) != edidMagic {
		return nil, ErrEDIDWrongMagicNumber
	}
	e := &EDID{
		Version:  int(data[18]),
		Revision: int(data[19]),
	}
	if e.Version != 1 || e.Revision < 3 {
		return nil, ErrEDIDRevisionUnsupported
	}

	e.WidthMM = int(data[21]) * 10
	e.HeightMM = int(data[22]) * 10
	if data[23] != 0xff {
		e.Gamma = float32(int(data[23])+100) / 100
		e.GammaSpecified = true
	}

	var sum byte
	for _, b := range data[:EDIDBlockSize] {
		sum += b
	}
	e.ChecksumValid = sum == 0
	return e, nil
}

// ChecksumErr returns ErrEDIDChecksumError if the checksum is invalid.
func (e *EDID) ChecksumErr() error {
	if e.ChecksumValid {
		return nil
	}
	return ErrEDIDChecksumError
}

// GammaErr returns why Gamma cannot be used, or nil.
func (e *EDID) GammaErr() error {
	switch {
	case !e.GammaSpecified && !e.ChecksumValid:
		return ErrGammaNotSpecifiedAndEDIDChecksumErr
	case !e.GammaSpecified:
		return ErrGammaNotSpecified
	case !e.ChecksumValid:
		return ErrEDIDChecksumError
	}
	return nil
}

// EDIDHex encodes raw EDID data as lower case hexadecimal.
func EDIDHex(edid []byte) string {
	return hex.EncodeToString(edid)
}

// ParseEDIDHex decodes hexadecimal EDID data, in either case.
func ParseEDIDHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimSpace(s))
}
