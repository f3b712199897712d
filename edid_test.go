package gamma

import "testing"

// testEDID builds a version 1.4 EDID base block.
func testEDID(widthCM, heightCM, gamma byte) []byte {
	edid := make([]byte, EDIDBlockSize)
	copy(edid, edidMagic[:])
	edid[18], edid[19] = 1, 4
	edid[21], edid[22], edid[23] = widthCM, heightCM, gamma
	var sum byte
	for _, b := range edid[:EDIDBlockSize-1] {
		sum += b
	}
	edid[EDIDBlockSize-1] = -sum
	return edid
}

func TestParseEDID(t *testing.T) {
	e, err := ParseEDID(testEDID(60, 34, 120))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.WidthMM != 600 || e.HeightMM != 340 {
		t.Errorf("expected 600x340 mm, got %dx%d mm", e.WidthMM, e.HeightMM)
	}
	if !e.GammaSpecified || e.Gamma != 2.2 {
		t.Errorf("expected gamma 2.2, got %g (specified %t)", e.Gamma, e.GammaSpecified)
	}
	if err := e.ChecksumErr(); err != nil {
		t.Errorf("unexpected checksum error: %v", err)
	}
	if err := e.GammaErr(); err != nil {
		t.Errorf("unexpected gamma error: %v", err)
	}
}

func TestParseEDIDErrors(t *testing.T) {
	bad := func(modify func([]byte) []byte) []byte {
		return modify(testEDID(60, 34, 120))
	}
	tests := []struct {
		name string
		data []byte
		want ErrorCode
	}{
		{"short", bad(func(b []byte) []byte { return b[:100] }), ErrEDIDLengthUnsupported},
		{"odd length", bad(func(b []byte) []byte { return append(b, 0) }), ErrEDIDLengthUnsupported},
		{"magic", bad(func(b []byte) []byte { b[0] = 1; return b }), ErrEDIDWrongMagicNumber},
		{"version 2", bad(func(b []byte) []byte { b[18] = 2; return b }), ErrEDIDRevisionUnsupported},
		{"revision 2", bad(func(b []byte) []byte { b[19] = 2; return b }), ErrEDIDRevisionUnsupported},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseEDID(test.data); err != test.want {
				t.Errorf("expected %v, got %v", test.want, err)
			}
		})
	}
}

func TestEDIDGammaErr(t *testing.T) {
	unspecified := testEDID(60, 34, 0xff)
	e, _ := ParseEDID(unspecified)
	if err := e.GammaErr(); err != ErrGammaNotSpecified {
		t.Errorf("expected %v, got %v", ErrGammaNotSpecified, err)
	}

	unspecified[EDIDBlockSize-1]++
	e, _ = ParseEDID(unspecified)
	if err := e.GammaErr(); err != ErrGammaNotSpecifiedAndEDIDChecksumErr {
		t.Errorf("expected %v, got %v", ErrGammaNotSpecifiedAndEDIDChecksumErr, err)
	}

	corrupt := testEDID(60, 34, 120)
	corrupt[EDIDBlockSize-1]++
	e, _ = ParseEDID(corrupt)
	if err := e.GammaErr(); err != ErrEDIDChecksumError {
		t.Errorf("expected %v, got %v", ErrEDIDChecksumError, err)
	}
}

func TestEDIDHex(t *testing.T) {
	edid := testEDID(1, 2, 3)
	s := EDIDHex(edid)
	if s[:16] != "00ffffffffffff00" {
		t.Errorf("expected lower case hex, got %s", s[:16])
	}
	back, err := ParseEDIDHex(" " + s + "\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(back) != string(edid) {
		t.Error("expected EDID to survive hex encoding")
	}
}
