//go:build !windows

package gamma

import (
	"os"
	"strings"
	"unicode"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// hasX reports whether an X display is configured.
func hasX() bool {
	return os.Getenv("DISPLAY") != ""
}

// dialX connects to an X display; the empty site is $DISPLAY.
func dialX(site string) (*xgb.Conn, []xproto.ScreenInfo, error) {
	var (
		conn *xgb.Conn
		err  error
	)
	if site == "" {
		conn, err = xgb.NewConn()
	} else {
		conn, err = xgb.NewConnDisplay(site)
	}
	if err != nil {
		return nil, nil, codeError(ErrOpenSiteFailed, err)
	}
	return conn, xproto.Setup(conn).Roots, nil
}

// ramps16 returns ramps as the 16-bit ramps all X extensions use.
func ramps16(ramps RampSet) *GammaRamps16 {
	return ramps.(*GammaRamps16)
}

// x11Subpixel maps a RENDER subpixel order to a SubpixelOrder.
func x11Subpixel(order byte) (SubpixelOrder, error) {
	switch order {
	case 0:
		return SubpixelUnknown, nil
	case 1:
		return SubpixelHorizontalRGB, nil
	case 2:
		return SubpixelHorizontalBGR, nil
	case 3:
		return SubpixelVerticalRGB, nil
	case 4:
		return SubpixelVerticalBGR, nil
	case 5:
		return SubpixelNone, nil
	}
	return SubpixelUnknown, ErrSubpixelOrderNotRecognised
}

var outputNameAliases = map[string]ConnectorType{
	"DisplayPort": ConnectorDisplayPort,
	"Component":   ConnectorComponent,
	"S-video":     ConnectorSVideo,
	"Composite":   ConnectorComposite,
	"Virtual":     ConnectorVirtual,
	"VIRTUAL":     ConnectorVirtual,
}

// connectorTypeFromOutputName derives the connector type from an X output
// name such as "HDMI-A-1", "eDP1" or "DisplayPort-0".
func connectorTypeFromOutputName(name string) (ConnectorType, error) {
	prefix := strings.TrimRightFunc(name, unicode.IsDigit)
	prefix = strings.TrimSuffix(prefix, "-")
	if t, ok := ConnectorTypeByName(prefix); ok {
		return t, nil
	}
	if t, ok := outputNameAliases[prefix]; ok {
		return t, nil
	}
	return ConnectorUnknown, ErrConnectorTypeNotRecognised
}
