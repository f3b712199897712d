//go:build !windows

package gamma

import (
	"slices"
	"testing"
)

func TestConnectorTypeFromOutputName(t *testing.T) {
	tests := []struct {
		name string
		want ConnectorType
	}{
		{"HDMI-A-1", ConnectorHDMIA},
		{"HDMI1", ConnectorHDMI},
		{"eDP-1", ConnectorEDP},
		{"eDP1", ConnectorEDP},
		{"DP-2", ConnectorDisplayPort},
		{"DisplayPort-0", ConnectorDisplayPort},
		{"DVI-I-1", ConnectorDVII},
		{"VGA-0", ConnectorVGA},
		{"LVDS1", ConnectorLVDS},
		{"VIRTUAL1", ConnectorVirtual},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := connectorTypeFromOutputName(test.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("expected %s, got %s", test.want, got)
			}
		})
	}

	if _, err := connectorTypeFromOutputName("XWAYLAND0"); err != ErrConnectorTypeNotRecognised {
		t.Errorf("expected %v, got %v", ErrConnectorTypeNotRecognised, err)
	}
}

func TestX11Subpixel(t *testing.T) {
	want := []SubpixelOrder{
		SubpixelUnknown,
		SubpixelHorizontalRGB,
		SubpixelHorizontalBGR,
		SubpixelVerticalRGB,
		SubpixelVerticalBGR,
		SubpixelNone,
	}
	for i, w := range want {
		if got, err := x11Subpixel(byte(i)); err != nil || got != w {
			t.Errorf("order %d: expected %s, got %s (%v)", i, w, got, err)
		}
	}
	if _, err := x11Subpixel(6); err != ErrSubpixelOrderNotRecognised {
		t.Errorf("expected %v, got %v", ErrSubpixelOrderNotRecognised, err)
	}
}

func TestXSuggestedByDisplay(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	t.Setenv("WAYLAND_DISPLAY", "")
	list := ListMethods(SuggestedReal)
	if !slices.Contains(list, XRandR) || !slices.Contains(list, XVidMode) {
		t.Errorf("expected X methods with DISPLAY set, got %v", list)
	}
	if slices.Contains(list, LinuxDRM) {
		t.Errorf("expected DRM not to be suggested under X, got %v", list)
	}

	t.Setenv("DISPLAY", "")
	list = ListMethods(SuggestedReal)
	if slices.Contains(list, XRandR) || slices.Contains(list, XVidMode) {
		t.Errorf("expected no X methods without DISPLAY, got %v", list)
	}
	if !slices.Contains(ListMethods(AllReal), XRandR) {
		t.Error("expected X methods at level AllReal")
	}
}

func TestOpenXSiteFailure(t *testing.T) {
	// A display number nothing listens on.
	_, err := OpenSite(XRandR, "unix:65000")
	if CodeOf(err) != ErrOpenSiteFailed {
		t.Errorf("expected %v, got %v", ErrOpenSiteFailed, err)
	}
}
