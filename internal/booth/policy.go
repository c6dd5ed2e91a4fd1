package booth

import (
	"fmt"
	"strings"
)

// Layout names a photo arrangement. It decides how many photos a session
// captures and how many the operator keeps for the final collage.
type Layout string

const (
	LayoutDouble Layout = "double"
	LayoutQuad   Layout = "quad"
	LayoutStrip  Layout = "strip"
)

// Orientation only affects presentation labels, never counts.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Policy pairs the capture phase limit with the selection phase limit.
// Invariant: CaptureLimit >= FinalLimit >= 1.
type Policy struct {
	CaptureLimit int
	FinalLimit   int
}

var policies = map[Layout]Policy{
	LayoutDouble: {CaptureLimit: 4, FinalLimit: 2},
	LayoutQuad:   {CaptureLimit: 6, FinalLimit: 4},
	LayoutStrip:  {CaptureLimit: 12, FinalLimit: 8},
}

// Layouts returns every known layout in menu order.
func Layouts() []Layout {
	return []Layout{LayoutDouble, LayoutQuad, LayoutStrip}
}

// PolicyFor looks up the capture policy for a layout.
func PolicyFor(layout Layout) (Policy, error) {
	policy, ok := policies[layout]
	if !ok {
		return Policy{}, fmt.Errorf("unknown layout %q", layout)
	}
	return policy, nil
}

// Label renders the layout with its orientation for status lines, eg.
// "QUAD landscape (6→4)".
func Label(layout Layout, orientation Orientation) string {
	policy, err := PolicyFor(layout)
	if err != nil {
		return string(layout)
	}
	return fmt.Sprintf("%s %s (%d→%d)", strings.ToUpper(string(layout)), orientation, policy.CaptureLimit, policy.FinalLimit)
}
