package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Rotation is a clockwise page rotation in degrees: 0, 90, 180 or 270.
type Rotation int

// Rotation constants.
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// NewRotation normalizes deg into [0,360) and requires a multiple of 90.
// -90 becomes 270.
func NewRotation(deg int) (Rotation, error) {
	if deg%90 != 0 {
		return 0, fmt.Errorf("rotation %d is not a multiple of 90", deg)
	}
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return Rotation(deg), nil
}

// Compose returns r followed by o.
func (r Rotation) Compose(o Rotation) Rotation {
	return Rotation((int(r) + int(o)) % 360)
}

// PolicyMode selects how page rotation is decided.
type PolicyMode int

// Policy modes.
const (
	PolicyAuto PolicyMode = iota
	PolicyExplicit
	PolicyDisabled
)

func (m PolicyMode) String() string {
	switch m {
	case PolicyAuto:
		return "auto"
	case PolicyExplicit:
		return "explicit"
	case PolicyDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// RotationPolicy decides page rotation during assembly (immutable value object).
type RotationPolicy struct {
	mode    PolicyMode
	degrees Rotation
}

// AutoRotation infers rotation per page from its extracted text.
func AutoRotation() RotationPolicy { return RotationPolicy{mode: PolicyAuto} }

// ExplicitRotation forces every page to r.
func ExplicitRotation(r Rotation) RotationPolicy {
	return RotationPolicy{mode: PolicyExplicit, degrees: r}
}

// DisabledRotation leaves every page as-is.
func DisabledRotation() RotationPolicy { return RotationPolicy{mode: PolicyDisabled} }

// ParseRotationPolicy accepts "auto", "disabled"/"none"/"off", or a degree count.
// An empty string means auto.
func ParseRotationPolicy(s string) (RotationPolicy, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "auto":
		return AutoRotation(), nil
	case "disabled", "none", "off":
		return DisabledRotation(), nil
	}
	deg, err := strconv.Atoi(v)
	if err != nil {
		return RotationPolicy{}, fmt.Errorf("invalid rotation policy %q", s)
	}
	r, err := NewRotation(deg)
	if err != nil {
		return RotationPolicy{}, err
	}
	return ExplicitRotation(r), nil
}

// Mode returns the policy mode.
func (p RotationPolicy) Mode() PolicyMode { return p.mode }

// Degrees returns the forced rotation for explicit policies.
func (p RotationPolicy) Degrees() Rotation { return p.degrees }

func (p RotationPolicy) String() string {
	if p.mode == PolicyExplicit {
		return strconv.Itoa(int(p.degrees))
	}
	return p.mode.String()
}
