package sensorboard

import "fmt"

// Shape identifies which payload a snapshot carries for every stream.
type Shape int

const (
	// ShapeSample streams carry a single {time, value} sample.
	ShapeSample Shape = iota + 1

	// ShapeSummary streams carry {last, min, max, mean}.
	ShapeSummary
)

// String returns the lower-case shape name.
func (s Shape) String() string {
	switch s {
	case ShapeSample:
		return "sample"
	case ShapeSummary:
		return "summary"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Variant selects a deployment flavour: payload shape, default snapshot path,
// container element id and empty-snapshot placeholder.
type Variant string

const (
	// VariantChannels polls ../info for per-channel summaries.
	VariantChannels Variant = "channels"

	// VariantSensors polls ../sensors for per-sensor summaries.
	VariantSensors Variant = "sensors"

	// VariantSamples polls /sensors for a single latest sample per sensor.
	VariantSamples Variant = "samples"
)

type variantSpec struct {
	shape       Shape
	path        string
	container   string
	placeholder string
}

var variants = map[Variant]variantSpec{
	VariantChannels: {shape: ShapeSummary, path: "../info", container: "channels", placeholder: "No channels"},
	VariantSensors:  {shape: ShapeSummary, path: "../sensors", container: "sensors", placeholder: "No sensors"},
	VariantSamples:  {shape: ShapeSample, path: "/sensors", container: "sensors", placeholder: "No sensors"},
}

// ParseVariant converts a configuration string to a [Variant].
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown variant %q (expected 'channels', 'sensors', or 'samples')", s)
	}
	return v, nil
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	_, ok := variants[v]
	return ok
}

// String returns the variant name.
func (v Variant) String() string {
	return string(v)
}

// Shape returns the payload shape expected from the server.
func (v Variant) Shape() Shape {
	return variants[v].shape
}

// DefaultPath returns the snapshot path, resolved against the source's base
// URL. Relative and absolute forms are deliberately different.
func (v Variant) DefaultPath() string {
	return variants[v].path
}

// Container returns the id of the page element that receives rendered markup.
func (v Variant) Container() string {
	return variants[v].container
}

// Placeholder returns the text shown for a snapshot with no streams.
func (v Variant) Placeholder() string {
	return variants[v].placeholder
}
