package sensorboard

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"
)

// Format selects the markup a [Renderer] produces for a sink.
type Format int

const (
	// FormatHTML produces page markup for the container element.
	FormatHTML Format = iota

	// FormatText produces plain lines for terminals and logs.
	FormatText
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatText:
		return "text"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat converts "html" or "text" to a [Format].
func ParseFormat(s string) (Format, error) {
	switch s {
	case "html":
		return FormatHTML, nil
	case "text":
		return FormatText, nil
	default:
		return 0, fmt.Errorf("unknown format %q (expected 'html' or 'text')", s)
	}
}

// missing is printed for absent values and statistics.
const missing = "-"

// Renderer turns a [Snapshot] into display text.
//
// Renderer is a pure function of its input: the same snapshot always yields
// the same output. It has no knowledge of where the output goes.
type Renderer struct {
	placeholder string
	location    *time.Location
}

// NewRenderer creates a [Renderer] for the given variant. Timestamps are
// shown in loc; nil means the local time zone.
func NewRenderer(v Variant, loc *time.Location) Renderer {
	if loc == nil {
		loc = time.Local
	}
	return Renderer{
		placeholder: v.Placeholder(),
		location:    loc,
	}
}

// Render produces the snapshot in the requested format.
func (r Renderer) Render(s Snapshot, f Format) string {
	if f == FormatText {
		return r.Text(s)
	}
	return r.HTML(s)
}

// HTML renders one block per stream, in snapshot order. Stream names are
// escaped. An empty snapshot renders the variant placeholder.
func (r Renderer) HTML(s Snapshot) string {
	if s.Len() == 0 {
		return "<i>" + html.EscapeString(r.placeholder) + "</i>"
	}

	var b strings.Builder
	for _, st := range s.Streams {
		b.WriteString("<div><h3>")
		b.WriteString(html.EscapeString(st.Name))
		b.WriteString("</h3>")
		for _, f := range r.fields(st) {
			if f.bold {
				fmt.Fprintf(&b, "<div>%s: <b>%s</b></div>", f.label, f.value)
			} else {
				fmt.Fprintf(&b, "<div>%s: %s</div>", f.label, f.value)
			}
		}
		b.WriteString("</div>")
	}
	return b.String()
}

// Text renders the same blocks as plain lines separated by a blank line.
func (r Renderer) Text(s Snapshot) string {
	if s.Len() == 0 {
		return r.placeholder
	}

	var b strings.Builder
	for i, st := range s.Streams {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(st.Name)
		b.WriteString("\n")
		for _, f := range r.fields(st) {
			fmt.Fprintf(&b, "  %-8s %s\n", f.label+":", f.value)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type field struct {
	label string
	value string
	bold  bool
}

// fields lists the labelled values shown for a stream.
func (r Renderer) fields(st Stream) []field {
	switch {
	case st.Sample != nil:
		return []field{
			{label: "updated", value: FormatDate(st.Sample.Time, r.location)},
			{label: "value", value: formatValue(&st.Sample.Value), bold: true},
		}
	case st.Summary != nil:
		sum := st.Summary
		updated, value := "never", missing
		if sum.Last != nil {
			updated = FormatDate(sum.Last.Time, r.location)
			value = formatValue(&sum.Last.Value)
		}
		return []field{
			{label: "updated", value: updated},
			{label: "value", value: value, bold: true},
			{label: "min", value: formatValue(sum.Min), bold: true},
			{label: "max", value: formatValue(sum.Max), bold: true},
			{label: "average", value: formatValue(sum.Mean), bold: true},
		}
	default:
		return nil
	}
}

// formatValue prints a number in the shortest decimal form that parses back
// to the same float64 (5, 21.5, 0.0000001). There is no exponent.
func formatValue(v *float64) string {
	if v == nil {
		return missing
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatDate formats epoch seconds as "DD-MM-YYYY HH:MM" in loc (nil means
// local time). Day, month, hour and minute are zero-padded; the year is not.
//
// The output is for display only and is not meant to be parsed back.
func FormatDate(epochSeconds int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(epochSeconds, 0).In(loc)
	return fmt.Sprintf("%02d-%02d-%d %02d:%02d",
		t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute())
}
