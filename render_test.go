package sensorboard

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)

	tests := []struct {
		name  string
		epoch int64
		loc   *time.Location
		want  string
	}{
		{name: "epoch zero", epoch: 0, loc: time.UTC, want: "01-01-1970 00:00"},
		{name: "padded fields", epoch: 1700000000, loc: time.UTC, want: "14-11-2023 22:13"},
		{name: "other zone", epoch: 0, loc: moscow, want: "01-01-1970 03:00"},
		{name: "crosses midnight", epoch: 1700000000, loc: moscow, want: "15-11-2023 01:13"},
		{name: "unpadded year", epoch: -62135596800, loc: time.UTC, want: "01-01-1 00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.epoch, tt.loc); got != tt.want {
				t.Errorf("FormatDate(%d) = %q, want %q", tt.epoch, got, tt.want)
			}
		})
	}
}

func TestFormatDate_NilLocationIsLocal(t *testing.T) {
	if got, want := FormatDate(1700000000, nil), FormatDate(1700000000, time.Local); got != want {
		t.Errorf("FormatDate(nil) = %q, want %q", got, want)
	}
}

func sampleSnapshot(streams ...Stream) Snapshot {
	return Snapshot{Shape: ShapeSample, Streams: streams}
}

func TestRenderer_HTML_Sample(t *testing.T) {
	r := NewRenderer(VariantSamples, time.UTC)
	snap := sampleSnapshot(Stream{Name: "A", Sample: &Sample{Time: 0, Value: 5}})

	want := "<div><h3>A</h3>" +
		"<div>updated: 01-01-1970 00:00</div>" +
		"<div>value: <b>5</b></div>" +
		"</div>"
	if got := r.HTML(snap); got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderer_HTML_Summary(t *testing.T) {
	r := NewRenderer(VariantChannels, time.UTC)
	snap := Snapshot{Shape: ShapeSummary, Streams: []Stream{{
		Name: "A",
		Summary: &Summary{
			Last: &Sample{Time: 0, Value: 5},
			Min:  f64(1),
			Max:  f64(9),
			Mean: f64(5),
		},
	}}}

	want := "<div><h3>A</h3>" +
		"<div>updated: 01-01-1970 00:00</div>" +
		"<div>value: <b>5</b></div>" +
		"<div>min: <b>1</b></div>" +
		"<div>max: <b>9</b></div>" +
		"<div>average: <b>5</b></div>" +
		"</div>"
	if got := r.HTML(snap); got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderer_HTML_SummaryNulls(t *testing.T) {
	r := NewRenderer(VariantSensors, time.UTC)
	snap := Snapshot{Shape: ShapeSummary, Streams: []Stream{{
		Name:    "boiler.t1",
		Summary: &Summary{Max: f64(70.25)},
	}}}

	got := r.HTML(snap)
	for _, want := range []string{
		"<div>updated: never</div>",
		"<div>value: <b>-</b></div>",
		"<div>min: <b>-</b></div>",
		"<div>max: <b>70.25</b></div>",
		"<div>average: <b>-</b></div>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML() missing %q in %s", want, got)
		}
	}
}

func TestRenderer_HTML_EscapesNames(t *testing.T) {
	r := NewRenderer(VariantSamples, time.UTC)
	snap := sampleSnapshot(Stream{Name: "<script>&", Sample: &Sample{}})

	got := r.HTML(snap)
	if strings.Contains(got, "<script>") {
		t.Errorf("HTML() did not escape name: %s", got)
	}
	if !strings.Contains(got, "<h3>&lt;script&gt;&amp;</h3>") {
		t.Errorf("HTML() = %s", got)
	}
}

func TestRenderer_HTML_Order(t *testing.T) {
	r := NewRenderer(VariantSamples, time.UTC)
	snap := sampleSnapshot(
		Stream{Name: "zeta", Sample: &Sample{Value: 1}},
		Stream{Name: "alpha", Sample: &Sample{Value: 2}},
	)

	got := r.HTML(snap)
	if strings.Index(got, "zeta") > strings.Index(got, "alpha") {
		t.Errorf("HTML() reordered streams: %s", got)
	}
}

func TestRenderer_Placeholder(t *testing.T) {
	tests := []struct {
		variant  Variant
		wantHTML string
		wantText string
	}{
		{variant: VariantChannels, wantHTML: "<i>No channels</i>", wantText: "No channels"},
		{variant: VariantSensors, wantHTML: "<i>No sensors</i>", wantText: "No sensors"},
		{variant: VariantSamples, wantHTML: "<i>No sensors</i>", wantText: "No sensors"},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			r := NewRenderer(tt.variant, time.UTC)
			empty := Snapshot{Shape: tt.variant.Shape(), Streams: []Stream{}}

			if got := r.Render(empty, FormatHTML); got != tt.wantHTML {
				t.Errorf("Render(html) = %q, want %q", got, tt.wantHTML)
			}
			if got := r.Render(empty, FormatText); got != tt.wantText {
				t.Errorf("Render(text) = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestRenderer_Text(t *testing.T) {
	r := NewRenderer(VariantSensors, time.UTC)
	snap := Snapshot{Shape: ShapeSummary, Streams: []Stream{
		{Name: "A", Summary: &Summary{Last: &Sample{Time: 0, Value: 5}, Min: f64(1), Max: f64(9), Mean: f64(5)}},
		{Name: "B", Summary: &Summary{Last: &Sample{Time: 60, Value: 21.5}, Min: f64(20), Max: f64(22), Mean: f64(21)}},
	}}

	want := strings.Join([]string{
		"A",
		"  updated: 01-01-1970 00:00",
		"  value:   5",
		"  min:     1",
		"  max:     9",
		"  average: 5",
		"",
		"B",
		"  updated: 01-01-1970 00:01",
		"  value:   21.5",
		"  min:     20",
		"  max:     22",
		"  average: 21",
	}, "\n")

	if got := r.Text(snap); got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	r := NewRenderer(VariantSamples, time.UTC)
	snap := sampleSnapshot(Stream{Name: "A", Sample: &Sample{Time: 42, Value: 0.5}})

	if r.HTML(snap) != r.HTML(snap) {
		t.Error("HTML() differs between calls")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "html", want: FormatHTML},
		{in: "text", want: FormatText},
		{in: "pdf", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormat_String(t *testing.T) {
	if FormatHTML.String() != "html" || FormatText.String() != "text" {
		t.Errorf("String() = %q, %q", FormatHTML.String(), FormatText.String())
	}
	if got := Format(9).String(); got != "format(9)" {
		t.Errorf("Format(9).String() = %q", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "integer", in: 5, want: "5"},
		{name: "one decimal", in: 21.5, want: "21.5"},
		{name: "tiny", in: 1e-7, want: "0.0000001"},
		{name: "tiny negative", in: -4e-7, want: "-0.0000004"},
		{name: "long mean", in: 20.333333333333332, want: "20.333333333333332"},
		{name: "large", in: 1e22, want: "10000000000000000000000"},
		{name: "zero", in: 0, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(&tt.in); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderer_HTML_KeepsFullPrecision(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"A": {"last": {"time": 0, "value": 0.0000001}, "min": -0.0000004, "max": 1e22, "mean": 20.333333333333332}}`), ShapeSummary)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}

	got := NewRenderer(VariantChannels, time.UTC).HTML(snap)
	for _, want := range []string{
		"value: <b>0.0000001</b>",
		"min: <b>-0.0000004</b>",
		"max: <b>10000000000000000000000</b>",
		"average: <b>20.333333333333332</b>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML() missing %q\n%s", want, got)
		}
	}
}
