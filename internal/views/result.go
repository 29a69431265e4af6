package views

import (
	"encoding/json"
	"math"

	"movie-ratings/internal/analytics"
)

// Kind tags which shape a Result carries.
type Kind string

const (
	KindTable        Kind = "table"
	KindScalar       Kind = "scalar"
	KindScalarTriple Kind = "scalar_triple"
	KindSeries       Kind = "series"
)

// Number is a float that encodes NaN and infinities as JSON null, so
// undefined statistics reach the presentation layer as "no value".
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Defined reports whether n holds a finite value.
func (n Number) Defined() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Result is the render-ready output of one view. Kind says which of Table,
// Scalar, Triple or Series is populated; the outlier view also attaches an
// overlay Series to its Table. Empty marks a valid result with nothing to
// show, which presentation must not confuse with an error.
type Result struct {
	View  ViewID `json:"view"`
	Title string `json:"title"`
	Kind  Kind   `json:"kind"`
	Empty bool   `json:"empty"`

	Table  *Table        `json:"table,omitempty"`
	Scalar *Scalar       `json:"scalar,omitempty"`
	Triple *ScalarTriple `json:"triple,omitempty"`
	Series *Series       `json:"series,omitempty"`
}

// Table is an ordered set of rows with named columns.
type Table struct {
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"` // "text", "number", "date", "flag"
}

// Scalar is a single labelled number.
type Scalar struct {
	Label string `json:"label"`
	Value Number `json:"value"`
}

// ScalarTriple holds mean, median and standard deviation of one field.
type ScalarTriple struct {
	Field  string `json:"field"`
	Count  int    `json:"count"`
	Mean   Number `json:"mean"`
	Median Number `json:"median"`
	StdDev Number `json:"std_dev"`
}

// Series is chart-ready data. Points carries category -> value pairs;
// Values carries raw values for distribution charts, optionally with a box
// summary or histogram bins.
type Series struct {
	Name   string    `json:"name"`
	Chart  string    `json:"chart"` // "bar", "line", "box", "strip", "histogram", "scatter"
	XAxis  string    `json:"x_axis,omitempty"`
	YAxis  string    `json:"y_axis,omitempty"`
	Points []Point   `json:"points,omitempty"`
	Values []float64 `json:"values,omitempty"`

	Box     *BoxPlot `json:"box,omitempty"`
	Bins    []Bin    `json:"bins,omitempty"`
	Overlay *Series  `json:"overlay,omitempty"`
}

// BoxPlot is a box summary ready for encoding.
type BoxPlot struct {
	Count        int      `json:"count"`
	Min          Number   `json:"min"`
	Q1           Number   `json:"q1"`
	Median       Number   `json:"median"`
	Q3           Number   `json:"q3"`
	Max          Number   `json:"max"`
	LowerWhisker Number   `json:"lower_whisker"`
	UpperWhisker Number   `json:"upper_whisker"`
	Fliers       []Number `json:"fliers,omitempty"`
}

// Bin is one histogram bin ready for encoding.
type Bin struct {
	RangeStart Number `json:"range_start"`
	RangeEnd   Number `json:"range_end"`
	Count      int    `json:"count"`
}

func newBoxPlot(b analytics.BoxSummary) *BoxPlot {
	plot := &BoxPlot{
		Count:        b.Count,
		Min:          Number(b.Min),
		Q1:           Number(b.Q1),
		Median:       Number(b.Median),
		Q3:           Number(b.Q3),
		Max:          Number(b.Max),
		LowerWhisker: Number(b.LowerWhisker),
		UpperWhisker: Number(b.UpperWhisker),
	}
	for _, f := range b.Fliers {
		plot.Fliers = append(plot.Fliers, Number(f))
	}
	return plot
}

func newBins(bins []analytics.HistogramBin) []Bin {
	out := make([]Bin, 0, len(bins))
	for _, b := range bins {
		out = append(out, Bin{RangeStart: Number(b.RangeStart), RangeEnd: Number(b.RangeEnd), Count: b.Count})
	}
	return out
}

// Point is one category -> value pair.
type Point struct {
	Label string `json:"label"`
	Value Number `json:"value"`
}
