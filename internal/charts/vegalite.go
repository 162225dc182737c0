// Package charts builds the Vega-Lite specifications rendered by the dashboard.
package charts

// Schema is the Vega-Lite version every spec targets.
const Schema = "https://vega.github.io/schema/vega-lite/v5.json"

// Height of every chart in pixels. Width follows the container.
const Height = 400

// Spec is the subset of a Vega-Lite top-level spec the dashboard emits.
type Spec struct {
	Schema   string    `json:"$schema"`
	Title    *Title    `json:"title,omitempty"`
	Width    string    `json:"width"`
	Height   int       `json:"height"`
	Data     *Data     `json:"data,omitempty"`
	Mark     *Mark     `json:"mark,omitempty"`
	Encoding *Encoding `json:"encoding,omitempty"`
	Layer    []Layer   `json:"layer,omitempty"`
}

// Layer is one view of a layered spec.
type Layer struct {
	Data     *Data     `json:"data,omitempty"`
	Mark     *Mark     `json:"mark"`
	Encoding *Encoding `json:"encoding,omitempty"`
}

type Title struct {
	Text     string `json:"text"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Data carries inline values.
type Data struct {
	Values any `json:"values"`
}

type Mark struct {
	Type       string `json:"type"`
	Tooltip    bool   `json:"tooltip,omitempty"`
	Size       int    `json:"size,omitempty"`
	Color      string `json:"color,omitempty"`
	FontWeight string `json:"fontWeight,omitempty"`
	Dy         int    `json:"dy,omitempty"`
}

type Encoding struct {
	X       *Channel  `json:"x,omitempty"`
	Y       *Channel  `json:"y,omitempty"`
	Color   *Channel  `json:"color,omitempty"`
	Text    *Channel  `json:"text,omitempty"`
	Tooltip []Channel `json:"tooltip,omitempty"`
}

// Channel maps a field, or a constant Value, onto an encoding channel.
type Channel struct {
	Field  string `json:"field,omitempty"`
	Type   string `json:"type,omitempty"`
	Title  string `json:"title,omitempty"`
	Format string `json:"format,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Value  any    `json:"value,omitempty"`
	Scale  *Scale `json:"scale,omitempty"`
}

type Scale struct {
	Scheme string `json:"scheme,omitempty"`
	Zero   *bool  `json:"zero,omitempty"`
}

// Field types.
const (
	Nominal      = "nominal"
	Quantitative = "quantitative"
)

func newSpec(title, subtitle string) Spec {
	return Spec{
		Schema: Schema,
		Title:  &Title{Text: title, Subtitle: subtitle},
		Width:  "container",
		Height: Height,
	}
}

func nominal(field, title string) *Channel {
	return &Channel{Field: field, Type: Nominal, Title: title}
}

func quantitative(field, title string) *Channel {
	return &Channel{Field: field, Type: Quantitative, Title: title}
}

func colorBy(field, title, palette string) *Channel {
	return &Channel{Field: field, Type: Nominal, Title: title, Scale: &Scale{Scheme: palette}}
}

func unzeroed(c *Channel) *Channel {
	zero := false
	c.Scale = &Scale{Zero: &zero}
	return c
}
