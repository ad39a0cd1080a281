package diagram

// Shape types.
const (
	TypeGeo   = "geo"
	TypeText  = "text"
	TypeArrow = "arrow"
)

// Geometries.
const (
	GeoRectangle     = "rectangle"
	GeoEllipse       = "ellipse"
	GeoDiamond       = "diamond"
	GeoParallelogram = "parallelogram"
)

// Palette names understood by TLDraw.
const (
	ColorBlack      = "black"
	ColorGrey       = "grey"
	ColorBlue       = "blue"
	ColorLightBlue  = "light-blue"
	ColorGreen      = "green"
	ColorLightGreen = "light-green"
	ColorOrange     = "orange"
	ColorRed        = "red"
	ColorLightRed   = "light-red"
	ColorViolet     = "violet"
	ColorYellow     = "yellow"
)

// Point is a position relative to the owning shape.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Props holds the TLDraw properties used by the generated shapes.
type Props struct {
	W     float64 `json:"w,omitempty" yaml:"w,omitempty"`
	H     float64 `json:"h,omitempty" yaml:"h,omitempty"`
	Geo   string  `json:"geo,omitempty" yaml:"geo,omitempty"`
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
	Text  string  `json:"text,omitempty" yaml:"text,omitempty"`
	Align string  `json:"align,omitempty" yaml:"align,omitempty"`
	Font  string  `json:"font,omitempty" yaml:"font,omitempty"`
	Size  string  `json:"size,omitempty" yaml:"size,omitempty"`
	Fill  string  `json:"fill,omitempty" yaml:"fill,omitempty"`
	Dash  string  `json:"dash,omitempty" yaml:"dash,omitempty"`
	Start *Point  `json:"start,omitempty" yaml:"start,omitempty"`
	End   *Point  `json:"end,omitempty" yaml:"end,omitempty"`
}

// Shape is one TLDraw shape.
type Shape struct {
	Type  string  `json:"type" yaml:"type"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Props Props   `json:"props" yaml:"props"`
}

// Center returns the middle of a geo shape.
func (s Shape) Center() Point {
	return Point{X: s.X + s.Props.W/2, Y: s.Y + s.Props.H/2}
}

func titleShape(x, y float64, text string) Shape {
	return Shape{
		Type: TypeText,
		X:    x,
		Y:    y,
		Props: Props{
			Text:  text,
			Font:  "draw",
			Size:  "xl",
			Color: ColorBlack,
			Align: "middle",
		},
	}
}

func labelShape(x, y float64, text string) Shape {
	return Shape{
		Type: TypeText,
		X:    x,
		Y:    y,
		Props: Props{
			Text:  text,
			Font:  "draw",
			Size:  "s",
			Color: ColorBlack,
		},
	}
}

func geoShape(x, y, w, h float64, geo, color, text string) Shape {
	return Shape{
		Type: TypeGeo,
		X:    x,
		Y:    y,
		Props: Props{
			W:     w,
			H:     h,
			Geo:   geo,
			Color: color,
			Text:  text,
			Align: "middle",
			Font:  "draw",
		},
	}
}

// arrowShape draws from origin to target, both in page coordinates.
func arrowShape(origin, target Point, color, dash, size string) Shape {
	return Shape{
		Type: TypeArrow,
		X:    origin.X,
		Y:    origin.Y,
		Props: Props{
			Start: &Point{},
			End:   &Point{X: target.X - origin.X, Y: target.Y - origin.Y},
			Color: color,
			Dash:  dash,
			Size:  size,
		},
	}
}

// ErrorShape is the single shape returned when a diagram cannot be built.
func ErrorShape(message string) Shape {
	return Shape{
		Type: TypeText,
		X:    100,
		Y:    100,
		Props: Props{
			Text:  message,
			Color: ColorRed,
			Font:  "draw",
			Size:  "m",
		},
	}
}
