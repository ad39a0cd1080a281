package diagram

import (
	"fmt"
	"math"
)

const (
	mapCenterX     = 400.0
	mapCenterY     = 300.0
	branchRadius   = 250.0
	subTopicRadius = 150.0
	maxBranches    = 8
)

var branchColors = []string{
	ColorBlue, ColorGreen, ColorOrange, ColorRed,
	ColorViolet, ColorLightBlue, ColorYellow, ColorLightGreen,
}

func branchColor(i int) string {
	return branchColors[i%len(branchColors)]
}

// radial returns the point at angle and radius around origin.
func radial(origin Point, angle, radius float64) Point {
	return Point{
		X: origin.X + radius*math.Cos(angle),
		Y: origin.Y + radius*math.Sin(angle),
	}
}

// MindMap lays branches out radially around a central ellipse, with each
// branch's sub-topics fanned across a 60 degree arc beyond it. Cross
// connections are drawn as dashed grey arrows.
func MindMap(doc MindMapDoc) []Shape {
	center := Point{X: mapCenterX, Y: mapCenterY}

	central := MindNode{ID: "center", Text: "Central Topic", Color: ColorBlue}
	if doc.CentralNode != nil {
		central = *doc.CentralNode
		if central.ID == "" {
			central.ID = "center"
		}
	}

	centralShape := geoShape(center.X-100, center.Y-50, 200, 100, GeoEllipse,
		paletteColor(central.Color, ColorBlue), labelOr(central.Text, "Central Topic"))
	centralShape.Props.Fill = "solid"

	shapes := []Shape{
		titleShape(center.X-100, 50, labelOr(doc.Title, "Mind Map")),
		centralShape,
	}
	positions := map[NodeID]Point{central.ID: center}

	n := len(doc.Branches)
	for i, branch := range doc.Branches {
		angle := 2 * math.Pi * float64(i) / float64(max(1, n))
		at := radial(center, angle, branchRadius)

		id := branch.ID
		if id == "" {
			id = NodeID(fmt.Sprintf("branch%d", i+1))
		}
		color := paletteColor(branch.Color, branchColor(i))

		s := geoShape(at.X-80, at.Y-40, 160, 80, GeoRectangle, color, labelOr(branch.Text, fmt.Sprintf("Branch %d", i+1)))
		s.Props.Fill = "solid"
		shapes = append(shapes, s, arrowShape(center, at, color, "draw", "m"))
		positions[id] = at

		m := len(branch.Nodes)
		for j, sub := range branch.Nodes {
			subAngle := angle - math.Pi/6 + (math.Pi/3)*(float64(j)/float64(max(1, m-1)))
			subAt := radial(at, subAngle, subTopicRadius)

			subID := sub.ID
			if subID == "" {
				subID = NodeID(fmt.Sprintf("%s-%d", id, j+1))
			}
			subColor := paletteColor(sub.Color, color)

			ss := geoShape(subAt.X-70, subAt.Y-35, 140, 70, GeoRectangle, subColor, labelOr(sub.Text, fmt.Sprintf("Sub-topic %d", j+1)))
			ss.Props.Dash = "draw"
			shapes = append(shapes, ss, arrowShape(at, subAt, subColor, "draw", "s"))
			positions[subID] = subAt
		}
	}

	for _, conn := range doc.Connections {
		from, okFrom := positions[conn.From]
		to, okTo := positions[conn.To]
		if !okFrom || !okTo {
			continue
		}
		if label := cleanLabel(conn.Label); label != "" {
			mid := Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
			shapes = append(shapes, labelShape(mid.X-40, mid.Y-10, label))
		}
		shapes = append(shapes, arrowShape(from, to, ColorGrey, "dashed", "s"))
	}
	return shapes
}
