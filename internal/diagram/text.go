package diagram

import (
	"math"
	"regexp"
	"strings"
)

const (
	maxTextNodes  = 10
	maxTopicChars = 100
)

var (
	stepPattern   = regexp.MustCompile(`(?im)\b(?:Node|Step|Process|Action|Decision)[ \t]*:[ \t]*(.*)$`)
	listPattern   = regexp.MustCompile(`(?m)^[ \t]*(?:\d+[.)]|[*\-•])[ \t]+(.+)$`)
	listMarker    = regexp.MustCompile(`^(?:\d+[.)]|[*\-•]|[A-Z]\.|\([a-z]\))[ \t]+`)
	mainTopic     = regexp.MustCompile(`(?im)\b(?:Main topic|Central concept|Central idea|Main idea|Central|Root)[ \t]*:[ \t]*(.*)$`)
	branchTopic   = regexp.MustCompile(`(?im)^[ \t]*(?:[*\-][ \t]*)?(?:Main branch|Branch|Primary)[ \t]*:[ \t]*(.*)$`)
	subTopic      = regexp.MustCompile(`(?im)\b(?:Sub-topic|Sub branch|Secondary)[ \t]*:[ \t]*(.*)$`)
	labelledTopic = regexp.MustCompile(`(?i)^(?:[*\-][ \t]*)?(?:Main topic|Central concept|Central idea|Main idea|Central|Root|Main branch|Branch|Primary|Sub-topic|Sub branch|Secondary)[ \t]*:`)
	decisionWords = regexp.MustCompile(`(?i)\b(?:decision|if|whether)\b|\?`)
	startWords    = regexp.MustCompile(`(?i)\b(?:start|begin)`)
	endWords      = regexp.MustCompile(`(?i)\b(?:end|finish|stop|done)\b`)
)

// extractSteps finds flowchart steps in free text. Labelled lines
// ("Step: ...") win, then list items, then the first non-empty lines.
func extractSteps(text string) []string {
	var steps []string
	for _, m := range stepPattern.FindAllStringSubmatch(text, -1) {
		steps = appendLabel(steps, m[1])
	}
	if len(steps) == 0 {
		for _, m := range listPattern.FindAllStringSubmatch(text, -1) {
			steps = appendLabel(steps, m[1])
		}
	}
	if len(steps) == 0 {
		for _, line := range strings.Split(text, "\n") {
			steps = appendLabel(steps, line)
			if len(steps) == maxTextNodes {
				break
			}
		}
	}
	return steps
}

func appendLabel(list []string, s string) []string {
	if c := cleanLabel(s); c != "" {
		return append(list, c)
	}
	return list
}

// textNodeStyle guesses a node's role from its wording.
func textNodeStyle(label string) (geo, color string, w, h float64) {
	switch {
	case decisionWords.MatchString(label):
		return nodeStyle("decision")
	case startWords.MatchString(label):
		return nodeStyle("start")
	case endWords.MatchString(label):
		return nodeStyle("end")
	default:
		return nodeStyle("process")
	}
}

// FlowchartFromText renders steps scraped from text, chained in order on a
// three column grid.
func FlowchartFromText(text string) []Shape {
	steps := extractSteps(text)
	shapes := make([]Shape, 0, 2*len(steps))

	nodes := make([]Shape, len(steps))
	for i, step := range steps {
		geo, color, w, h := textNodeStyle(step)
		x := flowStartX + float64(i%maxCols)*colWidth
		y := 100 + float64(i/maxCols)*rowHeight
		nodes[i] = geoShape(x, y, w, h, geo, color, step)
	}
	shapes = append(shapes, nodes...)

	for i := 1; i < len(nodes); i++ {
		shapes = append(shapes, arrowShape(nodes[i-1].Center(), nodes[i].Center(), ColorBlack, "draw", "m"))
	}
	return shapes
}

// ProcessFromText is FlowchartFromText with process styling.
func ProcessFromText(text string) []Shape {
	return styleProcess(FlowchartFromText(text))
}

// extractTopics returns the central topic followed by up to eight branch
// topics found in text.
func extractTopics(text string) []string {
	var topics []string
	seen := make(map[string]bool)
	add := func(s string) {
		c := cleanLabel(s)
		if c == "" || seen[c] || len([]rune(c)) >= maxTopicChars {
			return
		}
		seen[c] = true
		topics = append(topics, c)
	}

	if m := mainTopic.FindStringSubmatch(text); m != nil {
		add(m[1])
	} else {
		first, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
		add(listMarker.ReplaceAllString(strings.TrimSpace(first), ""))
	}
	if len(topics) == 0 {
		topics = append(topics, "Central Topic")
		seen["Central Topic"] = true
	}

	for _, m := range branchTopic.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range subTopic.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	if len(topics) < 5 {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || labelledTopic.MatchString(line) {
				continue
			}
			add(listMarker.ReplaceAllString(line, ""))
			if len(topics) > maxBranches {
				break
			}
		}
	}

	if len(topics) > maxBranches+1 {
		topics = topics[:maxBranches+1]
	}
	return topics
}

// MindMapFromText renders topics scraped from text around a violet center.
func MindMapFromText(text string) []Shape {
	topics := extractTopics(text)
	center := Point{X: mapCenterX, Y: mapCenterY}

	central := geoShape(center.X-100, center.Y-50, 200, 100, GeoEllipse, ColorViolet, topics[0])
	central.Props.Fill = "solid"
	shapes := []Shape{central}

	branches := topics[1:]
	for i, topic := range branches {
		angle := 2 * math.Pi * float64(i) / float64(len(branches))
		at := radial(center, angle, branchRadius)
		color := branchColor(i)

		s := geoShape(at.X-80, at.Y-40, 160, 80, GeoRectangle, color, topic)
		s.Props.Fill = "solid"
		s.Props.Dash = "draw"
		shapes = append(shapes, s, arrowShape(center, at, color, "draw", "m"))
	}
	return shapes
}
