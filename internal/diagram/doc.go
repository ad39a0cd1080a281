// Package diagram turns model output into TLDraw shapes.
//
// Three layouts are supported: flowcharts (also used for unknown modes),
// process diagrams and mind maps. Each accepts the JSON document requested by
// the matching prompt and falls back to scraping plain text when the model
// did not produce one. Rendering never fails: a document that cannot be used
// becomes a single red text shape describing the problem.
package diagram
