package floorplan

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/kirinyoku/deskgo/internal/domain"
)

const (
	seatSide     = 2 * seatHalfExtent
	symbolRadius = 1.5
	selectColor  = "#1976d2"
)

var symbolColors = map[domain.SymbolKind]string{
	domain.SymbolDoor:          "#795548",
	domain.SymbolWashroom:      "#03a9f4",
	domain.SymbolEmergencyExit: "#e53935",
	domain.SymbolCafeteria:     "#8bc34a",
}

// RenderSVG draws the editor's current state at the given unzoomed pixel size.
// Seats are coloured by status and selected entities are outlined.
func (e *Editor) RenderSVG(base Size) string {
	size := e.Zoom.Rendered(base)

	var elements []string
	elements = append(elements, e.renderLayout())
	elements = append(elements, e.renderAreas()...)
	elements = append(elements, e.renderSymbols()...)
	elements = append(elements, e.renderSeats()...)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(size.Width), formatFloat(size.Height), formatFloat(ViewBox.Width), formatFloat(ViewBox.Height)))
	b.WriteString("\n")
	for _, el := range elements {
		b.WriteString("  ")
		b.WriteString(el)
		b.WriteString("\n")
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func (e *Editor) renderLayout() string {
	l := e.Layout()
	return fmt.Sprintf(`<rect id="office-layout" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
		formatFloat(l.X), formatFloat(l.Y), formatFloat(l.Width), formatFloat(l.Height),
		attr(l.Fill, "none"), attr(l.Stroke, "#424242"), formatFloat(l.StrokeWidth))
}

func (e *Editor) renderAreas() []string {
	var out []string
	for _, a := range e.DeskAreas() {
		stroke := "#90a4ae"
		if e.Selection.Has(ClassDeskArea, a.ID) {
			stroke = selectColor
		}
		out = append(out, fmt.Sprintf(
			`<rect id="%s" class="desk-area %s" x="%s" y="%s" width="%s" height="%s" fill="#eceff1" fill-opacity="0.6" stroke="%s" stroke-width="0.2"%s><title>%s</title></rect>`,
			attr(a.ID, ""), attr(string(a.Kind), ""),
			formatFloat(a.X), formatFloat(a.Y), formatFloat(a.Width), formatFloat(a.Height),
			stroke, rotate(a.Rotation, a.X+a.Width/2, a.Y+a.Height/2), html.EscapeString(a.Name)))
	}
	return out
}

func (e *Editor) renderSymbols() []string {
	var out []string
	for _, s := range e.Symbols() {
		fill, ok := symbolColors[s.Kind]
		if !ok {
			fill = "#607d8b"
		}
		stroke := "none"
		if e.Selection.Has(ClassSymbol, s.ID) {
			stroke = selectColor
		}
		out = append(out, fmt.Sprintf(
			`<circle id="%s" class="symbol %s" cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="0.3"/>`,
			attr(s.ID, ""), attr(string(s.Kind), ""), formatFloat(s.X), formatFloat(s.Y),
			formatFloat(symbolRadius), fill, stroke))
	}
	return out
}

func (e *Editor) renderSeats() []string {
	var out []string
	for _, s := range e.Seats() {
		stroke := "#263238"
		if e.Selection.Has(ClassSeat, s.ID) {
			stroke = selectColor
		}
		out = append(out, fmt.Sprintf(
			`<rect id="%s" class="seat %s" x="%s" y="%s" width="%s" height="%s" rx="0.4" fill="%s" stroke="%s" stroke-width="0.2"%s/>`,
			attr(s.ID, ""), attr(string(s.Status), ""),
			formatFloat(s.X-seatHalfExtent), formatFloat(s.Y-seatHalfExtent),
			formatFloat(seatSide), formatFloat(seatSide),
			s.Status.Color(), stroke, rotate(s.Rotation, s.X, s.Y)))
	}
	return out
}

func rotate(deg, cx, cy float64) string {
	if deg == 0 {
		return ""
	}
	return fmt.Sprintf(` transform="rotate(%s %s %s)"`, formatFloat(deg), formatFloat(cx), formatFloat(cy))
}

func attr(v, def string) string {
	if v == "" {
		v = def
	}
	return html.EscapeString(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
