// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export renders a visitor's guide selection as a printable PDF.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"superguide/internal/guide"
)

// descriptionLimit caps how much of a description makes it onto the page.
const descriptionLimit = 150

// pageBreakAt is the y position past which a new page starts before the
// next row.
const pageBreakAt = 250.0

// PDFRenderer turns grouped resources into a PDF document.
type PDFRenderer struct {
	// Now supplies the "Generated on" timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewPDFRenderer creates a renderer with the real clock.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Now: time.Now}
}

// Render writes the grouped selection as a PDF. Groups render in order,
// each as a category heading followed by a table of its resources.
func (p *PDFRenderer) Render(groups []guide.Group) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Pin the embedded metadata timestamp so identical input yields an
	// identical document.
	pdf.SetCreationDate(p.Now())
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "My Resource List", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, "Generated on "+p.Now().Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for _, g := range groups {
		p.renderGroup(pdf, g)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var columns = []struct {
	title string
	width float64
}{
	{"Name", 38},
	{"Location", 40},
	{"Phone", 26},
	{"Access", 36},
	{"Description", 50},
}

func (p *PDFRenderer) renderGroup(pdf *gofpdf.Fpdf, g guide.Group) {
	p.breakIfNeeded(pdf)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, g.Category, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(235, 235, 235)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range g.Resources {
		p.breakIfNeeded(pdf)

		name := r.Name
		if !r.IsVisible() {
			// Closed entries stay on the list; mark them so the printed
			// copy is honest about it.
			name += " (temporarily closed)"
		}

		location := r.CityDirection
		if r.Address != "" {
			if location != "" {
				location += ", "
			}
			location += r.Address
		}
		phone := ""
		if r.Phone != nil {
			phone = *r.Phone
		}
		access := r.TransitAccessibility
		if r.Walkability != "" {
			if access != "" {
				access += "; "
			}
			access += r.Walkability
		}
		description := ""
		if r.Description != nil {
			description = Truncate(*r.Description, descriptionLimit)
		}

		cells := []string{name, location, phone, access, description}
		height := rowHeight(pdf, cells)
		startX, y := pdf.GetXY()
		x := startX
		for i, c := range columns {
			pdf.Rect(x, y, c.width, height, "D")
			pdf.MultiCell(c.width, 4, cells[i], "", "L", false)
			x += c.width
			pdf.SetXY(x, y)
		}
		pdf.SetXY(startX, y+height)
	}
	pdf.Ln(5)
}

// rowHeight measures the tallest wrapped cell so all cells in a row share
// one border height.
func rowHeight(pdf *gofpdf.Fpdf, cells []string) float64 {
	max := 1
	for i, c := range columns {
		lines := pdf.SplitText(cells[i], c.width-2)
		if len(lines) > max {
			max = len(lines)
		}
	}
	return float64(max) * 4
}

func (p *PDFRenderer) breakIfNeeded(pdf *gofpdf.Fpdf) {
	if pdf.GetY() > pageBreakAt {
		pdf.AddPage()
	}
}

// Truncate cuts a string to limit runes, appending "..." when anything
// was dropped.
func Truncate(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}
