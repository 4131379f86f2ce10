package export

import (
	"github.com/jung-kurt/gofpdf"

	"PixelChat/internal/canvas"
)

// ExportPDF writes the drawing as a printable A4 sheet, one filled
// rectangle per cell, centered on the page.
func ExportPDF(path string, g *canvas.Grid, p *canvas.Palette, title string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	}

	// Fit the grid inside the printable area.
	const maxW, maxH = 180.0, 240.0
	cell := maxW / float64(g.Width())
	if h := maxH / float64(g.Height()); h < cell {
		cell = h
	}
	originX := (210.0 - cell*float64(g.Width())) / 2
	originY := 25.0

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c, err := p.ColorAt(int(g.At(x, y)))
			if err != nil {
				continue
			}
			pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
			pdf.Rect(originX+float64(x)*cell, originY+float64(y)*cell, cell, cell, "F")
		}
	}
	return pdf.OutputFileAndClose(path)
}
