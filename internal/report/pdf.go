// Package report renders stored analyses as PDF documents.
package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"stockfish_harness/internal/domain"
)

const (
	lineHeight = 6.0
	timeLayout = "2006-01-02 15:04:05 MST"
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"#", 12, "R"},
	{"Move", 40, "L"},
	{"Score (cp)", 40, "R"},
	{"Depth", 30, "R"},
}

// WritePDF writes a one-page report of rec to w.
func WritePDF(w io.Writer, rec domain.AnalysisRecord) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Analysis "+rec.ID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Position analysis")
	pdf.Ln(12)

	res := rec.Result
	pdf.SetFont("Courier", "", 10)
	header := []string{
		"ID:        " + rec.ID,
		"Engine:    " + res.StockfishVersion,
		"FEN:       " + res.Fen,
		fmt.Sprintf("Depth:     %d (min %d)", res.AnalysisDepth, res.MinAnalysisDepth),
		fmt.Sprintf("Threshold: %d cp", res.CpLossThreshold),
		"Created:   " + rec.CreatedAt.Format(timeLayout),
	}
	if rec.Chess960ID != nil {
		header = append(header, fmt.Sprintf("Chess960:  #%d", *rec.Chess960ID))
	}
	for _, line := range header {
		pdf.MultiCell(0, 4.5, line, "", "L", false)
	}
	pdf.Ln(lineHeight)

	pdf.SetFont("Helvetica", "B", 10)
	for _, c := range columns {
		pdf.CellFormat(c.width, lineHeight, c.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Courier", "", 10)
	if len(res.Variations) == 0 {
		pdf.CellFormat(0, lineHeight, "no move within the threshold", "", 1, "L", false, 0, "")
	}
	for i, v := range res.Variations {
		cells := []string{
			fmt.Sprint(i + 1),
			v.MoveTxt,
			fmt.Sprint(v.CpScore),
			fmt.Sprint(v.InfoDepth),
		}
		for j, c := range columns {
			pdf.CellFormat(c.width, lineHeight, cells[j], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
