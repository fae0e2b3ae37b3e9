package reports

import (
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// GenerateResultsPDF renders one evaluatee's aggregated results to a PDF
// and returns its path.
func (s *Service) GenerateResultsPDF(ctx context.Context, orgID, cycleID, evaluateeID string) (string, error) {
	cyc, err := s.cycles.Get(ctx, orgID, cycleID)
	if err != nil {
		return "", err
	}
	result, err := s.aggregator.ResultsFor(ctx, orgID, cycleID, evaluateeID)
	if err != nil {
		return "", err
	}
	names, err := s.memberNames(ctx, orgID)
	if err != nil {
		return "", err
	}

	filePath, err := reportPath(fmt.Sprintf("results-%s-%s.pdf", cycleID, evaluateeID))
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Evaluation Results")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Cycle: %s (%s)", cyc.Name, cyc.Type))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Evaluatee: %s", displayName(names, evaluateeID)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Overall: %s", formatRating(result.Overall.WeightedAverage)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Self vs others gap: %s", formatRating(result.Overall.SelfVsOthersGap)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(100, 8, "Competency")
	pdf.Cell(40, 8, "Average")
	pdf.Cell(40, 8, "Samples")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, score := range result.PerCompetency {
		pdf.Cell(100, 7, score.Name)
		pdf.Cell(40, 7, formatRating(score.AverageRating))
		pdf.Cell(40, 7, fmt.Sprintf("%d", score.SampleCount))
		pdf.Ln(7)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
