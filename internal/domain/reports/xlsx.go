package reports

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateCycleWorkbook writes the whole cycle's aggregated results to an
// xlsx workbook, one row per evaluatee, and returns its path.
func (s *Service) GenerateCycleWorkbook(ctx context.Context, orgID, cycleID string) (string, error) {
	cyc, err := s.cycles.Get(ctx, orgID, cycleID)
	if err != nil {
		return "", err
	}
	results, err := s.CycleResults(ctx, orgID, cycleID)
	if err != nil {
		return "", err
	}
	names, err := s.memberNames(ctx, orgID)
	if err != nil {
		return "", err
	}

	file := excelize.NewFile()
	sheet := "Results"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return "", err
	}

	headers := []string{"Evaluatee", "Overall", "Self vs others gap"}
	var competencyOrder []string
	if len(results) > 0 {
		for _, score := range results[0].PerCompetency {
			headers = append(headers, score.Name)
			competencyOrder = append(competencyOrder, score.CompetencyID)
		}
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return "", err
		}
	}

	for row, result := range results {
		values := []any{
			displayName(names, result.EvaluateeID),
			formatRating(result.Overall.WeightedAverage),
			formatRating(result.Overall.SelfVsOthersGap),
		}
		byID := map[string]string{}
		for _, score := range result.PerCompetency {
			byID[score.CompetencyID] = formatRating(score.AverageRating)
		}
		for _, competencyID := range competencyOrder {
			values = append(values, byID[competencyID])
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return "", err
			}
		}
	}

	filePath, err := reportPath(fmt.Sprintf("cycle-%s-%s.xlsx", cycleID, cyc.Status))
	if err != nil {
		return "", err
	}
	if err := file.SaveAs(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
