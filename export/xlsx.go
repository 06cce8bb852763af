// Package export writes parse results to spreadsheet workbooks: a
// Students sheet with one row per record, a Subjects sheet with one row
// per subject attempt, and a Summary sheet carrying run metadata and the
// aggregate analysis.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/muresults/gazette"
	"github.com/muresults/gazette/stats"
)

const (
	studentsSheet = "Students"
	subjectsSheet = "Subjects"
	summarySheet  = "Summary"
)

// Write renders the workbook for res to w.
func Write(w io.Writer, res *gazette.Result) error {
	f, err := build(res)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// WriteFile renders the workbook for res to an xlsx file at path.
func WriteFile(path string, res *gazette.Result) error {
	f, err := build(res)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func build(res *gazette.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", studentsSheet); err != nil {
		return nil, fmt.Errorf("renaming students sheet: %w", err)
	}
	for _, name := range []string{subjectsSheet, summarySheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("creating %s sheet: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	students := res.Students()

	if err := writeStudents(f, students, header); err != nil {
		return nil, err
	}
	if err := writeSubjects(f, students, header); err != nil {
		return nil, err
	}
	if err := writeSummary(f, res, stats.Compute(students), header); err != nil {
		return nil, err
	}

	idx, err := f.GetSheetIndex(studentsSheet)
	if err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeStudents(f *excelize.File, students []*gazette.Student, header int) error {
	cols := []any{
		"Seat Number", "Name", "ERN", "Gender", "College", "Status",
		"Total Marks", "Max Marks", "Result", "SGPA", "Credits",
		"Total KT", "Failed Subjects",
	}
	if err := setRow(f, studentsSheet, 1, cols); err != nil {
		return err
	}
	if err := f.SetCellStyle(studentsSheet, "A1", "M1", header); err != nil {
		return fmt.Errorf("styling students header: %w", err)
	}

	for i, s := range students {
		row := []any{
			s.SeatNumber, s.Name, strCell(s.ERN), strCell(s.Gender),
			s.College, s.Status, s.TotalMarks, s.MaxMarks, s.Result,
			s.SGPA, s.TotalCredits, s.KT.TotalKT,
			strings.Join(s.KT.FailedSubjects, "; "),
		}
		if err := setRow(f, studentsSheet, i+2, row); err != nil {
			return err
		}
	}

	f.SetColWidth(studentsSheet, "B", "B", 32)
	f.SetColWidth(studentsSheet, "E", "E", 40)
	return nil
}

func writeSubjects(f *excelize.File, students []*gazette.Student, header int) error {
	cols := []any{
		"Seat Number", "Code", "Subject", "Internal", "External",
		"Term Work", "Oral", "Total", "Grade", "Grade Points",
		"Credits", "Credit Points", "Status", "KT Type",
	}
	if err := setRow(f, subjectsSheet, 1, cols); err != nil {
		return err
	}
	if err := f.SetCellStyle(subjectsSheet, "A1", "N1", header); err != nil {
		return fmt.Errorf("styling subjects header: %w", err)
	}

	row := 2
	for _, s := range students {
		for _, sub := range s.Subjects {
			values := []any{
				s.SeatNumber, sub.Code, sub.Name,
				intCell(sub.Marks.Internal), intCell(sub.Marks.External),
				intCell(sub.Marks.TermWork), intCell(sub.Marks.Oral),
				sub.Marks.Total, sub.Marks.Grade, sub.Marks.GradePoint,
				sub.Marks.Credits, sub.Marks.CreditPoints,
				sub.Marks.Status, strCell(sub.KTType),
			}
			if err := setRow(f, subjectsSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}

	f.SetColWidth(subjectsSheet, "C", "C", 36)
	return nil
}

func writeSummary(f *excelize.File, res *gazette.Result, a stats.Analysis, header int) error {
	rows := [][]any{
		{"Source File", res.SourceFile},
		{"Pages", res.Pages},
		{"Lines", res.LineCount},
		{"Blocks", res.Blocks},
		{"Students Parsed", len(res.Order)},
		{"Failed Blocks", len(res.Failures)},
		{},
		{"Total Students", a.TotalStudents},
		{"Passed", a.PassedCount},
		{"Failed", a.FailedCount},
		{"Pass Percentage", a.PassPercentage},
		{"Students With KT", a.StudentsWithKT},
		{"Average KT Per Student", a.AverageKTPerStudent},
		{"Highest Marks", a.HighestMarks},
		{"Lowest Marks", a.LowestMarks},
		{"Average Marks", a.AverageMarks},
		{"Average SGPA", a.AverageSGPA},
		{},
		{"Distinction (>=75%)", a.MarksDistribution.Distinction},
		{"First Class (60-74%)", a.MarksDistribution.FirstClass},
		{"Second Class (50-59%)", a.MarksDistribution.SecondClass},
		{"Pass Class (40-49%)", a.MarksDistribution.PassClass},
		{"Fail", a.MarksDistribution.Fail},
		{},
		{"No KT", a.KTDistribution.NoKT},
		{"1 KT", a.KTDistribution.OneKT},
		{"2 KTs", a.KTDistribution.TwoKT},
		{"3+ KTs", a.KTDistribution.ThreeOrMoreKT},
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(summarySheet, "A1", "A1", header); err != nil {
		return fmt.Errorf("styling summary sheet: %w", err)
	}
	f.SetColWidth(summarySheet, "A", "A", 26)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("naming %s row %d: %w", sheet, row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func strCell(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func intCell(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
