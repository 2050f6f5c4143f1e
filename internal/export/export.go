// Package export writes analyzed leads as flat CSV or XLSX sheets for the sales team.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-signals/internal/model"
)

// SheetName is the worksheet XLSX exports are written to.
const SheetName = "Leads"

// Columns is the ordered header of every export.
var Columns = []string{
	"Name",
	"Website",
	"Niche",
	"Review Count",
	"Rating",
	"Input Mode",
	"AI Receptionist",
	"AI Provider",
	"AI Confidence",
	"AI Method",
	"Booking Provider",
	"Booking Tier",
	"Booking Gaps",
	"Upgrade Opportunity",
	"Weekly Calls",
	"After-Hours Calls",
	"Missed Calls",
	"Monthly Revenue Loss",
	"Estimate Confidence",
	"Analysis ID",
	"Analyzed At",
}

// Row flattens one lead into export cells, in Columns order.
func Row(ls *model.LeadSignals) []string {
	rating := ""
	if ls.Rating != nil {
		rating = strconv.FormatFloat(*ls.Rating, 'f', -1, 64)
	}

	return []string{
		ls.Name,
		ls.Website,
		ls.Niche,
		strconv.Itoa(ls.ReviewCount),
		rating,
		string(ls.InputMode),
		yesNo(ls.HasAIReceptionist),
		ls.AIDetection.ProviderName(),
		string(ls.AIDetection.Confidence),
		string(ls.Method),
		ls.BookingDetection.ProviderName(),
		string(ls.Tier),
		strings.Join(ls.Gaps, "; "),
		yesNo(ls.UpgradeOpportunity),
		strconv.Itoa(ls.WeeklyCalls),
		strconv.Itoa(ls.AfterHoursCalls),
		strconv.Itoa(ls.MissedCalls),
		strconv.Itoa(ls.MonthlyRevenueLoss),
		string(ls.CallEstimate.Confidence),
		ls.AnalysisID,
		ls.AnalyzedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []*model.LeadSignals) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, ls := range records {
		if err := cw.Write(Row(ls)); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// WriteXLSX writes records to a single-sheet workbook. Count columns are stored as
// numbers so the sheet sorts and sums without conversion.
func WriteXLSX(w io.Writer, records []*model.LeadSignals) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetString(col)
	}

	for _, ls := range records {
		row := sheet.AddRow()
		for i, v := range Row(ls) {
			cell := row.AddCell()
			if numericColumn(i) {
				if n, err := strconv.Atoi(v); err == nil {
					cell.SetInt(n)
					continue
				}
			}
			cell.SetString(v)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

var numericColumns = map[string]bool{
	"Review Count":         true,
	"Weekly Calls":         true,
	"After-Hours Calls":    true,
	"Missed Calls":         true,
	"Monthly Revenue Loss": true,
}

func numericColumn(i int) bool {
	return numericColumns[Columns[i]]
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []*model.LeadSignals) error {
	if records == nil {
		records = []*model.LeadSignals{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return eris.Wrap(err, "export: write json")
	}
	return nil
}

// WriteFile writes records to path, choosing the format from the extension: .csv,
// .xlsx, or JSON for anything else.
func WriteFile(path string, records []*model.LeadSignals) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = WriteCSV(f, records)
	case ".xlsx":
		err = WriteXLSX(f, records)
	default:
		err = WriteJSON(f, records)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = eris.Wrap(cerr, "export: close file")
	}
	return err
}
