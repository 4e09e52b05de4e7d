package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"opscal/core/errors"
	"opscal/core/logger"
	"opscal/core/utils"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the calendar's events in [from, to) to a spreadsheet,
// one row per event in start order.
func (s *calendarService) ExportXLSX(ctx context.Context, calendarID uuid.UUID, from, to time.Time) (*bytes.Buffer, string, *errors.AppError) {
	cal, appErr := s.Get(ctx, calendarID)
	if appErr != nil {
		return nil, "", appErr
	}
	events, appErr := s.EventsForDateRange(ctx, calendarID, from, to)
	if appErr != nil {
		return nil, "", appErr
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Events"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		logger.Error("CalendarService:ExportXLSX:Sheet", "error", err)
		return nil, "", errors.NewAppError(errors.ErrInternalServer, "failed to generate export", nil)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 32)
	f.SetColWidth(sheet, "B", "C", 20)
	f.SetColWidth(sheet, "D", "H", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"Title", "Start", "End", "Type", "Status", "Priority", "Location", "Workers"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, ev := range events {
		values := []any{
			ev.Title,
			ev.Start.Format(time.RFC3339),
			ev.End.Format(time.RFC3339),
			string(ev.EventType),
			string(ev.Status),
			string(ev.Priority),
			ev.Location,
			fmt.Sprintf("%d/%d", len(ev.WorkerIDs), ev.RequiredWorkers),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logger.Error("CalendarService:ExportXLSX:Write", "error", err)
		return nil, "", errors.NewAppError(errors.ErrInternalServer, "failed to generate export", nil)
	}

	filename := fmt.Sprintf("%s-events-%s.xlsx", cal.Slug, utils.GenerateID())
	return buf, filename, nil
}
