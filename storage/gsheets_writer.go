package storage

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"airbnb-area-scraper/models"
)

// SheetsExporter mirrors detail reports into Google Sheets: one spreadsheet
// per listing inside a named Drive folder, shared with a personal account so
// the service-account-owned files are reachable.
type SheetsExporter struct {
	sheets     *sheets.Service
	drive      *drive.Service
	folderName string
	shareEmail string
}

// NewSheetsExporter authenticates against the Sheets and Drive APIs with a
// service-account credentials file.
func NewSheetsExporter(ctx context.Context, credentialsFile, folderName, shareEmail string) (*SheetsExporter, error) {
	opts := []option.ClientOption{
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveScope, sheets.SpreadsheetsScope),
	}

	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gsheets: sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gsheets: drive service: %w", err)
	}

	return &SheetsExporter{
		sheets:     sheetsSvc,
		drive:      driveSvc,
		folderName: folderName,
		shareEmail: shareEmail,
	}, nil
}

// Export creates and populates one spreadsheet for the report and returns
// its URL.
func (e *SheetsExporter) Export(ctx context.Context, report *models.DetailReport) (string, error) {
	folderID, err := e.findOrCreateFolder(ctx)
	if err != nil {
		return "", exportErr("gsheets: folder", err)
	}

	title := report.Title
	if title == "" {
		title = "Listing " + report.ListingID
	}

	spreadsheet, err := e.drive.Files.Create(&drive.File{
		Name:     title,
		Parents:  []string{folderID},
		MimeType: "application/vnd.google-apps.spreadsheet",
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", exportErr("gsheets: create spreadsheet", err)
	}
	id := spreadsheet.Id

	if e.shareEmail != "" {
		_, err = e.drive.Permissions.Create(id, &drive.Permission{
			Type:         "user",
			Role:         "writer",
			EmailAddress: e.shareEmail,
		}).Context(ctx).Do()
		if err != nil {
			return "", exportErr("gsheets: share spreadsheet", err)
		}
	}

	if err := e.populate(ctx, id, report); err != nil {
		return "", err
	}

	return "https://docs.google.com/spreadsheets/d/" + id, nil
}

func (e *SheetsExporter) findOrCreateFolder(ctx context.Context) (string, error) {
	query := fmt.Sprintf(
		"mimeType='application/vnd.google-apps.folder' and name='%s' and trashed=false",
		strings.ReplaceAll(e.folderName, "'", `\'`))

	list, err := e.drive.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder, err := e.drive.Files.Create(&drive.File{
		Name:     e.folderName,
		MimeType: "application/vnd.google-apps.folder",
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return folder.Id, nil
}

// populate adds one worksheet per section, fills it, then removes the
// default empty sheet the spreadsheet was created with.
func (e *SheetsExporter) populate(ctx context.Context, id string, report *models.DetailReport) error {
	requests := make([]*sheets.Request, 0, len(report.Sections))
	for _, sec := range report.Sections {
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sec.Name},
			},
		})
	}
	_, err := e.sheets.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return exportErr("gsheets: add sheets", err)
	}

	for _, sec := range report.Sections {
		values := make([][]any, 0, len(sec.Rows)+1)
		header := make([]any, len(sec.Header))
		for i, h := range sec.Header {
			header[i] = h
		}
		values = append(values, header)
		for _, row := range sec.Rows {
			cells := make([]any, len(row))
			for i, v := range row {
				cells[i] = sheetCell(v)
			}
			values = append(values, cells)
		}

		_, err := e.sheets.Spreadsheets.Values.Update(id, sec.Name+"!A1", &sheets.ValueRange{
			Values: values,
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return exportErr("gsheets: populate "+sec.Name, err)
		}
	}

	return e.deleteDefaultSheet(ctx, id)
}

func (e *SheetsExporter) deleteDefaultSheet(ctx context.Context, id string) error {
	meta, err := e.sheets.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return exportErr("gsheets: read spreadsheet", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == "Sheet1" {
			_, err := e.sheets.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
				Requests: []*sheets.Request{{
					DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sh.Properties.SheetId},
				}},
			}).Context(ctx).Do()
			if err != nil {
				return exportErr("gsheets: delete default sheet", err)
			}
			break
		}
	}
	return nil
}

// sheetCell converts a report cell for the Sheets values API, which only
// takes JSON-representable scalars.
func sheetCell(v any) any {
	if v == nil {
		return ""
	}
	return nativeCell(v)
}
