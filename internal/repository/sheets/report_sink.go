package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/avicontrol/avicontrol/internal/config"
	"github.com/avicontrol/avicontrol/internal/domain/models"
)

const reportRange = "Reports!A:J"

// ReportSink appends daily reports to a Google Sheet so the farm owner can
// follow the numbers without touching the dashboard.
type ReportSink struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewReportSink builds a Google Sheets backed report sink.
func NewReportSink(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*ReportSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &ReportSink{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// SaveDailyReport appends the report as one row.
func (s *ReportSink) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	values := []interface{}{
		report.Date.Format("2006-01-02"),
		report.ActiveBatches,
		report.TotalBirds,
		report.HealthyBirds,
		report.SickBirds,
		report.DeadBirds,
		report.AverageMortality,
		report.AverageWeight,
		report.ActiveAlerts,
		report.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := s.service.Spreadsheets.Values.Append(s.spreadsheetID, reportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report row into range %s: %w", reportRange, err)
	}

	s.logger.Debug("daily report appended to sheet", zap.String("range", reportRange))
	return nil
}
