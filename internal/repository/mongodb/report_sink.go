package mongodb

import (
	"context"
	"fmt"

	"github.com/avicontrol/avicontrol/internal/domain/models"
)

// ReportSink persists daily reports into the daily_reports collection.
type ReportSink struct {
	client *Client
}

// NewReportSink builds a daily-report sink on the shared client.
func NewReportSink(client *Client) *ReportSink {
	return &ReportSink{client: client}
}

// SaveDailyReport inserts the report document.
func (s *ReportSink) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	collection := s.client.Database().Collection("daily_reports")
	if _, err := collection.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}
