package services

import (
	"context"
	"strconv"
	"strings"

	"taskflow/internal/models"
	"taskflow/internal/repository"
)

// ReportRow is one task line of the tasks report.
type ReportRow struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	AssigneeID *string `json:"assigneeId"`
	CreatedAt  int64   `json:"createdAt"`
}

type TaskReport struct {
	Total int         `json:"total"`
	Rows  []ReportRow `json:"rows"`
}

type StatusCount struct {
	Status string `json:"status"`
	Cnt    int    `json:"cnt"`
}

type DashboardSummary struct {
	TotalTasks int           `json:"totalTasks"`
	ByStatus   []StatusCount `json:"byStatus"`
	Users      int           `json:"users"`
}

const reportCSVHeader = "id,title,status,assigneeId,createdAt"

type ReportService struct {
	store *repository.Store
}

func NewReportService(store *repository.Store) *ReportService {
	return &ReportService{store: store}
}

// Tasks returns one row per task in storage order.
func (s *ReportService) Tasks(ctx context.Context) (TaskReport, error) {
	report := TaskReport{Rows: []ReportRow{}}
	err := s.store.View(ctx, func(doc *models.Document) error {
		for _, t := range doc.Tasks {
			report.Rows = append(report.Rows, ReportRow{
				ID:         t.ID,
				Title:      t.Title,
				Status:     t.Status,
				AssigneeID: t.AssigneeID,
				CreatedAt:  t.CreatedAt,
			})
		}
		return nil
	})
	report.Total = len(report.Rows)
	return report, err
}

// CSV renders the report. The title column is always quoted with embedded
// quotes doubled; a missing assignee is an empty column.
func (r TaskReport) CSV() string {
	var b strings.Builder
	b.WriteString(reportCSVHeader)
	b.WriteByte('\n')
	for i, row := range r.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		assignee := ""
		if row.AssigneeID != nil {
			assignee = *row.AssigneeID
		}
		b.WriteString(csvField(row.ID))
		b.WriteString(`,"`)
		b.WriteString(strings.ReplaceAll(row.Title, `"`, `""`))
		b.WriteString(`",`)
		b.WriteString(csvField(row.Status))
		b.WriteByte(',')
		b.WriteString(csvField(assignee))
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(row.CreatedAt, 10))
	}
	return b.String()
}

// csvField quotes free-text values that would otherwise split the row.
func csvField(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// Dashboard counts tasks per status in order of first appearance.
func (s *ReportService) Dashboard(ctx context.Context) (DashboardSummary, error) {
	summary := DashboardSummary{ByStatus: []StatusCount{}}
	err := s.store.View(ctx, func(doc *models.Document) error {
		index := map[string]int{}
		for _, t := range doc.Tasks {
			i, ok := index[t.Status]
			if !ok {
				i = len(summary.ByStatus)
				index[t.Status] = i
				summary.ByStatus = append(summary.ByStatus, StatusCount{Status: t.Status})
			}
			summary.ByStatus[i].Cnt++
		}
		summary.TotalTasks = len(doc.Tasks)
		summary.Users = len(doc.Users)
		return nil
	})
	return summary, err
}
