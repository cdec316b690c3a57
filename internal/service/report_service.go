package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/calc"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/repository/storage"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/websocket"
	"github.com/rs/zerolog/log"
)

// PresignedURLExpiry is how long a generated report download link stays valid
const PresignedURLExpiry = 24 * time.Hour

// ReportService renders calculator results into client-facing HTML reports,
// stores them in object storage and hands back a presigned download URL.
type ReportService struct {
	reportRepo domain.ReportRepository
	store      storage.ObjectStore
	publisher  websocket.EventPublisher
	tmpl       *template.Template
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo domain.ReportRepository, store storage.ObjectStore, publisher websocket.EventPublisher) *ReportService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &ReportService{
		reportRepo: reportRepo,
		store:      store,
		publisher:  publisher,
		tmpl:       template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate)),
	}
}

// GeneratedReport is the result of rendering and storing a report
type GeneratedReport struct {
	Report      *domain.Report `json:"report"`
	DownloadURL string         `json:"downloadUrl"`
}

// RepaymentReportData is the template payload for a repayment report
type RepaymentReportData struct {
	ClientName  string
	GeneratedAt time.Time
	Principal   float64
	Schedule    *calc.AmortizationSchedule
}

// ProgressiveReportData is the template payload for a progressive payment report
type ProgressiveReportData struct {
	ClientName  string
	GeneratedAt time.Time
	Schedule    *calc.ProgressiveSchedule
}

// GenerateRepaymentReport renders a repayment schedule for a client
func (s *ReportService) GenerateRepaymentReport(ctx context.Context, userID uuid.UUID, clientName string, principal float64, schedule *calc.AmortizationSchedule) (*GeneratedReport, error) {
	data := RepaymentReportData{
		ClientName:  clientName,
		GeneratedAt: time.Now(),
		Principal:   principal,
		Schedule:    schedule,
	}
	return s.generate(ctx, userID, domain.ReportKindRepayment, clientName, "repayment", data)
}

// GenerateProgressiveReport renders a progressive payment schedule for a client
func (s *ReportService) GenerateProgressiveReport(ctx context.Context, userID uuid.UUID, clientName string, schedule *calc.ProgressiveSchedule) (*GeneratedReport, error) {
	data := ProgressiveReportData{
		ClientName:  clientName,
		GeneratedAt: time.Now(),
		Schedule:    schedule,
	}
	return s.generate(ctx, userID, domain.ReportKindProgressive, clientName, "progressive", data)
}

// GetReports lists a user's generated reports
func (s *ReportService) GetReports(userID uuid.UUID) ([]*domain.Report, error) {
	return s.reportRepo.GetByUser(userID)
}

// GetDownloadURL returns a fresh presigned URL for an existing report. Only
// the generating user may fetch it.
func (s *ReportService) GetDownloadURL(ctx context.Context, userID, reportID uuid.UUID) (string, error) {
	report, err := s.reportRepo.GetByID(reportID)
	if err != nil {
		return "", err
	}
	if report.UserID != userID {
		return "", domain.ErrForbidden
	}
	return s.store.GeneratePresignedURL(ctx, report.ObjectPath, PresignedURLExpiry)
}

func (s *ReportService) generate(ctx context.Context, userID uuid.UUID, kind, clientName, block string, data any) (*GeneratedReport, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, domain.ErrInvalidInput
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return nil, fmt.Errorf("render %s report: %w", kind, err)
	}

	reportID := uuid.New()
	objectPath := fmt.Sprintf("reports/%s/%s/%s.html", userID, kind, reportID)
	if _, err := s.store.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "text/html; charset=utf-8", int64(buf.Len())); err != nil {
		return nil, fmt.Errorf("store %s report: %w", kind, err)
	}

	report, err := s.reportRepo.Create(&domain.Report{
		ID:         reportID,
		UserID:     userID,
		Kind:       kind,
		ClientName: clientName,
		ObjectPath: objectPath,
	})
	if err != nil {
		// The object is orphaned if the row fails; best-effort cleanup.
		if delErr := s.store.Delete(ctx, objectPath); delErr != nil {
			log.Warn().Err(delErr).Str("object_path", objectPath).Msg("Failed to clean up orphaned report object")
		}
		return nil, err
	}

	url, err := s.store.GeneratePresignedURL(ctx, objectPath, PresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign report URL: %w", err)
	}

	log.Info().
		Str("report_id", report.ID.String()).
		Str("kind", kind).
		Msg("Generated client report")

	// Only the generating user's sessions care about this
	s.publisher.PublishToUser(userID, websocket.ReportGenerated(report))

	return &GeneratedReport{Report: report, DownloadURL: url}, nil
}

var reportFuncs = template.FuncMap{
	"money": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"rate": func(v float64) string {
		return fmt.Sprintf("%.2f%%", v)
	},
}

const reportTemplate = `
{{define "header"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Mortgage Report - {{.ClientName}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: right; }
th { background: #f4f4f4; }
td:first-child, th:first-child { text-align: left; }
.meta { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Mortgage Report</h1>
<p class="meta">Prepared for {{.ClientName}} on {{.GeneratedAt.Format "2 Jan 2006"}}</p>
{{end}}

{{define "footer"}}
<p class="meta">Figures are indicative and subject to bank approval.</p>
</body>
</html>
{{end}}

{{define "repayment"}}
{{template "header" .}}
<h2>Repayment Schedule</h2>
<p>Loan amount: {{money .Principal}} &middot; Monthly instalment: {{money .Schedule.FirstMonthPayment}}</p>
<table>
<tr><th>Year</th><th>Rate</th><th>Interest</th><th>Principal</th><th>Ending Balance</th></tr>
{{range .Schedule.Years}}
<tr><td>{{.Year}}</td><td>{{rate .Rate}}</td><td>{{money .InterestPaid}}</td><td>{{money .PrincipalPaid}}</td><td>{{money .EndingPrincipal}}</td></tr>
{{end}}
</table>
<p>Total interest: {{money .Schedule.TotalInterest}} &middot; Total payable: {{money .Schedule.TotalPayable}}</p>
{{template "footer" .}}
{{end}}

{{define "progressive"}}
{{template "header" .}}
<h2>Progressive Payment Schedule</h2>
<table>
<tr><th>Stage</th><th>%</th><th>Stage Amount</th><th>Bank Loan</th><th>Cash/CPF</th></tr>
{{range .Schedule.Milestones}}
<tr><td>{{.Label}}</td><td>{{.Percent}}</td><td>{{money .StageAmount}}</td><td>{{money .BankLoanAmount}}</td><td>{{money .CashCPFAmount}}</td></tr>
{{end}}
</table>
<p>Total interest: {{money .Schedule.TotalInterest}} &middot; Total payable: {{money .Schedule.TotalPayable}}</p>
{{template "footer" .}}
{{end}}
`
