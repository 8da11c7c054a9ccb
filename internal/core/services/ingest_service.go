package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/adapters/persistence/repositories"
	"creditline/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet file names expected under the data directory
const (
	CustomerDataFile = "customer_data.xlsx"
	LoanDataFile     = "loan_data.xlsx"
)

const maxErrorDetails = 10

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
}

// IngestReport summarizes one ingestion batch
type IngestReport struct {
	BatchID      string   `json:"batch_id"`
	File         string   `json:"file"`
	Created      int      `json:"created"`
	Updated      int      `json:"updated"`
	Skipped      int      `json:"skipped"`
	Errored      int      `json:"errors"`
	ErrorDetails []string `json:"error_details,omitempty"`
}

func (r *IngestReport) addError(detail string) {
	r.Errored++
	if len(r.ErrorDetails) < maxErrorDetails {
		r.ErrorDetails = append(r.ErrorDetails, detail)
	}
}

// IngestService bulk-loads customers and loans from spreadsheet exports.
// It performs plain upserts by external id and never runs eligibility
// logic; corrected history simply becomes visible to the next decision.
type IngestService struct {
	customerRepo repositories.CustomerRepository
	loanRepo     repositories.LoanRepository
	cache        repositories.CacheRepository
	log          *logger.Logger
	dataDir      string
}

// NewIngestService creates a new ingest service
func NewIngestService(
	customerRepo repositories.CustomerRepository,
	loanRepo repositories.LoanRepository,
	cache repositories.CacheRepository,
	log *logger.Logger,
	dataDir string,
) *IngestService {
	return &IngestService{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		cache:        cache,
		log:          log,
		dataDir:      dataDir,
	}
}

// RunAll ingests customers first, then loans, so loan rows can resolve
// their customers.
func (s *IngestService) RunAll(ctx context.Context) ([]*IngestReport, error) {
	customerReport, err := s.IngestCustomers(ctx, filepath.Join(s.dataDir, CustomerDataFile))
	if err != nil {
		return nil, err
	}
	loanReport, err := s.IngestLoans(ctx, filepath.Join(s.dataDir, LoanDataFile))
	if err != nil {
		return []*IngestReport{customerReport}, err
	}
	return []*IngestReport{customerReport, loanReport}, nil
}

// IngestCustomers upserts customers from a spreadsheet file
func (s *IngestService) IngestCustomers(ctx context.Context, path string) (*IngestReport, error) {
	report := &IngestReport{BatchID: uuid.NewString(), File: filepath.Base(path)}

	rows, header, err := openSheet(path)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		id, err := parseUint(cell(row, header, "customer_id", "customer id"))
		if err != nil {
			report.addError(fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}

		customer := &models.Customer{
			ID:            id,
			FirstName:     cell(row, header, "first_name", "first name"),
			LastName:      cell(row, header, "last_name", "last name"),
			PhoneNumber:   parseInt64(cell(row, header, "phone_number", "phone number")),
			MonthlySalary: parseDecimal(cell(row, header, "monthly_salary", "monthly salary")),
			ApprovedLimit: parseDecimal(cell(row, header, "approved_limit", "approved limit")),
			CurrentDebt:   parseDecimal(cell(row, header, "current_debt", "current debt")),
		}
		if raw := cell(row, header, "age"); raw != "" {
			if age, err := strconv.Atoi(raw); err == nil {
				customer.Age = &age
			}
		}

		created, err := s.customerRepo.Upsert(ctx, customer)
		if err != nil {
			report.addError(fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
		s.cache.Delete(ctx, customerLoansKey(id))
	}

	s.logReport("customers ingested", report)
	return report, nil
}

// IngestLoans upserts loans from a spreadsheet file. Rows referencing an
// unknown customer are skipped, not failed.
func (s *IngestService) IngestLoans(ctx context.Context, path string) (*IngestReport, error) {
	report := &IngestReport{BatchID: uuid.NewString(), File: filepath.Base(path)}

	rows, header, err := openSheet(path)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		customerID, err := parseUint(cell(row, header, "customer_id", "customer id"))
		if err != nil {
			report.addError(fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		loanID, err := parseUint(cell(row, header, "loan_id", "loan id"))
		if err != nil {
			report.addError(fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}

		exists, err := s.customerRepo.Exists(ctx, customerID)
		if err != nil {
			report.addError(fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if !exists {
			report.Skipped++
			report.ErrorDetails = appendCapped(report.ErrorDetails,
				fmt.Sprintf("row %d: customer %d not found", i+2, customerID))
			continue
		}

		startDate, err := parseDate(cell(row, header, "start_date", "start date", "date_of_approval", "date of approval"))
		if err != nil {
			report.addError(fmt.Sprintf("row %d: start date: %v", i+2, err))
			continue
		}
		endDate, err := parseDate(cell(row, header, "end_date", "end date"))
		if err != nil {
			report.addError(fmt.Sprintf("row %d: end date: %v", i+2, err))
			continue
		}

		tenure := 12
		if raw := cell(row, header, "tenure"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				tenure = v
			}
		}

		loan := &models.Loan{
			ID:               loanID,
			CustomerID:       customerID,
			LoanAmount:       parseDecimal(cell(row, header, "loan_amount", "loan amount")),
			Tenure:           tenure,
			InterestRate:     parseDecimal(cell(row, header, "interest_rate", "interest rate")),
			MonthlyRepayment: parseDecimal(cell(row, header, "monthly_repayment", "monthly_repayment_(emi)", "monthly payment", "emi")),
			EMIsPaidOnTime:   int(parseInt64(cell(row, header, "emis_paid_on_time", "emis paid on time"))),
			StartDate:        startDate,
			EndDate:          endDate,
		}

		created, err := s.loanRepo.Upsert(ctx, loan)
		if err != nil {
			report.addError(fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
		s.cache.Delete(ctx, loanViewKey(loanID), customerLoansKey(customerID))
	}

	s.logReport("loans ingested", report)
	return report, nil
}

func (s *IngestService) logReport(msg string, report *IngestReport) {
	s.log.Info().
		Str("batch_id", report.BatchID).
		Str("file", report.File).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Int("errors", report.Errored).
		Msg(msg)
}

// openSheet reads the first sheet of an xlsx file and returns its data rows
// plus a normalized header index.
func openSheet(path string) ([][]string, map[string]int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, map[string]int{}, nil
	}

	header := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
		header[key] = idx
	}
	return rows[1:], header, nil
}

// cell returns the first non-empty value among alternate column names
func cell(row []string, header map[string]int, names ...string) string {
	for _, name := range names {
		key := strings.ReplaceAll(strings.ToLower(name), " ", "_")
		if idx, ok := header[key]; ok && idx < len(row) {
			if v := strings.TrimSpace(row[idx]); v != "" {
				return v
			}
		}
	}
	return ""
}

func parseUint(s string) (uint, error) {
	if s == "" {
		return 0, fmt.Errorf("missing id")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(v), nil
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	// Spreadsheets render big integers as floats
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(v)
	}
	return 0
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return v
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func appendCapped(details []string, detail string) []string {
	if len(details) >= maxErrorDetails {
		return details
	}
	return append(details, detail)
}
