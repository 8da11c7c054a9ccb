package services

import (
	"context"
	"path/filepath"
	"testing"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseDate_AcceptedLayouts(t *testing.T) {
	cases := map[string]string{
		"2021-08-15":          "2021-08-15",
		"2021-08-15 00:00:00": "2021-08-15",
		"08/15/2021":          "2021-08-15",
		"8/15/2021":           "2021-08-15",
	}
	for input, want := range cases {
		parsed, err := parseDate(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, parsed.Format("2006-01-02"), "input %q", input)
	}

	_, err := parseDate("")
	assert.Error(t, err)
	_, err = parseDate("15th August 2021")
	assert.Error(t, err)
}

func TestParseUint(t *testing.T) {
	v, err := parseUint("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), v)

	// Spreadsheets render ids as floats
	v, err = parseUint("42.0")
	require.NoError(t, err)
	assert.Equal(t, uint(42), v)

	_, err = parseUint("")
	assert.Error(t, err)
	_, err = parseUint("0")
	assert.Error(t, err)
	_, err = parseUint("abc")
	assert.Error(t, err)
}

func TestParseDecimal(t *testing.T) {
	assert.Equal(t, "1250000.5", parseDecimal("1,250,000.50").String())
	assert.True(t, parseDecimal("").IsZero())
	assert.True(t, parseDecimal("n/a").IsZero())
}

func TestCell_AlternateColumnNames(t *testing.T) {
	header := map[string]int{"monthly_repayment_(emi)": 0, "loan_amount": 1}
	row := []string{"5000", "100000"}

	assert.Equal(t, "5000", cell(row, header, "monthly_repayment", "monthly_repayment_(emi)", "emi"))
	assert.Equal(t, "100000", cell(row, header, "loan amount"))
	assert.Equal(t, "", cell(row, header, "interest_rate"))
}

func writeSheet(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func newTestIngestService(customers *mockCustomerRepository, loans *mockLoanRepository, dataDir string) *IngestService {
	return NewIngestService(customers, loans, newMockCache(),
		logger.New(logger.Config{Level: "error"}), dataDir)
}

func TestIngestCustomers_CreateThenUpdate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CustomerDataFile)
	writeSheet(t, path, [][]interface{}{
		{"Customer ID", "First Name", "Last Name", "Age", "Phone Number", "Monthly Salary", "Approved Limit", "Current Debt"},
		{1, "Asha", "Rao", 30, 9876543210, 50000, 1800000, 0},
		{2, "Ravi", "Iyer", 45, 9123456780, 120000, 4300000, 325000},
	})

	customers := newMockCustomerRepository()
	svc := newTestIngestService(customers, newMockLoanRepository(), dir)

	report, err := svc.IngestCustomers(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 0, report.Errored)
	assert.NotEmpty(t, report.BatchID)

	stored, err := customers.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", stored.FirstName)
	assert.Equal(t, int64(9123456780), stored.PhoneNumber)
	assert.Equal(t, "325000", stored.CurrentDebt.String())
	require.NotNil(t, stored.Age)
	assert.Equal(t, 45, *stored.Age)

	// Re-running the same file updates instead of creating
	report, err = svc.IngestCustomers(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 2, report.Updated)
}

func TestIngestCustomers_BadRowIsReportedNotFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CustomerDataFile)
	writeSheet(t, path, [][]interface{}{
		{"Customer ID", "First Name", "Last Name", "Monthly Salary"},
		{"", "No", "Id", 10000},
		{7, "Ok", "Row", 20000},
	})

	customers := newMockCustomerRepository()
	svc := newTestIngestService(customers, newMockLoanRepository(), dir)

	report, err := svc.IngestCustomers(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Errored)
	require.Len(t, report.ErrorDetails, 1)
	assert.Contains(t, report.ErrorDetails[0], "row 2")
}

func TestIngestLoans_SkipsUnknownCustomers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LoanDataFile)
	writeSheet(t, path, [][]interface{}{
		{"Customer ID", "Loan ID", "Loan Amount", "Tenure", "Interest Rate", "Monthly payment", "EMIs paid on Time", "Date of Approval", "End Date"},
		{1, 501, 400000, 24, "11.5", 18731.45, 6, "2024-03-01", "2026-03-01"},
		{99, 502, 100000, 12, "10", 8791.59, 0, "2025-01-01", "2026-01-01"},
	})

	customers := newMockCustomerRepository(&models.Customer{ID: 1})
	loans := newMockLoanRepository()
	svc := newTestIngestService(customers, loans, dir)

	report, err := svc.IngestLoans(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Errored)

	stored, err := loans.GetByID(context.Background(), 501)
	require.NoError(t, err)
	assert.Equal(t, uint(1), stored.CustomerID)
	assert.Equal(t, 24, stored.Tenure)
	assert.Equal(t, "11.5", stored.InterestRate.String())
	assert.Equal(t, 6, stored.EMIsPaidOnTime)
	assert.Equal(t, "2024-03-01", stored.StartDate.Format("2006-01-02"))

	_, err = loans.GetByID(context.Background(), 502)
	assert.Error(t, err)
}

func TestIngestLoans_TenureDefaultsWhenColumnMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LoanDataFile)
	writeSheet(t, path, [][]interface{}{
		{"Customer ID", "Loan ID", "Loan Amount", "Interest Rate", "EMI", "Start Date", "End Date"},
		{1, 601, 60000, "0", 5000, "2025-01-01", "2026-01-01"},
	})

	customers := newMockCustomerRepository(&models.Customer{ID: 1})
	loans := newMockLoanRepository()
	svc := newTestIngestService(customers, loans, dir)

	report, err := svc.IngestLoans(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	stored, err := loans.GetByID(context.Background(), 601)
	require.NoError(t, err)
	assert.Equal(t, 12, stored.Tenure)
	assert.True(t, stored.MonthlyRepayment.Equal(decimal.NewFromInt(5000)))
}

func TestIngest_MissingFileFails(t *testing.T) {
	svc := newTestIngestService(newMockCustomerRepository(), newMockLoanRepository(), t.TempDir())

	_, err := svc.IngestCustomers(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
