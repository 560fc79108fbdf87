package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// postedFilter builds the WHERE clause shared by the ledger queries. Placeholders
// are numbered after the arguments already in args.
type postedFilter struct {
	conditions []string
	args       []any
}

func newPostedFilter(companyID string, accountIDs []string, partyID *string) *postedFilter {
	f := &postedFilter{}
	f.add("v.company_id = %s", companyID)
	f.add("v.status = %s", string(domain.Posted))
	f.add("e.account_id = ANY(%s)", accountIDs)
	if partyID != nil {
		f.add("v.party_id = %s", *partyID)
	}
	return f
}

func (f *postedFilter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conditions = append(f.conditions, fmt.Sprintf(cond, "$"+strconv.Itoa(len(f.args))))
}

func (f *postedFilter) where() string {
	return "WHERE " + strings.Join(f.conditions, " AND ")
}

// SumPostedBefore totals posted entries dated strictly before the given day.
func (r *reportingRepository) SumPostedBefore(ctx context.Context, companyID string, accountIDs []string, partyID *string, before time.Time) (domain.SideTotals, error) {
	f := newPostedFilter(companyID, accountIDs, partyID)
	f.add("v.voucher_date < %s", before)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN e.side = 'DEBIT' THEN e.amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN e.side = 'CREDIT' THEN e.amount ELSE 0 END), 0) AS total_credit
		FROM entries e
		JOIN vouchers v ON v.voucher_id = e.voucher_id
		` + f.where()

	totals := domain.SideTotals{}
	if err := r.Pool.QueryRow(ctx, query, f.args...).Scan(&totals.Debit, &totals.Credit); err != nil {
		return domain.SideTotals{}, fmt.Errorf("error summing posted entries before %s: %w", before.Format(time.DateOnly), err)
	}
	return totals, nil
}

// ListPostedEntries lists posted entries inside window in ledger order.
func (r *reportingRepository) ListPostedEntries(ctx context.Context, companyID string, accountIDs []string, partyID *string, window domain.DateWindow) ([]domain.PostedEntry, error) {
	f := newPostedFilter(companyID, accountIDs, partyID)
	if window.From != nil {
		f.add("v.voucher_date >= %s", *window.From)
	}
	if window.To != nil {
		f.add("v.voucher_date <= %s", *window.To)
	}

	query := `
		SELECT e.entry_id, v.voucher_id, v.voucher_number, v.voucher_date, vt.kind, v.sub_kind, v.narration,
		       e.account_id, e.side, e.amount, e.line_no
		FROM entries e
		JOIN vouchers v ON v.voucher_id = e.voucher_id
		JOIN voucher_types vt ON vt.voucher_type_id = v.voucher_type_id
		` + f.where() + `
		ORDER BY v.voucher_date, v.created_at, v.voucher_id, e.line_no
	`

	rows, err := r.Pool.Query(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("error querying posted entries: %w", err)
	}
	defer rows.Close()

	result := []domain.PostedEntry{}
	for rows.Next() {
		var pe domain.PostedEntry
		var kind, side string
		if err := rows.Scan(
			&pe.EntryID,
			&pe.VoucherID,
			&pe.VoucherNumber,
			&pe.VoucherDate,
			&kind,
			&pe.SubKind,
			&pe.Narration,
			&pe.AccountID,
			&side,
			&pe.Amount,
			&pe.LineNo,
		); err != nil {
			return nil, fmt.Errorf("error scanning posted entry row: %w", err)
		}
		pe.Kind = domain.VoucherKind(kind)
		pe.Side = domain.EntrySide(side)
		result = append(result, pe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted entry rows: %w", err)
	}
	return result, nil
}

// GetTrialBalanceData sums posted debits and credits per account inside window
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, companyID string, window domain.DateWindow) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name AS account_name,
			a.account_type,
			SUM(CASE WHEN e.side = 'DEBIT' THEN e.amount ELSE 0 END) AS total_debit,
			SUM(CASE WHEN e.side = 'CREDIT' THEN e.amount ELSE 0 END) AS total_credit
		FROM entries e
		JOIN accounts a ON e.account_id = a.account_id
		JOIN vouchers v ON e.voucher_id = v.voucher_id
		WHERE v.company_id = $1
			AND v.status = 'POSTED'
			AND ($2::date IS NULL OR v.voucher_date >= $2::date)
			AND ($3::date IS NULL OR v.voucher_date <= $3::date)
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, companyID, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string

		if err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&accountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	if len(result) == 0 {
		// Return empty slice instead of nil
		return []domain.TrialBalanceRow{}, nil
	}

	return result, nil
}

// GetProfitAndLossData retrieves income and expense totals for vouchers dated within [from, to]
func (r *reportingRepository) GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.code,
			a.name,
			SUM(CASE WHEN e.side = 'DEBIT' THEN e.amount ELSE -e.amount END) AS net
		FROM entries e
		JOIN accounts a ON e.account_id = a.account_id
		JOIN vouchers v ON e.voucher_id = v.voucher_id
		WHERE v.voucher_date BETWEEN $1 AND $2
			AND v.company_id = $3
			AND v.status = 'POSTED'
			AND a.account_type IN ('INCOME', 'EXPENSE')
		GROUP BY a.account_type, a.account_id, a.code, a.name
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, from, to, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying profit and loss data: %w", err)
	}
	defer rows.Close()

	income := []domain.AccountAmount{}
	expenses := []domain.AccountAmount{}

	for rows.Next() {
		var accountType string
		var amount domain.AccountAmount
		var net decimal.Decimal

		if err := rows.Scan(&accountType, &amount.AccountID, &amount.Code, &amount.Name, &net); err != nil {
			return nil, nil, fmt.Errorf("error scanning profit and loss row: %w", err)
		}

		switch domain.AccountType(accountType) {
		case domain.Income:
			// credits increase income
			amount.NetAmount = net.Neg()
			income = append(income, amount)
		case domain.Expense:
			amount.NetAmount = net
			expenses = append(expenses, amount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating profit and loss rows: %w", err)
	}

	return income, expenses, nil
}
