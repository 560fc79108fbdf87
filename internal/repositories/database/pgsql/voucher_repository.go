package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxVoucherRepository struct {
	BaseRepository
}

// newPgxVoucherRepository creates a new repository for vouchers and their entries.
func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryWithTx {
	return &PgxVoucherRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxVoucherRepository implements portsrepo.VoucherRepositoryWithTx
var _ portsrepo.VoucherRepositoryWithTx = (*PgxVoucherRepository)(nil)

// querier is satisfied by both the pool and a pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const voucherSelect = `
	SELECT v.voucher_id, v.company_id, v.voucher_type_id, vt.kind, v.sub_kind, v.status,
	       v.voucher_date, v.narration, v.party_id, v.voucher_number, v.posted_at, v.posted_by,
	       v.created_at, v.created_by, v.last_updated_at, v.last_updated_by
	FROM vouchers v
	JOIN voucher_types vt ON vt.voucher_type_id = v.voucher_type_id
`

func scanVoucher(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	err := row.Scan(
		&m.VoucherID,
		&m.CompanyID,
		&m.VoucherTypeID,
		&m.Kind,
		&m.SubKind,
		&m.Status,
		&m.VoucherDate,
		&m.Narration,
		&m.PartyID,
		&m.VoucherNumber,
		&m.PostedAt,
		&m.PostedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func findVoucher(ctx context.Context, q querier, query, voucherID string) (*domain.Voucher, error) {
	m, err := scanVoucher(q.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, wrapErr(err, "failed to find voucher by ID %s", voucherID)
	}
	v := mapping.ToDomainVoucher(m)
	return &v, nil
}

func findEntries(ctx context.Context, q querier, voucherID string) ([]domain.Entry, error) {
	query := `
		SELECT entry_id, voucher_id, account_id, side, amount, line_no,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM entries
		WHERE voucher_id = $1
		ORDER BY line_no;
	`
	rows, err := q.Query(ctx, query, voucherID)
	if err != nil {
		return nil, wrapErr(err, "failed to query entries for voucher %s", voucherID)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(
			&e.EntryID,
			&e.VoucherID,
			&e.AccountID,
			&e.Side,
			&e.Amount,
			&e.LineNo,
			&e.CreatedAt,
			&e.CreatedBy,
			&e.LastUpdatedAt,
			&e.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry row for voucher %s: %w", voucherID, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr(err, "error iterating entry rows for voucher %s", voucherID)
	}

	return mapping.ToDomainEntrySlice(entries), nil
}

// FindVoucherByID retrieves a voucher header by its ID.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return findVoucher(ctx, r.Pool, voucherSelect+` WHERE v.voucher_id = $1;`, voucherID)
}

// FindEntriesByVoucherID retrieves the entries of a voucher in line order.
func (r *PgxVoucherRepository) FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.Entry, error) {
	return findEntries(ctx, r.Pool, voucherID)
}

// FindVoucherByIDForUpdate loads the voucher header and locks its row until tx ends.
func (r *PgxVoucherRepository) FindVoucherByIDForUpdate(ctx context.Context, tx pgx.Tx, voucherID string) (*domain.Voucher, error) {
	return findVoucher(ctx, tx, voucherSelect+` WHERE v.voucher_id = $1 FOR UPDATE OF v;`, voucherID)
}

// FindEntriesByVoucherIDInTx reads entries through tx.
func (r *PgxVoucherRepository) FindEntriesByVoucherIDInTx(ctx context.Context, tx pgx.Tx, voucherID string) ([]domain.Entry, error) {
	return findEntries(ctx, tx, voucherID)
}

// FindVoucherTypeByKind retrieves the company's voucher type for a kind.
func (r *PgxVoucherRepository) FindVoucherTypeByKind(ctx context.Context, companyID string, kind domain.VoucherKind) (*domain.VoucherType, error) {
	query := `
		SELECT voucher_type_id, company_id, kind, name
		FROM voucher_types
		WHERE company_id = $1 AND kind = $2;
	`
	var m models.VoucherType
	err := r.Pool.QueryRow(ctx, query, companyID, string(kind)).Scan(&m.VoucherTypeID, &m.CompanyID, &m.Kind, &m.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher type %s for company %s: %w", kind, companyID, err)
	}
	vt := mapping.ToDomainVoucherType(m)
	return &vt, nil
}

// ListVouchersByCompany retrieves a page of vouchers, newest first, using token-based pagination.
func (r *PgxVoucherRepository) ListVouchersByCompany(ctx context.Context, companyID string, filter domain.VoucherFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	conditions := []string{"v.company_id = $1"}
	args := []any{companyID}
	next := func() string { return "$" + strconv.Itoa(len(args)) }

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, "v.status = "+next())
	}
	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		conditions = append(conditions, "vt.kind = "+next())
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.VoucherDate)
		date := next()
		args = append(args, cursor.CreatedAt)
		created := next()
		args = append(args, cursor.VoucherID)
		id := next()
		// Tuple comparison keeps the cursor stable across equal dates.
		conditions = append(conditions, fmt.Sprintf("(v.voucher_date, v.created_at, v.voucher_id) < (%s, %s, %s)", date, created, id))
	}
	args = append(args, fetchLimit)

	query := voucherSelect +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY v.voucher_date DESC, v.created_at DESC, v.voucher_id DESC" +
		" LIMIT " + next() + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query vouchers for company %s: %w", companyID, err)
	}
	defer rows.Close()

	vouchers := make([]models.Voucher, 0, fetchLimit)
	for rows.Next() {
		m, err := scanVoucher(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan voucher row for company %s: %w", companyID, err)
		}
		vouchers = append(vouchers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating voucher rows for company %s: %w", companyID, err)
	}

	var nextTokenVal *string
	if len(vouchers) > limit {
		// The token points to the last item included in this page.
		last := vouchers[limit-1]
		token := pagination.EncodeToken(pagination.VoucherCursor{
			VoucherDate: last.VoucherDate,
			CreatedAt:   last.CreatedAt,
			VoucherID:   last.VoucherID,
		})
		nextTokenVal = &token
		vouchers = vouchers[:limit]
	}

	return mapping.ToDomainVoucherSlice(vouchers), nextTokenVal, nil
}

// InsertVoucherInTx inserts a new voucher header.
func (r *PgxVoucherRepository) InsertVoucherInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	m := mapping.ToModelVoucher(voucher)
	query := `
		INSERT INTO vouchers (
			voucher_id, company_id, voucher_type_id, sub_kind, status, voucher_date, narration, party_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		m.VoucherID,
		m.CompanyID,
		m.VoucherTypeID,
		m.SubKind,
		m.Status,
		m.VoucherDate,
		m.Narration,
		m.PartyID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapErr(err, "failed to insert voucher %s", m.VoucherID)
	}
	return nil
}

// UpdateVoucherHeaderInTx rewrites the editable header fields of a DRAFT voucher.
func (r *PgxVoucherRepository) UpdateVoucherHeaderInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	m := mapping.ToModelVoucher(voucher)
	query := `
		UPDATE vouchers
		SET voucher_type_id = $2, sub_kind = $3, voucher_date = $4, narration = $5, party_id = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE voucher_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.VoucherID,
		m.VoucherTypeID,
		m.SubKind,
		m.VoucherDate,
		m.Narration,
		m.PartyID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapErr(err, "failed to update voucher %s", m.VoucherID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s is not a draft", apperrors.ErrInvalidState, m.VoucherID)
	}
	return nil
}

// InsertEntriesInTx inserts entries in the given order using a single batch.
func (r *PgxVoucherRepository) InsertEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO entries (entry_id, voucher_id, account_id, side, amount, line_no, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelEntry(e)
		batch.Queue(query,
			m.EntryID,
			m.VoucherID,
			m.AccountID,
			m.Side,
			m.Amount,
			m.LineNo,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	// Close reports the first failing statement of the batch.
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return wrapErr(err, "failed to insert entries for voucher %s", entries[0].VoucherID)
	}
	return nil
}

// DeleteEntriesInTx removes every entry of a voucher.
func (r *PgxVoucherRepository) DeleteEntriesInTx(ctx context.Context, tx pgx.Tx, voucherID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE voucher_id = $1;`, voucherID); err != nil {
		return wrapErr(err, "failed to delete entries of voucher %s", voucherID)
	}
	return nil
}

// DeleteVoucherInTx removes a DRAFT voucher header.
func (r *PgxVoucherRepository) DeleteVoucherInTx(ctx context.Context, tx pgx.Tx, voucherID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM vouchers WHERE voucher_id = $1 AND status = 'DRAFT';`, voucherID)
	if err != nil {
		return wrapErr(err, "failed to delete voucher %s", voucherID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s is not a draft", apperrors.ErrInvalidState, voucherID)
	}
	return nil
}

// NextVoucherNumberInTx increments the (company, voucher type) counter and returns the new value.
// A missing counter row is seeded from the highest number already posted for that type.
func (r *PgxVoucherRepository) NextVoucherNumberInTx(ctx context.Context, tx pgx.Tx, companyID, voucherTypeID string) (int64, error) {
	query := `
		INSERT INTO voucher_sequences (company_id, voucher_type_id, last_number)
		VALUES ($1, $2, COALESCE((
			SELECT MAX(voucher_number) FROM vouchers
			WHERE company_id = $1 AND voucher_type_id = $2
		), 0) + 1)
		ON CONFLICT (company_id, voucher_type_id)
		DO UPDATE SET last_number = voucher_sequences.last_number + 1
		RETURNING last_number;
	`
	var number int64
	if err := tx.QueryRow(ctx, query, companyID, voucherTypeID).Scan(&number); err != nil {
		return 0, wrapErr(err, "failed to allocate voucher number for type %s", voucherTypeID)
	}
	return number, nil
}

// MarkPostedInTx transitions a DRAFT voucher to POSTED. The status guard turns a lost
// race into ErrInvalidState rather than a second number.
func (r *PgxVoucherRepository) MarkPostedInTx(ctx context.Context, tx pgx.Tx, voucherID string, number int64, userID string, postedAt time.Time) error {
	query := `
		UPDATE vouchers
		SET status = 'POSTED', voucher_number = $2, posted_at = $3, posted_by = $4,
		    last_updated_at = $3, last_updated_by = $4
		WHERE voucher_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query, voucherID, number, postedAt, userID)
	if err != nil {
		return wrapErr(err, "failed to mark voucher %s posted", voucherID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s is not a draft", apperrors.ErrInvalidState, voucherID)
	}
	return nil
}
