package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/templates"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

const defaultVoucherPageSize = 20

// draftService manages DRAFT vouchers. Every write is a single transaction.
type draftService struct {
	BaseService
	voucherRepo portsrepo.VoucherRepositoryWithTx
	accountRepo portsrepo.AccountReader
	partyRepo   portsrepo.PartyReader
	now         func() time.Time
}

// DraftServiceOption is a functional option for configuring the draft service
type DraftServiceOption func(*draftService)

// WithDraftClock overrides the clock used for audit timestamps.
func WithDraftClock(now func() time.Time) DraftServiceOption {
	return func(s *draftService) {
		s.now = now
	}
}

// NewDraftService creates a new draft lifecycle manager.
func NewDraftService(voucherRepo portsrepo.VoucherRepositoryWithTx, accountRepo portsrepo.AccountReader, partyRepo portsrepo.PartyReader, options ...DraftServiceOption) portssvc.DraftSvcFacade {
	svc := &draftService{
		voucherRepo: voucherRepo,
		accountRepo: accountRepo,
		partyRepo:   partyRepo,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DraftSvcFacade = (*draftService)(nil)

// buildLines generates entries for input and checks them against the company's
// chart of accounts and parties. Nothing is written.
func (s *draftService) buildLines(ctx context.Context, input domain.VoucherInput) ([]domain.EntryLine, error) {
	if input.CompanyID == "" || input.VoucherTypeID == "" {
		return nil, fmt.Errorf("%w: company and voucher type are required", apperrors.ErrValidation)
	}
	if input.VoucherDate.IsZero() {
		return nil, fmt.Errorf("%w: voucher date is required", apperrors.ErrValidation)
	}
	if input.Entries == nil {
		return nil, fmt.Errorf("%w: entries are required", apperrors.ErrInvalidTemplateInput)
	}

	lines, err := templates.Generate(input.Kind, input.SubKind, input.Entries)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateEntries(lines, domain.BalanceEpsilon); err != nil {
		return nil, err
	}

	ids := uniqueAccountIDs(lines)
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, input.CompanyID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		acc, found := accounts[id]
		if !found || acc.CompanyID != input.CompanyID {
			return nil, fmt.Errorf("%w: account %s does not exist in company %s", apperrors.ErrNotFound, id, input.CompanyID)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
	}

	if input.PartyID != nil {
		party, err := s.partyRepo.FindPartyByID(ctx, *input.PartyID)
		if err != nil {
			return nil, fmt.Errorf("failed to find party %s: %w", *input.PartyID, err)
		}
		if party.CompanyID != input.CompanyID {
			return nil, fmt.Errorf("%w: party %s does not exist in company %s", apperrors.ErrNotFound, *input.PartyID, input.CompanyID)
		}
	}
	return lines, nil
}

// isRejection reports whether err is a business outcome rather than a failure.
func isRejection(err error) bool {
	for _, target := range []error{
		apperrors.ErrInvalidState,
		apperrors.ErrNotFound,
		apperrors.ErrValidation,
		apperrors.ErrUnbalancedEntries,
		apperrors.ErrInvalidTemplateInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func uniqueAccountIDs(lines []domain.EntryLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

func newEntries(voucherID string, lines []domain.EntryLine, userID string, at time.Time) []domain.Entry {
	entries := make([]domain.Entry, len(lines))
	for i, l := range lines {
		entries[i] = domain.Entry{
			EntryID:   uuid.NewString(),
			VoucherID: voucherID,
			AccountID: l.AccountID,
			Side:      l.Side,
			Amount:    l.Amount,
			LineNo:    i + 1,
			AuditFields: domain.AuditFields{
				CreatedAt:     at,
				CreatedBy:     userID,
				LastUpdatedAt: at,
				LastUpdatedBy: userID,
			},
		}
	}
	return entries
}

// lockDraft loads and locks a voucher, requiring it to belong to companyID and be DRAFT.
func (s *draftService) lockDraft(ctx context.Context, tx pgx.Tx, companyID, voucherID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByIDForUpdate(ctx, tx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load voucher %s: %w", voucherID, err)
	}
	if voucher.CompanyID != companyID {
		return nil, fmt.Errorf("failed to load voucher %s: %w", voucherID, apperrors.ErrNotFound)
	}
	if !voucher.IsDraft() {
		return nil, fmt.Errorf("%w: voucher %s is %s, only DRAFT vouchers can be changed", apperrors.ErrInvalidState, voucherID, voucher.Status)
	}
	return voucher, nil
}

// CreateDraft persists a new DRAFT voucher and its generated entries atomically.
func (s *draftService) CreateDraft(ctx context.Context, input domain.VoucherInput, userID string) (*domain.Voucher, error) {
	lines, err := s.buildLines(ctx, input)
	if err != nil {
		s.LogDebug(ctx, "Draft rejected", slog.String("company_id", input.CompanyID), slog.String("error", err.Error()))
		return nil, err
	}

	now := s.now().UTC()
	voucher := domain.Voucher{
		VoucherID:     uuid.NewString(),
		CompanyID:     input.CompanyID,
		VoucherTypeID: input.VoucherTypeID,
		Kind:          input.Kind,
		SubKind:       input.SubKind,
		Status:        domain.Draft,
		VoucherDate:   domain.TruncateToDay(input.VoucherDate),
		Narration:     input.Narration,
		PartyID:       input.PartyID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	entries := newEntries(voucher.VoucherID, lines, userID, now)

	err = s.runInTx(ctx, s.voucherRepo, s.voucherRepo.Begin, func(tx pgx.Tx) error {
		if err := s.voucherRepo.InsertVoucherInTx(ctx, tx, voucher); err != nil {
			return fmt.Errorf("failed to insert voucher: %w", err)
		}
		if err := s.voucherRepo.InsertEntriesInTx(ctx, tx, entries); err != nil {
			return fmt.Errorf("failed to insert entries: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create draft voucher", slog.String("company_id", input.CompanyID))
		return nil, err
	}

	voucher.Entries = entries
	s.LogInfo(ctx, "Draft voucher created",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("company_id", voucher.CompanyID),
		slog.String("kind", string(voucher.Kind)),
		slog.Int("entry_count", len(entries)))
	return &voucher, nil
}

// UpdateDraft rewrites the header and replaces every entry of a DRAFT voucher.
// The DRAFT check runs before the payload is validated, so a posted voucher always
// reports ErrInvalidState.
func (s *draftService) UpdateDraft(ctx context.Context, voucherID string, input domain.VoucherInput, userID string) (*domain.Voucher, error) {
	now := s.now().UTC()
	var updated *domain.Voucher
	err := s.runInTx(ctx, s.voucherRepo, s.voucherRepo.Begin, func(tx pgx.Tx) error {
		voucher, err := s.lockDraft(ctx, tx, input.CompanyID, voucherID)
		if err != nil {
			return err
		}

		lines, err := s.buildLines(ctx, input)
		if err != nil {
			return err
		}

		voucher.VoucherTypeID = input.VoucherTypeID
		voucher.Kind = input.Kind
		voucher.SubKind = input.SubKind
		voucher.VoucherDate = domain.TruncateToDay(input.VoucherDate)
		voucher.Narration = input.Narration
		voucher.PartyID = input.PartyID
		voucher.LastUpdatedAt = now
		voucher.LastUpdatedBy = userID

		entries := newEntries(voucher.VoucherID, lines, userID, now)
		if err := s.voucherRepo.DeleteEntriesInTx(ctx, tx, voucher.VoucherID); err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
		if err := s.voucherRepo.InsertEntriesInTx(ctx, tx, entries); err != nil {
			return fmt.Errorf("failed to insert entries: %w", err)
		}
		if err := s.voucherRepo.UpdateVoucherHeaderInTx(ctx, tx, *voucher); err != nil {
			return fmt.Errorf("failed to update voucher: %w", err)
		}

		voucher.Entries = entries
		updated = voucher
		return nil
	})
	if err != nil {
		if isRejection(err) {
			s.LogDebug(ctx, "Draft update rejected", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to update draft voucher", slog.String("voucher_id", voucherID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Draft voucher regenerated",
		slog.String("voucher_id", voucherID),
		slog.Int("entry_count", len(updated.Entries)))
	return updated, nil
}

// DeleteDraft removes a DRAFT voucher together with its entries.
func (s *draftService) DeleteDraft(ctx context.Context, companyID string, voucherID string, userID string) error {
	err := s.runInTx(ctx, s.voucherRepo, s.voucherRepo.Begin, func(tx pgx.Tx) error {
		if _, err := s.lockDraft(ctx, tx, companyID, voucherID); err != nil {
			return err
		}
		if err := s.voucherRepo.DeleteEntriesInTx(ctx, tx, voucherID); err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
		if err := s.voucherRepo.DeleteVoucherInTx(ctx, tx, voucherID); err != nil {
			return fmt.Errorf("failed to delete voucher: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete draft voucher", slog.String("voucher_id", voucherID))
		}
		return err
	}

	s.LogInfo(ctx, "Draft voucher deleted",
		slog.String("voucher_id", voucherID),
		slog.String("company_id", companyID),
		slog.String("user_id", userID))
	return nil
}

// GetVoucher retrieves a voucher of the company with its entries.
func (s *draftService) GetVoucher(ctx context.Context, companyID string, voucherID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find voucher by ID", slog.String("voucher_id", voucherID))
		}
		return nil, fmt.Errorf("failed to find voucher by ID %s: %w", voucherID, err)
	}

	// Vouchers of other companies are reported as missing.
	if voucher.CompanyID != companyID {
		return nil, fmt.Errorf("failed to find voucher by ID %s: %w", voucherID, apperrors.ErrNotFound)
	}

	entries, err := s.voucherRepo.FindEntriesByVoucherID(ctx, voucherID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch entries for voucher", slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to retrieve entries for voucher %s: %w", voucherID, err)
	}
	voucher.Entries = entries
	return voucher, nil
}

// ListVouchers retrieves a page of vouchers for a company.
func (s *draftService) ListVouchers(ctx context.Context, companyID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultVoucherPageSize
	}

	vouchers, nextToken, err := s.voucherRepo.ListVouchersByCompany(ctx, companyID, params.Filter(), limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vouchers from repository", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to retrieve vouchers: %w", err)
	}

	s.LogDebug(ctx, "Vouchers listed successfully", slog.Int("count", len(vouchers)))
	return &dto.ListVouchersResponse{
		Vouchers:  dto.ToVoucherResponses(vouchers),
		NextToken: nextToken,
	}, nil
}
