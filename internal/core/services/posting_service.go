package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// RetryPolicy bounds how often a post is re-attempted after a serialization conflict.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     5,
		InitialInterval: 20 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	return b
}

// postingService moves DRAFT vouchers to POSTED under serializable isolation.
type postingService struct {
	BaseService
	voucherRepo portsrepo.VoucherRepositoryWithTx
	retry       RetryPolicy
	now         func() time.Time
}

// PostingServiceOption is a functional option for configuring the posting service
type PostingServiceOption func(*postingService)

// WithRetryPolicy sets the conflict retry policy.
func WithRetryPolicy(policy RetryPolicy) PostingServiceOption {
	return func(s *postingService) {
		if policy.MaxAttempts < 1 {
			policy.MaxAttempts = 1
		}
		s.retry = policy
	}
}

// WithPostingClock overrides the clock used for posted_at.
func WithPostingClock(now func() time.Time) PostingServiceOption {
	return func(s *postingService) {
		s.now = now
	}
}

// NewPostingService creates a new posting service.
func NewPostingService(voucherRepo portsrepo.VoucherRepositoryWithTx, options ...PostingServiceOption) portssvc.PostingSvc {
	svc := &postingService{
		voucherRepo: voucherRepo,
		retry:       DefaultRetryPolicy(),
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PostingSvc = (*postingService)(nil)

// Post finalizes a DRAFT voucher. Only serialization conflicts are retried; every
// other failure is returned on the first attempt.
func (s *postingService) Post(ctx context.Context, companyID string, voucherID string, userID string) (*domain.PostResult, error) {
	attempt := 0
	result, err := backoff.Retry(ctx, func() (*domain.PostResult, error) {
		attempt++
		res, err := s.postOnce(ctx, companyID, voucherID, userID)
		if err == nil {
			return res, nil
		}
		if !apperrors.IsRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		s.GetLogger(ctx).Warn("Serialization conflict while posting voucher",
			slog.String("voucher_id", voucherID),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.retry.MaxAttempts))
		return nil, err
	}, backoff.WithBackOff(s.retry.backOff()), backoff.WithMaxTries(uint(s.retry.MaxAttempts)))

	if err != nil {
		if apperrors.IsRetryable(err) {
			s.LogError(ctx, err, "Giving up on posting voucher", slog.String("voucher_id", voucherID), slog.Int("attempts", attempt))
			return nil, fmt.Errorf("voucher %s not posted after %d attempts: %w", voucherID, attempt, err)
		}
		if !errors.Is(err, apperrors.ErrInvalidState) && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrUnbalancedEntries) {
			s.LogError(ctx, err, "Failed to post voucher", slog.String("voucher_id", voucherID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Voucher posted",
		slog.String("voucher_id", result.VoucherID),
		slog.Int64("voucher_number", result.VoucherNumber),
		slog.Int("attempts", attempt))
	return result, nil
}

func (s *postingService) postOnce(ctx context.Context, companyID, voucherID, userID string) (*domain.PostResult, error) {
	var result *domain.PostResult
	err := s.runInTx(ctx, s.voucherRepo, s.voucherRepo.BeginSerializable, func(tx pgx.Tx) error {
		voucher, err := s.voucherRepo.FindVoucherByIDForUpdate(ctx, tx, voucherID)
		if err != nil {
			return fmt.Errorf("failed to load voucher %s: %w", voucherID, err)
		}
		if voucher.CompanyID != companyID {
			return fmt.Errorf("failed to load voucher %s: %w", voucherID, apperrors.ErrNotFound)
		}
		if !voucher.IsDraft() {
			return fmt.Errorf("%w: only DRAFT vouchers can be posted, voucher %s is %s", apperrors.ErrInvalidState, voucherID, voucher.Status)
		}

		entries, err := s.voucherRepo.FindEntriesByVoucherIDInTx(ctx, tx, voucherID)
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}
		if err := accounting.ValidateExactBalance(domain.EntryLines(entries)); err != nil {
			return err
		}

		number, err := s.voucherRepo.NextVoucherNumberInTx(ctx, tx, voucher.CompanyID, voucher.VoucherTypeID)
		if err != nil {
			return fmt.Errorf("failed to allocate voucher number: %w", err)
		}
		if err := s.voucherRepo.MarkPostedInTx(ctx, tx, voucherID, number, userID, s.now().UTC()); err != nil {
			return fmt.Errorf("failed to mark voucher posted: %w", err)
		}

		result = &domain.PostResult{VoucherID: voucherID, VoucherNumber: number, Status: domain.Posted}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
