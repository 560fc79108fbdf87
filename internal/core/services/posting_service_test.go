package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

var fastRetry = services.RetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

func balancedEntries(voucherID string, amount int64) []domain.Entry {
	return []domain.Entry{
		{EntryID: voucherID + "-1", VoucherID: voucherID, AccountID: "acc-cash", Side: domain.Debit, Amount: decimal.NewFromInt(amount), LineNo: 1},
		{EntryID: voucherID + "-2", VoucherID: voucherID, AccountID: "acc-sales", Side: domain.Credit, Amount: decimal.NewFromInt(amount), LineNo: 2},
	}
}

type PostingServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo *MockVoucherRepository
	service         portssvc.PostingSvc
	ctx             context.Context
	tx              *fakeTx
	now             time.Time
	companyID       string
	userID          string
	draft           *domain.Voucher
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.now = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	suite.service = services.NewPostingService(suite.mockVoucherRepo,
		services.WithRetryPolicy(fastRetry),
		services.WithPostingClock(func() time.Time { return suite.now }))
	suite.ctx = context.Background()
	suite.tx = &fakeTx{}
	suite.companyID = "company-1"
	suite.userID = "user-1"
	suite.draft = &domain.Voucher{
		VoucherID:     "v-1",
		CompanyID:     suite.companyID,
		VoucherTypeID: "vt-sale",
		Kind:          domain.KindSale,
		Status:        domain.Draft,
	}
}

// expectAttempt wires one full posting attempt that reaches Commit.
func (suite *PostingServiceTestSuite) expectAttempt(number int64, commitErr error) {
	suite.mockVoucherRepo.On("BeginSerializable", suite.ctx).Return(suite.tx, nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByIDForUpdate", suite.ctx, suite.tx, "v-1").Return(suite.draft, nil).Once()
	suite.mockVoucherRepo.On("FindEntriesByVoucherIDInTx", suite.ctx, suite.tx, "v-1").Return(balancedEntries("v-1", 5000), nil).Once()
	suite.mockVoucherRepo.On("NextVoucherNumberInTx", suite.ctx, suite.tx, suite.companyID, "vt-sale").Return(number, nil).Once()
	suite.mockVoucherRepo.On("MarkPostedInTx", suite.ctx, suite.tx, "v-1", number, suite.userID, suite.now).Return(nil).Once()
	suite.mockVoucherRepo.On("Commit", suite.ctx, suite.tx).Return(commitErr).Once()
	if commitErr != nil {
		suite.mockVoucherRepo.On("Rollback", mock.Anything, suite.tx).Return(nil).Once()
	}
}

func (suite *PostingServiceTestSuite) TestPost_Success() {
	suite.expectAttempt(1, nil)

	result, err := suite.service.Post(suite.ctx, suite.companyID, "v-1", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(&domain.PostResult{VoucherID: "v-1", VoucherNumber: 1, Status: domain.Posted}, result)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPost_RetriesSerializationConflict() {
	suite.expectAttempt(7, apperrors.ErrSerializationConflict)
	suite.expectAttempt(7, nil)

	result, err := suite.service.Post(suite.ctx, suite.companyID, "v-1", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(int64(7), result.VoucherNumber)
	suite.mockVoucherRepo.AssertNumberOfCalls(suite.T(), "BeginSerializable", 2)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPost_RetryExhausted() {
	for i := 0; i < fastRetry.MaxAttempts; i++ {
		suite.expectAttempt(1, apperrors.ErrSerializationConflict)
	}

	_, err := suite.service.Post(suite.ctx, suite.companyID, "v-1", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSerializationConflict)
	suite.Contains(err.Error(), fmt.Sprintf("after %d attempts", fastRetry.MaxAttempts))
	suite.mockVoucherRepo.AssertNumberOfCalls(suite.T(), "BeginSerializable", fastRetry.MaxAttempts)
}

func (suite *PostingServiceTestSuite) TestPost_AlreadyPostedIsNotRetried() {
	number := int64(3)
	posted := *suite.draft
	posted.Status = domain.Posted
	posted.VoucherNumber = &number

	suite.mockVoucherRepo.On("BeginSerializable", suite.ctx).Return(suite.tx, nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByIDForUpdate", suite.ctx, suite.tx, "v-1").Return(&posted, nil).Once()
	suite.mockVoucherRepo.On("Rollback", mock.Anything, suite.tx).Return(nil).Once()

	_, err := suite.service.Post(suite.ctx, suite.companyID, "v-1", suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockVoucherRepo.AssertNumberOfCalls(suite.T(), "BeginSerializable", 1)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "NextVoucherNumberInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPost_UnbalancedEntriesRejected() {
	entries := balancedEntries("v-1", 1000)
	entries[1].Amount = decimal.RequireFromString("999.9995")

	suite.mockVoucherRepo.On("BeginSerializable", suite.ctx).Return(suite.tx, nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByIDForUpdate", suite.ctx, suite.tx, "v-1").Return(suite.draft, nil).Once()
	suite.mockVoucherRepo.On("FindEntriesByVoucherIDInTx", suite.ctx, suite.tx, "v-1").Return(entries, nil).Once()
	suite.mockVoucherRepo.On("Rollback", mock.Anything, suite.tx).Return(nil).Once()

	_, err := suite.service.Post(suite.ctx, suite.companyID, "v-1", suite.userID)

	// Drafts tolerate a small difference; posting requires an exact match.
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntries)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "NextVoucherNumberInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPost_OtherCompanyIsNotFound() {
	suite.mockVoucherRepo.On("BeginSerializable", suite.ctx).Return(suite.tx, nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByIDForUpdate", suite.ctx, suite.tx, "v-1").Return(suite.draft, nil).Once()
	suite.mockVoucherRepo.On("Rollback", mock.Anything, suite.tx).Return(nil).Once()

	_, err := suite.service.Post(suite.ctx, "company-2", "v-1", suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}

// --- In-memory store with serialized transactions ---

// memStore runs one transaction at a time, which is the outcome SERIALIZABLE
// isolation guarantees for concurrent posts. Writes are staged on the tx and
// applied on commit.
type memStore struct {
	MockVoucherRepository // unused methods panic through mock.Mock

	txLock    sync.Mutex
	mu        sync.Mutex
	vouchers  map[string]domain.Voucher
	entries   map[string][]domain.Entry
	counters  map[string]int64
	conflicts int // commits still to fail with a serialization conflict
}

type memTx struct {
	pgx.Tx
	counters map[string]int64
	posted   map[string]domain.Voucher
	done     bool
}

var _ portsrepo.VoucherRepositoryWithTx = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		vouchers: map[string]domain.Voucher{},
		entries:  map[string][]domain.Entry{},
		counters: map[string]int64{},
	}
}

func (s *memStore) addDraft(id string) {
	s.vouchers[id] = domain.Voucher{VoucherID: id, CompanyID: "company-1", VoucherTypeID: "vt-sale", Status: domain.Draft}
	s.entries[id] = balancedEntries(id, 100)
}

func (s *memStore) BeginSerializable(ctx context.Context) (pgx.Tx, error) {
	s.txLock.Lock()
	return &memTx{counters: map[string]int64{}, posted: map[string]domain.Voucher{}}, nil
}

func (s *memStore) Commit(ctx context.Context, tx pgx.Tx) error {
	t := tx.(*memTx)
	defer s.finish(t)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts > 0 {
		s.conflicts--
		return apperrors.ErrSerializationConflict
	}
	for k, v := range t.counters {
		s.counters[k] = v
	}
	for id, v := range t.posted {
		s.vouchers[id] = v
	}
	return nil
}

func (s *memStore) Rollback(ctx context.Context, tx pgx.Tx) error {
	s.finish(tx.(*memTx))
	return nil
}

func (s *memStore) finish(t *memTx) {
	if !t.done {
		t.done = true
		s.txLock.Unlock()
	}
}

func (s *memStore) FindVoucherByIDForUpdate(ctx context.Context, tx pgx.Tx, voucherID string) (*domain.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vouchers[voucherID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &v, nil
}

func (s *memStore) FindEntriesByVoucherIDInTx(ctx context.Context, tx pgx.Tx, voucherID string) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[voucherID], nil
}

func (s *memStore) NextVoucherNumberInTx(ctx context.Context, tx pgx.Tx, companyID, voucherTypeID string) (int64, error) {
	t := tx.(*memTx)
	key := companyID + "/" + voucherTypeID
	s.mu.Lock()
	next := s.counters[key] + 1
	s.mu.Unlock()
	t.counters[key] = next
	return next, nil
}

func (s *memStore) MarkPostedInTx(ctx context.Context, tx pgx.Tx, voucherID string, number int64, userID string, postedAt time.Time) error {
	t := tx.(*memTx)
	s.mu.Lock()
	v := s.vouchers[voucherID]
	s.mu.Unlock()
	if v.Status != domain.Draft {
		return apperrors.ErrInvalidState
	}
	v.Status = domain.Posted
	v.VoucherNumber = &number
	v.PostedAt = &postedAt
	v.PostedBy = &userID
	t.posted[voucherID] = v
	return nil
}

func TestPost_ConcurrentPostsGetContiguousNumbers(t *testing.T) {
	const count = 25
	store := newMemStore()
	for i := 0; i < count; i++ {
		store.addDraft(fmt.Sprintf("v-%02d", i))
	}
	store.conflicts = 6

	svc := services.NewPostingService(store, services.WithRetryPolicy(services.RetryPolicy{
		MaxAttempts:     10,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}))

	numbers := make([]int64, count)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < count; i++ {
		g.Go(func() error {
			res, err := svc.Post(ctx, "company-1", fmt.Sprintf("v-%02d", i), "user-1")
			if err != nil {
				return err
			}
			numbers[i] = res.VoucherNumber
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Slice(numbers, func(a, b int) bool { return numbers[a] < numbers[b] })
	for i, n := range numbers {
		assert.Equal(t, int64(i+1), n, "numbers must be unique and gap-free")
	}
	assert.Equal(t, int64(count), store.counters["company-1/vt-sale"])
	for id, v := range store.vouchers {
		assert.Equal(t, domain.Posted, v.Status, id)
	}
}

func TestPost_DoublePost(t *testing.T) {
	store := newMemStore()
	store.addDraft("v-1")
	svc := services.NewPostingService(store, services.WithRetryPolicy(fastRetry))

	first, err := svc.Post(context.Background(), "company-1", "v-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.VoucherNumber)

	_, err = svc.Post(context.Background(), "company-1", "v-1", "user-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Equal(t, int64(1), store.counters["company-1/vt-sale"])
}
