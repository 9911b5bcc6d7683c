package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"giftcode_bot/internal/model"
	"giftcode_bot/internal/repository"
	"giftcode_bot/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClaimService_AttemptClaim(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC)
	today := day(2025, time.June, 2)
	yesterday := day(2025, time.June, 1)

	tests := []struct {
		name          string
		telegramID    int64
		mockSetup     func(repo *mocks.MockClaimRepository)
		expectedCode  string
		expectedError error
	}{
		{
			name:       "Unknown user",
			telegramID: 1,
			mockSetup: func(repo *mocks.MockClaimRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(1)).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name:       "Not verified denies before anything else",
			telegramID: 2,
			mockSetup: func(repo *mocks.MockClaimRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(2)).
					Return(&model.User{
						TelegramID:       2,
						AvailableInvites: 10,
					}, nil)
			},
			expectedError: ErrNotVerified,
		},
		{
			name:       "One available invite is not enough",
			telegramID: 3,
			mockSetup: func(repo *mocks.MockClaimRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(3)).
					Return(&model.User{
						TelegramID:       3,
						ChannelVerified:  true,
						AvailableInvites: 1,
					}, nil)
			},
			expectedError: ErrInsufficientInvites,
		},
		{
			name:       "Same-day repeat denied regardless of balance",
			telegramID: 4,
			mockSetup: func(repo *mocks.MockClaimRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(4)).
					Return(&model.User{
						TelegramID:       4,
						ChannelVerified:  true,
						AvailableInvites: 8,
						LastClaimDate:    &today,
					}, nil)
			},
			expectedError: ErrAlreadyClaimedToday,
		},
		{
			name:       "Exactly two invites succeeds",
			telegramID: 5,
			mockSetup: func(repo *mocks.MockClaimRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(5)).
					Return(&model.User{
						TelegramID:       5,
						ChannelVerified:  true,
						AvailableInvites: 2,
					}, nil)
				repo.On("SpendClaim", mock.Anything, int64(5), now.UTC()).
					Return(nil)
				repo.On("GetGiftCode", mock.Anything).
					Return(&model.GiftCode{Value: "92PAK-GIFT"}, nil)
			},
			expectedCode: "92PAK-GIFT",
		},
		{
			name:       "Yesterday's claim does not block today",
			telegramID: 6,
			mockSetup: func(repo *mocks.MockClaimRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(6)).
					Return(&model.User{
						TelegramID:       6,
						ChannelVerified:  true,
						AvailableInvites: 2,
						LastClaimDate:    &yesterday,
					}, nil)
				repo.On("SpendClaim", mock.Anything, int64(6), now.UTC()).
					Return(nil)
				repo.On("GetGiftCode", mock.Anything).
					Return(&model.GiftCode{Value: "NEXT-DAY"}, nil)
			},
			expectedCode: "NEXT-DAY",
		},
		{
			name:       "Conditional update lost race maps to a denial",
			telegramID: 7,
			mockSetup: func(repo *mocks.MockClaimRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(7)).
					Return(&model.User{
						TelegramID:       7,
						ChannelVerified:  true,
						AvailableInvites: 2,
					}, nil).Once()
				repo.On("SpendClaim", mock.Anything, int64(7), now.UTC()).
					Return(repository.ErrClaimConditionFailed)
				repo.On("GetUserByTelegramID", mock.Anything, int64(7)).
					Return(&model.User{
						TelegramID:       7,
						ChannelVerified:  true,
						AvailableInvites: 0,
						LastClaimDate:    &today,
					}, nil)
			},
			expectedError: ErrAlreadyClaimedToday,
		},
		{
			name:       "Redemption counter decremented when tracked",
			telegramID: 8,
			mockSetup: func(repo *mocks.MockClaimRepository) {
				left := 5
				repo.On("GetUserByTelegramID", mock.Anything, int64(8)).
					Return(&model.User{
						TelegramID:       8,
						ChannelVerified:  true,
						AvailableInvites: 3,
					}, nil)
				repo.On("SpendClaim", mock.Anything, int64(8), now.UTC()).
					Return(nil)
				repo.On("GetGiftCode", mock.Anything).
					Return(&model.GiftCode{Value: "COUNTED", RedemptionsLeft: &left}, nil)
				repo.On("DecrementRedemptions", mock.Anything).Return(nil)
			},
			expectedCode: "COUNTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockClaimRepository{}
			svc := NewClaimService(repo, NewHub())

			tt.mockSetup(repo)

			result, err := svc.AttemptClaim(context.Background(), tt.telegramID, now)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedCode, result.GiftCode)
			}

			repo.AssertExpectations(t)
		})
	}
}

// fakeClaimRepo is a real stateful store so concurrent claims exercise the
// same check-then-act window a database would.
type fakeClaimRepo struct {
	mu   sync.Mutex
	user model.User
	code model.GiftCode
}

func (f *fakeClaimRepo) GetUserByTelegramID(_ context.Context, _ int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.user
	return &u, nil
}

func (f *fakeClaimRepo) SetChannelVerified(_ context.Context, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user.ChannelVerified = true
	return nil
}

func (f *fakeClaimRepo) SpendClaim(_ context.Context, _ int64, today time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	day := today.UTC().Truncate(24 * time.Hour)
	if !f.user.ChannelVerified ||
		f.user.AvailableInvites < model.ClaimPrice ||
		(f.user.LastClaimDate != nil && f.user.LastClaimDate.Equal(day)) {
		return repository.ErrClaimConditionFailed
	}
	f.user.AvailableInvites -= model.ClaimPrice
	f.user.LastClaimDate = &day
	return nil
}

func (f *fakeClaimRepo) GetGiftCode(_ context.Context) (*model.GiftCode, error) {
	c := f.code
	return &c, nil
}

func (f *fakeClaimRepo) SetGiftCode(_ context.Context, code *model.GiftCode) error {
	f.code = *code
	return nil
}

func (f *fakeClaimRepo) DecrementRedemptions(_ context.Context) error { return nil }

func TestClaimService_ConcurrentDoubleTap(t *testing.T) {
	repo := &fakeClaimRepo{
		user: model.User{
			TelegramID:       42,
			ChannelVerified:  true,
			AvailableInvites: 2,
		},
		code: model.GiftCode{Value: "RACE-CODE"},
	}
	svc := NewClaimService(repo, NewHub())

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AttemptClaim(context.Background(), 42, now)
		}(i)
	}
	wg.Wait()

	var successes, denials int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		if errors.Is(err, ErrAlreadyClaimedToday) || errors.Is(err, ErrInsufficientInvites) {
			denials++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, denials)
	assert.Equal(t, 0, repo.user.AvailableInvites)
}

func TestClaimService_MarkVerified(t *testing.T) {
	repo := &mocks.MockClaimRepository{}
	svc := NewClaimService(repo, NewHub())

	repo.On("SetChannelVerified", mock.Anything, int64(9)).Return(nil).Once()
	assert.NoError(t, svc.MarkVerified(context.Background(), 9))

	repo.On("SetChannelVerified", mock.Anything, int64(10)).
		Return(repository.ErrNotFound).Once()
	assert.ErrorIs(t, svc.MarkVerified(context.Background(), 10), ErrUserNotFound)

	repo.AssertExpectations(t)
}
