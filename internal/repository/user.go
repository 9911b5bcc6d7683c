package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"giftcode_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type User struct {
	TelegramID       int64      `db:"telegram_id"`
	Username         string     `db:"username"`
	ReferralCode     string     `db:"referral_code"`
	ReferrerID       *int64     `db:"referrer_id"`
	TotalInvites     int        `db:"total_invites"`
	AvailableInvites int        `db:"available_invites"`
	ChannelVerified  bool       `db:"channel_verified"`
	LastClaimDate    *time.Time `db:"last_claim_date"`
	RegistrationDate time.Time  `db:"registration_date"`
}

func (u *User) toModel() *model.User {
	return &model.User{
		TelegramID:       u.TelegramID,
		Username:         u.Username,
		ReferralCode:     u.ReferralCode,
		ReferrerID:       u.ReferrerID,
		TotalInvites:     u.TotalInvites,
		AvailableInvites: u.AvailableInvites,
		ChannelVerified:  u.ChannelVerified,
		LastClaimDate:    u.LastClaimDate,
		RegistrationDate: u.RegistrationDate,
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query, args, err := squirrel.
		Insert("users").
		SetMap(map[string]interface{}{
			"telegram_id":       user.TelegramID,
			"username":          user.Username,
			"referral_code":     user.ReferralCode,
			"registration_date": user.RegistrationDate,
		}).
		Suffix("ON CONFLICT (telegram_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"referral_code": code}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

// AttributeReferral records referrerID as the referee's inviter and bumps
// the referrer's counters, all in one transaction. The referrer_id guard in
// the UPDATE makes re-invocations of /start with the same token a no-op.
func (r *Repository) AttributeReferral(ctx context.Context, refereeID, referrerID int64) error {
	if refereeID == referrerID {
		return ErrSelfReferral
	}

	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Update("users").
			Set("referrer_id", referrerID).
			Where(squirrel.Eq{"telegram_id": refereeID}).
			Where(squirrel.Eq{"referrer_id": nil}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build referee update query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to set referrer: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyAttributed
		}

		updateQuery, updateArgs, err := squirrel.
			Update("users").
			Set("total_invites", squirrel.Expr("total_invites + 1")).
			Set("available_invites", squirrel.Expr("available_invites + 1")).
			Where(squirrel.Eq{"telegram_id": referrerID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build referrer update query: %w", err)
		}

		result, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to update referrer: %w", err)
		}
		rows, err = result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}

		return nil
	})
}

func (r *Repository) SetChannelVerified(ctx context.Context, telegramID int64) error {
	query, args, err := squirrel.
		Update("users").
		Set("channel_verified", true).
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// SpendClaim deducts the claim price and stamps today's date in a single
// conditional UPDATE. Zero rows affected means one of the claim conditions
// does not hold; the caller decides which from its own read.
func (r *Repository) SpendClaim(ctx context.Context, telegramID int64, today time.Time) error {
	day := today.UTC().Truncate(24 * time.Hour)

	query, args, err := squirrel.
		Update("users").
		Set("available_invites", squirrel.Expr("available_invites - ?", model.ClaimPrice)).
		Set("last_claim_date", day).
		Where(squirrel.Eq{"telegram_id": telegramID}).
		Where(squirrel.Eq{"channel_verified": true}).
		Where(squirrel.GtOrEq{"available_invites": model.ClaimPrice}).
		Where(squirrel.Or{
			squirrel.Eq{"last_claim_date": nil},
			squirrel.NotEq{"last_claim_date": day},
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrClaimConditionFailed
	}

	return nil
}

func (r *Repository) ListUserIDs(ctx context.Context) ([]int64, error) {
	query, args, err := squirrel.
		Select("telegram_id").
		From("users").
		OrderBy("registration_date").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ids []int64
	err = r.db.SelectContext(ctx, &ids, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}

	return ids, nil
}
