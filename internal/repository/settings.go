package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"giftcode_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const (
	settingGiftCode        = "gift_code"
	settingRedemptionsLeft = "code_redemptions_left"
)

func (r *Repository) getSetting(ctx context.Context, q sqlx.QueryerContext, key string) (string, error) {
	query, args, err := squirrel.
		Select("value").
		From("settings").
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", err
	}

	var value string
	err = sqlx.GetContext(ctx, q, &value, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	return value, nil
}

func (r *Repository) setSetting(ctx context.Context, e sqlx.ExecerContext, key, value string) error {
	query, args, err := squirrel.
		Insert("settings").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = e.ExecContext(ctx, query, args...)
	return err
}

// GetGiftCode reads the current code at call time. It is never cached, so
// an admin's mid-day /setcode applies to the next claim immediately.
func (r *Repository) GetGiftCode(ctx context.Context) (*model.GiftCode, error) {
	value, err := r.getSetting(ctx, r.db, settingGiftCode)
	if err != nil {
		return nil, err
	}

	code := &model.GiftCode{Value: value}

	left, err := r.getSetting(ctx, r.db, settingRedemptionsLeft)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return code, nil
		}
		return nil, err
	}

	n, err := strconv.Atoi(left)
	if err != nil {
		return nil, fmt.Errorf("corrupt %s setting: %w", settingRedemptionsLeft, err)
	}
	code.RedemptionsLeft = &n

	return code, nil
}

func (r *Repository) SetGiftCode(ctx context.Context, code *model.GiftCode) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.setSetting(ctx, tx, settingGiftCode, code.Value); err != nil {
			return fmt.Errorf("failed to set gift code: %w", err)
		}

		// no counter means unlimited; drop any counter left from the
		// previous code
		if code.RedemptionsLeft == nil {
			return r.deleteSetting(ctx, tx, settingRedemptionsLeft)
		}
		return r.setSetting(ctx, tx, settingRedemptionsLeft, strconv.Itoa(*code.RedemptionsLeft))
	})
}

func (r *Repository) deleteSetting(ctx context.Context, e sqlx.ExecerContext, key string) error {
	query, args, err := squirrel.
		Delete("settings").
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = e.ExecContext(ctx, query, args...)
	return err
}

// DecrementRedemptions lowers the optional remaining-redemption counter.
// Missing counter is not an error; not every deployment tracks one.
func (r *Repository) DecrementRedemptions(ctx context.Context) error {
	query, args, err := squirrel.
		Update("settings").
		Set("value", squirrel.Expr("(value::int - 1)::text")).
		Where(squirrel.Eq{"key": settingRedemptionsLeft}).
		Where(squirrel.Expr("value::int > 0")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
