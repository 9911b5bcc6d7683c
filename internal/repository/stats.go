package repository

import (
	"context"
	"fmt"

	"giftcode_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type statsRow struct {
	TotalUsers     int `db:"total_users"`
	TotalReferrals int `db:"total_referrals"`
	TotalClaims    int `db:"total_claims"`
	VerifiedUsers  int `db:"verified_users"`
}

type topReferrerRow struct {
	TelegramID   int64         `db:"telegram_id"`
	Username     string        `db:"username"`
	TotalInvites int           `db:"total_invites"`
	RefereeIDs   pq.Int64Array `db:"referee_ids"`
}

func (r *Repository) GetBotStats(ctx context.Context) (*model.BotStats, error) {
	query, args, err := squirrel.
		Select(
			"COUNT(*) AS total_users",
			"COALESCE(SUM(total_invites), 0) AS total_referrals",
			"COALESCE(SUM((total_invites - available_invites) / ?), 0) AS total_claims",
			"COUNT(*) FILTER (WHERE channel_verified) AS verified_users",
		).
		From("users").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	args = append(args, model.ClaimPrice)

	var row statsRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot stats: %w", err)
	}

	return &model.BotStats{
		TotalUsers:     row.TotalUsers,
		TotalReferrals: row.TotalReferrals,
		TotalClaims:    row.TotalClaims,
		VerifiedUsers:  row.VerifiedUsers,
	}, nil
}

func (r *Repository) GetTopReferrers(ctx context.Context, limit int) ([]*model.TopReferrer, error) {
	query, args, err := squirrel.
		Select(
			"u.telegram_id",
			"u.username",
			"u.total_invites",
			"COALESCE(array_agg(ref.telegram_id) FILTER (WHERE ref.telegram_id IS NOT NULL), '{}') AS referee_ids",
		).
		From("users u").
		LeftJoin("users ref ON ref.referrer_id = u.telegram_id").
		GroupBy("u.telegram_id", "u.username", "u.total_invites").
		Having(squirrel.Gt{"u.total_invites": 0}).
		OrderBy("u.total_invites DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build top referrers query: %w", err)
	}

	var rows []*topReferrerRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get top referrers: %w", err)
	}

	top := make([]*model.TopReferrer, len(rows))
	for i, row := range rows {
		top[i] = &model.TopReferrer{
			TelegramID:   row.TelegramID,
			Username:     row.Username,
			TotalInvites: row.TotalInvites,
			RefereeIDs:   row.RefereeIDs,
		}
	}

	return top, nil
}
