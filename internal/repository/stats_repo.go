package repo

import (
	"context"

	"userdir/internal/lib"
	"userdir/internal/models"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/jmoiron/sqlx"
)

type StatisticsRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewStatisticsRepo(db *sqlx.DB, c *trmsqlx.CtxGetter) *StatisticsRepo {
	return &StatisticsRepo{
		db:     db,
		getter: c,
	}
}

func (r *StatisticsRepo) GetUserStats(ctx context.Context) (*models.UserStatistics, error) {
	const op = "stats_repo.GetUserStats"

	query := `
		SELECT
		COUNT(*) AS total,
		COUNT(CASE WHEN programmer THEN 1 END) AS programmers,
		COALESCE(AVG(age), 0) AS average_age
		FROM users
	`

	var res models.UserStatistics
	err := r.getter.DefaultTrOrDB(ctx, r.db).GetContext(ctx, &res, query)
	if err != nil {
		return nil, lib.Err(op, err)
	}
	return &res, nil
}

// CountBy groups users by one of the free-text columns. NULL and empty
// values are reported under the empty key.
func (r *StatisticsRepo) CountBy(ctx context.Context, column string) ([]*models.GroupCount, error) {
	const op = "stats_repo.CountBy"

	var query string
	switch column {
	case "status":
		query = `
			SELECT COALESCE(status, '') AS group_key, COUNT(*) AS group_count
			FROM users
			GROUP BY COALESCE(status, '')
			ORDER BY group_count DESC, group_key ASC
		`
	case "gender":
		query = `
			SELECT COALESCE(gender, '') AS group_key, COUNT(*) AS group_count
			FROM users
			GROUP BY COALESCE(gender, '')
			ORDER BY group_count DESC, group_key ASC
		`
	default:
		return nil, lib.Err(op, ErrUnknownColumn)
	}

	groups := []*models.GroupCount{}
	err := r.getter.DefaultTrOrDB(ctx, r.db).SelectContext(ctx, &groups, query)
	if err != nil {
		return nil, lib.Err(op, err)
	}

	return groups, nil
}
