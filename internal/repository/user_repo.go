package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"userdir/internal/lib"
	"userdir/internal/models"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/jmoiron/sqlx"
)

// columns in the NULL-safe form; the table itself allows NULL everywhere.
const userColumns = `
	id,
	COALESCE(first_name, '') AS first_name,
	COALESCE(last_name, '') AS last_name,
	COALESCE(username, '') AS username,
	COALESCE(password, '') AS password,
	COALESCE(age, 0) AS age,
	COALESCE(gender, '') AS gender,
	COALESCE(programmer, FALSE) AS programmer,
	COALESCE(status, '') AS status,
	created_at,
	updated_at`

type UserRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
	now    func() time.Time
}

func NewUserRepo(db *sqlx.DB, c *trmsqlx.CtxGetter) *UserRepo {
	return &UserRepo{
		db:     db,
		getter: c,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (int64, error) {
	const op = "user_repo.Create"

	query := r.db.Rebind(`
		INSERT INTO users (
			first_name, last_name, username, password, age,
			gender, programmer, status, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id;
	`)

	now := r.now()

	var userID int64
	err := r.getter.
		DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, query,
			user.FirstName, user.LastName, user.Username, user.Password, user.Age,
			user.Gender, user.Programmer, user.Status, now, now,
		).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUserExists
		}
		return 0, lib.Err(op, err)
	}

	user.ID = userID
	user.CreatedAt = &now
	user.UpdatedAt = &now

	return userID, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	const op = "user_repo.GetByID"

	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?;`)

	var user models.User
	err := r.getter.DefaultTrOrDB(ctx, r.db).GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, lib.Err(op, err)
	}

	return &user, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "user_repo.GetByUsername"

	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE username = ?;`)

	var user models.User
	err := r.getter.DefaultTrOrDB(ctx, r.db).GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, lib.Err(op, err)
	}

	return &user, nil
}

func (r *UserRepo) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	const op = "user_repo.List"

	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Programmer != nil {
		where = append(where, "programmer = ?")
		args = append(args, *filter.Programmer)
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + userColumns + ` FROM users`)
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY id ASC LIMIT ? OFFSET ?")
	args = append(args, filter.Limit, filter.Offset)

	users := []*models.User{}
	err := r.getter.DefaultTrOrDB(ctx, r.db).SelectContext(ctx, &users, r.db.Rebind(b.String()), args...)
	if err != nil {
		return nil, lib.Err(op, err)
	}

	return users, nil
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	const op = "user_repo.Update"

	query := r.db.Rebind(`
		UPDATE users
		SET first_name = ?, last_name = ?, username = ?, password = ?,
			age = ?, gender = ?, programmer = ?, updated_at = ?
		WHERE id = ?;
	`)

	now := r.now()

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		user.FirstName, user.LastName, user.Username, user.Password,
		user.Age, user.Gender, user.Programmer, now, user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return lib.Err(op, err)
	}

	if err := checkAffected(op, res); err != nil {
		return err
	}

	user.UpdatedAt = &now
	return nil
}

func (r *UserRepo) SetStatus(ctx context.Context, userID int64, status string) error {
	const op = "user_repo.SetStatus"

	query := r.db.Rebind(`UPDATE users SET status = ?, updated_at = ? WHERE id = ?`)

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, status, r.now(), userID)
	if err != nil {
		return lib.Err(op, err)
	}

	return checkAffected(op, res)
}

func (r *UserRepo) Delete(ctx context.Context, userID int64) error {
	const op = "user_repo.Delete"

	query := r.db.Rebind(`DELETE FROM users WHERE id = ?`)

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, userID)
	if err != nil {
		return lib.Err(op, err)
	}

	return checkAffected(op, res)
}

// checkAffected turns an update that touched no row into ErrNotFound.
func checkAffected(op string, res sql.Result) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return lib.Err(op, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
