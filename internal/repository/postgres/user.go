package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, first_name, last_name, business_type, industry, business_size,
	monthly_revenue, language, notifications_enabled, created_at, last_active`

// UserRepository implements domain.UserRepository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, first_name, last_name, business_type, industry, business_size,
			monthly_revenue, language, notifications_enabled, created_at, last_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.q(ctx).Exec(ctx, query,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.BusinessType,
		user.Industry,
		user.BusinessSize,
		user.MonthlyRevenue,
		user.Language,
		user.NotificationsEnabled,
		user.CreatedAt,
		user.LastActive,
	)
	return mapError(err, "create user")
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.q(ctx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "get user")
	}
	return u, nil
}

// Touch moves last_active of the user to at
func (r *UserRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_active = $2 WHERE id = $1`
	tag, err := r.db.q(ctx).Exec(ctx, query, id, at)
	if err != nil {
		return mapError(err, "touch user")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to touch user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// UpdateProfile writes only the fields set in patch and returns the stored user
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, patch domain.ProfilePatch) (*domain.User, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	update := psql.Update("users").
		SetMap(profileSetMap(patch)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + userColumns)

	query, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile update: %w", err)
	}

	u, err := scanUser(r.db.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "update profile")
	}
	return u, nil
}

func profileSetMap(p domain.ProfilePatch) map[string]interface{} {
	set := make(map[string]interface{})
	if p.Username != nil {
		set["username"] = *p.Username
	}
	if p.FirstName != nil {
		set["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		set["last_name"] = *p.LastName
	}
	if p.BusinessType != nil {
		set["business_type"] = *p.BusinessType
	}
	if p.Industry != nil {
		set["industry"] = *p.Industry
	}
	if p.BusinessSize != nil {
		set["business_size"] = *p.BusinessSize
	}
	if p.MonthlyRevenue != nil {
		set["monthly_revenue"] = *p.MonthlyRevenue
	}
	if p.Language != nil {
		set["language"] = *p.Language
	}
	if p.NotificationsEnabled != nil {
		set["notifications_enabled"] = *p.NotificationsEnabled
	}
	return set
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.BusinessType,
		&u.Industry,
		&u.BusinessSize,
		&u.MonthlyRevenue,
		&u.Language,
		&u.NotificationsEnabled,
		&u.CreatedAt,
		&u.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
