package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gocraft/dbr/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetPublicProfile(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateStatus(ctx context.Context, userID uuid.UUID, status domain.UserStatus) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, url string) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Search(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) ([]domain.User, int64, error)
	SetPasswordResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetUserByResetToken(ctx context.Context, token string) (*domain.User, error)
	ClearPasswordResetToken(ctx context.Context, userID uuid.UUID) error
	DeleteCascade(ctx context.Context, userID uuid.UUID) (domain.CascadeReport, error)
}

type userRepository struct {
	db   *sqlx.DB
	sess *dbr.Session
}

func NewUserRepository(db *sqlx.DB, sess *dbr.Session) UserRepository {
	return &userRepository{db: db, sess: sess}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, name, email, phone, password_hash, role, admin_role, status,
			location, postcode, state, lga, town, trade_categories, experience_years,
			company_name, description, certifications, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.AdminRole, user.Status,
		user.Location, user.Postcode, user.State, user.LGA, user.Town, user.TradeCategories, user.ExperienceYears,
		user.CompanyName, user.Description, user.Certifications, user.IsVerified,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE LOWER(email) = LOWER($1)`

	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetPublicProfile(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error) {
	var profile domain.PublicProfile
	query := `
		SELECT user_id, name, role, location, trade_categories, experience_years, company_name, avatar_url, is_verified
		FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &profile, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = :name, phone = :phone, location = :location, postcode = :postcode,
			state = :state, lga = :lga, town = :town, trade_categories = :trade_categories,
			experience_years = :experience_years, company_name = :company_name,
			description = :description, certifications = :certifications, updated_at = NOW()
		WHERE user_id = :user_id`

	_, err := r.db.NamedExecContext(ctx, query, user)
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE user_id = $1`
	return r.execOne(ctx, query, userID, passwordHash)
}

func (r *userRepository) UpdateStatus(ctx context.Context, userID uuid.UUID, status domain.UserStatus) error {
	query := `UPDATE users SET status = $2, updated_at = NOW() WHERE user_id = $1`
	return r.execOne(ctx, query, userID, status)
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID uuid.UUID, url string) error {
	query := `UPDATE users SET avatar_url = $2, updated_at = NOW() WHERE user_id = $1`
	return r.execOne(ctx, query, userID, url)
}

func (r *userRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET last_login_at = NOW() WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	err := r.db.GetContext(ctx, &exists, query, email)
	return exists, err
}

func (r *userRepository) Search(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) ([]domain.User, int64, error) {
	params.Validate()

	conds := make([]dbr.Builder, 0, 3)
	if filter.Role != "" {
		conds = append(conds, dbr.Eq("role", filter.Role))
	}
	if filter.Status != "" {
		conds = append(conds, dbr.Eq("status", filter.Status))
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		conds = append(conds, dbr.Or(
			dbr.Expr("name ILIKE ?", like),
			dbr.Expr("email ILIKE ?", like),
			dbr.Expr("phone ILIKE ?", like),
		))
	}

	count := r.sess.Select("COUNT(*)").From("users")
	list := r.sess.Select("*").From("users")
	if len(conds) > 0 {
		count.Where(dbr.And(conds...))
		list.Where(dbr.And(conds...))
	}

	var total int64
	if err := count.LoadOneContext(ctx, &total); err != nil {
		return nil, 0, err
	}

	var users []domain.User
	_, err := list.
		OrderDesc("created_at").
		Limit(uint64(params.PageSize)).
		Offset(uint64(params.Offset())).
		LoadContext(ctx, &users)
	return users, total, err
}

func (r *userRepository) SetPasswordResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET password_reset_token = $2, password_reset_expires_at = $3, updated_at = NOW()
		WHERE user_id = $1`
	return r.execOne(ctx, query, userID, token, expiresAt)
}

func (r *userRepository) GetUserByResetToken(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE password_reset_token = $1`

	err := r.db.GetContext(ctx, &user, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ClearPasswordResetToken(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires_at = NULL, updated_at = NOW()
		WHERE user_id = $1`
	return r.execOne(ctx, query, userID)
}

// cascadeSteps removes everything a user owns or participates in, children before parents.
// Each statement takes the user id as $1.
var cascadeSteps = []struct {
	table string
	query string
}{
	{"messages", `
		DELETE FROM messages WHERE sender_id = $1 OR conversation_id IN (
			SELECT conversation_id FROM conversations
			WHERE homeowner_id = $1 OR tradesperson_id = $1
				OR job_id IN (SELECT job_id FROM jobs WHERE homeowner_id = $1))`},
	{"conversations", `
		DELETE FROM conversations
		WHERE homeowner_id = $1 OR tradesperson_id = $1
			OR job_id IN (SELECT job_id FROM jobs WHERE homeowner_id = $1)`},
	{"interests", `
		DELETE FROM interests
		WHERE tradesperson_id = $1 OR homeowner_id = $1
			OR job_id IN (SELECT job_id FROM jobs WHERE homeowner_id = $1)`},
	{"jobs", `DELETE FROM jobs WHERE homeowner_id = $1`},
	{"notifications", `DELETE FROM notifications WHERE user_id = $1`},
	{"notification_preferences", `DELETE FROM notification_preferences WHERE user_id = $1`},
	{"wallet_transactions", `DELETE FROM wallet_transactions WHERE user_id = $1`},
	{"wallets", `DELETE FROM wallets WHERE user_id = $1`},
	{"sessions", `DELETE FROM sessions WHERE user_id = $1`},
	{"quiz_attempts", `DELETE FROM quiz_attempts WHERE user_id = $1`},
	{"content_items", `UPDATE content_items SET author_id = NULL WHERE author_id = $1`},
	{"users", `DELETE FROM users WHERE user_id = $1`},
}

func (r *userRepository) DeleteCascade(ctx context.Context, userID uuid.UUID) (domain.CascadeReport, error) {
	report := make(domain.CascadeReport, len(cascadeSteps))

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, step := range cascadeSteps {
			res, err := tx.ExecContext(ctx, step.query, userID)
			if err != nil {
				return err
			}
			n, _ := res.RowsAffected()
			report[step.table] = n
		}
		if report["users"] == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *userRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
