package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocraft/dbr/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/domain"
)

type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	Update(ctx context.Context, job *domain.Job) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.JobStatus) error
	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID, reason string) error
	UpdateAccessFee(ctx context.Context, id uuid.UUID, naira, coins int64) error
	Search(ctx context.Context, filter domain.JobFilter, params domain.PaginationParams) ([]domain.Job, int64, error)
	ListByHomeowner(ctx context.Context, homeownerID uuid.UUID, status string, params domain.PaginationParams) ([]domain.Job, int64, error)
	ListPending(ctx context.Context, params domain.PaginationParams) ([]domain.Job, int64, error)
}

type jobRepository struct {
	db   *sqlx.DB
	sess *dbr.Session
}

func NewJobRepository(db *sqlx.DB, sess *dbr.Session) JobRepository {
	return &jobRepository{db: db, sess: sess}
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (job_id, homeowner_id, title, description, category, location, state, lga, town,
			zip_code, budget_min, budget_max, timeline, status, access_fee_naira, access_fee_coins, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		job.ID, job.HomeownerID, job.Title, job.Description, job.Category, job.Location, job.State, job.LGA, job.Town,
		job.ZipCode, job.BudgetMin, job.BudgetMax, job.Timeline, job.Status, job.AccessFeeNaira, job.AccessFeeCoins, job.ApprovedAt,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var job domain.Job
	query := `SELECT * FROM jobs WHERE job_id = $1`

	err := r.db.GetContext(ctx, &job, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET title = :title, description = :description, category = :category, location = :location,
			state = :state, lga = :lga, town = :town, zip_code = :zip_code, budget_min = :budget_min,
			budget_max = :budget_max, timeline = :timeline, updated_at = NOW()
		WHERE job_id = :job_id`

	_, err := r.db.NamedExecContext(ctx, query, job)
	return err
}

// UpdateStatus moves a job from one status to another, failing with ErrStaleState when
// the job is no longer in the expected status.
func (r *jobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.JobStatus) error {
	query := `
		UPDATE jobs
		SET status = $3,
			completed_at = CASE WHEN $4 THEN NOW() ELSE completed_at END,
			cancelled_at = CASE WHEN $5 THEN NOW() ELSE cancelled_at END,
			updated_at = NOW()
		WHERE job_id = $1 AND status = $2`

	return r.conditional(ctx, query, id, from, to,
		to == domain.JobStatusCompleted, to == domain.JobStatusCancelled)
}

func (r *jobRepository) Approve(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE jobs
		SET status = 'active', approved_at = NOW(), rejection_reason = NULL, updated_at = NOW()
		WHERE job_id = $1 AND status = 'pending_approval'`

	return r.conditional(ctx, query, id)
}

func (r *jobRepository) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE jobs
		SET status = 'rejected', rejection_reason = $2, updated_at = NOW()
		WHERE job_id = $1 AND status = 'pending_approval'`

	return r.conditional(ctx, query, id, reason)
}

func (r *jobRepository) UpdateAccessFee(ctx context.Context, id uuid.UUID, naira, coins int64) error {
	query := `UPDATE jobs SET access_fee_naira = $2, access_fee_coins = $3, updated_at = NOW() WHERE job_id = $1`
	res, err := r.db.ExecContext(ctx, query, id, naira, coins)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *jobRepository) Search(ctx context.Context, filter domain.JobFilter, params domain.PaginationParams) ([]domain.Job, int64, error) {
	params.Validate()

	conds := jobConditions(filter)
	count := r.sess.Select("COUNT(*)").From("jobs")
	list := r.sess.Select("*").From("jobs")
	if len(conds) > 0 {
		count.Where(dbr.And(conds...))
		list.Where(dbr.And(conds...))
	}

	var total int64
	if err := count.LoadOneContext(ctx, &total); err != nil {
		return nil, 0, err
	}

	var jobs []domain.Job
	_, err := list.
		OrderDesc("created_at").
		Limit(uint64(params.PageSize)).
		Offset(uint64(params.Offset())).
		LoadContext(ctx, &jobs)
	return jobs, total, err
}

func jobConditions(filter domain.JobFilter) []dbr.Builder {
	conds := make([]dbr.Builder, 0, 8)
	if filter.Status != "" {
		conds = append(conds, dbr.Eq("status", filter.Status))
	}
	if filter.Category != "" {
		conds = append(conds, dbr.Expr("LOWER(category) = LOWER(?)", filter.Category))
	}
	if filter.State != "" {
		conds = append(conds, dbr.Expr("LOWER(state) = LOWER(?)", filter.State))
	}
	if filter.LGA != "" {
		conds = append(conds, dbr.Expr("LOWER(lga) = LOWER(?)", filter.LGA))
	}
	if filter.Town != "" {
		conds = append(conds, dbr.Expr("LOWER(town) = LOWER(?)", filter.Town))
	}
	if filter.Location != "" {
		conds = append(conds, dbr.Expr("location ILIKE ?", "%"+filter.Location+"%"))
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		conds = append(conds, dbr.Or(
			dbr.Expr("title ILIKE ?", like),
			dbr.Expr("description ILIKE ?", like),
		))
	}
	// Budget filters select jobs whose range overlaps the requested one.
	if filter.BudgetMin != nil {
		conds = append(conds, dbr.Or(
			dbr.Eq("budget_max", nil),
			dbr.Gte("budget_max", *filter.BudgetMin),
		))
	}
	if filter.BudgetMax != nil {
		conds = append(conds, dbr.Or(
			dbr.Eq("budget_min", nil),
			dbr.Lte("budget_min", *filter.BudgetMax),
		))
	}
	return conds
}

func (r *jobRepository) ListByHomeowner(ctx context.Context, homeownerID uuid.UUID, status string, params domain.PaginationParams) ([]domain.Job, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM jobs WHERE homeowner_id = $1 AND ($2::text = '' OR status = $2::text)`
	if err := r.db.GetContext(ctx, &total, countQuery, homeownerID, status); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM jobs
		WHERE homeowner_id = $1 AND ($2::text = '' OR status = $2::text)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	var jobs []domain.Job
	err := r.db.SelectContext(ctx, &jobs, query, homeownerID, status, params.PageSize, params.Offset())
	return jobs, total, err
}

func (r *jobRepository) ListPending(ctx context.Context, params domain.PaginationParams) ([]domain.Job, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM jobs WHERE status = 'pending_approval'`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM jobs
		WHERE status = 'pending_approval'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`

	var jobs []domain.Job
	err := r.db.SelectContext(ctx, &jobs, query, params.PageSize, params.Offset())
	return jobs, total, err
}

func (r *jobRepository) conditional(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleState
	}
	return nil
}
