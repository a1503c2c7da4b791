package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/domain"
)

type PreferenceRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error)
	Upsert(ctx context.Context, prefs *domain.NotificationPreferences) error
}

type preferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	var prefs domain.NotificationPreferences
	err := r.db.GetContext(ctx, &prefs, `SELECT * FROM notification_preferences WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, prefs *domain.NotificationPreferences) error {
	query := `
		INSERT INTO notification_preferences (user_id, new_interest, contact_shared, new_message,
			job_updates, payment_updates, marketing)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			new_interest = EXCLUDED.new_interest,
			contact_shared = EXCLUDED.contact_shared,
			new_message = EXCLUDED.new_message,
			job_updates = EXCLUDED.job_updates,
			payment_updates = EXCLUDED.payment_updates,
			marketing = EXCLUDED.marketing,
			updated_at = NOW()
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		prefs.UserID, prefs.NewInterest, prefs.ContactShared, prefs.NewMessage,
		prefs.JobUpdates, prefs.PaymentUpdates, prefs.Marketing,
	).Scan(&prefs.UpdatedAt)
}
