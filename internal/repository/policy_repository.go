package repository

import (
	"context"
	"fmt"

	"github.com/fitbook/booking/internal/model"
	"github.com/fitbook/booking/internal/repository/base"
)

type PolicyRepository struct {
	db base.Querier
}

func NewPolicyRepository(db base.Querier) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// GetByTrainerID получает активную политику записи тренера, nil если не задана.
// У тренера не больше одной политики (unique constraint на trainer_id).
func (r *PolicyRepository) GetByTrainerID(ctx context.Context, trainerID int64) (*model.BookingPolicy, error) {
	query := `
		SELECT id, trainer_id, min_notice_hours, max_advance_days,
		       slot_duration_mins, buffer_between_mins, created_at, updated_at
		FROM booking_policies
		WHERE trainer_id = $1
	`

	var policy model.BookingPolicy
	err := r.db.QueryRow(ctx, query, trainerID).Scan(
		&policy.ID,
		&policy.TrainerID,
		&policy.MinNoticeHours,
		&policy.MaxAdvanceDays,
		&policy.SlotDurationMins,
		&policy.BufferBetweenMins,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking policy: %w", err)
	}

	return &policy, nil
}
