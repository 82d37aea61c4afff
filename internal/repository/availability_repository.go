package repository

import (
	"context"
	"fmt"

	"github.com/fitbook/booking/internal/model"
	"github.com/fitbook/booking/internal/repository/base"
)

type AvailabilityRepository struct {
	db base.Querier
}

func NewAvailabilityRepository(db base.Querier) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListByTrainerID получает все правила доступности тренера,
// включая отключённые (фильтрация по is_available происходит в schedule)
func (r *AvailabilityRepository) ListByTrainerID(ctx context.Context, trainerID int64) ([]*model.AvailabilityRule, error) {
	query := `
		SELECT id, trainer_id, weekday, start_minute, end_minute, is_available, created_at, updated_at
		FROM availability_rules
		WHERE trainer_id = $1
		ORDER BY weekday, start_minute
	`

	rows, err := r.db.Query(ctx, query, trainerID)
	if err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}
	defer rows.Close()

	var rules []*model.AvailabilityRule
	for rows.Next() {
		var rule model.AvailabilityRule
		err := rows.Scan(
			&rule.ID,
			&rule.TrainerID,
			&rule.Weekday,
			&rule.StartMinute,
			&rule.EndMinute,
			&rule.IsAvailable,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability rule: %w", err)
		}
		rules = append(rules, &rule)
	}

	return rules, nil
}
