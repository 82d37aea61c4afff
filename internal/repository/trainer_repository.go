package repository

import (
	"context"
	"fmt"

	"github.com/fitbook/booking/internal/model"
	"github.com/fitbook/booking/internal/repository/base"
)

type TrainerRepository struct {
	db base.Querier
}

func NewTrainerRepository(db base.Querier) *TrainerRepository {
	return &TrainerRepository{db: db}
}

// GetByID получает тренера по ID, nil если не найден
func (r *TrainerRepository) GetByID(ctx context.Context, id int64) (*model.Trainer, error) {
	query := `
		SELECT id, name, timezone, created_at
		FROM trainers
		WHERE id = $1
	`

	var trainer model.Trainer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&trainer.ID,
		&trainer.Name,
		&trainer.Timezone,
		&trainer.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get trainer by id: %w", err)
	}

	return &trainer, nil
}
