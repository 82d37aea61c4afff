package repository

import (
	"context"
	"fmt"

	"github.com/fitbook/booking/internal/model"
	"github.com/fitbook/booking/internal/repository/base"
)

type OfferRepository struct {
	db base.Querier
}

func NewOfferRepository(db base.Querier) *OfferRepository {
	return &OfferRepository{db: db}
}

// GetByID получает услугу тренера по ID, nil если не найдена
func (r *OfferRepository) GetByID(ctx context.Context, trainerID, offerID int64) (*model.Offer, error) {
	query := `
		SELECT id, trainer_id, name, price_cents, duration_mins, is_active, created_at
		FROM offers
		WHERE id = $1 AND trainer_id = $2
	`

	var offer model.Offer
	err := r.db.QueryRow(ctx, query, offerID, trainerID).Scan(
		&offer.ID,
		&offer.TrainerID,
		&offer.Name,
		&offer.PriceCents,
		&offer.DurationMins,
		&offer.IsActive,
		&offer.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer by id: %w", err)
	}

	return &offer, nil
}
