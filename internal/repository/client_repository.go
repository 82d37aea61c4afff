package repository

import (
	"context"
	"fmt"

	"github.com/fitbook/booking/internal/model"
	"github.com/fitbook/booking/internal/repository/base"
)

type ClientRepository struct {
	db base.Querier
}

func NewClientRepository(db base.Querier) *ClientRepository {
	return &ClientRepository{db: db}
}

// GetByEmail ищет клиента тренера по email, nil если не найден.
// Email ожидается уже нормализованным (нижний регистр, без пробелов).
func (r *ClientRepository) GetByEmail(ctx context.Context, trainerID int64, email string) (*model.Client, error) {
	query := `
		SELECT id, trainer_id, name, email, phone, notes, status, source, created_at
		FROM clients
		WHERE trainer_id = $1 AND email = $2
	`

	var client model.Client
	err := r.db.QueryRow(ctx, query, trainerID, email).Scan(
		&client.ID,
		&client.TrainerID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.Notes,
		&client.Status,
		&client.Source,
		&client.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by email: %w", err)
	}

	return &client, nil
}

// Create создаёт нового клиента
func (r *ClientRepository) Create(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (trainer_id, name, email, phone, notes, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		client.TrainerID,
		client.Name,
		client.Email,
		client.Phone,
		client.Notes,
		client.Status,
		client.Source,
	).Scan(&client.ID, &client.CreatedAt)

	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	return nil
}
