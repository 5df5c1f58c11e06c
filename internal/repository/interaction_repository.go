package repository

import (
	"time"

	"math_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type InteractionRepository struct {
	DB *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

func (r *InteractionRepository) Create(in *model.Interaction) error {
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	return r.DB.Create(in).Error
}

func (r *InteractionRepository) ListRecent(limit int) ([]model.Interaction, error) {
	var rows []model.Interaction
	err := r.DB.Order("timestamp DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
