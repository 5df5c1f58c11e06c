package service

import (
	"crypto/subtle"

	"math_tutor_backend/internal/model"
	"math_tutor_backend/internal/repository"
)

// AdminService gates raw schema/row inspection behind a shared secret.
// The secret comparison is constant-time, and an unset secret disables
// the endpoints entirely rather than falling back to a default.
type AdminService struct {
	Repo         *repository.AdminRepository
	Interactions *repository.InteractionRepository
	password     string
}

func NewAdminService(repo *repository.AdminRepository, interactions *repository.InteractionRepository, password string) *AdminService {
	return &AdminService{Repo: repo, Interactions: interactions, password: password}
}

func (s *AdminService) Authorize(password string) bool {
	if s.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
}

func (s *AdminService) Tables() ([]string, error) {
	return s.Repo.ListTables()
}

func (s *AdminService) TableData(table string) ([]string, [][]interface{}, error) {
	return s.Repo.TableData(table)
}

func (s *AdminService) RecentInteractions(limit int) ([]model.Interaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.Interactions.ListRecent(limit)
}
