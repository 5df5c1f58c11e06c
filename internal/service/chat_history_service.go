package service

import (
	"errors"

	"math_tutor_backend/internal/model"
	"math_tutor_backend/internal/repository"
	"math_tutor_backend/internal/util"

	"gorm.io/gorm"
)

// ChatHistoryService enforces the ownership invariant: every read of a
// single record and every mutation compares the stored user_id against
// the caller before touching the row. Missing and foreign records are
// indistinguishable to the client.
type ChatHistoryService struct {
	Repo *repository.ChatHistoryRepository
}

func NewChatHistoryService(repo *repository.ChatHistoryRepository) *ChatHistoryService {
	return &ChatHistoryService{Repo: repo}
}

func (s *ChatHistoryService) ListForUser(userID uint) ([]model.ChatHistory, error) {
	return s.Repo.FindByUser(userID)
}

func (s *ChatHistoryService) Save(userID uint, title string, messages model.Messages) (uint, error) {
	if title == "" {
		title = "Untitled Chat"
	}

	history := &model.ChatHistory{
		UserID:   userID,
		Title:    title,
		Messages: messages,
	}
	if err := s.Repo.Create(history); err != nil {
		return 0, err
	}

	return history.ID, nil
}

func (s *ChatHistoryService) Get(id, userID uint) (*model.ChatHistory, error) {
	history, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChatNotFound
		}
		return nil, err
	}
	if history.UserID != userID {
		return nil, util.ErrChatNotFound
	}
	return history, nil
}

func (s *ChatHistoryService) Update(id, userID uint, title string, messages model.Messages) error {
	if _, err := s.Get(id, userID); err != nil {
		return err
	}
	return s.Repo.Update(id, userID, title, messages)
}

func (s *ChatHistoryService) Delete(id, userID uint) error {
	if _, err := s.Get(id, userID); err != nil {
		return err
	}
	return s.Repo.Delete(id, userID)
}
