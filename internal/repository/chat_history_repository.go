package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"math_tutor_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const chatListCacheTTL = 10 * time.Minute

// ChatHistoryRepository persists saved conversations. The per-user
// list is cached in redis when a client is configured; every write
// path invalidates the owner's cache entry.
type ChatHistoryRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewChatHistoryRepository(db *gorm.DB, rdb *redis.Client) *ChatHistoryRepository {
	return &ChatHistoryRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *ChatHistoryRepository) listCacheKey(userID uint) string {
	return fmt.Sprintf("chat:history:user:%d", userID)
}

func (r *ChatHistoryRepository) invalidateList(userID uint) {
	if r.Redis != nil {
		r.Redis.Del(r.ctx, r.listCacheKey(userID))
	}
}

func (r *ChatHistoryRepository) Create(history *model.ChatHistory) error {
	if history.Timestamp.IsZero() {
		history.Timestamp = time.Now()
	}
	err := r.DB.Create(history).Error
	if err == nil {
		r.invalidateList(history.UserID)
	}
	return err
}

func (r *ChatHistoryRepository) FindByUser(userID uint) ([]model.ChatHistory, error) {
	if r.Redis != nil {
		cached, err := r.Redis.Get(r.ctx, r.listCacheKey(userID)).Result()
		if err == nil {
			var histories []model.ChatHistory
			if json.Unmarshal([]byte(cached), &histories) == nil {
				return histories, nil
			}
		}
	}

	var histories []model.ChatHistory
	err := r.DB.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(histories); err == nil {
			r.Redis.Set(r.ctx, r.listCacheKey(userID), data, chatListCacheTTL)
		}
	}

	return histories, nil
}

func (r *ChatHistoryRepository) FindByID(id uint) (*model.ChatHistory, error) {
	var history model.ChatHistory
	err := r.DB.First(&history, id).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// Update replaces title and messages and bumps the timestamp.
func (r *ChatHistoryRepository) Update(id uint, userID uint, title string, messages model.Messages) error {
	err := r.DB.Model(&model.ChatHistory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":     title,
			"messages":  messages,
			"timestamp": time.Now(),
		}).Error
	if err == nil {
		r.invalidateList(userID)
	}
	return err
}

func (r *ChatHistoryRepository) Delete(id uint, userID uint) error {
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.ChatHistory{}).Error
	if err == nil {
		r.invalidateList(userID)
	}
	return err
}
