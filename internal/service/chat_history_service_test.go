package service

import (
	"encoding/json"
	"testing"

	"math_tutor_backend/internal/model"
	"math_tutor_backend/internal/repository"
	"math_tutor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChatFixture(t *testing.T) (*ChatHistoryService, *gorm.DB, *model.User, *model.User) {
	t.Helper()
	db := newTestDB(t)

	owner := &model.User{Name: "Owner", Email: "owner@example.com", Password: "x"}
	other := &model.User{Name: "Other", Email: "other@example.com", Password: "x"}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(other).Error)

	svc := NewChatHistoryService(repository.NewChatHistoryRepository(db, nil))
	return svc, db, owner, other
}

func sampleMessages(t *testing.T) model.Messages {
	t.Helper()
	raw, err := json.Marshal([]map[string]string{
		{"role": "user", "content": "what is 2+2"},
		{"role": "assistant", "content": "4"},
	})
	require.NoError(t, err)
	return model.Messages(raw)
}

func TestSaveAndGetChatHistory(t *testing.T) {
	t.Parallel()

	svc, _, owner, _ := newChatFixture(t)

	id, err := svc.Save(owner.ID, "Fractions session", sampleMessages(t))
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := svc.Get(id, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fractions session", got.Title)
	assert.JSONEq(t, string(sampleMessages(t)), string(got.Messages))
}

func TestSaveDefaultsTitle(t *testing.T) {
	t.Parallel()

	svc, _, owner, _ := newChatFixture(t)

	id, err := svc.Save(owner.ID, "", sampleMessages(t))
	require.NoError(t, err)

	got, err := svc.Get(id, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Untitled Chat", got.Title)
}

func TestGetForeignChatIndistinguishableFromMissing(t *testing.T) {
	t.Parallel()

	svc, _, owner, other := newChatFixture(t)

	id, err := svc.Save(owner.ID, "Private", sampleMessages(t))
	require.NoError(t, err)

	_, foreignErr := svc.Get(id, other.ID)
	_, missingErr := svc.Get(99999, other.ID)

	assert.ErrorIs(t, foreignErr, util.ErrChatNotFound)
	assert.ErrorIs(t, missingErr, util.ErrChatNotFound)
	assert.Equal(t, foreignErr, missingErr)
}

func TestUpdateChatHistory(t *testing.T) {
	t.Parallel()

	svc, _, owner, other := newChatFixture(t)

	id, err := svc.Save(owner.ID, "Before", sampleMessages(t))
	require.NoError(t, err)

	updated := model.Messages(`[{"role":"user","content":"new"}]`)
	require.NoError(t, svc.Update(id, owner.ID, "After", updated))

	got, err := svc.Get(id, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.JSONEq(t, `[{"role":"user","content":"new"}]`, string(got.Messages))

	assert.ErrorIs(t, svc.Update(id, other.ID, "Hijack", updated), util.ErrChatNotFound)
}

func TestDeleteChatHistory(t *testing.T) {
	t.Parallel()

	svc, _, owner, other := newChatFixture(t)

	id, err := svc.Save(owner.ID, "Doomed", sampleMessages(t))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(id, other.ID), util.ErrChatNotFound)

	require.NoError(t, svc.Delete(id, owner.ID))
	_, err = svc.Get(id, owner.ID)
	assert.ErrorIs(t, err, util.ErrChatNotFound)
}

func TestListForUserNewestFirst(t *testing.T) {
	t.Parallel()

	svc, _, owner, other := newChatFixture(t)

	first, err := svc.Save(owner.ID, "First", sampleMessages(t))
	require.NoError(t, err)
	second, err := svc.Save(owner.ID, "Second", sampleMessages(t))
	require.NoError(t, err)
	_, err = svc.Save(other.ID, "Not mine", sampleMessages(t))
	require.NoError(t, err)

	// Bump the second chat so ordering by timestamp is observable.
	require.NoError(t, svc.Update(second, owner.ID, "Second updated", sampleMessages(t)))

	histories, err := svc.ListForUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, histories, 2)
	assert.Equal(t, second, histories[0].ID)
	assert.Equal(t, first, histories[1].ID)
}
