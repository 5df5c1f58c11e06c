package service

import (
	"fmt"
	"testing"

	"math_tutor_backend/internal/model"
	"math_tutor_backend/internal/repository"
	"math_tutor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	svc := NewAdminService(nil, nil, "letmein")
	assert.True(t, svc.Authorize("letmein"))
	assert.False(t, svc.Authorize("wrong"))
	assert.False(t, svc.Authorize(""))
}

func TestAuthorizeDisabledWithoutPassword(t *testing.T) {
	t.Parallel()

	svc := NewAdminService(nil, nil, "")
	assert.False(t, svc.Authorize(""))
	assert.False(t, svc.Authorize("anything"))
}

func TestTablesAndTableData(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	require.NoError(t, db.Create(&model.User{Name: "A", Email: "a@example.com", Password: "x"}).Error)

	svc := NewAdminService(repository.NewAdminRepository(db), repository.NewInteractionRepository(db), "secret")

	tables, err := svc.Tables()
	require.NoError(t, err)
	assert.Contains(t, tables, "users")
	assert.Contains(t, tables, "interactions")
	assert.Contains(t, tables, "chat_history")

	columns, rows, err := svc.TableData("users")
	require.NoError(t, err)
	assert.Contains(t, columns, "email")
	require.Len(t, rows, 1)
}

func TestRecentInteractions(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	interactions := repository.NewInteractionRepository(db)
	for i := 0; i < 3; i++ {
		require.NoError(t, interactions.Create(&model.Interaction{Grade: "5", Subject: "Math", Question: fmt.Sprintf("q%d", i)}))
	}

	svc := NewAdminService(repository.NewAdminRepository(db), interactions, "secret")

	rows, err := svc.RecentInteractions(2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.RecentInteractions(0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestTableDataRejectsUnknownTable(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewAdminService(repository.NewAdminRepository(db), repository.NewInteractionRepository(db), "secret")

	_, _, err := svc.TableData("users; DROP TABLE users")
	assert.ErrorIs(t, err, util.ErrUnknownTable)

	_, _, err = svc.TableData("sqlite_master")
	assert.ErrorIs(t, err, util.ErrUnknownTable)
}
