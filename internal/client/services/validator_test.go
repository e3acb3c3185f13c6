package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestValidator_Stale(t *testing.T) {
	store := newFakeStore()
	for range 3 {
		_, _ = store.Create(context.Background(), models.NewRequest(nil))
	}
	// 2 удалён, 3 недоступен из-за ошибки БД
	_ = store.Delete(context.Background(), 2)
	store.getErr[3] = errors.New("database is locked")

	unsaved := models.NewDraft()
	tabs := []models.Tab{
		requestTab("t1", 1),
		requestTab("t2", 2),
		requestTab("t3", 3),
		{ID: "t4", Type: models.TabRequest, Draft: &unsaved},
		{ID: "t5", Type: models.TabHistory},
		requestTab("t6", 42),
	}

	v := NewValidator(store, logging.Nop())
	assert.Equal(t, []string{"t2", "t6"}, v.Stale(context.Background(), tabs))
}

func TestValidator_NothingStale(t *testing.T) {
	v := NewValidator(newFakeStore(), logging.Nop())
	assert.Empty(t, v.Stale(context.Background(), nil))
}
