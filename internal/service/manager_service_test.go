package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

func TestManagerServiceCreateDefaultsActive(t *testing.T) {
	repo := newMockManagerRepo(models.Manager{ID: 1, Email: "taken@uni.test"})
	svc := NewManagerService(repo, nil, nil, nil, nil)

	manager, err := svc.Create(context.Background(), ManagerRequest{Name: "Dr. New", Email: "new@uni.test", ContactNo: "1"})
	require.NoError(t, err)
	assert.True(t, manager.Active)

	_, err = svc.Create(context.Background(), ManagerRequest{Name: "Dr. Dup", Email: "TAKEN@uni.test", ContactNo: "1"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestManagerServiceUpdate(t *testing.T) {
	repo := newMockManagerRepo(models.Manager{ID: 1, Name: "Dr. Old", Email: "old@uni.test", Active: true})
	svc := NewManagerService(repo, nil, nil, nil, nil)

	manager, err := svc.Update(context.Background(), 1, ManagerRequest{Name: "Dr. Old", Email: "old@uni.test", ContactNo: "9", Active: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, manager.Active)
	assert.Equal(t, "9", repo.managers[1].ContactNo)

	_, err = svc.Update(context.Background(), 2, ManagerRequest{Name: "x", Email: "x@uni.test", ContactNo: "1"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestManagerServiceGetMissing(t *testing.T) {
	svc := NewManagerService(newMockManagerRepo(), nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), 5)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
