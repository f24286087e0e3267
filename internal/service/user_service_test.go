package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"issuedesk/internal/errors"
	"issuedesk/internal/model"
)

func TestSetRoleAdminOnly(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, nil)

	assignee := &model.User{ID: uuid.New(), Role: model.RoleAssignee}
	_, err := svc.SetRole(context.Background(), assignee, uuid.New(), model.RoleAdmin)

	assert.ErrorIs(t, err, errors.ErrForbidden)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSetRoleUpdatesUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, nil)

	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	targetID := uuid.New()
	userRepo.On("FindByID", mock.Anything, targetID).Return(&model.User{ID: targetID, Role: model.RoleReporter}, nil)
	userRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	user, err := svc.SetRole(context.Background(), admin, targetID, model.RoleAssignee)

	assert.NoError(t, err)
	assert.Equal(t, model.RoleAssignee, user.Role)
	userRepo.AssertExpectations(t)
}

func TestSetRoleRejectsUnknownRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, nil)

	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	_, err := svc.SetRole(context.Background(), admin, uuid.New(), model.Role("owner"))

	assert.Error(t, err)
	userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetUserNotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, nil)

	id := uuid.New()
	userRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetUser(context.Background(), id)

	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}
