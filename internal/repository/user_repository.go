package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issuedesk/internal/model"
)

// AssigneeLoad is an assignee-role user together with a live count of
// issues currently assigned to them, across all statuses. The count is
// computed per query, never cached, so it reflects true load at call
// time.
type AssigneeLoad struct {
	ID             uuid.UUID `gorm:"column:id"`
	Username       string    `gorm:"column:username"`
	AssignedIssues int64     `gorm:"column:assigned_issues"`
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListAssigneeLoads(ctx context.Context) ([]AssigneeLoad, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListAssigneeLoads returns every active assignee-role user annotated
// with the number of issues currently assigned to them.
func (r *userRepository) ListAssigneeLoads(ctx context.Context) ([]AssigneeLoad, error) {
	var loads []AssigneeLoad
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.id, users.username, COUNT(issues.id) AS assigned_issues").
		Joins("LEFT JOIN issues ON issues.assignee_id = users.id").
		Where("users.role = ? AND users.active = ?", model.RoleAssignee, true).
		Group("users.id, users.username").
		Scan(&loads).Error
	if err != nil {
		return nil, err
	}
	return loads, nil
}
