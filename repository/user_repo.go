package repository

import (
	"bizdesk-backend/dal"
	"bizdesk-backend/models"
	"bizdesk-backend/utils"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bizdesk-backend/utils/logger"
)

// ErrAdminNotFound is returned when a company has no ADMIN-role user
var ErrAdminNotFound = errors.New("no admin user found for company")

type UserRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *UserRepository) usersTable() string {
	return r.config.DynamoDBTablePrefix + "_users"
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	existingUser := &models.User{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.usersTable(),
		IndexName: "email-index",
		KeyName:   "email",
		KeyValue:  user.Email,
		KeyType:   models.StringType,
	}, existingUser)
	if err == nil && existingUser.ID != "" {
		return nil, errors.New("user with this email already exists")
	}

	// Check if username already exists
	existingUser = &models.User{}
	err = r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.usersTable(),
		IndexName: "username-index",
		KeyName:   "username",
		KeyValue:  user.Username,
		KeyType:   models.StringType,
	}, existingUser)
	if err == nil && existingUser.ID != "" {
		return nil, errors.New("user with this username already exists")
	}

	// Set timestamps
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.ID = utils.GenerateUUID()
	user.Status = models.UserStatusActive

	// Save to database
	err = r.db.PutItem(ctx, r.usersTable(), user)
	if err != nil {
		r.logger.Errorf("Failed to create user: %v", err)
		return nil, err
	}

	r.logger.Infof("User created successfully: %s", user.ID)
	return user, nil
}

// GetUser looks a user up by id, email or username depending on the shape
// of the key. An empty key returns the full user list.
func (r *UserRepository) GetUser(key string) ([]*models.User, error) {
	ctx := context.Background()

	if key == "" {
		users := []*models.User{}
		if err := r.db.Scan(ctx, r.usersTable(), &users); err != nil {
			r.logger.Errorf("Failed to scan users: %v", err)
			return nil, err
		}
		return users, nil
	}

	keyType, indexName, keyName := r.determineKeyType(key)

	var config models.QueryConfig
	if keyType == "id" {
		config = models.QueryConfig{
			TableName: r.usersTable(),
			KeyName:   "id",
			KeyValue:  key,
			KeyType:   models.StringType,
		}
	} else {
		config = models.QueryConfig{
			TableName: r.usersTable(),
			IndexName: indexName,
			KeyName:   keyName,
			KeyValue:  key,
			KeyType:   models.StringType,
		}
	}

	r.logger.Debugf("Querying %s with %s: %s", r.usersTable(), keyName, key)

	user := models.User{}
	err := r.db.GetItem(ctx, config, &user)
	if err != nil {
		r.logger.Errorf("Failed to get user by %s: %v", keyName, err)
		return nil, fmt.Errorf("failed to get user by %s: %w", keyName, err)
	}

	if user.ID == "" {
		return []*models.User{}, nil
	}

	return []*models.User{&user}, nil
}

// GetCompanyAdmin resolves the administrator account for a company: the
// first user with role ADMIN belonging to that company.
func (r *UserRepository) GetCompanyAdmin(ctx context.Context, companyID string) (*models.User, error) {
	if companyID == "" {
		return nil, errors.New("company ID is required")
	}

	users := []*models.User{}
	err := r.db.QueryByIndex(ctx, r.usersTable(), "company_id-index", "company_id", companyID, &users)
	if err != nil {
		r.logger.Errorf("Failed to query users for company %s: %v", companyID, err)
		return nil, fmt.Errorf("failed to query company users: %w", err)
	}

	for _, user := range users {
		if user.Role == models.UserRoleAdmin {
			return user, nil
		}
	}

	return nil, ErrAdminNotFound
}

func (r *UserRepository) UpdateUser(id string, user *models.User) (*models.User, error) {
	ctx := context.Background()

	existing, err := r.GetUser(id)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, errors.New("user not found")
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if user.Email != "" {
		updates["email"] = user.Email
	}
	if user.Username != "" {
		updates["username"] = user.Username
	}
	if user.FirstName != "" {
		updates["first_name"] = user.FirstName
	}
	if user.LastName != "" {
		updates["last_name"] = user.LastName
	}
	if user.Phone != nil {
		updates["phone"] = *user.Phone
	}
	if user.Status != "" {
		updates["status"] = user.Status
	}

	if err := r.db.UpdateItem(ctx, r.usersTable(), "id", id, updates); err != nil {
		r.logger.Errorf("Failed to update user %s: %v", id, err)
		return nil, err
	}

	updated, err := r.GetUser(id)
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, errors.New("user not found after update")
	}

	r.logger.Infof("User updated successfully: %s", id)
	return updated[0], nil
}

func (r *UserRepository) determineKeyType(key string) (keyType, indexName, keyName string) {
	uuidPattern := `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`
	isUUID, _ := regexp.MatchString(uuidPattern, strings.ToLower(key))

	if isUUID {
		return "id", "", "id"
	}
	if strings.Contains(key, "@") {
		return "email", "email-index", "email"
	}
	return "username", "username-index", "username"
}
