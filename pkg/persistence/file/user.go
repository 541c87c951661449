package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/formlane/formlane/pkg/models"
	"github.com/formlane/formlane/pkg/persistence"
)

// UserRepository handles account file operations, one document per user id.
type UserRepository struct {
	root string
}

// NewUserRepository creates a new user repository.
func NewUserRepository(root string) *UserRepository {
	return &UserRepository{root: root}
}

// Create stores a new account, refusing a duplicate email.
func (ur *UserRepository) Create(ctx context.Context, user *models.User) error {
	existing, err := ur.GetByEmail(ctx, user.Email)
	if err != nil && !persistence.IsUserNotFound(err) {
		return err
	}

	if existing != nil {
		return persistence.NewUserError("Create", user.Email, persistence.ErrUserAlreadyExists)
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}

	user.UpdatedAt = now

	return ur.write(user)
}

// GetByID retrieves an account by id.
func (ur *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	filePath := filepath.Clean(path.Join(ur.root, "users", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewUserError("GetByID", id, persistence.ErrUserNotFound)
		}

		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}

	var user models.User

	err = json.Unmarshal(body, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %s: %w", id, err)
	}

	return &user, nil
}

// GetByEmail retrieves an account by email, scanning the stored documents.
// The match is case-insensitive.
func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	root := os.DirFS(ur.root + "/users")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list user files: %w", err)
	}

	for _, file := range jsonFiles {
		userID := file[:len(file)-5]

		user, err := ur.GetByID(ctx, userID)
		if err != nil {
			if persistence.IsUserNotFound(err) {
				continue
			}

			return nil, err
		}

		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}

	return nil, persistence.NewUserError("GetByEmail", email, persistence.ErrUserNotFound)
}

// Update rewrites an existing account document.
func (ur *UserRepository) Update(ctx context.Context, user *models.User) error {
	if _, err := ur.GetByID(ctx, user.ID); err != nil {
		return err
	}

	user.UpdatedAt = time.Now().UTC()

	return ur.write(user)
}

func (ur *UserRepository) write(user *models.User) error {
	err := os.MkdirAll(ur.root+"/users", 0750)
	if err != nil {
		return fmt.Errorf("failed to create users directory: %w", err)
	}

	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user %s: %w", user.ID, err)
	}

	filePath := path.Join(ur.root+"/users", user.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}
