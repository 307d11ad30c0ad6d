package repositories

import (
	"fmt"
	"testing"

	"grocerylist-api/internal/database"
	"grocerylist-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

type UserRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo UserRepositoryInterface
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *UserRepositorySuite) createUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashed_password",
		DisplayName:  "Test User",
		Role:         models.RoleMember,
	}
	err := s.repo.Create(user)
	s.Require().NoError(err)
	return user
}

func (s *UserRepositorySuite) TestUserRepository_Create() {
	user := &models.User{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		DisplayName:  "Test User",
		Role:         models.RoleMember,
	}

	err := s.repo.Create(user)
	s.NoError(err)
	s.NotEqual(uuid.Nil, user.ID)
	s.NotZero(user.CreatedAt)
	s.NotZero(user.UpdatedAt)
}

func (s *UserRepositorySuite) TestUserRepository_Create_DuplicateEmail() {
	s.createUser("dup@example.com")

	dup := &models.User{
		Email:        "dup@example.com",
		PasswordHash: "hashed_password",
		DisplayName:  "Other User",
		Role:         models.RoleMember,
	}
	err := s.repo.Create(dup)
	s.Error(err)
}

func (s *UserRepositorySuite) TestUserRepository_GetByEmail() {
	user := s.createUser("test@example.com")

	foundUser, err := s.repo.GetByEmail("test@example.com")
	s.NoError(err)
	s.Equal(user.ID, foundUser.ID)
	s.Equal(user.Email, foundUser.Email)

	_, err = s.repo.GetByEmail("nonexistent@example.com")
	s.Equal(ErrUserNotFound, err)
}

func (s *UserRepositorySuite) TestUserRepository_Update() {
	user := s.createUser("test@example.com")

	user.DisplayName = "Updated Name"
	user.FailedLoginAttempts = 2
	err := s.repo.Update(user)
	s.NoError(err)

	updatedUser, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal("Updated Name", updatedUser.DisplayName)
	s.Equal(2, updatedUser.FailedLoginAttempts)
}

func (s *UserRepositorySuite) TestUserRepository_UpdateFields() {
	user := s.createUser("fields@example.com")

	err := s.repo.UpdateFields(user.ID, map[string]interface{}{
		"display_name": "Renamed",
	})
	s.NoError(err)

	updated, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal("Renamed", updated.DisplayName)
}

func (s *UserRepositorySuite) TestUserRepository_FailedLoginAttempts() {
	user := s.createUser("locked@example.com")

	user.FailedLoginAttempts = models.MaxFailedLoginAttempts
	user.Lock()
	err := s.repo.UpdateFailedLoginAttempts(user)
	s.NoError(err)

	lockedUser, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal(models.MaxFailedLoginAttempts, lockedUser.FailedLoginAttempts)
	s.NotNil(lockedUser.LockedAt)

	err = s.repo.ResetFailedLoginAttempts(user.ID)
	s.NoError(err)

	unlockedUser, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal(0, unlockedUser.FailedLoginAttempts)
	s.Nil(unlockedUser.LockedAt)
}

func (s *UserRepositorySuite) TestUserRepository_ListUsers() {
	for i := 0; i < 5; i++ {
		s.createUser(fmt.Sprintf("user%d@example.com", i))
	}

	users, total, err := s.repo.ListUsers(0, 3)
	s.NoError(err)
	s.Equal(int64(5), total)
	s.Len(users, 3)

	users, total, err = s.repo.ListUsers(3, 3)
	s.NoError(err)
	s.Equal(int64(5), total)
	s.Len(users, 2)
}

func (s *UserRepositorySuite) TestUserRepository_GetByIDActive() {
	user := s.createUser("active@example.com")

	foundUser, err := s.repo.GetByIDActive(user.ID)
	s.NoError(err)
	s.Equal(user.ID, foundUser.ID)
	s.Equal(user.Email, foundUser.Email)

	// Soft delete directly, full deletion is not part of the repository contract
	err = s.db.Delete(user).Error
	s.NoError(err)

	_, err = s.repo.GetByIDActive(user.ID)
	s.Equal(ErrUserNotFound, err)

	// GetByID still resolves the deactivated member
	deleted, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal(user.ID, deleted.ID)

	_, err = s.repo.GetByIDActive(uuid.New())
	s.Equal(ErrUserNotFound, err)
}

func (s *UserRepositorySuite) TestUserRepository_UpdatePasswordHash() {
	user := s.createUser("password@example.com")

	newHash := "new_hash_value"
	err := s.repo.UpdatePasswordHash(user.ID, newHash)
	s.NoError(err)

	updatedUser, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal(newHash, updatedUser.PasswordHash)

	err = s.repo.UpdatePasswordHash(uuid.Nil, "hash")
	s.Error(err)
	s.Contains(err.Error(), "user ID cannot be nil")

	err = s.repo.UpdatePasswordHash(user.ID, "")
	s.Error(err)
	s.Contains(err.Error(), "password hash cannot be empty")

	err = s.repo.UpdatePasswordHash(uuid.New(), "new_hash")
	s.Equal(ErrUserNotFound, err)
}
