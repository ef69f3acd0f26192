package services

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/solervi/homehaven-be/internal/apperr"
	"github.com/solervi/homehaven-be/internal/models"
)

// UserServiceProvider defines the interface for user and authentication services.
type UserServiceProvider interface {
	SignUp(username, email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	FederatedSignIn(name, email, photoURL string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	UpdateUser(id string, patch models.UserPatch) (models.User, error)
	DeleteUser(id string) error
}

// UserService provides business logic for accounts and credentials.
type UserService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, events EventServiceProvider) *UserService {
	return &UserService{db: db, events: events}
}

const userColumns = "id, username, email, password_hash, avatar, created_at, updated_at"

func scanUser(scanner interface{ Scan(...any) error }) (models.User, error) {
	var user models.User
	err := scanner.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Avatar, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// SignUp hashes the password and persists a new user. Duplicate usernames or
// emails fail with Conflict.
func (s *UserService) SignUp(username, email, password string) (models.User, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, apperr.BadRequest("username, email and password are required")
	}

	if err := s.checkUnique(username, email, ""); err != nil {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Avatar:       models.DefaultAvatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.insertUser(user); err != nil {
		return models.User{}, err
	}

	s.recordEvent("user.signup", "User "+user.Username+" signed up", nil)

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. An unknown email fails NotFound,
// a wrong password fails Unauthorized.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User not found!")
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperr.Unauthorized("Wrong credentials!")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// FederatedSignIn signs in a user by a trusted identity-provider claim. A new
// account is synthesized on first sign-in: the username is derived from the
// display name plus a random suffix and the password is random, since the
// user only ever authenticates through the provider.
func (s *UserService) FederatedSignIn(name, email, photoURL string) (models.User, error) {
	if email == "" {
		return models.User{}, apperr.BadRequest("email is required")
	}

	user, err := s.getUserByEmail(email)
	if err == nil {
		user.PasswordHash = ""
		return user, nil
	}
	if err != sql.ErrNoRows {
		return models.User{}, err
	}

	generatedPassword, err := randomString(16)
	if err != nil {
		return models.User{}, err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(generatedPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix, err := randomString(4)
	if err != nil {
		return models.User{}, err
	}

	avatar := photoURL
	if avatar == "" {
		avatar = models.DefaultAvatar
	}

	now := time.Now().UTC()
	user = models.User{
		ID:           uuid.New().String(),
		Username:     strings.ToLower(strings.ReplaceAll(name, " ", "")) + suffix,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Avatar:       avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.insertUser(user); err != nil {
		return models.User{}, err
	}

	s.recordEvent("user.signup.federated", "User "+user.Username+" signed up via provider", nil)

	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID, with the hash stripped.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User not found!")
		}
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateUser applies a profile patch. Only fields present in the patch change;
// a new password is rehashed before it is stored.
func (s *UserService) UpdateUser(id string, patch models.UserPatch) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User not found!")
		}
		return models.User{}, err
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	if patch.Password != nil && *patch.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.checkUnique(user.Username, user.Email, id); err != nil {
		return models.User{}, err
	}

	_, err = s.db.Exec(
		"UPDATE users SET username = ?, email = ?, password_hash = ?, avatar = ?, updated_at = ? WHERE id = ?",
		user.Username, user.Email, user.PasswordHash, user.Avatar, user.UpdatedAt, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperr.Conflict("Username or email already taken")
		}
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// DeleteUser removes a user account.
func (s *UserService) DeleteUser(id string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("User not found!")
	}
	return nil
}

// insertUser persists a new account, mapping constraint violations to
// Conflict so races past the uniqueness pre-check still surface as 409.
func (s *UserService) insertUser(user models.User) error {
	_, err := s.db.Exec(
		"INSERT INTO users(id, username, email, password_hash, avatar, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash, user.Avatar, user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("Username or email already taken")
	}
	return err
}

// recordEvent writes an activity event. Event persistence is best-effort and
// never fails the operation that triggered it.
func (s *UserService) recordEvent(eventType, message string, listingID *string) {
	if err := s.events.CreateEvent(eventType, "info", message, listingID); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to record activity event")
	}
}

func (s *UserService) getUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// checkUnique fails with Conflict when another user already holds the given
// username or email. excludeID skips the user being updated.
func (s *UserService) checkUnique(username, email, excludeID string) error {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM users WHERE (username = ? OR email = ?) AND id != ?",
		username, email, excludeID,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("Username or email already taken")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const randomAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomString(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = randomAlphabet[idx.Int64()]
	}
	return string(b), nil
}
