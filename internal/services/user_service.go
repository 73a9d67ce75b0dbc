package services

import (
	"database/sql"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskadder/taskadder-be/internal/apperr"
	"github.com/taskadder/taskadder-be/internal/models"
)

// MinPasswordLength is the minimum accepted password length on
// registration.
const MinPasswordLength = 6

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides credential handling and user lookup.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeEmail lower-cases and trims an email address. All stored
// emails pass through here, so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) apperr.FieldErrors {
	fieldErrs := apperr.FieldErrors{}
	if _, err := mail.ParseAddress(email); err != nil {
		fieldErrs.Add("email", "Please enter a valid email")
	}
	if len(password) < MinPasswordLength {
		fieldErrs.Add("password", fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	return fieldErrs
}

// Register validates the credentials, hashes the password, and persists a
// new user. The insert is synchronous; once Register returns, the record
// is durable.
func (s *UserService) Register(email, password string) (models.User, error) {
	email = NormalizeEmail(email)

	if fieldErrs := validateCredentials(email, password); fieldErrs.Any() {
		return models.User{}, fieldErrs
	}

	if _, err := s.GetUserByEmail(email); err == nil {
		return models.User{}, apperr.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, email, password_hash, created_at) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		// The UNIQUE index is the backstop for two racing registrations.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, apperr.ErrDuplicateEmail
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their normalized email,
// including the password hash.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, password_hash, created_at FROM users WHERE email = ?", NormalizeEmail(email))
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate verifies a user's credentials. Unknown emails and wrong
// passwords both come back as ErrInvalidCredentials.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, apperr.ErrInvalidCredentials
	}

	// bcrypt's comparison is constant time.
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, apperr.ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
