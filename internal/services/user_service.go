package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dferrans/itemstash-be/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	CreateUser(username, email, password string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	ListUsers(role string) ([]models.User, error)
	UpdateUserRole(id string, role models.Role, actorID string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, events EventServiceProvider) *UserService {
	return &UserService{db: db, events: events}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, role, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, role, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user with the default role, hashing their password.
func (s *UserService) CreateUser(username, email, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		Role:         models.RoleUser,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, role, password_hash) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.Email, user.Role, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}

	s.recordEvent("user.register", user.ID, fmt.Sprintf("User %q registered", user.Username))

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: user not found")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// ListUsers retrieves all users, optionally filtered by an exact role value.
// The password hash is never selected.
func (s *UserService) ListUsers(role string) ([]models.User, error) {
	query := "SELECT id, username, email, role, created_at FROM users"
	args := []interface{}{}
	if role != "" {
		query += " WHERE role = ?"
		args = append(args, role)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUserRole sets a user's role after validating it against the closed
// role set. Nothing is written when the role is invalid. actorID identifies
// the administrator making the change for the activity feed.
func (s *UserService) UpdateUserRole(id string, role models.Role, actorID string) (models.User, error) {
	if !role.Valid() {
		return models.User{}, models.ErrInvalidRole
	}

	res, err := s.db.Exec("UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return models.User{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.User{}, err
	} else if n == 0 {
		return models.User{}, models.ErrNotFound
	}

	s.recordEvent("user.role_change", actorID, fmt.Sprintf("Role of user %s changed to %s", id, role))
	return s.GetUserByID(id)
}

func (s *UserService) recordEvent(eventType, actorID, message string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(eventType, "info", message, &actorID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record activity event")
	}
}
