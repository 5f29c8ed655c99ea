package store

import (
	"database/sql"

	"github.com/cuddles47/electroshop/internal/models"
)

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT id, email, password, role FROM users WHERE LOWER(email) = LOWER(?)`
	row := s.DB.QueryRow(query, email)

	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Password, &user.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByID(id string) (*models.User, error) {
	query := `SELECT id, email, password, role FROM users WHERE id = ?`
	row := s.DB.QueryRow(query, id)

	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Password, &user.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(user *models.User) error {
	query := `INSERT INTO users (id, email, password, role) VALUES (?, ?, ?, ?)`
	_, err := s.DB.Exec(query, user.ID, user.Email, user.Password, user.Role)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}
