package userrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gotire/internal/domain"
	"gotire/internal/errors"
)

// UserRepository implementa a interface domain.UserRepository sobre o PostgreSQL.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewUserRepository cria e retorna uma nova instância do Repositório de Usuários.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
	}
}

// Save persiste um novo operador. E-mail duplicado vira ConflictError
// (violação da unique constraint do Postgres, código 23505).
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
	               VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.User{}, errors.NewConflictError(fmt.Sprintf("E-mail %s já cadastrado.", user.Email))
		}
		return domain.User{}, errors.NewDBError("Falha ao inserir usuário", err)
	}

	return user, nil
}

// FindByEmail busca um operador pelo e-mail (login).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, email, password_hash, role, created_at, updated_at
	               FROM users WHERE email = $1`

	var user domain.User
	err := r.DB.QueryRowContext(ctxTimeout, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return domain.User{}, errors.NewNotFoundError(fmt.Sprintf("Usuário com e-mail %s não existe na base de dados.", email))
	}
	if err != nil {
		return domain.User{}, errors.NewDBError("Falha ao buscar usuário no DB", err)
	}

	return user, nil
}
