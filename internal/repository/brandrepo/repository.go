package brandrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gotire/internal/domain"
	"gotire/internal/errors"
)

// BrandRepository persiste as marcas de pneu no PostgreSQL.
type BrandRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewBrandRepository cria e retorna uma nova instância do Repositório de Marcas.
func NewBrandRepository(db *sql.DB, dbTimeout time.Duration) *BrandRepository {
	return &BrandRepository{
		DB:        db,
		DBTimeout: dbTimeout,
	}
}

// Save persiste uma nova marca.
func (r *BrandRepository) Save(ctx context.Context, brand domain.Brand) (domain.Brand, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `INSERT INTO brands (id, name, active, created_at)
	               VALUES ($1, $2, $3, $4)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		brand.ID,
		brand.Name,
		brand.Active,
		brand.CreatedAt,
	)
	if err != nil {
		return domain.Brand{}, errors.NewDBError("Falha ao inserir marca", err)
	}

	return brand, nil
}

// FindByID busca uma marca pelo ID.
func (r *BrandRepository) FindByID(ctx context.Context, id string) (domain.Brand, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, name, active, created_at FROM brands WHERE id = $1`

	var brand domain.Brand
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&brand.ID, &brand.Name, &brand.Active, &brand.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return domain.Brand{}, errors.NewNotFoundError(fmt.Sprintf("Marca com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		return domain.Brand{}, errors.NewDBError("Falha ao buscar marca no DB", err)
	}

	return brand, nil
}

// FindAll retorna todas as marcas, mais recentes primeiro.
func (r *BrandRepository) FindAll(ctx context.Context) ([]domain.Brand, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, name, active, created_at FROM brands ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar marcas", err)
	}
	defer rows.Close()

	brands := make([]domain.Brand, 0)
	for rows.Next() {
		var brand domain.Brand
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.Active, &brand.CreatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear marca", err)
		}
		brands = append(brands, brand)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar marcas", err)
	}

	return brands, nil
}

// Update altera nome e situação de uma marca existente.
func (r *BrandRepository) Update(ctx context.Context, brand domain.Brand) (domain.Brand, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE brands SET name = $1, active = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(ctxTimeout, query, brand.Name, brand.Active, brand.ID)
	if err != nil {
		return domain.Brand{}, errors.NewDBError("Falha ao atualizar marca", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Brand{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Brand{}, errors.NewNotFoundError(fmt.Sprintf("Marca com ID %s não existe na base de dados.", brand.ID))
	}

	return brand, nil
}

// Delete remove uma marca.
func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `DELETE FROM brands WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, query, id)
	if err != nil {
		return errors.NewDBError("Falha ao remover marca", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Marca com ID %s não existe na base de dados.", id))
	}

	return nil
}
