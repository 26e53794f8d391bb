package vehicletyperepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gotire/internal/domain"
	"gotire/internal/errors"
)

// VehicleTypeRepository persiste os tipos de veículo no PostgreSQL.
type VehicleTypeRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewVehicleTypeRepository cria e retorna uma nova instância do Repositório.
func NewVehicleTypeRepository(db *sql.DB, dbTimeout time.Duration) *VehicleTypeRepository {
	return &VehicleTypeRepository{
		DB:        db,
		DBTimeout: dbTimeout,
	}
}

// Save persiste um novo tipo de veículo.
func (r *VehicleTypeRepository) Save(ctx context.Context, vt domain.VehicleType) (domain.VehicleType, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `INSERT INTO vehicle_types (id, name, active, created_at)
	               VALUES ($1, $2, $3, $4)`

	_, err := r.DB.ExecContext(ctxTimeout, query, vt.ID, vt.Name, vt.Active, vt.CreatedAt)
	if err != nil {
		return domain.VehicleType{}, errors.NewDBError("Falha ao inserir tipo de veículo", err)
	}

	return vt, nil
}

// FindByID busca um tipo de veículo pelo ID.
func (r *VehicleTypeRepository) FindByID(ctx context.Context, id string) (domain.VehicleType, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, name, active, created_at FROM vehicle_types WHERE id = $1`

	var vt domain.VehicleType
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&vt.ID, &vt.Name, &vt.Active, &vt.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return domain.VehicleType{}, errors.NewNotFoundError(fmt.Sprintf("Tipo de veículo com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		return domain.VehicleType{}, errors.NewDBError("Falha ao buscar tipo de veículo no DB", err)
	}

	return vt, nil
}

// FindAll retorna todos os tipos de veículo, mais recentes primeiro.
func (r *VehicleTypeRepository) FindAll(ctx context.Context) ([]domain.VehicleType, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, name, active, created_at FROM vehicle_types ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar tipos de veículo", err)
	}
	defer rows.Close()

	types := make([]domain.VehicleType, 0)
	for rows.Next() {
		var vt domain.VehicleType
		if err := rows.Scan(&vt.ID, &vt.Name, &vt.Active, &vt.CreatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear tipo de veículo", err)
		}
		types = append(types, vt)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar tipos de veículo", err)
	}

	return types, nil
}

// Update altera nome e situação de um tipo de veículo existente.
func (r *VehicleTypeRepository) Update(ctx context.Context, vt domain.VehicleType) (domain.VehicleType, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE vehicle_types SET name = $1, active = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(ctxTimeout, query, vt.Name, vt.Active, vt.ID)
	if err != nil {
		return domain.VehicleType{}, errors.NewDBError("Falha ao atualizar tipo de veículo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.VehicleType{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.VehicleType{}, errors.NewNotFoundError(fmt.Sprintf("Tipo de veículo com ID %s não existe na base de dados.", vt.ID))
	}

	return vt, nil
}

// Delete remove um tipo de veículo.
func (r *VehicleTypeRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `DELETE FROM vehicle_types WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, query, id)
	if err != nil {
		return errors.NewDBError("Falha ao remover tipo de veículo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Tipo de veículo com ID %s não existe na base de dados.", id))
	}

	return nil
}
