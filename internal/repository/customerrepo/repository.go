package customerrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gotire/internal/domain"
	"gotire/internal/errors"
)

// CustomerRepository persiste os clientes da loja no PostgreSQL.
type CustomerRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewCustomerRepository cria e retorna uma nova instância do Repositório de Clientes.
func NewCustomerRepository(db *sql.DB, dbTimeout time.Duration) *CustomerRepository {
	return &CustomerRepository{
		DB:        db,
		DBTimeout: dbTimeout,
	}
}

// Save persiste um novo cliente.
func (r *CustomerRepository) Save(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `INSERT INTO customers (id, name, phone_number, vehicle_number, address, active, created_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		customer.ID,
		customer.Name,
		customer.PhoneNumber,
		customer.VehicleNumber,
		customer.Address,
		customer.Active,
		customer.CreatedAt,
	)
	if err != nil {
		return domain.Customer{}, errors.NewDBError("Falha ao inserir cliente", err)
	}

	return customer, nil
}

// FindByID busca um cliente pelo ID.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, name, phone_number, vehicle_number, address, active, created_at
	               FROM customers WHERE id = $1`

	var c domain.Customer
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&c.ID, &c.Name, &c.PhoneNumber, &c.VehicleNumber, &c.Address, &c.Active, &c.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return domain.Customer{}, errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		return domain.Customer{}, errors.NewDBError("Falha ao buscar cliente no DB", err)
	}

	return c, nil
}

// FindAll retorna os clientes que atendem ao filtro. Os campos do filtro são
// combinados com AND; a busca é parcial e case-insensitive (ILIKE).
func (r *CustomerRepository) FindAll(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var sb strings.Builder
	sb.WriteString(`SELECT id, name, phone_number, vehicle_number, address, active, created_at
	                FROM customers WHERE 1=1`)

	args := make([]interface{}, 0, 3)
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		sb.WriteString(" AND name ILIKE $" + strconv.Itoa(len(args)))
	}
	if filter.PhoneNumber != "" {
		args = append(args, "%"+filter.PhoneNumber+"%")
		sb.WriteString(" AND phone_number ILIKE $" + strconv.Itoa(len(args)))
	}
	if filter.Address != "" {
		args = append(args, "%"+filter.Address+"%")
		sb.WriteString(" AND address ILIKE $" + strconv.Itoa(len(args)))
	}
	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.DB.QueryContext(ctxTimeout, sb.String(), args...)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar clientes", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.PhoneNumber, &c.VehicleNumber, &c.Address, &c.Active, &c.CreatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear cliente", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar clientes", err)
	}

	return customers, nil
}

// Update altera os dados cadastrais de um cliente existente.
func (r *CustomerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE customers
	               SET name = $1, phone_number = $2, vehicle_number = $3, address = $4, active = $5
	               WHERE id = $6`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		customer.Name,
		customer.PhoneNumber,
		customer.VehicleNumber,
		customer.Address,
		customer.Active,
		customer.ID,
	)
	if err != nil {
		return domain.Customer{}, errors.NewDBError("Falha ao atualizar cliente", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Customer{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Customer{}, errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não existe na base de dados.", customer.ID))
	}

	return customer, nil
}

// Delete remove um cliente.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `DELETE FROM customers WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, query, id)
	if err != nil {
		return errors.NewDBError("Falha ao remover cliente", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não existe na base de dados.", id))
	}

	return nil
}
