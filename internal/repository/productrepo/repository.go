package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gotire/internal/domain"
	"gotire/internal/errors"
	"gotire/internal/pkg/cache"
)

// Chave de cache para leituras individuais de produto.
const productCacheKey = "product:%s"

// ProductRepository persiste o catálogo de pneus no PostgreSQL,
// com cache-aside no Redis para leituras por ID.
type ProductRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
	}
}

// productColumns são as colunas do SELECT com as referências resolvidas.
// LEFT JOIN porque marca/tipo podem ter sido removidos do cadastro.
const productColumns = `
	p.id, p.size, p.brand_id, p.vehicle_type_id, p.pattern, p.pr, p.price,
	p.barcode, p.remarks, p.status, p.stock_level, p.sub_stock_level, p.created_at,
	b.id, b.name, b.active, b.created_at,
	v.id, v.name, v.active, v.created_at`

const productJoins = `
	FROM products p
	LEFT JOIN brands b ON b.id = p.brand_id
	LEFT JOIN vehicle_types v ON v.id = p.vehicle_type_id`

// scanProduct mapeia uma linha (produto + joins) para a struct de domínio.
func scanProduct(scanner interface{ Scan(...interface{}) error }) (domain.Product, error) {
	var p domain.Product
	var brandID, brandName sql.NullString
	var brandActive sql.NullBool
	var brandCreatedAt sql.NullTime
	var vtID, vtName sql.NullString
	var vtActive sql.NullBool
	var vtCreatedAt sql.NullTime

	err := scanner.Scan(
		&p.ID, &p.Size, &p.BrandID, &p.VehicleTypeID, &p.Pattern, &p.PR, &p.Price,
		&p.Barcode, &p.Remarks, &p.Status, &p.StockLevel, &p.SubStockLevel, &p.CreatedAt,
		&brandID, &brandName, &brandActive, &brandCreatedAt,
		&vtID, &vtName, &vtActive, &vtCreatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	if brandID.Valid {
		p.Brand = &domain.Brand{
			ID:        brandID.String,
			Name:      brandName.String,
			Active:    brandActive.Bool,
			CreatedAt: brandCreatedAt.Time,
		}
	}
	if vtID.Valid {
		p.VehicleType = &domain.VehicleType{
			ID:        vtID.String,
			Name:      vtName.String,
			Active:    vtActive.Bool,
			CreatedAt: vtCreatedAt.Time,
		}
	}

	return p, nil
}

// Save persiste um novo produto com os contadores de estoque zerados.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `INSERT INTO products
	               (id, size, brand_id, vehicle_type_id, pattern, pr, price, barcode, remarks, status, stock_level, sub_stock_level, created_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		product.ID,
		product.Size,
		product.BrandID,
		product.VehicleTypeID,
		product.Pattern,
		product.PR,
		product.Price,
		product.Barcode,
		product.Remarks,
		product.Status,
		product.StockLevel,
		product.SubStockLevel,
		product.CreatedAt,
	)
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao inserir produto", err)
	}

	return product, nil
}

// FindByID busca um produto pelo ID, utilizando a estratégia Cache-Aside.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)
	var product domain.Product

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		if json.Unmarshal([]byte(cachedData), &product) == nil {
			return product, nil
		}
		// Desserialização falhou: segue para o DB e o Set abaixo regrava a chave.
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	query := `SELECT ` + productColumns + productJoins + ` WHERE p.id = $1`

	product, err = scanProduct(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao buscar produto no DB", err)
	}

	// 3. Popular o cache para futuras requisições.
	if productJSON, marshalErr := json.Marshal(product); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, productJSON, r.CacheTTL)
	}

	return product, nil
}

// FindByBarcode busca um produto pelo código de barras (leitor do balcão).
func (r *ProductRepository) FindByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + productColumns + productJoins + ` WHERE p.barcode = $1`

	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query, barcode))
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com barcode %s não existe na base de dados.", barcode))
	}
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao buscar produto por barcode", err)
	}

	return product, nil
}

// FindAll retorna uma página do catálogo com o total de registros do filtro.
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var where strings.Builder
	where.WriteString(" WHERE 1=1")

	args := make([]interface{}, 0, 3)
	if filter.Size != "" {
		args = append(args, "%"+filter.Size+"%")
		where.WriteString(" AND p.size ILIKE $" + strconv.Itoa(len(args)))
	}
	if filter.BrandID != "" {
		args = append(args, filter.BrandID)
		where.WriteString(" AND p.brand_id = $" + strconv.Itoa(len(args)))
	}
	if filter.VehicleType != "" {
		args = append(args, filter.VehicleType)
		where.WriteString(" AND p.vehicle_type_id = $" + strconv.Itoa(len(args)))
	}

	// Total antes da paginação (o frontend monta o paginador com ele).
	countQuery := `SELECT COUNT(*) FROM products p` + where.String()
	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewDBError("Falha ao contar produtos", err)
	}

	query := `SELECT ` + productColumns + productJoins + where.String() + ` ORDER BY p.created_at DESC`
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.PageSize)
		query += " LIMIT $" + strconv.Itoa(len(args))
		args = append(args, (page-1)*filter.PageSize)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, 0, errors.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, errors.NewDBError("Falha ao mapear produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewDBError("Falha ao iterar produtos", err)
	}

	return products, total, nil
}

// Search busca produtos por termo livre sobre medida, desenho e barcode.
func (r *ProductRepository) Search(ctx context.Context, term string) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + productColumns + productJoins + `
	          WHERE p.size ILIKE $1 OR p.pattern ILIKE $1 OR p.barcode ILIKE $1
	          ORDER BY p.size ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, "%"+term+"%")
	if err != nil {
		return nil, errors.NewDBError("Falha ao pesquisar produtos", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar produtos", err)
	}

	return products, nil
}

// FindLowStock lista os produtos com o contador do pool informado abaixo do limite.
func (r *ProductRepository) FindLowStock(ctx context.Context, pool domain.StockPool, threshold int) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	column := "p.stock_level"
	if pool == domain.ShopPool {
		column = "p.sub_stock_level"
	}

	query := `SELECT ` + productColumns + productJoins + `
	          WHERE ` + column + ` < $1
	          ORDER BY ` + column + ` ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, threshold)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar produtos com estoque baixo", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar produtos", err)
	}

	return products, nil
}

// Update altera os dados cadastrais de um produto. Os contadores de estoque
// não passam por aqui (ver stockrepo). Invalida a entrada de cache do produto.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE products
	               SET size = $1, brand_id = $2, vehicle_type_id = $3, pattern = $4,
	                   pr = $5, price = $6, barcode = $7, remarks = $8, status = $9
	               WHERE id = $10`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		product.Size,
		product.BrandID,
		product.VehicleTypeID,
		product.Pattern,
		product.PR,
		product.Price,
		product.Barcode,
		product.Remarks,
		product.Status,
		product.ID,
	)
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao atualizar produto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", product.ID))
	}

	r.Cache.Delete(ctxTimeout, fmt.Sprintf(productCacheKey, product.ID))

	return product, nil
}

// Delete remove um produto e invalida sua entrada de cache.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `DELETE FROM products WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, query, id)
	if err != nil {
		return errors.NewDBError("Falha ao remover produto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}

	r.Cache.Delete(ctxTimeout, fmt.Sprintf(productCacheKey, id))

	return nil
}
