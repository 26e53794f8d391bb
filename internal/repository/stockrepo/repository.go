package stockrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gotire/internal/domain"
	"gotire/internal/errors"
	"gotire/internal/pkg/cache"
	"gotire/internal/pkg/logger"
)

// StockRepository aplica as mutações do ledger de estoque (armazém e loja).
//
// Todas as escritas são UPDATEs condicionais de instrução única: a checagem
// de disponibilidade e o decremento acontecem na mesma instrução SQL, então
// duas transferências concorrentes nunca leem o mesmo saldo desatualizado.
type StockRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Colunas do produto retornadas após a mutação (sem joins; o caller já tem
// as referências ou não precisa delas na resposta de estoque).
const returningColumns = `
	RETURNING id, size, brand_id, vehicle_type_id, pattern, pr, price,
	          barcode, remarks, status, stock_level, sub_stock_level, created_at`

func scanProduct(row *sql.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Size, &p.BrandID, &p.VehicleTypeID, &p.Pattern, &p.PR, &p.Price,
		&p.Barcode, &p.Remarks, &p.Status, &p.StockLevel, &p.SubStockLevel, &p.CreatedAt,
	)
	return p, err
}

// IncreaseStock adiciona quantidade ao estoque do armazém (stock_level).
func (r *StockRepository) IncreaseStock(ctx context.Context, productID string, quantity int) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE products
	               SET stock_level = stock_level + $1
	               WHERE id = $2` + returningColumns

	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query, quantity, productID))
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", productID))
	}
	if err != nil {
		r.logger.Error("Falha ao repor estoque do armazém.", err)
		return domain.Product{}, errors.NewDBError("Falha ao repor estoque", err)
	}

	r.invalidate(ctxTimeout, productID)
	r.logger.Info("Estoque do armazém reposto.", map[string]interface{}{
		"product_id":  productID,
		"quantity":    quantity,
		"stock_level": product.StockLevel,
	})
	return product, nil
}

// TransferStock move quantidade do armazém (stock_level) para a loja
// (sub_stock_level).
//
// No modo padrão a transferência exige stock_level >= quantity; a condição
// vive no WHERE, então a checagem é atômica com o decremento. No modo de
// compatibilidade (comportamento do sistema legado) basta stock_level > 0,
// e o armazém pode ficar negativo.
func (r *StockRepository) TransferStock(ctx context.Context, productID string, quantity int, compatMode bool) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `UPDATE products
	          SET stock_level = stock_level - $1,
	              sub_stock_level = sub_stock_level + $1
	          WHERE id = $2 AND stock_level >= $1` + returningColumns
	if compatMode {
		query = `UPDATE products
		         SET stock_level = stock_level - $1,
		             sub_stock_level = sub_stock_level + $1
		         WHERE id = $2 AND stock_level > 0` + returningColumns
	}

	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query, quantity, productID))
	if err == sql.ErrNoRows {
		// Zero linhas: ou o produto não existe, ou a condição de saldo falhou.
		// Distinguimos com uma leitura simples para devolver o erro certo.
		return domain.Product{}, r.classifyTransferFailure(ctxTimeout, productID, quantity)
	}
	if err != nil {
		r.logger.Error("Falha ao transferir estoque para a loja.", err)
		return domain.Product{}, errors.NewDBError("Falha ao transferir estoque", err)
	}

	r.invalidate(ctxTimeout, productID)
	r.logger.Info("Estoque transferido para a loja.", map[string]interface{}{
		"product_id":      productID,
		"quantity":        quantity,
		"stock_level":     product.StockLevel,
		"sub_stock_level": product.SubStockLevel,
	})
	return product, nil
}

// classifyTransferFailure decide entre 404 (produto inexistente) e estoque
// insuficiente quando o UPDATE condicional não afetou nenhuma linha.
func (r *StockRepository) classifyTransferFailure(ctx context.Context, productID string, quantity int) error {
	var stockLevel int
	err := r.DB.QueryRowContext(ctx, `SELECT stock_level FROM products WHERE id = $1`, productID).Scan(&stockLevel)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", productID))
	}
	if err != nil {
		return errors.NewDBError("Falha ao verificar estoque do produto", err)
	}

	r.logger.Warn("Transferência recusada por saldo insuficiente no armazém.", map[string]interface{}{
		"product_id":  productID,
		"quantity":    quantity,
		"stock_level": stockLevel,
	})
	return errors.NewInsufficientStockError(
		fmt.Sprintf("armazém possui %d unidade(s), transferência de %d recusada.", stockLevel, quantity))
}

// invalidate remove a entrada de cache do produto após uma mutação de estoque.
func (r *StockRepository) invalidate(ctx context.Context, productID string) {
	r.Cache.Delete(ctx, fmt.Sprintf("product:%s", productID))
}
