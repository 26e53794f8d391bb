package transactionrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"gotire/internal/domain"
	"gotire/internal/errors"
	"gotire/internal/pkg/cache"
	"gotire/internal/pkg/logger"
)

// TransactionRepository persiste as vendas (cabeçalho + itens) e aplica os
// efeitos de estoque da venda na mesma transação de banco de dados.
type TransactionRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTransactionRepository cria e retorna uma nova instância do Repositório de Vendas.
func NewTransactionRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *TransactionRepository {
	return &TransactionRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// --- Numeração de recibo (customId) ---

// NextCustomIDNumber consome o próximo valor da sequência de recibos.
// A sequência é do PostgreSQL, então dois caixas concorrentes nunca
// recebem o mesmo número — e números consumidos não são reutilizados,
// mesmo que a venda seja abortada.
func (r *TransactionRepository) NextCustomIDNumber(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var n int64
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT nextval('transactions_custom_id_seq')`).Scan(&n)
	if err != nil {
		return 0, errors.NewDBError("Falha ao obter próximo número de recibo", err)
	}
	return n, nil
}

// LatestCustomID retorna o maior customId já persistido ("" se não houver).
// Acima de MOH99999 o número alarga, então a ordenação lexicográfica deixa
// de coincidir com a numérica; ordenar por comprimento primeiro mantém a
// comparação numérica.
func (r *TransactionRepository) LatestCustomID(ctx context.Context) (string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var customID string
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT custom_id FROM transactions ORDER BY length(custom_id) DESC, custom_id DESC LIMIT 1`).Scan(&customID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.NewDBError("Falha ao buscar último número de recibo", err)
	}
	return customID, nil
}

// AdvanceCustomIDSequence avança a sequência de recibos até n (o próximo
// nextval retorna n+1). Usado na subida para realinhar a sequência com os
// dados já existentes.
//
// Nunca retrocede: se a sequência já passou de n — caso da exclusão da
// venda mais recente seguida de restart — ela fica onde está, para que
// nenhum número de recibo seja reemitido.
func (r *TransactionRepository) AdvanceCustomIDSequence(ctx context.Context, n int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout,
		`SELECT setval('transactions_custom_id_seq', GREATEST($1::bigint, last_value))
		   FROM transactions_custom_id_seq`, n)
	if err != nil {
		return errors.NewDBError("Falha ao avançar sequência de recibos", err)
	}
	return nil
}

// --- Escrita (cabeçalho + itens + estoque na mesma transação) ---

// Create persiste uma venda nova e aplica seus efeitos de estoque de loja.
// Tudo-ou-nada: se qualquer item referenciar um produto inexistente, o
// rollback desfaz o cabeçalho, os itens e os decrementos já aplicados.
func (r *TransactionRepository) Create(ctx context.Context, txn domain.Transaction, deltas []domain.StockDelta) (domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	const headerSQL = `INSERT INTO transactions
	                   (id, custom_id, total_amount, recieved_amount, additional_amount, discount, changefee,
	                    payment_method, cheque_no, cheque_due_date, customer_id, is_suspended, is_completed, transaction_date)
	                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = tx.ExecContext(ctxTimeout, headerSQL,
		txn.ID,
		txn.CustomID,
		txn.TotalAmount,
		txn.RecievedAmount,
		txn.AdditionalAmount,
		txn.Discount,
		txn.Changefee,
		txn.PaymentMethod,
		txn.ChequeNo,
		txn.ChequeDueDate,
		nullableID(txn.CustomerID),
		txn.IsSuspended,
		txn.IsCompleted,
		txn.TransactionDate,
	)
	if err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao inserir venda", err)
	}

	if err := r.insertLines(ctxTimeout, tx, txn.ID, txn.Products); err != nil {
		return domain.Transaction{}, err
	}

	if err := r.applyDeltas(ctxTimeout, tx, deltas); err != nil {
		return domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao commitar venda", err)
	}

	r.invalidateProducts(ctxTimeout, deltas)
	r.logger.Info("Venda persistida.", map[string]interface{}{
		"transaction_id": txn.ID,
		"custom_id":      txn.CustomID,
		"is_suspended":   txn.IsSuspended,
		"total_amount":   txn.TotalAmount,
	})
	return txn, nil
}

// Update regrava uma venda existente (cabeçalho + itens substituídos por
// inteiro) e aplica apenas os deltas de estoque informados, na mesma
// transação de banco de dados.
func (r *TransactionRepository) Update(ctx context.Context, txn domain.Transaction, deltas []domain.StockDelta) (domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	const headerSQL = `UPDATE transactions
	                   SET total_amount = $1, recieved_amount = $2, additional_amount = $3, discount = $4,
	                       changefee = $5, payment_method = $6, cheque_no = $7, cheque_due_date = $8,
	                       customer_id = $9, is_suspended = $10, is_completed = $11
	                   WHERE id = $12`

	result, err := tx.ExecContext(ctxTimeout, headerSQL,
		txn.TotalAmount,
		txn.RecievedAmount,
		txn.AdditionalAmount,
		txn.Discount,
		txn.Changefee,
		txn.PaymentMethod,
		txn.ChequeNo,
		txn.ChequeDueDate,
		nullableID(txn.CustomerID),
		txn.IsSuspended,
		txn.IsCompleted,
		txn.ID,
	)
	if err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao atualizar venda", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Transaction{}, errors.NewNotFoundError(fmt.Sprintf("Venda com ID %s não existe na base de dados.", txn.ID))
	}

	// Itens são substituídos por inteiro: a nova lista é a verdade.
	if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM transaction_lines WHERE transaction_id = $1`, txn.ID); err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao remover itens antigos da venda", err)
	}

	if err := r.insertLines(ctxTimeout, tx, txn.ID, txn.Products); err != nil {
		return domain.Transaction{}, err
	}

	if err := r.applyDeltas(ctxTimeout, tx, deltas); err != nil {
		return domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao commitar atualização da venda", err)
	}

	r.invalidateProducts(ctxTimeout, deltas)
	r.logger.Info("Venda atualizada.", map[string]interface{}{
		"transaction_id": txn.ID,
		"custom_id":      txn.CustomID,
		"is_suspended":   txn.IsSuspended,
	})
	return txn, nil
}

// insertLines grava os itens da venda. Violação da FK de produto (código
// 23503 do Postgres) vira NotFoundError: o rollback desfaz a venda inteira.
func (r *TransactionRepository) insertLines(ctx context.Context, tx *sql.Tx, transactionID string, lines []domain.TransactionLine) error {
	const lineSQL = `INSERT INTO transaction_lines (transaction_id, product_id, quantity_sold, price, amount)
	                 VALUES ($1, $2, $3, $4, $5)`

	for _, line := range lines {
		_, err := tx.ExecContext(ctx, lineSQL,
			transactionID,
			line.ProductID,
			line.QuantitySold,
			line.Price,
			line.Amount,
		)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", line.ProductID))
			}
			return errors.NewDBError("Falha ao inserir item da venda", err)
		}
	}
	return nil
}

// applyDeltas aplica os efeitos líquidos da venda sobre o estoque de loja.
// Quantidade positiva decrementa sub_stock_level (venda); negativa devolve
// (item removido em uma edição). Produto inexistente aborta tudo.
func (r *TransactionRepository) applyDeltas(ctx context.Context, tx *sql.Tx, deltas []domain.StockDelta) error {
	const deltaSQL = `UPDATE products SET sub_stock_level = sub_stock_level - $1 WHERE id = $2`

	for _, d := range deltas {
		if d.Quantity == 0 {
			continue
		}
		result, err := tx.ExecContext(ctx, deltaSQL, d.Quantity, d.ProductID)
		if err != nil {
			return errors.NewDBError("Falha ao aplicar efeito de estoque da venda", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return errors.NewDBError("Falha ao verificar linhas afetadas", err)
		}
		if rowsAffected == 0 {
			return errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", d.ProductID))
		}
	}
	return nil
}

// invalidateProducts remove do cache os produtos tocados pela venda.
func (r *TransactionRepository) invalidateProducts(ctx context.Context, deltas []domain.StockDelta) {
	if len(deltas) == 0 {
		return
	}
	keys := make([]string, 0, len(deltas))
	for _, d := range deltas {
		keys = append(keys, fmt.Sprintf("product:%s", d.ProductID))
	}
	r.Cache.Delete(ctx, keys...)
}

// --- Leitura ---

const headerColumns = `
	t.id, t.custom_id, t.total_amount, t.recieved_amount, t.additional_amount, t.discount,
	t.changefee, t.payment_method, t.cheque_no, t.cheque_due_date, t.customer_id,
	t.is_suspended, t.is_completed, t.transaction_date,
	c.id, c.name, c.phone_number, c.vehicle_number, c.address, c.active, c.created_at`

const headerJoins = `
	FROM transactions t
	LEFT JOIN customers c ON c.id = t.customer_id`

// scanHeader mapeia uma linha (venda + cliente) para a struct de domínio.
func scanHeader(scanner interface{ Scan(...interface{}) error }) (domain.Transaction, error) {
	var t domain.Transaction
	var chequeDueDate sql.NullTime
	var customerID sql.NullString
	var custID, custName, custPhone, custVehicle, custAddress sql.NullString
	var custActive sql.NullBool
	var custCreatedAt sql.NullTime

	err := scanner.Scan(
		&t.ID, &t.CustomID, &t.TotalAmount, &t.RecievedAmount, &t.AdditionalAmount, &t.Discount,
		&t.Changefee, &t.PaymentMethod, &t.ChequeNo, &chequeDueDate, &customerID,
		&t.IsSuspended, &t.IsCompleted, &t.TransactionDate,
		&custID, &custName, &custPhone, &custVehicle, &custAddress, &custActive, &custCreatedAt,
	)
	if err != nil {
		return domain.Transaction{}, err
	}

	if chequeDueDate.Valid {
		due := chequeDueDate.Time
		t.ChequeDueDate = &due
	}
	if customerID.Valid {
		t.CustomerID = customerID.String
	}
	if custID.Valid {
		t.Customer = &domain.Customer{
			ID:            custID.String,
			Name:          custName.String,
			PhoneNumber:   custPhone.String,
			VehicleNumber: custVehicle.String,
			Address:       custAddress.String,
			Active:        custActive.Bool,
			CreatedAt:     custCreatedAt.Time,
		}
	}

	return t, nil
}

// FindByID busca uma venda completa (cabeçalho, cliente e itens com produto).
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + headerColumns + headerJoins + ` WHERE t.id = $1`

	txn, err := scanHeader(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Transaction{}, errors.NewNotFoundError(fmt.Sprintf("Venda com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao buscar venda no DB", err)
	}

	lines, err := r.loadLines(ctxTimeout, txn.ID)
	if err != nil {
		return domain.Transaction{}, err
	}
	txn.Products = lines

	return txn, nil
}

// loadLines carrega os itens de uma venda com o produto (e marca/tipo) resolvido.
func (r *TransactionRepository) loadLines(ctx context.Context, transactionID string) ([]domain.TransactionLine, error) {
	const query = `
		SELECT tl.product_id, tl.quantity_sold, tl.price, tl.amount,
		       p.id, p.size, p.pattern, p.pr, p.price, p.barcode, p.remarks, p.status,
		       p.stock_level, p.sub_stock_level, p.created_at,
		       b.id, b.name, b.active, b.created_at,
		       v.id, v.name, v.active, v.created_at
		FROM transaction_lines tl
		LEFT JOIN products p ON p.id = tl.product_id
		LEFT JOIN brands b ON b.id = p.brand_id
		LEFT JOIN vehicle_types v ON v.id = p.vehicle_type_id
		WHERE tl.transaction_id = $1
		ORDER BY tl.id ASC`

	rows, err := r.DB.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, errors.NewDBError("Falha ao carregar itens da venda", err)
	}
	defer rows.Close()

	lines := make([]domain.TransactionLine, 0)
	for rows.Next() {
		var line domain.TransactionLine
		var pID, pSize, pPattern, pBarcode, pRemarks sql.NullString
		var pPR, pStock, pSubStock sql.NullInt64
		var pPrice sql.NullFloat64
		var pStatus sql.NullBool
		var pCreatedAt sql.NullTime
		var bID, bName sql.NullString
		var bActive sql.NullBool
		var bCreatedAt sql.NullTime
		var vID, vName sql.NullString
		var vActive sql.NullBool
		var vCreatedAt sql.NullTime

		err := rows.Scan(
			&line.ProductID, &line.QuantitySold, &line.Price, &line.Amount,
			&pID, &pSize, &pPattern, &pPR, &pPrice, &pBarcode, &pRemarks, &pStatus,
			&pStock, &pSubStock, &pCreatedAt,
			&bID, &bName, &bActive, &bCreatedAt,
			&vID, &vName, &vActive, &vCreatedAt,
		)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear item da venda", err)
		}

		// Produto pode ter sido removido do catálogo depois da venda.
		if pID.Valid {
			product := &domain.Product{
				ID:            pID.String,
				Size:          pSize.String,
				Pattern:       pPattern.String,
				PR:            int(pPR.Int64),
				Price:         pPrice.Float64,
				Barcode:       pBarcode.String,
				Remarks:       pRemarks.String,
				Status:        pStatus.Bool,
				StockLevel:    int(pStock.Int64),
				SubStockLevel: int(pSubStock.Int64),
				CreatedAt:     pCreatedAt.Time,
			}
			if bID.Valid {
				product.Brand = &domain.Brand{
					ID: bID.String, Name: bName.String, Active: bActive.Bool, CreatedAt: bCreatedAt.Time,
				}
			}
			if vID.Valid {
				product.VehicleType = &domain.VehicleType{
					ID: vID.String, Name: vName.String, Active: vActive.Bool, CreatedAt: vCreatedAt.Time,
				}
			}
			line.Product = product
		}

		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar itens da venda", err)
	}

	return lines, nil
}

// Find retorna uma página do histórico de vendas segundo o filtro, junto com
// o total de registros que o atendem.
func (r *TransactionRepository) Find(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var where strings.Builder
	where.WriteString(" WHERE 1=1")

	args := make([]interface{}, 0, 6)
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where.WriteString(" AND t.transaction_date >= $" + strconv.Itoa(len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where.WriteString(" AND t.transaction_date <= $" + strconv.Itoa(len(args)))
	}
	if filter.PaymentMethod != "" {
		args = append(args, filter.PaymentMethod)
		where.WriteString(" AND t.payment_method = $" + strconv.Itoa(len(args)))
	}
	if filter.IsSuspended != nil {
		args = append(args, *filter.IsSuspended)
		where.WriteString(" AND t.is_suspended = $" + strconv.Itoa(len(args)))
	}
	if filter.IsCompleted != nil {
		args = append(args, *filter.IsCompleted)
		where.WriteString(" AND t.is_completed = $" + strconv.Itoa(len(args)))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where.WriteString(" AND t.customer_id = $" + strconv.Itoa(len(args)))
	}

	countQuery := `SELECT COUNT(*) FROM transactions t` + where.String()
	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, countQuery, args...).Scan(&total); err != nil {
		return domain.TransactionPage{}, errors.NewDBError("Falha ao contar vendas", err)
	}

	query := `SELECT ` + headerColumns + headerJoins + where.String() + ` ORDER BY t.transaction_date DESC`
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
		args = append(args, (page-1)*filter.Limit)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return domain.TransactionPage{}, errors.NewDBError("Falha ao listar vendas", err)
	}
	defer rows.Close()

	summaries := make([]domain.TransactionSummary, 0)
	for rows.Next() {
		txn, err := scanHeader(rows)
		if err != nil {
			return domain.TransactionPage{}, errors.NewDBError("Falha ao mapear venda", err)
		}
		summaries = append(summaries, domain.TransactionSummary{
			ID:              txn.ID,
			CustomID:        txn.CustomID,
			TotalPrice:      txn.TotalAmount,
			TransactionDate: txn.TransactionDate,
			RecievedAmount:  txn.RecievedAmount,
			PaymentMethod:   txn.PaymentMethod,
			Customer:        txn.Customer,
			ChequeNo:        txn.ChequeNo,
			ChequeDueDate:   txn.ChequeDueDate,
		})
	}
	if err := rows.Err(); err != nil {
		return domain.TransactionPage{}, errors.NewDBError("Falha ao iterar vendas", err)
	}

	return domain.TransactionPage{TotalSize: total, Transactions: summaries}, nil
}

// FindSuspended retorna as vendas suspensas completas (com itens), mais
// recentes primeiro — a lista que o balcão usa para retomar um atendimento.
func (r *TransactionRepository) FindSuspended(ctx context.Context) ([]domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + headerColumns + headerJoins + ` WHERE t.is_suspended = TRUE ORDER BY t.transaction_date DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar vendas suspensas", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanHeader(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear venda suspensa", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar vendas suspensas", err)
	}

	for i := range transactions {
		lines, err := r.loadLines(ctxTimeout, transactions[i].ID)
		if err != nil {
			return nil, err
		}
		transactions[i].Products = lines
	}

	return transactions, nil
}

// SumTotals soma o total_amount das vendas fechadas (não suspensas e
// completas) no intervalo [from, to].
func (r *TransactionRepository) SumTotals(ctx context.Context, from, to time.Time) (float64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT COALESCE(SUM(total_amount), 0)
	               FROM transactions
	               WHERE is_suspended = FALSE AND is_completed = TRUE
	                 AND transaction_date >= $1 AND transaction_date <= $2`

	var sum float64
	if err := r.DB.QueryRowContext(ctxTimeout, query, from, to).Scan(&sum); err != nil {
		return 0, errors.NewDBError("Falha ao somar vendas do período", err)
	}
	return sum, nil
}

// SetCompleted grava o novo valor do flag is_completed.
func (r *TransactionRepository) SetCompleted(ctx context.Context, id string, completed bool) (domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE transactions SET is_completed = $1 WHERE id = $2`

	result, err := r.DB.ExecContext(ctxTimeout, query, completed, id)
	if err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao atualizar situação da venda", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Transaction{}, errors.NewNotFoundError(fmt.Sprintf("Venda com ID %s não existe na base de dados.", id))
	}

	return r.FindByID(ctx, id)
}

// AddReceivedAmount soma o valor informado ao recieved_amount da venda, de
// forma atômica (o incremento acontece no próprio UPDATE).
func (r *TransactionRepository) AddReceivedAmount(ctx context.Context, id string, amount float64) (domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE transactions SET recieved_amount = recieved_amount + $1 WHERE id = $2`

	result, err := r.DB.ExecContext(ctxTimeout, query, amount, id)
	if err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao atualizar valor recebido da venda", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Transaction{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Transaction{}, errors.NewNotFoundError(fmt.Sprintf("Venda com ID %s não existe na base de dados.", id))
	}

	return r.FindByID(ctx, id)
}

// Delete remove uma venda (os itens caem em cascata via FK). O estoque não
// é devolvido: exclusão é correção de registro, não estorno.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `DELETE FROM transactions WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, query, id)
	if err != nil {
		return errors.NewDBError("Falha ao remover venda", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Venda com ID %s não existe na base de dados.", id))
	}

	return nil
}

// FindForExport retorna as linhas do CSV de vendas segundo o filtro.
func (r *TransactionRepository) FindForExport(ctx context.Context, filter domain.ExportFilter) ([]domain.ExportRow, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var where strings.Builder
	where.WriteString(" WHERE 1=1")

	args := make([]interface{}, 0, 3)
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where.WriteString(" AND transaction_date >= $" + strconv.Itoa(len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where.WriteString(" AND transaction_date <= $" + strconv.Itoa(len(args)))
	}
	if filter.IsSuspended != nil {
		args = append(args, *filter.IsSuspended)
		where.WriteString(" AND is_suspended = $" + strconv.Itoa(len(args)))
	}

	query := `SELECT custom_id, total_amount, recieved_amount, transaction_date
	          FROM transactions` + where.String() + ` ORDER BY transaction_date ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, errors.NewDBError("Falha ao buscar vendas para exportação", err)
	}
	defer rows.Close()

	exportRows := make([]domain.ExportRow, 0)
	for rows.Next() {
		var row domain.ExportRow
		if err := rows.Scan(&row.CustomID, &row.TotalAmount, &row.RecievedAmount, &row.TransactionDate); err != nil {
			return nil, errors.NewDBError("Falha ao mapear linha de exportação", err)
		}
		exportRows = append(exportRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar linhas de exportação", err)
	}

	return exportRows, nil
}

// nullableID converte "" para NULL (vendas sem cliente associado).
func nullableID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}
