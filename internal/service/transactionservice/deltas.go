package transactionservice

import "gotire/internal/domain"

// computeStockDeltas calcula o efeito líquido de uma escrita de venda sobre
// o estoque de loja, por produto.
//
// wasApplied indica se a venda já debitou estoque antes (isSuspended=false
// na versão persistida). Se não (rascunho suspenso sendo retomado), o efeito
// é a lista nova por inteiro — o débito acontece exatamente uma vez, agora.
// Se sim (edição de venda ativa), o efeito é apenas a diferença entre a
// lista nova e a antiga: quantidade positiva debita, negativa devolve.
func computeStockDeltas(oldLines []domain.TransactionLine, wasApplied bool, newLines []domain.TransactionLine) []domain.StockDelta {
	net := make(map[string]int)
	order := make([]string, 0, len(newLines))

	add := func(productID string, qty int) {
		if _, seen := net[productID]; !seen {
			order = append(order, productID)
		}
		net[productID] += qty
	}

	for _, line := range newLines {
		add(line.ProductID, line.QuantitySold)
	}

	if wasApplied {
		for _, line := range oldLines {
			add(line.ProductID, -line.QuantitySold)
		}
	}

	deltas := make([]domain.StockDelta, 0, len(order))
	for _, productID := range order {
		if qty := net[productID]; qty != 0 {
			deltas = append(deltas, domain.StockDelta{ProductID: productID, Quantity: qty})
		}
	}
	return deltas
}
