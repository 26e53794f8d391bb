package transactionservice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gotire/internal/domain"
)

// TestComputeStockDeltas_FirstApplication testa o débito integral quando a
// venda nunca tocou o estoque (criação efetiva ou retomada de rascunho).
func TestComputeStockDeltas_FirstApplication(t *testing.T) {
	newLines := []domain.TransactionLine{
		{ProductID: "p1", QuantitySold: 3},
		{ProductID: "p2", QuantitySold: 2},
	}

	deltas := computeStockDeltas(nil, false, newLines)

	assert.Equal(t, []domain.StockDelta{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 2},
	}, deltas)
}

// TestComputeStockDeltas_IgnoresOldWhenNotApplied testa que itens antigos de
// um rascunho suspenso não geram devolução — eles nunca debitaram nada.
func TestComputeStockDeltas_IgnoresOldWhenNotApplied(t *testing.T) {
	oldLines := []domain.TransactionLine{{ProductID: "p1", QuantitySold: 5}}
	newLines := []domain.TransactionLine{{ProductID: "p2", QuantitySold: 2}}

	deltas := computeStockDeltas(oldLines, false, newLines)

	assert.Equal(t, []domain.StockDelta{{ProductID: "p2", Quantity: 2}}, deltas)
}

// TestComputeStockDeltas_EditApplied testa a edição de uma venda ativa:
// apenas a diferença entre a lista nova e a antiga afeta o estoque.
func TestComputeStockDeltas_EditApplied(t *testing.T) {
	oldLines := []domain.TransactionLine{
		{ProductID: "p1", QuantitySold: 3},
		{ProductID: "p2", QuantitySold: 2},
	}
	newLines := []domain.TransactionLine{
		{ProductID: "p1", QuantitySold: 5}, // +2
		{ProductID: "p3", QuantitySold: 1}, // novo item
		// p2 removido: devolve 2
	}

	deltas := computeStockDeltas(oldLines, true, newLines)

	assert.ElementsMatch(t, []domain.StockDelta{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p3", Quantity: 1},
		{ProductID: "p2", Quantity: -2},
	}, deltas)
}

// TestComputeStockDeltas_NoChange testa que uma edição sem mudança de itens
// não produz nenhum efeito de estoque.
func TestComputeStockDeltas_NoChange(t *testing.T) {
	lines := []domain.TransactionLine{{ProductID: "p1", QuantitySold: 4}}

	deltas := computeStockDeltas(lines, true, lines)

	assert.Empty(t, deltas)
}

// TestComputeStockDeltas_DuplicateLines testa o agrupamento de linhas
// repetidas do mesmo produto.
func TestComputeStockDeltas_DuplicateLines(t *testing.T) {
	newLines := []domain.TransactionLine{
		{ProductID: "p1", QuantitySold: 2},
		{ProductID: "p1", QuantitySold: 3},
	}

	deltas := computeStockDeltas(nil, false, newLines)

	assert.Equal(t, []domain.StockDelta{{ProductID: "p1", Quantity: 5}}, deltas)
}
