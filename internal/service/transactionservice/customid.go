package transactionservice

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefixo e largura mínima do número de recibo legível (e.g., "MOH00042").
const (
	customIDPrefix = "MOH"
	customIDWidth  = 5
)

// FormatCustomID formata o número sequencial como recibo: prefixo fixo e
// zero-padding de 5 dígitos. Acima de 99999 o número simplesmente alarga.
func FormatCustomID(n int64) string {
	return fmt.Sprintf("%s%0*d", customIDPrefix, customIDWidth, n)
}

// ParseCustomID extrai o número sequencial de um recibo. É estrito de
// propósito: um custom_id que não siga o formato indica dado corrompido, e
// adivinhar um número aqui poderia reemitir recibos duplicados.
func ParseCustomID(customID string) (int64, error) {
	if !strings.HasPrefix(customID, customIDPrefix) {
		return 0, fmt.Errorf("customId %q não começa com o prefixo %s", customID, customIDPrefix)
	}

	digits := customID[len(customIDPrefix):]
	if len(digits) < customIDWidth {
		return 0, fmt.Errorf("customId %q tem menos de %d dígitos", customID, customIDWidth)
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("customId %q tem sufixo não numérico: %w", customID, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("customId %q tem número negativo", customID)
	}

	return n, nil
}
