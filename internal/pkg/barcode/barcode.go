package barcode

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// Dimensões do PNG gerado para a etiqueta impressa no balcão.
const (
	renderWidth  = 360
	renderHeight = 120
)

// RenderPNG codifica o valor informado como Code 128 e retorna a imagem PNG.
// O valor vem do campo barcode do produto (13 dígitos gerados na criação,
// ou o código informado manualmente).
func RenderPNG(value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("valor de barcode vazio")
	}

	bc, err := code128.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("falha ao codificar barcode %q: %w", value, err)
	}

	scaled, err := barcode.Scale(bc, renderWidth, renderHeight)
	if err != nil {
		return nil, fmt.Errorf("falha ao escalar barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("falha ao gerar PNG do barcode: %w", err)
	}

	return buf.Bytes(), nil
}
