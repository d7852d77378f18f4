package repository

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
)

// ParseValorBRL normalizes an amount field to a plain decimal. Entry points
// send either a JSON number or a localized currency string such as
// "R$ 1.234,56"; normalization lives here so create and import paths parse
// identically.
func ParseValorBRL(v any) (float64, error) {
	switch value := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return value, nil
	case int:
		return float64(value), nil
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return 0, apperror.Validation("valor inválido: %s", value.String())
		}
		return f, nil
	case string:
		return parseValorString(value)
	default:
		return 0, apperror.Validation("valor inválido")
	}
}

func parseValorString(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, nil
	}
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.TrimSpace(cleaned)

	// "1.234,56" -> "1234.56". A comma marks the decimal separator; dots
	// before it are thousand separators.
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, apperror.Validation("valor inválido: %s", s)
	}
	return f, nil
}
