package redact

import "regexp"

// Маска для денежных сумм вида $100 или $100.00
const Mask = "$***"

var currencyPattern = regexp.MustCompile(`\$\d+(?:\.\d{2})?`)

// String заменяет все денежные суммы в строке на маску
func String(s string) string {
	return currencyPattern.ReplaceAllString(s, Mask)
}

// Value рекурсивно обходит декодированную JSON-структуру (строки, массивы,
// объекты) и маскирует денежные суммы во всех строковых листьях.
// Остальные типы (числа, bool, nil) возвращаются без изменений.
func Value(v any) any {
	switch val := v.(type) {
	case string:
		return String(val)
	case []any:
		for i := range val {
			val[i] = Value(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = Value(val[k])
		}
		return val
	default:
		return v
	}
}
