package ttypes

import "strings"

// NormalizeVariant turns xx-yy or xx_yy into xx_YY. Codes without a region
// are lower-cased.
func NormalizeVariant(code string) string {
	i := strings.IndexAny(code, "_-")
	if i < 0 {
		return strings.ToLower(code)
	}
	return strings.ToLower(code[:i]) + "_" + strings.ToUpper(code[i+1:])
}
