package value

import "strconv"

// formatNumber renders a JSON number the way it is expected to appear in
// emitted C++ source: integral values without a trailing ".0".
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
