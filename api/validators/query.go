package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter bounded by
// [min, max]. Failures use the same field -> message details as body
// validation.
func ParseQueryInt(r *http.Request, key string, fallback, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		return 0, queryError(key, "must be a whole number")
	case value < min:
		return 0, queryError(key, "must be at least "+strconv.Itoa(min))
	case value > max:
		return 0, queryError(key, "must be at most "+strconv.Itoa(max))
	}
	return value, nil
}

func queryError(key, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").
		WithDetails(map[string]string{key: message})
}
