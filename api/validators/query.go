package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// RequireQuery returns the trimmed value of a query parameter, with a
// minimum length check for search style endpoints.
func RequireQuery(r *http.Request, key string, minLen int) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if len([]rune(raw)) < minLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter too short").WithDetails(map[string]any{"field": key, "min_length": minLen})
	}
	return raw, nil
}
