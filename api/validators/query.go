package validators

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

// QueryText returns the trimmed parameter cut to at most maxRunes characters.
func QueryText(r *http.Request, key string, maxRunes int) string {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if maxRunes <= 0 || utf8.RuneCountInString(raw) <= maxRunes {
		return raw
	}
	return strings.TrimSpace(string([]rune(raw)[:maxRunes]))
}

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

// ParseQueryUUID returns nil when the parameter is absent.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Validation("invalid query parameter", map[string]string{key: "must be a valid id"})
	}
	return &id, nil
}

// PriceRange is an inclusive price filter parsed from "min-max".
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// ParsePriceRange accepts "min-max" with non-negative decimal bounds. An empty
// value yields nil.
func ParsePriceRange(r *http.Request, key string) (*PriceRange, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	invalid := pkgerrors.Validation("invalid price range", map[string]string{key: "must look like min-max"})

	lo, hi, ok := strings.Cut(raw, "-")
	if !ok {
		return nil, invalid
	}
	minPrice, err := decimal.NewFromString(strings.TrimSpace(lo))
	if err != nil {
		return nil, invalid
	}
	maxPrice, err := decimal.NewFromString(strings.TrimSpace(hi))
	if err != nil {
		return nil, invalid
	}
	if minPrice.IsNegative() || maxPrice.LessThan(minPrice) {
		return nil, invalid
	}
	return &PriceRange{Min: minPrice, Max: maxPrice}, nil
}
