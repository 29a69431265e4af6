package models

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumeric converts a raw field to a number.
// Empty, non-numeric, NaN and infinite values are missing and yield nil.
// This is the only place where numeric columns are loosened; every analytics
// function works on the coerced value and skips nil.
func CoerceNumeric(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}

// CoerceFlag converts a raw genre indicator to a boolean.
// "1", "true", "t", "yes", "y" and any non-zero number are set; everything
// else, including an absent value, is unset.
func CoerceFlag(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "true", "t", "yes", "y":
		return true
	case "", "false", "f", "no", "n":
		return false
	}

	if v := CoerceNumeric(s); v != nil {
		return *v != 0
	}
	return false
}
