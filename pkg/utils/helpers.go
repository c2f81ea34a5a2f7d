package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundHalfEven rounds to the nearest integer, ties to even. Callers must
// pass a finite value within int64 range; NaN and Inf yield 0.
func RoundHalfEven(value float64) int64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return decimal.NewFromFloat(value).RoundBank(0).IntPart()
}

// ParseNumber parses a decimal string such as "95" or "95.5"
func ParseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return v, nil
}

// ParseNullableNumber parses a dataset cell. Blank cells and NaN markers are missing.
func ParseNullableNumber(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null":
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", raw)
	}
	return &v, nil
}

// ParseYear parses a year cell, accepting float renderings such as "2028.0"
func ParseYear(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not a year: %q", raw)
	}
	return int(f), nil
}
