package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ToInt converts a decoded JSON value to int.
// Accepts whole float64 numbers, json.Number, ints and numeric strings.
func ToInt(v interface{}) (int, error) {
	switch value := v.(type) {
	case int:
		return value, nil
	case int64:
		return int(value), nil
	case float64:
		if value != math.Trunc(value) || math.IsInf(value, 0) || math.IsNaN(value) {
			return 0, fmt.Errorf("invalid integer value: %v", value)
		}
		return int(value), nil
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return 0, fmt.Errorf("invalid integer value: %w", err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("invalid integer value: %v", v)
	}
}

// ToOptionalInt is ToInt that maps nil to a nil pointer
func ToOptionalInt(v interface{}) (*int, error) {
	if v == nil {
		return nil, nil
	}
	n, err := ToInt(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ToTime converts a time.Time or an RFC 3339 string to time.Time
func ToTime(v interface{}) (time.Time, error) {
	switch value := v.(type) {
	case time.Time:
		return value, nil
	case string:
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp: %w", err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("invalid timestamp: %v", v)
	}
}
