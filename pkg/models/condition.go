// Package models provides condition evaluation for enrollment and goal criteria.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ConditionOperator is the closed comparison set used by workflow conditions.
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorContains    ConditionOperator = "contains"
	OperatorNotContains ConditionOperator = "not_contains"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorIsEmpty     ConditionOperator = "is_empty"
	OperatorIsNotEmpty  ConditionOperator = "is_not_empty"
	OperatorIsTrue      ConditionOperator = "is_true"
	OperatorIsFalse     ConditionOperator = "is_false"
)

// WorkflowCondition compares one entity field against a literal value.
// Value is unused for the unary operators (is_empty, is_true, ...).
type WorkflowCondition struct {
	Field    string            `json:"field"    validate:"required"`
	Operator ConditionOperator `json:"operator" validate:"required"`
	Value    any               `json:"value,omitempty"`
}

// Matches evaluates the condition against an actual field value taken from an
// entity payload. Comparison is loose in the way CRM field data demands:
// numbers compare numerically when both sides coerce, everything else falls
// back to string comparison.
func (c WorkflowCondition) Matches(actual any) (bool, error) {
	switch c.Operator {
	case OperatorEquals:
		return looseEquals(actual, c.Value), nil
	case OperatorNotEquals:
		return !looseEquals(actual, c.Value), nil
	case OperatorContains:
		return strings.Contains(asString(actual), asString(c.Value)), nil
	case OperatorNotContains:
		return !strings.Contains(asString(actual), asString(c.Value)), nil
	case OperatorGreaterThan:
		return compareNumeric(actual, c.Value, func(a, b float64) bool { return a > b })
	case OperatorLessThan:
		return compareNumeric(actual, c.Value, func(a, b float64) bool { return a < b })
	case OperatorIsEmpty:
		return isEmpty(actual), nil
	case OperatorIsNotEmpty:
		return !isEmpty(actual), nil
	case OperatorIsTrue:
		return asBool(actual)
	case OperatorIsFalse:
		result, err := asBool(actual)

		return !result, err
	default:
		return false, fmt.Errorf("unknown condition operator: %s", c.Operator)
	}
}

func looseEquals(a, b any) bool {
	fa, okA := asNumber(a)
	fb, okB := asNumber(b)

	if okA && okB {
		return fa == fb
	}

	return asString(a) == asString(b)
}

func compareNumeric(a, b any, cmp func(a, b float64) bool) (bool, error) {
	fa, okA := asNumber(a)
	if !okA {
		return false, fmt.Errorf("cannot compare non-numeric value %v", a)
	}

	fb, okB := asNumber(b)
	if !okB {
		return false, fmt.Errorf("cannot compare against non-numeric value %v", b)
	}

	return cmp(fa, fb), nil
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)

		return f, err == nil
	default:
		return 0, false
	}
}

func asString(v any) string {
	if v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v)
}

func asBool(v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case string:
		if b == "" {
			return false, nil
		}

		result, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("cannot convert string %q to boolean: %w", b, err)
		}

		return result, nil
	case int:
		return b != 0, nil
	case int64:
		return b != 0, nil
	case float64:
		return b != 0, nil
	default:
		return false, fmt.Errorf("cannot convert %T to boolean", v)
	}
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
