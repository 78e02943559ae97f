package registry

import (
	"fmt"
	"sort"
)

// Violation is one argument's schema failure.
type Violation struct {
	Field  string
	Reason string
}

// Validate checks args against schema, returning every violation found
// (not just the first) so the rejection report can enumerate them all.
func Validate(schema InputSchema, args map[string]any) []Violation {
	var violations []Violation

	fields := make([]string, 0, len(schema))
	for field := range schema {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		constraint := schema[field]
		value, present := args[field]
		if !present {
			if constraint.Required {
				violations = append(violations, Violation{Field: field, Reason: "is required"})
			}
			continue
		}
		if v := checkType(field, constraint, value); v != nil {
			violations = append(violations, *v)
			continue
		}
		if v := checkEnum(field, constraint, value); v != nil {
			violations = append(violations, *v)
		}
		if v := checkRange(field, constraint, value); v != nil {
			violations = append(violations, *v)
		}
	}

	for field := range args {
		if _, known := schema[field]; !known {
			violations = append(violations, Violation{Field: field, Reason: "is not a recognized argument"})
		}
	}

	return violations
}

func checkType(field string, constraint ParamSchema, value any) *Violation {
	ok := false
	switch constraint.Type {
	case TypeString:
		_, ok = value.(string)
	case TypeBool:
		_, ok = value.(bool)
	case TypeInt:
		switch value.(type) {
		case int, int32, int64, float64:
			ok = true
		}
	case TypeFloat:
		switch value.(type) {
		case float32, float64, int, int64:
			ok = true
		}
	case TypeArray:
		_, ok = value.([]any)
	default:
		ok = true
	}
	if !ok {
		return &Violation{Field: field, Reason: fmt.Sprintf("must be of type %s", constraint.Type)}
	}
	return nil
}

func checkEnum(field string, constraint ParamSchema, value any) *Violation {
	if len(constraint.Enum) == 0 {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}
	for _, allowed := range constraint.Enum {
		if s == allowed {
			return nil
		}
	}
	return &Violation{Field: field, Reason: fmt.Sprintf("must be one of %v", constraint.Enum)}
}

func checkRange(field string, constraint ParamSchema, value any) *Violation {
	if constraint.Min == nil && constraint.Max == nil {
		return nil
	}
	n, ok := toFloat(value)
	if !ok {
		return nil
	}
	if constraint.Min != nil && n < *constraint.Min {
		return &Violation{Field: field, Reason: fmt.Sprintf("must be >= %v", *constraint.Min)}
	}
	if constraint.Max != nil && n > *constraint.Max {
		return &Violation{Field: field, Reason: fmt.Sprintf("must be <= %v", *constraint.Max)}
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
