// Package validate turns untyped request input into typed values using an
// explicit field schema. Undeclared fields are rejected, every failing field
// is reported, and failures surface as Common.ValidationFailed.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"github.com/starford/resource-api/internal/apperr"
)

// Kind is the primitive type a field must hold.
type Kind int

// Field kinds.
const (
	String Kind = iota
	Int
	Object
)

// Field declares one accepted input field.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Rules    []validation.Rule
}

// Violation describes one rejected field: {"field": name, <constraint>: message}.
type Violation map[string]string

// Shape is a schema that decodes into T.
type Shape[T any] struct {
	Fields []Field
	// Defaults, if set, seeds the decoded value before input is applied.
	Defaults func() T
}

// Decode validates src against the shape and returns the typed value.
func (s Shape[T]) Decode(src map[string]any) (T, error) {
	var out T

	values := make(map[string]any, len(src))
	for k, v := range src {
		values[k] = v
	}

	keys := make([]*validation.KeyRules, 0, len(s.Fields))
	for _, f := range s.Fields {
		if v, ok := values[f.Name]; ok && f.Kind == Int {
			values[f.Name] = coerceInt(v)
		}
		keys = append(keys, keyRules(f))
	}

	if err := validation.Validate(values, validation.Map(keys...)); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return out, fmt.Errorf("validate: %w", err)
		}
		return out, apperr.ValidationFailed(map[string]any{
			"violations": s.violations(verrs),
		})
	}

	if s.Defaults != nil {
		out = s.Defaults()
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  &out,
	})
	if err != nil {
		return out, fmt.Errorf("validate: build decoder: %w", err)
	}
	if err := dec.Decode(values); err != nil {
		return out, fmt.Errorf("validate: decode: %w", err)
	}
	return out, nil
}

func keyRules(f Field) *validation.KeyRules {
	rules := make([]validation.Rule, 0, len(f.Rules)+2)
	if f.Required {
		if f.Kind == String {
			rules = append(rules, validation.Required)
		} else {
			rules = append(rules, validation.NotNil)
		}
	}
	rules = append(rules, kindRule(f.Kind))
	rules = append(rules, f.Rules...)

	kr := validation.Key(f.Name, rules...)
	if !f.Required {
		kr = kr.Optional()
	}
	return kr
}

// violations orders failures by declaration, then unexpected keys by name.
func (s Shape[T]) violations(verrs validation.Errors) []Violation {
	out := make([]Violation, 0, len(verrs))
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		seen[f.Name] = true
		if err, ok := verrs[f.Name]; ok {
			out = append(out, violation(f.Name, err))
		}
	}

	var extra []string
	for name := range verrs {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, violation(name, verrs[name]))
	}
	return out
}

func violation(field string, err error) Violation {
	v := Violation{"field": field}
	var eo validation.Error
	if errors.As(err, &eo) {
		v[constraintName(eo.Code())] = eo.Error()
		return v
	}
	v["invalid"] = err.Error()
	return v
}

var constraintNames = map[string]string{
	"validation_required":         "required",
	"validation_not_nil_required": "required",
	"validation_key_missing":      "required",
	"validation_key_unexpected":   "unexpected",
	"validation_in_invalid":       "enum",
	"validation_is_uuid":          "uuid",
}

func constraintName(code string) string {
	if name, ok := constraintNames[code]; ok {
		return name
	}
	return strings.TrimPrefix(code, "validation_")
}

func kindRule(k Kind) validation.Rule {
	return validation.By(func(value any) error {
		if value == nil {
			return nil
		}
		switch k {
		case String:
			if _, ok := value.(string); !ok {
				return validation.NewError("string", "must be a string")
			}
		case Int:
			if _, ok := value.(int); !ok {
				return validation.NewError("int", "must be an integer number")
			}
		case Object:
			if _, ok := value.(map[string]any); !ok {
				return validation.NewError("object", "must be an object")
			}
		}
		return nil
	})
}

// MinInt rejects integers below min. Unlike validation.Min it does not treat
// zero as empty.
func MinInt(min int) validation.Rule {
	return validation.By(func(value any) error {
		n, ok := value.(int)
		if ok && n < min {
			return validation.NewError("min", fmt.Sprintf("must be no less than %d", min))
		}
		return nil
	})
}

// coerceInt converts numeric-looking input to int and leaves anything else
// untouched so the kind rule can reject it.
func coerceInt(v any) any {
	switch t := v.(type) {
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
		return v
	case float64:
		if t == math.Trunc(t) && t >= math.MinInt32 && t <= math.MaxInt32 {
			return int(t)
		}
		return v
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		return v
	case bool:
		return v
	}
	if n, err := cast.ToIntE(v); err == nil {
		return n
	}
	return v
}
