package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	keysOnce sync.Once
	keys     map[string]string
)

// keyOf returns the configuration key of a Settings field.
func keyOf(field string) string {
	keysOnce.Do(func() {
		keys = make(map[string]string)
		t := reflect.TypeOf(Settings{})
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			keys[f.Name] = f.Tag.Get("mapstructure")
		}
	})
	if key, ok := keys[field]; ok && key != "" {
		return key
	}
	return field
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return fmt.Sprintf("is required when %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
