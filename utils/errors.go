package utils

import (
	"reflect"

	"github.com/pkg/errors"
)

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError(expected, actual interface{}) error {
	return errors.Errorf("expected %s but got %T", typeName(expected), actual)
}

// typeName returns the name of the type of v. Pointers to interfaces are
// dereferenced so that (*someIfc)(nil) names someIfc.
func typeName(v interface{}) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<unknown (nil interface)>"
	}
	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
		return t.Elem().String()
	}
	return t.String()
}
