package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ValidNameRegex matches a valid label: it starts with a letter or number and
// holds up to 60 letters, numbers, dashes and underscores.
var ValidNameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([-\w]){0,59}$`)

// ErrInvalidName explains why name does not match ValidNameRegex.
func ErrInvalidName(name string) error {
	if len(name) > 60 {
		return errors.Errorf("label %q must be 60 characters or fewer", name)
	}
	return errors.Errorf("label %q must start with a letter or number and must only contain letters, numbers, dashes, and underscores", name)
}

// A TypedName is a config parameter and the Go type it decodes into.
type TypedName struct {
	Name string
	Type string
}

// JSONTags lists the parameters a config struct reads, named by their json tags.
// Fields tagged "-" are skipped and untagged fields use the field name.
func JSONTags(s interface{}) []TypedName {
	tags := []TypedName{}
	typ := reflect.TypeOf(s)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		tags = append(tags, TypedName{name, f.Type.String()})
	}
	return tags
}
