package config

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"go.viam.com/colortrack/utils"
)

// AttributeMap is a free form JSON object decoded later into a typed config.
type AttributeMap map[string]interface{}

// TransformAttributeMapToStruct decodes attributes into the struct pointed to by to,
// matching keys against json tags. Keys that match no field are an error.
func TransformAttributeMapToStruct(to interface{}, attributes AttributeMap) (interface{}, error) {
	if to == nil || reflect.TypeOf(to).Kind() != reflect.Ptr {
		return nil, utils.NewUnexpectedTypeError((*struct{})(nil), to)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      to,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return nil, errors.Wrap(err, "cannot decode attributes")
	}
	return to, nil
}
