package graph

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// InputError reports an argument that failed decoding or validation.
type InputError struct {
	Field string
}

func (e *InputError) Error() string {
	return e.Field + " is invalid"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeInput decodes args["input"] into dst and validates it.
func decodeInput(args map[string]interface{}, dst interface{}) error {
	raw, _ := args["input"].(map[string]interface{})
	return decodeArgs(raw, dst)
}

// decodeArgs decodes a GraphQL argument map into dst and validates it.
func decodeArgs(raw map[string]interface{}, dst interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      dst,
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return &InputError{Field: decodeErrorField(err)}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &InputError{Field: verrs[0].Field()}
		}
		return fmt.Errorf("validate input: %w", err)
	}
	return nil
}

// decodeErrorField extracts the offending key from a mapstructure error
// such as "'price' expected type 'float64', got ...".
func decodeErrorField(err error) string {
	var merr *mapstructure.Error
	if errors.As(err, &merr) && len(merr.Errors) > 0 {
		msg := merr.Errors[0]
		if start := strings.Index(msg, "'"); start != -1 {
			if end := strings.Index(msg[start+1:], "'"); end > 0 {
				return msg[start+1 : start+1+end]
			}
		}
	}
	return "input"
}
