package reader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// paragraphBatch is the object form of JSON input.
type paragraphBatch struct {
	Paragraphs []*document.Paragraph `json:"paragraphs" validate:"dive,required"`
}

// readJSON accepts either a bare array of paragraphs or an object with a
// "paragraphs" array. Missing optional fields keep their zero values.
func readJSON(data []byte) ([]*document.Paragraph, error) {
	data = bytes.TrimSpace(data)
	var batch paragraphBatch
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &batch.Paragraphs); err != nil {
			return nil, fmt.Errorf("decoding paragraphs: %w", err)
		}
	} else if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decoding paragraphs: %w", err)
	}

	if err := validateParagraphs(batch.Paragraphs); err != nil {
		return nil, err
	}
	return batch.Paragraphs, nil
}

func validateParagraphs(paras []*document.Paragraph) error {
	if err := validate.Struct(paragraphBatch{Paragraphs: paras}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	return nil
}

// describe flattens validator errors into one line.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("%s must have %s values", field, e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, e.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
