package dtos

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/constants"
)

// APIError is the JSON body of every non-2xx response.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// ImportRequestDTO is the form half of a catalog upload; the file itself
// arrives as the multipart "file" part.
type ImportRequestDTO struct {
	Source  string `json:"source" validate:"required,oneof=SINAPI SICRO SICRO_ANALITICO"`
	Region  string `json:"region" validate:"omitempty,max=3"`
	Month   int    `json:"month" validate:"omitempty,min=1,max=12"`
	Year    int    `json:"year" validate:"omitempty,min=2000,max=2099"`
	Replace bool   `json:"replace"`
}

func (d *ImportRequestDTO) Normalize() {
	d.Source = strings.ToUpper(strings.TrimSpace(d.Source))
	d.Region = strings.ToUpper(strings.TrimSpace(d.Region))
}

func (d *ImportRequestDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	err := constants.Validate.Struct(d)
	if err == nil {
		return map[string]string{}, true
	}

	errs := map[string]string{}
	for _, fieldErr := range err.(validator.ValidationErrors) {
		errs[fieldErr.Field()] = fieldErr.Tag()
	}
	return errs, false
}
