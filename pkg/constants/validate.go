package constants

import "github.com/go-playground/validator/v10"

// Validate is the shared validator instance; struct tags are the single
// source of request validation rules.
var Validate = validator.New()
