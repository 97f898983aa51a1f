// Package validation wraps go-playground/validator for isoclient configuration
// and request inputs, converting failures into *errors.AppError values with
// per-field details.
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
//	}
//	err := validation.Validate(cfg)
//
// Single values are checked with Var:
//
//	err := validation.Var("method", method, "oneof=GET POST PUT DELETE")
package validation
