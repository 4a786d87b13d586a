// Package validator checks request and domain structs against their
// validate tags. Usecases depend on the Validator interface; the
// go-playground/validator v10 implementation with translated, snake_cased
// field errors lives in this package.
package validator
