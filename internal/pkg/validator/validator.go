package validator

// Validator is the contract for validating request and domain structs.
type Validator interface {
	// Validate returns an error describing every failed rule, or nil.
	Validate(in any) error
}
