// Package validation provides common validation utilities for configuration
// parameters across the goshout library.
//
// The helpers return *errors.ValidationError values so constructors report
// rejected settings with a consistent message and errors.Is can match
// errors.ErrInvalidConfiguration.
package validation
