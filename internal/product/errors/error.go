// Package errors provides the error values raised by product operations.
package errors

import "github.com/abgdnv/productapi/internal/platform/apperror"

var ErrProductNotFound = apperror.NotFound("Product not found")
var ErrSearchTermRequired = apperror.Validation(`Query parameter "name" is required.`)
