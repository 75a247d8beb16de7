package services

import "errors"

// ErrProductNotFound is returned by operations that must target an existing product.
var ErrProductNotFound = errors.New("product not found")
