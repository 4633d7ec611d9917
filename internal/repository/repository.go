// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import "errors"

// ErrDuplicateEmail is returned when a client insert violates the unique
// email constraint.
var ErrDuplicateEmail = errors.New("client email already exists")
