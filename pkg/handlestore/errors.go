package handlestore

import (
	"errors"
	"fmt"
)

// Sentinel errors for allocation.
var (
	// ErrFull indicates the handle counter reached the capacity of its type.
	ErrFull = errors.New("registry is full")

	// ErrUncomparableKey indicates a key whose dynamic value cannot be hashed.
	ErrUncomparableKey = errors.New("key is not comparable")
)

// Sentinel errors for index definition.
var (
	// ErrSealed indicates an index was attached after elements were stored.
	ErrSealed = errors.New("registry sealed: indices must be attached before elements are stored")

	// ErrDuplicateIndex indicates the key type already has an index on the registry.
	ErrDuplicateIndex = errors.New("index already defined for key type")

	// ErrNilRegistry indicates NewIndex was called without a registry.
	ErrNilRegistry = errors.New("registry cannot be nil")

	// ErrNilBuilder indicates NewIndex was called without a builder.
	ErrNilBuilder = errors.New("builder cannot be nil")
)

// ErrInvalidIndexPolicy indicates an unknown index policy name.
var ErrInvalidIndexPolicy = errors.New("invalid index policy")

// FullError reports capacity exhaustion with the registry context.
type FullError struct {
	// Registry is the name of the registry.
	Registry string
	// Cap is the capacity of the handle type.
	Cap uint64
	// Op is the operation that failed ("add" or the key type of the index).
	Op string
}

// Error implements the error interface.
func (e *FullError) Error() string {
	return fmt.Sprintf("%s: %s: registry is full (cap=%d)", e.Registry, e.Op, e.Cap)
}

// Unwrap returns ErrFull for errors.Is support.
func (e *FullError) Unwrap() error {
	return ErrFull
}

// KeyError wraps a key-related failure with the index it happened in.
type KeyError struct {
	// KeyType is the Go type of the key.
	KeyType string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("index %s: %v", e.KeyType, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *KeyError) Unwrap() error {
	return e.Err
}
