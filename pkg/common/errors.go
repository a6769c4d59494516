package common

import (
	"fmt"
)

// NotFoundError is returned when the required value is not found.
type NotFoundError struct {
	Message string
}

func (nf NotFoundError) Error() string {
	return fmt.Sprintf("%s", nf.Message)
}

// NewNotFoundError creates a new instance of NotFoundError with the given message.
func NewNotFoundError(message string) NotFoundError {
	return NotFoundError{
		Message: message,
	}
}

// InvalidKeyError is returned when a key buffer violates the query key padding contract.
type InvalidKeyError struct {
	Message string
}

func (ik InvalidKeyError) Error() string {
	return fmt.Sprintf("%s", ik.Message)
}

// NewInvalidKeyError creates a new instance of InvalidKeyError with the given message.
func NewInvalidKeyError(message string) InvalidKeyError {
	return InvalidKeyError{
		Message: message,
	}
}

// ComparatorExistsError is returned when a comparator name is registered twice.
type ComparatorExistsError struct {
	Message string
}

func (ce ComparatorExistsError) Error() string {
	return fmt.Sprintf("%s", ce.Message)
}

// NewComparatorExistsError creates a new instance of ComparatorExistsError with the given message.
func NewComparatorExistsError(message string) ComparatorExistsError {
	return ComparatorExistsError{
		Message: message,
	}
}

// StorageClosedError is returned when an operation is called on a closed storage.
type StorageClosedError struct {
	Message string
}

func (sc StorageClosedError) Error() string {
	return fmt.Sprintf("%s", sc.Message)
}

// NewStorageClosedError creates a new instance of StorageClosedError with the given message.
func NewStorageClosedError(message string) StorageClosedError {
	return StorageClosedError{
		Message: message,
	}
}

// CorruptBatchError is returned when a write batch can't be decoded.
type CorruptBatchError struct {
	Message string
}

func (cb CorruptBatchError) Error() string {
	return fmt.Sprintf("%s", cb.Message)
}

// NewCorruptBatchError creates a new instance of CorruptBatchError with the given message.
func NewCorruptBatchError(message string) CorruptBatchError {
	return CorruptBatchError{
		Message: message,
	}
}

// InvalidConfigError is returned when a config fails validation.
type InvalidConfigError struct {
	Message string
}

func (ic InvalidConfigError) Error() string {
	return fmt.Sprintf("%s", ic.Message)
}

// NewInvalidConfigError creates a new instance of InvalidConfigError with the given message.
func NewInvalidConfigError(message string) InvalidConfigError {
	return InvalidConfigError{
		Message: message,
	}
}
