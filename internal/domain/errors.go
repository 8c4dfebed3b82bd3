package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "registro não encontrado"
	}
	return fmt.Sprintf("%s não encontrado(a)", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	switch {
	case e.Msg != "" && e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("%s inválido", e.Field)
	default:
		return "dados inválidos"
	}
}

func (e ValidationError) Unwrap() error { return e.Err }

// AvailabilityError reports a vehicle/date combination that is no longer free.
// The caller must re-query availability; retrying the same request is useless.
type AvailabilityError struct {
	VehicleID int64
	Msg       string
}

func (e AvailabilityError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("veículo %d não está disponível para o período", e.VehicleID)
}

// ConcurrencyError marks a transient transaction failure (lock not acquired,
// expected row mutated or missing mid-transaction). Safe to retry.
type ConcurrencyError struct {
	Msg string
	Err error
}

func (e ConcurrencyError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "conflito de concorrência, tente novamente"
}

func (e ConcurrencyError) Unwrap() error { return e.Err }

// IntegrityError reports a refused soft-delete or state change that would
// orphan active dependents. No partial effect is applied.
type IntegrityError struct {
	Resource string
	Msg      string
}

func (e IntegrityError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	default:
		return "operação violaria a integridade dos dados"
	}
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("conflito em %s", e.Resource)
	default:
		return "conflito"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// DocumentError wraps a contract/receipt generation failure. It always aborts
// the surrounding transaction.
type DocumentError struct {
	Doc string
	Err error
}

func (e DocumentError) Error() string {
	if e.Doc != "" {
		return fmt.Sprintf("falha ao gerar %s: %v", e.Doc, e.Err)
	}
	return fmt.Sprintf("falha ao gerar documento: %v", e.Err)
}

func (e DocumentError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "erro interno"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsAvailability(err error) bool {
	var target AvailabilityError
	return errors.As(err, &target)
}

func IsConcurrency(err error) bool {
	var target ConcurrencyError
	return errors.As(err, &target)
}

func IsIntegrity(err error) bool {
	var target IntegrityError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsDocument(err error) bool {
	var target DocumentError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
