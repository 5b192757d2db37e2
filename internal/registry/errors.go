package registry

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField = errors.New("registry: unknown field")
	ErrInvalidCode  = errors.New("registry: invalid code")
	ErrSchema       = errors.New("registry: schema defect")
	ErrVersion      = errors.New("registry: version mismatch")
)

// UnknownFieldError reports a (namespace, kind, name) triple with no entry.
type UnknownFieldError struct {
	Namespace Namespace
	Kind      Kind
	Name      string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf(
		"registry: namespace=%s kind=%s name=%s: unknown field",
		e.Namespace,
		e.Kind,
		e.Name,
	)
}

func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// InvalidCodeError reports a code outside [0, Count) for its code space.
type InvalidCodeError struct {
	Namespace Namespace
	Kind      Kind
	Code      int
	Count     int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf(
		"registry: namespace=%s kind=%s code=%d: invalid code (valid range [0,%d))",
		e.Namespace,
		e.Kind,
		e.Code,
		e.Count,
	)
}

func (e *InvalidCodeError) Is(target error) bool {
	return target == ErrInvalidCode
}

// SchemaError is a defect in a field table found during validation.
// Code is -1 when the defect is not tied to a single code.
type SchemaError struct {
	Space  Space
	Name   string
	Code   int
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("registry: space=%s name=%s code=%d: %s", e.Space, e.Name, e.Code, e.Reason)
	case e.Code >= 0:
		return fmt.Sprintf("registry: space=%s code=%d: %s", e.Space, e.Code, e.Reason)
	default:
		return fmt.Sprintf("registry: space=%s: %s", e.Space, e.Reason)
	}
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// VersionError reports a firmware version that cannot talk to this schema.
type VersionError struct {
	Version string
	Want    string
	Reason  string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("registry: firmware=%q api=%s: %s", e.Version, e.Want, e.Reason)
}

func (e *VersionError) Is(target error) bool {
	return target == ErrVersion
}
