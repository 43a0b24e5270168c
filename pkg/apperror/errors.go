// Package apperror defines the error vocabulary of the routing service:
// coded errors with severity and optional field context, a validation
// collector, and gRPC status conversion.
package apperror

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode identifies one failure class.
type ErrorCode string

const (
	// Request validation
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeInvalidLocode     ErrorCode = "INVALID_LOCODE"
	CodeSameEndpoints     ErrorCode = "SAME_ENDPOINTS"
	CodeInvalidVessel     ErrorCode = "INVALID_VESSEL"
	CodeInvalidCriterion  ErrorCode = "INVALID_CRITERION"
	CodePastDeparture     ErrorCode = "PAST_DEPARTURE"
	CodeOutOfRange        ErrorCode = "OUT_OF_RANGE"
	CodeInvalidCoordinate ErrorCode = "INVALID_COORDINATE"

	// Port resolution
	CodePortNotFound  ErrorCode = "PORT_NOT_FOUND"
	CodePortInactive  ErrorCode = "PORT_INACTIVE"
	CodePortsNotReady ErrorCode = "PORTS_NOT_READY"

	// Routing
	CodeVesselConstraint ErrorCode = "VESSEL_CONSTRAINT"
	CodeNoRoute          ErrorCode = "NO_ROUTE"
	CodeCanalRestricted  ErrorCode = "CANAL_RESTRICTED"
	CodeSegmentRejected  ErrorCode = "SEGMENT_REJECTED"

	// Cost model
	CodeInvalidDistance ErrorCode = "INVALID_DISTANCE"
	CodeInvalidSpeed    ErrorCode = "INVALID_SPEED"
	CodeInvalidFactor   ErrorCode = "INVALID_FACTOR"

	// Infrastructure
	CodeTimeout   ErrorCode = "CALCULATION_TIMEOUT"
	CodeUpstream  ErrorCode = "UPSTREAM_FAILURE"
	CodeCacheMiss ErrorCode = "CACHE_MISS"

	// General
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNilInput        ErrorCode = "NIL_INPUT"
	CodeUnimplemented   ErrorCode = "UNIMPLEMENTED"
)

// Severity grades how seriously an error should be treated.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityCritical
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is the coded error type used across the service.
type Error struct {
	Code     ErrorCode
	Message  string
	Field    string // input field that caused the error, when known
	Details  map[string]any
	Cause    error
	Severity Severity
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// GRPCStatus converts the error into a gRPC status.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.grpcCode(), e.Message)
}

// grpcCode maps the error code onto the gRPC code space.
func (e *Error) grpcCode() codes.Code {
	switch e.Code {
	case CodeValidation, CodeInvalidLocode, CodeSameEndpoints, CodeInvalidVessel,
		CodeInvalidCriterion, CodePastDeparture, CodeOutOfRange, CodeInvalidCoordinate,
		CodeInvalidDistance, CodeInvalidSpeed, CodeInvalidFactor,
		CodeInvalidArgument, CodeNilInput:
		return codes.InvalidArgument

	case CodeVesselConstraint, CodeNoRoute, CodeCanalRestricted,
		CodeSegmentRejected, CodePortsNotReady:
		return codes.FailedPrecondition

	case CodePortNotFound, CodePortInactive, CodeNotFound, CodeCacheMiss:
		return codes.NotFound

	case CodeTimeout:
		return codes.DeadlineExceeded

	case CodeUpstream:
		return codes.Unavailable

	case CodeUnimplemented:
		return codes.Unimplemented

	default:
		return codes.Internal
	}
}

// New creates an error with SeverityError.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// NewWithField creates an error bound to an input field.
func NewWithField(code ErrorCode, message, field string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Field:    field,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// NewWarning creates an error with SeverityWarning.
func NewWarning(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityWarning,
	}
}

// NewCritical creates an error with SeverityCritical.
func NewCritical(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityCritical,
	}
}

// Wrap creates an error that records cause for later unwrapping.
func Wrap(cause error, code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Cause:    cause,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// WithDetails attaches a structured detail and returns the error.
func (e *Error) WithDetails(key string, value any) *Error {
	e.Details[key] = value
	return e
}

// WithField records the offending input field and returns the error.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithSeverity overrides the severity and returns the error.
func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Code extracts the ErrorCode from err, or CodeInternal for foreign errors.
func Code(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsValidation reports whether the error belongs to the request-validation family.
func IsValidation(err error) bool {
	switch Code(err) {
	case CodeValidation, CodeInvalidLocode, CodeSameEndpoints, CodeInvalidVessel,
		CodeInvalidCriterion, CodePastDeparture, CodeOutOfRange, CodeInvalidCoordinate:
		return true
	}
	return false
}

// ToGRPC converts any error into a gRPC status error. Coded errors map
// through GRPCStatus, existing status errors pass through, everything else
// becomes Internal.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.GRPCStatus().Err()
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	return status.Error(codes.Internal, err.Error())
}

// FromGRPC converts a gRPC status error back into a coded error, defaulting
// to CodeInternal for codes without a domain meaning.
func FromGRPC(err error) *Error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return New(CodeInternal, err.Error())
	}

	var code ErrorCode
	switch st.Code() {
	case codes.InvalidArgument:
		code = CodeValidation
	case codes.NotFound:
		code = CodePortNotFound
	case codes.DeadlineExceeded:
		code = CodeTimeout
	case codes.Unavailable:
		code = CodeUpstream
	case codes.FailedPrecondition:
		code = CodeNoRoute
	default:
		code = CodeInternal
	}

	return New(code, st.Message())
}

// IsWarning reports whether err is a coded warning.
func IsWarning(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Severity == SeverityWarning
	}
	return false
}

// IsCritical reports whether err is a coded critical error.
func IsCritical(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Severity == SeverityCritical
	}
	return false
}

// Predefined errors for common scenarios.
var (
	ErrSameEndpoints = New(CodeSameEndpoints, "origin and destination cannot be the same")
	ErrPortNotFound  = New(CodePortNotFound, "port not found")
	ErrPortInactive  = New(CodePortInactive, "port is not operational")
	ErrNoRoute       = New(CodeNoRoute, "no feasible route between ports")
	ErrTimeout       = New(CodeTimeout, "route calculation timed out")
	ErrUpstream      = New(CodeUpstream, "port store unavailable")
	ErrNilVessel     = New(CodeNilInput, "vessel constraints are nil")
	ErrCacheMiss     = New(CodeCacheMiss, "cache entry not found")
)

// ValidationErrors aggregates the results of a validation pass. Warnings
// are kept apart so they never fail a request.
type ValidationErrors struct {
	Errors   []*Error
	Warnings []*Error
}

// NewValidationErrors returns an empty collector.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors:   make([]*Error, 0),
		Warnings: make([]*Error, 0),
	}
}

// Add files err under errors or warnings depending on its severity.
func (v *ValidationErrors) Add(err *Error) {
	if err.Severity == SeverityWarning {
		v.Warnings = append(v.Warnings, err)
	} else {
		v.Errors = append(v.Errors, err)
	}
}

// AddError collects a new error.
func (v *ValidationErrors) AddError(code ErrorCode, message string) {
	v.Errors = append(v.Errors, New(code, message))
}

// AddWarning collects a new warning.
func (v *ValidationErrors) AddWarning(code ErrorCode, message string) {
	v.Warnings = append(v.Warnings, NewWarning(code, message))
}

// AddErrorWithField collects a new error bound to an input field.
func (v *ValidationErrors) AddErrorWithField(code ErrorCode, message, field string) {
	v.Errors = append(v.Errors, NewWithField(code, message, field))
}

// HasErrors reports whether any errors were collected.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// HasWarnings reports whether any warnings were collected.
func (v *ValidationErrors) HasWarnings() bool {
	return len(v.Warnings) > 0
}

// IsValid reports whether validation passed; warnings do not count.
func (v *ValidationErrors) IsValid() bool {
	return !v.HasErrors()
}

// First returns the first collected error, or nil when the collection is valid.
func (v *ValidationErrors) First() *Error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v.Errors[0]
}

// Merge appends everything collected by other.
func (v *ValidationErrors) Merge(other *ValidationErrors) {
	if other == nil {
		return
	}
	v.Errors = append(v.Errors, other.Errors...)
	v.Warnings = append(v.Warnings, other.Warnings...)
}

// ErrorMessages renders the collected errors.
func (v *ValidationErrors) ErrorMessages() []string {
	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// WarningMessages renders the collected warning texts.
func (v *ValidationErrors) WarningMessages() []string {
	messages := make([]string, len(v.Warnings))
	for i, warn := range v.Warnings {
		messages[i] = warn.Message
	}
	return messages
}
