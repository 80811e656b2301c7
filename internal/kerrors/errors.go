// Package kerrors defines the kernel's uniform error-kind taxonomy.
// Every error the kernel surface raises carries a Kind, the path in
// question when applicable, and the source tag supplied to the failing
// call, matching the error shape in the design kernel specification.
package kerrors

import "errors"

// Sentinel errors, one per error kind. Wrap with fmt.Errorf("%w: ...", ...)
// or attach via *KernelError so callers can errors.Is against these.
var (
	// ErrInvalidPath indicates the schema does not declare the given path.
	ErrInvalidPath = errors.New("invalid path")
	// ErrMutationEnforcement indicates a refinable path was written without
	// an active transaction.
	ErrMutationEnforcement = errors.New("mutation enforcement: refinable path written outside a transaction")
	// ErrTxnInProgress indicates begin was called while another transaction
	// is already active.
	ErrTxnInProgress = errors.New("transaction already in progress")
	// ErrContractDefinition indicates a phase contract references a path
	// that is not in the schema. This is a programmer error, not a data
	// issue, and is always raised to the caller.
	ErrContractDefinition = errors.New("contract definition error")
	// ErrSynthesisLock indicates a lock acquire/release/write misuse.
	ErrSynthesisLock = errors.New("synthesis lock error")
	// ErrValidator indicates an infrastructure exception was thrown inside
	// a validator's Run, as distinct from the validator reporting a failed
	// result (which is not an error at all).
	ErrValidator = errors.New("validator infrastructure error")
	// ErrUnknownPhase indicates a phase name not present in the registry.
	ErrUnknownPhase = errors.New("unknown phase")
)

// Kind names an error kind for inclusion in the uniform error shape.
type Kind string

const (
	KindInvalidPath         Kind = "InvalidPath"
	KindMutationEnforcement Kind = "MutationEnforcement"
	KindTxnInProgress       Kind = "TxnInProgress"
	KindContractDefinition  Kind = "ContractDefinitionError"
	KindSynthesisLock       Kind = "SynthesisLockError"
	KindValidator           Kind = "ValidatorError"
	KindUnknownPhase        Kind = "UnknownPhase"
)

// KernelError is the uniform error shape: a kind, message, the path in
// question (if any), and the source tag supplied to the failing call.
type KernelError struct {
	Kind    Kind
	Path    string
	Source  string
	Message string
	cause   error
}

func (e *KernelError) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Path != "" {
		msg += " (path=" + e.Path + ")"
	}
	if e.Source != "" {
		msg += " (source=" + e.Source + ")"
	}
	return msg
}

// Unwrap lets callers use errors.Is(err, kerrors.ErrInvalidPath) etc.
func (e *KernelError) Unwrap() error {
	return e.cause
}

func newErr(kind Kind, cause error, path, source, message string) *KernelError {
	return &KernelError{Kind: kind, Path: path, Source: source, Message: message, cause: cause}
}

// InvalidPath builds an InvalidPath KernelError for the given path.
func InvalidPath(path, source string) *KernelError {
	return newErr(KindInvalidPath, ErrInvalidPath, path, source, "path is not declared in the schema")
}

// MutationEnforcement builds a MutationEnforcement KernelError naming the
// refinable path and the source tag that attempted the write.
func MutationEnforcement(path, source string) *KernelError {
	return newErr(KindMutationEnforcement, ErrMutationEnforcement, path, source,
		"refinable path written with no active transaction; frame the mutation as a transaction")
}

// TxnInProgress builds a TxnInProgress KernelError.
func TxnInProgress(source string) *KernelError {
	return newErr(KindTxnInProgress, ErrTxnInProgress, "", source, "a transaction is already active")
}

// ContractDefinition builds a ContractDefinitionError KernelError listing
// the offending paths.
func ContractDefinition(phase string, badPaths []string) *KernelError {
	msg := "phase " + phase + " contract references paths not in the schema: "
	for i, p := range badPaths {
		if i > 0 {
			msg += ", "
		}
		msg += p
	}
	return newErr(KindContractDefinition, ErrContractDefinition, "", phase, msg)
}

// SynthesisLock builds a SynthesisLockError KernelError.
func SynthesisLock(owner, attemptedBy, message string) *KernelError {
	return newErr(KindSynthesisLock, ErrSynthesisLock, "", attemptedBy, message+" (held by "+owner+")")
}

// UnknownPhase builds an UnknownPhase KernelError.
func UnknownPhase(name string) *KernelError {
	return newErr(KindUnknownPhase, ErrUnknownPhase, "", name, "phase not registered")
}
