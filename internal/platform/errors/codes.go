package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Ledger errors
	CodeNotFound         Code = "NOT_FOUND"
	CodeFinalized        Code = "WORLD_FINALIZED"
	CodeRegression       Code = "WORLD_STATE_REGRESSION"
	CodeEventTypeInvalid Code = "EVENT_TYPE_INVALID"

	// Being errors
	CodeAlreadyExists Code = "BEING_ALREADY_EXISTS"
	CodeNotOwner      Code = "BEING_NOT_OWNER"
	CodeOwnerEmpty    Code = "BEING_OWNER_EMPTY"

	// Dialogue errors
	CodeUnknownRequest  Code = "DIALOGUE_UNKNOWN_REQUEST"
	CodeContentConflict Code = "DIALOGUE_CONTENT_CONFLICT"
	CodeNPCInactive     Code = "NPC_INACTIVE"

	// Epoch errors
	CodeInsufficientFragments Code = "EPOCH_INSUFFICIENT_FRAGMENTS"
	CodeAtTerminal            Code = "EPOCH_AT_TERMINAL"

	// Governor grant errors
	CodeGovernorGrantInvalid  Code = "GOVERNOR_GRANT_INVALID"
	CodeGovernorGrantMismatch Code = "GOVERNOR_GRANT_MISMATCH"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeEventTypeInvalid,
		CodeOwnerEmpty:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeFinalized,
		CodeRegression,
		CodeUnknownRequest,
		CodeNPCInactive,
		CodeInsufficientFragments,
		CodeAtTerminal:
		return codes.FailedPrecondition

	// Aborted - concurrent writers disagree about a key
	case CodeContentConflict:
		return codes.Aborted

	case CodeNotFound:
		return codes.NotFound

	case CodeAlreadyExists:
		return codes.AlreadyExists

	case CodeNotOwner,
		CodeGovernorGrantMismatch:
		return codes.PermissionDenied

	case CodeGovernorGrantInvalid:
		return codes.Unauthenticated

	default:
		return codes.Internal
	}
}
