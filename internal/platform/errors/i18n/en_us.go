package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeFinalized             = "WORLD_FINALIZED"
	CodeRegression            = "WORLD_STATE_REGRESSION"
	CodeEventTypeInvalid      = "EVENT_TYPE_INVALID"
	CodeAlreadyExists         = "BEING_ALREADY_EXISTS"
	CodeNotOwner              = "BEING_NOT_OWNER"
	CodeOwnerEmpty            = "BEING_OWNER_EMPTY"
	CodeUnknownRequest        = "DIALOGUE_UNKNOWN_REQUEST"
	CodeContentConflict       = "DIALOGUE_CONTENT_CONFLICT"
	CodeNPCInactive           = "NPC_INACTIVE"
	CodeInsufficientFragments = "EPOCH_INSUFFICIENT_FRAGMENTS"
	CodeAtTerminal            = "EPOCH_AT_TERMINAL"
	CodeGovernorGrantInvalid  = "GOVERNOR_GRANT_INVALID"
	CodeGovernorGrantMismatch = "GOVERNOR_GRANT_MISMATCH"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Ledger errors
		CodeNotFound:         "The requested record was not found",
		CodeFinalized:        "The world has been finalized and no longer accepts changes",
		CodeRegression:       "World state can only move forward",
		CodeEventTypeInvalid: "Invalid event type specified",

		// Being errors
		CodeAlreadyExists: "This identity already has a digital being",
		CodeNotOwner:      "Only the owner may act on this digital being",
		CodeOwnerEmpty:    "Owner identity is required",

		// Dialogue errors
		CodeUnknownRequest:  "No interaction exists for request {{.RequestID}}",
		CodeContentConflict: "Dialogue content for request {{.RequestID}} diverges from the stored payload",
		CodeNPCInactive:     "NPC {{.NPCID}} is not active",

		// Epoch errors
		CodeInsufficientFragments: "Need {{.Need}} memory fragments to advance, have {{.Have}}",
		CodeAtTerminal:            "The final epoch has been reached",

		// Governor grant errors
		CodeGovernorGrantInvalid:  "Governor grant is missing or malformed",
		CodeGovernorGrantMismatch: "Governor grant does not match this world",
	},
}
