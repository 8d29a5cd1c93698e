// Package errors provides structured error handling for the storage core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Storage infrastructure errors
	CodeIO         Code = "IO_ERROR"
	CodeLocked     Code = "LOCK_ERROR"
	CodePoolClosed Code = "POOL_CLOSED"
	CodeTimeout    Code = "TIMEOUT"
	CodeCancelled  Code = "CANCELLED"

	// Data-level errors
	CodeConflict Code = "CONFLICT"
	CodeNotFound Code = "NOT_FOUND"
	CodeDecode   Code = "DECODE"

	// Startup errors
	CodeMigrationFailed Code = "MIGRATION_FAILED"
	CodeSchemaTooNew    Code = "SCHEMA_TOO_NEW"
	CodeSchemaGap       Code = "SCHEMA_GAP"

	// Campaign catalog errors
	CodeCampaignNameEmpty   Code = "CAMPAIGN_NAME_EMPTY"
	CodeCampaignNameInvalid Code = "CAMPAIGN_NAME_INVALID"

	// Record validation errors
	CodeSessionTitleEmpty   Code = "SESSION_TITLE_EMPTY"
	CodeEmpireNameEmpty     Code = "EMPIRE_NAME_EMPTY"
	CodeSystemNameEmpty     Code = "SYSTEM_NAME_EMPTY"
	CodeFleetNameEmpty      Code = "FLEET_NAME_EMPTY"
	CodeShipClassEmpty      Code = "SHIP_CLASS_EMPTY"
	CodeGroundTypeNameEmpty Code = "GROUND_TYPE_NAME_EMPTY"
	CodeRecordIDPreset      Code = "RECORD_ID_PRESET"
	CodeAuditEventInvalid   Code = "AUDIT_EVENT_INVALID"
	CodeImportRowInvalid    Code = "IMPORT_ROW_INVALID"
)

// Retryable reports whether an operation failing with this code may be
// retried by the caller without operator intervention.
func (c Code) Retryable() bool {
	switch c {
	case CodeLocked, CodeTimeout, CodeCancelled:
		return true
	}
	return false
}

// Fatal reports whether this code must abort process start.
func (c Code) Fatal() bool {
	switch c {
	case CodeMigrationFailed, CodeSchemaTooNew, CodeSchemaGap:
		return true
	}
	return false
}
