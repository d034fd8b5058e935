package inventory

import "codeberg.org/mutker/ledmatrixctl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("inventory_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("inventory_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("inventory_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("inventory_schema_migration_failed")

	// Storage Errors
	ErrStorageAccess = errors.ErrorCode("inventory_storage_access_failed")
	ErrStorageInit   = errors.ErrInitFailed
	ErrStorageClose  = errors.ErrShutdownFailed

	// Record Errors
	ErrInvalidPanel = errors.ErrorCode("inventory_invalid_panel")

	ErrOperationTimeout = errors.ErrTimeout
)
