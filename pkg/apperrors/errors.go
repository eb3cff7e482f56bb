package apperrors

import "errors"

var (
	ErrImportNotFound         = errors.New("import not found")
	ErrEmptyFile              = errors.New("file is empty or contains no valid data")
	ErrUnsupportedFormat      = errors.New("unsupported file format")
	ErrMappingIndexOutOfRange = errors.New("mapping index out of range")
	ErrNoMappings             = errors.New("no field mappings resolved yet")
	ErrNoRecords              = errors.New("no records to process")
)
