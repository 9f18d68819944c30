package settings

import "errors"

var (
	ErrNotFound = errors.New("settings_not_found")
	ErrVersion  = errors.New("settings_version_mismatch")
	ErrSize     = errors.New("settings_size_mismatch")
	ErrChecksum = errors.New("settings_checksum_mismatch")
	ErrTooLarge = errors.New("settings_blob_too_large")
)
