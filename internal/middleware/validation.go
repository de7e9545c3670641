package middleware

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/oklog/ulid/v2"
)

// Validation limits.
const (
	// MaxFilenameLength is the maximum length of an uploaded file name.
	MaxFilenameLength = 255

	// MaxShareTokenLength bounds share tokens before any decoding.
	MaxShareTokenLength = 512
)

// Validation errors.
var (
	ErrReportIDInvalid   = errors.New("report ID is not a valid ULID")
	ErrShareTokenInvalid = errors.New("share token is malformed")
	ErrFilenameMissing   = errors.New("file name is required")
	ErrFilenameTooLong   = errors.New("file name exceeds maximum length")
	ErrFilenameInvalid   = errors.New("file name contains control characters")
	ErrFileTypeInvalid   = errors.New("file must be a .txt or .zip export")
)

// AllowedUploadExtensions are the export formats accepted for upload.
var AllowedUploadExtensions = map[string]bool{
	".txt": true,
	".zip": true,
}

// ValidateReportID checks that id is a canonical ULID.
func ValidateReportID(id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return ErrReportIDInvalid
	}
	return nil
}

// ValidateShareToken rejects tokens that cannot be payload.signature.
// Signature checks happen in the share package.
func ValidateShareToken(token string) error {
	if token == "" || len(token) > MaxShareTokenLength {
		return ErrShareTokenInvalid
	}
	payload, sig, ok := strings.Cut(token, ".")
	if !ok || payload == "" || sig == "" {
		return ErrShareTokenInvalid
	}
	for _, r := range token {
		if !isTokenRune(r) {
			return ErrShareTokenInvalid
		}
	}
	return nil
}

func isTokenRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.')
}

// ValidateUploadFilename checks the multipart file name of an upload.
func ValidateUploadFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrFilenameMissing
	}
	if len(name) > MaxFilenameLength {
		return ErrFilenameTooLong
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return ErrFilenameInvalid
		}
	}
	if !AllowedUploadExtensions[strings.ToLower(filepath.Ext(name))] {
		return ErrFileTypeInvalid
	}
	return nil
}
