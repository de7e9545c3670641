// Package export pulls the chat transcript out of an uploaded export file.
package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .txt nor .zip.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoChatFile is returned when a zip archive holds no .txt entry.
	ErrNoChatFile = errors.New("archive contains no chat file")
	// ErrEmptyText is returned when the transcript has no content.
	ErrEmptyText = errors.New("chat file is empty")
	// ErrEntryTooLarge is returned when a zip entry decompresses past MaxEntrySize.
	ErrEntryTooLarge = errors.New("chat file too large")
)

// MaxEntrySize caps the decompressed size of the chat entry in a zip.
const MaxEntrySize = 256 << 20

// chatFileName is the transcript name the platform writes into its archives.
const chatFileName = "_chat.txt"

// Extract returns the UTF-8 transcript contained in data. A .txt file is
// decoded directly; a .zip is searched for _chat.txt, then for any .txt.
func Extract(filename string, data []byte) (string, error) {
	var raw []byte
	switch strings.ToLower(path.Ext(filename)) {
	case ".txt":
		raw = data
	case ".zip":
		var err error
		raw, err = fromZip(data)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path.Ext(filename))
	}

	text, err := Decode(raw)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// Decode converts raw bytes to UTF-8. A UTF-8 or UTF-16 byte order mark
// selects the encoding and is removed; without one UTF-8 is assumed and
// invalid sequences become U+FFFD.
func Decode(raw []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", fmt.Errorf("decode chat file: %w", err)
	}
	return string(out), nil
}

func fromZip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid zip archive: %v", ErrUnsupportedFormat, err)
	}

	entry := pickEntry(zr.File)
	if entry == nil {
		return nil, ErrNoChatFile
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", entry.Name, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Name, err)
	}
	if len(raw) > MaxEntrySize {
		return nil, ErrEntryTooLarge
	}
	return raw, nil
}

// pickEntry prefers the platform's own transcript name over any other text
// file. Directories and resource-fork entries are ignored.
func pickEntry(files []*zip.File) *zip.File {
	var fallback *zip.File
	for _, f := range files {
		name := strings.ToLower(f.Name)
		if f.FileInfo().IsDir() || strings.HasPrefix(name, "__macosx/") || !strings.HasSuffix(name, ".txt") {
			continue
		}
		if strings.HasSuffix(name, chatFileName) {
			return f
		}
		if fallback == nil {
			fallback = f
		}
	}
	return fallback
}
