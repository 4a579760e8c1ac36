// Package fsutil reads source files for gobqlint. It decodes file content
// into text and records enough metadata to detect later modification.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Supported source encodings.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNilFileInfo is returned when a nil FileInfo is passed.
	ErrNilFileInfo = errors.New("nil FileInfo")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrUnknownEncoding indicates an unsupported source encoding name.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrInvalidEncoding indicates content that is not valid in the
	// requested encoding.
	ErrInvalidEncoding = errors.New("invalid encoding")
)

// FileInfo captures the state of a file at a point in time.
// Watch mode uses it to skip files whose content did not change.
type FileInfo struct {
	// Path is the path as given by the caller.
	Path string

	// Mode is the file's permission and mode bits.
	Mode os.FileMode

	// ModTime is the file's modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64

	// Hash is the SHA-256 hash of the file content.
	Hash [32]byte
}

// ReadFile reads a file and returns its content along with metadata.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
		}
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
		}
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	info := &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}

	return content, info, nil
}

// ReadSource reads a file and decodes it as text in the given encoding.
func ReadSource(ctx context.Context, path, encoding string) (string, *FileInfo, error) {
	content, info, err := ReadFile(ctx, path)
	if err != nil {
		return "", nil, err
	}

	text, err := Decode(content, encoding)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return text, info, nil
}

// Decode converts raw file content into a string. An empty encoding
// means utf-8. A leading UTF-8 byte order mark is dropped.
func Decode(content []byte, encoding string) (string, error) {
	switch NormalizeEncoding(encoding) {
	case EncodingUTF8:
		if !utf8.Valid(content) {
			return "", fmt.Errorf("%w: content is not valid utf-8", ErrInvalidEncoding)
		}
		return strings.TrimPrefix(string(content), "\uFEFF"), nil
	case EncodingLatin1:
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
	}
}

// NormalizeEncoding maps accepted spellings of an encoding name to its
// canonical form. Unknown names are returned lowercased.
func NormalizeEncoding(encoding string) string {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1
	default:
		return strings.ToLower(encoding)
	}
}

// CheckModified returns true if the file has been modified since the given FileInfo.
//
// The check uses a two-tier approach:
//  1. Quick check: compare mod time and size
//  2. Hash check: re-read and hash content
func CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check modified: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		if os.IsNotExist(err) {
			// File was deleted - that's a modification.
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	}

	if !stat.ModTime().Equal(info.ModTime) || stat.Size() != info.Size {
		return true, nil
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}

	return sha256.Sum256(content) != info.Hash, nil
}

// Stat returns FileInfo for path, hashing its current content.
func Stat(ctx context.Context, path string) (*FileInfo, error) {
	_, info, err := ReadFile(ctx, path)
	return info, err
}
