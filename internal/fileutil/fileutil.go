package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// OwnerReadWrite is the file permission mode for spec output files
// containing potentially sensitive API data (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for files intended to be read
// by other users and tools.
const ReadableByAll os.FileMode = 0o644

// Encoding names reported by DetectEncoding.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-sig"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1252 = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding inspects data for a byte order mark. Without one, valid
// UTF-8 (which includes plain ASCII) is reported as utf-8 and anything else
// as windows-1252.
func DetectEncoding(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(data):
		return EncodingUTF8
	default:
		return EncodingWindows1252
	}
}

// Decode converts data to a UTF-8 string. An empty name means detect the
// encoding first. The name of the encoding actually used is returned.
func Decode(data []byte, name string) (string, string, error) {
	if name == "" {
		name = DetectEncoding(data)
	}
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", name, err
	}
	if enc == nil {
		return string(data), name, nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", name, fmt.Errorf("fileutil: failed to decode %s text: %w", name, err)
	}
	return string(out), name, nil
}

// lookupEncoding returns nil for UTF-8 without BOM, which needs no decoding.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case EncodingUTF8, "utf8":
		return nil, nil
	case EncodingUTF8BOM:
		return unicode.UTF8BOM, nil
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), nil
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("fileutil: unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// ReadText reads a file and decodes it to a UTF-8 string, detecting the
// encoding when name is empty.
func ReadText(path, name string) (string, string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304 - path comes from a resolved reference
	if err != nil {
		return "", "", err
	}
	return Decode(data, name)
}

// WriteFile writes data with owner-only permissions.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, OwnerReadWrite)
}

// CanonicalFilename returns the absolute form of name with all symbolic
// links dereferenced. Paths that do not exist yet are returned absolute but
// otherwise untouched.
func CanonicalFilename(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}

// AbsPath resolves path against base. A base that is an existing directory is
// used as is; otherwise its parent directory is used. Absolute paths ignore base.
func AbsPath(path, base string) (string, error) {
	if filepath.IsAbs(path) {
		return CanonicalFilename(path)
	}
	dir := base
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		dir = filepath.Dir(base)
	}
	return CanonicalFilename(filepath.Join(dir, path))
}
