package daylio

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrNoBackupInArchive = errors.New("no Daylio backup file found inside archive")
	ErrEmptyPayload      = errors.New("empty Daylio payload")
	ErrUnsupportedFormat = errors.New("unsupported Daylio backup format")
	ErrUnreadableArchive = errors.New("unreadable backup archive")
	ErrArchiveTooLarge   = errors.New("backup inside archive is too large")
)

const maxArchiveMemberSize = 256 << 20

var archiveSignatures = [][]byte{
	[]byte("PK\x03\x04"),
	[]byte("PK\x05\x06"),
	[]byte("PK\x07\x08"),
}

// ExtractPayload turns an uploaded backup into its top-level JSON object. The
// backup may be raw JSON or base64 encoded JSON, either of them optionally
// wrapped in a zip archive. The filename is only used in error messages.
func ExtractPayload(data []byte, filename string) (map[string]any, error) {
	raw := data
	if isArchive(data) {
		member, err := readArchiveMember(data, maxArchiveMemberSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, filename)
		}
		raw = member
	}

	text := decodeText(raw)
	if text == "" {
		return nil, ErrEmptyPayload
	}

	if text[0] == '{' || text[0] == '[' {
		payload, err := parseObject(text)
		if err != nil {
			return nil, err
		}
		return payload, nil
	}

	cleaned := strings.Trim(text, `"'`)
	decoded, err := decodeBase64Lenient(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: payload is neither JSON nor base64", ErrUnsupportedFormat)
	}
	decodedText := decodeText(decoded)
	if decodedText == "" {
		return nil, fmt.Errorf("%w: decoded payload is empty", ErrEmptyPayload)
	}
	return parseObject(decodedText)
}

func isArchive(data []byte) bool {
	for _, sig := range archiveSignatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

func readArchiveMember(data []byte, limit int64) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrUnreadableArchive
	}

	candidate := selectArchiveMember(zr.File)
	if candidate == nil {
		return nil, ErrNoBackupInArchive
	}

	rc, err := candidate.Open()
	if err != nil {
		return nil, ErrUnreadableArchive
	}
	defer rc.Close()

	member, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, ErrUnreadableArchive
	}
	if int64(len(member)) > limit {
		return nil, ErrArchiveTooLarge
	}
	return member, nil
}

// selectArchiveMember prefers backup.daylio, then any .daylio or .json file.
func selectArchiveMember(files []*zip.File) *zip.File {
	var fallback *zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.ToLower(f.Name)
		if strings.HasSuffix(name, "backup.daylio") {
			return f
		}
		if fallback == nil && (strings.HasSuffix(name, ".daylio") || strings.HasSuffix(name, ".json")) {
			fallback = f
		}
	}
	return fallback
}

// decodeText reads bytes as UTF-8, dropping invalid sequences and a leading BOM.
func decodeText(raw []byte) string {
	valid := bytes.ToValidUTF8(raw, nil)
	decoded, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), valid)
	if err != nil {
		decoded = valid
	}
	return strings.TrimSpace(string(decoded))
}

func parseObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON", ErrUnsupportedFormat)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON document", ErrUnsupportedFormat)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level JSON value must be an object", ErrUnsupportedFormat)
	}
	return obj, nil
}

// decodeBase64Lenient discards characters outside the base64 alphabets and
// tolerates missing padding.
func decodeBase64Lenient(s string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '/':
			b.WriteRune(r)
		case r == '-':
			b.WriteByte('+')
		case r == '_':
			b.WriteByte('/')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil, errors.New("no base64 data")
	}
	if len(cleaned)%4 == 1 {
		cleaned = cleaned[:len(cleaned)-1]
	}
	return base64.RawStdEncoding.DecodeString(cleaned)
}
