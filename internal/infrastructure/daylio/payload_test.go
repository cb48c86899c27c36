package daylio

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"reflect"
	"testing"
)

const sampleBackup = `{"version": 15, "dayEntries": [{"datetime": 1714557600000, "mood": 2, "note": "hi"}]}`

func zipped(t *testing.T, files map[string]string, order ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip member: %v", err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("write zip member: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractPayloadAcceptsEveryEncoding(t *testing.T) {
	t.Parallel()

	want, err := ExtractPayload([]byte(sampleBackup), "backup.json")
	if err != nil {
		t.Fatalf("raw json: %v", err)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(sampleBackup))
	inputs := map[string][]byte{
		"with BOM":        append([]byte("\xEF\xBB\xBF"), sampleBackup...),
		"base64":          []byte(encoded),
		"quoted base64":   []byte(`"` + encoded + `"`),
		"url-safe base64": []byte(base64.RawURLEncoding.EncodeToString([]byte(sampleBackup))),
		"wrapped base64":  []byte(encoded[:20] + "\n" + encoded[20:] + "\n"),
		"zip of json":     zipped(t, map[string]string{"backup.daylio": sampleBackup}, "backup.daylio"),
		"zip of base64":   zipped(t, map[string]string{"backup.daylio": encoded}, "backup.daylio"),
		"zip json member": zipped(t, map[string]string{"export/data.json": sampleBackup}, "export/data.json"),
	}

	for name, input := range inputs {
		got, err := ExtractPayload(input, "upload.daylio")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: expected %v, got %v", name, want, got)
		}
	}
}

func TestExtractPayloadPrefersBackupMember(t *testing.T) {
	t.Parallel()

	data := zipped(t, map[string]string{
		"other.json":           `{"dayEntries": []}`,
		"nested/backup.daylio": sampleBackup,
	}, "other.json", "nested/backup.daylio")

	got, err := ExtractPayload(data, "export.zip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, _ := got["dayEntries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected the backup.daylio member, got %v", got)
	}
}

func TestExtractPayloadFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{name: "empty", input: []byte("   \n"), want: ErrEmptyPayload},
		{name: "array", input: []byte(`[{"mood": 1}]`), want: ErrUnsupportedFormat},
		{name: "broken json", input: []byte(`{"dayEntries": [`), want: ErrUnsupportedFormat},
		{name: "trailing data", input: []byte(`{"a": 1} {"b": 2}`), want: ErrUnsupportedFormat},
		{name: "no base64 characters", input: []byte(`"!!!"`), want: ErrUnsupportedFormat},
		{name: "base64 of non json", input: []byte(base64.StdEncoding.EncodeToString([]byte("hello world"))), want: ErrUnsupportedFormat},
		{name: "zip without backup", input: zipped(t, map[string]string{"readme.txt": "hi"}, "readme.txt"), want: ErrNoBackupInArchive},
		{name: "truncated zip", input: []byte("PK\x03\x04garbage"), want: ErrUnreadableArchive},
	}

	for _, tc := range tests {
		_, err := ExtractPayload(tc.input, "upload.daylio")
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestReadArchiveMemberRejectsOversizedMember(t *testing.T) {
	t.Parallel()

	data := zipped(t, map[string]string{"backup.daylio": sampleBackup}, "backup.daylio")

	if _, err := readArchiveMember(data, int64(len(sampleBackup))-1); !errors.Is(err, ErrArchiveTooLarge) {
		t.Fatalf("expected ErrArchiveTooLarge, got %v", err)
	}

	member, err := readArchiveMember(data, int64(len(sampleBackup)))
	if err != nil {
		t.Fatalf("unexpected error at the limit: %v", err)
	}
	if string(member) != sampleBackup {
		t.Fatalf("unexpected member: %q", member)
	}
}
