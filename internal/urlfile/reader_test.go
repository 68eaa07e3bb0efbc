package urlfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestRead_SkipsCommentsAndBlanks(t *testing.T) {
	path := writeTemp(t, []byte("# header\n\nhttps://example.com\n  \n# trailing\nhttps://example.org\n"))

	urls, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	want := []string{"https://example.com", "https://example.org"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("got %v, want %v", urls, want)
	}
}

func TestRead_DefaultsSchemelessToHTTP(t *testing.T) {
	path := writeTemp(t, []byte("example.com\nhttps://secure.example.com\n"))

	urls, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	want := []string{"http://example.com", "https://secure.example.com"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("got %v, want %v", urls, want)
	}
}

func TestRead_PreservesOrderAndDuplicates(t *testing.T) {
	path := writeTemp(t, []byte("https://b.example\nhttps://a.example\nhttps://b.example\n"))

	urls, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	want := []string{"https://b.example", "https://a.example", "https://b.example"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("got %v, want %v", urls, want)
	}
}

func TestRead_UTF8BOM(t *testing.T) {
	path := writeTemp(t, append([]byte{0xEF, 0xBB, 0xBF}, []byte("https://example.com\n")...))

	urls, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://example.com" {
		t.Errorf("got %v", urls)
	}
}

func TestRead_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, _, err := transform.Bytes(enc, []byte("https://example.com\nhttps://example.org\n"))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	path := writeTemp(t, data)

	urls, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := []string{"https://example.com", "https://example.org"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("got %v, want %v", urls, want)
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRead_EmptyFile(t *testing.T) {
	urls, err := Read(writeTemp(t, nil))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("expected no URLs, got %v", urls)
	}
}
