package compressio

import (
	"bytes"
	"testing"
)

func TestCompressThenDecompressRoundTrips(t *testing.T) {
	original := []byte(`[{"name":"test","priority":1,"conditions":[],"result":"x"}]`)

	compressed := Compress(original)
	decompressed, err := Decompress(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Fatalf("got %q, want %q", decompressed, original)
	}
}

func TestIsCompressedChecksExtension(t *testing.T) {
	if !IsCompressed("rules.json.snappy") {
		t.Error("expected .snappy path to be detected as compressed")
	}
	if IsCompressed("rules.json") {
		t.Error("expected .json path to not be detected as compressed")
	}
}

func TestDecompressInvalidDataReturnsError(t *testing.T) {
	if _, err := Decompress([]byte("not snappy data")); err == nil {
		t.Fatal("expected error decompressing invalid data")
	}
}
