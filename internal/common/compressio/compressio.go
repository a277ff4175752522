// Package compressio transparently compresses and decompresses, using
// Snappy block compression, the rule/URL input files the CLI reads and the
// generated rule/URL fixture files it writes with datagen.
package compressio

import (
	"fmt"
	"strings"

	"github.com/klauspost/compress/snappy"
)

// Ext is the file extension applied to Snappy-compressed output.
const Ext = ".snappy"

// Compress encodes content with Snappy.
func Compress(content []byte) []byte {
	return snappy.Encode(nil, content)
}

// Decompress decodes Snappy-compressed content.
func Decompress(content []byte) ([]byte, error) {
	decoded, err := snappy.Decode(nil, content)
	if err != nil {
		return nil, fmt.Errorf("snappy decompression failed: %w", err)
	}
	return decoded, nil
}

// IsCompressed reports whether path carries the Snappy extension.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, Ext)
}
