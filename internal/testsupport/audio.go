package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// id3Header is an empty ID3v2.4 tag, followed by MPEG-1 Layer III frame
// headers so the file sniffs as MP3.
var (
	id3Header = []byte{'I', 'D', '3', 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	mp3Frame  = []byte{0xFF, 0xFB, 0x90, 0x64}
)

// WriteAudio writes a fake MP3 of exactly size bytes to path, creating parent
// directories. Sizes smaller than the tag header are raised to it.
func WriteAudio(t testing.TB, path string, size int) {
	t.Helper()

	if size < len(id3Header) {
		size = len(id3Header)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	body := append(bytes.Clone(id3Header), bytes.Repeat(mp3Frame, size/len(mp3Frame)+1)...)
	if err := os.WriteFile(path, body[:size], 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
