package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "voice.mp3")
	WriteAudio(t, path, 100)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) != 100 {
		t.Fatalf("size = %d, want 100", len(data))
	}
	if !bytes.HasPrefix(data, []byte("ID3")) || !bytes.Equal(data[10:12], []byte{0xFF, 0xFB}) {
		t.Fatalf("missing audio header: % x", data[:12])
	}

	WriteAudio(t, path, 0)
	if info, _ := os.Stat(path); info.Size() != int64(len(id3Header)) {
		t.Fatalf("short size = %d", info.Size())
	}
}
