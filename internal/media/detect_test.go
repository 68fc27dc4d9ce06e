package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"a.png":          Image,
		"dir/B.JPEG":     Image,
		"scan.webp":      Image,
		"clip.mp4":       Video,
		"clip.MKV":       Video,
		"frames.m3u":     Sequence,
		"frames.lst":     Sequence,
		"song.mp3":       Unsupported,
		"no-extension":   Unsupported,
		"archive.tar.gz": Unsupported,
	}
	for path, want := range tests {
		if got := KindOf(path); got != want {
			t.Errorf("KindOf(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestSupportedExtsListMatchesTables(t *testing.T) {
	list := SupportedExtsList()
	for _, ext := range []string{".png", ".tif", ".mp4", ".m3u"} {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
}

func TestParseSequence(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "frames.m3u")
	content := "#EXTM3U\n\nframe_000.png\n  sub/frame_001.png  \n/abs/frame_002.png\n"
	if err := os.WriteFile(list, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ParseSequence(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "frame_000.png"),
		filepath.Join(dir, "sub", "frame_001.png"),
		filepath.Clean("/abs/frame_002.png"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestParseSequenceRejects(t *testing.T) {
	dir := t.TempDir()
	if _, err := ParseSequence(filepath.Join(dir, "frames.txt")); err == nil {
		t.Fatal("expected an error for an unknown extension")
	}
	bad := filepath.Join(dir, "bad.lst")
	if err := os.WriteFile(bad, []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseSequence(bad); err == nil {
		t.Fatal("expected an error for invalid UTF-8")
	}
}

func TestFilterImagePaths(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "a.png")
	skip := filepath.Join(dir, "b.mp3")
	for _, p := range []string{keep, skip} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got := FilterImagePaths([]string{keep, skip, filepath.Join(dir, "missing.png"), dir})
	if len(got) != 1 || got[0] != keep {
		t.Fatalf("expected only %s, got %v", keep, got)
	}
}
