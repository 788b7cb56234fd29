package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hif2jpeg/internal/codec"
	"hif2jpeg/internal/config"
)

// fakeDecoder serves canned pixels for any path and fails paths listed in
// corrupt, standing in for the HEIF codec.
type fakeDecoder struct {
	exif    []byte
	corrupt map[string]bool
}

func (f *fakeDecoder) Decode(path string) (*codec.Decoded, error) {
	if f.corrupt[filepath.Base(path)] {
		return nil, fmt.Errorf("decode HEIF: truncated box")
	}
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 40, A: 255})
		}
	}
	return &codec.Decoded{Image: img, Exif: f.exif}, nil
}

// failExifEncoder rejects any encode that carries EXIF, to exercise the
// metadata-copy-failure fallback.
type failExifEncoder struct{ inner codec.Encoder }

func (e failExifEncoder) Encode(w io.Writer, img image.Image, quality int, exif []byte) error {
	if exif != nil {
		return errors.New("EXIF payload rejected")
	}
	return e.inner.Encode(w, img, quality, nil)
}

var testExif = []byte{
	'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00,
	0x00, 0x00,
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRunner(dec codec.Decoder) *Runner {
	return &Runner{Decoder: dec, Encoder: codec.NewEncoder(), Log: testLogger()}
}

func writeSource(t *testing.T, dir, rel string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("heif bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunConvertsBatchInOrder(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	sources := []string{
		writeSource(t, in, "a.heic"),
		writeSource(t, in, "b.heic"),
		writeSource(t, in, "c.heic"),
	}

	r := testRunner(&fakeDecoder{})
	results, stats, err := r.Run(context.Background(), sources, in, out, config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, res := range results {
		if res.Job.SourcePath != sources[i] {
			t.Errorf("result %d out of order: %s", i, res.Job.SourcePath)
		}
		if !res.Ok() {
			t.Errorf("result %d failed: %v", i, res.Err)
		}
	}
	if stats.Converted != 3 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 3 converted", stats)
	}
}

func TestRunContinuesPastFailures(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	sources := []string{
		writeSource(t, in, "ok1.heic"),
		writeSource(t, in, "bad1.heic"),
		writeSource(t, in, "ok2.heic"),
		writeSource(t, in, "bad2.heic"),
		writeSource(t, in, "ok3.heic"),
	}

	dec := &fakeDecoder{corrupt: map[string]bool{"bad1.heic": true, "bad2.heic": true}}
	r := testRunner(dec)
	results, stats, err := r.Run(context.Background(), sources, in, out, config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.Converted != 3 || stats.Failed != 2 {
		t.Fatalf("stats = %+v, want 3 converted / 2 failed", stats)
	}
	wantOk := []bool{true, false, true, false, true}
	for i, res := range results {
		if res.Ok() != wantOk[i] {
			t.Errorf("result %d Ok = %v, want %v", i, res.Ok(), wantOk[i])
		}
	}
	if results[1].Reason() == "" {
		t.Error("failure result has empty reason")
	}
	if KindOf(results[1].Err) != KindDecode {
		t.Errorf("kind = %s, want decode failure", KindOf(results[1].Err))
	}
}

func TestRunMissingSourceIsUnreadable(t *testing.T) {
	out := t.TempDir()
	r := testRunner(&fakeDecoder{})

	results, _, err := r.Run(context.Background(),
		[]string{"/no/such/img.heic"}, "", out, config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Ok() {
		t.Fatal("expected failure for missing source")
	}
	if KindOf(results[0].Err) != KindUnreadable {
		t.Errorf("kind = %s, want unreadable file", KindOf(results[0].Err))
	}
}

func TestRunFatalOutputPath(t *testing.T) {
	in := t.TempDir()
	src := writeSource(t, in, "a.heic")
	blocker := writeSource(t, in, "blocker")

	r := testRunner(&fakeDecoder{})
	_, _, err := r.Run(context.Background(),
		[]string{src}, in, filepath.Join(blocker, "out"), config.Default())

	var fatal *FatalOutputError
	if !errors.As(err, &fatal) {
		t.Fatalf("err = %v, want FatalOutputError", err)
	}
}

func TestRunCancelledBetweenFiles(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	sources := []string{writeSource(t, in, "a.heic"), writeSource(t, in, "b.heic")}

	ctx, cancel := context.WithCancel(context.Background())
	r := testRunner(&fakeDecoder{})
	r.Progress = func(done, total int, path string) {
		cancel() // cancel after the first file completes
	}

	results, _, err := r.Run(ctx, sources, in, out, config.Default())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d partial results, want 1", len(results))
	}
}

func TestRunPreservesExif(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := writeSource(t, in, "a.heic")

	r := testRunner(&fakeDecoder{exif: testExif})
	results, _, err := r.Run(context.Background(), []string{src}, in, out, config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(results[0].Job.DestPath)
	if err != nil {
		t.Fatal(err)
	}
	got := codec.ExtractExifSegment(data)
	if !bytes.Equal(got, testExif) {
		t.Errorf("EXIF not copied byte-for-byte: got %x, want %x", got, testExif)
	}
}

func TestRunDropsExifWhenDisabled(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := writeSource(t, in, "a.heic")

	opts := config.Default()
	opts.PreserveExif = false

	r := testRunner(&fakeDecoder{exif: testExif})
	results, _, err := r.Run(context.Background(), []string{src}, in, out, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(results[0].Job.DestPath)
	if err != nil {
		t.Fatal(err)
	}
	if seg := codec.ExtractExifSegment(data); seg != nil {
		t.Errorf("unexpected EXIF segment: %x", seg)
	}
}

func TestRunMetadataCopyFailureIsNonFatal(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := writeSource(t, in, "a.heic")

	r := testRunner(&fakeDecoder{exif: testExif})
	r.Encoder = failExifEncoder{inner: codec.NewEncoder()}

	results, stats, err := r.Run(context.Background(), []string{src}, in, out, config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !results[0].Ok() {
		t.Fatalf("expected success without metadata, got %v", results[0].Err)
	}
	if stats.Converted != 1 {
		t.Errorf("stats = %+v", stats)
	}

	data, err := os.ReadFile(results[0].Job.DestPath)
	if err != nil {
		t.Fatal(err)
	}
	if seg := codec.ExtractExifSegment(data); seg != nil {
		t.Error("fallback output should carry no EXIF")
	}
}

func TestRunMirrorsFolderStructure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := writeSource(t, in, filepath.Join("2024", "rome", "IMG_1.heic"))

	r := testRunner(&fakeDecoder{})
	results, _, err := r.Run(context.Background(), []string{src}, in, out, config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := filepath.Join(out, "2024", "rome", "IMG_1.jpg")
	if results[0].Job.DestPath != want {
		t.Errorf("dest = %s, want %s", results[0].Job.DestPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestRunOutputIsDecodableWithSourceDimensions(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := writeSource(t, in, "a.heic")

	r := testRunner(&fakeDecoder{})
	results, _, err := r.Run(context.Background(), []string{src}, in, out, config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	f, err := os.Open(results[0].Job.DestPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("dimensions %dx%d, want 32x24", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRunIsIdempotent(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := writeSource(t, in, "a.heic")

	r := testRunner(&fakeDecoder{exif: testExif})
	first, _, err := r.Run(context.Background(), []string{src}, in, out, config.Default())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, _, err := r.Run(context.Background(), []string{src}, in, out, config.Default())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if first[0].Job.DestPath != second[0].Job.DestPath {
		t.Errorf("dest changed between runs: %s vs %s",
			first[0].Job.DestPath, second[0].Job.DestPath)
	}
	if first[0].OutputBytes != second[0].OutputBytes {
		t.Errorf("output size changed between runs: %d vs %d",
			first[0].OutputBytes, second[0].OutputBytes)
	}

	// No stray temp files left next to the output.
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestRunPreservesSourceMtime(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := writeSource(t, in, "a.heic")

	stamp := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	if err := os.Chtimes(src, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	r := testRunner(&fakeDecoder{})
	results, _, err := r.Run(context.Background(), []string{src}, in, out, config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := mustStat(t, results[0].Job.DestPath).ModTime(); !got.Equal(stamp) {
		t.Errorf("output mtime = %v, want %v", got, stamp)
	}
}

func mustStat(t *testing.T, path string) fs.FileInfo {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return info
}
