package forensics

import (
	"bytes"
	"testing"
)

func jpegBytes(markers ...byte) []byte {
	buf := bytes.NewBuffer([]byte{0xFF, 0xD8})
	for _, m := range markers {
		buf.WriteByte(0xFF)
		buf.WriteByte(m)
		buf.Write([]byte{0x00, 0x04, 0x01, 0x02}) // dummy segment body
	}
	buf.Write(bytes.Repeat([]byte{0x11}, 64))
	return buf.Bytes()
}

func TestMetadataJPEGWithExif(t *testing.T) {
	m := AnalyzeMetadata(jpegBytes(0xE1, 0xDB))
	if !m.Evidence.ExifPresent {
		t.Error("APP1 marker should mark EXIF as present")
	}
	if findSignal(m.Signals, "meta-exif-stripped") != nil {
		t.Error("EXIF present must not raise the stripped signal")
	}
	if m.Evidence.CompressionAnomalies {
		t.Error("a single quantization table is not a recompression anomaly")
	}
}

func TestMetadataJPEGStrippedAndRecompressed(t *testing.T) {
	m := AnalyzeMetadata(jpegBytes(0xDB, 0xDB, 0xDB))
	if m.Evidence.ExifPresent {
		t.Error("no APP1 marker, EXIF should be absent")
	}
	if !m.Evidence.CompressionAnomalies {
		t.Error("three quantization tables should flag recompression")
	}
	if findSignal(m.Signals, "meta-exif-stripped") == nil {
		t.Error("expected meta-exif-stripped signal")
	}
	sig := findSignal(m.Signals, "meta-recompression")
	if sig == nil {
		t.Fatal("expected meta-recompression signal")
	}
	if sig.Severity != SeverityLow {
		t.Errorf("recompression severity = %v, want %v", sig.Severity, SeverityLow)
	}
	// Stripped EXIF, recompression, and a missing creation date all add up.
	if want := 0.3 + 0.2 + 0.1; m.Score < want-1e-9 {
		t.Errorf("Score = %v, want at least %v", m.Score, want)
	}
}

func TestMetadataEditingSoftware(t *testing.T) {
	raw := append(jpegBytes(0xE1), []byte("Adobe Photoshop 25.0")...)
	m := AnalyzeMetadata(raw)
	if !m.Evidence.HasBeenEdited {
		t.Fatal("editing signature should be detected")
	}
	if m.Evidence.SoftwareUsed == "" {
		t.Error("detected software name should be recorded")
	}
	if findSignal(m.Signals, "meta-edited") == nil {
		t.Error("expected meta-edited signal")
	}
}

func TestMetadataCreationDate(t *testing.T) {
	raw := append(jpegBytes(0xE1), []byte("2023:05:01 10:30:00")...)
	m := AnalyzeMetadata(raw)
	if m.Evidence.CreationDate != "2023:05:01 10:30:00" {
		t.Errorf("CreationDate = %q, want the embedded timestamp", m.Evidence.CreationDate)
	}
}

func TestMetadataPNGTextChunk(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	for _, tag := range []string{"tEXt", "zTXt", "iTXt"} {
		raw := append(append([]byte{}, pngHeader...), []byte("...."+tag+"Comment")...)
		if m := AnalyzeMetadata(raw); !m.Evidence.ExifPresent {
			t.Errorf("%s chunk should count as metadata presence", tag)
		}
	}

	// The tag match is case-sensitive: the word "text" inside compressed
	// pixel data must not register as a metadata chunk.
	raw := append(append([]byte{}, pngHeader...), []byte("....IDAT some text payload")...)
	if m := AnalyzeMetadata(raw); m.Evidence.ExifPresent {
		t.Error("lowercase 'text' in chunk data must not count as metadata presence")
	}
}

func TestMetadataUnknownBytesGraceful(t *testing.T) {
	m := AnalyzeMetadata([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	if m.Evidence.HasBeenEdited || m.Evidence.CompressionAnomalies {
		t.Error("unknown container should report no editing or compression evidence")
	}

	// Tiny payloads bail out entirely.
	m = AnalyzeMetadata([]byte{0x01})
	if m.Score != 0 || len(m.Signals) != 0 {
		t.Error("sub-minimal payload should yield a zero result")
	}
}
