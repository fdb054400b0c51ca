package forensics

import (
	"bytes"
	"fmt"
	"regexp"
)

// Metadata heuristics operate on raw file bytes and never require decoded
// pixels, so they remain available in server contexts without a decoder.
// Unrecognized formats report "no evidence found" rather than failing.

// Byte scan limits. Markers of interest live in the header area.
const (
	headerScanLimit   = 5000
	softwareScanLimit = 8192

	// More than two quantization tables implies at least one re-save.
	recompressionDQTCount = 2
)

var (
	jpegMagic = []byte{0xFF, 0xD8}
	pngMagic  = []byte{0x89, 'P', 'N', 'G'}

	// Tool names whose presence in the header marks the file as edited or
	// machine-generated.
	editingSignatures = [][]byte{
		[]byte("photoshop"), []byte("gimp"), []byte("lightroom"),
		[]byte("snapseed"), []byte("faceapp"), []byte("remini"),
		[]byte("deepfake"), []byte("reface"), []byte("stable diffusion"),
		[]byte("dall-e"), []byte("midjourney"), []byte("adobe"),
	}

	// EXIF-style timestamp: "YYYY:MM:DD HH:MM:SS".
	exifDatePattern = regexp.MustCompile(`\d{4}:\d{2}:\d{2} \d{2}:\d{2}:\d{2}`)
)

// MetadataEvidence summarizes the byte-level findings for the final result.
type MetadataEvidence struct {
	ExifPresent          bool   `json:"exif_present"`
	HasBeenEdited        bool   `json:"has_been_edited"`
	CompressionAnomalies bool   `json:"compression_anomalies"`
	SoftwareUsed         string `json:"software_used,omitempty"`
	CreationDate         string `json:"creation_date,omitempty"`
}

// MetadataMetrics is the output of the metadata extractor.
type MetadataMetrics struct {
	Evidence MetadataEvidence
	Score    float64
	Signals  []Signal
}

// AnalyzeMetadata scans raw file bytes for container markers, editing-tool
// signatures, and recompression evidence, and derives an anomaly score.
func AnalyzeMetadata(raw []byte) MetadataMetrics {
	var out MetadataMetrics
	if len(raw) < 4 {
		return out
	}

	lower := bytes.ToLower(raw[:min(len(raw), softwareScanLimit)])

	switch {
	case bytes.HasPrefix(raw, jpegMagic):
		out.Evidence.ExifPresent = scanJPEGMarker(raw, 0xE1) // APP1 carries EXIF
		dqt := countJPEGMarkers(raw, 0xDB)
		out.Evidence.CompressionAnomalies = dqt > recompressionDQTCount
	case bytes.HasPrefix(raw, pngMagic):
		// Chunk tags are case-sensitive; a lowercase match would false-positive
		// on compressed pixel data.
		head := raw[:min(len(raw), headerScanLimit)]
		out.Evidence.ExifPresent = bytes.Contains(head, []byte("tEXt")) ||
			bytes.Contains(head, []byte("zTXt")) ||
			bytes.Contains(head, []byte("iTXt"))
	default:
		// Unknown container: no marker evidence, keep scanning strings.
	}

	for _, sig := range editingSignatures {
		if bytes.Contains(lower, sig) {
			out.Evidence.HasBeenEdited = true
			out.Evidence.SoftwareUsed = string(sig)
			break
		}
	}

	if m := exifDatePattern.Find(raw[:min(len(raw), softwareScanLimit)]); m != nil {
		out.Evidence.CreationDate = string(m)
	}

	if !out.Evidence.ExifPresent {
		out.Score += 0.3
	}
	if out.Evidence.HasBeenEdited {
		out.Score += 0.4
	}
	if out.Evidence.CompressionAnomalies {
		out.Score += 0.2
	}
	if out.Evidence.CreationDate == "" {
		out.Score += 0.1
	}

	if !out.Evidence.ExifPresent {
		out.Signals = append(out.Signals, Signal{
			ID:         "meta-exif-stripped",
			Name:       "EXIF Metadata Stripped",
			Category:   CategoryMetadata,
			Confidence: 0.65,
			Description: "Media metadata has been removed or was never present, " +
				"common in manipulated or AI-generated media.",
			Severity: SeveritySuspicious,
		})
	}
	if out.Evidence.HasBeenEdited {
		out.Signals = append(out.Signals, Signal{
			ID:         "meta-edited",
			Name:       "Editing Software Detected",
			Category:   CategoryMetadata,
			Confidence: 0.7,
			Description: fmt.Sprintf("File shows signs of editing via %s.",
				out.Evidence.SoftwareUsed),
			Severity: SeveritySuspicious,
		})
	}
	if out.Evidence.CompressionAnomalies {
		out.Signals = append(out.Signals, Signal{
			ID:         "meta-recompression",
			Name:       "Re-Compression Detected",
			Category:   CategoryMetadata,
			Confidence: 0.55,
			Description: "Multiple compression layers detected, suggesting the " +
				"file has been re-saved or manipulated.",
			Severity: SeverityLow,
		})
	}
	return out
}

// scanJPEGMarker reports whether marker 0xFF<code> appears in the header area.
func scanJPEGMarker(raw []byte, code byte) bool {
	return countJPEGMarkers(raw, code) > 0
}

func countJPEGMarkers(raw []byte, code byte) int {
	limit := min(len(raw)-1, headerScanLimit)
	count := 0
	for i := 0; i < limit; i++ {
		if raw[i] == 0xFF && raw[i+1] == code {
			count++
		}
	}
	return count
}
