// Package forensics implements the per-media feature extractors: frequency
// and texture metrics for images, spectral and prosodic metrics for audio,
// and temporal metrics for video frame sequences. Extractors take decoded
// payloads supplied by the ingestion collaborator and return numeric metrics
// plus threshold-derived detection signals; they never fail on short or
// malformed input, returning neutral values instead.
package forensics

// MediaKind is the classified media type supplied by the ingestion layer.
type MediaKind string

const (
	KindImage   MediaKind = "image"
	KindVideo   MediaKind = "video"
	KindAudio   MediaKind = "audio"
	KindUnknown MediaKind = "unknown"
)

// Pixel is one RGB sample.
type Pixel struct {
	R, G, B uint8
}

// Image is a decoded pixel grid, row-major.
type Image struct {
	Width  int
	Height int
	Pix    []Pixel // len == Width*Height
}

// At returns the pixel at (x, y). Callers must stay in bounds.
func (im *Image) At(x, y int) Pixel {
	return im.Pix[y*im.Width+x]
}

// Gray converts the image to a luminance grid using the Rec. 601 weights.
func (im *Image) Gray() [][]float64 {
	g := make([][]float64, im.Height)
	for y := 0; y < im.Height; y++ {
		row := make([]float64, im.Width)
		base := y * im.Width
		for x := 0; x < im.Width; x++ {
			p := im.Pix[base+x]
			row[x] = 0.299*float64(p.R) + 0.587*float64(p.G) + 0.114*float64(p.B)
		}
		g[y] = row
	}
	return g
}

// Frame is a timestamped video frame.
type Frame struct {
	Image
	Timestamp float64 // seconds from stream start
}

// AudioClip is a mono sample sequence.
type AudioClip struct {
	SampleRate int
	Samples    []float64
}

// Input is the full payload handed to the pipeline by the ingestion
// collaborator. Raw is always present; decoded fields depend on Kind and may
// be absent (server contexts without a decoder degrade to metadata-only
// analysis).
type Input struct {
	Kind     MediaKind
	Raw      []byte
	Image    *Image
	Frames   []Frame
	Audio    *AudioClip
	Duration float64 // seconds, video/audio only
}

// HasDecodedPayload reports whether any decoded media is available.
func (in *Input) HasDecodedPayload() bool {
	return in.Image != nil || len(in.Frames) > 0 || (in.Audio != nil && len(in.Audio.Samples) > 0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
