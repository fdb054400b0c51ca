package forensics

import (
	"math"
	"math/rand"
)

func uniformImage(w, h int, p Pixel) *Image {
	img := &Image{Width: w, Height: h, Pix: make([]Pixel, w*h)}
	for i := range img.Pix {
		img.Pix[i] = p
	}
	return img
}

func noiseImage(w, h int, seed int64) *Image {
	rng := rand.New(rand.NewSource(seed))
	img := &Image{Width: w, Height: h, Pix: make([]Pixel, w*h)}
	for i := range img.Pix {
		img.Pix[i] = Pixel{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
		}
	}
	return img
}

func sineClip(sampleRate int, freq, seconds float64) *AudioClip {
	n := int(float64(sampleRate) * seconds)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return &AudioClip{SampleRate: sampleRate, Samples: samples}
}

func findSignal(sigs []Signal, id string) *Signal {
	for i := range sigs {
		if sigs[i].ID == id {
			return &sigs[i]
		}
	}
	return nil
}
