package forensics

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FeatureKey names one slot of the feature vector.
type FeatureKey string

const (
	// FeatHFER is the high-frequency energy ratio (low = suspicious).
	FeatHFER FeatureKey = "hfer"
	// FeatSVD is the spectral variance deviation from the natural baseline.
	FeatSVD FeatureKey = "svd"
	// FeatPDI is the patch drift index (inter-patch texture variance).
	FeatPDI FeatureKey = "pdi"
	// FeatTIIS is the temporal identity instability score.
	FeatTIIS FeatureKey = "tiis"
	// FeatFAV is the optical-flow acceleration variance score.
	FeatFAV FeatureKey = "fav"
	// FeatETK is the energy transition kurtosis.
	FeatETK FeatureKey = "etk"
	// FeatPVSS is the pitch variance smoothness score (low = suspicious).
	FeatPVSS FeatureKey = "pvss"
	// FeatFRD is the spectral flatness deviation from the speech baseline.
	FeatFRD FeatureKey = "frd"
	// FeatNoise is the noise-residual anomaly score.
	FeatNoise FeatureKey = "noise_score"
	// FeatSpectralPeak is the GAN spectral fingerprint score.
	FeatSpectralPeak FeatureKey = "spectral_peak_score"
	// FeatMetadata is the byte-level metadata anomaly score.
	FeatMetadata FeatureKey = "metadata_score"
)

// FeatureKeys lists every slot in serialization order.
var FeatureKeys = []FeatureKey{
	FeatHFER, FeatSVD, FeatPDI, FeatTIIS, FeatFAV,
	FeatETK, FeatPVSS, FeatFRD, FeatNoise, FeatSpectralPeak, FeatMetadata,
}

// FeatureVector holds the named metric slots for one analysis run. A slot is
// either unmeasured or carries a real value; a genuine zero metric is distinct
// from "not yet computed". Slots only ever fill in or get replaced, never
// removed.
type FeatureVector struct {
	values map[FeatureKey]float64
}

// NewFeatureVector returns an empty vector with every slot unmeasured.
func NewFeatureVector() *FeatureVector {
	return &FeatureVector{values: make(map[FeatureKey]float64, len(FeatureKeys))}
}

// Set writes a slot value. A later Set for the same key replaces the earlier
// value outright (replace-not-merge): deeper levels recompute metrics on
// larger samples and their result supersedes the shallow one.
func (fv *FeatureVector) Set(key FeatureKey, value float64) {
	fv.values[key] = value
}

// Get returns the slot value and whether it has been measured.
func (fv *FeatureVector) Get(key FeatureKey) (float64, bool) {
	v, ok := fv.values[key]
	return v, ok
}

// Populated returns how many slots carry a value.
func (fv *FeatureVector) Populated() int {
	return len(fv.values)
}

// Clone returns an independent copy.
func (fv *FeatureVector) Clone() *FeatureVector {
	out := NewFeatureVector()
	for k, v := range fv.values {
		out.values[k] = v
	}
	return out
}

// MarshalJSON emits every known slot by name, with null for unmeasured slots,
// in FeatureKeys order.
func (fv *FeatureVector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range FeatureKeys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(string(key))
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if v, ok := fv.values[key]; ok {
			buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		} else {
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a slot object, treating null and missing keys as
// unmeasured.
func (fv *FeatureVector) UnmarshalJSON(data []byte) error {
	raw := map[FeatureKey]*float64{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fv.values = make(map[FeatureKey]float64, len(raw))
	for k, v := range raw {
		if v != nil {
			fv.values[k] = *v
		}
	}
	return nil
}
