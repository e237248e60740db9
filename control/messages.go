package control

import "github.com/cwbudde/algo-modal/dsp/excite"

// Impact is one collision reported by the scene. X, Y and Energy are
// normalized to [0, 1].
type Impact struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Energy  float64 `json:"energy"`
	Surface int     `json:"surface"`
}

// State is the slowly varying scene summary, each field in [0, 1].
type State struct {
	Activity float64 `json:"activity"`
	Gesture  float64 `json:"gesture"`
	Presence float64 `json:"presence"`
}

// Plate drives the plate resonator directly.
type Plate struct {
	Freq      float64 `json:"freq"`
	Amplitude float64 `json:"amplitude"`
	Mode      int     `json:"mode"`
}

// Settings is a partial update of the global engine parameters. Nil fields
// are left unchanged.
type Settings struct {
	Metalness   *float64         `json:"metalness,omitempty"`
	Brightness  *float64         `json:"brightness,omitempty"`
	Damping     *float64         `json:"damping,omitempty"`
	Waveform    *excite.Waveform `json:"waveform,omitempty"`
	SubToneMix  *float64         `json:"subToneMix,omitempty"`
	PlateVolume *float64         `json:"plateVolume,omitempty"`
	Drive       *float64         `json:"drive,omitempty"`
	MasterGain  *float64         `json:"masterGain,omitempty"`
	Limiter     *bool            `json:"limiter,omitempty"`
	VoiceWindow *int             `json:"voiceWindow,omitempty"`
	RandomPitch *bool            `json:"randomPitch,omitempty"`
}
