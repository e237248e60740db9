package synth

import (
	"github.com/cwbudde/algo-modal/dsp/excite"
	"github.com/cwbudde/algo-modal/dsp/modal"
)

// TriggerEvent requests one strike. Values outside their range are clamped
// when the event is applied.
type TriggerEvent struct {
	Freq       float64         `json:"freq"`       // Hz, [20, 12000]
	Amplitude  float64         `json:"amplitude"`  // [0, 1]
	Damping    float64         `json:"damping"`    // [0, 1]
	Brightness float64         `json:"brightness"` // [0, 1]
	Metalness  float64         `json:"metalness"`  // [0, 1]
	Waveform   excite.Waveform `json:"waveform"`
	SubToneMix float64         `json:"subToneMix"` // [0, 1]
}

// Clamped returns e with every field forced into range. NaN takes the bottom
// of its range.
func (e TriggerEvent) Clamped() TriggerEvent {
	p := e.params().Clamped()
	return TriggerEvent{
		Freq:       p.Freq,
		Amplitude:  p.Amplitude,
		Damping:    p.Damping,
		Brightness: p.Brightness,
		Metalness:  p.Metalness,
		Waveform:   p.Waveform,
		SubToneMix: p.SubToneMix,
	}
}

func (e TriggerEvent) params() modal.Params {
	return modal.Params{
		Freq:       e.Freq,
		Amplitude:  e.Amplitude,
		Damping:    e.Damping,
		Brightness: e.Brightness,
		Metalness:  e.Metalness,
		Waveform:   e.Waveform,
		SubToneMix: e.SubToneMix,
	}
}
