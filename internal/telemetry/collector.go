// Package telemetry exports engine and control counters to Prometheus.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cwbudde/algo-modal/control"
	"github.com/cwbudde/algo-modal/synth"
)

// Namespace prefixes every exported metric.
const Namespace = "modalsynth"

// Source is read on every scrape.
type Source interface {
	Stats() synth.Stats
}

// ControlSource supplies control-plane message counts.
type ControlSource interface {
	Counters() control.Counters
}

// Collector is a prometheus.Collector that snapshots a Source per scrape.
type Collector struct {
	src  Source
	ctrl ControlSource

	enqueued       *prometheus.Desc
	dropped        *prometheus.Desc
	processed      *prometheus.Desc
	stolen         *prometheus.Desc
	blocks         *prometheus.Desc
	pending        *prometheus.Desc
	activeVoices   *prometheus.Desc
	voiceWindow    *prometheus.Desc
	outputLevel    *prometheus.Desc
	limiterEnabled *prometheus.Desc
	plateTimedOut  *prometheus.Desc
	messages       *prometheus.Desc
	droppedImpacts *prometheus.Desc
}

// NewCollector returns a collector for src. ctrl may be nil.
func NewCollector(src Source, ctrl ControlSource) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(Namespace, "", name), help, labels, nil)
	}

	return &Collector{
		src:            src,
		ctrl:           ctrl,
		enqueued:       desc("events_enqueued_total", "Trigger events accepted by the engine inbox"),
		dropped:        desc("events_dropped_total", "Trigger events dropped because the inbox was full"),
		processed:      desc("events_processed_total", "Trigger events applied by the renderer"),
		stolen:         desc("voices_stolen_total", "Triggers that replaced a sounding voice"),
		blocks:         desc("blocks_rendered_total", "Audio blocks rendered"),
		pending:        desc("events_pending", "Trigger events waiting in the inbox"),
		activeVoices:   desc("active_voices", "Voices sounding after the last block"),
		voiceWindow:    desc("voice_window", "Active voice window size"),
		outputLevel:    desc("output_level", "Smoothed RMS output level, linear full scale"),
		limiterEnabled: desc("limiter_enabled", "1 if the output limiter is on"),
		plateTimedOut:  desc("plate_timed_out", "1 if the plate stopped receiving updates"),
		messages:       desc("control_messages_total", "Control messages received", "type"),
		droppedImpacts: desc("control_impacts_dropped_total", "Impacts that could not be enqueued"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.enqueued
	ch <- c.dropped
	ch <- c.processed
	ch <- c.stolen
	ch <- c.blocks
	ch <- c.pending
	ch <- c.activeVoices
	ch <- c.voiceWindow
	ch <- c.outputLevel
	ch <- c.limiterEnabled
	ch <- c.plateTimedOut
	if c.ctrl != nil {
		ch <- c.messages
		ch <- c.droppedImpacts
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}

	counter(c.enqueued, s.Enqueued)
	counter(c.dropped, s.Dropped)
	counter(c.processed, s.Processed)
	counter(c.stolen, s.Stolen)
	counter(c.blocks, s.Blocks)
	gauge(c.pending, float64(s.Pending))
	gauge(c.activeVoices, float64(s.ActiveVoices))
	gauge(c.voiceWindow, float64(s.VoiceWindow))
	gauge(c.outputLevel, s.OutputLevel)
	gauge(c.limiterEnabled, boolValue(s.LimiterEnabled))
	gauge(c.plateTimedOut, boolValue(s.PlateTimedOut))

	if c.ctrl == nil {
		return
	}
	cc := c.ctrl.Counters()
	counter(c.messages, cc.Impacts, "impact")
	counter(c.messages, cc.States, "state")
	counter(c.messages, cc.Plates, "plate")
	counter(c.messages, cc.Settings, "settings")
	counter(c.droppedImpacts, cc.DroppedImpacts)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
