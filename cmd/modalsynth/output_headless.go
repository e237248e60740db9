//go:build headless

package main

import (
	"sync"
	"time"
)

// headlessOutput drives the renderer from a ticker at the block rate so the
// engine runs without an audio device.
type headlessOutput struct {
	r      *renderer
	period time.Duration
	stop   chan struct{}
	done   sync.WaitGroup
	once   sync.Once
}

func newOutput(sampleRate int, r *renderer) (output, error) {
	period := time.Duration(float64(r.frame.Len()) / float64(sampleRate) * float64(time.Second))
	return &headlessOutput{r: r, period: period, stop: make(chan struct{})}, nil
}

func (o *headlessOutput) Name() string { return "headless" }

func (o *headlessOutput) Start() {
	o.done.Add(1)
	go func() {
		defer o.done.Done()
		t := time.NewTicker(o.period)
		defer t.Stop()
		for {
			select {
			case <-o.stop:
				return
			case <-t.C:
				o.r.renderBlock()
			}
		}
	}()
}

func (o *headlessOutput) Close() error {
	o.once.Do(func() { close(o.stop) })
	o.done.Wait()
	return nil
}
