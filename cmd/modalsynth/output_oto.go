//go:build !headless

package main

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

type otoOutput struct {
	ctx    *oto.Context
	player *oto.Player
}

func newOutput(sampleRate int, r *renderer) (output, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: outputChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	<-ready

	return &otoOutput{ctx: ctx, player: ctx.NewPlayer(r)}, nil
}

func (o *otoOutput) Name() string { return "oto" }

func (o *otoOutput) Start() { o.player.Play() }

func (o *otoOutput) Close() error {
	return o.player.Close()
}
