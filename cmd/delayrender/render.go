package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-delay/dsp/buffer"
	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/effects"
	"github.com/cwbudde/algo-delay/internal/audiofile"
	"github.com/cwbudde/algo-delay/internal/playback"
	"github.com/cwbudde/algo-delay/measure/echo"
	timestats "github.com/cwbudde/algo-delay/stats/time"
)

const (
	defaultBits = 24
	tailFloorDB = 96.0
	maxTapRows  = 16
)

func render(cfg config, stdout io.Writer, logger *slog.Logger) error {
	in, err := loadInput(cfg, logger)
	if err != nil {
		return err
	}

	out, stats, err := process(cfg, in)
	if err != nil {
		return err
	}

	logger.Info("rendered",
		"frames", out.Frames(),
		"seconds", out.Duration(),
		"mode", cfg.params.Mode,
		"rms_db", stats.RMS_dB,
		"peak_db", stats.Peak_dB,
	)
	if stats.Clipped > 0 {
		logger.Warn("output clips", "samples", stats.Clipped)
	}
	if stats.NonFinite > 0 {
		logger.Warn("output contains non-finite samples", "samples", stats.NonFinite)
	}

	if cfg.out != "" {
		bits := cfg.bits
		if bits == 0 {
			bits = in.BitDepth
		}
		if bits == 0 {
			bits = defaultBits
		}
		if err := audiofile.WriteFile(cfg.out, out, bits); err != nil {
			return err
		}
		logger.Debug("wrote output", "path", cfg.out, "bits", bits)
	}

	if cfg.impulse {
		if err := printEchoAnalysis(stdout, out); err != nil {
			return err
		}
	}

	if cfg.play {
		return play(cfg, in, logger)
	}

	return nil
}

// loadInput reads the input file or synthesizes a stereo unit impulse.
func loadInput(cfg config, logger *slog.Logger) (*audiofile.Audio, error) {
	if cfg.impulse {
		frames := int(math.Round(cfg.irSeconds * float64(cfg.rate)))
		left := make([]float64, frames)
		right := make([]float64, frames)
		if frames > 0 {
			left[0], right[0] = 1, 1
		}
		return &audiofile.Audio{
			SampleRate: cfg.rate,
			BitDepth:   defaultBits,
			Channels:   [][]float64{left, right},
		}, nil
	}

	a, err := audiofile.ReadFile(cfg.in)
	if err != nil {
		return nil, err
	}
	logger.Debug("read input",
		"path", cfg.in,
		"sampleRate", a.SampleRate,
		"channels", len(a.Channels),
		"bitDepth", a.BitDepth,
		"frames", a.Frames(),
	)

	switch len(a.Channels) {
	case 0:
		return nil, errors.New("input has no channels")
	case 1:
		right := make([]float64, len(a.Channels[0]))
		copy(right, a.Channels[0])
		a.Channels = append(a.Channels, right)
	case 2:
	default:
		logger.Warn("input has more than two channels; using the first two", "channels", len(a.Channels))
		a.Channels = a.Channels[:2]
	}

	return a, nil
}

// process renders in through a new delay block by block and returns the
// stereo result with level statistics over both channels.
func process(cfg config, in *audiofile.Audio) (*audiofile.Audio, timestats.Stats, error) {
	d, err := effects.NewDelay(
		core.WithSampleRate(float64(in.SampleRate)),
		core.WithBlockSize(cfg.block),
	)
	if err != nil {
		return nil, timestats.Stats{}, err
	}

	inL, inR := in.Channels[0], in.Channels[1]
	frames := in.Frames()
	total := frames
	if cfg.tail && !cfg.impulse {
		total += d.TailSamples()
	}

	outL := make([]float64, total)
	outR := make([]float64, total)
	feed := cfg.feed(in.SampleRate)

	pool := buffer.NewPool()
	blk := pool.Get(2, cfg.block)
	defer pool.Put(blk)

	for pos := 0; pos < total; {
		n := min(cfg.block, total-pos)
		blk.Resize(2, n)
		l, r := blk.Channel(0), blk.Channel(1)

		src := min(pos, frames)
		core.CopyPadded(l, inL[src:])
		core.CopyPadded(r, inR[src:])

		d.ProcessBlock(l, r, feed)
		feed.Advance(n)

		copy(outL[pos:], l)
		copy(outR[pos:], r)
		pos += n
	}

	if total > frames {
		keep := max(frames,
			timestats.TailLength(outL, tailFloorDB),
			timestats.TailLength(outR, tailFloorDB))
		outL, outR = outL[:keep], outR[:keep]
	}

	stats := timestats.NewStreamingStats()
	stats.Update(outL)
	stats.Update(outR)

	return &audiofile.Audio{
		SampleRate: in.SampleRate,
		BitDepth:   in.BitDepth,
		Channels:   [][]float64{outL, outR},
	}, stats.Result(), nil
}

func printEchoAnalysis(w io.Writer, out *audiofile.Audio) error {
	sr := float64(out.SampleRate)
	ir := out.Channels[0]

	m, err := echo.NewAnalyzer(sr).Analyze(ir)
	if err != nil {
		return fmt.Errorf("analyze impulse response: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TAP\tSAMPLE\tTIME (ms)\tLEVEL (dB)")
	for i, tap := range m.Taps {
		if i == maxTapRows {
			fmt.Fprintf(tw, "...\t\t\t(%d more)\n", len(m.Taps)-maxTapRows)
			break
		}
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.1f\n", i, tap.Index, tap.Time*1000, core.LinearToDB(math.Abs(tap.Amplitude)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if m.FirstEchoSamples >= 0 {
		fmt.Fprintf(tw, "first echo\t%d samples\t%.2f ms\n", m.FirstEchoSamples, m.FirstEcho*1000)
	} else {
		fmt.Fprintf(tw, "first echo\tnone\t\n")
	}
	if m.Spacing > 0 {
		fmt.Fprintf(tw, "echo spacing\t%.2f ms\t%.2f Hz comb\n", m.Spacing*1000, 1/m.Spacing)
		fmt.Fprintf(tw, "decay ratio\t%.4f\t%.1f dB/echo\n", m.DecayRatio, core.LinearToDB(m.DecayRatio))
		fmt.Fprintf(tw, "RT60\t%.3f s\t\n", m.RT60)
	}
	fmt.Fprintf(tw, "energy\t%.4f\t\n", m.Energy)

	power, n, err := echo.CombSpectrum(ir)
	if err != nil {
		return fmt.Errorf("impulse response spectrum: %w", err)
	}
	peak := floats.Max(power)
	floor := floats.Min(power)
	fmt.Fprintf(tw, "spectrum peak\t%.1f Hz\t\n", echo.BinFrequency(floats.MaxIdx(power), n, sr))
	if floor > 0 {
		fmt.Fprintf(tw, "comb depth\t%.1f dB\t\n", 10*math.Log10(peak/floor))
	}

	return tw.Flush()
}

// play streams the input through a fresh delay on the default audio device
// until the tail has played or the process is interrupted. Ramps are not
// applied live.
func play(cfg config, in *audiofile.Audio, logger *slog.Logger) error {
	d, err := effects.NewDelay(core.WithSampleRate(float64(in.SampleRate)))
	if err != nil {
		return err
	}

	src := playback.NewDelaySource(d, in.Channels[0], in.Channels[1], cfg.params, cfg.block)
	player, err := playback.NewPlayer(in.SampleRate, src)
	if err != nil {
		return err
	}

	stop, release := interruptChannel()
	defer release()

	logger.Info("playing", "sampleRate", in.SampleRate, "frames", in.Frames())
	player.Play()
	player.Wait(stop)
	logger.Debug("playback finished", "position", player.Position())

	return player.Stop()
}
