// Command delayrender renders audio through the stereo delay.
//
// Usage:
//
//	delayrender [flags] -in input.{wav,aiff,mp3,ogg} -out output.wav
//	delayrender [flags] -ir -out response.wav
//
// With -ir the delay's impulse response is rendered instead of an input file
// and its echo structure is printed. With -play the result is also played on
// the default audio device.
//
// Examples:
//
//	delayrender -in dry.wav -out wet.wav -delay 0.35 -feedback 0.5
//	delayrender -in dry.wav -out wet.wav -mode digital -delay 0.1 -delay-end 0.8
//	delayrender -ir -rate 48000 -mode legacy -feedback 0.7
//	delayrender -list-modes
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/dsp/effects"
	"github.com/cwbudde/algo-delay/internal/automation"
)

type config struct {
	in  string
	out string

	impulse   bool
	irSeconds float64
	rate      int

	params   effects.Params
	delayEnd float64
	pitchEnd float64
	rampSec  float64
	rampLog  bool

	block   int
	bits    int
	tail    bool
	play    bool
	verbose bool
	list    bool
}

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cfg.list {
		return printModes(stdout)
	}

	return render(cfg, stdout, logger)
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	fs := flag.NewFlagSet("delayrender", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := config{params: effects.DefaultParams()}
	fs.StringVar(&cfg.in, "in", "", "input audio file (wav, aiff, mp3 or ogg)")
	fs.StringVar(&cfg.out, "out", "", "output WAV file")
	fs.BoolVar(&cfg.impulse, "ir", false, "render the impulse response instead of an input file")
	fs.Float64Var(&cfg.irSeconds, "ir-seconds", 1.0, "impulse response length in seconds")
	fs.IntVar(&cfg.rate, "rate", 48000, "sample rate for -ir")

	fs.Float64Var(&cfg.params.DelaySeconds, "delay", cfg.params.DelaySeconds, "delay time in seconds [0.01, 2]")
	fs.Float64Var(&cfg.params.Feedback, "feedback", cfg.params.Feedback, "feedback amount [0, 1]")
	fs.Float64Var(&cfg.params.Pitch, "pitch", cfg.params.Pitch, "pitch factor dividing the delay time [1, 13]")
	fs.Float64Var(&cfg.params.Mix, "mix", cfg.params.Mix, "wet amount [0, 1]")
	fs.BoolVar(&cfg.params.Freeze, "freeze", false, "recirculate the line and mute the input")
	fs.TextVar(&cfg.params.Mode, "mode", cfg.params.Mode, "delay mode: interpolated, legacy or digital")

	fs.Float64Var(&cfg.delayEnd, "delay-end", math.NaN(), "ramp the delay time to this value")
	fs.Float64Var(&cfg.pitchEnd, "pitch-end", math.NaN(), "ramp the pitch to this value")
	fs.Float64Var(&cfg.rampSec, "ramp", 1.0, "ramp duration in seconds")
	fs.BoolVar(&cfg.rampLog, "ramp-log", false, "ramp logarithmically instead of linearly")

	fs.IntVar(&cfg.block, "block", 1024, "processing block size in frames")
	fs.IntVar(&cfg.bits, "bits", 0, "output bit depth 16, 24 or 32 (default: input depth, 24 for -ir)")
	fs.BoolVar(&cfg.tail, "tail", true, "append the delay tail after the input")
	fs.BoolVar(&cfg.play, "play", false, "play the result on the default audio device")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	fs.BoolVar(&cfg.list, "list-modes", false, "list delay modes and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: delayrender [flags] -in input.{wav,aiff,mp3,ogg} -out output.wav\n")
		fmt.Fprintf(stderr, "       delayrender [flags] -ir [-out response.wav]\n\n")
		fmt.Fprintf(stderr, "Renders audio through the stereo delay.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.list {
		return cfg, nil
	}

	if err := cfg.validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n\n", err)
		fs.Usage()
		return cfg, errUsage
	}

	return cfg, nil
}

func (c config) validate() error {
	switch {
	case !c.impulse && c.in == "":
		return errors.New("-in is required unless -ir is set")
	case !c.impulse && c.out == "" && !c.play:
		return errors.New("-out or -play is required")
	case c.impulse && c.in != "":
		return errors.New("-ir and -in are mutually exclusive")
	case c.impulse && (c.rate < 1 || !(c.irSeconds > 0)):
		return fmt.Errorf("invalid -rate %d or -ir-seconds %g", c.rate, c.irSeconds)
	case c.block < 1:
		return fmt.Errorf("-block must be positive: %d", c.block)
	case c.bits != 0 && c.bits != 16 && c.bits != 24 && c.bits != 32:
		return fmt.Errorf("-bits must be 16, 24 or 32: %d", c.bits)
	case c.rampSec < 0:
		return fmt.Errorf("-ramp must not be negative: %g", c.rampSec)
	}

	if err := c.params.Validate(); err != nil {
		return err
	}

	end := c.params
	if !math.IsNaN(c.delayEnd) {
		end.DelaySeconds = c.delayEnd
	}
	if !math.IsNaN(c.pitchEnd) {
		end.Pitch = c.pitchEnd
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("ramp target: %w", err)
	}

	return nil
}

// feed builds the parameter automation for a render at sampleRate.
func (c config) feed(sampleRate int) *automation.Feed {
	f := &automation.Feed{Base: c.params}
	curve := automation.Linear
	if c.rampLog {
		curve = automation.Logarithmic
	}
	samples := int(math.Round(c.rampSec * float64(sampleRate)))

	if !math.IsNaN(c.delayEnd) {
		f.Delay = &automation.Ramp{From: c.params.DelaySeconds, To: c.delayEnd, Samples: samples, Curve: curve}
	}
	if !math.IsNaN(c.pitchEnd) {
		f.Pitch = &automation.Ramp{From: c.params.Pitch, To: c.pitchEnd, Samples: samples, Curve: curve}
	}

	return f
}

func printModes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tREAD\tADVANCE")
	desc := map[delay.Mode][2]string{
		delay.ModeInterpolated: {"slope extrapolation", "write-slaved reader"},
		delay.ModeLegacy:       {"raw sample", "write-slaved reader"},
		delay.ModeDigital:      {"linear blend", "quantized loop"},
	}
	for _, m := range delay.Modes() {
		d := desc[m]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m, d[0], d[1])
	}
	return tw.Flush()
}

// interruptChannel is closed on SIGINT.
func interruptChannel() (<-chan struct{}, func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	done := make(chan struct{})
	go func() {
		if _, ok := <-sig; ok {
			close(done)
		}
	}()
	return done, func() {
		signal.Stop(sig)
		close(sig)
	}
}
