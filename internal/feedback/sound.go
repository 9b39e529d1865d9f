package feedback

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/jfreymuth/pulse"

	"github.com/voxtype/voxtype/internal/config"
)

// CueKind identifies each cue event in the recording/transcribing lifecycle.
type CueKind int

const (
	CueStart CueKind = iota + 1
	CueStop
	CueError
)

const cueSampleRate = 16000

// toneSpec describes one synthesized cue tone segment.
type toneSpec struct {
	frequencyHz float64
	duration    time.Duration
	volume      float64
}

var (
	startCuePCM = synthesizeCue([]toneSpec{
		{frequencyHz: 880, duration: 70 * time.Millisecond, volume: 0.18},
		{frequencyHz: 1175, duration: 70 * time.Millisecond, volume: 0.18},
	})
	stopCuePCM = synthesizeCue([]toneSpec{
		{frequencyHz: 620, duration: 120 * time.Millisecond, volume: 0.18},
	})
	errorCuePCM = synthesizeCue([]toneSpec{
		{frequencyHz: 480, duration: 75 * time.Millisecond, volume: 0.18},
		{frequencyHz: 360, duration: 90 * time.Millisecond, volume: 0.18},
	})
)

func (k CueKind) filename() string {
	switch k {
	case CueStart:
		return "start.wav"
	case CueStop:
		return "stop.wav"
	case CueError:
		return "error.wav"
	default:
		return ""
	}
}

func (k CueKind) samples() []int16 {
	switch k {
	case CueStart:
		return startCuePCM
	case CueStop:
		return stopCuePCM
	case CueError:
		return errorCuePCM
	default:
		return nil
	}
}

// CuePlayer plays the audio cue for each lifecycle event, preferring a
// themed WAV file on disk (if the user dropped one in) and falling back
// to a procedurally synthesized tone when no themed file is present or
// playback of one fails.
type CuePlayer struct {
	cfg config.FeedbackConfig
}

// NewCuePlayer builds a CuePlayer from audio feedback config.
func NewCuePlayer(cfg config.FeedbackConfig) *CuePlayer {
	return &CuePlayer{cfg: cfg}
}

// Play emits the cue for kind, honoring Enabled and Volume from config.
func (p *CuePlayer) Play(ctx context.Context, kind CueKind) error {
	if !p.cfg.Enabled {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if data := p.themedWAV(kind); len(data) > 0 {
		if err := playWAVData(ctx, data); err == nil {
			return nil
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	samples := kind.samples()
	if len(samples) == 0 {
		return nil
	}
	return playSynthCue(scaleVolume(samples, p.cfg.Volume))
}

// themedWAV looks up $XDG_DATA_HOME/voxtype/sounds/<theme>/<event>.wav (or
// ~/.local/share when XDG_DATA_HOME is unset). There are no built-in
// default WAV assets shipped with voxtype; a missing themed file simply
// falls through to synthesis.
func (p *CuePlayer) themedWAV(kind CueKind) []byte {
	theme := p.cfg.Theme
	name := kind.filename()
	if theme == "" || theme == "default" || name == "" {
		return nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	path := filepath.Join(dataHome, "voxtype", "sounds", theme, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

// playWAVData plays an on-disk WAV payload through pw-play.
func playWAVData(ctx context.Context, data []byte) error {
	runCtx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "pw-play", "--media-role", "Notification", "-")
	cmd.Stdin = bytes.NewReader(data)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play themed cue: %w", err)
	}
	return nil
}

// playSynthCue streams synthesized PCM samples through Pulse playback.
func playSynthCue(samples []int16) error {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("voxtype"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cursor >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[cursor:])
		cursor += n
		if cursor >= len(samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(cueSampleRate),
		pulse.PlaybackLatency(0.02),
		pulse.PlaybackMediaName("voxtype cue"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play cue stream: %w", err)
	}
	return nil
}

// scaleVolume rescales pre-baked PCM (authored at volume 0.18) to the
// configured volume in [0, 1].
func scaleVolume(samples []int16, volume float64) []int16 {
	const baseline = 0.18
	if volume <= 0 {
		return make([]int16, len(samples))
	}
	factor := volume / baseline
	if factor == 1 {
		return samples
	}

	out := make([]int16, len(samples))
	for i, s := range samples {
		v := float64(s) * factor
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}

// synthesizeCue concatenates one or more tone segments with short silence gaps.
func synthesizeCue(parts []toneSpec) []int16 {
	if len(parts) == 0 {
		return nil
	}
	gapSamples := samplesForDuration(22 * time.Millisecond)
	total := 0
	for i, part := range parts {
		total += samplesForDuration(part.duration)
		if i < len(parts)-1 {
			total += gapSamples
		}
	}

	pcm := make([]int16, 0, total)
	for i, part := range parts {
		pcm = append(pcm, synthesizeTone(part)...)
		if i < len(parts)-1 && gapSamples > 0 {
			pcm = append(pcm, make([]int16, gapSamples)...)
		}
	}
	return pcm
}

// synthesizeTone creates one windowed sine-wave segment.
func synthesizeTone(spec toneSpec) []int16 {
	n := samplesForDuration(spec.duration)
	if n <= 0 || spec.frequencyHz <= 0 || spec.volume <= 0 {
		return nil
	}

	attackRelease := n / 10
	maxRamp := cueSampleRate / 200 // 5ms
	if attackRelease > maxRamp {
		attackRelease = maxRamp
	}
	if attackRelease < 1 {
		attackRelease = 1
	}

	pcm := make([]int16, n)
	for i := 0; i < n; i++ {
		envelope := 1.0
		if i < attackRelease {
			envelope = float64(i) / float64(attackRelease)
		}
		releaseIndex := n - i - 1
		if releaseIndex < attackRelease {
			release := float64(releaseIndex) / float64(attackRelease)
			if release < envelope {
				envelope = release
			}
		}
		t := float64(i) / cueSampleRate
		sample := math.Sin(2 * math.Pi * spec.frequencyHz * t)
		pcm[i] = int16(math.Round(sample * spec.volume * envelope * 32767))
	}
	return pcm
}

// samplesForDuration converts a time duration into cue sample count.
func samplesForDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * cueSampleRate))
}
