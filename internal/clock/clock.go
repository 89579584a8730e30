package clock

import (
	"bytes"
	"context"
	"io/ioutil"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/pkg/errors"
)

// ErrNotLoaded is returned by playback calls before a successful Load.
var ErrNotLoaded = errors.New("no audio loaded")

// Clock decodes a song fully into memory and projects a drift-free song time
// from the wall clock. It owns the one hardware output; a new Play always
// supersedes whatever was sounding before.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	rate float64

	buffer *beep.Buffer
	format beep.Format
	length time.Duration

	current *segment

	playing      bool
	startRef     time.Time
	startOffset  time.Duration
	pauseOffset  time.Duration
	loop         bool
	playDuration time.Duration
	end          time.Duration
}

func New(rate float64) *Clock {
	if rate <= 0 {
		rate = 1
	}
	return &Clock{now: time.Now, rate: rate}
}

// segment wraps a playing streamer so it can be cut off when superseded.
// stopped may only be flipped under the speaker lock.
type segment struct {
	streamer beep.Streamer
	ctrl     *beep.Ctrl
	stopped  bool
}

func (s *segment) Stream(samples [][2]float64) (int, bool) {
	if s.stopped {
		return 0, false
	}
	return s.streamer.Stream(samples)
}

func (s *segment) Err() error {
	return s.streamer.Err()
}

type decoded struct {
	buffer *beep.Buffer
	format beep.Format
	err    error
}

func decode(data []byte) decoded {
	rc := ioutil.NopCloser(bytes.NewReader(data))
	var streamer beep.StreamSeekCloser
	var format beep.Format
	var err error
	if bytes.HasPrefix(data, []byte("OggS")) {
		streamer, format, err = vorbis.Decode(rc)
	} else {
		streamer, format, err = mp3.Decode(rc)
	}
	if nil != err {
		return decoded{err: errors.Wrap(err, "unable to decode audio")}
	}
	defer streamer.Close()
	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return decoded{buffer: buffer, format: format}
}

// Load decodes the payload fully before returning its duration. The decode
// keeps running in the background if ctx is cancelled, but its result is
// discarded and never applied.
func (c *Clock) Load(ctx context.Context, data []byte) (time.Duration, error) {
	done := make(chan decoded, 1)
	go func() {
		done <- decode(data)
	}()

	var d decoded
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case d = <-done:
	}
	if nil != d.err {
		return 0, d.err
	}

	sr := beep.SampleRate(math.Round(float64(d.format.SampleRate) * c.rate))
	if err := speaker.Init(sr, d.format.SampleRate.N(time.Second/30)); nil != err {
		return 0, errors.Wrap(err, "unable to init speaker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffer = d.buffer
	c.format = d.format
	c.length = d.format.SampleRate.D(d.buffer.Len())
	c.playing = false
	c.pauseOffset = 0
	return c.length, nil
}

func (c *Clock) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer != nil
}

func (c *Clock) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.length
}

// Play starts playback at offset. A duration of 0 plays to the natural end.
// With loop set, playback wraps between offset and offset+duration until
// superseded or stopped.
func (c *Clock) Play(offset, duration time.Duration, loop bool, volume float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buffer == nil {
		return ErrNotLoaded
	}

	if offset < 0 {
		offset = 0
	}
	from := c.format.SampleRate.N(offset)
	to := c.buffer.Len()
	if duration > 0 {
		to = c.format.SampleRate.N(offset + duration)
	}
	if from > c.buffer.Len() {
		from = c.buffer.Len()
	}
	if to > c.buffer.Len() {
		to = c.buffer.Len()
	}

	var streamer beep.Streamer = c.buffer.Streamer(from, to)
	if loop {
		streamer = beep.Loop(-1, c.buffer.Streamer(from, to))
	}
	ctrl := &beep.Ctrl{Streamer: streamer}
	seg := &segment{
		streamer: &effects.Volume{
			Streamer: ctrl,
			Base:     2,
			Volume:   volume,
			Silent:   volume <= -8,
		},
		ctrl: ctrl,
	}

	speaker.Lock()
	if c.current != nil {
		c.current.stopped = true
	}
	speaker.Unlock()
	speaker.Play(seg)
	c.current = seg

	c.playing = true
	c.startRef = c.now()
	c.startOffset = offset
	c.loop = loop
	c.playDuration = duration
	if loop || duration <= 0 {
		c.end = c.length
	} else {
		c.end = offset + duration
	}
	return nil
}

// Pause captures the current position via the projection formula so Resume
// continues exactly where the song time was read.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.pauseOffset = c.project(c.now())
	c.playing = false
	if c.current != nil {
		speaker.Lock()
		c.current.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing || c.current == nil {
		return
	}
	c.startRef = c.now()
	c.startOffset = c.pauseOffset
	c.playing = true
	speaker.Lock()
	c.current.ctrl.Paused = false
	speaker.Unlock()
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
	c.pauseOffset = 0
	c.startOffset = 0
	if c.current != nil {
		speaker.Lock()
		c.current.stopped = true
		speaker.Unlock()
		c.current = nil
	}
}

// CurrentTime is a pure projection of the wall clock, safe to call any
// number of times per frame with no accumulating error.
func (c *Clock) CurrentTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.project(c.now())
}

func (c *Clock) project(now time.Time) time.Duration {
	if !c.playing {
		return c.pauseOffset
	}
	elapsed := time.Duration(float64(now.Sub(c.startRef)) * c.rate)
	t := c.startOffset + elapsed
	if c.loop && c.playDuration > 0 {
		t = c.startOffset + (t-c.startOffset)%c.playDuration
	}
	return t
}

func (c *Clock) HasEnded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loop || !c.playing {
		return false
	}
	return c.project(c.now()) >= c.end
}
