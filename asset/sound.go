package asset

import (
	"time"

	"github.com/gopxl/beep"
)

// resampleQuality is passed to beep.Resample when a clip is converted to the
// playback rate.
const resampleQuality = 4

// Sound is a decoded audio clip held fully in memory.
type Sound struct {
	buf     *beep.Buffer
	version int
}

// NewSound drains s into a new Sound using the provided format.
func NewSound(format beep.Format, s beep.Streamer) *Sound {
	buf := beep.NewBuffer(format)
	if s != nil {
		buf.Append(s)
	}
	return &Sound{buf: buf}
}

// Kind implements Data.
func (s *Sound) Kind() Kind {
	return KindSound
}

// Format returns the format of the decoded samples.
func (s *Sound) Format() beep.Format {
	if s == nil || s.buf == nil {
		return beep.Format{}
	}
	return s.buf.Format()
}

// Len returns the number of samples in the clip.
func (s *Sound) Len() int {
	if s == nil || s.buf == nil {
		return 0
	}
	return s.buf.Len()
}

// Duration returns the length of the clip.
func (s *Sound) Duration() time.Duration {
	if s.Len() == 0 {
		return 0
	}
	return s.Format().SampleRate.D(s.Len())
}

// Streamer returns a streamer over the whole clip.
func (s *Sound) Streamer() beep.StreamSeeker {
	if s == nil || s.buf == nil {
		return nil
	}
	return s.buf.Streamer(0, s.buf.Len())
}

// Version is incremented each time the samples are replaced by a refresh.
func (s *Sound) Version() int {
	if s == nil {
		return 0
	}
	return s.version
}

// PCM renders the clip as signed 16-bit little endian stereo at sampleRate.
func (s *Sound) PCM(sampleRate int) []byte {
	if s.Len() == 0 || sampleRate <= 0 {
		return nil
	}

	var st beep.Streamer = s.Streamer()
	from := s.Format().SampleRate
	if from <= 0 {
		from = beep.SampleRate(sampleRate)
	}
	if int(from) != sampleRate {
		st = beep.Resample(resampleQuality, from, beep.SampleRate(sampleRate), st)
	}

	out := make([]byte, 0, int(int64(s.Len())*int64(sampleRate)/int64(from)+1)*4)
	samples := make([][2]float64, 512)
	for {
		n, ok := st.Stream(samples)
		for _, frame := range samples[:n] {
			for _, v := range frame {
				if v > 1 {
					v = 1
				} else if v < -1 {
					v = -1
				}
				x := int16(v * 32767)
				out = append(out, byte(x), byte(x>>8))
			}
		}
		if !ok || n == 0 {
			break
		}
	}
	return out
}

func (s *Sound) replace(o *Sound) {
	s.buf = o.buf
	s.version++
}
