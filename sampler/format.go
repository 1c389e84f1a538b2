package sampler

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/klauspost/compress/zstd"
)

// Format is a shot record encoding.
type Format int

const (
	// Format01 writes one line per shot, one '0' or '1' per measurement.
	Format01 Format = iota
	// FormatB8 packs each shot into ceil(n/8) bytes, measurement 0 in the
	// least significant bit of the first byte.
	FormatB8
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown shot format")

func (f Format) String() string {
	switch f {
	case Format01:
		return "01"
	case FormatB8:
		return "b8"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat accepts "01" and "b8".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "01":
		return Format01, nil
	case "b8":
		return FormatB8, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// WriteShots encodes every shot in order. numMeasurements fixes the record
// width; bits beyond it are ignored.
func WriteShots(w io.Writer, shots []*bitset.BitSet, numMeasurements int, f Format) error {
	bw := bufio.NewWriter(w)
	n := uint(numMeasurements)
	switch f {
	case Format01:
		line := make([]byte, n+1)
		line[n] = '\n'
		for _, s := range shots {
			for m := uint(0); m < n; m++ {
				line[m] = '0'
				if s.Test(m) {
					line[m] = '1'
				}
			}
			if _, err := bw.Write(line); err != nil {
				return err
			}
		}
	case FormatB8:
		buf := make([]byte, (n+7)/8)
		for _, s := range shots {
			clear(buf)
			for m, ok := s.NextSet(0); ok && m < n; m, ok = s.NextSet(m + 1) {
				buf[m/8] |= 1 << (m % 8)
			}
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	return bw.Flush()
}

// ReadShots decodes records written by WriteShots until r is exhausted.
func ReadShots(r io.Reader, numMeasurements int, f Format) ([]*bitset.BitSet, error) {
	br := bufio.NewReader(r)
	n := uint(numMeasurements)
	var out []*bitset.BitSet
	switch f {
	case Format01:
		line := make([]byte, n+1)
		for {
			if _, err := io.ReadFull(br, line); err != nil {
				if errors.Is(err, io.EOF) {
					return out, nil
				}
				return nil, err
			}
			if line[n] != '\n' {
				return nil, fmt.Errorf("sampler: shot %d is not %d characters long", len(out), n)
			}
			s := bitset.New(n)
			for m := uint(0); m < n; m++ {
				switch line[m] {
				case '0':
				case '1':
					s.Set(m)
				default:
					return nil, fmt.Errorf("sampler: unexpected %q in shot %d", line[m], len(out))
				}
			}
			out = append(out, s)
		}
	case FormatB8:
		buf := make([]byte, (n+7)/8)
		if len(buf) == 0 {
			return nil, nil
		}
		for {
			if _, err := io.ReadFull(br, buf); err != nil {
				if errors.Is(err, io.EOF) {
					return out, nil
				}
				return nil, err
			}
			s := bitset.New(n)
			for m := uint(0); m < n; m++ {
				if buf[m/8]&(1<<(m%8)) != 0 {
					s.Set(m)
				}
			}
			out = append(out, s)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}

// NewZstdWriter wraps w so that shot records are zstd compressed. The
// caller must Close the returned encoder to flush the final frame.
func NewZstdWriter(w io.Writer) (*zstd.Encoder, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

// NewZstdReader is the reading counterpart of NewZstdWriter.
func NewZstdReader(r io.Reader) (*zstd.Decoder, error) {
	return zstd.NewReader(r)
}
