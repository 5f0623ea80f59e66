// Package trace records compositor frames as a CBOR sequence.
//
// A trace file starts with an 8 byte header followed by one CBOR encoded
// Record per frame:
//
//	[0:2]  magic   (big-endian uint16, 0x4154)
//	[2]    version (uint8, 1)
//	[3:8]  reserved, zero
package trace

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/errors"
)

// Header constants.
const (
	HeaderSize = 8
	Magic      = 0x4154 // ASCII 'AT'
	Version    = 1
)

// Errors returned while reading a trace.
var (
	ErrShortHeader = errors.New("trace: file too short for header")
	ErrBadMagic    = errors.New("trace: invalid magic bytes")
	ErrVersion     = errors.New("trace: unsupported version")
)

// Event is the recorded form of an animation event.
type Event struct {
	Type      string  `cbor:"type"`
	Element   uint64  `cbor:"element"`
	Group     int     `cbor:"group"`
	Property  string  `cbor:"property"`
	Time      int64   `cbor:"time"`
	ImplOnly  bool    `cbor:"implOnly,omitempty"`
	Opacity   float64 `cbor:"opacity,omitempty"`
	StartTime float64 `cbor:"startTime,omitempty"`
}

// Record is one frame of a trace.
type Record struct {
	Frame  int      `cbor:"frame"`
	Time   int64    `cbor:"time"`
	Events []Event  `cbor:"events,omitempty"`
	Active []uint64 `cbor:"active,omitempty"`
}

// NewRecord converts the outcome of a frame.
func NewRecord(frame int, now animation.TimeTicks, events animation.AnimationEvents, active []animation.ElementID) Record {
	r := Record{Frame: frame, Time: int64(now)}
	for _, ev := range events {
		e := Event{
			Type:     ev.Type.String(),
			Element:  uint64(ev.ElementID),
			Group:    ev.GroupID,
			Property: ev.TargetProperty.String(),
			Time:     int64(ev.MonotonicTime),
			ImplOnly: ev.IsImplOnly,
		}
		switch ev.Type {
		case animation.EventPropertyUpdate:
			e.Opacity = ev.Opacity
		case animation.EventTakeover:
			e.StartTime = ev.AnimationStartTime
		}
		r.Events = append(r.Events, e)
	}
	for _, id := range active {
		r.Active = append(r.Active, uint64(id))
	}
	return r
}

// Encoder writes records to a trace stream.
type Encoder struct {
	w      io.Writer
	enc    *cbor.Encoder
	header bool
}

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}

// NewEncoder returns an encoder writing to w. The header is written with the
// first record.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, enc: encMode.NewEncoder(w)}
}

// Encode appends r to the stream.
func (e *Encoder) Encode(r Record) error {
	if !e.header {
		if _, err := e.w.Write(encodeHeader()); err != nil {
			return traceError("trace.Encode", err)
		}
		e.header = true
	}
	if err := e.enc.Encode(r); err != nil {
		return traceError("trace.Encode", fmt.Errorf("frame %d: %w", r.Frame, err))
	}
	return nil
}

func encodeHeader() []byte {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(buf[0:2], Magic)
	buf[2] = Version
	return buf
}

// Decode reads every record of a trace stream. An empty stream holds no
// records.
func Decode(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(br, header)
	switch {
	case errors.Is(err, io.EOF):
		return nil, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, traceError("trace.Decode", fmt.Errorf("%w (%d bytes)", ErrShortHeader, n))
	case err != nil:
		return nil, traceError("trace.Decode", err)
	}
	if binary.BigEndian.Uint16(header[0:2]) != Magic {
		return nil, traceError("trace.Decode", ErrBadMagic)
	}
	if header[2] != Version {
		return nil, traceError("trace.Decode", fmt.Errorf("%w %d", ErrVersion, header[2]))
	}

	dec := cbor.NewDecoder(br)
	var records []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, traceError("trace.Decode", fmt.Errorf("record %d: %w", len(records), err))
		}
		records = append(records, rec)
	}
}

func traceError(op string, err error) error {
	return &errors.AnimationError{Op: op, Kind: errors.KindTrace, Err: err}
}
