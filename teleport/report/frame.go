package report

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// MaxFrameBytes bounds the length prefix a Framer accepts.
var MaxFrameBytes = 1 << 24

// A Framer reads and writes framed protocol buffers.
// The structure of the frame is trivial:  proto-length | proto
// where proto-length is a little-endian int32.
type Framer struct {
	r io.Reader
	w io.Writer
}

// NewFramer returns a Framer reading from and writing to rw.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{r: rw, w: rw}
}

func (f *Framer) Write(m proto.Message) error {
	if f.w == nil {
		return errors.New("framer is read-only")
	}
	marshalled, err := proto.Marshal(m)
	if err != nil {
		return err
	}
	if err := binary.Write(f.w, binary.LittleEndian, int32(len(marshalled))); err != nil {
		return err
	}
	_, err = f.w.Write(marshalled)
	return err
}

// Read reads the next frame into m. It returns io.EOF, unwrapped, only when
// the stream ends cleanly between frames.
func (f *Framer) Read(m proto.Message) error {
	var mLen int32
	if err := binary.Read(f.r, binary.LittleEndian, &mLen); err != nil {
		return err
	}
	if mLen < 0 || int(mLen) > MaxFrameBytes {
		return fmt.Errorf("invalid frame length %d", mLen)
	}
	marshalled := make([]byte, mLen)
	if _, err := io.ReadFull(f.r, marshalled); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	return proto.Unmarshal(marshalled, m)
}

// ReadAll reads report frames from r until it is exhausted.
func ReadAll(r io.Reader) ([]*structpb.Struct, error) {
	f := &Framer{r: r}
	var ret []*structpb.Struct
	for {
		s := new(structpb.Struct)
		err := f.Read(s)
		if err == io.EOF {
			return ret, nil
		}
		if err != nil {
			return ret, fmt.Errorf("frame %d: %w", len(ret), err)
		}
		ret = append(ret, s)
	}
}
