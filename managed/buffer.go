package managed

import (
	"bytes"
	"fmt"
	"math/big"
)

func (a *Arena) checkLength(n int) error {
	if n > a.config.MaxBufferLength {
		return fmt.Errorf("%w: %d > %d", ErrMaxBufferLength, n, a.config.MaxBufferLength)
	}
	return nil
}

// NewBuffer stores a copy of b.
func (a *Arena) NewBuffer(b []byte) (Handle, error) {
	if err := a.checkLength(len(b)); err != nil {
		return 0, err
	}
	h, err := a.nextHandle()
	if err != nil {
		return 0, err
	}
	a.buffers[h] = append([]byte{}, b...)
	return h, nil
}

func (a *Arena) getBuffer(h Handle) ([]byte, error) {
	b, ok := a.buffers[h]
	if !ok {
		return nil, invalidHandle("managed buffer", h)
	}
	return b, nil
}

// IsBuffer reports whether h names a byte buffer.
func (a *Arena) IsBuffer(h Handle) bool {
	_, ok := a.buffers[h]
	return ok
}

func (a *Arena) BufferLen(h Handle) (int, error) {
	b, err := a.getBuffer(h)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// BufferBytes returns a copy of the buffer contents.
func (a *Arena) BufferBytes(h Handle) ([]byte, error) {
	b, err := a.getBuffer(h)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, b...), nil
}

// SetBuffer replaces the contents of an existing buffer with a copy of b.
func (a *Arena) SetBuffer(h Handle, b []byte) error {
	if _, err := a.getBuffer(h); err != nil {
		return err
	}
	if err := a.checkLength(len(b)); err != nil {
		return err
	}
	a.buffers[h] = append([]byte{}, b...)
	return nil
}

// AppendBytes appends b to the buffer under h.
func (a *Arena) AppendBytes(h Handle, b []byte) error {
	cur, err := a.getBuffer(h)
	if err != nil {
		return err
	}
	if err := a.checkLength(len(cur) + len(b)); err != nil {
		return err
	}
	a.buffers[h] = append(cur, b...)
	return nil
}

// AppendBuffer appends the contents of src to dst.
func (a *Arena) AppendBuffer(dst, src Handle) error {
	b, err := a.BufferBytes(src)
	if err != nil {
		return err
	}
	return a.AppendBytes(dst, b)
}

// CopySlice copies length bytes starting at start from h into dst.
func (a *Arena) CopySlice(h Handle, start, length int, dst Handle) error {
	src, err := a.getBuffer(h)
	if err != nil {
		return err
	}
	if _, err := a.getBuffer(dst); err != nil {
		return err
	}
	if start < 0 || length < 0 || start+length > len(src) {
		return ErrSliceOutOfRange
	}
	a.buffers[dst] = append([]byte{}, src[start:start+length]...)
	return nil
}

// SetSlice overwrites the buffer starting at start. The buffer does not grow.
func (a *Arena) SetSlice(h Handle, start int, b []byte) error {
	cur, err := a.getBuffer(h)
	if err != nil {
		return err
	}
	if start < 0 || start+len(b) > len(cur) {
		return ErrSliceOutOfRange
	}
	copy(cur[start:], b)
	return nil
}

func (a *Arena) BufferEq(h1, h2 Handle) (bool, error) {
	x, err := a.getBuffer(h1)
	if err != nil {
		return false, err
	}
	y, err := a.getBuffer(h2)
	if err != nil {
		return false, err
	}
	return bytes.Equal(x, y), nil
}

// BufferToBigIntUnsigned reads the buffer as an unsigned big-endian integer into bi.
func (a *Arena) BufferToBigIntUnsigned(buf, bi Handle) error {
	b, err := a.getBuffer(buf)
	if err != nil {
		return err
	}
	return a.SetBigInt(bi, new(big.Int).SetBytes(b))
}

// BufferToBigIntSigned reads the buffer as two's complement into bi.
func (a *Arena) BufferToBigIntSigned(buf, bi Handle) error {
	b, err := a.getBuffer(buf)
	if err != nil {
		return err
	}
	return a.SetBigInt(bi, FromSignedBytes(b))
}

// BufferFromBigIntUnsigned writes the magnitude of bi into buf.
func (a *Arena) BufferFromBigIntUnsigned(buf, bi Handle) error {
	b, err := a.BigIntUnsignedBytes(bi)
	if err != nil {
		return err
	}
	return a.SetBuffer(buf, b)
}

// BufferFromBigIntSigned writes the two's complement encoding of bi into buf.
func (a *Arena) BufferFromBigIntSigned(buf, bi Handle) error {
	b, err := a.BigIntSignedBytes(bi)
	if err != nil {
		return err
	}
	return a.SetBuffer(buf, b)
}
