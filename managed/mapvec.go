package managed

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// NewMap allocates an empty managed map.
func (a *Arena) NewMap() (Handle, error) {
	h, err := a.nextHandle()
	if err != nil {
		return 0, err
	}
	a.maps[h] = make(map[string][]byte)
	return h, nil
}

func (a *Arena) getMap(h Handle) (map[string][]byte, error) {
	m, ok := a.maps[h]
	if !ok {
		return nil, invalidHandle("managed map", h)
	}
	return m, nil
}

// MapPut stores a copy of value under key. An empty value removes the key.
func (a *Arena) MapPut(h Handle, key, value []byte) error {
	m, err := a.getMap(h)
	if err != nil {
		return err
	}
	if len(value) == 0 {
		delete(m, string(key))
		return nil
	}
	m[string(key)] = append([]byte{}, value...)
	return nil
}

// MapGet returns a copy of the value under key and whether it was present.
func (a *Arena) MapGet(h Handle, key []byte) ([]byte, bool, error) {
	m, err := a.getMap(h)
	if err != nil {
		return nil, false, err
	}
	v, ok := m[string(key)]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, v...), true, nil
}

// MapRemove deletes key and returns the value it held.
func (a *Arena) MapRemove(h Handle, key []byte) ([]byte, error) {
	m, err := a.getMap(h)
	if err != nil {
		return nil, err
	}
	v := m[string(key)]
	delete(m, string(key))
	return v, nil
}

func (a *Arena) MapContains(h Handle, key []byte) (bool, error) {
	m, err := a.getMap(h)
	if err != nil {
		return false, err
	}
	_, ok := m[string(key)]
	return ok, nil
}

func (a *Arena) MapLen(h Handle) (int, error) {
	m, err := a.getMap(h)
	if err != nil {
		return 0, err
	}
	return len(m), nil
}

// MapKeys returns the keys in ascending byte order.
func (a *Arena) MapKeys(h Handle) ([][]byte, error) {
	m, err := a.getMap(h)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = []byte(k)
	}
	return out, nil
}

// HandleSize is the encoded width of a handle inside a managed vec.
const HandleSize = 4

// VecLen returns the number of stride-sized items held by the buffer under h.
func (a *Arena) VecLen(h Handle, stride int) (int, error) {
	b, err := a.getBuffer(h)
	if err != nil {
		return 0, err
	}
	if stride <= 0 || len(b)%stride != 0 {
		return 0, fmt.Errorf("%w: length %d is not a multiple of %d", ErrMalformedBuffer, len(b), stride)
	}
	return len(b) / stride, nil
}

// VecGet returns a copy of item index.
func (a *Arena) VecGet(h Handle, index, stride int) ([]byte, error) {
	n, err := a.VecLen(h, stride)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= n {
		return nil, fmt.Errorf("%w: index %d of %d", ErrOutOfRange, index, n)
	}
	b := a.buffers[h]
	return append([]byte{}, b[index*stride:(index+1)*stride]...), nil
}

// VecPush appends one item; the item length defines the stride.
func (a *Arena) VecPush(h Handle, item []byte) error {
	if _, err := a.VecLen(h, len(item)); err != nil {
		return err
	}
	return a.AppendBytes(h, item)
}

// HandleVec decodes a vec of handles.
func (a *Arena) HandleVec(h Handle) ([]Handle, error) {
	n, err := a.VecLen(h, HandleSize)
	if err != nil {
		return nil, err
	}
	b := a.buffers[h]
	out := make([]Handle, n)
	for i := range out {
		out[i] = Handle(int32(binary.BigEndian.Uint32(b[i*HandleSize:])))
	}
	return out, nil
}

// PushHandle appends item to the handle vec under h.
func (a *Arena) PushHandle(h, item Handle) error {
	var b [HandleSize]byte
	binary.BigEndian.PutUint32(b[:], uint32(item))
	return a.VecPush(h, b[:])
}

// ReadBufferVec resolves a managed argument buffer: a vec whose items are
// buffer handles. It returns the contents of every referenced buffer.
func (a *Arena) ReadBufferVec(h Handle) ([][]byte, error) {
	handles, err := a.HandleVec(h)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(handles))
	for i, item := range handles {
		if out[i], err = a.BufferBytes(item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// NewBufferVec allocates one buffer per value and a vec referencing them.
func (a *Arena) NewBufferVec(values [][]byte) (Handle, error) {
	vec, err := a.NewBuffer(nil)
	if err != nil {
		return 0, err
	}
	for _, v := range values {
		item, err := a.NewBuffer(v)
		if err != nil {
			return 0, err
		}
		if err := a.PushHandle(vec, item); err != nil {
			return 0, err
		}
	}
	return vec, nil
}

// SetBufferVec replaces the contents of the vec under h with references to
// fresh buffers holding values.
func (a *Arena) SetBufferVec(h Handle, values [][]byte) error {
	if err := a.SetBuffer(h, nil); err != nil {
		return err
	}
	for _, v := range values {
		item, err := a.NewBuffer(v)
		if err != nil {
			return err
		}
		if err := a.PushHandle(h, item); err != nil {
			return err
		}
	}
	return nil
}
