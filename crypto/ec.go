package crypto

import (
	"crypto/elliptic"
	"errors"
	"io"
	"math/big"
)

var (
	ErrUnknownCurve    = errors.New("unknown elliptic curve")
	ErrPointNotOnCurve = errors.New("point is not on the curve")
	ErrInvalidPoint    = errors.New("cannot unmarshal elliptic curve point")
)

// CurveID identifies one of the supported NIST curves.
type CurveID int32

const (
	P224 CurveID = iota + 1
	P256
	P384
	P521
)

var curveNames = map[string]CurveID{
	"p224": P224,
	"p256": P256,
	"p384": P384,
	"p521": P521,
}

// CurveByName resolves a lower-case curve name such as "p256".
func CurveByName(name string) (CurveID, bool) {
	id, ok := curveNames[name]
	return id, ok
}

// Curve returns the curve of id.
func (id CurveID) Curve() (elliptic.Curve, error) {
	switch id {
	case P224:
		return elliptic.P224(), nil
	case P256:
		return elliptic.P256(), nil
	case P384:
		return elliptic.P384(), nil
	case P521:
		return elliptic.P521(), nil
	default:
		return nil, ErrUnknownCurve
	}
}

// ByteLen is the size of one coordinate.
func (id CurveID) ByteLen() int {
	c, err := id.Curve()
	if err != nil {
		return 0
	}
	return (c.Params().BitSize + 7) / 8
}

func (id CurveID) onCurve(points ...*big.Int) (elliptic.Curve, error) {
	c, err := id.Curve()
	if err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(points); i += 2 {
		if !c.IsOnCurve(points[i], points[i+1]) {
			return nil, ErrPointNotOnCurve
		}
	}
	return c, nil
}

func (id CurveID) IsOnCurve(x, y *big.Int) bool {
	_, err := id.onCurve(x, y)
	return err == nil
}

func (id CurveID) Add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int, error) {
	c, err := id.onCurve(x1, y1, x2, y2)
	if err != nil {
		return nil, nil, err
	}
	x, y := c.Add(x1, y1, x2, y2)
	return x, y, nil
}

func (id CurveID) Double(x1, y1 *big.Int) (*big.Int, *big.Int, error) {
	c, err := id.onCurve(x1, y1)
	if err != nil {
		return nil, nil, err
	}
	x, y := c.Double(x1, y1)
	return x, y, nil
}

func (id CurveID) ScalarMult(x1, y1 *big.Int, scalar []byte) (*big.Int, *big.Int, error) {
	c, err := id.onCurve(x1, y1)
	if err != nil {
		return nil, nil, err
	}
	x, y := c.ScalarMult(x1, y1, scalar)
	return x, y, nil
}

func (id CurveID) ScalarBaseMult(scalar []byte) (*big.Int, *big.Int, error) {
	c, err := id.Curve()
	if err != nil {
		return nil, nil, err
	}
	x, y := c.ScalarBaseMult(scalar)
	return x, y, nil
}

func (id CurveID) Marshal(x, y *big.Int) ([]byte, error) {
	c, err := id.onCurve(x, y)
	if err != nil {
		return nil, err
	}
	return elliptic.Marshal(c, x, y), nil
}

func (id CurveID) MarshalCompressed(x, y *big.Int) ([]byte, error) {
	c, err := id.onCurve(x, y)
	if err != nil {
		return nil, err
	}
	return elliptic.MarshalCompressed(c, x, y), nil
}

func (id CurveID) Unmarshal(data []byte) (*big.Int, *big.Int, error) {
	c, err := id.Curve()
	if err != nil {
		return nil, nil, err
	}
	x, y := elliptic.Unmarshal(c, data)
	if x == nil {
		return nil, nil, ErrInvalidPoint
	}
	return x, y, nil
}

func (id CurveID) UnmarshalCompressed(data []byte) (*big.Int, *big.Int, error) {
	c, err := id.Curve()
	if err != nil {
		return nil, nil, err
	}
	x, y := elliptic.UnmarshalCompressed(c, data)
	if x == nil {
		return nil, nil, ErrInvalidPoint
	}
	return x, y, nil
}

// GenerateKey derives a private scalar and its public point from rand.
// The result depends only on the bytes read, so a seeded reader gives a
// reproducible key.
func (id CurveID) GenerateKey(rand io.Reader) ([]byte, *big.Int, *big.Int, error) {
	c, err := id.Curve()
	if err != nil {
		return nil, nil, nil, err
	}
	n := c.Params().N
	buf := make([]byte, id.ByteLen())
	for {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, nil, nil, err
		}
		k := new(big.Int).SetBytes(buf)
		if k.Sign() == 0 || k.Cmp(n) >= 0 {
			continue
		}
		priv := k.FillBytes(make([]byte, id.ByteLen()))
		x, y := c.ScalarBaseMult(priv)
		return priv, x, y, nil
	}
}
