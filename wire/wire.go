// Package wire implements spec.md §4.9's length-prefixed byte-string
// encoding: a two-byte element count, a two-byte length per element, then
// the concatenated element bodies, all big-endian. Field elements,
// Fp2 elements, points, and the parameters bundle are all built on top of
// this one array primitive.
//
// Grounded on original_source/byte_string.c's byte_string_encode_array/
// byte_string_decode_array for the exact framing, and the teacher's
// int.go (ToBytes32/FromBytes32) for the big-endian integer idiom,
// generalized here from a fixed 32-byte width to the variable-length
// minimal encoding spec.md §4.9 requires.
package wire

import (
	"encoding/binary"
	"math/big"

	"threshold.network/ibecore/curve"
	"threshold.network/ibecore/fp2"
	"threshold.network/ibecore/ibeerrors"
	"threshold.network/ibecore/pairing"
	"threshold.network/ibecore/system"
)

// maxArrayElements bounds the two-byte count field, per the on-wire
// format's width.
const maxArrayElements = 1<<16 - 1

// EncodeArray frames parts as a two-byte count, one two-byte length per
// part, then the concatenated bodies.
func EncodeArray(parts ...[]byte) ([]byte, error) {
	if len(parts) > maxArrayElements {
		return nil, ibeerrors.New(ibeerrors.KindStructural, "wire.EncodeArray", "too many elements for a two-byte count")
	}
	total := 2 + 2*len(parts)
	for _, p := range parts {
		if len(p) > maxArrayElements {
			return nil, ibeerrors.New(ibeerrors.KindStructural, "wire.EncodeArray", "element too long for a two-byte length")
		}
		total += len(p)
	}

	out := make([]byte, total)
	binary.BigEndian.PutUint16(out[0:2], uint16(len(parts)))
	offset := 2
	for _, p := range parts {
		binary.BigEndian.PutUint16(out[offset:offset+2], uint16(len(p)))
		offset += 2
	}
	for _, p := range parts {
		copy(out[offset:], p)
		offset += len(p)
	}
	return out, nil
}

// DecodeArray reverses EncodeArray, validating the declared lengths
// against the actual buffer size (spec.md §7's structural-violation
// check).
func DecodeArray(data []byte) ([][]byte, error) {
	if len(data) < 2 {
		return nil, ibeerrors.New(ibeerrors.KindStructural, "wire.DecodeArray", "buffer shorter than the count field")
	}
	n := int(binary.BigEndian.Uint16(data[0:2]))
	if len(data) < 2+2*n {
		return nil, ibeerrors.New(ibeerrors.KindStructural, "wire.DecodeArray", "buffer shorter than the length table")
	}

	lengths := make([]int, n)
	offset := 2
	total := 0
	for i := 0; i < n; i++ {
		l := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		lengths[i] = l
		total += l
		offset += 2
	}
	if len(data) != offset+total {
		return nil, ibeerrors.New(ibeerrors.KindStructural, "wire.DecodeArray", "buffer length does not match declared element bodies")
	}

	parts := make([][]byte, n)
	for i := 0; i < n; i++ {
		parts[i] = data[offset : offset+lengths[i]]
		offset += lengths[i]
	}
	return parts, nil
}

// EncodeBigInt returns the minimal big-endian encoding of a nonnegative
// integer (no leading zero byte except for zero itself, which encodes as
// a single zero byte).
func EncodeBigInt(x *big.Int) []byte {
	if x.Sign() == 0 {
		return []byte{0}
	}
	return x.Bytes()
}

// DecodeBigInt is the inverse of EncodeBigInt.
func DecodeBigInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// EncodeFp2 encodes x as the length-prefixed pair (a,b).
func EncodeFp2(x *fp2.Element) ([]byte, error) {
	return EncodeArray(EncodeBigInt(x.A), EncodeBigInt(x.B))
}

// DecodeFp2 is the inverse of EncodeFp2, validating both coordinates lie
// in [0,p).
func DecodeFp2(f *fp2.Field, data []byte) (*fp2.Element, error) {
	parts, err := DecodeArray(data)
	if err != nil {
		return nil, ibeerrors.Wrap(ibeerrors.KindStructural, "wire.DecodeFp2", err)
	}
	if len(parts) != 2 {
		return nil, ibeerrors.New(ibeerrors.KindStructural, "wire.DecodeFp2", "expected exactly two coordinates")
	}
	return f.FromBytes(parts[0], parts[1])
}

// EncodePoint encodes P as the length-prefixed pair (x,y). Infinity
// cannot occur in serialized public data (spec.md §4.9) and is rejected.
func EncodePoint(P curve.Point) ([]byte, error) {
	if P.Infinity {
		return nil, ibeerrors.New(ibeerrors.KindStructural, "wire.EncodePoint", "cannot serialize the point at infinity")
	}
	xb, err := EncodeFp2(P.X)
	if err != nil {
		return nil, err
	}
	yb, err := EncodeFp2(P.Y)
	if err != nil {
		return nil, err
	}
	return EncodeArray(xb, yb)
}

// DecodePoint is the inverse of EncodePoint; it does not check the curve
// equation (each coordinate is still range-checked by DecodeFp2) —
// callers that need curve membership call curve.IsOnCurve.
func DecodePoint(f *fp2.Field, data []byte) (curve.Point, error) {
	parts, err := DecodeArray(data)
	if err != nil {
		return curve.Point{}, ibeerrors.Wrap(ibeerrors.KindStructural, "wire.DecodePoint", err)
	}
	if len(parts) != 2 {
		return curve.Point{}, ibeerrors.New(ibeerrors.KindStructural, "wire.DecodePoint", "expected exactly two coordinates")
	}
	x, err := DecodeFp2(f, parts[0])
	if err != nil {
		return curve.Point{}, err
	}
	y, err := DecodeFp2(f, parts[1])
	if err != nil {
		return curve.Point{}, err
	}
	return curve.Point{X: x, Y: y}, nil
}

// EncodeParams serializes params as the ordered array spec.md §4.9
// names: version, system-id, p, q, P, P_pub, t, n, then n interleaved
// (x_i,P_i) pairs.
func EncodeParams(p *system.Params) ([]byte, error) {
	P, err := EncodePoint(p.Generator)
	if err != nil {
		return nil, err
	}
	PPub, err := EncodePoint(p.PPub)
	if err != nil {
		return nil, err
	}

	parts := [][]byte{
		EncodeBigInt(big.NewInt(int64(p.Version))),
		[]byte(p.SystemID),
		EncodeBigInt(p.Descriptor.Curve.P),
		EncodeBigInt(p.Descriptor.Curve.Q),
		P,
		PPub,
		EncodeBigInt(big.NewInt(int64(p.T))),
		EncodeBigInt(big.NewInt(int64(p.N))),
	}
	for i := 0; i < p.N; i++ {
		xi := EncodeBigInt(p.RobustX[i])
		pi, err := EncodePoint(p.RobustP[i])
		if err != nil {
			return nil, err
		}
		parts = append(parts, xi, pi)
	}
	return EncodeArray(parts...)
}

// DecodeParams reverses EncodeParams, rebuilding the curve/pairing
// descriptor and the fixed-base/Miller-cache precomputations (which are
// derived data, not part of the wire format) from the decoded p,q,P,P_pub.
func DecodeParams(data []byte) (*system.Params, error) {
	parts, err := DecodeArray(data)
	if err != nil {
		return nil, ibeerrors.Wrap(ibeerrors.KindStructural, "wire.DecodeParams", err)
	}
	if len(parts) < 8 {
		return nil, ibeerrors.New(ibeerrors.KindStructural, "wire.DecodeParams", "too few top-level fields")
	}

	version := int(DecodeBigInt(parts[0]).Int64())
	systemID := string(parts[1])
	p := DecodeBigInt(parts[2])
	q := DecodeBigInt(parts[3])

	desc, err := system.NewDescriptor(p, q)
	if err != nil {
		return nil, ibeerrors.Wrap(ibeerrors.KindDomain, "wire.DecodeParams", err)
	}

	generator, err := DecodePoint(desc.Curve.F2, parts[4])
	if err != nil {
		return nil, err
	}
	ppub, err := DecodePoint(desc.Curve.F2, parts[5])
	if err != nil {
		return nil, err
	}
	t := int(DecodeBigInt(parts[6]).Int64())
	n := int(DecodeBigInt(parts[7]).Int64())

	if len(parts) != 8+2*n {
		return nil, ibeerrors.New(ibeerrors.KindStructural, "wire.DecodeParams", "robust array length does not match n")
	}

	robustX := make([]*big.Int, n)
	robustP := make([]curve.Point, n)
	for i := 0; i < n; i++ {
		robustX[i] = DecodeBigInt(parts[8+2*i])
		rp, err := DecodePoint(desc.Curve.F2, parts[8+2*i+1])
		if err != nil {
			return nil, err
		}
		robustP[i] = rp
	}

	return &system.Params{
		Descriptor:     desc,
		Version:        version,
		SystemID:       systemID,
		Generator:      generator,
		GeneratorTable: desc.Curve.Preprocess(generator),
		PPub:           ppub,
		PPubCache:      pairing.Preprocess(desc.Curve, ppub),
		T:              t,
		N:              n,
		RobustX:        robustX,
		RobustP:        robustP,
	}, nil
}
