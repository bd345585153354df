// Package leb128 implements the variable-length integer encoding used
// throughout the WebAssembly binary format: LEB128, least-significant
// group first, seven payload bits per byte, continuation flag in the
// high bit of each byte.
//
// See https://webassembly.github.io/spec/core/binary/values.html#integers
package leb128

import "fmt"

// EncodeUint32 encodes v as unsigned LEB128.
func EncodeUint32(v uint32) []byte {
	return EncodeUint64(uint64(v))
}

// EncodeUint64 encodes v as unsigned LEB128.
func EncodeUint64(v uint64) []byte {
	out := make([]byte, 0, 10)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// EncodeInt32 encodes v as signed LEB128.
func EncodeInt32(v int32) []byte {
	return EncodeInt64(int64(v))
}

// EncodeInt64 encodes v as signed LEB128: each byte carries 7 payload
// bits, sign-extended, and encoding stops once the remaining bits are
// redundant with the sign of the last payload bit written.
func EncodeInt64(v int64) []byte {
	out := make([]byte, 0, 10)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}

// LoadUint32 decodes an unsigned LEB128 value from the front of b,
// returning the value and the number of bytes consumed.
func LoadUint32(b []byte) (uint32, uint64, error) {
	v, n, err := LoadUint64(b)
	if err != nil {
		return 0, 0, err
	}
	if v > 0xffffffff {
		return 0, 0, fmt.Errorf("leb128: value %d overflows uint32", v)
	}
	return uint32(v), n, nil
}

// LoadUint64 decodes an unsigned LEB128 value from the front of b.
func LoadUint64(b []byte) (uint64, uint64, error) {
	var result uint64
	var shift uint
	for i, c := range b {
		if shift >= 64 {
			return 0, 0, fmt.Errorf("leb128: too many continuation bytes")
		}
		result |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return result, uint64(i + 1), nil
		}
		shift += 7
	}
	return 0, 0, fmt.Errorf("leb128: truncated input")
}

// LoadInt32 decodes a signed LEB128 value from the front of b.
func LoadInt32(b []byte) (int32, uint64, error) {
	v, n, err := LoadInt64(b)
	if err != nil {
		return 0, 0, err
	}
	if v > 0x7fffffff || v < -0x80000000 {
		return 0, 0, fmt.Errorf("leb128: value %d overflows int32", v)
	}
	return int32(v), n, nil
}

// LoadInt64 decodes a signed LEB128 value from the front of b.
func LoadInt64(b []byte) (int64, uint64, error) {
	var result int64
	var shift uint
	for i, c := range b {
		if shift >= 64 {
			return 0, 0, fmt.Errorf("leb128: too many continuation bytes")
		}
		result |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			if shift < 64 && c&0x40 != 0 {
				result |= -1 << shift
			}
			return result, uint64(i + 1), nil
		}
	}
	return 0, 0, fmt.Errorf("leb128: truncated input")
}
