// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package scarpia

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"math/bits"
	"strings"

	"github.com/holiman/uint256"
)

func (a Address) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return hexText(a[:]), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	return parseHexText(a[:], text)
}

func (k Key) String() string {
	return fmt.Sprintf("0x%x", k[:])
}

func (w Word) String() string {
	return fmt.Sprintf("0x%x", w[:])
}

func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return hexText(h[:]), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	return parseHexText(h[:], text)
}

// valueLimbs is the number of 64-bit limbs forming a Value.
const valueLimbs = 4

// NewValue composes a Value from up to four uint64 limbs, given from the most
// to the least significant. Missing leading limbs are zero; no arguments
// produce the zero value.
func NewValue(limbs ...uint64) (result Value) {
	if len(limbs) > valueLimbs {
		panic("too many limbs for a 256-bit value")
	}
	for i, limb := range limbs {
		result.setLimb(len(limbs)-1-i, limb)
	}
	return
}

// ValueFromUint256 converts a uint256 integer into a Value; nil is zero.
func ValueFromUint256(value *uint256.Int) (result Value) {
	if value == nil {
		return result
	}
	return value.Bytes32()
}

func (v Value) ToBig() *big.Int {
	return new(big.Int).SetBytes(v[:])
}

func (v Value) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes(v[:])
}

// String renders the value as a decimal number.
func (v Value) String() string {
	return v.ToUint256().String()
}

func (v Value) Cmp(other Value) int {
	return bytes.Compare(v[:], other[:])
}

// Add sums two values with wrap-around overflow semantics.
func Add(a, b Value) (sum Value) {
	var carry uint64
	for i := 0; i < valueLimbs; i++ {
		var limb uint64
		limb, carry = bits.Add64(a.limb(i), b.limb(i), carry)
		sum.setLimb(i, limb)
	}
	return sum
}

// Sub computes a minus b with wrap-around underflow semantics.
func Sub(a, b Value) (diff Value) {
	var borrow uint64
	for i := 0; i < valueLimbs; i++ {
		var limb uint64
		limb, borrow = bits.Sub64(a.limb(i), b.limb(i), borrow)
		diff.setLimb(i, limb)
	}
	return diff
}

func (v Value) MarshalText() ([]byte, error) {
	return hexText(v[:]), nil
}

func (v *Value) UnmarshalText(text []byte) error {
	return parseHexText(v[:], text)
}

// limb returns the i-th 64-bit limb, counting from the least significant.
func (v Value) limb(i int) uint64 {
	return binary.BigEndian.Uint64(v[24-i*8:])
}

func (v *Value) setLimb(i int, limb uint64) {
	binary.BigEndian.PutUint64(v[24-i*8:], limb)
}

func hexText(data []byte) []byte {
	return []byte(fmt.Sprintf("0x%x", data))
}

func parseHexText(dst []byte, text []byte) error {
	s := string(text)
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("missing 0x prefix in %q", s)
	}
	data, err := hex.DecodeString(s[2:])
	if err != nil {
		return err
	}
	if want, got := len(dst), len(data); want != got {
		return fmt.Errorf("invalid length, wanted %d bytes, got %d", want, got)
	}
	copy(dst, data)
	return nil
}

var callKindNames = map[CallKind]string{
	Call:         "call",
	StaticCall:   "static_call",
	DelegateCall: "delegate_call",
	CallCode:     "call_code",
	Create:       "create",
	Create2:      "create2",
}

func (k CallKind) String() string {
	if name, found := callKindNames[k]; found {
		return name
	}
	return "unknown"
}

func (k CallKind) MarshalJSON() ([]byte, error) {
	name, found := callKindNames[k]
	if !found {
		return nil, fmt.Errorf("invalid call kind: %d", k)
	}
	return json.Marshal(name)
}

func (k *CallKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for kind, kindName := range callKindNames {
		if kindName == strings.ToLower(name) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown call kind: %s", name)
}
