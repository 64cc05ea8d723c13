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

// GetStorageStatus classifies a storage write by relating a slot's original
// (=committed) value, its current value, and the value about to be written.
// RunContext implementations report the resulting status from SetStorage so
// interpreters can pick the matching gas-charging rule.
func GetStorageStatus(original, current, new Word) StorageStatus {
	var zero = Word{}

	if current == new {
		return StorageAssigned
	}

	// The remaining configurations actually change the current value. They
	// are told apart by how the slot evolved from its committed value and by
	// whether the write clears, restores, or replaces it.
	switch {
	case original == current: // first write to the slot
		switch {
		case original == zero:
			return StorageAdded // 0 -> 0 -> Z
		case new == zero:
			return StorageDeleted // X -> X -> 0
		default:
			return StorageModified // X -> X -> Z
		}
	case original != zero && current == zero: // the slot was cleared before
		if new == original {
			return StorageDeletedRestored // X -> 0 -> X
		}
		return StorageDeletedAdded // X -> 0 -> Z
	case original == zero: // the slot was populated before
		if new == zero {
			return StorageAddedDeleted // 0 -> Y -> 0
		}
		return StorageAssigned // 0 -> Y -> Z
	default: // the slot was rewritten before
		switch {
		case new == zero:
			return StorageModifiedDeleted // X -> Y -> 0
		case new == original:
			return StorageModifiedRestored // X -> Y -> X
		default:
			return StorageAssigned // X -> Y -> Z
		}
	}
}

// IsPrecompiledContract reports whether the given address denotes one of the
// precompiled contracts defined by the chain specification for the given
// revision.
func IsPrecompiledContract(recipient Address, revision Revision) bool {
	for i := 0; i < 19; i++ {
		if recipient[i] != 0 {
			return false
		}
	}
	// the addresses 1-9 are precompiled contracts, Cancun added 0x0a
	last := byte(9)
	if revision >= R13_Cancun {
		last = 10
	}
	return 1 <= recipient[19] && recipient[19] <= last
}
