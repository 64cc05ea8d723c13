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
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

// Address is the 20-byte identifier of an account.
type Address [20]byte

// Key identifies a 256-bit storage slot within an account.
type Key [32]byte

// Word is a 256-bit word as handled by the EVM.
type Word [32]byte

// Value is an amount of chain currency in wei, encoded as a 256-bit
// big-endian unsigned integer.
type Value [32]byte

// Hash is a 256-bit cryptographic digest, used for code hashes, block
// hashes, and log topics alike.
type Hash [32]byte

// Code is the byte code of a contract.
type Code []byte

// StorageStatus describes the effect a storage write has on its slot within
// the scope of the running transaction. Engines derive the gas charged and
// refunded for an SSTORE from this classification.
type StorageStatus int

// The classification distinguishes every transition shape of the
// original -> current -> new triple that the gas schedule prices
// differently; X, Y, and Z stand for distinct non-zero words.
const (
	StorageAssigned         StorageStatus = iota // all remaining configurations
	StorageAdded                                 // 0 -> 0 -> Z
	StorageDeleted                               // X -> X -> 0
	StorageModified                              // X -> X -> Z
	StorageDeletedAdded                          // X -> 0 -> Z
	StorageModifiedDeleted                       // X -> Y -> 0
	StorageDeletedRestored                       // X -> 0 -> X
	StorageAddedDeleted                          // 0 -> Y -> 0
	StorageModifiedRestored                      // X -> Y -> X
)

var storageStatusNames = map[StorageStatus]string{
	StorageAssigned:         "StorageAssigned",
	StorageAdded:            "StorageAdded",
	StorageDeleted:          "StorageDeleted",
	StorageModified:         "StorageModified",
	StorageDeletedAdded:     "StorageDeletedAdded",
	StorageModifiedDeleted:  "StorageModifiedDeleted",
	StorageDeletedRestored:  "StorageDeletedRestored",
	StorageAddedDeleted:     "StorageAddedDeleted",
	StorageModifiedRestored: "StorageModifiedRestored",
}

func (s StorageStatus) String() string {
	if name, found := storageStatusNames[s]; found {
		return name
	}
	return fmt.Sprintf("StorageStatus(%d)", s)
}

// GetAllStorageStatuses lists every defined storage status, ordered by value.
func GetAllStorageStatuses() []StorageStatus {
	statuses := maps.Keys(storageStatusNames)
	slices.Sort(statuses)
	return statuses
}
