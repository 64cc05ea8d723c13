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
	"slices"
	"strings"
	"testing"
)

func TestStorageStatus_EveryDefinedStatusHasAName(t *testing.T) {
	for _, status := range GetAllStorageStatuses() {
		if strings.HasPrefix(status.String(), "StorageStatus(") {
			t.Errorf("status %d falls back to the numeric name", status)
		}
	}
}

func TestStorageStatus_UndefinedStatusesPrintTheirValue(t *testing.T) {
	if want, got := "StorageStatus(42)", StorageStatus(42).String(); want != got {
		t.Errorf("unexpected name, want %s, got %s", want, got)
	}
}

func TestGetAllStorageStatuses_ListsEachStatusOnceInOrder(t *testing.T) {
	all := GetAllStorageStatuses()
	if want, got := len(storageStatusNames), len(all); want != got {
		t.Fatalf("unexpected number of statuses, want %d, got %d", want, got)
	}
	if !slices.IsSorted(all) {
		t.Errorf("statuses are not ordered: %v", all)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1] == all[i] {
			t.Errorf("status %v is listed twice", all[i])
		}
	}
}
