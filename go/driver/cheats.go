// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/Fantom-foundation/Scarpia/go/cheat"
	"github.com/urfave/cli/v2"
)

var CheatsCmd = cli.Command{
	Action: doListCheats,
	Name:   "cheats",
	Usage:  "List the operations served by the reserved cheat address",
}

func doListCheats(context *cli.Context) error {
	fmt.Printf("cheat address: %v\n", cheat.ReservedAddress)
	for _, operation := range cheat.Operations() {
		fmt.Printf("0x%x %s\n", operation.Selector, operation.Signature)
	}
	return nil
}
