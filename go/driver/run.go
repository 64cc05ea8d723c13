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
	"math/big"
	"sort"
	"time"

	"github.com/Fantom-foundation/Scarpia/go/cheat"
	"github.com/Fantom-foundation/Scarpia/go/examples"
	"github.com/Fantom-foundation/Scarpia/go/harness"
	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/Fantom-foundation/Scarpia/go/state"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Run the example contracts on an interpreter",
	ArgsUsage: "<INTERPRETER>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "calls",
			Usage: "number of counter calls to issue",
			Value: 1000,
		},
		&cli.Int64Flag{
			Name:  "gas-limit",
			Usage: "gas budget of each individual call",
			Value: 12_000_000,
		},
	},
}

func doRun(context *cli.Context) error {
	var identifier string
	if context.Args().Len() >= 1 {
		identifier = context.Args().Get(0)
	}
	interpreter, err := scarpia.NewInterpreter(identifier)
	if err != nil {
		names := maps.Keys(scarpia.GetAllRegisteredInterpreters())
		sort.Strings(names)
		return fmt.Errorf("invalid interpreter identifier %q, use one of: %v", identifier, names)
	}

	gasLimit := scarpia.Gas(context.Int64("gas-limit"))
	backend := state.NewMemoryBackend(scarpia.BlockParameters{
		BlockNumber: 1,
		Timestamp:   5,
		GasLimit:    gasLimit,
	}, scarpia.Value{}, nil)
	evm := cheat.NewEVM(interpreter, backend, harness.Config{GasLimit: gasLimit})

	if err := runCounter(evm, context.Int("calls")); err != nil {
		return fmt.Errorf("counter scenario failed: %w", err)
	}
	if err := runGreeter(evm); err != nil {
		return fmt.Errorf("greeter scenario failed: %w", err)
	}
	return nil
}

// runCounter issues a sequence of state-modifying calls and reports the
// observed call throughput.
func runCounter(evm *harness.EVM, calls int) error {
	address := scarpia.Address{0x20}
	evm.InitializeContracts(harness.Contract{Address: address, Code: examples.Counter.Code})

	increment, found := examples.Counter.Method("increment")
	if !found {
		return fmt.Errorf("the counter contract has no increment function")
	}

	start := time.Now()
	for i := 0; i < calls; i++ {
		result, err := evm.Call(scarpia.Address{}, address, scarpia.Value{}, increment)
		if err != nil {
			return err
		}
		if result.Status != harness.StatusSuccess {
			return fmt.Errorf("call %d ended in status %v", i, result.Status)
		}
	}
	duration := time.Since(start)

	current, found := examples.Counter.Method("current")
	if !found {
		return fmt.Errorf("the counter contract has no current function")
	}
	result, err := evm.Call(scarpia.Address{}, address, scarpia.Value{}, current)
	if err != nil {
		return err
	}
	value, ok := result.Values[0].(*big.Int)
	if !ok || value.Int64() != int64(calls) {
		return fmt.Errorf("unexpected final counter value %v, wanted %d", result.Values[0], calls)
	}

	rate := float64(calls) / duration.Seconds()
	fmt.Printf("counter: %d calls in %v, ~%s calls per second\n",
		calls, duration.Round(time.Millisecond), unitconv.FormatPrefix(rate, unitconv.SI, 1))
	return nil
}

// runGreeter walks through the cheat scenario: a time-dependent check that
// can only pass after a warp call has overridden the block timestamp.
func runGreeter(evm *harness.EVM) error {
	address := scarpia.Address{0x10}
	evm.InitializeContracts(harness.Contract{Address: address, Code: examples.Greeter.Code})

	setUp, found := examples.Greeter.Method("setUp")
	if !found {
		return fmt.Errorf("the greeter contract has no setUp function")
	}
	checkTime, found := examples.Greeter.Method("checkTime")
	if !found {
		return fmt.Errorf("the greeter contract has no checkTime function")
	}

	if result, err := evm.Call(scarpia.Address{}, address, scarpia.Value{}, setUp); err != nil {
		return err
	} else if result.Status != harness.StatusSuccess {
		return fmt.Errorf("setUp ended in status %v", result.Status)
	}

	warp, found := cheat.OperationByName("warp")
	if !found {
		return fmt.Errorf("the warp operation is not available")
	}
	input, err := warp.EncodeCall(big.NewInt(100))
	if err != nil {
		return err
	}
	if result, err := evm.CallRaw(scarpia.Address{}, cheat.ReservedAddress, input, scarpia.Value{}); err != nil {
		return err
	} else if result.Status != harness.StatusSuccess {
		return fmt.Errorf("the warp call ended in status %v", result.Status)
	}

	if result, err := evm.Call(scarpia.Address{}, address, scarpia.Value{}, checkTime); err != nil {
		return err
	} else if result.Status != harness.StatusSuccess {
		return fmt.Errorf("checkTime ended in status %v", result.Status)
	}

	fmt.Println("greeter: the time check passed under the warped timestamp")
	return nil
}
