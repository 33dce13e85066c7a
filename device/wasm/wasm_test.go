// This file is part of Banglemu.
//
// Banglemu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Banglemu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Banglemu.  If not, see <https://www.gnu.org/licenses/>.

package wasm_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/device/wasm"
	"github.com/banglemu/banglemu/test"
	"github.com/tetratelabs/wazero/api"
)

// a minimal module with no imports and no exports
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// a module that imports nowMillis from the host and exports two functions:
//
//	jsIdle() i32 returns 42
//	now() f64 returns the result of nowMillis()
var clockModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,

	// types
	0x01, 0x09, 0x02,
	0x60, 0x00, 0x01, 0x7f,
	0x60, 0x00, 0x01, 0x7c,

	// imports
	0x02, 0x11, 0x01,
	0x03, 'e', 'n', 'v',
	0x09, 'n', 'o', 'w', 'M', 'i', 'l', 'l', 'i', 's',
	0x00, 0x01,

	// functions
	0x03, 0x03, 0x02, 0x00, 0x01,

	// exports
	0x07, 0x10, 0x02,
	0x06, 'j', 's', 'I', 'd', 'l', 'e', 0x00, 0x01,
	0x03, 'n', 'o', 'w', 0x00, 0x02,

	// code
	0x0a, 0x0b, 0x02,
	0x04, 0x00, 0x41, 0x2a, 0x0b,
	0x04, 0x00, 0x10, 0x00, 0x0b,
}

// a module that exports a _start function that traps
var startModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,

	// types
	0x01, 0x04, 0x01,
	0x60, 0x00, 0x00,

	// functions
	0x03, 0x02, 0x01, 0x00,

	// exports
	0x07, 0x0a, 0x01,
	0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00,

	// code
	0x0a, 0x05, 0x01,
	0x03, 0x00, 0x00, 0x0b,
}

// host records console output and returns a fixed time.
type host struct {
	output []byte
}

func (h *host) FlashRead(addr uint32) (uint8, error)      { return 0xff, nil }
func (h *host) FlashWrite(addr uint32, data []byte) error { return nil }
func (h *host) PinValue(pin int) (bool, error)            { return false, nil }
func (h *host) SetPinValue(pin int, value bool) error     { return nil }
func (h *host) NowMillis() float64                        { return 1234.5 }
func (h *host) ConsoleOutput(b byte)                      { h.output = append(h.output, b) }

func TestUnreadable(t *testing.T) {
	_, err := wasm.Load(context.Background(), filepath.Join(t.TempDir(), "missing.wasm"), &host{})
	test.ExpectSuccess(t, curated.Is(err, wasm.ModuleUnreadable))
}

func TestInvalid(t *testing.T) {
	_, err := wasm.Instantiate(context.Background(), []byte("not a wasm module"), &host{})
	test.ExpectSuccess(t, curated.Is(err, wasm.ModuleInvalid))
}

func TestMissingExport(t *testing.T) {
	ctx := context.Background()

	mod, err := wasm.Instantiate(ctx, emptyModule, &host{})
	test.DemandSuccess(t, err)
	defer mod.Close(ctx)

	_, err = mod.Call(ctx, "jsInit")
	test.ExpectSuccess(t, curated.Is(err, wasm.MissingExport))

	_, err = mod.ReadMemory(0, 1)
	test.ExpectSuccess(t, curated.Is(err, wasm.NoMemory))

	err = mod.WriteMemory(0, []byte{0x01})
	test.ExpectSuccess(t, curated.Is(err, wasm.NoMemory))
}

func TestNoStartFunction(t *testing.T) {
	ctx := context.Background()

	// instantiation would fail if _start was run
	mod, err := wasm.Instantiate(ctx, startModule, &host{})
	test.DemandSuccess(t, err)
	defer mod.Close(ctx)

	_, err = mod.Call(ctx, "_start")
	test.ExpectFailure(t, err)
}

func TestCall(t *testing.T) {
	ctx := context.Background()

	mod, err := wasm.Instantiate(ctx, clockModule, &host{})
	test.DemandSuccess(t, err)
	defer mod.Close(ctx)

	r, err := mod.Call(ctx, "jsIdle")
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(r), 1)
	test.ExpectEquality(t, api.DecodeI32(r[0]), int32(42))

	// a second call uses the cached function
	r, err = mod.Call(ctx, "jsIdle")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, api.DecodeI32(r[0]), int32(42))

	// the time comes from the host
	r, err = mod.Call(ctx, "now")
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(r), 1)
	test.ExpectEquality(t, api.DecodeF64(r[0]), 1234.5)
}
