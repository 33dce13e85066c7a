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

// Package wasm loads a WebAssembly build of the device firmware with the wazero
// runtime and connects it to the device hardware.
//
// The firmware imports its hardware access functions from the "env" module.
// These are provided by the Host implementation passed to Load(). Every
// function exported by the firmware is available through the Call() function
// of the returned Module.
package wasm

import (
	"context"
	"os"
	"strings"

	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/device"
	"github.com/banglemu/banglemu/logger"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Sentinal errors.
const (
	ModuleUnreadable = "wasm: cannot read module: %v"
	ModuleInvalid    = "wasm: invalid module: %v"
	MissingExport    = "wasm: missing export: %s"
	NoMemory         = "wasm: module has no memory"
	MemoryRange      = "wasm: memory access out of range (%#x, %d bytes)"
)

// the name of the host module that the firmware imports from.
const hostModule = "env"

// Module is an instance of the firmware. It implements the device.Module
// interface.
type Module struct {
	runtime wazero.Runtime
	mod     api.Module

	// exported functions are cached after the first lookup
	funcs map[string]api.Function
}

// Loader returns a device.Loader for the module at path.
func Loader(path string) device.Loader {
	return func(ctx context.Context, host device.Host) (device.Module, error) {
		return Load(ctx, path, host)
	}
}

// Load the module at path.
func Load(ctx context.Context, path string, host device.Host) (*Module, error) {
	bin, err := os.ReadFile(path)
	if err != nil {
		return nil, curated.Errorf(ModuleUnreadable, err)
	}
	return Instantiate(ctx, bin, host)
}

// Instantiate the module from the binary data.
func Instantiate(ctx context.Context, bin []byte, host device.Host) (*Module, error) {
	r := wazero.NewRuntime(ctx)

	// the firmware may be built with a WASI libc
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	if err := instantiateHost(ctx, r, host); err != nil {
		_ = r.Close(ctx)
		return nil, curated.Errorf(ModuleInvalid, err)
	}

	compiled, err := r.CompileModule(ctx, bin)
	if err != nil {
		_ = r.Close(ctx)
		return nil, curated.Errorf(ModuleInvalid, err)
	}

	// the firmware is started with jsInit after storage has been written. no
	// start function is run during instantiation
	cfg := wazero.NewModuleConfig().
		WithName("firmware").
		WithStartFunctions().
		WithStdout(logWriter("firmware")).
		WithStderr(logWriter("firmware"))

	mod, err := r.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		_ = r.Close(ctx)
		return nil, curated.Errorf(ModuleInvalid, err)
	}

	logger.Logf(logger.Allow, "wasm", "instantiated module with %d exports", len(compiled.ExportedFunctions()))

	return &Module{
		runtime: r,
		mod:     mod,
		funcs:   make(map[string]api.Function),
	}, nil
}

// instantiateHost creates the module of functions that the firmware imports.
// errors from the host are raised as panics. the runtime converts the panic
// into an error that is returned by the export that caused it.
func instantiateHost(ctx context.Context, r wazero.Runtime, host device.Host) error {
	_, err := r.NewHostModuleBuilder(hostModule).
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module) {
			if err := handleIO(ctx, m, host); err != nil {
				panic(err)
			}
		}).Export("jsHandleIO").
		NewFunctionBuilder().
		WithFunc(func(addr int32) int32 {
			v, err := host.FlashRead(uint32(addr))
			if err != nil {
				panic(err)
			}
			return int32(v)
		}).Export("hwFlashRead").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, addr int32, base int32, length int32) {
			data, ok := m.Memory().Read(uint32(base), uint32(length))
			if !ok {
				panic(curated.Errorf(MemoryRange, uint32(base), length))
			}
			if err := host.FlashWrite(uint32(addr), data); err != nil {
				panic(err)
			}
		}).Export("hwFlashWritePtr").
		NewFunctionBuilder().
		WithFunc(func(pin int32) int32 {
			v, err := host.PinValue(int(pin))
			if err != nil {
				panic(err)
			}
			if v {
				return 1
			}
			return 0
		}).Export("hwGetPinValue").
		NewFunctionBuilder().
		WithFunc(func(pin int32, value int32) {
			if err := host.SetPinValue(int(pin), value != 0); err != nil {
				panic(err)
			}
		}).Export("hwSetPinValue").
		NewFunctionBuilder().
		WithFunc(func() float64 {
			return host.NowMillis()
		}).Export("nowMillis").
		Instantiate(ctx)

	return err
}

// handleIO is called by the firmware when it has output waiting. the output
// is collected in the same way as the device collects output after an
// export has returned.
func handleIO(ctx context.Context, m api.Module, host device.Host) error {
	getDevice := m.ExportedFunction("jshGetDeviceToTransmit")
	if getDevice == nil {
		return curated.Errorf(MissingExport, "jshGetDeviceToTransmit")
	}
	getChar := m.ExportedFunction("jshGetCharToTransmit")
	if getChar == nil {
		return curated.Errorf(MissingExport, "jshGetCharToTransmit")
	}

	for {
		d, err := getDevice.Call(ctx)
		if err != nil {
			return err
		}
		if len(d) == 0 || api.DecodeI32(d[0]) == 0 {
			return nil
		}

		c, err := getChar.Call(ctx, d[0])
		if err != nil {
			return err
		}
		if len(c) == 0 {
			return nil
		}
		ch := api.DecodeI32(c[0])
		if ch < 0 || ch > 0xff {
			return nil
		}

		host.ConsoleOutput(byte(ch))
	}
}

// Call implements the device.Module interface.
func (m *Module) Call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	fn, ok := m.funcs[export]
	if !ok {
		fn = m.mod.ExportedFunction(export)
		if fn == nil {
			return nil, curated.Errorf(MissingExport, export)
		}
		m.funcs[export] = fn
	}
	return fn.Call(ctx, params...)
}

// ReadMemory implements the device.Module interface.
func (m *Module) ReadMemory(offset uint32, length uint32) ([]byte, error) {
	mem := m.mod.ExportedMemory("memory")
	if mem == nil {
		return nil, curated.Errorf(NoMemory)
	}

	// Read() returns a view of the memory. we want a copy
	b, ok := mem.Read(offset, length)
	if !ok {
		return nil, curated.Errorf(MemoryRange, offset, length)
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c, nil
}

// WriteMemory implements the device.Module interface.
func (m *Module) WriteMemory(offset uint32, data []byte) error {
	mem := m.mod.ExportedMemory("memory")
	if mem == nil {
		return curated.Errorf(NoMemory)
	}
	if !mem.Write(offset, data) {
		return curated.Errorf(MemoryRange, offset, len(data))
	}
	return nil
}

// Close implements the device.Module interface.
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}

// logWriter forwards output from the module to the central logger.
type logWriter string

func (w logWriter) Write(p []byte) (int, error) {
	for _, l := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if l != "" {
			logger.Log(logger.Allow, string(w), l)
		}
	}
	return len(p), nil
}
