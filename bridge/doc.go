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

// Package bridge relays the device's console to a remote client over a TCP
// connection. The connection is a raw byte stream with no framing.
//
// Bytes received from the client are pushed to the router as ConsoleBytes
// events, in the order they were received. Output from the device is given to
// the bridge with Publish() and is written to the client in the same order.
//
// Only one client is connected at a time. A new connection replaces the
// active connection, which is closed. The number of replacements is available
// with Replaced().
//
// Publish() never blocks. Output waits in a small flush window until it is
// written to the client. When the window is full, or when no client is
// connected, output is dropped.
//
// Errors on a connection are logged and the connection is closed. They are
// never returned to the caller because they do not affect the emulation.
package bridge
