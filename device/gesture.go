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

package device

// Gesture is a gesture code as reported by the touchscreen controller.
type Gesture int

// List of valid Gesture values.
const (
	GestureNone       Gesture = 0
	GestureSwipeUp    Gesture = 1
	GestureSwipeDown  Gesture = 2
	GestureSwipeLeft  Gesture = 3
	GestureSwipeRight Gesture = 4
	GestureTap        Gesture = 5
)

func (g Gesture) String() string {
	switch g {
	case GestureNone:
		return "none"
	case GestureSwipeUp:
		return "swipe up"
	case GestureSwipeDown:
		return "swipe down"
	case GestureSwipeLeft:
		return "swipe left"
	case GestureSwipeRight:
		return "swipe right"
	case GestureTap:
		return "tap"
	}
	return "unknown"
}
