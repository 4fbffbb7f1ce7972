package enums

import "strings"

// SwipeDirection is the persisted side of a committed swipe. Right means the
// actor wants the item, left passes on it.
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "LEFT"
	SwipeRight SwipeDirection = "RIGHT"
)

func ParseSwipeDirection(input string) (SwipeDirection, bool) {
	switch SwipeDirection(strings.ToUpper(strings.TrimSpace(input))) {
	case SwipeLeft:
		return SwipeLeft, true
	case SwipeRight:
		return SwipeRight, true
	default:
		return "", false
	}
}
