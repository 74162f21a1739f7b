package terminal

import (
	"fmt"
	"time"
)

// FormatRemaining renders a remaining duration as MM:SS, rounding partial
// seconds up so the display never shows 00:00 while time is left.
// Minutes are not wrapped into hours.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := (remaining.Milliseconds() + 999) / 1000
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
