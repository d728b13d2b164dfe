package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const zeroTimestamp = "00:00:00,000"

// maxTimestampSeconds keeps millisecond arithmetic inside int64.
const maxTimestampSeconds = 9e15

var thousand = decimal.NewFromInt(1000)

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Milliseconds are truncated
// from the shortest decimal form of the value, so 2.3 renders as ,300 rather
// than the ,299 a binary float product would give. Hours are not wrapped.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return zeroTimestamp
	}
	if seconds > maxTimestampSeconds {
		seconds = maxTimestampSeconds
	}
	total := decimal.NewFromFloat(seconds).Mul(thousand).Floor().IntPart()
	millis := total % 1000
	total /= 1000
	secs := total % 60
	total /= 60
	minutes := total % 60
	hours := total / 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp converts HH:MM:SS,mmm (or HH:MM:SS.mmm) to seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	secs, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || secs < 0 || secs > 59 || millis < 0 || millis > 999 {
		return 0, fmt.Errorf("timestamp out of range %q", value)
	}
	return float64(hours*3600+minutes*60+secs) + float64(millis)/1000, nil
}
