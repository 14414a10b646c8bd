package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

// FormatSchedule renders the nearest departures for one direction as Telegram HTML.
// At most limitRow entries are rendered; limitRow < 1 means no cap.
func FormatSchedule(entries []domain.ScheduleEntry, direction string, limitRow int) string {
	var b strings.Builder
	fmt.Fprintf(&b, directionFmt, html.EscapeString(direction))

	if limitRow > 0 && len(entries) > limitRow {
		entries = entries[:limitRow]
	}

	switch len(entries) {
	case 0:
		b.WriteString(noTrainsText)
	case 1:
		fmt.Fprintf(&b, lastTrainFmt, formatWait(entries[0].TimeToTrain))
	default:
		fmt.Fprintf(&b, closestTrainFmt, formatWait(entries[0].TimeToTrain))
		for _, e := range entries[1:] {
			b.WriteByte('\n')
			fmt.Fprintf(&b, nextTrainFmt, formatWait(e.TimeToTrain))
		}
	}
	return b.String()
}

// formatWait renders a wait as MM:SS; the hours part is dropped.
func formatWait(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", sec/60%60, sec%60)
}
