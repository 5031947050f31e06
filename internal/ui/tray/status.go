package tray

import (
	"fmt"
	"math"

	"breathflow/internal/core/breath"
	"breathflow/internal/storage"
)

// FormatStatus renders the tray status line for a session snapshot.
func FormatStatus(snapshot breath.Snapshot) string {
	switch snapshot.State {
	case breath.StateCountdown:
		return fmt.Sprintf("Get ready %d", snapshot.CountdownValue)
	case breath.StateBreathing:
		label := fmt.Sprintf("%s %ds", snapshot.Phase.Title(), snapshot.PhaseSecondsRemaining)
		if snapshot.TotalBreaths > 0 {
			label += " · " + breathCount(snapshot)
		}
		return label
	case breath.StatePaused:
		if snapshot.TotalBreaths > 0 {
			return "Paused · " + breathCount(snapshot)
		}
		return "Paused"
	case breath.StateCompleted:
		return "Session complete"
	default:
		return "Ready"
	}
}

func breathCount(snapshot breath.Snapshot) string {
	done := snapshot.TotalBreaths - snapshot.BreathsRemaining
	if done < 0 {
		done = 0
	}
	return fmt.Sprintf("%d/%d breaths (%d%%)", done, snapshot.TotalBreaths, int(math.Round(snapshot.Progress()*100)))
}

// FormatStats renders the streak line shown under the status.
func FormatStats(stats storage.UserStats) string {
	if stats.CurrentStreak == 0 {
		return "No sessions yet"
	}
	noun := "days"
	if stats.CurrentStreak == 1 {
		noun = "day"
	}
	return fmt.Sprintf("Streak %d %s · %s", stats.CurrentStreak, noun, stats.FormatTotal())
}
