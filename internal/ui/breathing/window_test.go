package breathing

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"breathflow/internal/core/breath"
	"breathflow/internal/storage"
)

func layoutObjects() []fyne.CanvasObject {
	return []fyne.CanvasObject{
		canvas.NewCircle(color.Transparent),
		canvas.NewCircle(inhaleColor),
		canvas.NewRectangle(color.Transparent),
	}
}

func TestCircleLayout_ScalesFill(t *testing.T) {
	objects := layoutObjects()
	circle := &circleLayout{scale: 0.5}

	circle.Layout(objects, fyne.NewSize(400, 300))

	require.InDelta(t, 270, objects[0].Size().Width, 0.01)
	require.InDelta(t, 65, objects[0].Position().X, 0.01)
	require.InDelta(t, 15, objects[0].Position().Y, 0.01)
	require.InDelta(t, 135, objects[1].Size().Height, 0.01)
	require.Equal(t, fyne.NewSize(400, 300), objects[2].Size())
}

func TestCircleLayout_FillStaysCentered(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		objects := layoutObjects()
		width := float32(rapid.IntRange(100, 1200).Draw(r, "width"))
		height := float32(rapid.IntRange(100, 1200).Draw(r, "height"))
		circle := &circleLayout{scale: float32(rapid.Float64Range(0, 1).Draw(r, "scale"))}

		circle.Layout(objects, fyne.NewSize(width, height))

		ring, fill := objects[0], objects[1]
		require.LessOrEqual(r, fill.Size().Width, ring.Size().Width)
		require.InDelta(r, width/2, fill.Position().X+fill.Size().Width/2, 0.01)
		require.InDelta(r, height/2, fill.Position().Y+fill.Size().Height/2, 0.01)
	})
}

func TestCircleLayout_MinSize(t *testing.T) {
	circle := &circleLayout{scale: 1}
	require.Equal(t, fyne.NewSize(240, 240), circle.MinSize(layoutObjects()))
	require.Equal(t, fyne.NewSize(0, 0), circle.MinSize(nil))
}

func TestSummaryAndStreakLines(t *testing.T) {
	require.Equal(t, "Balanced · 10 min · 60 breaths",
		summaryLine(breath.Summary{PatternName: "Balanced", TotalSeconds: 600, TotalBreaths: 60}))
	require.Equal(t, "Streak: 1 day", streakLine(storage.UserStats{CurrentStreak: 1}))
	require.Equal(t, "Streak: 4 days", streakLine(storage.UserStats{CurrentStreak: 4}))
}

func TestPhaseColor(t *testing.T) {
	require.Equal(t, color.Color(inhaleColor), phaseColor(breath.PhaseInhale))
	require.Equal(t, color.Color(exhaleColor), phaseColor(breath.PhaseExhale))
}
