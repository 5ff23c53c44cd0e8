package main

import (
	"fmt"
	"os"
	"time"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/render"
)

// Утилита для визуальной проверки отрисовки недельной сетки:
// рисует неделю с примерами слотов и сохраняет PNG рядом.
func main() {
	now := time.Now()
	weekStart := model.DateOnly(now)
	for weekStart.Weekday() != time.Sunday {
		weekStart = weekStart.AddDate(0, 0, -1)
	}

	slots := []*model.AvailabilitySlot{
		{ID: 1, DayOfWeek: 0, StartHour: 13, EndHour: 14, IsConfirmed: true},
		{ID: 2, DayOfWeek: 0, StartHour: 16, EndHour: 18, IsConfirmed: true, IsBooked: true},
		{ID: 3, DayOfWeek: 1, StartHour: 14, EndHour: 15, IsConfirmed: true},
		{ID: 4, DayOfWeek: 2, StartHour: 19, EndHour: 21, IsConfirmed: false},
		{ID: 5, DayOfWeek: 4, StartHour: 13, EndHour: 15, IsConfirmed: true, IsBooked: true},
		{ID: 6, DayOfWeek: 6, StartHour: 20, EndHour: 22, IsConfirmed: true},
	}

	png, err := render.WeekImage(slots, weekStart, 13, 22)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render week image: %v\n", err)
		os.Exit(1)
	}

	out := "week.png"
	if err := os.WriteFile(out, png, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", out, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s (%d bytes)\n", out, len(png))
}
