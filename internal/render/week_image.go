// Package render рисует недельную сетку доступности преподавателя.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	dayPaddingX     = 8
	slotRadius      = 6.0
	totalDays       = 7
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	slotFreeColor      = color.RGBA{133, 193, 85, 220}
	slotBookedColor    = color.RGBA{255, 182, 193, 255}
	slotPendingColor   = color.RGBA{200, 200, 200, 220}
	slotTextColor      = color.RGBA{20, 24, 28, 230}
	slotBookedTextFill = color.RGBA{120, 40, 50, 255}
)

// WeekImage рисует PNG-сетку недели: 7 колонок дней, строки часов окна
// преподавания, слоты раскрашены по состоянию (неподтверждён / свободен /
// забронирован)
func WeekImage(slots []*model.AvailabilitySlot, weekStart time.Time, hourMin, hourMax int) ([]byte, error) {
	if hourMax <= hourMin {
		return nil, fmt.Errorf("invalid hour window %d-%d", hourMin, hourMax)
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	gridWidth := float64(imageWidth - leftLabelsWidth)
	gridHeight := float64(imageHeight - headerHeight)
	dayWidth := gridWidth / totalDays
	totalHours := hourMax - hourMin
	hourHeight := gridHeight / float64(totalHours)

	// Заголовок с диапазоном недели
	title := fmt.Sprintf("Availability %s - %s",
		weekStart.Format("02 Jan 2006"),
		weekStart.AddDate(0, 0, 6).Format("02 Jan 2006"))
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/3, 0.5, 0.5)

	// Фон колонок дней и подписи
	for day := 0; day < totalDays; day++ {
		x := float64(leftLabelsWidth) + float64(day)*dayWidth
		if day%2 == 0 {
			dc.SetColor(evenDayColor)
		} else {
			dc.SetColor(oddDayColor)
		}
		dc.DrawRectangle(x, float64(headerHeight), dayWidth, gridHeight)
		dc.Fill()

		label := weekStart.AddDate(0, 0, day).Format("Mon 02")
		dc.SetColor(textColor)
		dc.DrawStringAnchored(label, x+dayWidth/2, float64(headerHeight)*2/3, 0.5, 0.5)
	}

	// Часовая сетка и подписи слева
	for h := 0; h <= totalHours; h++ {
		y := float64(headerHeight) + float64(h)*hourHeight
		dc.SetColor(hourLineColor)
		dc.SetLineWidth(0.5)
		dc.DrawLine(float64(leftLabelsWidth), y, float64(imageWidth), y)
		dc.Stroke()

		if h < totalHours {
			dc.SetColor(hourLabelColor)
			label := fmt.Sprintf("%02d:00", hourMin+h)
			dc.DrawStringAnchored(label, float64(leftLabelsWidth)/2, y+hourHeight/2, 0.5, 0.5)
		}
	}

	// Слоты
	for _, slot := range slots {
		if slot.DayOfWeek < 0 || slot.DayOfWeek >= totalDays {
			continue
		}

		startHour := slot.StartHour
		endHour := slot.EndHour
		if startHour < hourMin {
			startHour = hourMin
		}
		if endHour > hourMax {
			endHour = hourMax
		}
		if endHour <= startHour {
			continue
		}

		x := float64(leftLabelsWidth) + float64(slot.DayOfWeek)*dayWidth + dayPaddingX
		y := float64(headerHeight) + float64(startHour-hourMin)*hourHeight + 2
		w := dayWidth - 2*dayPaddingX
		h := float64(endHour-startHour)*hourHeight - 4

		switch {
		case !slot.IsConfirmed:
			dc.SetColor(slotPendingColor)
		case slot.IsBooked:
			dc.SetColor(slotBookedColor)
		default:
			dc.SetColor(slotFreeColor)
		}
		dc.DrawRoundedRectangle(x, y, w, h, slotRadius)
		dc.Fill()

		if slot.IsConfirmed && slot.IsBooked {
			dc.SetColor(slotBookedTextFill)
		} else {
			dc.SetColor(slotTextColor)
		}
		label := fmt.Sprintf("%02d:00-%02d:00", slot.StartHour, slot.EndHour)
		dc.DrawStringAnchored(label, x+w/2, y+h/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}

	return buf.Bytes(), nil
}
