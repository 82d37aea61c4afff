// Пакет render рисует недельную сетку доступности тренера: окна правил
// доступности и бронирования поверх них. Используется для превью расписания.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fitbook/booking/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 80
	leftLabelsWidth = 80
	minBlockHeight  = 8.0
	blockRadius     = 6.0
	totalDaysInWeek = 7
	hourPaddingTop  = 1
	hourPaddingBot  = 1
	defaultMinHour  = 6
	defaultMaxHour  = 22
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	availableColor   = color.RGBA{133, 193, 85, 110}
	bookingColor     = color.RGBA{255, 182, 193, 255}
	bookingTextColor = color.RGBA{120, 40, 50, 255}
)

// WeekInput - данные для отрисовки одной недели
type WeekInput struct {
	WeekStart time.Time // локальный понедельник в поясе тренера
	Rules     []*model.AvailabilityRule
	Bookings  []*model.Booking
}

type weekBounds struct {
	start time.Time
	end   time.Time
}

type hourRange struct {
	start int
	end   int
	total int
}

// Week рисует недельную сетку и возвращает PNG
func Week(in WeekInput) ([]byte, error) {
	week := normalizeToWeekBounds(in.WeekStart)
	hours := calculateHourRange(in.Rules)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)

	currentDate := week.start
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex)
		drawDayHeader(dc, currentDate, x, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		drawAvailability(dc, currentDate, in.Rules, x, dayWidth, hours, cellHeight)
		drawBookings(dc, currentDate, in.Bookings, x, dayWidth, hours, cellHeight)

		currentDate = currentDate.AddDate(0, 0, 1)
	}

	return encodeImage(dc)
}

// normalizeToWeekBounds нормализует дату к границам недели (Пн-Вс)
func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	daysSinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -daysSinceMonday)
	return weekBounds{start: start, end: start.AddDate(0, 0, 6)}
}

// calculateHourRange определяет диапазон часов для отображения по окнам правил
func calculateHourRange(rules []*model.AvailabilityRule) hourRange {
	minHour := 24
	maxHour := 0

	for _, rule := range rules {
		if !rule.IsAvailable || !rule.IsValid() {
			continue
		}
		startH := rule.StartMinute / 60
		endH := rule.EndMinute / 60
		if rule.EndMinute%60 > 0 {
			endH++
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 24 {
		endHour = 24
	}

	return hourRange{start: startHour, end: endHour, total: endHour - startHour}
}

func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

func drawHeader(dc *gg.Context, week weekBounds) {
	title := fmt.Sprintf("%s - %s", week.start.Format("02.01.2006"), week.end.Format("02.01.2006"))
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, imageWidth/2, float64(headerHeight)/3, 0.5, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := fmt.Sprintf("%02d:00", hours.start+hIdx)
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x float64, dayWidth int) {
	dc.SetColor(textColor)
	label := fmt.Sprintf("%s %02d", date.Weekday().String()[:3], date.Day())
	dc.DrawStringAnchored(label, x+float64(dayWidth)/2, float64(headerHeight)*2/3, 0.5, 0.5)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLineColor)
	dc.SetLineWidth(0.5)
	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		lineY := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, lineY, x+float64(dayWidth), lineY)
		dc.Stroke()
	}
}

// drawAvailability закрашивает окна правил доступности этого дня недели
func drawAvailability(dc *gg.Context, date time.Time, rules []*model.AvailabilityRule, x float64, dayWidth int, hours hourRange, cellHeight float64) {
	for _, rule := range rules {
		if !rule.IsAvailable || !rule.IsValid() || rule.Weekday != int(date.Weekday()) {
			continue
		}
		top := minuteToY(rule.StartMinute, hours, cellHeight)
		bottom := minuteToY(rule.EndMinute, hours, cellHeight)
		dc.SetColor(availableColor)
		dc.DrawRectangle(x+2, top, float64(dayWidth)-4, bottom-top)
		dc.Fill()
	}
}

// drawBookings рисует бронирования этого дня поверх окон доступности
func drawBookings(dc *gg.Context, date time.Time, bookings []*model.Booking, x float64, dayWidth int, hours hourRange, cellHeight float64) {
	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		local := b.StartTime.In(date.Location())
		if local.Year() != date.Year() || local.YearDay() != date.YearDay() {
			continue
		}

		startMinute := local.Hour()*60 + local.Minute()
		endLocal := b.EndTime.In(date.Location())
		endMinute := endLocal.Hour()*60 + endLocal.Minute()
		if endMinute <= startMinute {
			endMinute = startMinute + int(b.EndTime.Sub(b.StartTime).Minutes())
		}

		top := minuteToY(startMinute, hours, cellHeight)
		height := minuteToY(endMinute, hours, cellHeight) - top
		if height < minBlockHeight {
			height = minBlockHeight
		}

		dc.SetColor(bookingColor)
		dc.DrawRoundedRectangle(x+4, top, float64(dayWidth)-8, height, blockRadius)
		dc.Fill()

		dc.SetColor(bookingTextColor)
		label := fmt.Sprintf("%s-%s", local.Format("15:04"), endLocal.Format("15:04"))
		dc.DrawStringAnchored(label, x+float64(dayWidth)/2, top+height/2, 0.5, 0.5)
	}
}

func minuteToY(minute int, hours hourRange, cellHeight float64) float64 {
	offset := float64(minute)/60 - float64(hours.start)
	if offset < 0 {
		offset = 0
	}
	if offset > float64(hours.total) {
		offset = float64(hours.total)
	}
	return float64(headerHeight) + offset*cellHeight
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}
