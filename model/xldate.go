package model

import (
	"math"
	"time"
)

var (
	epoch1900      = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	epoch1900Early = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	epoch1904      = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	// до 1 марта 1900 Excel считает несуществующее 29 февраля
	leapBugDay = time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)
)

const (
	daySeconds = 86400
	dayMillis  = daySeconds * 1000
)

// TimeToSerial переводит время в серийное число Excel (система 1900).
// Часовой пояс игнорируется: берутся настенные дата и время.
func TimeToSerial(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	base := epoch1900
	if wall.Before(leapBugDay) {
		base = epoch1900Early
	}
	secs := wall.Unix() - base.Unix()
	return float64(secs)/daySeconds + float64(wall.Nanosecond())/(daySeconds*1e9)
}

// SerialToTime переводит серийное число системы 1900 обратно во время UTC.
// Дробная часть округляется до миллисекунд.
func SerialToTime(serial float64) time.Time {
	base := epoch1900
	if serial < 61 {
		base = epoch1900Early
	}
	return addMillis(base, serial)
}

// Serial1904To1900 пересчитывает серийное число из системы 1904.
func Serial1904To1900(serial float64) float64 {
	return TimeToSerial(addMillis(epoch1904, serial))
}

// addMillis прибавляет к base serial суток в миллисекундах Unix. Диапазон
// time.Duration (292 года) меньше диапазона серийных чисел.
func addMillis(base time.Time, serial float64) time.Time {
	ms := int64(math.Round(serial * dayMillis))
	return time.UnixMilli(base.UnixMilli() + ms).UTC()
}
