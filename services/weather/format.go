package weather

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultLocationName is shown when the provider omits the location name.
	DefaultLocationName = "Noma'lum joy"
	// Placeholder stands in for any missing scalar.
	Placeholder = "—"
	Attribution = "Ma'lumot: OpenWeatherMap API orqali."
)

// htmlEscaper covers the characters Telegram's HTML mode reserves.
var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var glyphs = map[string]string{
	"Clear":        "☀️",
	"Clouds":       "☁️",
	"Rain":         "🌧️",
	"Drizzle":      "🌦️",
	"Thunderstorm": "⛈️",
	"Snow":         "❄️",
	"Mist":         "🌫️",
}

// Glyph returns the display glyph for a provider category, or "" if unknown.
func Glyph(category string) string {
	if g, ok := glyphs[category]; ok {
		return g
	}
	return ""
}

// Format renders a reading as the HTML reply body. It is total over its input.
func Format(r Reading) string {
	lines := []string{
		"📍 <b>" + htmlEscaper.Replace(r.LocationName) + "</b>",
		Glyph(r.Category) + " " + htmlEscaper.Replace(Capitalize(r.Description)),
		"🌡️ Harorat: <b>" + number(r.TemperatureC) + "°C</b> (his qilinishi: " + number(r.FeelsLikeC) + "°C)",
		"💧 Namlik: " + number(r.HumidityPct) + "%  |  Bosim: " + number(r.PressureHPa) + " hPa",
		"💨 Shamol: " + number(r.WindSpeedMS) + " m/s",
		"🌅 Quyosh chiqishi: " + ClockAt(r.SunriseTS, r.UTCOffsetSeconds) +
			"  🌇 Quyosh botishi: " + ClockAt(r.SunsetTS, r.UTCOffsetSeconds),
		"",
		Attribution,
	}
	return strings.Join(lines, "\n")
}

// ClockAt converts a UNIX timestamp to HH:MM after shifting it by offset
// seconds. A nil or zero timestamp yields the placeholder.
func ClockAt(ts *int64, offset int64) string {
	if ts == nil || *ts == 0 {
		return Placeholder
	}
	return time.Unix(*ts+offset, 0).UTC().Format("15:04")
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

func number(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
