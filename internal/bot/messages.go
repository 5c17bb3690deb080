package bot

import (
	"fmt"
	"strings"

	"github.com/AbdulWasayUl/go-weather-bot/models"
	"github.com/AbdulWasayUl/go-weather-bot/services/weather"
)

const (
	locationButtonText = "Joylashuvni yuborish"

	usageText = "Men ob-havo botiman. Shahar nomi orqali yoki joylashuvingizni yuborib ob-havoni bilishingiz mumkin.\n\n" +
		"Foydalanish:\n" +
		"• /weather <shahar> — masalan: /weather Tashkent\n" +
		"• Joylashuv yuboring (location) — yaqin atrofdagi ob-havo.\n" +
		"• /history — oxirgi so'rovlaringiz.\n"

	welcomeText = "Salom! 👋\n" + usageText

	weatherUsageText = "Iltimos shahar nomini yozing. Masalan: /weather Tashkent"
	notCityText      = "Shahar nomini tushunmadim. /weather <shahar> buyrug'idan foydalaning yoki joylashuvingizni yuboring."

	notFoundText = "Kechirasiz, shahar topilmadi yoki so'rovda xatolik yuz berdi. Iltimos to'g'ri shahar nomini yozing."
	genericText  = "Xatolik yuz berdi. Keyinroq qayta urinib ko'ring."

	historyDisabledText = "So'rovlar tarixi yoqilmagan."
	historyEmptyText    = "Hali so'rovlar yo'q."
	historyHeaderText   = "🕘 Oxirgi so'rovlar:"
)

func searchingText(q weather.Query) string {
	if q.Kind == weather.ByCoordinates {
		return "🔎 Joylashuv bo'yicha ob-havo topilyapti..."
	}
	return fmt.Sprintf("🔎 %s uchun ob-havo topilyapti...", q.City)
}

func historyText(lookups []models.Lookup) string {
	if len(lookups) == 0 {
		return historyEmptyText
	}
	lines := []string{historyHeaderText}
	for _, l := range lookups {
		label := l.Query
		if l.Location != "" {
			label = l.Location
		}
		lines = append(lines, fmt.Sprintf("• %s — %s %s",
			l.CreatedAt.UTC().Format("2006-01-02 15:04"), label, outcomeMark(l.Outcome)))
	}
	return strings.Join(lines, "\n")
}

func outcomeMark(o models.Outcome) string {
	switch o {
	case models.OutcomeOK:
		return "✅"
	case models.OutcomeNotFound:
		return "❓"
	default:
		return "⚠️"
	}
}
