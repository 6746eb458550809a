package prompt

// Style стиль юмора, выбранный пользователем.
type Style string

const (
	StyleSurpriseMe        Style = "Surprise me"
	StyleOneLiner          Style = "One-liner"
	StyleDadJoke           Style = "Dad joke"
	StyleSetupAndPunchline Style = "Setup and punchline"
	StylePuns              Style = "Puns"
	StyleExplainAfter      Style = "Explain after"

	DefaultStyle = StyleSurpriseMe
)

// Styles возвращает все стили в порядке показа в UI.
func Styles() []Style {
	return []Style{
		StyleSurpriseMe,
		StyleOneLiner,
		StyleDadJoke,
		StyleSetupAndPunchline,
		StylePuns,
		StyleExplainAfter,
	}
}

// Known сообщает, входит ли стиль в фиксированный набор.
func (s Style) Known() bool {
	switch s {
	case StyleSurpriseMe, StyleOneLiner, StyleDadJoke, StyleSetupAndPunchline, StylePuns, StyleExplainAfter:
		return true
	}
	return false
}

// Directive возвращает инструкцию для стиля. Неизвестный стиль получает инструкцию «Surprise me».
func (s Style) Directive() string {
	switch s {
	case StyleOneLiner:
		return "Prefer concise one-liners with a quick punchline."
	case StyleDadJoke:
		return "Prefer wholesome, punny dad-joke style humor."
	case StyleSetupAndPunchline:
		return "Use a short setup followed by a clear punchline on a new line."
	case StylePuns:
		return "Favor wordplay and puns related to programming terms."
	case StyleExplainAfter:
		return "Tell the joke first, then add a brief one-sentence explanation."
	default:
		return "Use any clean programming-humor style that fits the user's request."
	}
}
