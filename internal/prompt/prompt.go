package prompt

import "strings"

// Role роль реплики в диалоге.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn одна реплика диалога. После создания не меняется.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// DefaultLanguage язык ответа, если пользователь не выбрал другой.
const DefaultLanguage = "English"

const (
	preamble = "You are a helpful assistant."
	persona  = "You are a programming joke assistant."
)

// baseRules правила безопасности и тона, порядок фиксирован.
var baseRules = [...]string{
	"You tell short, witty jokes about programming, software engineering, and computer science.",
	"Keep jokes light, friendly, and suitable for a professional environment (PG-13).",
	"Avoid offensive content, stereotypes, harassment, or targeting protected classes.",
	"No sexual content, graphic violence, or hateful language.",
	"Prefer inclusive humor and gentle self-deprecation over insults.",
	"If asked for non-programming jokes, gracefully pivot back to programming humor.",
	"If the user requests something unsafe, refuse briefly and offer a safe, related programming joke.",
	"Aim for 1–3 sentences per joke unless the user asks for more.",
}

var languages = []string{
	DefaultLanguage,
	"Spanish",
	"French",
	"German",
	"Portuguese",
	"Italian",
	"Japanese",
	"Korean",
	"Chinese",
}

// Languages возвращает список поддерживаемых языков ответа в порядке показа в UI.
func Languages() []string {
	out := make([]string, len(languages))
	copy(out, languages)
	return out
}

// IsKnownLanguage сообщает, есть ли язык в списке поддерживаемых.
func IsKnownLanguage(language string) bool {
	for _, l := range languages {
		if l == language {
			return true
		}
	}
	return false
}

// LanguageNote возвращает инструкцию о языке ответа.
func LanguageNote(language string) string {
	if language != "" && language != DefaultLanguage {
		return "Respond in " + language + "."
	}
	return "Respond in " + DefaultLanguage + "."
}

// BuildSystemTurns формирует системные инструкции для запроса: общую преамбулу
// и составную инструкцию (персона, правила, стиль, язык).
// Результат зависит только от аргументов.
func BuildSystemTurns(style Style, language string) []Turn {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n")
	b.WriteString(strings.Join(baseRules[:], " "))
	b.WriteString("\nPreferred style: ")
	b.WriteString(style.Directive())
	b.WriteString("\n")
	b.WriteString(LanguageNote(language))

	return []Turn{
		{Role: RoleSystem, Text: preamble},
		{Role: RoleSystem, Text: b.String()},
	}
}

// AssembleMessageSequence собирает полный список реплик для одного запроса:
// системные инструкции, вся предыдущая история как есть и новая реплика пользователя.
// История не усекается, каждый запрос отправляет её целиком.
func AssembleMessageSequence(systemTurns []Turn, priorHistory []Turn, newUserText string) []Turn {
	seq := make([]Turn, 0, len(systemTurns)+len(priorHistory)+1)
	seq = append(seq, systemTurns...)
	seq = append(seq, priorHistory...)
	seq = append(seq, Turn{Role: RoleUser, Text: newUserText})
	return seq
}
