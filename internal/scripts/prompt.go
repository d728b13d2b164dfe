package scripts

import (
	"fmt"
	"strings"
)

// Styles are the script styles offered by default. Any free text is accepted.
var Styles = []string{
	"Style de script personnalisé 📝",
	"Style informatif",
	"Style humoristique",
	"Style émotionnel",
}

// Languages are the language selectors offered by default.
var Languages = []string{
	"🇫🇷 Français",
	"🇺🇸 Anglais",
	"🇪🇸 Espagnol",
	"🇩🇪 Allemand",
}

const markdownFallbackHeading = "# Script généré\n\n"

// LanguageLabel reduces a selector such as "🇫🇷 Français" to "Français".
// Values without a space are returned trimmed.
func LanguageLabel(selector string) string {
	selector = strings.TrimSpace(selector)
	parts := strings.Split(selector, " ")
	if len(parts) > 1 {
		return parts[1]
	}
	return selector
}

// SystemPrompt builds the instructions sent ahead of the user's topic.
func SystemPrompt(language, style string) string {
	if strings.TrimSpace(style) == "" {
		style = Styles[0]
	}
	return fmt.Sprintf(`Tu es un expert en création de contenu pour les réseaux sociaux.
Génère un script court et accrocheur pour une vidéo %s au format court.
Le script doit suivre un %s et être optimisé pour capter l'attention rapidement.
Format: Introduction accrocheuse, contenu principal avec 3-4 points clés, conclusion avec call-to-action.
Longueur: 60-90 secondes de narration (environ 150-200 mots).

Formate ta réponse en Markdown avec:
- Des titres pour les sections (utilise # pour les titres)
- Des listes à puces pour les points clés (utilise - pour les puces)
- Du texte en gras pour les moments importants (utilise ** autour du texte)
- Des émojis appropriés pour rendre le script plus vivant

IMPORTANT: Le script doit etre en 1 seul bloc de texte, sans sauts de ligne, juste un paragraphe continu.`,
		LanguageLabel(language), strings.TrimSpace(style))
}

// EnsureMarkdown prefixes a heading when the script does not already open
// with markdown.
func EnsureMarkdown(script string) string {
	trimmed := strings.TrimSpace(script)
	if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "*") {
		return script
	}
	return markdownFallbackHeading + script
}
