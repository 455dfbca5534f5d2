package handlers

import (
	"embed"
	"html/template"

	"studysync/internal/studysync"
)

// AcceptedExtensions is the file picker filter. The server does not enforce it.
const AcceptedExtensions = ".txt,.md,.docx"

//go:embed templates/*.html
var templateFS embed.FS

var optionClasses = map[studysync.OptionStyle]string{
	studysync.StyleNeutral:           "text-gray-800",
	studysync.StyleCorrectSelected:   "text-green-600",
	studysync.StyleIncorrectSelected: "text-red-600",
	studysync.StyleRevealCorrect:     "text-green-800",
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"optionClass": func(s studysync.OptionStyle) string {
			if class, ok := optionClasses[s]; ok {
				return class
			}
			return optionClasses[studysync.StyleNeutral]
		},
	}).ParseFS(templateFS, "templates/*.html"))
}
