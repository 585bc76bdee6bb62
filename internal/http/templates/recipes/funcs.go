// Package recipes provides template helpers tailored to recipe rendering.
package recipes

import (
	"bytes"
	"errors"
	"html/template"
	"strconv"
	"strings"

	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
)

// Deps contains the dependencies required to build recipe-related template helpers.
type Deps struct {
	Template **template.Template
}

// Funcs returns a template.FuncMap with helpers tailored to recipe rendering.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"categoryClass": CategoryClass,
		"categories":    model.Categories,
		"totalTime":     TotalTime,
		"formatMinutes": FormatMinutes,
		"servingsLabel": ServingsLabel,
	}

	funcs["renderRecipePartial"] = func(name string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, name, data); err != nil {
			return "", err
		}
		// #nosec G203 - Rendered HTML originates from our trusted template set and varies only by data already escaped by html/template.
		return template.HTML(buf.String()), nil
	}

	return funcs
}

// CategoryClass maps a recipe category to a CSS badge class suffix.
func CategoryClass(c model.Category) string {
	return "badge-" + strings.ToLower(string(c))
}

// TotalTime returns prep plus cook time in minutes.
func TotalTime(r *model.Recipe) int {
	if r == nil {
		return 0
	}
	return r.PrepTime + r.CookTime
}

// FormatMinutes renders a minute count as "45 min" or "1 hr 20 min".
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return strconv.Itoa(minutes) + " min"
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return strconv.Itoa(hours) + " hr"
	}
	return strconv.Itoa(hours) + " hr " + strconv.Itoa(rest) + " min"
}

// ServingsLabel pluralizes the servings display.
func ServingsLabel(servings int) string {
	if servings <= 0 {
		return ""
	}
	if servings == 1 {
		return "1 serving"
	}
	return strconv.Itoa(servings) + " servings"
}
