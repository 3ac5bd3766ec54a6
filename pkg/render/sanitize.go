package render

import (
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

var (
	fragmentPolicyOnce sync.Once
	fragmentPolicy     *bluemonday.Policy
)

// FragmentPolicy allows the markup a builder preview is made of and nothing
// else. Templates can be overridden from disk, so their output goes through
// this policy before it is inlined into a page.
func FragmentPolicy() *bluemonday.Policy {
	fragmentPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("div", "p", "span", "label", "input", "textarea", "select", "option", "button")
		p.AllowAttrs("id", "class", "aria-hidden").Globally()
		p.AllowDataAttributes()
		p.AllowAttrs("for").OnElements("label")
		p.AllowAttrs("name", "required").OnElements("input", "textarea", "select")
		p.AllowAttrs("type").OnElements("input", "button")
		p.AllowAttrs("value").OnElements("option")
		fragmentPolicy = p
	})
	return fragmentPolicy
}

// SanitizeFragment strips anything outside FragmentPolicy from rendered HTML.
func SanitizeFragment(html string) string {
	return FragmentPolicy().Sanitize(html)
}

// SanitizeText removes control characters and surrounding whitespace. The
// text is otherwise kept as typed; renderers escape it for their output.
func SanitizeText(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if unicode.IsSpace(r) {
				return ' '
			}
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(cleaned)
}

// Sanitizer is a decorator that cleans user supplied labels and options.
func Sanitizer() model.Decorator {
	return model.DecoratorFunc(func(form *model.FormModel) error {
		if len(form.Fields) == 0 {
			return nil
		}
		fields := make([]model.Field, len(form.Fields))
		copy(fields, form.Fields)
		form.Fields = fields
		for i := range fields {
			field := &fields[i]
			field.Label = SanitizeText(field.Label)
			if field.Options == nil {
				continue
			}
			options := make([]string, len(field.Options))
			for j, option := range field.Options {
				options[j] = SanitizeText(option)
			}
			field.Options = options
		}
		return nil
	})
}
