package template

import (
	"regexp"
	"strings"
)

type rewrite struct {
	pattern *regexp.Regexp
	replace string
}

// cleanup runs in order after substitution so elided optional fields
// leave no orphaned punctuation or doubled whitespace.
var cleanup = []rewrite{
	{regexp.MustCompile(`,\s*,`), ","},
	{regexp.MustCompile(`[,\s]+\.`), "."},
	{regexp.MustCompile(`\.,`), "."},
	{regexp.MustCompile(`,\s*$`), ""},
	{regexp.MustCompile(`^,\s*`), ""},
	{regexp.MustCompile(`\s+`), " "},
	{regexp.MustCompile(`\s+,`), ","},
	{regexp.MustCompile(`\s+\.`), "."},
}

// Prompts is the rendered output for a whole recipe.
type Prompts struct {
	// Prompts holds one entry per stage in stage order; tool stages render "".
	Prompts []string `json:"prompts"`
	// ReferenceImages is every stage's image URLs, deduplicated, first-seen order.
	ReferenceImages []string `json:"referenceImages"`
	// StageReferenceImages keeps each stage's URLs exactly as attached.
	StageReferenceImages [][]string `json:"stageReferenceImages"`
	// Fallbacks lists field ids whose value came from the substring fallback.
	Fallbacks []string `json:"-"`
}

// BuildStagePrompt substitutes values into template. An empty optional
// token is elided; an empty required token is left verbatim.
func BuildStagePrompt(template string, fields []Field, values Values, unique []Field) string {
	prompt, _ := buildStage(template, fields, values, unique)
	return prompt
}

// BuildRecipePrompts renders every stage of a normalized pipeline.
func BuildRecipePrompts(stages []Stage, values Values) Prompts {
	unique := AllFields(stages)

	out := Prompts{
		Prompts:              make([]string, len(stages)),
		ReferenceImages:      []string{},
		StageReferenceImages: make([][]string, len(stages)),
	}

	seen := make(map[string]bool)

	for i, s := range stages {
		if !s.IsTool() {
			prompt, fallbacks := buildStage(s.Template, s.Fields, values, unique)
			out.Prompts[i] = prompt
			out.Fallbacks = append(out.Fallbacks, fallbacks...)
		}

		urls := make([]string, 0, len(s.ReferenceImages))
		for _, img := range s.ReferenceImages {
			urls = append(urls, img.URL)
			if !seen[img.URL] {
				seen[img.URL] = true
				out.ReferenceImages = append(out.ReferenceImages, img.URL)
			}
		}
		out.StageReferenceImages[i] = urls
	}

	return out
}

// Clean applies the punctuation and whitespace cleanup pass to text.
func Clean(text string) string {
	for _, rw := range cleanup {
		text = rw.pattern.ReplaceAllString(text, rw.replace)
	}
	return strings.TrimSpace(text)
}

func buildStage(template string, fields []Field, values Values, unique []Field) (string, []string) {
	var fallbacks []string
	index := 0

	substituted := tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		m := tokenPattern.FindStringSubmatch(match)
		tok := parseToken(m[0], m[1], m[2])

		field := occurrence(tok, index, fields)
		index++

		value, how := Resolve(field, values, unique)
		if how == ByFallback {
			fallbacks = append(fallbacks, field.ID)
		}

		if value == "" {
			if tok.Required {
				return match
			}
			return ""
		}
		return value
	})

	return Clean(substituted), fallbacks
}

// occurrence pairs the token at position index with its parsed descriptor.
// Callers may pass fields that do not line up with the template; the
// descriptor is then matched by name.
func occurrence(tok Token, index int, fields []Field) Field {
	if index < len(fields) && fields[index].Name == tok.Name {
		return fields[index]
	}
	for _, f := range fields {
		if f.Name == tok.Name {
			return f
		}
	}
	return Field{
		Name:     tok.Name,
		Label:    Label(tok.Name),
		Type:     tok.Type,
		Required: tok.Required,
	}
}
