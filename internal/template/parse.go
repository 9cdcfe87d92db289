package template

import (
	"fmt"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`<<([A-Z_0-9]+):(.+?)>>`)

// Token is a single <<NAME:typespec>> match within a template.
type Token struct {
	Raw      string
	Name     string
	Type     FieldType
	Required bool
	Options  []string
}

// Tokens returns every well-formed token in template, in textual order.
// Malformed tokens are not matched and remain literal text.
func Tokens(template string) []Token {
	matches := tokenPattern.FindAllStringSubmatch(template, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, parseToken(m[0], m[1], m[2]))
	}
	return tokens
}

// HasTokens reports whether template contains at least one field token.
func HasTokens(template string) bool {
	return tokenPattern.MatchString(template)
}

// Parse extracts field descriptors from template for the stage at stageIndex.
// Repeated names within one template each produce their own descriptor.
func Parse(template string, stageIndex int) []Field {
	tokens := Tokens(template)
	fields := make([]Field, 0, len(tokens))

	for i, tok := range tokens {
		label := Label(tok.Name)
		fields = append(fields, Field{
			ID:          FieldID(stageIndex, i, tok.Name),
			Name:        tok.Name,
			Label:       label,
			Type:        tok.Type,
			Required:    tok.Required,
			Options:     tok.Options,
			Placeholder: Placeholder(label, tok.Required),
		})
	}

	return fields
}

// FieldID formats the occurrence identity stage{order}_field{index}_{NAME}.
func FieldID(stageIndex, fieldIndex int, name string) string {
	return fmt.Sprintf("stage%d_field%d_%s", stageIndex, fieldIndex, name)
}

func parseToken(raw, name, kind string) Token {
	tok := Token{
		Raw:  raw,
		Name: name,
		Type: FieldText,
	}

	if trimmed, ok := strings.CutSuffix(kind, "!"); ok {
		tok.Required = true
		kind = trimmed
	}

	switch {
	case kind == string(FieldName):
		tok.Type = FieldName
	case kind == string(FieldText):
		tok.Type = FieldText
	case strings.HasPrefix(kind, "select(") && strings.HasSuffix(kind, ")"):
		tok.Type = FieldSelect
		tok.Options = parseOptions(kind[len("select(") : len(kind)-1])
	}

	return tok
}

func parseOptions(list string) []string {
	parts := strings.Split(list, ",")
	options := make([]string, 0, len(parts))
	for _, p := range parts {
		if opt := strings.TrimSpace(p); opt != "" {
			options = append(options, opt)
		}
	}
	return options
}
