package parser

import "strings"

// Catalog names used when a drawing carries no explicit material.
const (
	DefaultSteel    = "AISI 1018 Steel"
	DefaultAluminum = "Aluminum 6061-T6"
	DefaultTitanium = "Ti-6Al-4V"
)

// inferenceRule maps language-specific keywords to a catalog name.
// Rules are evaluated in order; the first family present wins.
type inferenceRule struct {
	tokens   []string
	material string
}

var inferenceRules = [...]inferenceRule{
	{tokens: []string{"steel", "acier"}, material: DefaultSteel},
	{tokens: []string{"aluminum", "aluminium"}, material: DefaultAluminum},
	{tokens: []string{"titanium", "titane"}, material: DefaultTitanium},
}

// keywordSet records which rule families appeared anywhere in the text,
// so inference needs no full-document buffer.
type keywordSet [len(inferenceRules)]bool

func (k *keywordSet) observe(lower string) {
	for i, rule := range inferenceRules {
		if k[i] {
			continue
		}
		if containsAny(lower, rule.tokens) {
			k[i] = true
		}
	}
}

func (k keywordSet) infer() string {
	for i, rule := range inferenceRules {
		if k[i] {
			return rule.material
		}
	}
	return DefaultSteel
}

// InferMaterial runs keyword inference over free text.
func InferMaterial(text string) string {
	var k keywordSet
	k.observe(strings.ToLower(text))
	return k.infer()
}
