package pack

import "strings"

// Polisher adjusts rendered prompts toward the rubric's word range and
// rewrites stiff phrasing.
type Polisher struct {
	MinWords int
	MaxWords int
	spec     PolishSpec
	replacer *strings.Replacer
}

// NewPolisher creates a polisher for the pack's polish settings.
func NewPolisher(spec PolishSpec, minWords, maxWords int) *Polisher {
	pairs := make([]string, 0, len(spec.Replacements)*2)
	for _, r := range spec.Replacements {
		pairs = append(pairs, r.From, r.To)
	}
	return &Polisher{
		MinWords: minWords,
		MaxWords: maxWords,
		spec:     spec,
		replacer: strings.NewReplacer(pairs...),
	}
}

// Polish pads short prompts with the short suffix, truncates long prompts to
// MaxWords-2 words followed by the trailing ask, then applies replacements in
// a single pass: the output of one replacement is not matched again.
func (p *Polisher) Polish(prompt string) string {
	words := strings.Fields(prompt)
	switch {
	case len(words) < p.MinWords && p.spec.ShortSuffix != "":
		prompt = strings.Join(words, " ") + " " + p.spec.ShortSuffix
	case p.MaxWords > 2 && len(words) > p.MaxWords:
		keep := p.MaxWords - 2
		prompt = strings.Join(words[:keep], " ")
		if p.spec.TrailingAsk != "" {
			prompt += " " + p.spec.TrailingAsk
		}
	}
	return p.replacer.Replace(prompt)
}
