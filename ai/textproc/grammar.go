package textproc

// Corrector applies an ordered list of rewrite rules. Each rule sees the
// output of the previous one.
type Corrector struct {
	rules []Rule
}

// NewCorrector returns a Corrector for rules. With no rules it uses the
// default pipeline.
func NewCorrector(rules ...Rule) *Corrector {
	if len(rules) == 0 {
		rules = defaultRules
	}
	return &Corrector{rules: rules}
}

// Correct runs every rule over text in order.
func (c *Corrector) Correct(text string) string {
	if text == "" {
		return ""
	}
	for _, r := range c.rules {
		text = r.Apply(text)
	}
	return text
}

var defaultCorrector = NewCorrector()

// Correct fixes spacing, common misspellings and capitalization in text
// using the default rules.
func Correct(text string) string {
	return defaultCorrector.Correct(text)
}
