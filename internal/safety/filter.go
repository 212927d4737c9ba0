package safety

// Verdict is the outcome of scanning a payload. Derived purely from the
// payload content; the same input always yields the same verdict.
type Verdict struct {
	Blocked  bool
	Rule     string
	Category string
}

// Filter scans payloads against the unsafe-content rules.
type Filter struct {
	rules []Rule
}

// NewFilter creates a filter with the default rules.
func NewFilter() *Filter {
	return &Filter{rules: DefaultRules()}
}

// Scan evaluates the payload against the rules in order and returns the
// verdict for the first match.
func (f *Filter) Scan(payload string) Verdict {
	for _, r := range f.rules {
		if r.Regex.MatchString(payload) {
			return Verdict{Blocked: true, Rule: r.Name, Category: r.Category}
		}
	}
	return Verdict{}
}

// Redacted is the placeholder persisted to the audit store in place of a
// blocked payload, so unsafe text is never stored verbatim.
const Redacted = "[redacted]"
