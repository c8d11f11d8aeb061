package classify

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var (
	numberedHeadingRe = regexp.MustCompile(`^\s*(\d+)\.\s*([A-Z0-9 ()'’&/.\-]+?)\.\s+(.*)$`)
	inlineLabelRe     = regexp.MustCompile(`^([\p{L}\p{M}\p{N}/&().' \-]+):\s*(.*)$`)
	upperHeadingRe    = regexp.MustCompile(`^[A-Z0-9 ()'".,&\-/]+:$`)
	upperLabelRe      = regexp.MustCompile(`^[A-Z0-9 /&().'-]+$`)
)

// Config is the uncompiled rule set for one language.
type Config struct {
	// Headings are opener patterns matched against the whole trimmed line.
	Headings []string
	// Labels are inline labels accepted before a colon, compared case-folded.
	Labels []string
	// IgnoreCase compiles the heading patterns case-insensitively.
	IgnoreCase bool
	// UpperCase also accepts all-caps headings ending in a colon and all-caps
	// inline labels. Only meaningful for scripts with letter case.
	UpperCase bool
}

// Rules is a compiled Config.
type Rules struct {
	headings  []*regexp.Regexp
	labels    map[string]struct{}
	upperCase bool
}

// fold builds a fresh Caser per call; Casers carry state and are not safe
// for concurrent use.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Compile validates and compiles cfg.
func Compile(cfg Config) (*Rules, error) {
	rules := &Rules{
		labels:    make(map[string]struct{}, len(cfg.Labels)),
		upperCase: cfg.UpperCase,
	}
	flags := ""
	if cfg.IgnoreCase {
		flags = "(?i)"
	}
	for _, pattern := range cfg.Headings {
		re, err := regexp.Compile(flags + `^(?:` + pattern + `)$`)
		if err != nil {
			return nil, fmt.Errorf("classify: heading pattern %q: %w", pattern, err)
		}
		rules.headings = append(rules.headings, re)
	}
	for _, label := range cfg.Labels {
		if key := fold(label); key != "" {
			rules.labels[key] = struct{}{}
		}
	}
	return rules, nil
}

// MustCompile is Compile for package-level rule tables.
func MustCompile(cfg Config) *Rules {
	rules, err := Compile(cfg)
	if err != nil {
		panic(err)
	}
	return rules
}

func (r *Rules) isHeading(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}
	for _, re := range r.headings {
		if re.MatchString(t) {
			return true
		}
	}
	return r.upperCase && upperHeadingRe.MatchString(t)
}

func (r *Rules) inlineLabel(line string) (label, rest string, ok bool) {
	m := inlineLabelRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	label = strings.TrimSpace(m[1])
	if _, known := r.labels[fold(label)]; known {
		return label, m[2], true
	}
	if r.upperCase && upperLabelRe.MatchString(label) {
		return label, m[2], true
	}
	return "", "", false
}

// EnglishConfig returns the built-in English rule set.
func EnglishConfig() Config {
	return Config{
		IgnoreCase: true,
		UpperCase:  true,
		Headings: []string{
			`THIS .* (executed|made).*`,
			`WHEREAS:?`,
			`NOW,? THIS (DEED|AGREEMENT).*`,
			`SCHEDULE.*:?`,
			`SCHEDULE OF PROPERTY:`,
			`FINAL RECIPIENT DETAILS:?`,
			`WITNESSES:?`,
			`SIGNED:?`,
			`GOVERNING LAW:?`,
			`CONSIDERATION:?`,
			`TITLE ?& ?ENCUMBRANCES:?`,
			`DELIVERY OF POSSESSION:?`,
			`INDEMNITY:?`,
			`TAXES ?& ?OUTGOINGS:?`,
			`MUTATION:?`,
			`TERM:?`,
			`RENT( AND SECURITY DEPOSIT)?:?`,
			`MAINTENANCE:?`,
			`UTILITIES( AND MAINTENANCE)?:?`,
			`ENTRY:?`,
			`TERMINATION:?`,
			`DISPUTE RESOLUTION.*:?`,
			`PROPERTY:?`,
			`PRICE:?`,
			`COMPLETION:?`,
			`POSSESSION:?`,
			`DEFAULT:?`,
			`REPRESENTATIONS:?`,
			`APPOINTMENT OF EXECUTOR:?`,
			`BEQUESTS:?`,
			`RESIDUARY:?`,
			`ASSETS:?`,
			`DEBTS ?& ?EXPENSES:?`,
			`INTERPRETATION:?`,
			`SIGNING:?`,
		},
		Labels: []string{
			"EXECUTANT", "RELEASEE", "LANDLORD", "TENANT", "DONOR", "DONEE",
			"PRINCIPAL", "ATTORNEY/AGENT", "SELLER", "BUYER", "SURVEY NO.",
			"PLOT NO.", "LAND AREA", "LOCATION", "PROPERTY DESCRIPTION", "NAME",
			"FATHER/HUSBAND", "PURPOSE", "CONFIDENTIAL INFORMATION", "EXCLUSIONS",
			"OBLIGATIONS", "TERM", "NO LICENSE", "REMEDIES", "GOVERNING LAW",
			"PROPERTY", "PRICE", "COMPLETION", "POSSESSION", "DEFAULT",
			"REPRESENTATIONS", "SIGNED", "WITNESSES",
		},
	}
}

// TamilConfig returns the built-in Tamil rule set.
func TamilConfig() Config {
	return Config{
		Headings: []string{
			`இந்த .* (செய்யப்பட்டது|அன்று).*`,
			`இந்நாள் .*`,
			`எனினும்:?`,
			`இதனால்:?`,
			`அட்டவணை.*:?`,
			`இறுதி பெறுபவர்.*:?`,
			`சாட்சிகள்.*:?`,
			`கையெழுத்து.*:?`,
			`நடைமுறை சட்டம்.*:?`,
			`பரிசீலனை.*:?`,
			`உரிமை.*:?`,
			`பிடிப்பு.*:?`,
			`பாதுகாப்பு.*:?`,
			`வரி.*செலவுகள்.*:?`,
			`காலம்:?`,
			`வளாகம்:?`,
			`வாடகை.*வைப்பு.*:?`,
			`பராமரிப்பு:?`,
			`பொதுசேவைகள்:?`,
			`பார்வை:?`,
			`முடிவு:?`,
		},
		Labels: []string{
			"நிறைவேற்றுபவர்", "விடுதலை பெறுபவர்", "வீட்டு உரிமையாளர்",
			"குத்தகைதாரர்", "வழங்குபவர்", "பெறுபவர்", "முதன்மை", "முகவர்",
			"விற்பனையாளர்", "வாங்குபவர்", "ஆய்வு எண்", "பிளாட் எண்",
			"பரப்பளவு", "இடம்", "சொத்து விவரம்", "பெயர்", "தந்தை/கணவர்",
			"நோக்கம்", "ரகசிய தகவல்", "விலக்குகள்", "கடமைகள்", "காலம்",
			"சட்டம்", "சாட்சிகள்", "கையெழுத்து",
		},
	}
}
