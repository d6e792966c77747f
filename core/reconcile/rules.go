package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"georecon/core/gazetteer"
)

// Default patterns. Go regular expressions have no lookahead, so the exceptions the
// patterns need are carried as separate lists in RulesConfig.
const (
	DefaultAcronymPattern = `^[\p{Lu}\d]+$`

	DefaultPersonPattern = `^((de|van de|van den|van der|vander|van|von|zur) )?` +
		`\p{Lu}?\p{Ll}+, ` +
		`(\p{Lu}?(\p{Ll}+(-\p{Lu}?\p{Ll}+)?|\.|\[\?\]))` +
		`( (vom|von dem|von der|von|von und zu|zu|zur|op ten|van|van de|van den|van der|de))?` +
		`( \([^\p{L}][^)]+\)|\s?\p{Lu}?\[.+\])?$`

	DefaultJunkPrefixPattern = `^[\s\p{Pd}*•·?!.:;]+`
)

// ListSeparator splits an access-point field into atoms.
const ListSeparator = ","

// RulesConfig is the raw reconciliation configuration as loaded from a rules file.
type RulesConfig struct {
	// StopWords are compared to the normalized atom.
	StopWords []string `mapstructure:"stop_words"`

	// StopCategories are category codes or slugs excluded from candidacy.
	StopCategories []string `mapstructure:"stop_categories"`

	// AcronymPattern matches tokens that are dropped as acronyms.
	AcronymPattern string `mapstructure:"acronym_pattern"`

	// AcronymExceptions are tokens kept even though they match AcronymPattern.
	AcronymExceptions []string `mapstructure:"acronym_exceptions"`

	// PersonPattern matches "Surname, Given-name" shaped atoms.
	PersonPattern string `mapstructure:"person_pattern"`

	// PersonExceptions are place words that veto a person match when contained in the atom.
	PersonExceptions []string `mapstructure:"person_exceptions"`

	// PersonQualifiers veto a person match when they are the whole part after the comma,
	// as in "Berdychiv, town".
	PersonQualifiers []string `mapstructure:"person_qualifiers"`

	// JunkPrefixPattern is stripped from the start of every atom.
	JunkPrefixPattern string `mapstructure:"junk_prefix_pattern"`

	// AllowedTypes are the access-point types worth reconciling.
	AllowedTypes []string `mapstructure:"allowed_types"`

	// Strategy is the default strategy name.
	Strategy string `mapstructure:"strategy"`

	// KeepAncestors is the default for Options.KeepAncestors.
	KeepAncestors bool `mapstructure:"keep_ancestors"`
}

// DefaultRulesConfig returns the built-in configuration.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		StopWords: []string{
			"general", "unknown", "various", "other", "miscellaneous",
			"not specified", "sine loco", "s l", "world",
		},
		StopCategories:    []string{gazetteer.CategoryArea.String()},
		AcronymPattern:    DefaultAcronymPattern,
		AcronymExceptions: []string{"DDR", "USA", "USSR"},
		PersonPattern:     DefaultPersonPattern,
		PersonExceptions: []string{
			"Amsterdam", "Brabant", "Drenthe", "Friesland",
			"Gelderland", "Groningen", "Haarlem", "Limburg",
		},
		PersonQualifiers:  []string{"city", "town", "village", "село", "селище"},
		JunkPrefixPattern: DefaultJunkPrefixPattern,
		AllowedTypes:      []string{"placeAccess", "subjectAccess", "corporateBodyAccess"},
		Strategy:          string(StrategyAncestorCount),
	}
}

// Rules is the compiled, immutable reconciliation configuration.
type Rules struct {
	stopWords         map[string]struct{}
	stopCategories    map[gazetteer.Category]struct{}
	acronym           *regexp.Regexp
	acronymExceptions map[string]struct{}
	person            *regexp.Regexp
	personExceptions  []string
	personQualifiers  map[string]struct{}
	junkPrefix        *regexp.Regexp
	allowedTypes      map[string]struct{}
	defaults          Options
	fingerprint       string
}

// NewRules validates and compiles cfg. Empty patterns disable the matching filter.
func NewRules(cfg RulesConfig) (*Rules, error) {
	r := &Rules{
		stopWords:         make(map[string]struct{}, len(cfg.StopWords)),
		stopCategories:    make(map[gazetteer.Category]struct{}, len(cfg.StopCategories)),
		acronymExceptions: make(map[string]struct{}, len(cfg.AcronymExceptions)),
		personQualifiers:  make(map[string]struct{}, len(cfg.PersonQualifiers)),
		allowedTypes:      make(map[string]struct{}, len(cfg.AllowedTypes)),
	}

	for _, w := range cfg.StopWords {
		if key := gazetteer.Normalize(w); key != "" {
			r.stopWords[key] = struct{}{}
		}
	}
	for _, raw := range cfg.StopCategories {
		c, err := gazetteer.ParseCategory(raw)
		if err != nil {
			return nil, fmt.Errorf("stop category: %w", err)
		}
		r.stopCategories[c] = struct{}{}
	}
	for _, e := range cfg.AcronymExceptions {
		r.acronymExceptions[strings.TrimSpace(e)] = struct{}{}
	}
	for _, e := range cfg.PersonExceptions {
		if e = strings.TrimSpace(e); e != "" {
			r.personExceptions = append(r.personExceptions, e)
		}
	}
	for _, q := range cfg.PersonQualifiers {
		r.personQualifiers[strings.ToLower(strings.TrimSpace(q))] = struct{}{}
	}
	for _, t := range cfg.AllowedTypes {
		r.allowedTypes[strings.TrimSpace(t)] = struct{}{}
	}

	var err error
	if r.acronym, err = compileOptional("acronym", cfg.AcronymPattern); err != nil {
		return nil, err
	}
	if r.person, err = compileOptional("person", cfg.PersonPattern); err != nil {
		return nil, err
	}
	if r.junkPrefix, err = compileOptional("junk prefix", cfg.JunkPrefixPattern); err != nil {
		return nil, err
	}

	strategy, err := ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	r.defaults = Options{Strategy: strategy, KeepAncestors: cfg.KeepAncestors}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%#v", cfg)))
	r.fingerprint = hex.EncodeToString(sum[:8])

	return r, nil
}

// Fingerprint identifies the configuration the rules were compiled from. Rules
// compiled from equal configurations share a fingerprint.
func (r *Rules) Fingerprint() string {
	return r.fingerprint
}

// DefaultRules compiles DefaultRulesConfig.
func DefaultRules() *Rules {
	r, err := NewRules(DefaultRulesConfig())
	if err != nil {
		panic(err)
	}
	return r
}

func compileOptional(name, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid %s pattern: %w", name, err)
	}
	return re, nil
}

// Defaults returns the configured default options.
func (r *Rules) Defaults() Options {
	return r.defaults
}

// TypeAllowed reports whether an access-point type should be reconciled.
// An empty allow-list or an empty type allows everything.
func (r *Rules) TypeAllowed(accessType string) bool {
	if len(r.allowedTypes) == 0 || accessType == "" {
		return true
	}
	_, ok := r.allowedTypes[accessType]
	return ok
}

// IsAcronym reports whether the trimmed text is a dropped acronym.
func (r *Rules) IsAcronym(text string) bool {
	if r.acronym == nil {
		return false
	}
	if _, ok := r.acronymExceptions[text]; ok {
		return false
	}
	return r.acronym.MatchString(text)
}

// IsStopWord reports whether the normalized text is a stop word.
func (r *Rules) IsStopWord(text string) bool {
	_, ok := r.stopWords[gazetteer.Normalize(text)]
	return ok
}

// IsPerson reports whether text looks like a person name.
func (r *Rules) IsPerson(text string) bool {
	if r.person == nil {
		return false
	}
	for _, e := range r.personExceptions {
		if strings.Contains(text, e) {
			return false
		}
	}
	if !r.person.MatchString(text) {
		return false
	}
	if _, given, ok := strings.Cut(text, ", "); ok {
		if _, qualifier := r.personQualifiers[strings.ToLower(given)]; qualifier {
			return false
		}
	}
	return true
}

// StripJunk removes the junk prefix from text.
func (r *Rules) StripJunk(text string) string {
	if r.junkPrefix == nil {
		return text
	}
	if loc := r.junkPrefix.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[loc[1]:])
	}
	return text
}

// IsStopCategory reports whether c is excluded from candidacy.
func (r *Rules) IsStopCategory(c gazetteer.Category) bool {
	_, ok := r.stopCategories[c]
	return ok
}
