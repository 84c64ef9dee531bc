// =============================================================================
// Uruguay Card Payments - Transformation Engine
// =============================================================================
//
// This module applies the configured character-level cleanup to raw column
// values before they are coerced to numbers. The statistics export formats
// amounts as "$ 2.368" and counts as "15.288.227"; the default rules strip
// the currency sign, spaces and "." thousands separators.
//
// TRANSFORMATION TYPES:
//   - replace        : replace every occurrence of Find with Value
//   - regex_replace  : replace every match of the pattern Find with Value
//   - trim           : remove leading and trailing whitespace
//   - lowercase      : convert to lowercase
//   - uppercase      : convert to uppercase
//   - extract_digits : keep only the digits
//
// =============================================================================

package cleaner

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/uycards/annual-summary/internal/config"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer handles field value transformations.
type Transformer struct {
	rules map[string]config.TransformationRule
}

// NewTransformer creates a new Transformer with the given rules. Rule fields
// are matched against normalised column names.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{rules: make(map[string]config.TransformationRule, len(rules))}

	for _, rule := range rules {
		for _, action := range rule.Actions {
			if err := checkAction(action); err != nil {
				return nil, fmt.Errorf("cleaning rule for %q: %w", rule.Field, err)
			}
		}
		t.rules[NormalizeHeader(rule.Field)] = rule
	}

	return t, nil
}

// Transform applies the rule registered for fieldName, if any.
//
// PARAMETERS:
//   - fieldName: The normalised column name.
//   - value: The raw value.
//
// RETURNS:
//   - The transformed value.
//   - An error if any transformation fails.
func (t *Transformer) Transform(fieldName, value string) (string, error) {
	rule, ok := t.rules[fieldName]
	if !ok {
		return value, nil
	}

	result := value
	for _, action := range rule.Actions {
		var err error
		result, err = ApplyTransformation(result, action)
		if err != nil {
			return "", fmt.Errorf("transformation '%s' failed: %w", action.Type, err)
		}
	}

	return result, nil
}

// HasRule reports whether a rule is registered for fieldName.
func (t *Transformer) HasRule(fieldName string) bool {
	_, ok := t.rules[fieldName]
	return ok
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// ApplyTransformation applies a single transformation action.
//
// EXAMPLE:
//   Input:  "$ 2.368"
//   Action: replace with find "." and value ""
//   Output: "$ 2368"
func ApplyTransformation(value string, action config.TransformationAction) (string, error) {
	switch action.Type {

	case "replace":
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		if action.Find == "" {
			return value, nil
		}
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return "", fmt.Errorf("invalid regex pattern: %w", err)
		}
		return re.ReplaceAllString(value, action.Value), nil

	case "trim":
		return strings.TrimSpace(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "extract_digits":
		var builder strings.Builder
		for _, r := range value {
			if unicode.IsDigit(r) {
				builder.WriteRune(r)
			}
		}
		return builder.String(), nil

	default:
		return "", fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}

// checkAction rejects unknown types and bad patterns when the rules are
// loaded rather than on the first row.
func checkAction(action config.TransformationAction) error {
	switch action.Type {
	case "replace", "trim", "lowercase", "uppercase", "extract_digits":
		return nil
	case "regex_replace":
		if _, err := regexp.Compile(action.Find); err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}
