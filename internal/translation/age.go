package translation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"casestat/pkg/contracts/domain"
)

// AgeUnit is the unit marker ER exports attach to numeric age labels.
const AgeUnit = "歲"

// DefaultOpenFloor is the lower bound of the open-ended oldest bucket.
const DefaultOpenFloor = 85

// BucketStyle selects the literal used for the open-ended oldest bucket.
type BucketStyle string

const (
	// StyleAbove renders "85 above 85 year-old".
	StyleAbove BucketStyle = "above"
	// StyleGreaterThan renders "85 greater than 85 year-old".
	StyleGreaterThan BucketStyle = "greater_than"
)

var (
	rangeLabelRe = regexp.MustCompile(`^(\d+)~(\d+)$`)
	openRawRe    = regexp.MustCompile(`^(\d+)` + AgeUnit + `以上$`)
)

// BucketNaming is the single source of age-bucket labels. The normalizer uses it
// to name the open-ended bucket found in raw data and the filter uses it to name
// the bucket a request selects, so both sides always agree.
type BucketNaming struct {
	Style     BucketStyle
	OpenFloor int
}

// DefaultBucketNaming returns the authoritative naming ("above", floor 85).
func DefaultBucketNaming() BucketNaming {
	return BucketNaming{Style: StyleAbove, OpenFloor: DefaultOpenFloor}
}

// OpenLabel returns the canonical label of the open-ended oldest bucket.
func (b BucketNaming) OpenLabel() string {
	floor := b.floor()
	switch b.Style {
	case StyleGreaterThan:
		return fmt.Sprintf("%d greater than %d year-old", floor, floor)
	default:
		return fmt.Sprintf("%d above %d year-old", floor, floor)
	}
}

// RangeLabel returns the canonical label of a closed bucket.
func (b BucketNaming) RangeLabel(low, high int) string {
	return domain.AgeRange{Low: low, High: high}.String()
}

// Valid reports whether the style is one of the known literals.
func (b BucketNaming) Valid() bool {
	return b.Style == StyleAbove || b.Style == StyleGreaterThan || b.Style == ""
}

func (b BucketNaming) floor() int {
	if b.OpenFloor <= 0 {
		return DefaultOpenFloor
	}
	return b.OpenFloor
}

// CanonicalAge translates a raw age label. The second result is false when the
// label is not in the Age table and is not a numeric range or the open-ended
// bucket. A raw open bucket ("90歲以上") maps only when its number is the floor.
func (b BucketNaming) CanonicalAge(raw string) (string, bool) {
	folded := Fold(raw)
	if canonical, ok := Age.Resolve(folded); ok {
		return canonical, true
	}
	if m := openRawRe.FindStringSubmatch(folded); m != nil {
		if n, _ := strconv.Atoi(m[1]); n == b.floor() {
			return b.OpenLabel(), true
		}
		return folded, false
	}
	if folded == b.OpenLabel() {
		return folded, true
	}

	stripped := StripAgeUnit(folded)
	if m := rangeLabelRe.FindStringSubmatch(stripped); m != nil {
		low, _ := strconv.Atoi(m[1])
		high, _ := strconv.Atoi(m[2])
		return b.RangeLabel(low, high), true
	}
	return stripped, false
}

// Clean applies NFC composition and trims surrounding space. Category labels are
// looked up in their cleaned form.
func Clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Fold is Clean plus narrowing of full-width characters ("０～４" becomes "0~4").
// Only numeric age labels are folded; narrowing would also rewrite the CJK
// punctuation some diagnosis labels depend on.
func Fold(s string) string {
	return strings.TrimSpace(width.Narrow.String(Clean(s)))
}

// StripAgeUnit removes a trailing age unit from a numeric age label ("0~4歲" → "0~4").
func StripAgeUnit(label string) string {
	label = Fold(label)
	label = strings.TrimSuffix(label, AgeUnit)
	return strings.TrimSpace(label)
}
