package translation

import (
	"sort"

	apperrors "casestat/internal/errors"
)

// Unmapped describes a raw value that had no translation entry.
type Unmapped struct {
	Column   string `json:"column"`
	Value    string `json:"value"`
	Count    int    `json:"count"`
	FirstRow int    `json:"first_row"`
}

// Recorder collects translation misses per column during one normalization pass.
type Recorder struct {
	seen  map[string]map[string]*Unmapped
	order []*Unmapped
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{seen: make(map[string]map[string]*Unmapped)}
}

// Miss records that value in column at row had no entry.
func (r *Recorder) Miss(column, value string, row int) {
	byValue, ok := r.seen[column]
	if !ok {
		byValue = make(map[string]*Unmapped)
		r.seen[column] = byValue
	}
	if u, ok := byValue[value]; ok {
		u.Count++
		return
	}
	u := &Unmapped{Column: column, Value: value, Count: 1, FirstRow: row}
	byValue[value] = u
	r.order = append(r.order, u)
}

// Translate resolves raw through t, recording a miss on failure, and returns the
// translated or passthrough value.
func (r *Recorder) Translate(t *Table, raw string, row int) string {
	if canonical, ok := t.Resolve(raw); ok {
		return canonical
	}
	r.Miss(t.Name(), raw, row)
	return raw
}

// Unmapped returns the misses ordered by column, then first occurrence.
func (r *Recorder) Unmapped() []Unmapped {
	out := make([]Unmapped, 0, len(r.order))
	for _, u := range r.order {
		out = append(out, *u)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Column < out[j].Column })
	return out
}

// Warnings converts the misses into non-fatal UNMAPPED_LABEL errors.
func (r *Recorder) Warnings() []*apperrors.AppError {
	unmapped := r.Unmapped()
	out := make([]*apperrors.AppError, 0, len(unmapped))
	for _, u := range unmapped {
		out = append(out, apperrors.NewUnmappedLabelWarning(u.Column, u.Value).
			WithContext("count", u.Count).
			WithContext("first_row", u.FirstRow))
	}
	return out
}
