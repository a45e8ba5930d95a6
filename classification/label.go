// Package classification provides the single-label classification output
// type and concrete classification trainers.
package classification

import (
	"math"

	"github.com/gomlkit/gomlkit/core/data"
)

// Label is an atomic named output, optionally carrying a confidence score.
// The zero value is the unknown-output sentinel used to mark missing ground
// truth.
type Label struct {
	name  string
	score float64
}

// Unknown is the missing-ground-truth sentinel.
var Unknown = Label{score: math.NaN()}

// New creates an unscored label.
func New(name string) Label {
	return Label{name: name, score: math.NaN()}
}

// NewScored creates a label with a confidence score.
func NewScored(name string, score float64) Label {
	return Label{name: name, score: score}
}

// Name returns the label name.
func (l Label) Name() string {
	return l.name
}

// Score returns the confidence score, NaN when unset.
func (l Label) Score() float64 {
	return l.score
}

// HasScore reports whether a confidence score is attached.
func (l Label) HasScore() bool {
	return !math.IsNaN(l.score)
}

// IsUnknown reports whether this is the missing-ground-truth sentinel.
func (l Label) IsUnknown() bool {
	return l.name == ""
}

func (l Label) String() string {
	return l.name
}

// Equal compares label identity. Scores are ignored.
func (l Label) Equal(other data.Output) bool {
	o, ok := other.(Label)
	return ok && o.name == l.name
}

// LabelInfo tracks a label domain: dense ids in first-seen order, per-name
// counts, and the number of unknown outputs observed.
type LabelInfo struct {
	ids     map[string]int
	counts  map[string]int
	names   []string
	unknown int
}

// NewLabelInfo creates an empty label domain.
func NewLabelInfo() *LabelInfo {
	return &LabelInfo{
		ids:    make(map[string]int),
		counts: make(map[string]int),
	}
}

// Observe records one label occurrence.
func (i *LabelInfo) Observe(out Label) error {
	if out.IsUnknown() {
		i.unknown++
		return nil
	}
	name := out.Name()
	if _, ok := i.ids[name]; !ok {
		i.ids[name] = len(i.names)
		i.names = append(i.names, name)
	}
	i.counts[name]++
	return nil
}

// Reset clears all statistics.
func (i *LabelInfo) Reset() {
	i.ids = make(map[string]int)
	i.counts = make(map[string]int)
	i.names = nil
	i.unknown = 0
}

// Size returns the number of distinct labels.
func (i *LabelInfo) Size() int {
	return len(i.names)
}

// Names returns the label names in dense id order. The returned slice is a
// copy.
func (i *LabelInfo) Names() []string {
	out := make([]string, len(i.names))
	copy(out, i.names)
	return out
}

// ID returns the dense id of name.
func (i *LabelInfo) ID(name string) (int, bool) {
	id, ok := i.ids[name]
	return id, ok
}

// Count returns how many times name has been observed.
func (i *LabelInfo) Count(name string) int {
	return i.counts[name]
}

// UnknownCount returns how many unknown outputs have been observed.
func (i *LabelInfo) UnknownCount() int {
	return i.unknown
}

// Fresh returns an empty LabelInfo.
func (i *LabelInfo) Fresh() data.OutputInfo[Label] {
	return NewLabelInfo()
}
