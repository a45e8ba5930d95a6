// Package multilabel provides the multi-label output type and the
// decompositions that reduce multi-label prediction to binary
// classification: independent binary relevance and the classifier chain.
package multilabel

import (
	"math"
	"sort"
	"strings"

	"github.com/gomlkit/gomlkit/classification"
	"github.com/gomlkit/gomlkit/core/data"
	"github.com/gomlkit/gomlkit/pkg/errors"
)

// NegativeLabelName is the reserved sentinel denoting "this label is
// absent" in binary decompositions. It may not appear in a MultiLabel.
const NegativeLabelName = "ML##NEGATIVE"

// NegativeLabel is the shared negative sentinel label.
var NegativeLabel = classification.New(NegativeLabelName)

// MultiLabel is an immutable, possibly empty set of atomic labels, each
// optionally scored, plus an optional set-level score.
type MultiLabel struct {
	labels  []classification.Label // sorted by name, deduplicated
	score   float64                // NaN when unset
	unknown bool
}

// Unknown returns the missing-ground-truth sentinel.
func Unknown() MultiLabel {
	return MultiLabel{score: math.NaN(), unknown: true}
}

// New creates a MultiLabel from atomic labels. Names must be non-empty,
// must not contain the comma used by the canonical string form, and must
// not be the negative sentinel. Duplicate names are rejected.
func New(labels ...classification.Label) (MultiLabel, error) {
	const op = "multilabel.New"
	owned := make([]classification.Label, len(labels))
	copy(owned, labels)
	sort.Slice(owned, func(i, j int) bool { return owned[i].Name() < owned[j].Name() })
	for i, l := range owned {
		switch {
		case l.Name() == "":
			return MultiLabel{}, errors.NewInvalidArgumentError(op, "label names must be non-empty", nil)
		case strings.Contains(l.Name(), ","):
			return MultiLabel{}, errors.NewInvalidArgumentError(op, "label names must not contain ','", l.Name())
		case l.Name() == NegativeLabelName:
			return MultiLabel{}, errors.NewInvalidArgumentError(op, "the negative sentinel is reserved", l.Name())
		case i > 0 && owned[i-1].Name() == l.Name():
			return MultiLabel{}, errors.NewInvalidArgumentError(op, "duplicate label name", l.Name())
		}
	}
	return MultiLabel{labels: owned, score: math.NaN()}, nil
}

// FromNames creates a MultiLabel of unscored labels.
func FromNames(names ...string) (MultiLabel, error) {
	labels := make([]classification.Label, len(names))
	for i, n := range names {
		labels[i] = classification.New(n)
	}
	return New(labels...)
}

// NewScored creates a MultiLabel carrying a set-level score.
func NewScored(score float64, labels ...classification.Label) (MultiLabel, error) {
	ml, err := New(labels...)
	if err != nil {
		return MultiLabel{}, err
	}
	ml.score = score
	return ml, nil
}

// Labels returns the atomic labels in name order. The returned slice is a
// copy.
func (m MultiLabel) Labels() []classification.Label {
	out := make([]classification.Label, len(m.labels))
	copy(out, m.labels)
	return out
}

// Names returns the sorted atomic label names.
func (m MultiLabel) Names() []string {
	out := make([]string, len(m.labels))
	for i, l := range m.labels {
		out[i] = l.Name()
	}
	return out
}

// Contains reports whether the set holds a label with the given name.
func (m MultiLabel) Contains(name string) bool {
	i := sort.Search(len(m.labels), func(i int) bool { return m.labels[i].Name() >= name })
	return i < len(m.labels) && m.labels[i].Name() == name
}

// Len returns the number of atomic labels.
func (m MultiLabel) Len() int {
	return len(m.labels)
}

// Score returns the set-level score, NaN when unset.
func (m MultiLabel) Score() float64 {
	return m.score
}

// HasScore reports whether a set-level score is attached.
func (m MultiLabel) HasScore() bool {
	return !math.IsNaN(m.score)
}

// IsUnknown reports whether this is the missing-ground-truth sentinel.
func (m MultiLabel) IsUnknown() bool {
	return m.unknown
}

// String returns the canonical comma-joined form of the sorted label names.
func (m MultiLabel) String() string {
	return strings.Join(m.Names(), ",")
}

// Equal compares label-name sets. Scores are ignored.
func (m MultiLabel) Equal(other data.Output) bool {
	o, ok := other.(MultiLabel)
	if !ok || o.unknown != m.unknown || len(o.labels) != len(m.labels) {
		return false
	}
	for i := range m.labels {
		if m.labels[i].Name() != o.labels[i].Name() {
			return false
		}
	}
	return true
}

// FullEquals reports set equality plus per-label and set-level score
// agreement within tol. Two unset (NaN) scores agree.
func (m MultiLabel) FullEquals(o MultiLabel, tol float64) bool {
	if !m.Equal(o) {
		return false
	}
	if !scoreClose(m.score, o.score, tol) {
		return false
	}
	for i := range m.labels {
		if !scoreClose(m.labels[i].Score(), o.labels[i].Score(), tol) {
			return false
		}
	}
	return true
}

func scoreClose(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= tol
}

// BinaryLabel projects the set onto one label dimension: it returns an
// unscored label named l if the set contains it, and the negative sentinel
// otherwise.
func (m MultiLabel) BinaryLabel(l classification.Label) classification.Label {
	if m.Contains(l.Name()) {
		return classification.New(l.Name())
	}
	return NegativeLabel
}

// Info tracks a multi-label output domain. The domain is the set of atomic
// label names, with dense ids in first-seen order, per-name occurrence
// counts, and the number of unknown outputs observed.
type Info struct {
	ids     map[string]int
	counts  map[string]int
	names   []string
	total   int
	unknown int
}

// NewInfo creates an empty multi-label domain.
func NewInfo() *Info {
	return &Info{
		ids:    make(map[string]int),
		counts: make(map[string]int),
	}
}

// Observe records one MultiLabel, expanding it into its atomic labels.
func (i *Info) Observe(out MultiLabel) error {
	if out.IsUnknown() {
		i.unknown++
		return nil
	}
	for _, l := range out.labels {
		name := l.Name()
		if _, ok := i.ids[name]; !ok {
			i.ids[name] = len(i.names)
			i.names = append(i.names, name)
		}
		i.counts[name]++
	}
	i.total++
	return nil
}

// Reset clears all statistics.
func (i *Info) Reset() {
	i.ids = make(map[string]int)
	i.counts = make(map[string]int)
	i.names = nil
	i.total = 0
	i.unknown = 0
}

// Size returns the number of distinct atomic labels.
func (i *Info) Size() int {
	return len(i.names)
}

// Names returns the atomic label names in dense id order. The returned
// slice is a copy.
func (i *Info) Names() []string {
	out := make([]string, len(i.names))
	copy(out, i.names)
	return out
}

// ID returns the dense id of an atomic label name.
func (i *Info) ID(name string) (int, bool) {
	id, ok := i.ids[name]
	return id, ok
}

// Count returns how many observed sets contained name.
func (i *Info) Count(name string) int {
	return i.counts[name]
}

// Total returns the number of non-unknown sets observed.
func (i *Info) Total() int {
	return i.total
}

// UnknownCount returns how many unknown outputs have been observed.
func (i *Info) UnknownCount() int {
	return i.unknown
}

// Fresh returns an empty Info.
func (i *Info) Fresh() data.OutputInfo[MultiLabel] {
	return NewInfo()
}
