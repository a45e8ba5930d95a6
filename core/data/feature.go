package data

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

const hashedBucketPrefix = "hashed##"

// Feature is an immutable named value.
type Feature struct {
	Name  string
	Value float64
}

func (f Feature) String() string {
	return fmt.Sprintf("(%s, %g)", f.Name, f.Value)
}

// FeatureDomain tracks the feature space of a dataset: a dense id per name
// plus per-name occurrence counts.
//
// Hashed reports whether the domain has been through an irreversible
// hashing transform. Components that need to inject features under stable,
// addressable names (the classifier chain does) must refuse hashed domains.
type FeatureDomain interface {
	Observe(name string)
	ID(name string) (int, bool)
	Name(id int) (string, bool)
	Count(name string) int
	Size() int
	Names() []string
	Hashed() bool
}

// MutableFeatureMap is the standard FeatureDomain. Ids are assigned densely
// in first-seen order.
type MutableFeatureMap struct {
	ids    map[string]int
	counts map[string]int
	names  []string
}

// NewMutableFeatureMap creates an empty feature map.
func NewMutableFeatureMap() *MutableFeatureMap {
	return &MutableFeatureMap{
		ids:    make(map[string]int),
		counts: make(map[string]int),
	}
}

// Observe records one occurrence of name, assigning it the next dense id on
// first sight.
func (m *MutableFeatureMap) Observe(name string) {
	if _, ok := m.ids[name]; !ok {
		m.ids[name] = len(m.names)
		m.names = append(m.names, name)
	}
	m.counts[name]++
}

// ID returns the dense id for name.
func (m *MutableFeatureMap) ID(name string) (int, bool) {
	id, ok := m.ids[name]
	return id, ok
}

// Name returns the name holding the given dense id.
func (m *MutableFeatureMap) Name(id int) (string, bool) {
	if id < 0 || id >= len(m.names) {
		return "", false
	}
	return m.names[id], true
}

// Count returns how many times name has been observed.
func (m *MutableFeatureMap) Count(name string) int {
	return m.counts[name]
}

// Size returns the number of distinct feature names.
func (m *MutableFeatureMap) Size() int {
	return len(m.names)
}

// Names returns the feature names in dense id order. The returned slice is
// a copy.
func (m *MutableFeatureMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Hashed always reports false for a MutableFeatureMap.
func (m *MutableFeatureMap) Hashed() bool {
	return false
}

// HashedFeatureMap is a FeatureDomain whose ids come from hashing names
// into a fixed number of buckets. The mapping is irreversible: distinct
// names collide, and no name observed after construction can be given a
// fresh id.
type HashedFeatureMap struct {
	dim    int
	counts []int
}

// NewHashedFeatureMap creates a hashed domain with dim buckets.
func NewHashedFeatureMap(dim int) *HashedFeatureMap {
	return &HashedFeatureMap{dim: dim, counts: make([]int, dim)}
}

// HashBucket returns the bucket id a feature name hashes to.
func (m *HashedFeatureMap) HashBucket(name string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32() % uint32(m.dim))
}

// BucketName returns the synthetic name of a bucket id.
func (m *HashedFeatureMap) BucketName(id int) string {
	return fmt.Sprintf("%s%d", hashedBucketPrefix, id)
}

// bucket resolves a feature name to its bucket. A name that is already a
// synthetic bucket name resolves by identity so hashed datasets round-trip
// through the map without re-hashing.
func (m *HashedFeatureMap) bucket(name string) int {
	if rest, ok := strings.CutPrefix(name, hashedBucketPrefix); ok {
		if id, err := strconv.Atoi(rest); err == nil && id >= 0 && id < m.dim {
			return id
		}
	}
	return m.HashBucket(name)
}

// Observe records one occurrence in name's bucket.
func (m *HashedFeatureMap) Observe(name string) {
	m.counts[m.bucket(name)]++
}

// ID maps any name to its bucket id. Every name resolves.
func (m *HashedFeatureMap) ID(name string) (int, bool) {
	return m.bucket(name), true
}

// Name returns the synthetic bucket name for id.
func (m *HashedFeatureMap) Name(id int) (string, bool) {
	if id < 0 || id >= m.dim {
		return "", false
	}
	return m.BucketName(id), true
}

// Count returns the occurrence count of name's bucket.
func (m *HashedFeatureMap) Count(name string) int {
	return m.counts[m.bucket(name)]
}

// Size returns the number of buckets.
func (m *HashedFeatureMap) Size() int {
	return m.dim
}

// Names returns the synthetic bucket names.
func (m *HashedFeatureMap) Names() []string {
	out := make([]string, m.dim)
	for i := range out {
		out[i] = m.BucketName(i)
	}
	return out
}

// Hashed always reports true for a HashedFeatureMap.
func (m *HashedFeatureMap) Hashed() bool {
	return true
}

// sortFeatures orders features by name, summing the values of duplicates.
func sortFeatures(fs []Feature) []Feature {
	sort.Slice(fs, func(i, j int) bool { return fs[i].Name < fs[j].Name })
	out := fs[:0]
	for _, f := range fs {
		if n := len(out); n > 0 && out[n-1].Name == f.Name {
			out[n-1].Value += f.Value
			continue
		}
		out = append(out, f)
	}
	return out
}
