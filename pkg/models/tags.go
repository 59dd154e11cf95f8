package models

import (
	"encoding/json"
	"strings"
)

// TagSet is an ordered set of lead labels. Insertion order is kept for
// display, blank labels are ignored and duplicates never accumulate.
type TagSet struct {
	values []string
}

// NewTagSet builds a set from labels in order
func NewTagSet(tags ...string) TagSet {
	var s TagSet
	for _, tag := range tags {
		s.Add(tag)
	}
	return s
}

// ParseTagSet decodes the storage form. Anything that is not a JSON array of
// strings yields an empty set.
func ParseTagSet(text string) TagSet {
	var raw []string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return TagSet{}
	}
	return NewTagSet(raw...)
}

// Add appends tag unless it is blank or already present
func (s *TagSet) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || s.Contains(tag) {
		return false
	}
	s.values = append(s.values, tag)
	return true
}

// Remove drops tag, reporting whether it was present
func (s *TagSet) Remove(tag string) bool {
	tag = strings.TrimSpace(tag)
	for i, v := range s.values {
		if v == tag {
			s.values = append(s.values[:i:i], s.values[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports exact membership
func (s TagSet) Contains(tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, v := range s.values {
		if v == tag {
			return true
		}
	}
	return false
}

// Values returns a copy of the labels in insertion order
func (s TagSet) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

func (s TagSet) Len() int {
	return len(s.values)
}

// Encode renders the storage form, a JSON array of strings
func (s TagSet) Encode() string {
	b, _ := json.Marshal(s.Values())
	return string(b)
}

func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *TagSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NewTagSet(raw...)
	return nil
}
