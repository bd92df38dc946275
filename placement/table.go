package placement

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/katalvlaran/warepath/grid"
)

// Sentinel errors for frequency tables.
var (
	// ErrEmptyLabel indicates a product with an empty label.
	ErrEmptyLabel = errors.New("placement: product label is empty")
	// ErrNegativeFrequency indicates a frequency below zero.
	ErrNegativeFrequency = errors.New("placement: frequency must be non-negative")
	// ErrReservedLabel indicates a label that collides with a layout marker.
	ErrReservedLabel = errors.New("placement: label is a reserved layout marker")
)

// Entry is one product and its demand frequency.
type Entry struct {
	Label     string
	Frequency int
}

// FrequencyTable maps product labels to frequencies and remembers the order
// in which labels first appeared. The zero value is an empty table.
type FrequencyTable struct {
	entries []Entry
	index   map[string]int
}

// NewFrequencyTable builds a table from entries in the given order.
func NewFrequencyTable(entries ...Entry) (FrequencyTable, error) {
	var t FrequencyTable
	for _, e := range entries {
		if err := t.Add(e.Label, e.Frequency); err != nil {
			return FrequencyTable{}, err
		}
	}
	return t, nil
}

// Add inserts label or, if it already exists, updates its frequency while
// keeping its original position.
func (t *FrequencyTable) Add(label string, frequency int) error {
	switch {
	case label == "":
		return ErrEmptyLabel
	case frequency < 0:
		return fmt.Errorf("%w: %q=%d", ErrNegativeFrequency, label, frequency)
	case grid.IsMarker(label):
		return fmt.Errorf("%w: %q", ErrReservedLabel, label)
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[label]; ok {
		t.entries[i].Frequency = frequency
		return nil
	}
	t.index[label] = len(t.entries)
	t.entries = append(t.entries, Entry{Label: label, Frequency: frequency})

	return nil
}

// Len returns the number of products.
func (t FrequencyTable) Len() int { return len(t.entries) }

// Frequency returns the frequency of label.
func (t FrequencyTable) Frequency(label string) (int, bool) {
	i, ok := t.index[label]
	if !ok {
		return 0, false
	}
	return t.entries[i].Frequency, true
}

// Entries returns a copy of the entries in first-appearance order.
func (t FrequencyTable) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// MarshalJSON encodes the table as a JSON object in first-appearance order.
func (t FrequencyTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", e.Frequency)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order so that the
// frequency tie-break follows the order the client wrote.
func (t *FrequencyTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("placement: frequency table: %w", err)
	}
	if tok == nil {
		*t = FrequencyTable{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("placement: frequency table must be a JSON object")
	}

	var out FrequencyTable
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("placement: frequency table: %w", err)
		}
		label, _ := keyTok.(string)

		var freq int
		if err := dec.Decode(&freq); err != nil {
			return fmt.Errorf("placement: frequency for %q: %w", label, err)
		}
		if err := out.Add(label, freq); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("placement: frequency table: %w", err)
	}
	*t = out

	return nil
}
