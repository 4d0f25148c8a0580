package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RecordID is a record identifier normalized to its string form. The
// store returns ids as JSON numbers but comparisons are always done on
// strings, so both encodings must land on the same value.
type RecordID string

func (r *RecordID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*r = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*r = RecordID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = RecordID(n.String())
	return nil
}

func (r RecordID) MarshalJSON() ([]byte, error) {
	// Numeric ids round-trip as numbers, anything else as a string.
	if _, err := strconv.ParseInt(string(r), 10, 64); err == nil {
		return []byte(r), nil
	}
	return json.Marshal(string(r))
}

func (r RecordID) String() string { return string(r) }

// LinkRef is a link-field value. The store returns either the bare id
// or an expanded object carrying an Id field (sometimes a one-element
// array of such objects); all forms normalize to the linked record id.
type LinkRef struct {
	ID RecordID
}

func (l *LinkRef) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		l.ID = ""
		return nil
	}
	switch s[0] {
	case '{':
		var obj struct {
			ID RecordID `json:"Id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		l.ID = obj.ID
	case '[':
		var list []LinkRef
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			l.ID = list[0].ID
		} else {
			l.ID = ""
		}
	default:
		var id RecordID
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		l.ID = id
	}
	return nil
}

func (l LinkRef) MarshalJSON() ([]byte, error) {
	if l.ID == "" {
		return []byte("null"), nil
	}
	return l.ID.MarshalJSON()
}

// IsZero reports whether no record is linked.
func (l LinkRef) IsZero() bool { return l.ID == "" }

// Is reports whether the link points at the given entity id, comparing
// string forms.
func (l LinkRef) Is(entityID string) bool {
	return l.ID != "" && string(l.ID) == entityID
}

// FlexString is a loosely-typed store field. Columns edited through
// spreadsheet-style UIs arrive as strings, numbers or arrays of option
// tags depending on the column's history; everything normalizes to a
// string (arrays comma-joined). Use a pointer when absent and present
// must be told apart.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	switch s[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
	case '[':
		var parts []FlexString
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		joined := make([]string, len(parts))
		for i, p := range parts {
			joined[i] = string(p)
		}
		*f = FlexString(strings.Join(joined, ","))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
	}
	return nil
}

func (f FlexString) String() string { return string(f) }

// Blank reports whether the value is empty after trimming. A literal
// "0" is not blank.
func (f FlexString) Blank() bool { return strings.TrimSpace(string(f)) == "" }

// FlexFloat is a numeric store field that may arrive as a number, a
// numeric string, or null; unparseable values read as zero, matching
// the original views' parseFloat(...) || 0 treatment.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(parsed)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt behaves like FlexFloat for integer columns.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var v FlexFloat
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = FlexInt(v)
	return nil
}
