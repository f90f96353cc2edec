package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ServerRoom is a room record as reported by the backend. Every field is
// optional; nil means the backend did not send it.
type ServerRoom struct {
	ID            *ID     `json:"id,omitempty"`
	RoomID        *ID     `json:"room_id,omitempty"`
	RoomNumber    *ID     `json:"room_number,omitempty"`
	Name          *string `json:"name,omitempty"`
	RoomName      *string `json:"room_name,omitempty"`
	Status        *string `json:"status,omitempty"`
	RequestCount  *Count  `json:"request_count,omitempty"`
	RequestsCount *Count  `json:"requests_count,omitempty"`
}

// ID is a record identifier. Backends send either strings or integers; both
// decode to the decimal string form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", data)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// Count is a request count. Backends send integers or numeric strings;
// anything else decodes to -1 and is treated as absent.
type Count int

// UnmarshalJSON never fails, so a malformed count does not discard the
// rest of the record.
func (c *Count) UnmarshalJSON(data []byte) error {
	*c = -1
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*c = Count(n)
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	if i, err := n.Int64(); err == nil {
		*c = Count(i)
	} else if f, err := n.Float64(); err == nil && f == math.Trunc(f) {
		*c = Count(f)
	}
	return nil
}

func (id *ID) value() (string, bool) {
	if id == nil {
		return "", false
	}
	return string(*id), true
}

func str(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

// name returns the display name, preferring name over room_name.
func (s ServerRoom) name() (string, bool) {
	if v, ok := str(s.Name); ok {
		return v, true
	}
	return str(s.RoomName)
}

// count returns the request count, preferring request_count over
// requests_count. Negative values are treated as absent.
func (s ServerRoom) count() (int, bool) {
	for _, p := range []*Count{s.RequestCount, s.RequestsCount} {
		if p != nil && *p >= 0 {
			return int(*p), true
		}
	}
	return 0, false
}

// Record is a convenience constructor for tests and fixtures.
func Record(id string) ServerRoom {
	v := ID(id)
	return ServerRoom{ID: &v}
}

// WithStatus returns a copy with status set.
func (s ServerRoom) WithStatus(status string) ServerRoom {
	s.Status = &status
	return s
}

// WithCount returns a copy with request_count set.
func (s ServerRoom) WithCount(n int) ServerRoom {
	c := Count(n)
	s.RequestCount = &c
	return s
}
