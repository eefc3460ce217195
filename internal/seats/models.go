package seats

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// OccupancyMap maps a seat id ("A1") to the id of the user holding it.
// A key being present means the seat is held, paid or not.
type OccupancyMap map[string]string

// Value implements driver.Valuer so the whole map is stored as one JSONB document
func (m OccupancyMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (m *OccupancyMap) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = OccupancyMap{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("seats: cannot scan %T into OccupancyMap", value)
	}

	out := OccupancyMap{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*m = out
	return nil
}

// GormDataType tells gorm which column type to migrate
func (OccupancyMap) GormDataType() string {
	return "jsonb"
}

// IsHeld reports whether seatID has an entry
func (m OccupancyMap) IsHeld(seatID string) bool {
	_, ok := m[seatID]
	return ok
}

// Hold marks every seat as held by userID. Callers check availability first.
func (m OccupancyMap) Hold(seatIDs []string, userID string) {
	for _, id := range seatIDs {
		m[id] = userID
	}
}

// Release removes the seats still held by userID and returns the ones removed.
// A seat now held by someone else is left alone.
func (m OccupancyMap) Release(seatIDs []string, userID string) []string {
	released := make([]string, 0, len(seatIDs))
	for _, id := range seatIDs {
		if holder, ok := m[id]; ok && holder == userID {
			delete(m, id)
			released = append(released, id)
		}
	}
	return released
}

// Keys returns the held seat ids in row/number order
func (m OccupancyMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessSeat(keys[i], keys[j]) })
	return keys
}

// Clone returns an independent copy
func (m OccupancyMap) Clone() OccupancyMap {
	out := make(OccupancyMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AllFree reports whether none of requested is present in occupied.
func AllFree(occupied OccupancyMap, requested []string) bool {
	for _, id := range requested {
		if occupied.IsHeld(id) {
			return false
		}
	}
	return true
}

// Conflicts returns the requested seats that are already held
func Conflicts(occupied OccupancyMap, requested []string) []string {
	var taken []string
	for _, id := range requested {
		if occupied.IsHeld(id) {
			taken = append(taken, id)
		}
	}
	return taken
}

var ErrInvalidSeatID = errors.New("invalid seat id")

// Normalize trims, upper-cases and de-duplicates seat ids, keeping the
// caller's order. Blank ids are rejected.
func Normalize(seatIDs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(seatIDs))
	out := make([]string, 0, len(seatIDs))
	for _, raw := range seatIDs {
		id := strings.ToUpper(strings.TrimSpace(raw))
		if id == "" {
			return nil, ErrInvalidSeatID
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// lessSeat orders "A2" before "A10" and rows alphabetically
func lessSeat(a, b string) bool {
	ra, na := splitSeat(a)
	rb, nb := splitSeat(b)
	if ra != rb {
		return ra < rb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitSeat(id string) (string, int) {
	i := 0
	for i < len(id) && (id[i] < '0' || id[i] > '9') {
		i++
	}
	n := 0
	for _, c := range id[i:] {
		if c < '0' || c > '9' {
			return id[:i], n
		}
		n = n*10 + int(c-'0')
	}
	return id[:i], n
}
