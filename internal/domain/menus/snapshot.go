package menus

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is a saved copy of a menu's rendered design. The list is append
// only; restore copies a snapshot's markup back onto the menu without
// touching the list itself.
type Snapshot struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	DesignHTML string    `json:"design_html"`
	CreatedAt  time.Time `json:"created_at"`
}

// SnapshotList is stored as a single jsonb column on the menu row. Keeping it
// typed here means business logic never touches raw JSON.
type SnapshotList []Snapshot

func (l SnapshotList) Value() (driver.Value, error) {
	if l == nil {
		l = SnapshotList{}
	}
	return json.Marshal(l)
}

func (l *SnapshotList) Scan(src interface{}) error {
	if src == nil {
		*l = SnapshotList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported snapshot list source: %T", src)
	}
	if len(data) == 0 {
		*l = SnapshotList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// ByID returns the snapshot with the given id, if present.
func (l SnapshotList) ByID(id string) (Snapshot, bool) {
	for _, s := range l {
		if s.ID == id {
			return s, true
		}
	}
	return Snapshot{}, false
}
