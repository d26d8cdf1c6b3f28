package site

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// IntField is an integer that unmarshals from either a JSON number or a
// string. Values that parse to neither are recorded as invalid rather than
// failing the whole batch, because the drag-and-drop client historically sent
// both forms.
type IntField struct {
	Value int64
	Valid bool
}

// Int returns an IntField holding n. Convenience for tests and callers that
// build batches programmatically.
func Int(n int64) IntField {
	return IntField{Value: n, Valid: true}
}

func (f *IntField) UnmarshalJSON(b []byte) error {
	// Unmarshaling null into a number is a silent no-op, so catch it here.
	if string(bytes.TrimSpace(b)) == "null" {
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		f.Value, f.Valid = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			f.Value, f.Valid = n, true
		}
		return nil
	}
	var fl float64
	if err := json.Unmarshal(b, &fl); err == nil {
		f.Value, f.Valid = int64(fl), true
	}
	// Anything else (null, object, array) stays invalid and the item is
	// skipped downstream.
	return nil
}

// ReorderItem is one entry of a reorder batch.
type ReorderItem struct {
	ID    IntField `json:"id"`
	Order IntField `json:"order"`
}

// Reorder applies a batch of display-order updates from the drag-and-drop
// admin UI. Items are processed in input order inside one transaction:
//
//   - an item whose id or order did not parse as an integer is skipped;
//   - an item naming an unknown post aborts the batch with a NotFoundError,
//     and the updates staged before it are committed, not rolled back. This
//     asymmetry is long-standing endpoint behavior that clients observe, so
//     it is preserved deliberately;
//   - a clean pass commits everything at once and reports how many updates
//     were applied;
//   - any storage failure rolls the whole batch back.
func (p *Posts) Reorder(items []ReorderItem) (int, error) {
	tx, err := p.store.db.Begin()
	if err != nil {
		return 0, &ServerError{Op: "begin reorder", Err: err}
	}
	applied := 0
	for _, item := range items {
		if !item.ID.Valid || !item.Order.Valid {
			continue
		}
		res, err := tx.Exec(`UPDATE posts SET display_order = ? WHERE id = ?`,
			item.Order.Value, item.ID.Value)
		if err != nil {
			tx.Rollback()
			return 0, &ServerError{Op: "stage reorder", Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return 0, &ServerError{Op: "stage reorder", Err: err}
		}
		if n == 0 {
			// Unknown id: abort, but keep what was staged so far.
			if err := tx.Commit(); err != nil {
				return 0, &ServerError{Op: "commit partial reorder", Err: err}
			}
			return applied, &NotFoundError{Resource: "post", ID: item.ID.Value}
		}
		applied++
	}
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return 0, &ServerError{Op: "commit reorder", Err: err}
	}
	return applied, nil
}
