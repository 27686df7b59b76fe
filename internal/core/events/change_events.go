package events

import (
	"time"

	"github.com/google/uuid"
)

// Tables that emit change notifications.
const (
	TableBudgetSettings = "budget_settings"
	TableFixedExpenses  = "fixed_expenses"
	TableShoppingItems  = "shopping_items"
	TableExpenses       = "expenses"
	TableTasks          = "tasks"
	TableEvents         = "events"
	TableJournalEntries = "journal_entries"
)

type ChangeOp string

const (
	OpInsert ChangeOp = "INSERT"
	OpUpdate ChangeOp = "UPDATE"
	OpDelete ChangeOp = "DELETE"
)

// ChangeEventType is the bus topic for row changes of one table.
func ChangeEventType(table string) string {
	return "change." + table
}

// RowChangedEvent signals that a row of a user-scoped table changed.
type RowChangedEvent struct {
	BaseEvent
	Table  string   `json:"table"`
	Op     ChangeOp `json:"op"`
	UserID int64    `json:"user_id"`
	RowID  int64    `json:"row_id"`
}

func NewRowChangedEvent(table string, op ChangeOp, userID, rowID int64) *RowChangedEvent {
	return &RowChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      ChangeEventType(table),
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"table":   table,
				"op":      string(op),
				"user_id": userID,
				"row_id":  rowID,
			},
		},
		Table:  table,
		Op:     op,
		UserID: userID,
		RowID:  rowID,
	}
}
