package collection

import (
	"fmt"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
)

const (
	msgListFailed   = "Error fetching events"
	msgAdded        = "Event added successfully"
	msgAddFailed    = "Error adding event: add failed"
	msgUpdated      = "Event updated successfully"
	msgUpdateFailed = "Error updating event: update failed"
	msgDeleted      = "Event deleted successfully"
	msgDeleteFailed = "Error deleting event: delete failed"
	msgNotFound     = "Event not found"
	msgEnterID      = "Please enter an event ID"
)

func msgMissingField(f domain.Field) string {
	return fmt.Sprintf("Please fill in the %s field", f)
}

func msgEditing(id string) string {
	return fmt.Sprintf("Editing event with ID: %s", id)
}
