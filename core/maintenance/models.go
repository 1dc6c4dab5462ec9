package maintenance

import (
	"net/url"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var (
	Statuses   = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

	Headers = []string{"ID", "TITLE", "ROOM", "CATEGORY", "PRIORITY", "STATUS", "ASSIGNED TO", "REPORTED"}
)

type Request struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Room        core.Ref    `json:"room"`
	ReportedBy  core.Ref    `json:"reportedBy"`
	Category    string      `json:"category"`
	Priority    string      `json:"priority"`
	Status      string      `json:"status"`
	AssignedTo  null.String `json:"assignedTo"`
	Notes       string      `json:"notes"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompletedAt null.Time   `json:"completedAt"`
}

// IsOpen reports whether someone still has to act on the request.
func (r Request) IsOpen() bool {
	return r.Status == StatusPending || r.Status == StatusInProgress
}

func (r Request) Row() []string {
	return []string{
		r.ID, r.Title, r.Room.String(), r.Category, r.Priority, r.Status,
		r.AssignedTo.String, r.CreatedAt.Format(core.DateLayout),
	}
}

type statusUpdate struct {
	Status string `json:"status" validate:"maintenancestatus"`
	Note   string `json:"notes,omitempty"`
}

type assignment struct {
	AssignedTo string `json:"assignedTo" validate:"notblank"`
}

type QueryFilter struct {
	core.ListParams
	Status   string
	Priority string
	RoomID   string
}

func (f QueryFilter) Values() url.Values {
	v := f.ListParams.Values()
	core.SetIf(v, "status", f.Status)
	core.SetIf(v, "priority", f.Priority)
	core.SetIf(v, "room", f.RoomID)
	return v
}
