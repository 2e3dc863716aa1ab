package attendance

import (
	"github.com/fkhayef/eventsplit/internal/event"
	"github.com/fkhayef/eventsplit/internal/expense"
)

// SelectionRequest is an optional replacement selection. Omit
// itinerary_item_ids to keep the starting selection of the mode.
type SelectionRequest struct {
	ItemIDs *[]string `json:"itinerary_item_ids,omitempty"`
}

// CommitRequest is a selection with the user's acknowledgements. Each
// acknowledgement carries the total it was given against, as shown by the
// preview; it only counts while that total is still current.
type CommitRequest struct {
	ItemIDs                 *[]string `json:"itinerary_item_ids,omitempty"`
	AcknowledgeUpFront      bool      `json:"acknowledge_up_front"`
	UpFrontCents            *int64    `json:"up_front_cents,omitempty"`
	AcknowledgeSettledLater bool      `json:"acknowledge_settled_later"`
	SettledAfterCents       *int64    `json:"settled_after_cents,omitempty"`
}

// PreviewResponse represents what a selection costs the user
type PreviewResponse struct {
	EventID      string                   `json:"event_id"`
	Mode         string                   `json:"mode"`
	PendingJoin  bool                     `json:"pending_join"`
	Selection    []string                 `json:"itinerary_item_ids"`
	Lines        []*expense.LineResponse  `json:"lines"`
	Summary      *expense.SummaryResponse `json:"summary"`
	Requirements Requirements             `json:"requirements"`
	CanCommit    bool                     `json:"can_commit"`
}

// CommitResponse represents a successful commit
type CommitResponse struct {
	Outcome string               `json:"outcome"`
	Joined  bool                 `json:"joined"`
	Event   *event.EventResponse `json:"event,omitempty"`
}

// ToResponse converts a Preview for viewerID
func (p *Preview) ToResponse(viewerID string) *PreviewResponse {
	return &PreviewResponse{
		EventID:      p.EventID,
		Mode:         string(p.Mode),
		PendingJoin:  p.PendingJoin,
		Selection:    p.Selection,
		Lines:        expense.NewLineResponses(p.Lines, viewerID, p.HostID),
		Summary:      p.Summary.ToResponse(),
		Requirements: p.Requirements,
		CanCommit:    p.CanCommit,
	}
}

// ToResponse converts a successful CommitResult for viewerID
func (r CommitResult) ToResponse(viewerID string) *CommitResponse {
	resp := &CommitResponse{Outcome: string(r.Outcome), Joined: r.Joined}
	if r.Event != nil {
		resp.Event = r.Event.ToResponse(viewerID)
	}
	return resp
}
