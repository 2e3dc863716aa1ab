package event

// RequiresItineraryGate reports whether userID must pick itinerary items
// before being counted as attending.
func RequiresItineraryGate(e *Event, userID string) bool {
	if e == nil || userID == "" {
		return false
	}
	return e.ItineraryAttendanceEnabled &&
		!e.IsHost(userID) &&
		len(e.Itinerary) > 0 &&
		!e.IsAttending(userID)
}

// ShouldPromptItineraryEdit reports whether an attending guest should be
// nudged to pick items because they have no selection yet. Unlike the gate
// this never blocks anything.
func ShouldPromptItineraryEdit(e *Event, userID string) bool {
	if e == nil || userID == "" {
		return false
	}
	if !e.ItineraryAttendanceEnabled || e.IsHost(userID) || !e.IsAttending(userID) {
		return false
	}
	entry := e.AttendanceFor(userID)
	return entry == nil || len(entry.ItemIDs) == 0
}

// GateStatus summarizes the gating rules for one user
type GateStatus struct {
	IsHost                     bool `json:"is_host"`
	IsAttending                bool `json:"is_attending"`
	RequiresItinerarySelection bool `json:"requires_itinerary_selection"`
	PromptItineraryEdit        bool `json:"prompt_itinerary_edit"`
}

// GateStatusFor evaluates the gating rules for userID
func GateStatusFor(e *Event, userID string) GateStatus {
	if e == nil {
		return GateStatus{}
	}
	return GateStatus{
		IsHost:                     e.IsHost(userID),
		IsAttending:                e.IsAttending(userID),
		RequiresItinerarySelection: RequiresItineraryGate(e, userID),
		PromptItineraryEdit:        ShouldPromptItineraryEdit(e, userID),
	}
}
