package expense

// DeriveParticipants projects a preset onto the event's people list.
// CUSTOM returns nil: the caller keeps its explicit participant list.
// A non-empty viewerID is included wherever the preset covers them.
func DeriveParticipants(preset AppliesTo, allPeopleIDs []string, hostID, viewerID string) []string {
	var ids []string

	switch preset {
	case AppliesToEveryone:
		ids = appendUnique(ids, allPeopleIDs...)
		if viewerID != "" {
			ids = appendUnique(ids, viewerID)
		}
	case AppliesToHostOnly:
		if hostID != "" {
			ids = []string{hostID}
		} else {
			ids = []string{}
		}
	case AppliesToGuestsOnly:
		ids = []string{}
		for _, id := range allPeopleIDs {
			if id != hostID {
				ids = appendUnique(ids, id)
			}
		}
		if viewerID != "" && viewerID != hostID {
			ids = appendUnique(ids, viewerID)
		}
	default:
		return nil
	}

	return ids
}

// appendUnique appends ids that are not already present, preserving order
func appendUnique(dst []string, ids ...string) []string {
	for _, id := range ids {
		if id == "" || contains(dst, id) {
			continue
		}
		dst = append(dst, id)
	}
	return dst
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
