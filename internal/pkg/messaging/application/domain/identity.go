package messaging

import (
	"fmt"
	"sort"
	"strings"
)

// idSeparator joins the components of a canonical conversation id. User and
// job ids come from the document store and never contain it; ValidateID
// enforces that at the boundary.
const idSeparator = "|"

// directMarker prefixes conversations that carry no job context.
const directMarker = "direct"

// CanonicalConversationID derives the deterministic conversation id for a set
// of participants and an optional job context. The same unordered participant
// set (plus the same job id, or none) always yields the same id; different
// job contexts never collide with each other or with the direct form.
func CanonicalConversationID(participantIDs []string, jobID *string) (string, error) {
	if len(participantIDs) < 2 {
		return "", ErrTooFewMembers
	}

	seen := make(map[string]struct{}, len(participantIDs))
	members := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		if err := ValidateID(id); err != nil {
			return "", err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	if len(members) < 2 {
		return "", ErrTooFewMembers
	}
	sort.Strings(members)

	prefix := directMarker
	if jobID != nil && *jobID != "" {
		if err := ValidateID(*jobID); err != nil {
			return "", err
		}
		prefix = *jobID
	}

	return prefix + idSeparator + strings.Join(members, idSeparator), nil
}

// ParseCanonicalID decomposes a canonical conversation id back into its
// participant set and optional job context. Returns ok=false for ids that are
// not in canonical form (for example legacy message ids).
func ParseCanonicalID(id string) (participantIDs []string, jobID *string, ok bool) {
	parts := strings.Split(id, idSeparator)
	if len(parts) < 3 {
		return nil, nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, nil, false
		}
	}
	if parts[0] != directMarker {
		job := parts[0]
		jobID = &job
	}
	return parts[1:], jobID, true
}

// ValidateID rejects ids that are empty, collide with the direct marker, or
// contain the separator (which would break canonical-id uniqueness).
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidParticipants)
	}
	if id == directMarker {
		return fmt.Errorf("%w: %q is a reserved id", ErrInvalidParticipants, id)
	}
	if strings.Contains(id, idSeparator) {
		return fmt.Errorf("%w: id %q contains reserved separator %q", ErrInvalidParticipants, id, idSeparator)
	}
	return nil
}
