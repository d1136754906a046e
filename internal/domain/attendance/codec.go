package attendance

import "strings"

// The record store has no leave column. Leave kinds travel inside the
// discount_observation text as a bracketed prefix; these helpers are the
// only code that reads or writes that prefix.
const (
	prefixMedicalCertificate = "[AT]"
	prefixJustifiedAbsence   = "[FJ]"
	prefixVacation           = "[FE]"
)

var prefixes = []struct {
	token string
	kind  LeaveKind
}{
	{prefixMedicalCertificate, LeaveMedicalCertificate},
	{prefixJustifiedAbsence, LeaveJustifiedAbsence},
	{prefixVacation, LeaveVacation},
}

func prefixOf(kind LeaveKind) string {
	for _, p := range prefixes {
		if p.kind == kind {
			return p.token
		}
	}
	return ""
}

// DecodeObservation splits a stored observation into its leave kind and the
// human-editable note.
func DecodeObservation(observation string) (LeaveKind, string) {
	for _, p := range prefixes {
		if strings.HasPrefix(observation, p.token) {
			return p.kind, strings.TrimSpace(observation[len(p.token):])
		}
	}
	return LeaveNone, strings.TrimSpace(observation)
}

// DecodeVirtualStatus derives the virtual status from the persisted pair.
// An empty observation on an absent day is a plain absence.
func DecodeVirtualStatus(status StoredStatus, observation string) VirtualStatus {
	if status != StatusAbsent {
		return VirtualStatus(status)
	}
	kind, _ := DecodeObservation(observation)
	return kind.VirtualStatus()
}

// HasReservedPrefix reports whether text would be read back as a leave
// marker.
func HasReservedPrefix(text string) bool {
	text = strings.TrimSpace(text)
	for _, p := range prefixes {
		if strings.HasPrefix(text, p.token) {
			return true
		}
	}
	return false
}

// EncodeObservation builds the stored observation for v and the free text.
// Notes that start with a reserved token are rejected rather than stored,
// because decoding them would invent a leave kind.
func EncodeObservation(v VirtualStatus, freeText string) (string, error) {
	if !v.Valid() {
		return "", ErrInvalidVirtualStatus
	}
	text := strings.TrimSpace(freeText)
	if HasReservedPrefix(text) {
		return "", ErrReservedObservationPrefix
	}

	prefix := prefixOf(v.LeaveKind())
	switch {
	case prefix == "":
		return text, nil
	case text == "":
		return prefix, nil
	default:
		return prefix + " " + text, nil
	}
}

// EncodeLeave is EncodeObservation keyed by leave kind.
func EncodeLeave(kind LeaveKind, note string) (string, error) {
	return EncodeObservation(kind.VirtualStatus(), note)
}

// StatusToShorthand renders the calendar/print cell for v. Anything that is
// not a known status, including "no record", renders as "-".
func StatusToShorthand(v VirtualStatus) string {
	switch v {
	case VirtualPresent:
		return "P"
	case VirtualPartial:
		return "H"
	case VirtualAbsent:
		return "F"
	case VirtualMedicalCertificate:
		return "AT"
	case VirtualJustified:
		return "FJ"
	case VirtualVacation:
		return "FE"
	}
	return "-"
}
