package models

// CombinationKey builds the extras key for a journey pair. Extras selected
// for one outbound/return combination never leak into another.
func CombinationKey(outboundID, returnID string) string {
	if outboundID == "" {
		return ""
	}
	if returnID == "" {
		return outboundID
	}
	return outboundID + "|" + returnID
}

// ActiveCombinationKey returns the extras key for the current selection
func (s *TripSelection) ActiveCombinationKey() string {
	if s.TripType == TripRoundTrip {
		return CombinationKey(s.OutboundID, s.ReturnID)
	}
	return CombinationKey(s.OutboundID, "")
}

// SelectedExtras returns the extra ids toggled on for the active journey
// combination, in no particular order
func (s *TripSelection) SelectedExtras() []string {
	key := s.ActiveCombinationKey()
	if key == "" {
		return nil
	}
	var ids []string
	for id, on := range s.Extras[key] {
		if on {
			ids = append(ids, id)
		}
	}
	return ids
}
