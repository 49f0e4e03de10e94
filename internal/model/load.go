package model

import "strings"

// EquipmentSeparator joins alternative equipment types inside a single
// equipment_type value, e.g. "DRY VAN OR REEFER".
const EquipmentSeparator = " OR "

// Load is a shipment opportunity record with route, equipment, and rate.
//
// Rate is a float64 so it always serializes as a plain JSON number.
type Load struct {
	ReferenceNumber string  `json:"reference_number" db:"reference_number"`
	Origin          string  `json:"origin" db:"origin"`
	Destination     string  `json:"destination" db:"destination"`
	EquipmentType   string  `json:"equipment_type" db:"equipment_type"`
	Rate            float64 `json:"rate" db:"rate"`
	Commodity       string  `json:"commodity" db:"commodity"`
}

// EquipmentTypes splits EquipmentType into its alternatives.
func (l Load) EquipmentTypes() []string {
	parts := strings.Split(l.EquipmentType, EquipmentSeparator)
	types := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			types = append(types, part)
		}
	}
	return types
}

// AcceptsEquipment reports whether equipment is one of the load's allowed
// equipment types. Comparison is case-insensitive.
func (l Load) AcceptsEquipment(equipment string) bool {
	for _, candidate := range l.EquipmentTypes() {
		if strings.EqualFold(candidate, equipment) {
			return true
		}
	}
	return false
}

// NormalizeReference trims and uppercases a reference number so lookups are
// case-insensitive.
func NormalizeReference(reference string) string {
	return strings.ToUpper(strings.TrimSpace(reference))
}

// LoadQuery is a validated load search.
//
// When ReferenceNumbers is non-empty it is an exact reference lookup and the
// lane fields are ignored; otherwise Origin and Destination are set and
// Equipment is optional.
type LoadQuery struct {
	ReferenceNumbers []string
	Origin           string
	Destination      string
	Equipment        string
}

// ByReference reports whether the query is a reference-number lookup.
func (q LoadQuery) ByReference() bool {
	return len(q.ReferenceNumbers) > 0
}

// LoadSearchResult is the response body of the load search endpoint.
type LoadSearchResult struct {
	Count   int    `json:"count"`
	Results []Load `json:"results"`
	Message string `json:"message,omitempty"`
}

// MissingLaneParams lists the lane parameters a non-reference query lacks,
// in the order origin, destination.
func (q LoadQuery) MissingLaneParams() []string {
	var missing []string
	if strings.TrimSpace(q.Origin) == "" {
		missing = append(missing, "origin")
	}
	if strings.TrimSpace(q.Destination) == "" {
		missing = append(missing, "destination")
	}
	return missing
}
