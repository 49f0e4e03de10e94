package model

// CarrierAddress is the carrier's physical address as reported by FMCSA.
type CarrierAddress struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

// CarrierVerification is the normalized result of an MC number lookup.
//
// The identity fields are pointers so they are present in the JSON body only
// when the registry returned a carrier record.
type CarrierVerification struct {
	Valid       bool            `json:"valid"`
	MCNumber    string          `json:"mc_number"`
	CarrierName *string         `json:"carrier_name,omitempty"`
	DOTNumber   *string         `json:"dot_number,omitempty"`
	Address     *CarrierAddress `json:"address,omitempty"`
}

// MCNumberLength is the number of digits in a valid MC number.
const MCNumberLength = 6

// IsValidMCNumber reports whether mc is exactly six ASCII digits.
func IsValidMCNumber(mc string) bool {
	if len(mc) != MCNumberLength {
		return false
	}
	for i := 0; i < len(mc); i++ {
		if mc[i] < '0' || mc[i] > '9' {
			return false
		}
	}
	return true
}
