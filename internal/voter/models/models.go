package models

import "strings"

// Gender of a registered voter. Unknown or missing values read as Other.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// ParseGender maps a stored value onto a Gender, defaulting to GenderOther.
func ParseGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return GenderOther
	}
}

// Voter is one row of the voter roll. The roll is read-only.
type Voter struct {
	ID                string `json:"id"`
	SerialNumber      int    `json:"serialNumber"`
	VoterID           string `json:"voterId"`
	Name              string `json:"name"`
	FatherHusbandName string `json:"fatherHusbandName"`
	HouseNumber       string `json:"houseNumber"`
	Age               int    `json:"age"`
	Gender            Gender `json:"gender"`
}
