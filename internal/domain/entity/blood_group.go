package entity

import (
	"errors"
	"strings"
)

// BloodGroup is one of the eight ABO/Rh groups, in its canonical spelling.
type BloodGroup string

const (
	APositive  BloodGroup = "A+"
	ANegative  BloodGroup = "A-"
	BPositive  BloodGroup = "B+"
	BNegative  BloodGroup = "B-"
	ABPositive BloodGroup = "AB+"
	ABNegative BloodGroup = "AB-"
	OPositive  BloodGroup = "O+"
	ONegative  BloodGroup = "O-"
)

var ErrInvalidBloodGroup = errors.New("invalid blood group")

var canonicalGroups = [...]BloodGroup{
	APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative,
}

// BloodGroups returns the eight groups in canonical order.
func BloodGroups() []BloodGroup {
	out := make([]BloodGroup, len(canonicalGroups))
	copy(out, canonicalGroups[:])
	return out
}

// ParseBloodGroup normalises case, surrounding space and the unicode minus sign.
func ParseBloodGroup(s string) (BloodGroup, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "−", "-")
	for _, g := range canonicalGroups {
		if string(g) == s {
			return g, nil
		}
	}
	return "", ErrInvalidBloodGroup
}

// Valid is true only for the exact canonical spelling.
func (g BloodGroup) Valid() bool {
	for _, c := range canonicalGroups {
		if g == c {
			return true
		}
	}
	return false
}

func (g BloodGroup) String() string { return string(g) }

func (g BloodGroup) abo() string { return strings.TrimRight(string(g), "+-") }

func (g BloodGroup) rhPositive() bool { return strings.HasSuffix(string(g), "+") }

// CanDonateTo reports whether red cells of group g can be given to recipient.
// Both groups must be valid.
func (g BloodGroup) CanDonateTo(recipient BloodGroup) bool {
	if g.rhPositive() && !recipient.rhPositive() {
		return false
	}
	switch g.abo() {
	case "O":
		return true
	case "A":
		return recipient.abo() == "A" || recipient.abo() == "AB"
	case "B":
		return recipient.abo() == "B" || recipient.abo() == "AB"
	case "AB":
		return recipient.abo() == "AB"
	}
	return false
}

// CompatibleDonorGroups returns, in canonical order, every donor group whose
// blood can be given to a patient of the requested group.
func CompatibleDonorGroups(requested BloodGroup) ([]BloodGroup, error) {
	if !requested.Valid() {
		return nil, ErrInvalidBloodGroup
	}
	out := make([]BloodGroup, 0, len(canonicalGroups))
	for _, donor := range canonicalGroups {
		if donor.CanDonateTo(requested) {
			out = append(out, donor)
		}
	}
	return out, nil
}

// GroupStrings converts groups to their text form for query binding.
func GroupStrings(groups []BloodGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	return out
}
