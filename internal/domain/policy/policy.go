package policy

import "strings"

type Type string

const (
	TypeShort Type = "short"
	TypeLong  Type = "long"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeShort, TypeLong:
		return true
	default:
		return false
	}
}

// CancellationPolicy is the listing's policy as captured in the stay snapshot.
// GroupName is free text such as "Strict Short Term"; the refund tier is
// inferred from it (see Classify) rather than from a typed field.
type CancellationPolicy struct {
	ID            string
	Type          Type
	GroupName     string
	BeforeCheckIn string
	AfterCheckIn  string
}

func (p *CancellationPolicy) normalizedGroupName() string {
	return strings.ToLower(strings.TrimSpace(p.GroupName))
}
