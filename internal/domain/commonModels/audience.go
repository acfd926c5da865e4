package commonModels

import "fmt"

// Audience tags both questions (parent|coach) and Q&A pairs (parent|coach|both).
type Audience string

const (
	AudienceParent Audience = "parent"
	AudienceCoach  Audience = "coach"
	AudienceBoth   Audience = "both"
)

// AudienceSet is the resolved set of consumer classes a tag stands for.
type AudienceSet uint8

const (
	SetParent AudienceSet = 1 << iota
	SetCoach

	SetNone AudienceSet = 0
	SetBoth             = SetParent | SetCoach
)

// Resolve maps a tag to its audience set. Unknown tags resolve to the empty set and are never visible.
func (a Audience) Resolve() AudienceSet {
	switch a {
	case AudienceParent:
		return SetParent
	case AudienceCoach:
		return SetCoach
	case AudienceBoth:
		return SetBoth
	default:
		return SetNone
	}
}

// IsRequester is true for the two audiences a question may be asked as.
func (a Audience) IsRequester() bool {
	return a == AudienceParent || a == AudienceCoach
}

func (a Audience) IsValidTag() bool {
	return a.Resolve() != SetNone
}

// VisibleTo reports whether content tagged a may be shown to requester.
// Content is visible when the requester's set is contained in the content's set.
func (a Audience) VisibleTo(requester Audience) bool {
	r := requester.Resolve()
	return r != SetNone && a.Resolve()&r == r
}

// QATags lists the pair tags visible to a requester, in search order.
func (a Audience) QATags() []Audience {
	switch a {
	case AudienceParent:
		return []Audience{AudienceParent, AudienceBoth}
	case AudienceCoach:
		return []Audience{AudienceCoach, AudienceBoth}
	default:
		return nil
	}
}

// Partition is the storage partition for documents and their chunks.
type Partition string

const (
	PartitionParent Partition = "parent"
	PartitionCoach  Partition = "coach"
	PartitionShared Partition = "shared"
)

func (p Partition) IsValid() bool {
	return p == PartitionParent || p == PartitionCoach || p == PartitionShared
}

// Audience returns the audience tag whose visibility the partition carries.
func (p Partition) Audience() Audience {
	switch p {
	case PartitionParent:
		return AudienceParent
	case PartitionCoach:
		return AudienceCoach
	case PartitionShared:
		return AudienceBoth
	default:
		return ""
	}
}

// OwnPartition is the audience-specific partition for a requester.
func (a Audience) OwnPartition() Partition {
	switch a {
	case AudienceParent:
		return PartitionParent
	case AudienceCoach:
		return PartitionCoach
	default:
		return ""
	}
}

// ParseRequester validates a request audience. Empty defaults to parent.
func ParseRequester(raw string) (Audience, error) {
	if raw == "" {
		return AudienceParent, nil
	}
	a := Audience(raw)
	if !a.IsRequester() {
		return "", fmt.Errorf("audience must be parent or coach, got %q", raw)
	}
	return a, nil
}

func ParsePartition(raw string) (Partition, error) {
	p := Partition(raw)
	if !p.IsValid() {
		return "", fmt.Errorf("partition must be parent, coach or shared, got %q", raw)
	}
	return p, nil
}
