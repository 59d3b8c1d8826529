package skill

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Domain string

const (
	DomainCombat                Domain = "Combat"
	DomainStrategy              Domain = "Strategy"
	DomainIntelligence          Domain = "Intelligence"
	DomainInformationTechnology Domain = "InformationTechnology"
	DomainHumanResources        Domain = "HumanResources"
	DomainFinance               Domain = "Finance"
	DomainCommunications        Domain = "Communications"
	DomainAdministration        Domain = "Administration"
	DomainEngineering           Domain = "Engineering"
	DomainMedical               Domain = "Medical"
	DomainManagement            Domain = "Management"
	DomainLeadership            Domain = "Leadership"
	DomainJointOperations       Domain = "JointOperations"
)

var ErrInvalidDomain = errors.New("invalid skill domain")

var domains = []Domain{
	DomainCombat,
	DomainStrategy,
	DomainIntelligence,
	DomainInformationTechnology,
	DomainHumanResources,
	DomainFinance,
	DomainCommunications,
	DomainAdministration,
	DomainEngineering,
	DomainMedical,
	DomainManagement,
	DomainLeadership,
	DomainJointOperations,
}

func Domains() []Domain {
	out := make([]Domain, len(domains))
	copy(out, domains)
	return out
}

func ParseDomain(s string) (Domain, error) {
	s = strings.TrimSpace(s)
	for _, d := range domains {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", ErrInvalidDomain
}

type Skill struct {
	ID            uuid.UUID
	NameEn        string
	NameFr        string
	DescriptionEn string
	DescriptionFr string
	Domain        Domain
	CreatedAt     time.Time
	UpdatedAt     time.Time
	RetiredAt     *time.Time
}

// Names is the denormalized slice of a Skill copied onto capabilities and
// requirements at creation time.
type Names struct {
	NameEn string
	NameFr string
	Domain Domain
}

func (s Skill) Names() Names {
	return Names{NameEn: s.NameEn, NameFr: s.NameFr, Domain: s.Domain}
}
