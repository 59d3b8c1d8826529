package seeder

import (
	"strings"
	"time"

	"capability-sync/internal/domain/person"
	"capability-sync/internal/domain/role"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
)

// namespace derives stable ids so the memory store and Postgres seed the
// same rows.
var namespace = uuid.MustParse("6f1d4d2e-5b0c-4a49-9f59-2c1e1b7f3a10")

type catalogEntry struct {
	domain skill.Domain
	names  string
}

var catalog = []catalogEntry{
	{skill.DomainCombat, "Marksmanship; Close Quarters Battle; Fire Support; Land Navigation; Field Craft"},
	{skill.DomainStrategy, "Campaign Planning; Operational Design; Wargaming; Force Development"},
	{skill.DomainIntelligence, "All-Source Analysis; Signals Intelligence; Geospatial Intelligence; Targeting"},
	{skill.DomainInformationTechnology, "Cloud Administration; Cloud Architecture; Programming - Go; Database Administration; Networking; Back-end Development"},
	{skill.DomainHumanResources, "Staffing; Classification; Recruiting; Pay and Compensation"},
	{skill.DomainFinance, "Budgeting; Financial Analysis; Procurement; Audit"},
	{skill.DomainCommunications, "Public Affairs; Technical Writing; Translation; Media Relations"},
	{skill.DomainAdministration, "Records Management; Logistics; Facilities Management"},
	{skill.DomainEngineering, "Combat Engineering; Electrical Engineering; Systems Engineering"},
	{skill.DomainMedical, "Field Medicine; Triage; Occupational Health"},
	{skill.DomainManagement, "Project Management; Risk Management; Change Management"},
	{skill.DomainLeadership, "Team Leadership; Mentoring; Decision Making"},
	{skill.DomainJointOperations, "Joint Planning; Coalition Liaison; Civil-Military Cooperation"},
}

// DefaultSkills is the bilingual development catalog. French names carry an
// _FR suffix until translations are loaded.
func DefaultSkills() []skill.Skill {
	now := time.Now().UTC()
	out := make([]skill.Skill, 0, 64)
	for _, entry := range catalog {
		for _, raw := range strings.Split(entry.names, ";") {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			out = append(out, skill.Skill{
				ID:        uuid.NewSHA1(namespace, []byte("skill:"+name)),
				NameEn:    name,
				NameFr:    name + "_FR",
				Domain:    entry.domain,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
	}
	return out
}

var devPeople = [][2]string{
	{"Ada", "Lovelace"},
	{"Grace", "Hopper"},
	{"Alan", "Turing"},
	{"Katherine", "Johnson"},
	{"Edsger", "Dijkstra"},
	{"Barbara", "Liskov"},
}

var devOrganization = uuid.NewSHA1(namespace, []byte("organization:dev"))

func DevPersons() []person.Person {
	now := time.Now().UTC()
	out := make([]person.Person, 0, len(devPeople))
	for _, n := range devPeople {
		out = append(out, person.Person{
			ID:             uuid.NewSHA1(namespace, []byte("person:"+n[0]+" "+n[1])),
			GivenName:      n[0],
			FamilyName:     n[1],
			OrganizationID: devOrganization,
			CreatedAt:      now,
		})
	}
	return out
}

// DevRoles returns one vacant, one occupied and one inactive role per team.
func DevRoles() []role.Role {
	now := time.Now().UTC()
	people := DevPersons()
	titles := []string{"Platform Engineer", "Intelligence Analyst", "Operations Planner"}

	out := make([]role.Role, 0, len(titles)*3)
	for i, title := range titles {
		team := uuid.NewSHA1(namespace, []byte("team:"+title))
		occupant := people[i%len(people)].ID
		for j, variant := range []struct {
			suffix   string
			active   bool
			occupied bool
		}{
			{"", true, false},
			{" (occupied)", true, true},
			{" (inactive)", false, false},
		} {
			r := role.Role{
				ID:        uuid.NewSHA1(namespace, []byte("role:"+title+variant.suffix)),
				TeamID:    team,
				TitleEn:   title + variant.suffix,
				TitleFr:   title + variant.suffix + "_FR",
				Active:    variant.active,
				CreatedAt: now.Add(time.Duration(j) * time.Millisecond),
				UpdatedAt: now,
			}
			if variant.occupied {
				id := occupant
				r.PersonID = &id
			}
			out = append(out, r)
		}
	}
	return out
}

// Directory receives seeded reference data outside Postgres.
type Directory interface {
	PutSkill(sk skill.Skill)
	PutPerson(p person.Person)
	PutRole(r role.Role)
}

// Into loads the default catalog and development directory into dst.
func Into(dst Directory) {
	for _, sk := range DefaultSkills() {
		dst.PutSkill(sk)
	}
	for _, p := range DevPersons() {
		dst.PutPerson(p)
	}
	for _, r := range DevRoles() {
		dst.PutRole(r)
	}
}
