package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/matching"
	"capability-sync/internal/domain/person"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/role"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/repository/memory"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	counts  map[string]int64
	deletes int

	// beforeSet runs once, ahead of the next SetJSON.
	beforeSet func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, counts: map[string]int64{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *fakeCache) Counter(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[key], nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	return c.counts[key], nil
}

func (c *fakeCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

type recordingNotifier struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (n *recordingNotifier) CapabilityValidated(c capability.Capability) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, c.ID)
}

type env struct {
	store *memory.Store
	cache *fakeCache
	notes *recordingNotifier

	caps        *Capability
	validations *Validation
	reqs        *Requirement
	matching    *Matching
}

func newEnv(t *testing.T) *env {
	t.Helper()

	s := memory.New()
	cache := newFakeCache()
	notes := &recordingNotifier{}

	pool := pond.NewPool(4)
	t.Cleanup(pool.StopAndWait)

	validations := NewValidationUsecase(ValidationDeps{
		Validations:  s.Validations(),
		Capabilities: s.Capabilities(),
		Cache:        cache,
		Notifier:     notes,
	})
	matcher := NewMatchingUsecase(MatchingDeps{
		Capabilities: s.Capabilities(),
		Requirements: s.Requirements(),
		Roles:        s.Roles(),
		Persons:      s.Persons(),
		Pool:         pool,
		Thresholds:   matching.DefaultThresholds(),
		Cache:        cache,
	})

	return &env{
		store:       s,
		cache:       cache,
		notes:       notes,
		caps:        NewCapabilityUsecase(s.Capabilities(), s.Skills(), cache, nil),
		validations: validations,
		reqs:        NewRequirementUsecase(s.Requirements(), s.Skills(), s.Roles(), cache, nil),
		matching:    matcher,
	}
}

func (e *env) skill(name string, d skill.Domain) skill.Skill {
	sk := skill.Skill{ID: uuid.New(), NameEn: name, NameFr: name + " (fr)", Domain: d, CreatedAt: time.Now().UTC()}
	e.store.PutSkill(sk)
	return sk
}

func (e *env) person(name string) person.Person {
	p := person.Person{ID: uuid.New(), GivenName: name, OrganizationID: uuid.New(), CreatedAt: time.Now().UTC()}
	e.store.PutPerson(p)
	return p
}

func (e *env) role(title string, active bool, occupant *uuid.UUID) role.Role {
	r := role.Role{ID: uuid.New(), TitleEn: title, TitleFr: title, TeamID: uuid.New(), Active: active, PersonID: occupant}
	e.store.PutRole(r)
	return r
}

func (e *env) capability(t *testing.T, owner person.Person, sk skill.Skill, self proficiency.Level) uuid.UUID {
	t.Helper()
	c, err := e.caps.Create(context.Background(), CreateCapabilityInput{
		PersonID:            owner.ID,
		SkillID:             sk.ID,
		OrganizationID:      owner.OrganizationID,
		SelfIdentifiedLevel: self,
	})
	require.NoError(t, err)
	return c.ID
}

func (e *env) validate(t *testing.T, capabilityID uuid.UUID, level proficiency.Level) ValidationResult {
	t.Helper()
	res, err := e.validations.Create(context.Background(), CreateValidationInput{
		ValidatorID:    uuid.New(),
		CapabilityID:   capabilityID,
		ValidatedLevel: level,
	})
	require.NoError(t, err)
	return res
}

func (e *env) requirement(t *testing.T, r role.Role, sk skill.Skill, level proficiency.Level) uuid.UUID {
	t.Helper()
	got, err := e.reqs.Create(context.Background(), CreateRequirementInput{RoleID: r.ID, SkillID: sk.ID, RequiredLevel: level})
	require.NoError(t, err)
	return got.ID
}
