package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/matching"
	"capability-sync/internal/domain/person"
	"capability-sync/internal/domain/requirement"
	"capability-sync/internal/domain/role"
	"capability-sync/internal/pkg/metrics"
	"capability-sync/internal/repository"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoleMatch struct {
	Role      role.Role `json:"role"`
	Satisfied int       `json:"satisfied"`
}

type PersonMatch struct {
	Person    person.Person `json:"person"`
	Satisfied int           `json:"satisfied"`
	Required  int           `json:"required"`
}

type MatchingUsecase interface {
	// RolesMatchingPerson returns open roles where the person meets enough
	// requirements.
	RolesMatchingPerson(ctx context.Context, personID uuid.UUID) ([]RoleMatch, error)
	// PeopleMatchingRole returns people able to fill the role, vacant or not.
	PeopleMatchingRole(ctx context.Context, roleID uuid.UUID) ([]PersonMatch, error)
}

type MatchingDeps struct {
	Capabilities repository.CapabilityRepository
	Requirements repository.RequirementRepository
	Roles        repository.RoleRepository
	Persons      repository.PersonRepository
	Pool         pond.Pool
	Thresholds   matching.Thresholds
	Cache        MatchCache
	Metrics      *metrics.Recorder
	Logger       *zap.Logger
}

type Matching struct {
	caps    repository.CapabilityRepository
	reqs    repository.RequirementRepository
	roles   repository.RoleRepository
	persons repository.PersonRepository
	pool    pond.Pool
	th      matching.Thresholds
	cache   MatchCache
	metrics *metrics.Recorder
	logger  *zap.Logger
}

func NewMatchingUsecase(d MatchingDeps) *Matching {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Pool == nil {
		d.Pool = pond.NewPool(8)
	}
	return &Matching{
		caps:    d.Capabilities,
		reqs:    d.Requirements,
		roles:   d.Roles,
		persons: d.Persons,
		pool:    d.Pool,
		th:      d.Thresholds,
		cache:   d.Cache,
		metrics: d.Metrics,
		logger:  d.Logger,
	}
}

func (u *Matching) RolesMatchingPerson(ctx context.Context, personID uuid.UUID) ([]RoleMatch, error) {
	if personID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	started := time.Now()

	// Hits are cached before the vacancy filter: filling or deactivating a
	// role does not invalidate the cache.
	gen, cacheable := u.generation(ctx)
	key := PersonMatchCacheKey(gen, personID)
	var hits []matching.RoleHit
	if !cacheable || !u.lookup(ctx, key, &hits) {
		if err := u.requirePerson(ctx, personID); err != nil {
			return nil, err
		}

		caps, err := u.caps.ListByPersonID(ctx, personID)
		if err != nil {
			return nil, unavailable(err)
		}

		eligible := make([]capability.Capability, 0, len(caps))
		for _, c := range caps {
			if !c.Retired() && c.ValidatedLevel != nil {
				eligible = append(eligible, c)
			}
		}

		reqs, err := fanOut(ctx, u.pool, eligible, func(ctx context.Context, c capability.Capability) ([]requirement.Requirement, error) {
			return u.reqs.ListBySkillAndMaxLevel(ctx, c.SkillID, *c.ValidatedLevel)
		})
		if err != nil {
			return nil, u.groupErr(ctx, err)
		}

		hits = matching.RolesForPerson(eligible, reqs, u.th)
		if cacheable {
			u.store(ctx, key, hits)
		}
	}

	satisfied := make(map[uuid.UUID]int, len(hits))
	for _, h := range hits {
		satisfied[h.RoleID] = h.Satisfied
	}

	open, err := u.roles.ListActiveVacantByIDs(ctx, matching.RoleIDs(hits))
	if err != nil {
		return nil, unavailable(err)
	}

	out := make([]RoleMatch, 0, len(open))
	for _, r := range open {
		out = append(out, RoleMatch{Role: r, Satisfied: satisfied[r.ID]})
	}
	sortRoleMatches(out)

	u.metrics.MatchObserved("person_roles", started, len(out))
	return out, nil
}

func (u *Matching) PeopleMatchingRole(ctx context.Context, roleID uuid.UUID) ([]PersonMatch, error) {
	if roleID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	started := time.Now()

	gen, cacheable := u.generation(ctx)
	key := RoleMatchCacheKey(gen, roleID)
	var cached []PersonMatch
	if cacheable && u.lookup(ctx, key, &cached) {
		u.metrics.MatchObserved("role_people", started, len(cached))
		return cached, nil
	}

	if _, err := u.roles.GetByID(ctx, roleID); err != nil {
		return nil, fromRepo(err, ErrRoleNotFound, nil)
	}

	reqs, err := u.reqs.ListByRoleID(ctx, roleID)
	if err != nil {
		return nil, unavailable(err)
	}

	active := make([]requirement.Requirement, 0, len(reqs))
	for _, r := range reqs {
		if !r.Retired() {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		if cacheable {
			u.store(ctx, key, []PersonMatch{})
		}
		u.metrics.MatchObserved("role_people", started, 0)
		return []PersonMatch{}, nil
	}

	caps, err := fanOut(ctx, u.pool, active, func(ctx context.Context, r requirement.Requirement) ([]capability.Capability, error) {
		lvl := r.RequiredLevel
		return u.caps.ListBySkillID(ctx, r.SkillID, &lvl)
	})
	if err != nil {
		return nil, u.groupErr(ctx, err)
	}

	hits := matching.PeopleForRole(active, caps, u.th)
	byPerson := make(map[uuid.UUID]matching.PersonHit, len(hits))
	for _, h := range hits {
		byPerson[h.PersonID] = h
	}

	people, err := u.persons.GetByIDs(ctx, matching.PersonIDs(hits))
	if err != nil {
		return nil, unavailable(err)
	}

	out := make([]PersonMatch, 0, len(people))
	for _, p := range people {
		h := byPerson[p.ID]
		out = append(out, PersonMatch{Person: p, Satisfied: h.Satisfied, Required: h.Required})
	}
	sortPersonMatches(out)

	if cacheable {
		u.store(ctx, key, out)
	}
	u.metrics.MatchObserved("role_people", started, len(out))
	return out, nil
}

// fanOut runs one lookup per item on the pool and concatenates the results.
// The first failure cancels the remaining lookups.
func fanOut[T, R any](ctx context.Context, pool pond.Pool, items []T, lookup func(context.Context, T) ([]R, error)) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	var (
		mu  sync.Mutex
		out []R
	)
	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()
	for _, it := range items {
		group.SubmitErr(func() error {
			found, err := lookup(groupCtx, it)
			if err != nil {
				return err
			}
			mu.Lock()
			out = append(out, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Matching) requirePerson(ctx context.Context, personID uuid.UUID) error {
	if u.persons == nil {
		return nil
	}
	ok, err := u.persons.Exists(ctx, personID)
	if err != nil {
		return unavailable(err)
	}
	if !ok {
		return ErrPersonNotFound
	}
	return nil
}

// groupErr reports caller cancellation as is and everything else as a
// persistence failure.
func (u *Matching) groupErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	return unavailable(err)
}

// generation returns the cache generation to key results under. It must be
// read before the repositories so that an invalidation racing the
// computation moves readers to a fresh key.
func (u *Matching) generation(ctx context.Context) (int64, bool) {
	if u.cache == nil {
		return 0, false
	}
	gen, err := u.cache.Counter(ctx, matchGenerationKey)
	if err != nil {
		u.logger.Debug("match cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (u *Matching) lookup(ctx context.Context, key string, out any) bool {
	if u.cache == nil {
		return false
	}
	hit, err := u.cache.GetJSON(ctx, key, out)
	if err != nil {
		u.logger.Debug("match cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	u.metrics.CacheLookup(hit)
	return hit
}

func (u *Matching) store(ctx context.Context, key string, value any) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, value, 0); err != nil {
		u.logger.Debug("match cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func sortRoleMatches(ms []RoleMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Satisfied != ms[j].Satisfied {
			return ms[i].Satisfied > ms[j].Satisfied
		}
		return ms[i].Role.ID.String() < ms[j].Role.ID.String()
	})
}

func sortPersonMatches(ms []PersonMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Satisfied != ms[j].Satisfied {
			return ms[i].Satisfied > ms[j].Satisfied
		}
		return ms[i].Person.ID.String() < ms[j].Person.ID.String()
	})
}
