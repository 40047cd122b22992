package contractor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractor/internal/core/apperror"
	"contractor/internal/core/security"
	"contractor/internal/domain/filter"
)

type fakeTx struct{ calls int }

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeRepo struct {
	rows map[string]Contractor
}

func newFakeRepo(rows ...Contractor) *fakeRepo {
	r := &fakeRepo{rows: make(map[string]Contractor)}
	for _, c := range rows {
		r.rows[c.ID] = c
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, c *Contractor) error {
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeRepo) Update(_ context.Context, c *Contractor) error {
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Contractor, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, apperror.NewNotFound(entityName, id)
	}
	return &c, nil
}

func (r *fakeRepo) SetActive(_ context.Context, id string, active bool, actor string, at time.Time) error {
	c := r.rows[id]
	c.IsActive = active
	c.StampModified(actor, at)
	r.rows[id] = c
	return nil
}

func (r *fakeRepo) SetMainBorrower(_ context.Context, id string, value bool, actor string, at time.Time) error {
	c := r.rows[id]
	c.ActiveMainBorrower = value
	c.StampModified(actor, at)
	r.rows[id] = c
	return nil
}

type recordingSearcher struct {
	calls   int
	filters []filter.Item
	page    Page
	result  []Contractor
	err     error
}

func (s *recordingSearcher) Search(_ context.Context, filters []filter.Item, page Page) ([]Contractor, error) {
	s.calls++
	s.filters = filters
	s.page = page
	return s.result, s.err
}

type recordingPublisher struct {
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.events = append(p.events, e)
	return nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type serviceFixture struct {
	svc    *Service
	repo   *fakeRepo
	tx     *fakeTx
	orm    *recordingSearcher
	sql    *recordingSearcher
	events *recordingPublisher
}

func newServiceFixture(rows ...Contractor) *serviceFixture {
	f := &serviceFixture{
		repo:   newFakeRepo(rows...),
		tx:     &fakeTx{},
		orm:    &recordingSearcher{},
		sql:    &recordingSearcher{},
		events: &recordingPublisher{},
	}
	f.svc = NewService(ServiceConfig{
		Repo:      f.repo,
		TxManager: f.tx,
		Events:    f.events,
		Policy:    DefaultSearchPolicy("RUS"),
		ORM:       f.orm,
		SQL:       f.sql,
		Now:       func() time.Time { return fixedNow },
	})
	return f
}

func TestService_SearchRejectedReturnsEmptyList(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	roles := security.NewRoleSet("CONTRACTOR_RUS")
	criteria := SearchCriteria{Country: ptr("RUS"), Name: ptr("Foo")}

	got, err := f.svc.Search(ctx, roles, criteria, Page{Size: 10})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = f.svc.SearchSQL(ctx, roles, criteria, Page{Size: 10})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Zero(t, f.orm.calls)
	assert.Zero(t, f.sql.calls)
}

func TestService_SearchNarrowsEmptyCriteriaForRestrictedRole(t *testing.T) {
	f := newServiceFixture()
	f.sql.result = []Contractor{{ID: "1", Name: "A", IsActive: true}}

	got, err := f.svc.SearchSQL(context.Background(), security.NewRoleSet("CONTRACTOR_RUS"), SearchCriteria{}, Page{Number: 2, Size: 5})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	assert.Equal(t, Filters(CountryOnly("RUS")), f.sql.filters)
	assert.Equal(t, Page{Number: 2, Size: 5}, f.sql.page)
	assert.Zero(t, f.orm.calls)
}

func TestService_SearchSuperuserUsesCriteriaAsIs(t *testing.T) {
	f := newServiceFixture()
	criteria := SearchCriteria{ID: ptr("1"), Name: ptr("TechCorp")}

	got, err := f.svc.Search(context.Background(), security.NewRoleSet("SUPERUSER"), criteria, Page{Size: 10})
	require.NoError(t, err)
	assert.NotNil(t, got)

	assert.Equal(t, Filters(criteria), f.orm.filters)
	assert.Zero(t, f.sql.calls)
}

func TestService_SearchWrapsBackendError(t *testing.T) {
	f := newServiceFixture()
	boom := errors.New("connection reset")
	f.orm.err = boom

	_, err := f.svc.Search(context.Background(), security.NewRoleSet("SUPERUSER"), SearchCriteria{}, Page{Size: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestService_SearchRejectsBadPage(t *testing.T) {
	f := newServiceFixture()

	_, err := f.svc.Search(context.Background(), security.NewRoleSet("SUPERUSER"), SearchCriteria{}, Page{Number: -1, Size: 10})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_SaveOrUpdateCreates(t *testing.T) {
	f := newServiceFixture()
	ctx := security.WithUserID(context.Background(), "alice")

	saved, err := f.svc.SaveOrUpdate(ctx, &Contractor{Name: "New Co", IsActive: true})
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "alice", saved.CreateUserID)
	assert.Equal(t, fixedNow, saved.CreateDate)
	assert.Nil(t, saved.ModifyDate)
	assert.Equal(t, 1, f.tx.calls)
}

func TestService_SaveOrUpdateUpdatesMutableFields(t *testing.T) {
	created := fixedNow.Add(-time.Hour)
	f := newServiceFixture(Contractor{
		ID:                 "c1",
		Name:               "Old",
		ActiveMainBorrower: true,
		IsActive:           true,
	})
	f.repo.rows["c1"] = func() Contractor {
		c := f.repo.rows["c1"]
		c.StampCreated("bob", created)
		return c
	}()

	saved, err := f.svc.SaveOrUpdate(context.Background(), &Contractor{
		ID:       "c1",
		Name:     "Renamed",
		INN:      ptr("7701234567"),
		IsActive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", saved.Name)
	assert.Equal(t, "7701234567", *saved.INN)
	assert.True(t, saved.ActiveMainBorrower, "main-borrower flag is not touched by save")
	assert.Equal(t, "bob", saved.CreateUserID)
	assert.Equal(t, created, saved.CreateDate)
	require.NotNil(t, saved.ModifyUserID)
	assert.Equal(t, security.SystemActor, *saved.ModifyUserID)
}

func TestService_SaveOrUpdateValidates(t *testing.T) {
	f := newServiceFixture()

	_, err := f.svc.SaveOrUpdate(context.Background(), &Contractor{Name: "X", INN: ptr("12ab")})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
	assert.Empty(t, f.repo.rows)
}

func TestService_GetByID(t *testing.T) {
	f := newServiceFixture(
		Contractor{ID: "on", Name: "On", IsActive: true},
		Contractor{ID: "off", Name: "Off", IsActive: false},
	)
	ctx := context.Background()

	c, err := f.svc.GetByID(ctx, "on")
	require.NoError(t, err)
	assert.Equal(t, "On", c.Name)

	_, err = f.svc.GetByID(ctx, "off")
	assert.True(t, apperror.IsNotActive(err))

	_, err = f.svc.GetByID(ctx, "missing")
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_DeleteIsSoft(t *testing.T) {
	f := newServiceFixture(Contractor{ID: "c1", Name: "A", IsActive: true})
	ctx := context.Background()

	require.NoError(t, f.svc.Delete(ctx, "c1"))
	assert.False(t, f.repo.rows["c1"].IsActive)

	err := f.svc.Delete(ctx, "c1")
	assert.True(t, apperror.IsNotActive(err))
}

func TestService_UpdateMainBorrower(t *testing.T) {
	f := newServiceFixture(Contractor{ID: "c1", Name: "A", IsActive: true})
	ctx := context.Background()

	require.NoError(t, f.svc.UpdateMainBorrower(ctx, MainBorrowerUpdate{ContractorID: "c1", HasMainDeals: true}))
	assert.True(t, f.repo.rows["c1"].ActiveMainBorrower)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, Event{
		Type:        EventContractorUpdated,
		AggregateID: "c1",
		Payload:     MainBorrowerChanged{ContractorID: "c1", ActiveMainBorrower: true, ChangedAt: fixedNow},
	}, f.events.events[0])

	// Same value again is a no-op.
	require.NoError(t, f.svc.UpdateMainBorrower(ctx, MainBorrowerUpdate{ContractorID: "c1", HasMainDeals: true}))
	assert.Len(t, f.events.events, 1)
}

func TestService_UpdateMainBorrowerUnknownContractor(t *testing.T) {
	f := newServiceFixture()

	err := f.svc.UpdateMainBorrower(context.Background(), MainBorrowerUpdate{ContractorID: "nope", HasMainDeals: true})
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.events.events)
}
