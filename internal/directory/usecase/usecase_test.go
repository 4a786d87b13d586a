package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/tenangapp/tenang/internal/directory/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
	"github.com/tenangapp/tenang/internal/pkg/validator"
)

type fakeUID struct {
	mu   sync.Mutex
	next int64
}

func (u *fakeUID) Generate() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.next++
	return u.next
}

// fakeRepo keeps counselors in memory and records the last filter and patch
// it was handed, so tests can assert what the usecase asked for.
type fakeRepo struct {
	mu         sync.Mutex
	rows       map[int64]*entity.Counselor
	total      int64
	lastFilter entity.CounselorFilter
	lastPatch  entity.PatchCounselor
	failOn     map[string]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rows:   map[int64]*entity.Counselor{},
		failOn: map[string]error{},
	}
}

func (f *fakeRepo) GetCounselorFilter(_ context.Context, filter entity.CounselorFilter) ([]entity.Counselor, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetCounselorFilter"]; err != nil {
		return nil, 0, err
	}

	f.lastFilter = filter

	counselors := make([]entity.Counselor, 0, len(f.rows))
	for _, c := range f.rows {
		if c.Status == entity.CounselorStatusActive {
			counselors = append(counselors, *c)
		}
	}
	return counselors, f.total, nil
}

func (f *fakeRepo) GetCounselorByID(_ context.Context, id int64) (*entity.Counselor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetCounselorByID"]; err != nil {
		return nil, err
	}

	c, ok := f.rows[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	cp := *c
	return &cp, nil
}

func (f *fakeRepo) CreateCounselor(_ context.Context, in entity.NewCounselor) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["CreateCounselor"]; err != nil {
		return err
	}

	f.rows[in.ID] = &entity.Counselor{
		ID:              in.ID,
		FullName:        in.FullName,
		Title:           in.Title,
		Bio:             in.Bio,
		AvatarURL:       in.AvatarURL,
		Specialties:     in.Specialties,
		Languages:       in.Languages,
		YearsExperience: in.YearsExperience,
		City:            in.City,
		Status:          in.Status,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	return nil
}

func (f *fakeRepo) PatchCounselor(_ context.Context, in entity.PatchCounselor) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["PatchCounselor"]; err != nil {
		return err
	}

	f.lastPatch = in
	return nil
}

func (f *fakeRepo) MarkCounselorInactive(_ context.Context, id, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["MarkCounselorInactive"]; err != nil {
		return err
	}

	if c, ok := f.rows[id]; ok {
		c.Status = entity.CounselorStatusInactive
	}
	return nil
}

func (f *fakeRepo) seed(c entity.Counselor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := c
	f.rows[c.ID] = &cp
}

func (f *fakeRepo) get(t *testing.T, id int64) entity.Counselor {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.rows[id]
	if !ok {
		t.Fatalf("counselor %d not stored", id)
	}
	return *c
}

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

func newTestEnforcer(t *testing.T, policies ...[3]string) *casbin.Enforcer {
	t.Helper()

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		t.Fatalf("new casbin model: %v", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("new casbin enforcer: %v", err)
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			t.Fatalf("add policy: %v", err)
		}
	}
	return e
}

func newTestUsecase(t *testing.T, repo *fakeRepo, enforcer *casbin.Enforcer) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	if enforcer == nil {
		enforcer = newTestEnforcer(t)
	}

	return New(Dependency{
		RepoDB:     repo,
		Validator:  v,
		UID:        &fakeUID{},
		Instrument: instrument.NewNoop(),
		Enforcer:   enforcer,
	})
}

func authCtx(userID int64) context.Context {
	clm := jwt.Claims{UserID: userID}
	clm.Subject = strconv.FormatInt(userID, 10)
	return jwt.SetAuth(context.Background(), clm)
}

func assertBusinessCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error, got nil")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a goerror, got %T: %v", err, err)
	}
	if gerr.Code() != code {
		t.Fatalf("expected code %s, got %s (%s)", code, gerr.Code(), gerr.Msg())
	}
}

func assertServerError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error, got nil")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a goerror, got %T: %v", err, err)
	}
	if gerr.Type() != goerror.TypeServer {
		t.Fatalf("expected server error type, got %s", gerr.Type())
	}
}
