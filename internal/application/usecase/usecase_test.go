package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
	"github.com/nurudeen19/rag-fortress/pkg/logger"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}
func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}
func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}
func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}
func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}
func (r *fakeUserRepo) Count(_ context.Context) (int, error) { return len(r.users), nil }

type fakeDepartmentRepo struct {
	deps map[string]*entity.Department
}

func (r *fakeDepartmentRepo) Create(_ context.Context, d *entity.Department) error {
	r.deps[d.ID] = d
	return nil
}
func (r *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*entity.Department, error) {
	return r.deps[id], nil
}
func (r *fakeDepartmentRepo) List(_ context.Context) ([]*entity.Department, error) { return nil, nil }
func (r *fakeDepartmentRepo) Update(_ context.Context, d *entity.Department) error {
	r.deps[d.ID] = d
	return nil
}

type fakeDocumentRepo struct {
	docs map[string]*entity.Document
}

func (r *fakeDocumentRepo) Create(_ context.Context, d *entity.Document) error {
	r.docs[d.ID] = d
	return nil
}
func (r *fakeDocumentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	return r.docs[id], nil
}
func (r *fakeDocumentRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}
func (r *fakeDocumentRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	n := 0
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}
func (r *fakeDocumentRepo) UpdateStatus(_ context.Context, id, status, failMsg string) error {
	if d, ok := r.docs[id]; ok {
		d.Status = status
		d.FailMsg = failMsg
	}
	return nil
}
func (r *fakeDocumentRepo) Delete(_ context.Context, id string) error {
	delete(r.docs, id)
	return nil
}

type fakeOverrideRepo struct {
	reqs map[string]*entity.OverrideRequest
}

func (r *fakeOverrideRepo) Create(_ context.Context, req *entity.OverrideRequest) error {
	r.reqs[req.ID] = req
	return nil
}
func (r *fakeOverrideRepo) GetByID(_ context.Context, id string) (*entity.OverrideRequest, error) {
	return r.reqs[id], nil
}
func (r *fakeOverrideRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.OverrideRequest, error) {
	var out []*entity.OverrideRequest
	for _, req := range r.reqs {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}
func (r *fakeOverrideRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*entity.OverrideRequest, error) {
	var out []*entity.OverrideRequest
	for _, req := range r.reqs {
		if req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}
func (r *fakeOverrideRepo) Update(_ context.Context, req *entity.OverrideRequest) error {
	r.reqs[req.ID] = req
	return nil
}
func (r *fakeOverrideRepo) HasApproved(_ context.Context, userID, documentID string) (bool, error) {
	for _, req := range r.reqs {
		if req.UserID == userID && req.DocumentID == documentID && req.Status == entity.OverrideApproved {
			return true, nil
		}
	}
	return false, nil
}

type fakeReportRepo struct {
	reports map[string]*entity.ErrorReport
}

func (r *fakeReportRepo) Create(_ context.Context, report *entity.ErrorReport) error {
	r.reports[report.ID] = report
	return nil
}
func (r *fakeReportRepo) GetByID(_ context.Context, id string) (*entity.ErrorReport, error) {
	return r.reports[id], nil
}
func (r *fakeReportRepo) ListByReporter(_ context.Context, reporterID string, limit, offset int) ([]*entity.ErrorReport, error) {
	var out []*entity.ErrorReport
	for _, rep := range r.reports {
		if rep.ReporterID == reporterID {
			out = append(out, rep)
		}
	}
	return out, nil
}
func (r *fakeReportRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*entity.ErrorReport, error) {
	var out []*entity.ErrorReport
	for _, rep := range r.reports {
		if rep.Status == status {
			out = append(out, rep)
		}
	}
	return out, nil
}
func (r *fakeReportRepo) UpdateStatus(_ context.Context, id, status string) error {
	if rep, ok := r.reports[id]; ok {
		rep.Status = status
	}
	return nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*entity.ActivityLog
}

func (r *fakeActivityRepo) Append(_ context.Context, log *entity.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, log)
	return nil
}
func (r *fakeActivityRepo) List(_ context.Context, filter repository.ActivityFilter, limit, offset int) ([]*entity.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ActivityLog
	for _, e := range r.entries {
		if filter.ActorID != "" && e.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeIngestor struct {
	queued []string
	err    error
}

func (f *fakeIngestor) Enqueue(documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.queued = append(f.queued, documentID)
	return nil
}

func testRecorder() *ActivityRecorder {
	return NewActivityRecorder(&fakeActivityRepo{}, logger.New(logger.Config{Env: "test", Level: "error"}))
}

func TestUserCreate_CapsClearanceAtDepartment(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*entity.User{}}
	deps := &fakeDepartmentRepo{deps: map[string]*entity.Department{
		"dep-1": {ID: "dep-1", Name: "Support", Clearance: 2},
	}}
	uc := NewUserUseCase(users, deps, testRecorder())

	resp, err := uc.Create(context.Background(), "admin-1", dto.CreateUserRequest{
		Username: "helpdesk", Email: "h@example.com", Password: "hunter22hunter22",
		Role: entity.RoleViewer, DepartmentID: "dep-1", Clearance: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Clearance)
	assert.Equal(t, entity.StatusActive, resp.Status)
}

func TestUserCreate_RejectsBadRole(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*entity.User{}}
	deps := &fakeDepartmentRepo{deps: map[string]*entity.Department{}}
	uc := NewUserUseCase(users, deps, testRecorder())

	_, err := uc.Create(context.Background(), "admin-1", dto.CreateUserRequest{
		Username: "x", Email: "x@example.com", Password: "hunter22hunter22",
		Role: "superuser", DepartmentID: "dep-1", Clearance: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserDelete_RefusesSelf(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*entity.User{
		"admin-1": {ID: "admin-1", Username: "root", Role: entity.RoleAdmin},
	}}
	uc := NewUserUseCase(users, &fakeDepartmentRepo{deps: map[string]*entity.Department{}}, testRecorder())

	err := uc.Delete(context.Background(), "admin-1", "admin-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserUpdate_ReappliesDepartmentCap(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Username: "a", Role: entity.RoleAnalyst, DepartmentID: "dep-1", Clearance: 3},
	}}
	deps := &fakeDepartmentRepo{deps: map[string]*entity.Department{
		"dep-1": {ID: "dep-1", Clearance: 5},
		"dep-2": {ID: "dep-2", Clearance: 2},
	}}
	uc := NewUserUseCase(users, deps, testRecorder())

	resp, err := uc.Update(context.Background(), "admin-1", "u1", dto.UpdateUserRequest{DepartmentID: "dep-2"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Clearance)
}

func newDocUseCase(t *testing.T) (*DocumentUseCase, *fakeDocumentRepo, *fakeOverrideRepo, *fakeIngestor) {
	t.Helper()
	docs := &fakeDocumentRepo{docs: map[string]*entity.Document{}}
	overrides := &fakeOverrideRepo{reqs: map[string]*entity.OverrideRequest{}}
	ing := &fakeIngestor{}
	uc := NewDocumentUseCase(docs, overrides, ing, testRecorder(), logger.New(logger.Config{Env: "test", Level: "error"}))
	return uc, docs, overrides, ing
}

func TestDocumentUpload_QueuesPendingDocument(t *testing.T) {
	uc, docs, _, ing := newDocUseCase(t)

	resp, err := uc.Upload(context.Background(), "u1", 3, dto.UploadDocumentRequest{
		Title: "playbook", Clearance: 2,
	}, "playbook.md", []byte("incident response steps"))
	require.NoError(t, err)

	assert.Equal(t, entity.DocPending, resp.Status)
	require.Len(t, ing.queued, 1)
	assert.Equal(t, resp.ID, ing.queued[0])
	assert.Equal(t, "incident response steps", docs.docs[resp.ID].Content)
}

func TestDocumentUpload_RejectsClearanceAboveOwner(t *testing.T) {
	uc, _, _, _ := newDocUseCase(t)

	_, err := uc.Upload(context.Background(), "u1", 2, dto.UploadDocumentRequest{
		Title: "secret", Clearance: 4,
	}, "s.txt", []byte("..."))
	assert.ErrorIs(t, err, domain.ErrClearanceTooLow)
}

func TestDocumentUpload_SurvivesFullQueue(t *testing.T) {
	uc, docs, _, ing := newDocUseCase(t)
	ing.err = errors.New("queue full")

	resp, err := uc.Upload(context.Background(), "u1", 3, dto.UploadDocumentRequest{
		Title: "later", Clearance: 1,
	}, "later.txt", []byte("try again"))
	require.NoError(t, err)
	assert.Equal(t, entity.DocPending, docs.docs[resp.ID].Status)
}

func TestDocumentGet_ClearanceGate(t *testing.T) {
	uc, docs, overrides, _ := newDocUseCase(t)
	docs.docs["d1"] = &entity.Document{ID: "d1", OwnerID: "owner", Clearance: 5, Content: "top brief"}

	// Below clearance, no override: denied.
	_, err := uc.GetByID(context.Background(), "viewer", 2, "d1")
	assert.ErrorIs(t, err, domain.ErrClearanceTooLow)

	// Owner always reads their own upload.
	detail, err := uc.GetByID(context.Background(), "owner", 1, "d1")
	require.NoError(t, err)
	assert.Equal(t, "top brief", detail.Content)

	// Approved override opens the document.
	overrides.reqs["o1"] = &entity.OverrideRequest{
		ID: "o1", UserID: "viewer", DocumentID: "d1", Status: entity.OverrideApproved,
	}
	detail, err = uc.GetByID(context.Background(), "viewer", 2, "d1")
	require.NoError(t, err)
	assert.Equal(t, "top brief", detail.Content)
}

func TestDocumentDelete_OwnerOrAdminOnly(t *testing.T) {
	uc, docs, _, _ := newDocUseCase(t)
	docs.docs["d1"] = &entity.Document{ID: "d1", OwnerID: "owner"}

	assert.ErrorIs(t, uc.Delete(context.Background(), "stranger", entity.RoleAnalyst, "d1"), domain.ErrForbidden)
	require.NoError(t, uc.Delete(context.Background(), "admin-1", entity.RoleAdmin, "d1"))
	assert.Empty(t, docs.docs)
}

func TestErrorReport_ForwardOnlyTransitions(t *testing.T) {
	reports := &fakeReportRepo{reports: map[string]*entity.ErrorReport{}}
	uc := NewErrorReportUseCase(reports, testRecorder())

	created, err := uc.Create(context.Background(), "u1", dto.CreateErrorReportRequest{Message: "answer cited wrong doc"})
	require.NoError(t, err)
	assert.Equal(t, entity.ReportOpen, created.Status)

	_, err = uc.UpdateStatus(context.Background(), "admin-1", created.ID, dto.UpdateErrorReportRequest{Status: entity.ReportResolved})
	require.NoError(t, err)

	// Resolved is terminal.
	_, err = uc.UpdateStatus(context.Background(), "admin-1", created.ID, dto.UpdateErrorReportRequest{Status: entity.ReportTriaged})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestOverrideCreate_RejectsReadableDocument(t *testing.T) {
	overrides := &fakeOverrideRepo{reqs: map[string]*entity.OverrideRequest{}}
	docs := &fakeDocumentRepo{docs: map[string]*entity.Document{
		"d1": {ID: "d1", Clearance: 2},
	}}
	uc := NewOverrideUseCase(overrides, docs, testRecorder())

	_, err := uc.Create(context.Background(), "u1", 3, dto.CreateOverrideRequest{DocumentID: "d1", Reason: "need it"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestOverrideDecide_FinalOnce(t *testing.T) {
	overrides := &fakeOverrideRepo{reqs: map[string]*entity.OverrideRequest{}}
	docs := &fakeDocumentRepo{docs: map[string]*entity.Document{
		"d1": {ID: "d1", Clearance: 5},
	}}
	uc := NewOverrideUseCase(overrides, docs, testRecorder())

	created, err := uc.Create(context.Background(), "u1", 2, dto.CreateOverrideRequest{DocumentID: "d1", Reason: "audit prep"})
	require.NoError(t, err)

	decided, err := uc.Decide(context.Background(), "admin-1", created.ID, dto.DecideOverrideRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, entity.OverrideApproved, decided.Status)
	assert.Equal(t, "admin-1", decided.DecidedBy)
	require.NotNil(t, decided.DecidedAt)

	_, err = uc.Decide(context.Background(), "admin-1", created.ID, dto.DecideOverrideRequest{Approve: false})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// The approved request now grants access.
	ok, err := overrides.HasApproved(context.Background(), "u1", "d1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOverrideCreate_RejectsDuplicateGrant(t *testing.T) {
	overrides := &fakeOverrideRepo{reqs: map[string]*entity.OverrideRequest{
		"o1": {ID: "o1", UserID: "u1", DocumentID: "d1", Status: entity.OverrideApproved},
	}}
	docs := &fakeDocumentRepo{docs: map[string]*entity.Document{
		"d1": {ID: "d1", Clearance: 5},
	}}
	uc := NewOverrideUseCase(overrides, docs, testRecorder())

	_, err := uc.Create(context.Background(), "u1", 2, dto.CreateOverrideRequest{DocumentID: "d1", Reason: "again"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
