package operator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeRepo struct {
	operators map[string]*Operator
	order     []string
	seq       int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{operators: make(map[string]*Operator)}
}

func (r *fakeRepo) Create(_ context.Context, op *Operator) (*Operator, error) {
	for _, existing := range r.operators {
		if existing.Email == op.Email {
			return nil, ErrEmailAlreadyExists
		}
	}
	r.seq++
	id := "op-" + strconv.Itoa(r.seq)
	copy := *op
	copy.ID = id
	r.operators[id] = &copy
	r.order = append(r.order, id)
	return cloneOperator(&copy), nil
}

func (r *fakeRepo) Update(_ context.Context, op *Operator) (*Operator, error) {
	existing, ok := r.operators[op.ID]
	if !ok {
		return nil, ErrOperatorNotFound
	}
	*existing = *op
	return cloneOperator(existing), nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.operators[id]; !ok {
		return ErrOperatorNotFound
	}
	delete(r.operators, id)
	for i, existingID := range r.order {
		if existingID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*Operator, error) {
	op, ok := r.operators[id]
	if !ok {
		return nil, ErrOperatorNotFound
	}
	return cloneOperator(op), nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*Operator, error) {
	for _, op := range r.operators {
		if op.Email == email {
			return cloneOperator(op), nil
		}
	}
	return nil, ErrOperatorNotFound
}

func (r *fakeRepo) List(_ context.Context, filter ListOperatorsFilter) ([]*Operator, string, error) {
	var filtered []*Operator
	for _, id := range r.order {
		op := r.operators[id]
		if filter.Status != nil && op.Status != *filter.Status {
			continue
		}
		filtered = append(filtered, cloneOperator(op))
	}

	if filter.Offset > len(filtered) {
		return []*Operator{}, "", nil
	}

	end := filter.Offset + filter.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	var nextToken string
	if end < len(filtered) {
		nextToken = strconv.Itoa(end)
	}

	return filtered[filter.Offset:end], nextToken, nil
}

func cloneOperator(op *Operator) *Operator {
	if op == nil {
		return nil
	}
	copy := *op
	return &copy
}

func headCtx() context.Context {
	return access.WithActor(context.Background(), access.Actor{Identity: "root", Role: access.RoleBureauHead})
}

func TestService_CreateOperator_Success(t *testing.T) {
	t.Parallel()

	clk := stubClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewService(newFakeRepo(), &clk)

	created, err := svc.CreateOperator(headCtx(), CreateOperatorInput{Email: " ADMIN@example.com ", Name: "  Dewi  ", Role: access.RoleHRAdmin})
	if err != nil {
		t.Fatalf("CreateOperator returned error: %v", err)
	}

	if created.Email != "admin@example.com" {
		t.Errorf("expected normalized email, got %s", created.Email)
	}
	if created.Name != "Dewi" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}
	if created.Role != access.RoleHRAdmin || created.Status != StatusActive {
		t.Errorf("unexpected role/status: %s %s", created.Role, created.Status)
	}
	if created.CreatedAt != clk.now || created.UpdatedAt != clk.now {
		t.Errorf("expected timestamps to use clock, got %v and %v", created.CreatedAt, created.UpdatedAt)
	}
}

func TestService_CreateOperator_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &stubClock{now: time.Now()})

	tests := []struct {
		name string
		ctx  context.Context
		in   CreateOperatorInput
		want error
	}{
		{name: "hr admin cannot manage", ctx: access.WithActor(context.Background(), access.Actor{Identity: "a", Role: access.RoleHRAdmin}), in: CreateOperatorInput{Email: "x@example.com", Name: "X", Role: access.RoleViewer}, want: access.ErrPermissionDenied},
		{name: "anonymous", ctx: context.Background(), in: CreateOperatorInput{Email: "x@example.com", Name: "X", Role: access.RoleViewer}, want: access.ErrUnauthenticated},
		{name: "bad email", ctx: headCtx(), in: CreateOperatorInput{Email: "nope", Name: "X", Role: access.RoleViewer}, want: ErrInvalidEmail},
		{name: "blank name", ctx: headCtx(), in: CreateOperatorInput{Email: "x@example.com", Name: " ", Role: access.RoleViewer}, want: ErrInvalidName},
		{name: "bad role", ctx: headCtx(), in: CreateOperatorInput{Email: "x@example.com", Name: "X", Role: "root"}, want: access.ErrInvalidRole},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := svc.CreateOperator(tt.ctx, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestService_CreateOperator_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &stubClock{now: time.Now()})

	if _, err := svc.CreateOperator(headCtx(), CreateOperatorInput{Email: "dewi@example.com", Name: "Dewi", Role: access.RoleViewer}); err != nil {
		t.Fatalf("unexpected error preparing data: %v", err)
	}

	_, err := svc.CreateOperator(headCtx(), CreateOperatorInput{Email: "DEWI@example.com", Name: "Dewi 2", Role: access.RoleViewer})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestService_UpdateOperator(t *testing.T) {
	t.Parallel()

	clk := stubClock{now: time.Now()}
	svc := NewService(newFakeRepo(), &clk)

	created, err := svc.CreateOperator(headCtx(), CreateOperatorInput{Email: "op@example.com", Name: "Op", Role: access.RoleViewer})
	if err != nil {
		t.Fatalf("CreateOperator error: %v", err)
	}

	newName := "Operator"
	newRole := access.RoleHRAdmin
	clk.now = clk.now.Add(time.Hour)

	updated, err := svc.UpdateOperator(headCtx(), UpdateOperatorInput{ID: created.ID, Name: &newName, Role: &newRole})
	if err != nil {
		t.Fatalf("UpdateOperator returned error: %v", err)
	}
	if updated.Name != newName || updated.Role != newRole {
		t.Errorf("unexpected operator: %+v", updated)
	}
	if updated.UpdatedAt != clk.now {
		t.Errorf("expected UpdatedAt to use clock, got %v", updated.UpdatedAt)
	}

	invalidStatus := Status("blocked")
	if _, err := svc.UpdateOperator(headCtx(), UpdateOperatorInput{ID: created.ID, Status: &invalidStatus}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	if _, err := svc.UpdateOperator(headCtx(), UpdateOperatorInput{ID: " "}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_DeleteAndGetOperator(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &stubClock{now: time.Now()})

	created, err := svc.CreateOperator(headCtx(), CreateOperatorInput{Email: "op@example.com", Name: "Op", Role: access.RoleViewer})
	if err != nil {
		t.Fatalf("CreateOperator error: %v", err)
	}

	found, err := svc.GetOperator(context.Background(), GetOperatorInput{ID: created.ID})
	if err != nil || found.ID != created.ID {
		t.Fatalf("GetOperator = %+v, %v", found, err)
	}

	if err := svc.DeleteOperator(headCtx(), DeleteOperatorInput{ID: ""}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if err := svc.DeleteOperator(headCtx(), DeleteOperatorInput{ID: created.ID}); err != nil {
		t.Fatalf("DeleteOperator error: %v", err)
	}
	if _, err := svc.GetOperator(context.Background(), GetOperatorInput{ID: created.ID}); !errors.Is(err, ErrOperatorNotFound) {
		t.Fatalf("expected ErrOperatorNotFound, got %v", err)
	}
}

func TestService_ListOperators(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &stubClock{now: time.Now()})

	var lastID string
	for i := 0; i < 3; i++ {
		created, err := svc.CreateOperator(headCtx(), CreateOperatorInput{
			Email: fmt.Sprintf("op%d@example.com", i),
			Name:  fmt.Sprintf("Op %d", i),
			Role:  access.RoleViewer,
		})
		if err != nil {
			t.Fatalf("CreateOperator error: %v", err)
		}
		lastID = created.ID
	}

	inactive := StatusInactive
	if _, err := svc.UpdateOperator(headCtx(), UpdateOperatorInput{ID: lastID, Status: &inactive}); err != nil {
		t.Fatalf("UpdateOperator error: %v", err)
	}

	result, err := svc.ListOperators(context.Background(), ListOperatorsInput{PageSize: 2})
	if err != nil {
		t.Fatalf("ListOperators returned error: %v", err)
	}
	if len(result.Operators) != 2 || result.NextPageToken != "2" {
		t.Fatalf("unexpected page: %d %q", len(result.Operators), result.NextPageToken)
	}

	result, err = svc.ListOperators(context.Background(), ListOperatorsInput{Status: &inactive})
	if err != nil {
		t.Fatalf("ListOperators returned error: %v", err)
	}
	if len(result.Operators) != 1 || result.Operators[0].ID != lastID {
		t.Fatalf("unexpected filtered result: %+v", result.Operators)
	}

	if _, err := svc.ListOperators(context.Background(), ListOperatorsInput{PageSize: maxListPageSize + 1}); !errors.Is(err, ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if _, err := svc.ListOperators(context.Background(), ListOperatorsInput{PageToken: "abc"}); !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}

func TestService_ResolveActor(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &stubClock{now: time.Now()})

	created, err := svc.CreateOperator(headCtx(), CreateOperatorInput{Email: "op@example.com", Name: "Op", Role: access.RoleHRAdmin})
	if err != nil {
		t.Fatalf("CreateOperator error: %v", err)
	}

	actor, err := svc.ResolveActor(context.Background(), created.ID, "192.0.2.10")
	if err != nil {
		t.Fatalf("ResolveActor error: %v", err)
	}
	if actor.Identity != created.ID || actor.Role != access.RoleHRAdmin || actor.Address != "192.0.2.10" {
		t.Fatalf("unexpected actor: %+v", actor)
	}

	if _, err := svc.ResolveActor(context.Background(), "", ""); !errors.Is(err, access.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.ResolveActor(context.Background(), "op-999", ""); !errors.Is(err, access.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	inactive := StatusInactive
	if _, err := svc.UpdateOperator(headCtx(), UpdateOperatorInput{ID: created.ID, Status: &inactive}); err != nil {
		t.Fatalf("UpdateOperator error: %v", err)
	}
	if _, err := svc.ResolveActor(context.Background(), created.ID, ""); !errors.Is(err, ErrOperatorInactive) {
		t.Fatalf("expected ErrOperatorInactive, got %v", err)
	}
}

func TestService_SelfLockout(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &stubClock{now: time.Now()})

	head, err := svc.CreateOperator(headCtx(), CreateOperatorInput{Email: "head@example.com", Name: "Head", Role: access.RoleBureauHead})
	if err != nil {
		t.Fatalf("CreateOperator error: %v", err)
	}
	self := access.WithActor(context.Background(), head.Actor(""))

	demoted := access.RoleHRAdmin
	if _, err := svc.UpdateOperator(self, UpdateOperatorInput{ID: head.ID, Role: &demoted}); !errors.Is(err, ErrSelfLockout) {
		t.Fatalf("expected ErrSelfLockout on own demotion, got %v", err)
	}
	inactive := StatusInactive
	if _, err := svc.UpdateOperator(self, UpdateOperatorInput{ID: head.ID, Status: &inactive}); !errors.Is(err, ErrSelfLockout) {
		t.Fatalf("expected ErrSelfLockout on own deactivation, got %v", err)
	}
	if err := svc.DeleteOperator(self, DeleteOperatorInput{ID: head.ID}); !errors.Is(err, ErrSelfLockout) {
		t.Fatalf("expected ErrSelfLockout on own deletion, got %v", err)
	}

	renamed := "Head of HC"
	updated, err := svc.UpdateOperator(self, UpdateOperatorInput{ID: head.ID, Name: &renamed})
	if err != nil {
		t.Fatalf("renaming self should succeed: %v", err)
	}
	if updated.Name != renamed {
		t.Errorf("expected renamed operator, got %q", updated.Name)
	}

	if _, err := svc.UpdateOperator(headCtx(), UpdateOperatorInput{ID: head.ID, Role: &demoted}); err != nil {
		t.Fatalf("another head may demote: %v", err)
	}
}

func TestService_NameLength(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &stubClock{now: time.Now()})

	long := strings.Repeat("a", 101)
	if _, err := svc.CreateOperator(headCtx(), CreateOperatorInput{Email: "x@example.com", Name: long, Role: access.RoleViewer}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	if got, err := ParseStatus(" Active "); err != nil || got != StatusActive {
		t.Fatalf("ParseStatus = %q, %v", got, err)
	}
	if _, err := ParseStatus("suspended"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
