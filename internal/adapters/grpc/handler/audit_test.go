package handler

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	talentv1 "github.com/ogurasousui/hc-talent-grpc/internal/adapters/grpc/talentv1"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
)

type stubAuditUseCase struct {
	listInput audit.ListEntriesInput
	listOut   *audit.ListEntriesResult
	listErr   error

	getOut *audit.Entry
	getErr error
}

func (s *stubAuditUseCase) ListEntries(ctx context.Context, in audit.ListEntriesInput) (*audit.ListEntriesResult, error) {
	s.listInput = in
	return s.listOut, s.listErr
}

func (s *stubAuditUseCase) GetEntry(ctx context.Context, in audit.GetEntryInput) (*audit.Entry, error) {
	return s.getOut, s.getErr
}

func TestAuditGrpcHandler_ListAuditEntries(t *testing.T) {
	t.Parallel()

	entry := &audit.Entry{
		ID:            "entry-1",
		Timestamp:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		ActorRole:     "hr_admin",
		ActorIdentity: "op-1",
		Action:        audit.ActionUpdate,
		EmployeeID:    "EMP001",
		Before:        audit.Snapshot{"rank_level": "M22"},
		After:         audit.Snapshot{"rank_level": "M21"},
	}
	stub := &stubAuditUseCase{listOut: &audit.ListEntriesResult{Entries: []*audit.Entry{entry}, NextPageToken: "1"}}
	h := NewAuditGrpcHandler(stub)

	resp, err := h.ListAuditEntries(context.Background(), &talentv1.ListAuditEntriesRequest{EmployeeID: "EMP001", Action: "update", PageSize: 1})
	if err != nil {
		t.Fatalf("ListAuditEntries returned error: %v", err)
	}

	if stub.listInput.Action == nil || *stub.listInput.Action != audit.ActionUpdate {
		t.Fatalf("expected action normalized to UPDATE, got %v", stub.listInput.Action)
	}
	if len(resp.Entries) != 1 || resp.NextPageToken != "1" {
		t.Fatalf("unexpected response %+v", resp)
	}
	got := resp.Entries[0]
	if got.Timestamp != "2024-03-01T09:00:00Z" {
		t.Errorf("unexpected timestamp %s", got.Timestamp)
	}
	if len(got.Changes) != 1 || got.Changes[0].Field != "rank_level" || got.Changes[0].After != "M21" {
		t.Errorf("unexpected changes %+v", got.Changes)
	}
}

func TestAuditGrpcHandler_ListAuditEntries_NoActionFilter(t *testing.T) {
	t.Parallel()

	stub := &stubAuditUseCase{listOut: &audit.ListEntriesResult{}}
	h := NewAuditGrpcHandler(stub)

	if _, err := h.ListAuditEntries(context.Background(), &talentv1.ListAuditEntriesRequest{}); err != nil {
		t.Fatalf("ListAuditEntries returned error: %v", err)
	}
	if stub.listInput.Action != nil {
		t.Errorf("expected nil action, got %v", *stub.listInput.Action)
	}

	stub.listErr = audit.ErrInvalidAction
	if _, err := h.ListAuditEntries(context.Background(), &talentv1.ListAuditEntriesRequest{Action: "patch"}); status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestAuditGrpcHandler_GetAuditEntry(t *testing.T) {
	t.Parallel()

	stub := &stubAuditUseCase{getOut: &audit.Entry{ID: "entry-9", Action: audit.ActionCreate, EmployeeID: "EMP009", After: audit.Snapshot{"employee_id": "EMP009"}}}
	h := NewAuditGrpcHandler(stub)

	resp, err := h.GetAuditEntry(context.Background(), &talentv1.GetAuditEntryRequest{ID: "entry-9"})
	if err != nil {
		t.Fatalf("GetAuditEntry returned error: %v", err)
	}
	if resp.Entry.Action != "CREATE" || resp.Entry.After["employee_id"] != "EMP009" {
		t.Errorf("unexpected entry %+v", resp.Entry)
	}
	if resp.Entry.Changes != nil {
		t.Errorf("create entries carry no changes, got %+v", resp.Entry.Changes)
	}

	stub.getErr = audit.ErrEntryNotFound
	if _, err := h.GetAuditEntry(context.Background(), &talentv1.GetAuditEntryRequest{ID: "missing"}); status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}
