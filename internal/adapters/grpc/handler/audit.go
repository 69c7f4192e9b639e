package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	talentv1 "github.com/ogurasousui/hc-talent-grpc/internal/adapters/grpc/talentv1"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
)

// AuditGrpcHandler は AuditService の gRPC 実装です。
type AuditGrpcHandler struct {
	svc audit.UseCase
	talentv1.UnimplementedAuditServiceServer
}

// NewAuditGrpcHandler は AuditGrpcHandler を生成します。
func NewAuditGrpcHandler(svc audit.UseCase) *AuditGrpcHandler {
	return &AuditGrpcHandler{svc: svc}
}

// ListAuditEntries は監査エントリを新しい順に返します。
func (h *AuditGrpcHandler) ListAuditEntries(ctx context.Context, req *talentv1.ListAuditEntriesRequest) (*talentv1.ListAuditEntriesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var actionPtr *audit.Action
	if raw := strings.TrimSpace(req.Action); raw != "" {
		action := audit.Action(strings.ToUpper(raw))
		actionPtr = &action
	}

	result, err := h.svc.ListEntries(ctx, audit.ListEntriesInput{
		EmployeeID: req.EmployeeID,
		Action:     actionPtr,
		PageSize:   int(req.PageSize),
		PageToken:  req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	entries := make([]*talentv1.AuditEntry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, toWireAuditEntry(entry))
	}

	return &talentv1.ListAuditEntriesResponse{Entries: entries, NextPageToken: result.NextPageToken}, nil
}

// GetAuditEntry は監査エントリを 1 件返します。
func (h *AuditGrpcHandler) GetAuditEntry(ctx context.Context, req *talentv1.GetAuditEntryRequest) (*talentv1.GetAuditEntryResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	entry, err := h.svc.GetEntry(ctx, audit.GetEntryInput{ID: req.ID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.GetAuditEntryResponse{Entry: toWireAuditEntry(entry)}, nil
}

func toWireAuditEntry(entry *audit.Entry) *talentv1.AuditEntry {
	if entry == nil {
		return nil
	}

	out := &talentv1.AuditEntry{
		ID:            entry.ID,
		Timestamp:     formatTimestamp(entry.Timestamp),
		ActorRole:     entry.ActorRole,
		ActorIdentity: entry.ActorIdentity,
		ClientAddress: entry.ClientAddress,
		Action:        string(entry.Action),
		EmployeeID:    entry.EmployeeID,
		Before:        entry.Before.Clone(),
		After:         entry.After.Clone(),
	}
	for _, change := range entry.FieldChanges() {
		out.Changes = append(out.Changes, talentv1.FieldChange{
			Field:  change.Field,
			Before: change.Before,
			After:  change.After,
		})
	}
	return out
}
