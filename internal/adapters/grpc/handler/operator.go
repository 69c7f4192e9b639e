package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	talentv1 "github.com/ogurasousui/hc-talent-grpc/internal/adapters/grpc/talentv1"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/operator"
)

// OperatorGrpcHandler は OperatorService の gRPC 実装です。
type OperatorGrpcHandler struct {
	svc operator.UseCase
	talentv1.UnimplementedOperatorServiceServer
}

// NewOperatorGrpcHandler は OperatorGrpcHandler を生成します。
func NewOperatorGrpcHandler(svc operator.UseCase) *OperatorGrpcHandler {
	return &OperatorGrpcHandler{svc: svc}
}

// CreateOperator は操作者を作成します。
func (h *OperatorGrpcHandler) CreateOperator(ctx context.Context, req *talentv1.CreateOperatorRequest) (*talentv1.CreateOperatorResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	role, err := access.ParseRole(req.Role)
	if err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.svc.CreateOperator(ctx, operator.CreateOperatorInput{
		Email: req.Email,
		Name:  req.Name,
		Role:  role,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.CreateOperatorResponse{Operator: toWireOperator(created)}, nil
}

// UpdateOperator は操作者情報を更新します。
func (h *OperatorGrpcHandler) UpdateOperator(ctx context.Context, req *talentv1.UpdateOperatorRequest) (*talentv1.UpdateOperatorResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var rolePtr *access.Role
	if req.Role != nil {
		role, err := access.ParseRole(*req.Role)
		if err != nil {
			return nil, toStatusError(err)
		}
		rolePtr = &role
	}

	var statusPtr *operator.Status
	if req.Status != nil {
		st, err := operator.ParseStatus(*req.Status)
		if err != nil {
			return nil, toStatusError(err)
		}
		statusPtr = &st
	}

	updated, err := h.svc.UpdateOperator(ctx, operator.UpdateOperatorInput{
		ID:     req.ID,
		Name:   req.Name,
		Role:   rolePtr,
		Status: statusPtr,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.UpdateOperatorResponse{Operator: toWireOperator(updated)}, nil
}

// DeleteOperator は操作者を削除します。
func (h *OperatorGrpcHandler) DeleteOperator(ctx context.Context, req *talentv1.DeleteOperatorRequest) (*talentv1.DeleteOperatorResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.DeleteOperator(ctx, operator.DeleteOperatorInput{ID: req.ID}); err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.DeleteOperatorResponse{}, nil
}

// GetOperator は操作者を取得します。
func (h *OperatorGrpcHandler) GetOperator(ctx context.Context, req *talentv1.GetOperatorRequest) (*talentv1.GetOperatorResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetOperator(ctx, operator.GetOperatorInput{ID: req.ID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.GetOperatorResponse{Operator: toWireOperator(found)}, nil
}

// ListOperators は操作者の一覧を取得します。
func (h *OperatorGrpcHandler) ListOperators(ctx context.Context, req *talentv1.ListOperatorsRequest) (*talentv1.ListOperatorsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var statusPtr *operator.Status
	if strings.TrimSpace(req.Status) != "" {
		st, err := operator.ParseStatus(req.Status)
		if err != nil {
			return nil, toStatusError(err)
		}
		statusPtr = &st
	}

	result, err := h.svc.ListOperators(ctx, operator.ListOperatorsInput{
		PageSize:  int(req.PageSize),
		PageToken: req.PageToken,
		Status:    statusPtr,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	ops := make([]*talentv1.Operator, 0, len(result.Operators))
	for _, op := range result.Operators {
		ops = append(ops, toWireOperator(op))
	}

	return &talentv1.ListOperatorsResponse{Operators: ops, NextPageToken: result.NextPageToken}, nil
}

func toWireOperator(op *operator.Operator) *talentv1.Operator {
	if op == nil {
		return nil
	}

	return &talentv1.Operator{
		ID:        op.ID,
		Email:     op.Email,
		Name:      op.Name,
		Role:      string(op.Role),
		Status:    string(op.Status),
		CreatedAt: formatTimestamp(op.CreatedAt),
		UpdatedAt: formatTimestamp(op.UpdatedAt),
	}
}
