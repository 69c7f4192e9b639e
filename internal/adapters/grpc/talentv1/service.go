package talentv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// サービス名です。
const (
	EmployeeServiceName  = "hctalent.v1.EmployeeService"
	AuditServiceName     = "hctalent.v1.AuditService"
	DashboardServiceName = "hctalent.v1.DashboardService"
	OperatorServiceName  = "hctalent.v1.OperatorService"
)

// FullMethod は /<service>/<method> 形式のメソッド名を返します。
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// unary は S のメソッド式から MethodDesc を組み立てます。
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := FullMethod(service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// invoke は JSON コーデックを指定して unary RPC を呼び出します。
func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(service, method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

// EmployeeServiceServer は社員レコードサービスのサーバー側インターフェースです。
type EmployeeServiceServer interface {
	CreateEmployee(context.Context, *CreateEmployeeRequest) (*CreateEmployeeResponse, error)
	UpdateEmployee(context.Context, *UpdateEmployeeRequest) (*UpdateEmployeeResponse, error)
	DeleteEmployee(context.Context, *DeleteEmployeeRequest) (*DeleteEmployeeResponse, error)
	GetEmployee(context.Context, *GetEmployeeRequest) (*GetEmployeeResponse, error)
	ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error)
	UpsertEmployee(context.Context, *UpsertEmployeeRequest) (*UpsertEmployeeResponse, error)
	ImportEmployees(context.Context, *ImportEmployeesRequest) (*ImportEmployeesResponse, error)
	ScreenCandidates(context.Context, *ScreenCandidatesRequest) (*ScreenCandidatesResponse, error)
	RecalculateEmployees(context.Context, *RecalculateEmployeesRequest) (*RecalculateEmployeesResponse, error)
}

// UnimplementedEmployeeServiceServer は未実装メソッドに Unimplemented を返します。
type UnimplementedEmployeeServiceServer struct{}

func (UnimplementedEmployeeServiceServer) CreateEmployee(context.Context, *CreateEmployeeRequest) (*CreateEmployeeResponse, error) {
	return nil, unimplemented("CreateEmployee")
}

func (UnimplementedEmployeeServiceServer) UpdateEmployee(context.Context, *UpdateEmployeeRequest) (*UpdateEmployeeResponse, error) {
	return nil, unimplemented("UpdateEmployee")
}

func (UnimplementedEmployeeServiceServer) DeleteEmployee(context.Context, *DeleteEmployeeRequest) (*DeleteEmployeeResponse, error) {
	return nil, unimplemented("DeleteEmployee")
}

func (UnimplementedEmployeeServiceServer) GetEmployee(context.Context, *GetEmployeeRequest) (*GetEmployeeResponse, error) {
	return nil, unimplemented("GetEmployee")
}

func (UnimplementedEmployeeServiceServer) ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error) {
	return nil, unimplemented("ListEmployees")
}

func (UnimplementedEmployeeServiceServer) UpsertEmployee(context.Context, *UpsertEmployeeRequest) (*UpsertEmployeeResponse, error) {
	return nil, unimplemented("UpsertEmployee")
}

func (UnimplementedEmployeeServiceServer) ImportEmployees(context.Context, *ImportEmployeesRequest) (*ImportEmployeesResponse, error) {
	return nil, unimplemented("ImportEmployees")
}

func (UnimplementedEmployeeServiceServer) ScreenCandidates(context.Context, *ScreenCandidatesRequest) (*ScreenCandidatesResponse, error) {
	return nil, unimplemented("ScreenCandidates")
}

func (UnimplementedEmployeeServiceServer) RecalculateEmployees(context.Context, *RecalculateEmployeesRequest) (*RecalculateEmployeesResponse, error) {
	return nil, unimplemented("RecalculateEmployees")
}

// EmployeeService_ServiceDesc は EmployeeService の記述子です。
var EmployeeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: EmployeeServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(EmployeeServiceName, "CreateEmployee", EmployeeServiceServer.CreateEmployee),
		unary(EmployeeServiceName, "UpdateEmployee", EmployeeServiceServer.UpdateEmployee),
		unary(EmployeeServiceName, "DeleteEmployee", EmployeeServiceServer.DeleteEmployee),
		unary(EmployeeServiceName, "GetEmployee", EmployeeServiceServer.GetEmployee),
		unary(EmployeeServiceName, "ListEmployees", EmployeeServiceServer.ListEmployees),
		unary(EmployeeServiceName, "UpsertEmployee", EmployeeServiceServer.UpsertEmployee),
		unary(EmployeeServiceName, "ImportEmployees", EmployeeServiceServer.ImportEmployees),
		unary(EmployeeServiceName, "ScreenCandidates", EmployeeServiceServer.ScreenCandidates),
		unary(EmployeeServiceName, "RecalculateEmployees", EmployeeServiceServer.RecalculateEmployees),
	},
	Metadata: "hctalent/v1",
}

// RegisterEmployeeServiceServer は srv を s に登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeService_ServiceDesc, srv)
}

// EmployeeServiceClient は EmployeeService のクライアントです。
type EmployeeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeServiceClient は EmployeeServiceClient を生成します。
func NewEmployeeServiceClient(cc grpc.ClientConnInterface) *EmployeeServiceClient {
	return &EmployeeServiceClient{cc: cc}
}

func (c *EmployeeServiceClient) CreateEmployee(ctx context.Context, in *CreateEmployeeRequest, opts ...grpc.CallOption) (*CreateEmployeeResponse, error) {
	return invoke[CreateEmployeeResponse](ctx, c.cc, EmployeeServiceName, "CreateEmployee", in, opts)
}

func (c *EmployeeServiceClient) UpdateEmployee(ctx context.Context, in *UpdateEmployeeRequest, opts ...grpc.CallOption) (*UpdateEmployeeResponse, error) {
	return invoke[UpdateEmployeeResponse](ctx, c.cc, EmployeeServiceName, "UpdateEmployee", in, opts)
}

func (c *EmployeeServiceClient) DeleteEmployee(ctx context.Context, in *DeleteEmployeeRequest, opts ...grpc.CallOption) (*DeleteEmployeeResponse, error) {
	return invoke[DeleteEmployeeResponse](ctx, c.cc, EmployeeServiceName, "DeleteEmployee", in, opts)
}

func (c *EmployeeServiceClient) GetEmployee(ctx context.Context, in *GetEmployeeRequest, opts ...grpc.CallOption) (*GetEmployeeResponse, error) {
	return invoke[GetEmployeeResponse](ctx, c.cc, EmployeeServiceName, "GetEmployee", in, opts)
}

func (c *EmployeeServiceClient) ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error) {
	return invoke[ListEmployeesResponse](ctx, c.cc, EmployeeServiceName, "ListEmployees", in, opts)
}

func (c *EmployeeServiceClient) UpsertEmployee(ctx context.Context, in *UpsertEmployeeRequest, opts ...grpc.CallOption) (*UpsertEmployeeResponse, error) {
	return invoke[UpsertEmployeeResponse](ctx, c.cc, EmployeeServiceName, "UpsertEmployee", in, opts)
}

func (c *EmployeeServiceClient) ImportEmployees(ctx context.Context, in *ImportEmployeesRequest, opts ...grpc.CallOption) (*ImportEmployeesResponse, error) {
	return invoke[ImportEmployeesResponse](ctx, c.cc, EmployeeServiceName, "ImportEmployees", in, opts)
}

func (c *EmployeeServiceClient) ScreenCandidates(ctx context.Context, in *ScreenCandidatesRequest, opts ...grpc.CallOption) (*ScreenCandidatesResponse, error) {
	return invoke[ScreenCandidatesResponse](ctx, c.cc, EmployeeServiceName, "ScreenCandidates", in, opts)
}

func (c *EmployeeServiceClient) RecalculateEmployees(ctx context.Context, in *RecalculateEmployeesRequest, opts ...grpc.CallOption) (*RecalculateEmployeesResponse, error) {
	return invoke[RecalculateEmployeesResponse](ctx, c.cc, EmployeeServiceName, "RecalculateEmployees", in, opts)
}

// AuditServiceServer は監査ログ参照サービスのサーバー側インターフェースです。
type AuditServiceServer interface {
	ListAuditEntries(context.Context, *ListAuditEntriesRequest) (*ListAuditEntriesResponse, error)
	GetAuditEntry(context.Context, *GetAuditEntryRequest) (*GetAuditEntryResponse, error)
}

// UnimplementedAuditServiceServer は未実装メソッドに Unimplemented を返します。
type UnimplementedAuditServiceServer struct{}

func (UnimplementedAuditServiceServer) ListAuditEntries(context.Context, *ListAuditEntriesRequest) (*ListAuditEntriesResponse, error) {
	return nil, unimplemented("ListAuditEntries")
}

func (UnimplementedAuditServiceServer) GetAuditEntry(context.Context, *GetAuditEntryRequest) (*GetAuditEntryResponse, error) {
	return nil, unimplemented("GetAuditEntry")
}

// AuditService_ServiceDesc は AuditService の記述子です。
var AuditService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AuditServiceName,
	HandlerType: (*AuditServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AuditServiceName, "ListAuditEntries", AuditServiceServer.ListAuditEntries),
		unary(AuditServiceName, "GetAuditEntry", AuditServiceServer.GetAuditEntry),
	},
	Metadata: "hctalent/v1",
}

// RegisterAuditServiceServer は srv を s に登録します。
func RegisterAuditServiceServer(s grpc.ServiceRegistrar, srv AuditServiceServer) {
	s.RegisterService(&AuditService_ServiceDesc, srv)
}

// AuditServiceClient は AuditService のクライアントです。
type AuditServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAuditServiceClient は AuditServiceClient を生成します。
func NewAuditServiceClient(cc grpc.ClientConnInterface) *AuditServiceClient {
	return &AuditServiceClient{cc: cc}
}

func (c *AuditServiceClient) ListAuditEntries(ctx context.Context, in *ListAuditEntriesRequest, opts ...grpc.CallOption) (*ListAuditEntriesResponse, error) {
	return invoke[ListAuditEntriesResponse](ctx, c.cc, AuditServiceName, "ListAuditEntries", in, opts)
}

func (c *AuditServiceClient) GetAuditEntry(ctx context.Context, in *GetAuditEntryRequest, opts ...grpc.CallOption) (*GetAuditEntryResponse, error) {
	return invoke[GetAuditEntryResponse](ctx, c.cc, AuditServiceName, "GetAuditEntry", in, opts)
}

// DashboardServiceServer はダッシュボードサービスのサーバー側インターフェースです。
type DashboardServiceServer interface {
	GetSummary(context.Context, *GetSummaryRequest) (*GetSummaryResponse, error)
}

// UnimplementedDashboardServiceServer は未実装メソッドに Unimplemented を返します。
type UnimplementedDashboardServiceServer struct{}

func (UnimplementedDashboardServiceServer) GetSummary(context.Context, *GetSummaryRequest) (*GetSummaryResponse, error) {
	return nil, unimplemented("GetSummary")
}

// DashboardService_ServiceDesc は DashboardService の記述子です。
var DashboardService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: DashboardServiceName,
	HandlerType: (*DashboardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(DashboardServiceName, "GetSummary", DashboardServiceServer.GetSummary),
	},
	Metadata: "hctalent/v1",
}

// RegisterDashboardServiceServer は srv を s に登録します。
func RegisterDashboardServiceServer(s grpc.ServiceRegistrar, srv DashboardServiceServer) {
	s.RegisterService(&DashboardService_ServiceDesc, srv)
}

// DashboardServiceClient は DashboardService のクライアントです。
type DashboardServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDashboardServiceClient は DashboardServiceClient を生成します。
func NewDashboardServiceClient(cc grpc.ClientConnInterface) *DashboardServiceClient {
	return &DashboardServiceClient{cc: cc}
}

func (c *DashboardServiceClient) GetSummary(ctx context.Context, in *GetSummaryRequest, opts ...grpc.CallOption) (*GetSummaryResponse, error) {
	return invoke[GetSummaryResponse](ctx, c.cc, DashboardServiceName, "GetSummary", in, opts)
}

// OperatorServiceServer は操作者管理サービスのサーバー側インターフェースです。
type OperatorServiceServer interface {
	CreateOperator(context.Context, *CreateOperatorRequest) (*CreateOperatorResponse, error)
	UpdateOperator(context.Context, *UpdateOperatorRequest) (*UpdateOperatorResponse, error)
	DeleteOperator(context.Context, *DeleteOperatorRequest) (*DeleteOperatorResponse, error)
	GetOperator(context.Context, *GetOperatorRequest) (*GetOperatorResponse, error)
	ListOperators(context.Context, *ListOperatorsRequest) (*ListOperatorsResponse, error)
}

// UnimplementedOperatorServiceServer は未実装メソッドに Unimplemented を返します。
type UnimplementedOperatorServiceServer struct{}

func (UnimplementedOperatorServiceServer) CreateOperator(context.Context, *CreateOperatorRequest) (*CreateOperatorResponse, error) {
	return nil, unimplemented("CreateOperator")
}

func (UnimplementedOperatorServiceServer) UpdateOperator(context.Context, *UpdateOperatorRequest) (*UpdateOperatorResponse, error) {
	return nil, unimplemented("UpdateOperator")
}

func (UnimplementedOperatorServiceServer) DeleteOperator(context.Context, *DeleteOperatorRequest) (*DeleteOperatorResponse, error) {
	return nil, unimplemented("DeleteOperator")
}

func (UnimplementedOperatorServiceServer) GetOperator(context.Context, *GetOperatorRequest) (*GetOperatorResponse, error) {
	return nil, unimplemented("GetOperator")
}

func (UnimplementedOperatorServiceServer) ListOperators(context.Context, *ListOperatorsRequest) (*ListOperatorsResponse, error) {
	return nil, unimplemented("ListOperators")
}

// OperatorService_ServiceDesc は OperatorService の記述子です。
var OperatorService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: OperatorServiceName,
	HandlerType: (*OperatorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(OperatorServiceName, "CreateOperator", OperatorServiceServer.CreateOperator),
		unary(OperatorServiceName, "UpdateOperator", OperatorServiceServer.UpdateOperator),
		unary(OperatorServiceName, "DeleteOperator", OperatorServiceServer.DeleteOperator),
		unary(OperatorServiceName, "GetOperator", OperatorServiceServer.GetOperator),
		unary(OperatorServiceName, "ListOperators", OperatorServiceServer.ListOperators),
	},
	Metadata: "hctalent/v1",
}

// RegisterOperatorServiceServer は srv を s に登録します。
func RegisterOperatorServiceServer(s grpc.ServiceRegistrar, srv OperatorServiceServer) {
	s.RegisterService(&OperatorService_ServiceDesc, srv)
}

// OperatorServiceClient は OperatorService のクライアントです。
type OperatorServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewOperatorServiceClient は OperatorServiceClient を生成します。
func NewOperatorServiceClient(cc grpc.ClientConnInterface) *OperatorServiceClient {
	return &OperatorServiceClient{cc: cc}
}

func (c *OperatorServiceClient) CreateOperator(ctx context.Context, in *CreateOperatorRequest, opts ...grpc.CallOption) (*CreateOperatorResponse, error) {
	return invoke[CreateOperatorResponse](ctx, c.cc, OperatorServiceName, "CreateOperator", in, opts)
}

func (c *OperatorServiceClient) UpdateOperator(ctx context.Context, in *UpdateOperatorRequest, opts ...grpc.CallOption) (*UpdateOperatorResponse, error) {
	return invoke[UpdateOperatorResponse](ctx, c.cc, OperatorServiceName, "UpdateOperator", in, opts)
}

func (c *OperatorServiceClient) DeleteOperator(ctx context.Context, in *DeleteOperatorRequest, opts ...grpc.CallOption) (*DeleteOperatorResponse, error) {
	return invoke[DeleteOperatorResponse](ctx, c.cc, OperatorServiceName, "DeleteOperator", in, opts)
}

func (c *OperatorServiceClient) GetOperator(ctx context.Context, in *GetOperatorRequest, opts ...grpc.CallOption) (*GetOperatorResponse, error) {
	return invoke[GetOperatorResponse](ctx, c.cc, OperatorServiceName, "GetOperator", in, opts)
}

func (c *OperatorServiceClient) ListOperators(ctx context.Context, in *ListOperatorsRequest, opts ...grpc.CallOption) (*ListOperatorsResponse, error) {
	return invoke[ListOperatorsResponse](ctx, c.cc, OperatorServiceName, "ListOperators", in, opts)
}
