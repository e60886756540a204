// Package staffv1 は staff.v1.StaffAdminService の gRPC サービス定義です。
// リクエスト・レスポンスはいずれも google.protobuf.Struct で、既定の proto コーデックで送受信します。
package staffv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName は完全修飾サービス名です。
const ServiceName = "staff.v1.StaffAdminService"

const (
	MethodListEmployees        = "ListEmployees"
	MethodGetEmployee          = "GetEmployee"
	MethodCreateEmployee       = "CreateEmployee"
	MethodUpdateEmployee       = "UpdateEmployee"
	MethodDeleteEmployee       = "DeleteEmployee"
	MethodDeleteEmployees      = "DeleteEmployees"
	MethodFindEmployeeByEmail  = "FindEmployeeByEmail"
	MethodListDepartments      = "ListDepartments"
	MethodGetDepartment        = "GetDepartment"
	MethodCreateDepartment     = "CreateDepartment"
	MethodUpdateDepartment     = "UpdateDepartment"
	MethodDeleteDepartment     = "DeleteDepartment"
	MethodDeleteDepartments    = "DeleteDepartments"
	MethodFindDepartmentByName = "FindDepartmentByName"
	MethodReconcile            = "Reconcile"
)

// FullMethod は "/staff.v1.StaffAdminService/<method>" 形式の名前を返します。
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// StaffAdminServer はサービスのサーバー側実装です。
type StaffAdminServer interface {
	ListEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindEmployeeByEmail(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListDepartments(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteDepartments(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindDepartmentByName(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reconcile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(StaffAdminServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StaffAdminServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(StaffAdminServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// ServiceDesc は grpc.Server へ登録するサービス記述子です。
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StaffAdminServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodListEmployees, StaffAdminServer.ListEmployees),
		unary(MethodGetEmployee, StaffAdminServer.GetEmployee),
		unary(MethodCreateEmployee, StaffAdminServer.CreateEmployee),
		unary(MethodUpdateEmployee, StaffAdminServer.UpdateEmployee),
		unary(MethodDeleteEmployee, StaffAdminServer.DeleteEmployee),
		unary(MethodDeleteEmployees, StaffAdminServer.DeleteEmployees),
		unary(MethodFindEmployeeByEmail, StaffAdminServer.FindEmployeeByEmail),
		unary(MethodListDepartments, StaffAdminServer.ListDepartments),
		unary(MethodGetDepartment, StaffAdminServer.GetDepartment),
		unary(MethodCreateDepartment, StaffAdminServer.CreateDepartment),
		unary(MethodUpdateDepartment, StaffAdminServer.UpdateDepartment),
		unary(MethodDeleteDepartment, StaffAdminServer.DeleteDepartment),
		unary(MethodDeleteDepartments, StaffAdminServer.DeleteDepartments),
		unary(MethodFindDepartmentByName, StaffAdminServer.FindDepartmentByName),
		unary(MethodReconcile, StaffAdminServer.Reconcile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "staff/v1/staff_admin.proto",
}

// RegisterStaffAdminServer はサービスを登録します。
func RegisterStaffAdminServer(s grpc.ServiceRegistrar, srv StaffAdminServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client はサービスのクライアントです。
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient は Client を生成します。
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call は method を呼び出します。req は structpb.NewStruct で変換可能な値である必要があります。
func (c *Client) Call(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
