package grpc

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/gophtasks/internal/server/validation"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gophtasks.TaskService"

// Method names of ServiceName.
const (
	MethodPing          = "Ping"
	MethodRegister      = "Register"
	MethodLogin         = "Login"
	MethodGetProfile    = "GetProfile"
	MethodUpdateProfile = "UpdateProfile"
	MethodListTasks     = "ListTasks"
	MethodAddTask       = "AddTask"
	MethodUpdateTask    = "UpdateTask"
	MethodDeleteTask    = "DeleteTask"
)

// FullMethod returns "/gophtasks.TaskService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// taskServiceServer is the handler type checked by grpc.Server.RegisterService.
type taskServiceServer interface {
	ping(ctx context.Context, req *Empty) (any, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*taskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, "", (*GRPCServer).ping),
		unary(MethodRegister, validation.Register, (*GRPCServer).register),
		unary(MethodLogin, validation.Login, (*GRPCServer).login),
		unary(MethodGetProfile, "", (*GRPCServer).getProfile),
		unary(MethodUpdateProfile, validation.UpdateProfile, (*GRPCServer).updateProfile),
		unary(MethodListTasks, "", (*GRPCServer).listTasks),
		unary(MethodAddTask, validation.AddTask, (*GRPCServer).addTask),
		unary(MethodUpdateTask, validation.UpdateTask, (*GRPCServer).updateTask),
		unary(MethodDeleteTask, "", (*GRPCServer).deleteTask),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophtasks.json",
}

// unary adapts a typed handler to grpc.MethodDesc. The request travels
// through interceptors as raw JSON and is validated against schema (when
// set) and decoded only once the interceptors let it through.
func unary[Req any](name string, schema validation.Schema, call func(*GRPCServer, context.Context, *Req) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			var raw json.RawMessage
			if err := dec(&raw); err != nil {
				return nil, err
			}

			handler := func(ctx context.Context, req any) (any, error) {
				body, _ := req.(json.RawMessage)

				if schema != "" {
					if err := validation.Validate(schema, body); err != nil {
						return nil, status.Error(codes.InvalidArgument, err.Error())
					}
				}

				in := new(Req)
				if err := json.Unmarshal(body, in); err != nil {
					return nil, status.Error(codes.InvalidArgument, err.Error())
				}
				return call(srv.(*GRPCServer), ctx, in)
			}

			if interceptor == nil {
				return handler(ctx, raw)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, raw, info, handler)
		},
	}
}
