package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "wealthflow.v1.AnalyticsService"

// AnalyticsServiceServer is the server API of wealthflow.v1.AnalyticsService.
// Every message is a google.protobuf.Struct.
type AnalyticsServiceServer interface {
	RecordTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateBudget(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBudgetPerformance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateGoal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ContributeToGoal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddHolding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveHolding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshPrices(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPortfolio(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(AnalyticsServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AnalyticsServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(AnalyticsServiceServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// ServiceDesc describes wealthflow.v1.AnalyticsService for grpc.Server.RegisterService.
// Messages are structpb.Struct and no file descriptor is registered, so server
// reflection lists the service but cannot describe it.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyticsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		handler("RecordTransaction", AnalyticsServiceServer.RecordTransaction),
		handler("ListTransactions", AnalyticsServiceServer.ListTransactions),
		handler("DeleteTransaction", AnalyticsServiceServer.DeleteTransaction),
		handler("CreateBudget", AnalyticsServiceServer.CreateBudget),
		handler("ListBudgetPerformance", AnalyticsServiceServer.ListBudgetPerformance),
		handler("CreateGoal", AnalyticsServiceServer.CreateGoal),
		handler("ContributeToGoal", AnalyticsServiceServer.ContributeToGoal),
		handler("AddHolding", AnalyticsServiceServer.AddHolding),
		handler("RemoveHolding", AnalyticsServiceServer.RemoveHolding),
		handler("RefreshPrices", AnalyticsServiceServer.RefreshPrices),
		handler("GetPortfolio", AnalyticsServiceServer.GetPortfolio),
		handler("GetSnapshot", AnalyticsServiceServer.GetSnapshot),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterAnalyticsServiceServer registers the analytics service on s
func RegisterAnalyticsServiceServer(s grpc.ServiceRegistrar, srv AnalyticsServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls wealthflow.v1.AnalyticsService methods by name
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client over an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req and returns the response struct
func (c *Client) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
