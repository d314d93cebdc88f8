package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"shutter-pricing-service/internal/domain"
	"shutter-pricing-service/internal/logger"
	"shutter-pricing-service/internal/schema"
	"shutter-pricing-service/internal/service"
)

// PricingServiceName is the fully qualified gRPC service name.
const PricingServiceName = "pricing.v1.PricingService"

// PricingServiceServer is the server API of pricing.v1.PricingService. Messages
// are google.protobuf.Struct documents shaped like the HTTP bodies.
type PricingServiceServer interface {
	Calculate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ProductFields(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// PricingServiceDesc describes pricing.v1.PricingService for grpc.Server.RegisterService.
var PricingServiceDesc = grpc.ServiceDesc{
	ServiceName: PricingServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Calculate", Handler: unaryHandler("Calculate", PricingServiceServer.Calculate)},
		{MethodName: "ProductFields", Handler: unaryHandler("ProductFields", PricingServiceServer.ProductFields)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricing/v1/pricing.proto",
}

func unaryHandler(method string, call func(PricingServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(PricingServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + PricingServiceName + "/" + method}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*structpb.Struct))
		})
	}
}

// RegisterPricingServiceServer registers srv on s.
func RegisterPricingServiceServer(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&PricingServiceDesc, srv)
}

// GRPCHandler implements PricingServiceServer on top of the session service.
type GRPCHandler struct {
	sessions *service.Sessions
	log      *logger.Logger
	validate *validator.Validate
}

// NewGRPCHandler creates a new GRPCHandler.
func NewGRPCHandler(sessions *service.Sessions, log *logger.Logger) *GRPCHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &GRPCHandler{sessions: sessions, log: log, validate: validator.New()}
}

// --- Helper: Error Mapping ---
func mapErrorToGrpcStatus(err error) error {
	switch {
	case errors.Is(err, schema.ErrSchemaNotFound), errors.Is(err, service.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrUnsupportedProduct):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Errorf(codes.Internal, "pricing failed: %v", err)
	}
}

// decodeStruct reads a Struct into dst through its JSON form and validates it.
func (s *GRPCHandler) decodeStruct(in *structpb.Struct, dst any) error {
	raw, err := in.MarshalJSON()
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "validation failed: %v", err)
	}
	return nil
}

func encodeStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(raw); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// Calculate prices the state of a CalculateInput-shaped request.
func (s *GRPCHandler) Calculate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input CalculateInput
	if err := s.decodeStruct(req, &input); err != nil {
		return nil, err
	}

	sel := service.Selection{ProductID: input.ProductID, OptionID: input.OptionID, TypeID: input.TypeID}
	result, outcome, err := s.sessions.Calculate(ctx, sel, domain.State(input.State), input.Settle)
	if err != nil {
		return nil, mapErrorToGrpcStatus(err)
	}
	return encodeStruct(CalculateResponse{State: outcome.State, Warnings: outcome.Warnings, Result: result})
}

// ProductFieldsInput selects the narrowed schema of a product.
type ProductFieldsInput struct {
	ProductID string `json:"productId" validate:"required,max=64"`
	OptionID  string `json:"optionId" validate:"omitempty,max=64"`
	TypeID    int    `json:"typeId" validate:"gte=0,lte=20"`
}

// ProductFields returns the field schema of a product.
func (s *GRPCHandler) ProductFields(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input ProductFieldsInput
	if err := s.decodeStruct(req, &input); err != nil {
		return nil, err
	}

	ps, err := s.sessions.Fields(ctx, service.Selection{ProductID: input.ProductID, OptionID: input.OptionID, TypeID: input.TypeID})
	if err != nil {
		return nil, mapErrorToGrpcStatus(err)
	}
	return encodeStruct(ps)
}

// UnaryLoggingInterceptor logs every unary call with its duration and status code.
func UnaryLoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		if code == codes.Internal || code == codes.Unknown {
			log.Error("grpc call failed", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start), "error", err)
		} else {
			log.Info("grpc call", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start))
		}
		return resp, err
	}
}
