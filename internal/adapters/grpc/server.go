package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/videarn/ledger-service/internal/application"
	"github.com/videarn/ledger-service/internal/domain"
)

// LedgerInternalService is the service-to-service surface: token validation
// for sibling services and a balance/eligibility summary lookup.
type LedgerInternalService interface {
	ValidateToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccountSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type LedgerInternalServer struct {
	service *application.Service
}

func NewLedgerInternalServer(service *application.Service) *LedgerInternalServer {
	return &LedgerInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc LedgerInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: "videarn.ledger.v1.LedgerInternalService",
		HandlerType: (*LedgerInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "ValidateToken",
				Handler:    unaryStructHandler("/videarn.ledger.v1.LedgerInternalService/ValidateToken", LedgerInternalService.ValidateToken),
			},
			{
				MethodName: "GetAccountSummary",
				Handler:    unaryStructHandler("/videarn.ledger.v1.LedgerInternalService/GetAccountSummary", LedgerInternalService.GetAccountSummary),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "videarn/contracts/proto/ledger/v1/ledger_internal.proto",
	}, svc)
}

func (s *LedgerInternalServer) ValidateToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token := req.GetFields()["token"].GetStringValue()
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}

	claims, err := s.service.ValidateToken(ctx, token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	resp, err := structpb.NewStruct(map[string]any{
		"valid":      true,
		"account_id": claims.AccountID.String(),
		"email":      claims.Email,
		"role":       claims.Role,
		"expires_at": claims.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func (s *LedgerInternalServer) GetAccountSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw := req.GetFields()["account_id"].GetStringValue()
	if raw == "" {
		return nil, status.Error(codes.InvalidArgument, "missing account_id")
	}
	accountID, err := uuid.Parse(raw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid account_id")
	}

	dashboard, err := s.service.GetDashboard(ctx, application.Actor{AccountID: accountID, Role: domain.RoleUser})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "account not found")
		}
		return nil, status.Errorf(codes.Internal, "load summary: %v", err)
	}

	fields := map[string]any{
		"account_id":        accountID.String(),
		"balance":           dashboard.Balance,
		"referral_earnings": dashboard.ReferralEarnings,
		"plan_active":       dashboard.PlanActive,
		"can_claim":         dashboard.Claim.CanClaim,
		"can_withdraw":      dashboard.Withdrawal.Available,
	}
	if dashboard.Plan != nil {
		fields["plan_id"] = dashboard.Plan.PlanID.String()
	}
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

// unaryStructHandler builds a grpc.MethodDesc handler for a struct-in,
// struct-out method without generated stubs.
func unaryStructHandler(fullMethod string, invoke func(LedgerInternalService, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		svc, ok := srv.(LedgerInternalService)
		if !ok {
			return nil, status.Error(codes.Internal, "invalid service binding")
		}
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return invoke(svc, ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return invoke(svc, ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
