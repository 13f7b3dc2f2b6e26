package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "backoffice.v1.AuthService"

// AuthService procedure names.
const (
	AuthServiceRegisterProcedure         = "/backoffice.v1.AuthService/Register"
	AuthServiceLoginProcedure            = "/backoffice.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure   = "/backoffice.v1.AuthService/GetCurrentUser"
	AuthServiceListParticipantsProcedure = "/backoffice.v1.AuthService/ListParticipants"
)

// PublicProcedures can be called without a token.
var PublicProcedures = []string{
	AuthServiceRegisterProcedure,
	AuthServiceLoginProcedure,
}

// AuthServiceHandler is implemented by the server.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + AuthServiceName + "/", route(map[string]http.Handler{
		AuthServiceRegisterProcedure:         unary(AuthServiceRegisterProcedure, svc.Register, opts),
		AuthServiceLoginProcedure:            unary(AuthServiceLoginProcedure, svc.Login, opts),
		AuthServiceGetCurrentUserProcedure:   unary(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts),
		AuthServiceListParticipantsProcedure: unary(AuthServiceListParticipantsProcedure, svc.ListParticipants, opts),
	})
}

// AuthServiceClient is a client for the AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
}

// NewAuthServiceClient constructs a client for the AuthService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	return &authServiceClient{
		register:         client[api.RegisterRequest, api.AuthResponse](httpClient, baseURL, AuthServiceRegisterProcedure, opts),
		login:            client[api.LoginRequest, api.AuthResponse](httpClient, baseURL, AuthServiceLoginProcedure, opts),
		getCurrentUser:   client[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL, AuthServiceGetCurrentUserProcedure, opts),
		listParticipants: client[api.ListParticipantsRequest, api.ListParticipantsResponse](httpClient, baseURL, AuthServiceListParticipantsProcedure, opts),
	}
}

type authServiceClient struct {
	register         *connect.Client[api.RegisterRequest, api.AuthResponse]
	login            *connect.Client[api.LoginRequest, api.AuthResponse]
	getCurrentUser   *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
	listParticipants *connect.Client[api.ListParticipantsRequest, api.ListParticipantsResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}
