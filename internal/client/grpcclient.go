// Package client is a Go client for the GophTasks gRPC API.
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	gs "github.com/dmitrijs2005/gophtasks/internal/server/grpc"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	conn *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the token obtained by Register or Login.
func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := c.AccessToken(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects to endpointURL without TLS. Extra options are
// appended, which lets tests dial an in-memory listener.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(gs.JSONCodec{})),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetAccessToken replaces the token sent with authenticated calls.
func (c *GRPCClient) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *GRPCClient) invoke(ctx context.Context, method string, req, reply any) error {
	if err := c.conn.Invoke(ctx, gs.FullMethod(method), req, reply); err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Unavailable:
		return ErrUnavailable
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return err
	}
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	var resp gs.PingResponse
	if err := c.invoke(ctx, gs.MethodPing, &gs.Empty{}, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// Register creates an account and keeps the returned token for later calls.
func (c *GRPCClient) Register(ctx context.Context, name, email, password string) (*services.AuthResult, error) {
	var resp services.AuthResult
	req := &services.RegisterRequest{Name: name, Email: email, Password: password}
	if err := c.invoke(ctx, gs.MethodRegister, req, &resp); err != nil {
		return nil, err
	}
	c.SetAccessToken(resp.Token)
	return &resp, nil
}

// Login keeps the returned token for later calls.
func (c *GRPCClient) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	var resp services.AuthResult
	req := &services.LoginRequest{Email: email, Password: password}
	if err := c.invoke(ctx, gs.MethodLogin, req, &resp); err != nil {
		return nil, err
	}
	c.SetAccessToken(resp.Token)
	return &resp, nil
}

func (c *GRPCClient) GetProfile(ctx context.Context) (*services.Profile, error) {
	var resp services.Profile
	if err := c.invoke(ctx, gs.MethodGetProfile, &gs.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) UpdateProfile(ctx context.Context, patch services.ProfilePatch) (*services.ProfileUpdate, error) {
	var resp services.ProfileUpdate
	if err := c.invoke(ctx, gs.MethodUpdateProfile, &patch, &resp); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		c.SetAccessToken(resp.Token)
	}
	return &resp, nil
}

func (c *GRPCClient) ListTasks(ctx context.Context) ([]*models.Task, error) {
	var resp gs.TaskList
	if err := c.invoke(ctx, gs.MethodListTasks, &gs.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *GRPCClient) AddTask(ctx context.Context, req services.AddTaskRequest) (*models.Task, error) {
	var resp models.Task
	if err := c.invoke(ctx, gs.MethodAddTask, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) UpdateTask(ctx context.Context, id string, req services.UpdateTaskRequest) (*models.Task, error) {
	var resp models.Task
	in := &services.UpdateTaskByIDRequest{ID: id, UpdateTaskRequest: req}
	if err := c.invoke(ctx, gs.MethodUpdateTask, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) DeleteTask(ctx context.Context, id string) error {
	var resp services.MessageResponse
	return c.invoke(ctx, gs.MethodDeleteTask, &services.TaskRef{ID: id}, &resp)
}
