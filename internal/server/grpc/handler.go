package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Empty is the request of methods that take no arguments.
type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type TaskList struct {
	Tasks []*models.Task `json:"tasks"`
}

// toStatus maps service errors to gRPC status codes.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrAlreadyExists):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	default:
		s.logger.Error(ctx, err.Error())
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

func (s *GRPCServer) ping(ctx context.Context, req *Empty) (any, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) register(ctx context.Context, req *services.RegisterRequest) (any, error) {
	s.logger.Info(ctx, "Registration request")

	res, err := s.users.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", res.ID)
	return res, nil
}

func (s *GRPCServer) login(ctx context.Context, req *services.LoginRequest) (any, error) {
	res, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return res, nil
}

func (s *GRPCServer) getProfile(ctx context.Context, req *Empty) (any, error) {
	res, err := s.users.GetProfile(ctx, userIDFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return res, nil
}

func (s *GRPCServer) updateProfile(ctx context.Context, req *services.ProfilePatch) (any, error) {
	res, err := s.users.UpdateProfile(ctx, userIDFrom(ctx), *req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return res, nil
}

func (s *GRPCServer) listTasks(ctx context.Context, req *Empty) (any, error) {
	tasks, err := s.tasks.List(ctx, userIDFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &TaskList{Tasks: tasks}, nil
}

func (s *GRPCServer) addTask(ctx context.Context, req *services.AddTaskRequest) (any, error) {
	in, err := req.NewTask()
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	task, err := s.tasks.Add(ctx, userIDFrom(ctx), in)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return task, nil
}

func (s *GRPCServer) updateTask(ctx context.Context, req *services.UpdateTaskByIDRequest) (any, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	patch, err := req.Patch()
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	task, err := s.tasks.Update(ctx, userIDFrom(ctx), req.ID, patch)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return task, nil
}

func (s *GRPCServer) deleteTask(ctx context.Context, req *services.TaskRef) (any, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	if err := s.tasks.Delete(ctx, userIDFrom(ctx), req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &services.MessageResponse{Message: common.TaskDeletedMessage}, nil
}
