package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/St1cky1/task-registry/internal/usecase"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "taskregistry.v1.TaskRegistry"

// TaskRegistryServer - методы сервиса задач. Запросы и ответы - google.protobuf.Struct
// с теми же именами полей, что и в HTTP API.
type TaskRegistryServer interface {
	Health(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetTasks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskRegistryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Health", Handler: unary("Health", TaskRegistryServer.Health)},
		{MethodName: "CreateTask", Handler: unary("CreateTask", TaskRegistryServer.CreateTask)},
		{MethodName: "GetTasks", Handler: unary("GetTasks", TaskRegistryServer.GetTasks)},
		{MethodName: "UpdateTask", Handler: unary("UpdateTask", TaskRegistryServer.UpdateTask)},
		{MethodName: "DeleteTask", Handler: unary("DeleteTask", TaskRegistryServer.DeleteTask)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taskregistry/v1/task_registry.proto",
}

func unary(
	method string,
	call func(TaskRegistryServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TaskRegistryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TaskRegistryServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type GRPCServer struct {
	taskService *usecase.TaskService
	server      *grpc.Server
}

var _ TaskRegistryServer = (*GRPCServer)(nil)

func NewGRPCServer(taskService *usecase.TaskService) *GRPCServer {
	s := &GRPCServer{
		taskService: taskService,
	}

	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(s.unaryInterceptor),
	)
	s.server.RegisterService(&serviceDesc, s)

	return s
}

func (s *GRPCServer) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	slog.Info("gRPC server listening", slog.String("address", lis.Addr().String()))
	return s.Serve(lis)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *GRPCServer) Stop() {
	s.server.GracefulStop()
}

func (s *GRPCServer) unaryInterceptor(ctx context.Context, req any,
	info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	slog.InfoContext(ctx, "gRPC call",
		slog.String("method", info.FullMethod),
		slog.String("code", status.Code(err).String()),
		slog.Duration("latency", time.Since(start)))

	return resp, err
}

func (s *GRPCServer) Health(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	health := s.taskService.Health(ctx)
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"status": structpb.NewStringValue(health.Status),
	}}, nil
}

func (s *GRPCServer) CreateTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	title, err := stringField(req, entity.FieldTitle)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	description, err := stringField(req, entity.FieldDescription)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	createReq := &entity.CreateTaskRequest{Description: description}
	if title != nil {
		createReq.Title = *title
	}

	task, err := s.taskService.CreateTask(ctx, createReq)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return taskToStruct(task), nil
}

func (s *GRPCServer) GetTasks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var getReq entity.GetTasksRequest
	for key, dst := range map[string]**string{
		entity.FieldID:          &getReq.ID,
		entity.FieldTitle:       &getReq.Title,
		entity.FieldDescription: &getReq.Description,
		entity.FieldStatus:      &getReq.Status,
	} {
		value, err := stringField(req, key)
		if err != nil {
			return nil, toStatus(ctx, err)
		}
		*dst = value
	}

	tasks, err := s.taskService.GetTasks(ctx, &getReq)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	values := make([]*structpb.Value, len(tasks))
	for i := range tasks {
		values[i] = structpb.NewStructValue(taskToStruct(&tasks[i]))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"tasks": structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}, nil
}

func (s *GRPCServer) UpdateTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var updateReq entity.UpdateTaskRequest

	id, err := stringField(req, entity.FieldID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	if id != nil {
		updateReq.ID = *id
	}

	for key, dst := range map[string]**string{
		entity.FieldTitle:       &updateReq.Title,
		entity.FieldDescription: &updateReq.Description,
		entity.FieldStatus:      &updateReq.Status,
	} {
		value, err := stringField(req, key)
		if err != nil {
			return nil, toStatus(ctx, err)
		}
		*dst = value
	}

	task, err := s.taskService.UpdateTask(ctx, &updateReq)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return taskToStruct(task), nil
}

func (s *GRPCServer) DeleteTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var deleteReq entity.DeleteTaskRequest

	id, err := stringField(req, entity.FieldID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	if id != nil {
		deleteReq.ID = *id
	}

	task, err := s.taskService.DeleteTask(ctx, &deleteReq)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return taskToStruct(task), nil
}

// stringField: отсутствующий ключ или null - nil, не строка - ошибка запроса
func stringField(req *structpb.Struct, key string) (*string, error) {
	value, ok := req.GetFields()[key]
	if !ok {
		return nil, nil
	}

	switch kind := value.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StringValue:
		s := kind.StringValue
		return &s, nil
	default:
		return nil, entity.NewValidationError("field " + key + " must be a string")
	}
}

func taskToStruct(task *entity.Task) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		entity.FieldID:          structpb.NewStringValue(task.ID.String()),
		entity.FieldTitle:       structpb.NewStringValue(task.Title),
		entity.FieldDescription: structpb.NewStringValue(task.Description),
		entity.FieldStatus:      structpb.NewStringValue(task.Status.String()),
	}}
}

func toStatus(ctx context.Context, err error) error {
	var validationErr *entity.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Reason)
	case errors.Is(err, entity.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, "invalid request")
	case errors.Is(err, entity.ErrTaskNotFound):
		return status.Error(codes.NotFound, "task not found")
	default:
		slog.ErrorContext(ctx, "gRPC call failed", slog.Any("error", err))
		return status.Error(codes.Internal, "internal server error")
	}
}
