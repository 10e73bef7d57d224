package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/St1cky1/task-registry/internal/repository"
	"github.com/St1cky1/task-registry/internal/usecase"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func newTestConn(t *testing.T) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	server := NewGRPCServer(usecase.NewTaskService(repository.NewMemoryTaskRepository(), nil))

	go func() {
		_ = server.Serve(lis)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func invoke(t *testing.T, conn *grpc.ClientConn, method string, fields map[string]any) (*structpb.Struct, error) {
	t.Helper()

	in, err := structpb.NewStruct(fields)
	require.NoError(t, err)

	out := new(structpb.Struct)
	err = conn.Invoke(context.Background(), "/"+ServiceName+"/"+method, in, out)
	return out, err
}

func TestGRPCHealth(t *testing.T) {
	conn := newTestConn(t)

	out, err := invoke(t, conn, "Health", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.GetFields()["status"].GetStringValue())
}

func TestGRPCTaskLifecycle(t *testing.T) {
	conn := newTestConn(t)

	created, err := invoke(t, conn, "CreateTask", map[string]any{"title": "A", "description": "B"})
	require.NoError(t, err)
	id := created.GetFields()["id"].GetStringValue()
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, "created", created.GetFields()["status"].GetStringValue())

	_, err = invoke(t, conn, "GetTasks", map[string]any{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	list, err := invoke(t, conn, "GetTasks", map[string]any{"title": "A"})
	require.NoError(t, err)
	tasks := list.GetFields()["tasks"].GetListValue().GetValues()
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].GetStructValue().GetFields()["id"].GetStringValue())

	updated, err := invoke(t, conn, "UpdateTask", map[string]any{"id": id, "description": "C", "status": "done"})
	require.NoError(t, err)
	assert.Equal(t, "C", updated.GetFields()["description"].GetStringValue())
	assert.Equal(t, "A", updated.GetFields()["title"].GetStringValue())
	assert.Equal(t, "done", updated.GetFields()["status"].GetStringValue())

	deleted, err := invoke(t, conn, "DeleteTask", map[string]any{"id": id})
	require.NoError(t, err)
	assert.Equal(t, "C", deleted.GetFields()["description"].GetStringValue())

	_, err = invoke(t, conn, "GetTasks", map[string]any{"id": id})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = invoke(t, conn, "DeleteTask", map[string]any{"id": id})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPCRejectsNonStringField(t *testing.T) {
	conn := newTestConn(t)

	_, err := invoke(t, conn, "CreateTask", map[string]any{"title": 42.0, "description": "B"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = invoke(t, conn, "UpdateTask", map[string]any{"title": "A"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
