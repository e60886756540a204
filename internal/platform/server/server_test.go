package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ogurasousui/codex-staff-admin/internal/adapters/grpc/handler"
	"github.com/ogurasousui/codex-staff-admin/internal/adapters/grpc/staffv1"
	"github.com/ogurasousui/codex-staff-admin/internal/app"
	"github.com/ogurasousui/codex-staff-admin/internal/platform/config"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()

	storage := app.NewMemoryStorage()
	services := app.NewServices(storage, config.MembershipConfig{}, zerolog.Nop())
	h := handler.NewStaffAdminHandler(services.Employees, services.Departments, services.Reconciler)
	srv := New("bufnet", h, Options{RequestTimeout: time.Second, Logger: zerolog.Nop()})

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufconn: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		if err := <-done; err != nil {
			t.Errorf("server returned error: %v", err)
		}
	})
	return conn
}

func TestServer_HealthCheck(t *testing.T) {
	t.Parallel()

	conn := startServer(t)
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: staffv1.ServiceName})
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("unexpected status: %v", resp.GetStatus())
	}
}

func TestServer_MembershipFlow(t *testing.T) {
	t.Parallel()

	client := staffv1.NewClient(startServer(t))
	ctx := context.Background()

	boss, err := client.Call(ctx, staffv1.MethodCreateEmployee, map[string]any{
		"name":            "Helena",
		"email":           "helena@example.com",
		"department":      "TI",
		"hierarchy_level": "gestor",
	})
	if err != nil {
		t.Fatalf("create manager failed: %v", err)
	}
	bossID := boss.GetFields()["employee"].GetStructValue().GetFields()["id"].GetStringValue()
	skipped := boss.GetFields()["sync"].GetStructValue().GetFields()["steps"].GetListValue().GetValues()
	if len(skipped) != 1 || skipped[0].GetStructValue().GetFields()["outcome"].GetStringValue() != "skipped" {
		t.Fatalf("expected skipped sync before department exists, got %v", skipped)
	}

	dept, err := client.Call(ctx, staffv1.MethodCreateDepartment, map[string]any{"name": "TI", "manager_id": bossID})
	if err != nil {
		t.Fatalf("create department failed: %v", err)
	}
	deptID := dept.GetFields()["department"].GetStructValue().GetFields()["id"].GetStringValue()

	created, err := client.Call(ctx, staffv1.MethodCreateEmployee, map[string]any{
		"name":        "Joana",
		"email":       "joana@example.com",
		"department":  "TI",
		"base_salary": 4200.0,
	})
	if err != nil {
		t.Fatalf("create employee failed: %v", err)
	}
	if got := created.GetFields()["sync"].GetStructValue().GetFields()["status"].GetStringValue(); got != "ok" {
		t.Fatalf("expected sync ok, got %s", got)
	}
	joanaID := created.GetFields()["employee"].GetStructValue().GetFields()["id"].GetStringValue()

	found, err := client.Call(ctx, staffv1.MethodGetDepartment, map[string]any{"id": deptID})
	if err != nil {
		t.Fatalf("get department failed: %v", err)
	}
	ids := found.GetFields()["department"].GetStructValue().GetFields()["employee_ids"].GetListValue().GetValues()
	if len(ids) != 1 || ids[0].GetStringValue() != joanaID {
		t.Fatalf("expected roster [%s], got %v", joanaID, ids)
	}

	result, err := client.Call(ctx, staffv1.MethodReconcile, nil)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if result.GetFields()["sync_count"].GetNumberValue() != 1 || result.GetFields()["clean_count"].GetNumberValue() != 0 {
		t.Fatalf("unexpected reconcile result: %v", result)
	}

	_, err = client.Call(ctx, staffv1.MethodCreateDepartment, map[string]any{"name": "TI", "manager_id": bossID})
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}

	if _, err := client.Call(ctx, staffv1.MethodDeleteEmployee, map[string]any{"id": joanaID}); err != nil {
		t.Fatalf("delete employee failed: %v", err)
	}
	_, err = client.Call(ctx, staffv1.MethodGetEmployee, map[string]any{"id": joanaID})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestTimeoutInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := TimeoutInterceptor(20 * time.Millisecond)
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, _ any) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	if err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := RecoveryInterceptor(zerolog.Nop())
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, func(context.Context, any) (any, error) {
		panic("boom")
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}
