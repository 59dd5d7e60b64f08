package e2e_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"google.golang.org/api/option"
)

var (
	emulatorOnce    sync.Once
	emulatorHost    string
	emulatorErr     error
	emulatorCleanup func()
)

// getSharedEmulator starts a shared fake-gcs-server container for E2E tests.
// The container is reused across all tests for performance. Returns the
// emulator host (host:port) suitable for STORAGE_EMULATOR_HOST.
func getSharedEmulator(t *testing.T) string {
	t.Helper()

	emulatorOnce.Do(func() {
		ctx := context.Background()

		req := testcontainers.ContainerRequest{
			Image:        "fsouza/fake-gcs-server:1.52.2",
			ExposedPorts: []string{"4443/tcp"},
			Cmd:          []string{"-scheme", "http", "-port", "4443"},
			WaitingFor:   wait.ForListeningPort("4443/tcp"),
		}

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			emulatorErr = fmt.Errorf("start fake-gcs-server container: %w", err)
			return
		}

		emulatorCleanup = func() {
			if err := testcontainers.TerminateContainer(container); err != nil {
				fmt.Printf("failed to terminate container: %s\n", err)
			}
		}

		host, err := container.Host(ctx)
		if err != nil {
			emulatorErr = fmt.Errorf("get container host: %w", err)
			return
		}

		port, err := container.MappedPort(ctx, "4443/tcp")
		if err != nil {
			emulatorErr = fmt.Errorf("get container port: %w", err)
			return
		}

		emulatorHost = fmt.Sprintf("%s:%s", host, port.Port())
	})

	if emulatorErr != nil {
		t.Fatalf("emulator unavailable: %v", emulatorErr)
	}

	return emulatorHost
}

// newEmulatorClient creates a storage client talking to the emulator.
func newEmulatorClient(t *testing.T, emulator string) *storage.Client {
	t.Helper()

	ctx := context.Background()
	client, err := storage.NewClient(ctx,
		option.WithEndpoint(fmt.Sprintf("http://%s/storage/v1/", emulator)),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("create emulator storage client: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })
	return client
}

// seedBucket creates the bucket on the emulator and uploads the given objects.
func seedBucket(t *testing.T, emulator, bucket string, objects map[string]string) {
	t.Helper()

	ctx := context.Background()
	client := newEmulatorClient(t, emulator)

	err := client.Bucket(bucket).Create(ctx, "securl-e2e", nil)
	if err != nil {
		t.Fatalf("create bucket: %v", err)
	}

	for name, content := range objects {
		w := client.Bucket(bucket).Object(name).NewWriter(ctx)
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write object %s: %v", name, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close object writer %s: %v", name, err)
		}
	}
}
