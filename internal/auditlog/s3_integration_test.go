//go:build integration

package auditlog

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// localstackHelper starts (or connects to) a Localstack container for S3
// integration tests, mirroring the teacher's
// pkg/payload/store/s3/store_test.go helper of the same name.
type localstackHelper struct {
	container testcontainers.Container
	endpoint  string
}

func newLocalstackHelper(t *testing.T) *localstackHelper {
	t.Helper()
	ctx := context.Background()

	if endpoint := os.Getenv("LOCALSTACK_ENDPOINT"); endpoint != "" {
		return &localstackHelper{endpoint: endpoint}
	}

	req := testcontainers.ContainerRequest{
		Image:        "localstack/localstack:3.0",
		ExposedPorts: []string{"4566/tcp"},
		Env: map[string]string{
			"SERVICES":              "s3",
			"DEFAULT_REGION":        "us-east-1",
			"EAGER_SERVICE_LOADING": "1",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("4566/tcp"),
			wait.ForHTTP("/_localstack/health").WithPort("4566/tcp").WithStartupTimeout(60*time.Second),
		),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req, Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "4566")
	require.NoError(t, err)

	return &localstackHelper{container: container, endpoint: fmt.Sprintf("http://%s:%s", host, port.Port())}
}

func (lh *localstackHelper) cleanup() {
	if lh.container != nil {
		_ = lh.container.Terminate(context.Background())
	}
}

func (lh *localstackHelper) newSink(t *testing.T, bucket string) *S3Sink {
	t.Helper()
	ctx := context.Background()
	client, err := StaticCredentialsClient(ctx, "us-east-1", lh.endpoint, "test", "test")
	require.NoError(t, err)

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	require.NoError(t, err)

	return NewS3SinkWithClient(client, S3Config{Bucket: bucket, KeyPrefix: "audit/"})
}

func TestS3SinkAppend(t *testing.T) {
	helper := newLocalstackHelper(t)
	defer helper.cleanup()

	bucket := fmt.Sprintf("test-bucket-%d", time.Now().UnixNano())
	sink := helper.newSink(t, bucket)
	defer sink.Close()

	err := sink.Append(context.Background(), Record{
		RegistryID: "example-registry",
		Direction:  DirectionSent,
		Timestamp:  time.Now(),
		Raw:        []byte("<command/>"),
	})
	require.NoError(t, err)
}
