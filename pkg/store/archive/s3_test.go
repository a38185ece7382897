package archive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
	body []byte
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if params.Body != nil {
		m.body, _ = io.ReadAll(params.Body)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Archiver_Archive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.daily.admin_log.2024-01-01.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\r\n1,2\r\n"), 0o644))

	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "reports-bucket" &&
			*in.Key == "exports/daily/admin_log/2024-01-01.csv" &&
			*in.ContentType == "text/csv"
	})).Return(&s3.PutObjectOutput{}, nil)

	a := NewS3Archiver(client, "reports-bucket", "exports")

	err := a.Archive(context.Background(), "daily/admin_log/2024-01-01.csv", path)

	require.NoError(t, err)
	client.AssertExpectations(t)
	assert.Equal(t, "a,b\r\n1,2\r\n", string(client.body))
}

func TestS3Archiver_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		client := new(mockS3)
		a := NewS3Archiver(client, "bucket", "")

		err := a.Archive(context.Background(), "k.csv", filepath.Join(t.TempDir(), "missing.csv"))

		assert.ErrorIs(t, err, os.ErrNotExist)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
	})

	t.Run("upload failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "r.csv")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		uploadErr := errors.New("AccessDenied")

		client := new(mockS3)
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, uploadErr)

		err := NewS3Archiver(client, "bucket", "").Archive(context.Background(), "k.csv", path)

		assert.ErrorIs(t, err, uploadErr)
	})
}

func TestS3Archiver_Key(t *testing.T) {
	assert.Equal(t, "daily/x.csv", NewS3Archiver(nil, "b", "").Key("daily/x.csv"))
	assert.Equal(t, "reports/daily/x.csv", NewS3Archiver(nil, "b", "reports").Key("daily/x.csv"))
	assert.Equal(t, "reports/daily/x.csv", NewS3Archiver(nil, "b", "reports/").Key("daily/x.csv"))
}
