package aws_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/codec-handler/internal/controllers/aws"
)

type fakeSSM struct {
	values map[string]string
	input  *ssm.GetParameterInput
}

func (f *fakeSSM) GetParameter(_ context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.input = params
	v, ok := f.values[awssdk.ToString(params.Name)]
	if !ok {
		return nil, errors.New("parameter not found")
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: awssdk.String(v)}}, nil
}

type fakeS3 struct {
	key  string
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = awssdk.ToString(params.Key)
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func newController(t *testing.T, ssmClient *fakeSSM, s3Client *fakeS3) *aws.Controller {
	t.Helper()
	ctl, err := aws.NewController(
		aws.WithClients(ssmClient, s3Client),
		aws.WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }))
	require.NoError(t, err)
	return ctl
}

func TestGetParameter(t *testing.T) {
	testCases := []struct {
		Name        string
		Key         string
		Encrypted   bool
		Expected    string
		ExpectError bool
	}{
		{
			Name:     "plain",
			Key:      "/products",
			Expected: `[]`,
		},
		{
			Name:      "encrypted",
			Key:       "/products",
			Encrypted: true,
			Expected:  `[]`,
		},
		{
			Name:        "missing",
			Key:         "/absent",
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			fake := &fakeSSM{values: map[string]string{"/products": `[]`}}
			v, err := newController(t, fake, &fakeS3{}).GetParameter(context.Background(), tc.Key, tc.Encrypted)
			if tc.ExpectError {
				assert.ErrorContains(t, err, tc.Key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, v)
			assert.Equal(t, tc.Encrypted, awssdk.ToBool(fake.input.WithDecryption))
		})
	}
}

func TestPutS3Object(t *testing.T) {
	t.Run("uploads", func(t *testing.T) {
		fake := &fakeS3{}
		err := newController(t, &fakeSSM{}, fake).PutS3Object(context.Background(), "req-1", "bucket", []byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, "2024-01-02T03:04:05Z.req-1", fake.key)
		assert.Equal(t, []byte(`{}`), fake.body)
	})

	t.Run("empty_bucket_is_a_noop", func(t *testing.T) {
		fake := &fakeS3{err: errors.New("unexpected call")}
		assert.NoError(t, newController(t, &fakeSSM{}, fake).PutS3Object(context.Background(), "req-1", "", []byte(`{}`)))
	})

	t.Run("failure", func(t *testing.T) {
		fake := &fakeS3{err: errors.New("denied")}
		err := newController(t, &fakeSSM{}, fake).PutS3Object(context.Background(), "req-1", "bucket", []byte(`{}`))
		assert.ErrorContains(t, err, "denied")
	})
}
