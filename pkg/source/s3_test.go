package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	gotKey  string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gotKey = *params.Bucket + "/" + *params.Key
	body, ok := f.objects[f.gotKey]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source_Load(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"labo/registre/souchier.csv": registryCSV}}

	src, err := ParseSpec("s3://labo/registre/souchier.csv", Options{})
	require.NoError(t, err)
	s3src := src.(*S3Source)
	s3src.Client = client

	cat, err := s3src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, cat, 2)
	require.Equal(t, "labo/registre/souchier.csv", client.gotKey)
	require.Equal(t, "s3://labo/registre/souchier.csv", s3src.Name())
}

func TestS3Source_MissingObject(t *testing.T) {
	src := &S3Source{Bucket: "labo", Key: "absent.csv", Client: &fakeS3{}}

	_, err := NewLoader(src, nil).Load(context.Background())
	require.True(t, IsLoadError(err))
	require.Contains(t, err.Error(), "NoSuchKey")
}

func TestNewS3Client_StaticCredentials(t *testing.T) {
	client, err := newS3Client(context.Background(), S3Config{
		Region:          "eu-west-3",
		Endpoint:        "http://minio:9000",
		PathStyle:       true,
		AccessKeyID:     "labo",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	opts := client.Options()
	require.Equal(t, "eu-west-3", opts.Region)
	require.True(t, opts.UsePathStyle)
	require.Equal(t, "http://minio:9000", *opts.BaseEndpoint)

	creds, err := opts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "labo", creds.AccessKeyID)
	require.Equal(t, "secret", creds.SecretAccessKey)
}
