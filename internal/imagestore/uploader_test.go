package imagestore

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gourmich/recipeform/internal/testhelpers"
	"github.com/gourmich/recipeform/internal/validation"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func offlineClient() *s3.Client {
	return s3.New(s3.Options{
		Region: "eu-west-3",
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}, nil
		}),
	})
}

func TestUpload(t *testing.T) {
	put := &fakePutter{}
	u := newUploader(put, nil, "gourmich-images", "https://cdn.example.com/", testhelpers.DiscardLogger())

	got, err := u.Upload(context.Background(), pngHeader)
	require.NoError(t, err)

	require.Len(t, put.inputs, 1)
	in := put.inputs[0]
	assert.Equal(t, "gourmich-images", aws.ToString(in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(in.ContentType))
	assert.True(t, strings.HasPrefix(aws.ToString(in.Key), "recipe-images/"))
	assert.True(t, strings.HasSuffix(aws.ToString(in.Key), ".png"))
	assert.Equal(t, pngHeader, put.bodies[0])

	assert.Equal(t, "https://cdn.example.com/"+aws.ToString(in.Key), got)
	assert.True(t, validation.ImageURL.MatchString(got), "upload URL must pass the imageUrl rule")
}

func TestUpload_Rejects(t *testing.T) {
	ctx := context.Background()
	put := &fakePutter{}
	u := newUploader(put, nil, "b", "https://cdn.example.com", testhelpers.DiscardLogger())

	_, err := u.Upload(ctx, nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = u.Upload(ctx, []byte("just some text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = u.Upload(ctx, make([]byte, MaxSize+1))
	assert.ErrorIs(t, err, ErrTooLarge)

	assert.Empty(t, put.inputs)

	put.err = errors.New("access denied")
	_, err = u.Upload(ctx, pngHeader)
	assert.ErrorContains(t, err, "access denied")
}

func TestUploadFile_Missing(t *testing.T) {
	u := newUploader(&fakePutter{}, nil, "b", "https://cdn.example.com", testhelpers.DiscardLogger())
	_, err := u.UploadFile(context.Background(), t.TempDir()+"/missing.png")
	assert.Error(t, err)
}

func TestPresignedURL(t *testing.T) {
	u := New(offlineClient(), "gourmich-images", "https://cdn.example.com", testhelpers.DiscardLogger())

	raw, err := u.PresignedURL(context.Background(), "https://cdn.example.com/recipe-images/abc.png", 15*time.Minute)
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Contains(t, parsed.Host+parsed.Path, "gourmich-images")
	assert.True(t, strings.HasSuffix(parsed.Path, "/recipe-images/abc.png"))
	assert.Equal(t, "900", parsed.Query().Get("X-Amz-Expires"))
}
