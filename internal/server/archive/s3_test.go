package archive

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/essaydesk/internal/server/config"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExporter() *S3Exporter {
	e := NewS3Exporter(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "essaydesk",
	})
	e.now = func() time.Time { return time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC) }
	return e
}

func stubAWS(t *testing.T) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := putObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		putObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestExport_UploadsAndPresigns(t *testing.T) {
	stubAWS(t)

	var uploadedKey, uploadedBody string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		assert.Equal(t, "essaydesk", *in.Bucket)
		uploadedKey = *in.Key
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		uploadedBody = string(b)
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, uploadedKey, *in.Key)
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, LinkValidity, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "http://minio/" + *in.Key}, nil
	}

	url, err := newTestExporter().Export(context.Background(), "t001", []models.StudentStats{
		{StudentID: "s1", Submissions: 1, Averages: models.ScoreSet{Argument: 3, Logic: 3, Clarity: 3, Originality: 3}},
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^exports/t001/2024/03/07/[0-9a-f-]{36}\.csv$`), uploadedKey)
	assert.Equal(t, "http://minio/"+uploadedKey, url)
	assert.Contains(t, uploadedBody, "s1,1,3.00,3.00,3.00,3.00")
}

func TestExport_Errors(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		stubAWS(t)
		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("load-fail")
		}
		_, err := newTestExporter().Export(context.Background(), "t1", nil)
		require.EqualError(t, err, "load-fail")
	})

	t.Run("upload", func(t *testing.T) {
		stubAWS(t)
		putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return nil, errors.New("put-fail")
		}
		presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			t.Fatal("presign must not run after a failed upload")
			return nil, nil
		}
		_, err := newTestExporter().Export(context.Background(), "t1", nil)
		require.ErrorContains(t, err, "error uploading export: put-fail")
	})

	t.Run("presign", func(t *testing.T) {
		stubAWS(t)
		putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return &s3.PutObjectOutput{}, nil
		}
		presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errors.New("sign-fail")
		}
		_, err := newTestExporter().Export(context.Background(), "t1", nil)
		require.ErrorContains(t, err, "error presigning export: sign-fail")
	})
}
