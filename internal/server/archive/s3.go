// Package archive uploads group statistics exports to S3-compatible storage
// and hands back presigned download links.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	sc "github.com/dmitrijs2005/essaydesk/internal/server/config"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// LinkValidity is how long an export download link stays usable.
const LinkValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Exporter writes CSV exports into one bucket.
type S3Exporter struct {
	config *sc.Config
	now    func() time.Time
}

func NewS3Exporter(cfg *sc.Config) *S3Exporter {
	return &S3Exporter{config: cfg, now: time.Now}
}

// StorageKey places an export under its teacher and upload date.
func StorageKey(teacherID string, d time.Time) string {
	return fmt.Sprintf("exports/%s/%d/%02d/%02d/%v.csv", teacherID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (e *S3Exporter) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(e.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.config.S3RootUser,
			e.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(e.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export uploads rows as CSV and returns a presigned GET URL for the object.
func (e *S3Exporter) Export(ctx context.Context, teacherID string, rows []models.StudentStats) (string, error) {
	body, err := StatsCSV(rows)
	if err != nil {
		return "", fmt.Errorf("error rendering export: %w", err)
	}

	client, err := e.client(ctx)
	if err != nil {
		return "", err
	}

	bucket := e.config.S3Bucket
	key := StorageKey(teacherID, e.now())

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	}); err != nil {
		return "", fmt.Errorf("error uploading export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(LinkValidity))
	if err != nil {
		return "", fmt.Errorf("error presigning export: %w", err)
	}

	return req.URL, nil
}
