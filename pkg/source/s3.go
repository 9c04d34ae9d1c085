package source

import (
	"context"
	"fmt"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

// S3API is the subset of the S3 client used to fetch the registry object.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config selects the S3-compatible endpoint (AWS S3 or MinIO).
type S3Config struct {
	Region    string
	Endpoint  string // optional; enables a custom endpoint
	PathStyle bool

	AccessKeyID     string
	SecretAccessKey string
}

// S3Source reads a CSV object from a bucket.
type S3Source struct {
	Bucket string
	Key    string
	Config S3Config

	// Client overrides the client built from Config (tests).
	Client S3API
}

// Name returns the s3:// URL of the object
func (s *S3Source) Name() string { return "s3://" + s.Bucket + "/" + s.Key }

// Load fetches and decodes the object
func (s *S3Source) Load(ctx context.Context) (catalog.Catalog, error) {
	client := s.Client
	if client == nil {
		c, err := newS3Client(ctx, s.Config)
		if err != nil {
			return nil, err
		}
		client = c
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	return catalog.DecodeCSV(out.Body)
}

// newS3Client builds a client from static keys when given, otherwise from
// the default credentials chain.
func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
