package config

// StorageConfig contains S3-compatible object storage configuration for
// recipe images. Works with AWS S3 and MinIO (set Endpoint + UsePathStyle
// for MinIO).
type StorageConfig struct {
	// Bucket is the bucket recipe images are uploaded to.
	Bucket string `env:"BUCKET" envDefault:"recipe-images"`

	// Region is the AWS region of the bucket.
	Region string `env:"REGION" envDefault:"us-east-1"`

	// Endpoint overrides the S3 endpoint (e.g., "http://localhost:9000" for MinIO).
	// Leave empty for AWS S3.
	Endpoint string `env:"ENDPOINT" envDefault:""`

	// AccessKeyID and SecretAccessKey are static credentials.
	// Leave empty to use the ambient AWS credential chain.
	AccessKeyID     string `env:"ACCESS_KEY_ID"     envDefault:""`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY" envDefault:""`

	// UsePathStyle forces path-style addressing (required for MinIO).
	UsePathStyle bool `env:"USE_PATH_STYLE" envDefault:"false"`

	// PublicBaseURL is the base URL public image URLs are built from.
	// Leave empty to derive from Endpoint/Region + Bucket.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:""`

	// MaxUploadBytes caps the accepted image size.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	if s.MaxUploadBytes <= 0 {
		s.MaxUploadBytes = 5 << 20
	}
}
