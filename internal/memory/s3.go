package memory

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	twinerrors "github.com/usetwin/twin/internal/errors"
)

// s3API is the slice of the S3 client this store uses, kept narrow so tests
// can substitute a fake.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Store keeps one JSON object per session in a bucket. The client is safe
// for concurrent use across requests.
type s3Store struct {
	client s3API
	bucket string
}

// NewS3Store creates an S3-backed conversation store using the default AWS
// credential chain.
func NewS3Store(ctx context.Context, region, bucket string) (ConversationStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}
	return &s3Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (s *s3Store) Load(ctx context.Context, sessionID string) ([]Message, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(sessionID)),
	})
	if err != nil {
		// A missing object means the session has no history yet.
		var noSuchKey *types.NoSuchKey
		if stderrors.As(err, &noSuchKey) {
			return []Message{}, nil
		}
		return nil, twinerrors.StoreFailure("failed to get conversation object", errors.Wrapf(err, "session %s", sessionID))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, twinerrors.StoreFailure("failed to read conversation object", errors.Wrapf(err, "session %s", sessionID))
	}
	if len(data) == 0 {
		return []Message{}, nil
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, twinerrors.StoreFailure("failed to decode conversation object", errors.Wrapf(err, "session %s", sessionID))
	}
	return messages, nil
}

func (s *s3Store) Save(ctx context.Context, sessionID string, messages []Message) error {
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return twinerrors.StoreFailure("failed to encode conversation", errors.Wrapf(err, "session %s", sessionID))
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(sessionID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return twinerrors.StoreFailure("failed to put conversation object", errors.Wrapf(err, "session %s", sessionID))
	}
	return nil
}
