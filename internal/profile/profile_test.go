package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	p := FromEnv("test")

	assert.Equal(t, "dev", p.Mode)
	assert.Equal(t, 8000, p.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, p.CORSOrigins)
	assert.Equal(t, "us-east-1", p.AWSRegion)
	assert.Equal(t, "gpt-4o-mini", p.OpenAIModel)
	assert.False(t, p.UseS3)
	assert.Equal(t, "./memory", p.MemoryDir)
	assert.Equal(t, "./data", p.DataDir)
	assert.Equal(t, "test", p.Version)
}

func TestFromEnv_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("USE_S3", "true")
	t.Setenv("S3_BUCKET", "twin-conversations")
	t.Setenv("DEFAULT_AWS_REGION", "eu-west-1")

	p := FromEnv("test")

	assert.Equal(t, 9090, p.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, p.CORSOrigins)
	assert.Equal(t, "gpt-4o", p.OpenAIModel)
	assert.True(t, p.UseS3)
	assert.Equal(t, "twin-conversations", p.S3Bucket)
	assert.Equal(t, "eu-west-1", p.AWSRegion)
	assert.Equal(t, "S3", p.StorageName())
}

func TestValidate(t *testing.T) {
	t.Run("s3 requires bucket", func(t *testing.T) {
		p := FromEnv("test")
		p.UseS3 = true
		p.S3Bucket = ""
		require.Error(t, p.Validate())
	})

	t.Run("rejects bad port", func(t *testing.T) {
		p := FromEnv("test")
		p.Port = -1
		require.Error(t, p.Validate())
	})

	t.Run("normalizes memory dir to absolute", func(t *testing.T) {
		p := FromEnv("test")
		require.NoError(t, p.Validate())
		assert.NotEqual(t, "./memory", p.MemoryDir)
	})

	t.Run("unknown mode coerced to dev", func(t *testing.T) {
		p := FromEnv("test")
		p.Mode = "staging"
		require.NoError(t, p.Validate())
		assert.Equal(t, "dev", p.Mode)
		assert.True(t, p.IsDev())
	})
}

func TestListenAddr(t *testing.T) {
	p := &Profile{Addr: "", Port: 8000}
	assert.Equal(t, ":8000", p.ListenAddr())

	p.Addr = "127.0.0.1"
	assert.Equal(t, "127.0.0.1:8000", p.ListenAddr())
}
