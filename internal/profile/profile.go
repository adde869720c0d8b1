package profile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for the server
	Addr string
	// Port is the binding port for the server
	Port int
	// Version is the current version of the server
	Version string

	// CORSOrigins is the list of origins allowed to call the API.
	CORSOrigins []string // CORS_ORIGINS (comma-separated, default: http://localhost:3000)

	// AWSRegion is the region used for the S3 conversation backend.
	AWSRegion string // DEFAULT_AWS_REGION (default: us-east-1)

	// OpenAI configuration
	OpenAIAPIKey string // OPENAI_API_KEY
	OpenAIModel  string // OPENAI_MODEL (default: gpt-4o-mini)

	// Conversation storage
	UseS3     bool   // USE_S3 (default: false)
	S3Bucket  string // S3_BUCKET
	MemoryDir string // MEMORY_DIR (default: ./memory)

	// DataDir is the directory holding the persona resource files.
	DataDir string // DATA_DIR (default: ./data)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// StorageName returns the human-readable name of the active conversation backend.
func (p *Profile) StorageName() string {
	if p.UseS3 {
		return "S3"
	}
	return "local"
}

// FromEnv loads configuration from environment variables.
func FromEnv(version string) *Profile {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("MODE", "dev")
	v.SetDefault("ADDR", "")
	v.SetDefault("PORT", 8000)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEFAULT_AWS_REGION", "us-east-1")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("USE_S3", false)
	v.SetDefault("MEMORY_DIR", "./memory")
	v.SetDefault("DATA_DIR", "./data")

	return &Profile{
		Mode:         v.GetString("MODE"),
		Addr:         v.GetString("ADDR"),
		Port:         v.GetInt("PORT"),
		Version:      version,
		CORSOrigins:  splitOrigins(v.GetString("CORS_ORIGINS")),
		AWSRegion:    v.GetString("DEFAULT_AWS_REGION"),
		OpenAIAPIKey: v.GetString("OPENAI_API_KEY"),
		OpenAIModel:  v.GetString("OPENAI_MODEL"),
		UseS3:        v.GetBool("USE_S3"),
		S3Bucket:     v.GetString("S3_BUCKET"),
		MemoryDir:    v.GetString("MEMORY_DIR"),
		DataDir:      v.GetString("DATA_DIR"),
	}
}

// Validate checks the profile for inconsistent settings and normalizes paths.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}

	if p.UseS3 && p.S3Bucket == "" {
		return errors.New("S3_BUCKET is required when USE_S3 is true")
	}

	if !p.UseS3 {
		dir, err := filepath.Abs(p.MemoryDir)
		if err != nil {
			return errors.Wrapf(err, "unable to resolve memory dir %s", p.MemoryDir)
		}
		p.MemoryDir = dir
	}

	if len(p.CORSOrigins) == 0 {
		p.CORSOrigins = []string{"http://localhost:3000"}
	}

	return nil
}

// ListenAddr returns the address the HTTP server binds to.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
