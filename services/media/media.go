package media

import (
	"fmt"

	"localpro/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// URLResolver turns a stored media key into a servable URL. The matching
// core never constructs URLs itself; handlers call through this boundary.
type URLResolver interface {
	ProfilePictureURL(key string) (string, error)
}

// CloudinaryResolver resolves media keys against Cloudinary.
type CloudinaryResolver struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryResolver builds a resolver from the app configuration.
func NewCloudinaryResolver() (*CloudinaryResolver, error) {
	cfg := config.AppConfig
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryResolver{cld: cld}, nil
}

// ProfilePictureURL resolves a stored image key. An empty key resolves to
// an empty URL rather than an error.
func (r *CloudinaryResolver) ProfilePictureURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	img, err := r.cld.Image(key)
	if err != nil {
		return "", fmt.Errorf("failed to build image asset for %q: %w", key, err)
	}
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to resolve image URL for %q: %w", key, err)
	}
	return url, nil
}
