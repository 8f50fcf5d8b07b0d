package config

import "fmt"

// ImageSourceKind discriminates the image source variants.
type ImageSourceKind string

const (
	// ImageSourceLocal stages artifacts from a local build directory.
	ImageSourceLocal ImageSourceKind = "local"
	// ImageSourceRemote fetches artifacts for a build id from the artifact bucket.
	ImageSourceRemote ImageSourceKind = "remote"
)

// ImageSource is a tagged variant: exactly one of LocalPath or BuildID is set,
// and Kind names which. This replaces presence-checking a pile of optional
// fields to decide control flow.
type ImageSource struct {
	Kind      ImageSourceKind `yaml:"-"`
	LocalPath string          `yaml:"path,omitempty"`
	BuildID   string          `yaml:"build_id,omitempty"`
}

// LocalImage constructs a local-directory image source.
func LocalImage(path string) ImageSource {
	return ImageSource{Kind: ImageSourceLocal, LocalPath: path}
}

// RemoteImage constructs a build-id image source.
func RemoteImage(buildID string) ImageSource {
	return ImageSource{Kind: ImageSourceRemote, BuildID: buildID}
}

// normalize derives Kind from whichever field the YAML populated.
func (s *ImageSource) normalize() error {
	switch {
	case s.LocalPath != "" && s.BuildID != "":
		return fmt.Errorf("image: path and build_id are mutually exclusive")
	case s.LocalPath != "":
		s.Kind = ImageSourceLocal
	case s.BuildID != "":
		s.Kind = ImageSourceRemote
	default:
		return fmt.Errorf("image: either path or build_id must be set")
	}
	return nil
}

// Validate checks the variant invariant holds.
func (s ImageSource) Validate() error {
	switch s.Kind {
	case ImageSourceLocal:
		if s.LocalPath == "" {
			return fmt.Errorf("image: local source requires a path")
		}
	case ImageSourceRemote:
		if s.BuildID == "" {
			return fmt.Errorf("image: remote source requires a build_id")
		}
	default:
		return fmt.Errorf("image: either path or build_id must be set")
	}
	return nil
}

// String describes the source for logs and reports.
func (s ImageSource) String() string {
	if s.Kind == ImageSourceRemote {
		return fmt.Sprintf("build %s", s.BuildID)
	}
	return s.LocalPath
}
