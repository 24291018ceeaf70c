package scaffold

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/forgecli/forge/internal/config"
)

// Sentinel errors for generation.
var (
	// ErrUnsupportedVariant indicates a (framework, database, language)
	// combination with no registered builder.
	ErrUnsupportedVariant = errors.New("scaffold: unsupported variant")

	// ErrMixedBatch indicates generated sources with inconsistent
	// extensions, which would break cross-file imports.
	ErrMixedBatch = errors.New("scaffold: mixed language modes in one batch")
)

// Generate produces the complete final-stage file set for a configuration.
// The batch is assembled in full before being returned; callers hand it to
// the project writer as a unit.
func Generate(cfg *config.Config) ([]FileSpec, error) {
	data := newTemplateData(cfg)

	var specs []FileSpec
	var err error
	switch cfg.Framework {
	case config.FrameworkExpress:
		specs, err = generateExpress(cfg, data)
	case config.FrameworkFlask:
		specs, err = generateFlask(cfg, data)
	default:
		return nil, fmt.Errorf("%w: framework %q", ErrUnsupportedVariant, cfg.Framework)
	}
	if err != nil {
		return nil, err
	}

	common, err := commonFiles(cfg, data)
	if err != nil {
		return nil, err
	}
	specs = append(specs, common...)

	if err := checkBatchConsistency(cfg, specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// newTemplateData bakes all configuration-derived values once.
func newTemplateData(cfg *config.Config) *templateData {
	data := &templateData{
		ProjectName:    cfg.ProjectName,
		Port:           cfg.Port,
		APIPrefix:      apiPrefix,
		CORS:           cfg.HasFeature(config.FeatureCORS),
		AutoReload:     cfg.HasFeature(config.FeatureAutoReload),
		Venv:           cfg.HasFeature(config.FeatureVenv),
		Database:       string(cfg.Database),
		ConnectionURI:  cfg.ConnectionURI,
		SQLitePath:     defaultSQLitePath,
		ConnectRetries: connectRetries,
		RetryDelayMS:   connectRetryDelayMS,
	}
	if cfg.Framework == config.FrameworkExpress {
		data.Ext = "js"
		if cfg.TypeScript() {
			data.Ext = "ts"
		}
	}
	if c := cfg.Credentials; c != nil {
		data.DBHost = c.Host
		data.DBPort = c.Port
		data.DBUser = c.User
		data.DBPassword = c.Password
		data.DBName = c.Database
	}
	return data
}

// checkBatchConsistency enforces the single-extension-scheme invariant:
// an Express batch contains only .js or only .ts sources, never both.
func checkBatchConsistency(cfg *config.Config, specs []FileSpec) error {
	if cfg.Framework != config.FrameworkExpress {
		return nil
	}
	want := ".js"
	if cfg.TypeScript() {
		want = ".ts"
	}
	for _, s := range specs {
		ext := path.Ext(s.RelPath)
		if ext != ".js" && ext != ".ts" {
			continue
		}
		if strings.HasPrefix(s.RelPath, "src/") || strings.HasPrefix(s.RelPath, "test/") {
			if ext != want {
				return fmt.Errorf("%w: %s has %s, batch expects %s", ErrMixedBatch, s.RelPath, ext, want)
			}
		}
	}
	return nil
}
