package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// projectNamePattern restricts project names to npm-safe identifiers.
var projectNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// connectionURIPattern matches the plain and TLS variants of the MongoDB
// connection-string grammar.
var connectionURIPattern = regexp.MustCompile(`^mongodb(\+srv)?://\S+$`)

// Build validates raw answers and returns an immutable Config.
// It is pure: the target-directory collision check is separate
// (see CheckTargetDir) so callers decide when to touch the filesystem.
func Build(ans Answers) (*Config, error) {
	var errs []ValidationError

	name := strings.TrimSpace(ans.ProjectName)
	if name == "" {
		errs = append(errs, ValidationError{
			Field:   "project_name",
			Message: "must not be empty",
			Wrapped: ErrInvalidProjectName,
		})
	} else if !projectNamePattern.MatchString(name) {
		errs = append(errs, ValidationError{
			Field:   "project_name",
			Message: "must start with a lowercase letter or digit and contain only lowercase letters, digits, '.', '_' or '-'",
			Value:   name,
			Wrapped: ErrInvalidProjectName,
		})
	}

	fw := Framework(strings.ToLower(strings.TrimSpace(ans.Framework)))
	if !fw.IsValid() {
		errs = append(errs, ValidationError{
			Field:   "framework",
			Message: "must be one of: express, flask",
			Value:   ans.Framework,
			Wrapped: ErrUnknownFramework,
		})
	}

	cfg := &Config{
		ProjectName: name,
		Framework:   fw,
	}

	validateLanguage(ans, cfg, &errs)
	validateDatabase(ans, cfg, &errs)
	validateFeatures(ans, cfg, &errs)
	validatePort(ans, cfg, &errs)

	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}
	return cfg, nil
}

// validateLanguage resolves the language mode. The mode only applies to
// Express; for Flask it is cleared regardless of input.
func validateLanguage(ans Answers, cfg *Config, errs *[]ValidationError) {
	if cfg.Framework != FrameworkExpress {
		cfg.LanguageMode = ""
		return
	}
	raw := strings.ToLower(strings.TrimSpace(ans.LanguageMode))
	if raw == "" {
		cfg.LanguageMode = LangJavaScript
		return
	}
	mode := LanguageMode(raw)
	if !mode.IsValid() {
		*errs = append(*errs, ValidationError{
			Field:   "language",
			Message: "must be one of: javascript, typescript",
			Value:   ans.LanguageMode,
			Wrapped: ErrUnknownLanguage,
		})
		return
	}
	cfg.LanguageMode = mode
}

// validateDatabase resolves the database choice together with its
// credentials or connection URI. Exactly one of the two is populated,
// and only when the backend needs it.
func validateDatabase(ans Answers, cfg *Config, errs *[]ValidationError) {
	raw := strings.ToLower(strings.TrimSpace(ans.Database))
	if raw == "" {
		raw = string(DBNone)
	}
	db := Database(raw)
	if !db.IsValid() {
		*errs = append(*errs, ValidationError{
			Field:   "database",
			Message: "must be one of: none, mongodb, mysql, postgres, sqlite",
			Value:   ans.Database,
			Wrapped: ErrUnknownDatabase,
		})
		return
	}
	cfg.Database = db

	switch {
	case db == DBMongo:
		uri := strings.TrimSpace(ans.ConnectionURI)
		if !connectionURIPattern.MatchString(uri) {
			*errs = append(*errs, ValidationError{
				Field:   "connection_uri",
				Message: "must match mongodb://... or mongodb+srv://...",
				Value:   ans.ConnectionURI,
				Wrapped: ErrInvalidConnectionURI,
			})
			return
		}
		cfg.ConnectionURI = uri

	case db.IsRelational():
		creds, credErrs := buildCredentials(ans, db)
		if len(credErrs) > 0 {
			*errs = append(*errs, credErrs...)
			return
		}
		cfg.Credentials = creds
	}
}

// buildCredentials validates relational credentials and applies the
// backend's conventional port when none is given.
func buildCredentials(ans Answers, db Database) (*Credentials, []ValidationError) {
	var errs []ValidationError

	required := []struct{ field, value string }{
		{"db_host", ans.DBHost},
		{"db_user", ans.DBUser},
		{"db_password", ans.DBPassword},
		{"db_name", ans.DBName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, ValidationError{
				Field:   r.field,
				Message: "required for " + string(db),
				Wrapped: ErrMissingCredentials,
			})
		}
	}

	port := defaultDBPort(db)
	if raw := strings.TrimSpace(ans.DBPort); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 || p > 65535 {
			errs = append(errs, ValidationError{
				Field:   "db_port",
				Message: "must be an integer between 1 and 65535",
				Value:   ans.DBPort,
				Wrapped: ErrInvalidPort,
			})
		} else {
			port = p
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &Credentials{
		Host:     strings.TrimSpace(ans.DBHost),
		Port:     port,
		User:     strings.TrimSpace(ans.DBUser),
		Password: ans.DBPassword,
		Database: strings.TrimSpace(ans.DBName),
	}, nil
}

// validateFeatures resolves feature flags, rejecting unknown values and
// flags that do not apply to the chosen framework.
func validateFeatures(ans Answers, cfg *Config, errs *[]ValidationError) {
	seen := map[Feature]bool{}
	for _, raw := range ans.Features {
		f := Feature(strings.ToLower(strings.TrimSpace(raw)))
		if f == "" {
			continue
		}
		if !f.IsValid() {
			*errs = append(*errs, ValidationError{
				Field:   "features",
				Message: "must be one of: cors, autoreload, venv",
				Value:   raw,
				Wrapped: ErrUnknownFeature,
			})
			continue
		}
		if f == FeatureVenv && cfg.Framework == FrameworkExpress {
			*errs = append(*errs, ValidationError{
				Field:   "features",
				Message: "venv applies only to flask projects",
				Value:   raw,
				Wrapped: ErrUnknownFeature,
			})
			continue
		}
		if !seen[f] {
			seen[f] = true
			cfg.Features = append(cfg.Features, f)
		}
	}
}

// validatePort resolves the server port, defaulting per framework.
func validatePort(ans Answers, cfg *Config, errs *[]ValidationError) {
	raw := strings.TrimSpace(ans.Port)
	if raw == "" {
		cfg.Port = DefaultPort(cfg.Framework)
		return
	}
	p, err := strconv.Atoi(raw)
	if err != nil || p < 1 || p > 65535 {
		*errs = append(*errs, ValidationError{
			Field:   "port",
			Message: "must be an integer between 1 and 65535",
			Value:   ans.Port,
			Wrapped: ErrInvalidPort,
		})
		return
	}
	cfg.Port = p
}

// CheckTargetDir rejects a target directory that already exists.
// This is the only filesystem touch in the package; Build stays pure.
func CheckTargetDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return &ValidationError{
			Field:   "project_name",
			Message: fmt.Sprintf("directory %q already exists; choose another name or remove it", dir),
			Wrapped: ErrProjectExists,
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	return nil
}
