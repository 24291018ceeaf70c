package config

import "slices"

// Framework identifies the target backend framework.
type Framework string

const (
	// FrameworkExpress generates a Node.js project on Express.
	FrameworkExpress Framework = "express"
	// FrameworkFlask generates a Python project on Flask.
	FrameworkFlask Framework = "flask"
)

// IsValid reports whether the framework is a supported value.
func (f Framework) IsValid() bool {
	return f == FrameworkExpress || f == FrameworkFlask
}

// Frameworks lists all supported frameworks.
func Frameworks() []Framework {
	return []Framework{FrameworkExpress, FrameworkFlask}
}

// LanguageMode selects the source language of a generated Express project.
// It has no meaning for Flask projects.
type LanguageMode string

const (
	// LangJavaScript emits plain CommonJS .js sources.
	LangJavaScript LanguageMode = "javascript"
	// LangTypeScript emits .ts sources with a tsconfig and type packages.
	LangTypeScript LanguageMode = "typescript"
)

// IsValid reports whether the language mode is a supported value.
func (m LanguageMode) IsValid() bool {
	return m == LangJavaScript || m == LangTypeScript
}

// Database identifies the data-access backend of the generated project.
type Database string

const (
	// DBNone replaces the data-access layer with an in-memory store.
	DBNone Database = "none"
	// DBMongo uses MongoDB via a connection URI.
	DBMongo Database = "mongodb"
	// DBMySQL uses MySQL with host credentials.
	DBMySQL Database = "mysql"
	// DBPostgres uses PostgreSQL with host credentials.
	DBPostgres Database = "postgres"
	// DBSQLite uses a local SQLite database file.
	DBSQLite Database = "sqlite"
)

// IsValid reports whether the database choice is a supported value.
func (d Database) IsValid() bool {
	switch d {
	case DBNone, DBMongo, DBMySQL, DBPostgres, DBSQLite:
		return true
	}
	return false
}

// IsRelational reports whether the database is a networked relational store
// that requires host credentials.
func (d Database) IsRelational() bool {
	return d == DBMySQL || d == DBPostgres
}

// Databases lists all supported database choices.
func Databases() []Database {
	return []Database{DBNone, DBMongo, DBMySQL, DBPostgres, DBSQLite}
}

// Feature is an optional capability toggled into the generated project.
type Feature string

const (
	// FeatureCORS adds cross-origin middleware and its dependency.
	FeatureCORS Feature = "cors"
	// FeatureAutoReload wires a file-watching dev server (nodemon / flask debug).
	FeatureAutoReload Feature = "autoreload"
	// FeatureVenv creates an isolated Python environment during install.
	// Only meaningful for Flask projects.
	FeatureVenv Feature = "venv"
)

// IsValid reports whether the feature is a supported value.
func (f Feature) IsValid() bool {
	return f == FeatureCORS || f == FeatureAutoReload || f == FeatureVenv
}

// Credentials holds connection settings for a networked relational database.
type Credentials struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Config is the validated, immutable configuration that drives generation.
// Build it through Build; do not mutate it afterwards.
type Config struct {
	ProjectName string
	TargetDir   string // Absolute path of the project directory.

	Framework    Framework
	LanguageMode LanguageMode // Empty unless Framework is express.
	Database     Database

	Features []Feature
	Port     int

	// Exactly one of Credentials / ConnectionURI is set, and only when
	// Database requires it.
	Credentials   *Credentials
	ConnectionURI string
}

// HasFeature reports whether the given feature flag is enabled.
func (c *Config) HasFeature(f Feature) bool {
	return slices.Contains(c.Features, f)
}

// TypeScript reports whether the project is generated in typed mode.
func (c *Config) TypeScript() bool {
	return c.Framework == FrameworkExpress && c.LanguageMode == LangTypeScript
}

// Answers holds the raw, unvalidated values collected from the wizard,
// command-line flags, or a preset file. Build converts them into a Config.
type Answers struct {
	ProjectName  string   `yaml:"project_name"`
	Framework    string   `yaml:"framework"`
	LanguageMode string   `yaml:"language"`
	Database     string   `yaml:"database"`
	Features     []string `yaml:"features"`
	Port         string   `yaml:"port"`

	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`

	ConnectionURI string `yaml:"connection_uri"`
}
