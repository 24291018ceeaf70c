package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/forgecli/forge/internal/config"
)

// Pinned version constraints for generated dependencies. Bumped together
// with the templates that exercise them.
const (
	verExpress      = "^4.19.2"
	verDotenv       = "^16.4.5"
	verCORS         = "^2.8.5"
	verMongoose     = "^8.5.1"
	verMySQL2       = "^3.10.2"
	verPG           = "^8.12.0"
	verBetterSQLite = "^11.1.2"

	verNodemon      = "^3.1.4"
	verTypeScript   = "^5.5.3"
	verTSNode       = "^10.9.2"
	verTSJest       = "^29.2.2"
	verJest         = "^29.7.0"
	verSupertest    = "^7.0.0"
	verTypesExpress = "^4.17.21"
	verTypesNode    = "^20.14.10"
	verTypesCORS    = "^2.8.17"
	verTypesJest    = "^29.5.12"
	verTypesSuper   = "^6.0.2"

	verCrossSpawn = "^7.0.6"
)

// BuildBootstrap derives the stage-1 manifest. Its dependency list covers
// only what the stage-2 shim needs to run; the final project's
// dependencies never appear here.
func BuildBootstrap(projectName string, fw config.Framework) *PackageJSON {
	return &PackageJSON{
		Name:        projectName,
		Version:     "0.1.0",
		Description: fmt.Sprintf("%s bootstrap (run npm install to finish scaffolding)", fw),
		Private:     true,
		Main:        ShimPath,
		Scripts: map[string]string{
			"start": "node " + ShimPath,
			HookKey: "node " + ShimPath,
		},
		Dependencies: map[string]string{
			"cross-spawn": verCrossSpawn,
		},
	}
}

// BuildFinal derives the final project manifest for a configuration.
// It carries no lifecycle hook, so the stage-2 trigger never re-fires.
// Dependency growth is monotonic per feature flag: enabling a flag only
// adds entries.
func BuildFinal(cfg *config.Config) *PackageJSON {
	if cfg.Framework == config.FrameworkFlask {
		return buildFinalFlask(cfg)
	}
	return buildFinalExpress(cfg)
}

func buildFinalExpress(cfg *config.Config) *PackageJSON {
	ts := cfg.TypeScript()

	deps := map[string]string{
		"express": verExpress,
		"dotenv":  verDotenv,
	}
	if cfg.HasFeature(config.FeatureCORS) {
		deps["cors"] = verCORS
	}
	switch cfg.Database {
	case config.DBMongo:
		deps["mongoose"] = verMongoose
	case config.DBMySQL:
		deps["mysql2"] = verMySQL2
	case config.DBPostgres:
		deps["pg"] = verPG
	case config.DBSQLite:
		deps["better-sqlite3"] = verBetterSQLite
	}

	devDeps := map[string]string{
		"jest":      verJest,
		"supertest": verSupertest,
	}
	if cfg.HasFeature(config.FeatureAutoReload) {
		devDeps["nodemon"] = verNodemon
	}
	if ts {
		devDeps["typescript"] = verTypeScript
		devDeps["ts-node"] = verTSNode
		devDeps["ts-jest"] = verTSJest
		devDeps["@types/express"] = verTypesExpress
		devDeps["@types/node"] = verTypesNode
		devDeps["@types/jest"] = verTypesJest
		devDeps["@types/supertest"] = verTypesSuper
		if cfg.HasFeature(config.FeatureCORS) {
			devDeps["@types/cors"] = verTypesCORS
		}
	}

	return &PackageJSON{
		Name:            cfg.ProjectName,
		Version:         "1.0.0",
		Description:     "Express backend scaffolded by forge",
		Main:            expressMain(cfg),
		Scripts:         expressScripts(cfg),
		Dependencies:    deps,
		DevDependencies: devDeps,
	}
}

func expressMain(cfg *config.Config) string {
	if cfg.TypeScript() {
		return "dist/index.js"
	}
	return "src/index.js"
}

// expressScripts builds the script table. start always exists; dev uses
// the auto-reload tool when the flag is set and otherwise aliases start;
// build exists only in typed mode.
func expressScripts(cfg *config.Config) map[string]string {
	ts := cfg.TypeScript()

	start := "node src/index.js"
	if ts {
		start = "node dist/index.js"
	}

	dev := start
	if cfg.HasFeature(config.FeatureAutoReload) {
		dev = "nodemon src/index.js"
		if ts {
			dev = "nodemon --exec ts-node src/index.ts"
		}
	} else if ts {
		dev = "ts-node src/index.ts"
	}

	scripts := map[string]string{
		"start": start,
		"dev":   dev,
		"test":  "jest",
	}
	if ts {
		scripts["build"] = "tsc -p tsconfig.json"
	}
	return scripts
}

// buildFinalFlask derives the npm-side manifest of a Flask project: the
// script table delegating to Python. The Python dependencies live in the
// requirements files (BuildRequirements / BuildDevRequirements).
func buildFinalFlask(cfg *config.Config) *PackageJSON {
	python := "python"
	if cfg.HasFeature(config.FeatureVenv) {
		python = ".venv/bin/python"
	}

	start := python + " app.py"
	dev := start
	if cfg.HasFeature(config.FeatureAutoReload) {
		dev = fmt.Sprintf("%s -m flask --app app run --debug --port %d", python, cfg.Port)
	}

	return &PackageJSON{
		Name:        cfg.ProjectName,
		Version:     "1.0.0",
		Description: "Flask backend scaffolded by forge",
		Private:     true,
		Scripts: map[string]string{
			"start": start,
			"dev":   dev,
			"test":  python + " -m pytest",
		},
	}
}

// Pinned ranges for generated Python dependencies.
var flaskBaseRequirements = []string{
	"Flask>=3.0,<4",
	"python-dotenv>=1.0,<2",
}

// BuildRequirements derives the runtime requirements.txt lines for a
// Flask configuration, sorted for deterministic output.
func BuildRequirements(cfg *config.Config) []string {
	reqs := append([]string{}, flaskBaseRequirements...)

	if cfg.HasFeature(config.FeatureCORS) {
		reqs = append(reqs, "flask-cors>=4.0,<5")
	}
	switch cfg.Database {
	case config.DBMongo:
		reqs = append(reqs, "pymongo>=4.8,<5")
	case config.DBMySQL:
		reqs = append(reqs, "SQLAlchemy>=2.0,<3", "PyMySQL>=1.1,<2")
	case config.DBPostgres:
		reqs = append(reqs, "SQLAlchemy>=2.0,<3", "psycopg2-binary>=2.9,<3")
	case config.DBSQLite:
		reqs = append(reqs, "SQLAlchemy>=2.0,<3")
	}

	sort.Strings(reqs)
	return reqs
}

// BuildDevRequirements derives the development requirements.
func BuildDevRequirements(cfg *config.Config) []string {
	return []string{"pytest>=8,<9"}
}

// EncodeRequirements renders requirement lines as a requirements file.
func EncodeRequirements(reqs []string) []byte {
	return []byte(strings.Join(reqs, "\n") + "\n")
}
