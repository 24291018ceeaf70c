package scaffold

import (
	"fmt"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/forgecli/forge/internal/config"
)

// commonFiles builds the files shared by both frameworks: the runtime
// environment file, the ignore file, and the project README.
func commonFiles(cfg *config.Config, data *templateData) ([]FileSpec, error) {
	env, err := envFile(cfg)
	if err != nil {
		return nil, err
	}

	ignoreTmpl := nodeIgnore
	if cfg.Framework == config.FrameworkFlask {
		ignoreTmpl = pythonIgnore
	}
	ignore, err := render(ignoreTmpl, data)
	if err != nil {
		return nil, fmt.Errorf("ignore file: %w", err)
	}

	readmeTmpl := readmeExpress
	if cfg.Framework == config.FrameworkFlask {
		readmeTmpl = readmeFlask
	}
	readme, err := render(readmeTmpl, data)
	if err != nil {
		return nil, fmt.Errorf("readme: %w", err)
	}

	return []FileSpec{
		file(".env", env),
		file(".gitignore", ignore),
		file("README.md", readme),
	}, nil
}

// envFile produces the key=value environment file consumed by the
// generated application at process start. godotenv.Marshal sorts keys,
// which keeps generation deterministic.
func envFile(cfg *config.Config) ([]byte, error) {
	values := map[string]string{
		"PORT":       strconv.Itoa(cfg.Port),
		"SECRET_KEY": secretKeyPlaceholder,
	}

	switch cfg.Database {
	case config.DBMongo:
		values["MONGODB_URI"] = cfg.ConnectionURI
	case config.DBMySQL, config.DBPostgres:
		c := cfg.Credentials
		values["DB_HOST"] = c.Host
		values["DB_PORT"] = strconv.Itoa(c.Port)
		values["DB_USER"] = c.User
		values["DB_PASSWORD"] = c.Password
		values["DB_NAME"] = c.Database
	case config.DBSQLite:
		values["SQLITE_PATH"] = defaultSQLitePath
	}

	content, err := godotenv.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode env file: %w", err)
	}
	return []byte(content + "\n"), nil
}

var nodeIgnore = mustTemplate("node-ignore", `node_modules/
dist/
data/
.env
*.log
`)

var pythonIgnore = mustTemplate("python-ignore", `__pycache__/
*.pyc
.venv/
data/
.env
.pytest_cache/
`)

var readmeExpress = mustTemplate("readme-express", `# {{.ProjectName}}

Express backend scaffolded by forge.

## Getting started

` + "```sh" + `
npm install
npm run dev
` + "```" + `

The server listens on port {{.Port}}. Items are served under
` + "`{{.APIPrefix}}/items`" + ` (GET to list, POST to create).

Runtime settings live in ` + "`.env`" + `; adjust the port or database
settings there before starting.
`)

var readmeFlask = mustTemplate("readme-flask", `# {{.ProjectName}}

Flask backend scaffolded by forge.

## Getting started

` + "```sh" + `
{{- if .Venv}}
python -m venv .venv
. .venv/bin/activate
{{- end}}
pip install -r requirements.txt
python app.py
` + "```" + `

The server listens on port {{.Port}}. Items are served under
` + "`{{.APIPrefix}}/items`" + ` (GET to list, POST to create).

Runtime settings live in ` + "`.env`" + `; adjust the port or database
settings there before starting.
`)
