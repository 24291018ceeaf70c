package manifest

import (
	"sort"
	"strings"
	"testing"

	"github.com/forgecli/forge/internal/config"
)

func buildConfig(t *testing.T, ans config.Answers) *config.Config {
	t.Helper()
	cfg, err := config.Build(ans)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	return cfg
}

func TestBuildBootstrap(t *testing.T) {
	t.Parallel()

	pkg := BuildBootstrap("demo", config.FrameworkExpress)

	if !pkg.HasHook() {
		t.Fatal("bootstrap manifest must carry the lifecycle hook")
	}
	if got := pkg.Scripts[HookKey]; got != "node "+ShimPath {
		t.Errorf("hook = %q, want shim invocation", got)
	}
	if _, ok := pkg.Dependencies["cross-spawn"]; !ok {
		t.Error("bootstrap manifest missing the shim's spawn dependency")
	}
	if _, ok := pkg.Dependencies["express"]; ok {
		t.Error("final project dependencies must not leak into the bootstrap manifest")
	}
	if !pkg.Private {
		t.Error("bootstrap manifest must be private")
	}
}

func TestBuildFinalExpressNoHook(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, config.Answers{
		ProjectName: "demo",
		Framework:   "express",
		Database:    "none",
		Features:    []string{"cors"},
		Port:        "3000",
	})

	pkg := BuildFinal(cfg)
	if pkg.HasHook() {
		t.Error("final manifest must not re-fire the bootstrap hook")
	}
	if _, ok := pkg.Dependencies["cors"]; !ok {
		t.Error("cors feature selected but dependency missing")
	}
	for _, driver := range []string{"mongoose", "mysql2", "pg", "better-sqlite3"} {
		if _, ok := pkg.Dependencies[driver]; ok {
			t.Errorf("database none must not pull driver %s", driver)
		}
	}
	if pkg.Scripts["start"] != "node src/index.js" {
		t.Errorf("start = %q, want node src/index.js", pkg.Scripts["start"])
	}
	if pkg.Scripts["dev"] != pkg.Scripts["start"] {
		t.Error("without auto-reload the dev script aliases start")
	}
	if _, ok := pkg.Scripts["build"]; ok {
		t.Error("javascript projects have no build step")
	}
}

func TestBuildFinalFeatureGrowthIsMonotonic(t *testing.T) {
	t.Parallel()

	base := buildConfig(t, config.Answers{
		ProjectName: "demo",
		Framework:   "express",
		Database:    "none",
		Port:        "3000",
	})
	full := buildConfig(t, config.Answers{
		ProjectName:  "demo",
		Framework:    "express",
		LanguageMode: "typescript",
		Database:     "postgres",
		DBHost:       "localhost",
		DBUser:       "app",
		DBPassword:   "secret",
		DBName:       "demo",
		Features:     []string{"cors", "autoreload"},
		Port:         "3000",
	})

	basePkg := BuildFinal(base)
	fullPkg := BuildFinal(full)

	for name := range basePkg.Dependencies {
		if _, ok := fullPkg.Dependencies[name]; !ok {
			t.Errorf("dependency %s lost when enabling flags", name)
		}
	}
	for name := range basePkg.DevDependencies {
		if _, ok := fullPkg.DevDependencies[name]; !ok {
			t.Errorf("dev dependency %s lost when enabling flags", name)
		}
	}
}

func TestBuildFinalTypeScript(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, config.Answers{
		ProjectName:  "demo",
		Framework:    "express",
		LanguageMode: "typescript",
		Database:     "none",
		Port:         "3000",
	})

	pkg := BuildFinal(cfg)
	if pkg.Scripts["build"] == "" {
		t.Error("typed projects need a build script")
	}
	if pkg.Main != "dist/index.js" {
		t.Errorf("Main = %q, want dist/index.js", pkg.Main)
	}
	for _, dep := range []string{"typescript", "ts-node", "ts-jest", "@types/express", "@types/node"} {
		if _, ok := pkg.DevDependencies[dep]; !ok {
			t.Errorf("typed toolchain missing %s", dep)
		}
	}
}

func TestBuildFinalFlaskScripts(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, config.Answers{
		ProjectName: "demo",
		Framework:   "flask",
		Database:    "none",
		Features:    []string{"venv"},
		Port:        "5000",
	})

	pkg := BuildFinal(cfg)
	if pkg.HasHook() {
		t.Error("final manifest must not re-fire the bootstrap hook")
	}
	if len(pkg.Dependencies) != 0 {
		t.Errorf("flask manifest carries npm dependencies: %v", pkg.Dependencies)
	}
	if !strings.HasPrefix(pkg.Scripts["start"], ".venv/bin/python") {
		t.Errorf("start = %q, want venv interpreter", pkg.Scripts["start"])
	}
}

func TestBuildRequirements(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, config.Answers{
		ProjectName: "demo",
		Framework:   "flask",
		Database:    "postgres",
		DBHost:      "localhost",
		DBUser:      "app",
		DBPassword:  "secret",
		DBName:      "demo",
		Features:    []string{"cors"},
		Port:        "5000",
	})

	reqs := BuildRequirements(cfg)
	if !sort.StringsAreSorted(reqs) {
		t.Errorf("requirements not sorted: %v", reqs)
	}

	joined := strings.Join(reqs, "\n")
	for _, want := range []string{"Flask>=", "python-dotenv>=", "flask-cors>=", "SQLAlchemy>=", "psycopg2-binary>="} {
		if !strings.Contains(joined, want) {
			t.Errorf("requirements missing %s: %v", want, reqs)
		}
	}
	if strings.Contains(joined, "PyMySQL") {
		t.Error("postgres configuration must not pull the mysql driver")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	pkg := BuildBootstrap("demo", config.FrameworkExpress)
	data, err := pkg.Encode()
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	if data[len(data)-1] != '\n' {
		t.Error("encoded manifest missing trailing newline")
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if decoded.Name != "demo" || !decoded.HasHook() {
		t.Errorf("round trip lost fields: %+v", decoded)
	}

	again, err := decoded.Encode()
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	if string(again) != string(data) {
		t.Error("encoding is not deterministic across a round trip")
	}
}
