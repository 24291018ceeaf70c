package wizard

import (
	"testing"

	"github.com/forgecli/forge/internal/config"
)

func questionByID(t *testing.T, questions []Question, id string) Question {
	t.Helper()
	for _, q := range questions {
		if q.ID == id {
			return q
		}
	}
	t.Fatalf("no question with id %q", id)
	return Question{}
}

func TestStage1Questions(t *testing.T) {
	t.Parallel()

	questions := Stage1Questions("")
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}

	name := questionByID(t, questions, "project_name")
	if name.Default != "my-backend" {
		t.Errorf("default name = %q, want my-backend fallback", name.Default)
	}

	fw := questionByID(t, questions, "framework")
	if len(fw.Options) != 2 {
		t.Errorf("framework options = %d, want express and flask", len(fw.Options))
	}

	questions = Stage1Questions("custom")
	if got := questionByID(t, questions, "project_name").Default; got != "custom" {
		t.Errorf("default name = %q, want custom", got)
	}
}

func TestStage2QuestionsPerFramework(t *testing.T) {
	t.Parallel()

	express := Stage2Questions(config.FrameworkExpress)
	flask := Stage2Questions(config.FrameworkFlask)

	questionByID(t, express, "language")
	for _, q := range flask {
		if q.ID == "language" {
			t.Error("flask question set offers a language choice")
		}
	}

	if got := questionByID(t, express, "port").Default; got != "3000" {
		t.Errorf("express port default = %q, want 3000", got)
	}
	if got := questionByID(t, flask, "port").Default; got != "5000" {
		t.Errorf("flask port default = %q, want 5000", got)
	}
}

func TestStage2QuestionConditions(t *testing.T) {
	t.Parallel()

	questions := Stage2Questions(config.FrameworkExpress)

	uri := questionByID(t, questions, "connection_uri")
	if !uri.Condition(&Result{Database: "mongodb"}) {
		t.Error("URI question hidden for mongodb")
	}
	if uri.Condition(&Result{Database: "postgres"}) {
		t.Error("URI question shown for postgres")
	}

	host := questionByID(t, questions, "db_host")
	for _, db := range []string{"mysql", "postgres"} {
		if !host.Condition(&Result{Database: db}) {
			t.Errorf("credential questions hidden for %s", db)
		}
	}
	for _, db := range []string{"none", "mongodb", "sqlite"} {
		if host.Condition(&Result{Database: db}) {
			t.Errorf("credential questions shown for %s", db)
		}
	}

	pw := questionByID(t, questions, "db_password")
	if !pw.Secret {
		t.Error("password input is not masked")
	}
}

func TestFeatureOptions(t *testing.T) {
	t.Parallel()

	hasVenv := func(opts []Option) bool {
		for _, o := range opts {
			if o.Value == string(config.FeatureVenv) {
				return true
			}
		}
		return false
	}

	express := questionByID(t, Stage2Questions(config.FrameworkExpress), "features")
	if hasVenv(express.Options) {
		t.Error("venv offered for express")
	}

	flask := questionByID(t, Stage2Questions(config.FrameworkFlask), "features")
	if !hasVenv(flask.Options) {
		t.Error("venv missing for flask")
	}
}

func TestResolveInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		def  string
		want string
	}{
		{"explicit value", "my-api", "my-backend", "my-api"},
		{"cleared field falls back to default", "", "my-backend", "my-backend"},
		{"whitespace only falls back to default", "   ", "my-backend", "my-backend"},
		{"cleared field without default", "", "", ""},
		{"value is trimmed", "  my-api  ", "", "my-api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveInput(tt.raw, tt.def); got != tt.want {
				t.Errorf("resolveInput(%q, %q) = %q, want %q", tt.raw, tt.def, got, tt.want)
			}
		})
	}
}

func TestResultAnswersAndMerge(t *testing.T) {
	t.Parallel()

	r := &Result{Database: "mongodb", ConnectionURI: "mongodb://localhost/demo", Port: "3000"}
	r.Merge(&config.Answers{ProjectName: "demo", Framework: "express"})

	ans := r.Answers()
	if ans.ProjectName != "demo" || ans.Framework != "express" {
		t.Errorf("merge dropped stage-1 answers: %+v", ans)
	}
	if ans.ConnectionURI != "mongodb://localhost/demo" {
		t.Errorf("ConnectionURI = %q", ans.ConnectionURI)
	}

	// Freshly collected values win over merged ones.
	r2 := &Result{ProjectName: "explicit"}
	r2.Merge(&config.Answers{ProjectName: "stashed"})
	if r2.ProjectName != "explicit" {
		t.Errorf("ProjectName = %q, want explicit", r2.ProjectName)
	}
}
