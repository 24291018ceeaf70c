package wizard

import (
	"strconv"

	"github.com/forgecli/forge/internal/config"
)

// Stage1Questions returns the minimal question set of the bootstrap
// stage: project name and framework only. Everything else is collected
// by stage 2 in its own process invocation.
func Stage1Questions(defaultName string) []Question {
	if defaultName == "" {
		defaultName = "my-backend"
	}

	return []Question{
		{
			ID:          "project_name",
			Type:        QuestionTypeInput,
			Title:       "Enter project name",
			Description: "A new directory with this name will be created.",
			Default:     defaultName,
			Required:    true,
		},
		{
			ID:          "framework",
			Type:        QuestionTypeSelect,
			Title:       "Select backend framework",
			Description: "Determines the language and layout of the generated project.",
			Options: []Option{
				{Label: "Express", Value: "express", Desc: "Node.js web framework"},
				{Label: "Flask", Value: "flask", Desc: "Python web framework"},
			},
			Default:  "express",
			Required: true,
		},
	}
}

// Stage2Questions returns the framework-specific remainder of the
// configuration. Database detail questions are conditional on the chosen
// backend.
func Stage2Questions(fw config.Framework) []Question {
	var questions []Question

	if fw == config.FrameworkExpress {
		questions = append(questions, Question{
			ID:          "language",
			Type:        QuestionTypeSelect,
			Title:       "Select language",
			Description: "TypeScript adds a build step, type packages, and a tsconfig.",
			Options: []Option{
				{Label: "JavaScript", Value: "javascript", Desc: "Plain CommonJS sources"},
				{Label: "TypeScript", Value: "typescript", Desc: "Typed sources compiled to dist/"},
			},
			Default:  "javascript",
			Required: true,
		})
	}

	questions = append(questions,
		Question{
			ID:          "database",
			Type:        QuestionTypeSelect,
			Title:       "Select database",
			Description: "The data-access layer is generated for the chosen backend.",
			Options: []Option{
				{Label: "None", Value: "none", Desc: "In-memory store, no external service"},
				{Label: "MongoDB", Value: "mongodb", Desc: "Document store via connection URI"},
				{Label: "MySQL", Value: "mysql", Desc: "Relational, host credentials"},
				{Label: "PostgreSQL", Value: "postgres", Desc: "Relational, host credentials"},
				{Label: "SQLite", Value: "sqlite", Desc: "Embedded database file"},
			},
			Default:  "none",
			Required: true,
		},
		Question{
			ID:          "connection_uri",
			Type:        QuestionTypeInput,
			Title:       "Enter MongoDB connection URI",
			Description: "mongodb://... or mongodb+srv://...",
			Required:    true,
			Condition: func(r *Result) bool {
				return r.Database == string(config.DBMongo)
			},
		},
	)

	questions = append(questions, credentialQuestions()...)

	questions = append(questions,
		Question{
			ID:          "features",
			Type:        QuestionTypeMultiSelect,
			Title:       "Select optional features",
			Description: "Space toggles, Enter confirms. Leave empty to skip.",
			Options:     featureOptions(fw),
		},
		Question{
			ID:          "port",
			Type:        QuestionTypeInput,
			Title:       "Enter server port",
			Description: "Port the generated application listens on.",
			Default:     strconv.Itoa(config.DefaultPort(fw)),
			Required:    true,
		},
	)

	return questions
}

// credentialQuestions returns the host-credential questions shown only
// for networked relational backends. The port default comes from the
// chosen backend during validation, so it stays optional here.
func credentialQuestions() []Question {
	relational := func(r *Result) bool {
		return config.Database(r.Database).IsRelational()
	}

	return []Question{
		{
			ID:        "db_host",
			Type:      QuestionTypeInput,
			Title:     "Database host",
			Default:   "localhost",
			Required:  true,
			Condition: relational,
		},
		{
			ID:          "db_port",
			Type:        QuestionTypeInput,
			Title:       "Database port",
			Description: "Leave empty for the backend default (3306 for MySQL, 5432 for PostgreSQL).",
			Condition:   relational,
		},
		{
			ID:        "db_user",
			Type:      QuestionTypeInput,
			Title:     "Database user",
			Required:  true,
			Condition: relational,
		},
		{
			ID:        "db_password",
			Type:      QuestionTypeInput,
			Title:     "Database password",
			Required:  true,
			Secret:    true,
			Condition: relational,
		},
		{
			ID:        "db_name",
			Type:      QuestionTypeInput,
			Title:     "Database name",
			Required:  true,
			Condition: relational,
		},
	}
}

// featureOptions lists the feature flags that apply to a framework.
func featureOptions(fw config.Framework) []Option {
	opts := []Option{
		{Label: "CORS", Value: string(config.FeatureCORS), Desc: "Cross-origin middleware"},
		{Label: "Auto reload", Value: string(config.FeatureAutoReload), Desc: "Restart the dev server on changes"},
	}
	if fw == config.FrameworkFlask {
		opts = append(opts, Option{
			Label: "Virtual environment",
			Value: string(config.FeatureVenv),
			Desc:  "Create .venv during dependency installation",
		})
	}
	return opts
}
