// Package wizard provides the interactive question forms that collect
// scaffolding answers, one huh form per question. Stage 1 asks only for
// the project name and framework; stage 2 collects the framework-specific
// remainder inside the target directory.
package wizard

import (
	"errors"

	"github.com/forgecli/forge/internal/config"
)

// Result holds the raw selections of a wizard run.
type Result struct {
	ProjectName  string
	Framework    string
	LanguageMode string
	Database     string
	Features     []string
	Port         string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ConnectionURI string
}

// Answers converts the wizard result into the validation input shared
// with flags and preset files.
func (r *Result) Answers() *config.Answers {
	return &config.Answers{
		ProjectName:   r.ProjectName,
		Framework:     r.Framework,
		LanguageMode:  r.LanguageMode,
		Database:      r.Database,
		Features:      r.Features,
		Port:          r.Port,
		DBHost:        r.DBHost,
		DBPort:        r.DBPort,
		DBUser:        r.DBUser,
		DBPassword:    r.DBPassword,
		DBName:        r.DBName,
		ConnectionURI: r.ConnectionURI,
	}
}

// Merge copies non-empty fields of other into the result. Stage 2 uses
// this to layer stage-1 answers under freshly collected ones.
func (r *Result) Merge(other *config.Answers) {
	if r.ProjectName == "" {
		r.ProjectName = other.ProjectName
	}
	if r.Framework == "" {
		r.Framework = other.Framework
	}
}

// QuestionType represents the type of wizard question.
type QuestionType int

const (
	// QuestionTypeSelect is a single-choice selection question.
	QuestionTypeSelect QuestionType = iota
	// QuestionTypeInput is a text input question.
	QuestionTypeInput
	// QuestionTypeMultiSelect is a multiple-choice selection question.
	QuestionTypeMultiSelect
)

// Question defines a single wizard question.
type Question struct {
	ID          string               // Unique identifier
	Type        QuestionType         // Select, Input, or MultiSelect
	Title       string               // Question title
	Description string               // Additional description
	Options     []Option             // Options for select questions
	Default     string               // Default value
	Required    bool                 // Whether the field is required
	Secret      bool                 // Mask input (passwords)
	Condition   func(*Result) bool   // Condition for showing this question
}

// Option represents a selectable option.
type Option struct {
	Label string // Display label
	Value string // Actual value stored
	Desc  string // Optional description
}

// Error definitions for the wizard package.
var (
	// ErrCancelled indicates the user aborted the wizard.
	ErrCancelled = errors.New("wizard: cancelled by user")

	// ErrNoQuestions indicates Run was called with an empty question set.
	ErrNoQuestions = errors.New("wizard: no questions to ask")
)
