package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Run executes the wizard and returns the result. Each question runs as
// its own independent huh.Form so conditional questions can inspect the
// answers collected so far.
func Run(questions []Question) (*Result, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	result := &Result{}

	for i := range questions {
		q := &questions[i]

		// Skip questions whose condition is not met.
		if q.Condition != nil && !q.Condition(result) {
			continue
		}

		value, values, field := buildField(q)
		form := huh.NewForm(huh.NewGroup(field)).WithAccessible(false)

		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("wizard error: %w", err)
		}

		if q.Type == QuestionTypeMultiSelect {
			saveMulti(q.ID, *values, result)
		} else {
			saveAnswer(q.ID, resolveInput(*value, q.Default), result)
		}
	}

	return result, nil
}

// buildField creates the huh field for a question and returns the bound
// value holders.
func buildField(q *Question) (*string, *[]string, huh.Field) {
	switch q.Type {
	case QuestionTypeSelect:
		value := q.Default
		opts := make([]huh.Option[string], len(q.Options))
		for i, opt := range q.Options {
			label := opt.Label
			if opt.Desc != "" {
				label = opt.Label + " - " + opt.Desc
			}
			opts[i] = huh.NewOption(label, opt.Value)
		}
		sel := huh.NewSelect[string]().
			Title(q.Title).
			Description(q.Description).
			Options(opts...).
			Value(&value)
		return &value, nil, sel

	case QuestionTypeMultiSelect:
		var values []string
		opts := make([]huh.Option[string], len(q.Options))
		for i, opt := range q.Options {
			label := opt.Label
			if opt.Desc != "" {
				label = opt.Label + " - " + opt.Desc
			}
			opts[i] = huh.NewOption(label, opt.Value)
		}
		sel := huh.NewMultiSelect[string]().
			Title(q.Title).
			Description(q.Description).
			Options(opts...).
			Value(&values)
		return nil, &values, sel

	default:
		value := q.Default
		inp := huh.NewInput().
			Title(q.Title).
			Description(q.Description).
			Value(&value)
		if q.Default != "" {
			inp = inp.Placeholder(q.Default)
		}
		if q.Secret {
			inp = inp.EchoMode(huh.EchoModePassword)
		}
		required := q.Required
		defVal := q.Default
		inp = inp.Validate(func(val string) error {
			if required && resolveInput(val, defVal) == "" {
				return errors.New("this field is required")
			}
			return nil
		})
		return &value, nil, inp
	}
}

// resolveInput trims a raw input value and falls back to the question's
// default when the user cleared the field. The validator and the save
// path share it, so an input the validator accepted via the default is
// saved as that default instead of the cleared string.
func resolveInput(raw, def string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		v = def
	}
	return v
}

// saveAnswer stores a single-value answer in the result.
func saveAnswer(id, value string, result *Result) {
	switch id {
	case "project_name":
		result.ProjectName = value
	case "framework":
		result.Framework = value
	case "language":
		result.LanguageMode = value
	case "database":
		result.Database = value
	case "port":
		result.Port = value
	case "db_host":
		result.DBHost = value
	case "db_port":
		result.DBPort = value
	case "db_user":
		result.DBUser = value
	case "db_password":
		result.DBPassword = value
	case "db_name":
		result.DBName = value
	case "connection_uri":
		result.ConnectionURI = value
	}
}

// saveMulti stores a multi-select answer in the result.
func saveMulti(id string, values []string, result *Result) {
	if id == "features" {
		result.Features = values
	}
}
