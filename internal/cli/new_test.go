package cli

import (
	"testing"

	"github.com/forgecli/forge/internal/config"
)

func TestLayerStage1Answers(t *testing.T) {
	t.Parallel()

	preset := &config.Answers{
		ProjectName: "preset-name",
		Framework:   "flask",
		Database:    "sqlite",
		Port:        "9000",
	}

	tests := []struct {
		name          string
		preset        *config.Answers
		positional    string
		frameworkFlag string
		wantName      string
		wantFramework string
	}{
		{
			name:          "no sources",
			wantName:      "",
			wantFramework: "",
		},
		{
			name:          "preset only",
			preset:        preset,
			wantName:      "preset-name",
			wantFramework: "flask",
		},
		{
			name:          "positional overrides preset name",
			preset:        preset,
			positional:    "cli-name",
			wantName:      "cli-name",
			wantFramework: "flask",
		},
		{
			name:          "flag overrides preset framework",
			preset:        preset,
			frameworkFlag: "express",
			wantName:      "preset-name",
			wantFramework: "express",
		},
		{
			name:          "positional and flag without preset",
			positional:    "cli-name",
			frameworkFlag: "express",
			wantName:      "cli-name",
			wantFramework: "express",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ans := layerStage1Answers(tt.preset, tt.positional, tt.frameworkFlag)
			if ans.ProjectName != tt.wantName {
				t.Errorf("ProjectName = %q, want %q", ans.ProjectName, tt.wantName)
			}
			if ans.Framework != tt.wantFramework {
				t.Errorf("Framework = %q, want %q", ans.Framework, tt.wantFramework)
			}
		})
	}
}

func TestLayerStage1AnswersKeepsPresetIntact(t *testing.T) {
	t.Parallel()

	preset := &config.Answers{ProjectName: "preset-name", Framework: "flask"}
	ans := layerStage1Answers(preset, "cli-name", "express")

	if preset.ProjectName != "preset-name" || preset.Framework != "flask" {
		t.Errorf("preset mutated by layering: %+v", preset)
	}
	if ans.ProjectName != "cli-name" || ans.Framework != "express" {
		t.Errorf("layered answers = %+v", ans)
	}

	// Stash fields carried through from the preset survive the overrides.
	preset2 := &config.Answers{ProjectName: "x", Framework: "express", Database: "mongodb", ConnectionURI: "mongodb://localhost/demo"}
	ans = layerStage1Answers(preset2, "", "")
	if ans.Database != "mongodb" || ans.ConnectionURI != "mongodb://localhost/demo" {
		t.Errorf("stage-2 preset fields lost: %+v", ans)
	}
}

func TestNewCommandFlags(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"framework", "preset", "non-interactive"} {
		if newCmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
}
