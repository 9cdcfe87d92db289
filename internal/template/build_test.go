package template_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/cookbook/internal/template"
)

const shotTemplate = "<<SHOT_TYPE:select(CU,MS,WS)!>> of <<SUBJECT:text!>>, <<STYLE:text>>"

func buildOne(tmpl string, values template.Values) string {
	stages := stagesOf(tmpl)
	return template.BuildStagePrompt(
		stages[0].Template,
		stages[0].Fields,
		values,
		template.AllFields(stages),
	)
}

func TestBuildStagePrompt(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   template.Values
		want     string
	}{
		{
			name:     "optional field elided",
			template: shotTemplate,
			values:   template.Values{"SHOT_TYPE": "CU", "SUBJECT": "a dragon"},
			want:     "CU of a dragon",
		},
		{
			name:     "all fields by id",
			template: shotTemplate,
			values: template.Values{
				"stage0_field0_SHOT_TYPE": "WS",
				"stage0_field1_SUBJECT":   "a castle",
				"stage0_field2_STYLE":     "watercolor",
			},
			want: "WS of a castle, watercolor",
		},
		{
			name:     "elision law",
			template: "A <<X:text>> B",
			values:   template.Values{},
			want:     "A B",
		},
		{
			name:     "elided before period",
			template: "A cat, <<MOOD:text>>. Sharp focus",
			values:   template.Values{},
			want:     "A cat. Sharp focus",
		},
		{
			name:     "doubled comma collapses",
			template: "red, <<X:text>>, blue",
			values:   template.Values{},
			want:     "red, blue",
		},
		{
			name:     "leading comma stripped",
			template: "<<X:text>>, blue sky",
			values:   template.Values{},
			want:     "blue sky",
		},
		{
			name:     "period comma collapses",
			template: "Done.<<X:text>>, next",
			values:   template.Values{},
			want:     "Done. next",
		},
		{
			name:     "empty required token left verbatim",
			template: "portrait of <<SUBJECT:text!>>",
			values:   template.Values{},
			want:     "portrait of <<SUBJECT:text!>>",
		},
		{
			name:     "whitespace value treated as empty",
			template: "A <<X:text>> B",
			values:   template.Values{"stage0_field0_X": "   "},
			want:     "A B",
		},
		{
			name:     "repeated token substitutes every occurrence",
			template: "<<NAME:name!>> meets <<NAME:name!>>",
			values:   template.Values{"stage0_field0_NAME": "Ada"},
			want:     "Ada meets Ada",
		},
		{
			name:     "literal text preserved",
			template: "@HERO stands <<lower:text>> tall",
			values:   template.Values{},
			want:     "@HERO stands <<lower:text>> tall",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildOne(tt.template, tt.values); got != tt.want {
				t.Errorf("prompt: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a , , b", "a, b"},
		{"a ,.", "a."},
		{"a., b", "a. b"},
		{"a, b,  ", "a, b"},
		{", a", "a"},
		{"a   \n b", "a b"},
		{"a ,b", "a,b"},
		{"  a  ", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := template.Clean(tt.input); got != tt.want {
				t.Errorf("clean: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildRecipePromptsSharedField(t *testing.T) {
	stages := stagesOf("<<NAME:name!>> portrait", "<<NAME:name!>> full body")
	unique := template.AllFields(stages)

	values := template.Values{unique[0].ID: "Ada"}

	got := template.BuildRecipePrompts(stages, values)

	want := []string{"Ada portrait", "Ada full body"}
	if diff := cmp.Diff(want, got.Prompts); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
	if len(got.Fallbacks) != 0 {
		t.Errorf("canonical id lookup should not use fallback, got %v", got.Fallbacks)
	}
}

func TestBuildRecipePromptsReferenceImages(t *testing.T) {
	stages := template.Normalize([]template.Stage{
		{
			Template: "<<X:text>> a",
			ReferenceImages: []template.ReferenceImage{
				{ID: "1", URL: "https://img/a.png"},
				{ID: "2", URL: "https://img/b.png"},
			},
		},
		{
			Type:   template.StageTool,
			ToolID: "upscale",
			ReferenceImages: []template.ReferenceImage{
				{ID: "3", URL: "https://img/a.png"},
				{ID: "4", URL: "https://img/A.png"},
				{ID: "5", URL: "https://img/a.png"},
			},
		},
	})

	got := template.BuildRecipePrompts(stages, template.Values{})

	if got.Prompts[1] != "" {
		t.Errorf("tool stage prompt: got %q, want empty", got.Prompts[1])
	}

	wantFlat := []string{"https://img/a.png", "https://img/b.png", "https://img/A.png"}
	if diff := cmp.Diff(wantFlat, got.ReferenceImages); diff != "" {
		t.Errorf("flat images mismatch (-want +got):\n%s", diff)
	}

	wantStage := [][]string{
		{"https://img/a.png", "https://img/b.png"},
		{"https://img/a.png", "https://img/A.png", "https://img/a.png"},
	}
	if diff := cmp.Diff(wantStage, got.StageReferenceImages); diff != "" {
		t.Errorf("stage images mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveOrder(t *testing.T) {
	stages := stagesOf("<<NAME:name>>", "<<NAME:name>>")
	unique := template.AllFields(stages)
	occurrence := stages[1].Fields[0]

	tests := []struct {
		name   string
		values template.Values
		want   string
		how    template.Resolution
	}{
		{
			name:   "own id wins",
			values: template.Values{occurrence.ID: "own", unique[0].ID: "canonical"},
			want:   "own",
			how:    template.ByID,
		},
		{
			name:   "canonical id",
			values: template.Values{unique[0].ID: "canonical"},
			want:   "canonical",
			how:    template.ByCanonicalID,
		},
		{
			name:   "fallback is case insensitive",
			values: template.Values{"legacy_name": "fuzzy"},
			want:   "fuzzy",
			how:    template.ByFallback,
		},
		{
			// Sorted key order is the chosen tie-break for multiple matches.
			name:   "fallback picks first sorted key",
			values: template.Values{"z_name": "last", "a_name": "first", "m_name": " "},
			want:   "first",
			how:    template.ByFallback,
		},
		{
			name:   "unresolved",
			values: template.Values{"other": "x"},
			want:   "",
			how:    template.Unresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, how := template.Resolve(occurrence, tt.values, unique)
			if got != tt.want {
				t.Errorf("value: got %q, want %q", got, tt.want)
			}
			if how != tt.how {
				t.Errorf("resolution: got %d, want %d", how, tt.how)
			}
		})
	}
}

func TestBuilderValidatorConsistency(t *testing.T) {
	stages := stagesOf(
		"<<SHOT_TYPE:select(CU,MS,WS)!>> of <<SUBJECT:text!>>, <<STYLE:text>>",
		"<<SUBJECT:text>> with <<CHARACTER_NAME:name!>>",
		"<<NAME:name!>> closeup",
	)

	valueSets := []template.Values{
		{},
		{"SHOT_TYPE": "CU", "SUBJECT": "a dragon"},
		{"SHOT_TYPE": "CU", "SUBJECT": "a dragon", "CHARACTER_NAME": "Ada"},
		{"stage0_field0_SHOT_TYPE": "MS", "stage1_field0_SUBJECT": "a fox", "character_name": "Bo", "NAME": "  "},
		{"shot_type": "WS", "subject": "x", "stage1_field1_CHARACTER_NAME": "Cy"},
	}

	for i, values := range valueSets {
		v := template.ValidateRecipe(stages, values)
		if !v.IsValid {
			continue
		}

		prompts := template.BuildRecipePrompts(stages, values)
		for s, stage := range stages {
			for _, f := range stage.Fields {
				if !f.Required {
					continue
				}
				if strings.Contains(prompts.Prompts[s], "<<"+f.Name+":") {
					t.Errorf("set %d stage %d: valid recipe left required token %s unresolved: %q", i, s, f.Name, prompts.Prompts[s])
				}
			}
		}
	}
}
