package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantKind Kind
		wantDesc string
	}{
		{
			name:     "plain question stays a query",
			message:  "What notes do I have about work?",
			wantKind: KindQuery,
		},
		{
			name:     "edit my note prefix",
			message:  "edit my note React Hooks",
			wantKind: KindEdit,
			wantDesc: "React Hooks",
		},
		{
			name:     "edit my note about",
			message:  "Edit my note about groceries",
			wantKind: KindEdit,
			wantDesc: "groceries",
		},
		{
			name:     "edit the note titled with quotes",
			message:  `Please edit the note titled "Meeting Notes Q3"`,
			wantKind: KindEdit,
			wantDesc: "Meeting Notes Q3",
		},
		{
			name:     "edit the note on",
			message:  "can you edit the note on react hooks?",
			wantKind: KindEdit,
			wantDesc: "react hooks",
		},
		{
			name:     "mention of editing without anchor phrase",
			message:  "I might edit some notes later",
			wantKind: KindQuery,
		},
		{
			name:     "edit anchored mid-sentence requires the/about form",
			message:  "edit notes about work",
			wantKind: KindQuery,
		},
		{
			name:     "empty description falls through",
			message:  "edit my note   ",
			wantKind: KindQuery,
		},
		{
			name:     "trailing punctuation trimmed",
			message:  "edit my note about travel plans!",
			wantKind: KindEdit,
			wantDesc: "travel plans",
		},
		{
			name:     "instruction tail cut from description",
			message:  "Edit my note about react hooks to mention useMemo",
			wantKind: KindEdit,
			wantDesc: "react hooks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.message)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", got.Kind, tt.wantKind)
			}
			if tt.wantKind == KindEdit && got.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", got.Description, tt.wantDesc)
			}
		})
	}
}
