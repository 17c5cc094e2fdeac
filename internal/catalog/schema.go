package catalog

// documentSchema is the JSON schema a catalog file must satisfy before it
// is decoded into typed tables.
var documentSchema = map[string]any{
	"type":     "object",
	"required": []any{"chapters", "questions"},
	"properties": map[string]any{
		"release": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chapterCount":            map[string]any{"type": "integer", "minimum": 0},
				"specialChapterThreshold": map[string]any{"type": "integer", "minimum": 0},
				"hiddenUnlockCount":       map[string]any{"type": "integer", "minimum": 0},
				"advanceSolveCount":       map[string]any{"type": "integer", "minimum": 0},
				"volumeFinale":            map[string]any{"type": "integer", "minimum": 0},
				"hiddenEligible": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer", "minimum": 0},
				},
			},
			"additionalProperties": false,
		},
		"chapters": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "progress"},
				"properties": map[string]any{
					"id":       map[string]any{"type": []any{"string", "number"}},
					"name":     map[string]any{"type": "string"},
					"progress": map[string]any{"type": "integer", "minimum": 0},
					"actual":   map[string]any{"type": "boolean"},
					"content": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"additionalContent": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"additionalProperties": false,
			},
		},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "answer"},
				"properties": map[string]any{
					"id":       map[string]any{"type": "string", "pattern": `^\d+(\.\d+)?-\d+$`},
					"answer":   map[string]any{"type": "string", "minLength": 1},
					"info":     map[string]any{"type": "string"},
					"clue":     map[string]any{"type": "string"},
					"meaning":  map[string]any{"type": "string"},
					"category": map[string]any{"type": "string"},
					"comment":  map[string]any{"type": "string"},
					"hints": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"solution": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"prerequisites": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "array",
							"minItems": 2,
							"maxItems": 3,
							"prefixItems": []any{
								map[string]any{"enum": []any{"prefix", "suffix", "chapter", "question"}},
								map[string]any{"type": "number"},
								map[string]any{"type": "integer"},
							},
						},
					},
				},
				"additionalProperties": false,
			},
		},
	},
	"additionalProperties": false,
}
