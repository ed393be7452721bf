package grammar

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string", "minLength": 1},
}

var pronounMap = map[string]any{
	"type": "object",
	"propertyNames": map[string]any{
		"enum": []any{"i", "you", "he", "she", "it", "we", "they"},
	},
	"additionalProperties": map[string]any{"type": "string", "minLength": 1},
}

// ruleTableSchema is the JSON schema every rule table must satisfy before
// it is decoded into a Topic.
var ruleTableSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version":        map[string]any{"type": "string", "pattern": "^v[0-9]+\\.[0-9]+\\.[0-9]+$"},
		"id":             map[string]any{"type": "string", "pattern": "^[a-z][a-z0-9-]*$"},
		"name":           map[string]any{"type": "string", "minLength": 1},
		"description":    map[string]any{"type": "string"},
		"transformation": map[string]any{"enum": []any{"auxiliary", "do-support"}},
		"verbs": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"forms": map[string]any{
						"type":                 "object",
						"minProperties":        2,
						"additionalProperties": map[string]any{"type": "string", "minLength": 1},
					},
					"complements": stringList,
				},
				"required":             []any{"forms"},
				"additionalProperties": false,
			},
		},
		"agreement":     pronounMap,
		"fill_in_forms": map[string]any{"type": "array", "minItems": 2, "items": map[string]any{"type": "string"}},
		"extra_wrong":   stringList,
		"subjects": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text":     map[string]any{"type": "string", "minLength": 1},
					"pronoun":  map[string]any{"enum": []any{"i", "you", "he", "she", "it", "we", "they"}},
					"min_tier": map[string]any{"enum": []any{"lvl0", "easy", "medium", "hard"}},
				},
				"required":             []any{"text", "pronoun"},
				"additionalProperties": false,
			},
		},
		"vocabulary": map[string]any{
			"type":                 "object",
			"additionalProperties": stringList,
		},
		"templates": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"recognition":      stringList,
				"error_correction": stringList,
				"transformation":   stringList,
				"dialogue":         stringList,
				"fill_in": map[string]any{
					"type": "object",
					"propertyNames": map[string]any{
						"enum": []any{"lvl0", "easy", "medium", "hard"},
					},
					"additionalProperties": stringList,
				},
			},
			"required":             []any{"recognition", "error_correction", "transformation", "dialogue", "fill_in"},
			"additionalProperties": false,
		},
		"explanation":    map[string]any{"type": "string", "minLength": 1},
		"hint":           map[string]any{"type": "string", "minLength": 1},
		"rules_of_thumb": pronounMap,
	},
	"required": []any{
		"version", "id", "name", "transformation", "verbs", "agreement",
		"fill_in_forms", "subjects", "templates", "explanation", "hint", "rules_of_thumb",
	},
	"additionalProperties": false,
}
