// Package tools holds the internal tool catalog and the handler that
// executes internal tools against the store.
//
// The catalog is static: four fixed groups (tasks, notes, persons, inbox)
// with JSON-Schema style input schemas used for discovery and for offering
// the tools to the assistant. Descriptions are Dutch because they are shown
// to the end user and embedded in assistant prompts.
package tools

import "github.com/agnivade/levenshtein"

// Internal provider names. Every tool in the catalog maps to exactly one.
const (
	ProviderTasks   = "internal_tasks"
	ProviderNotes   = "internal_notes"
	ProviderInbox   = "internal_inbox"
	ProviderPersons = "internal_persons"
)

// Tool describes one tool for discovery. InputSchema is a JSON-Schema
// object; it documents the contract but is not enforced by the handler,
// which trusts upstream validation.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	InputSchema map[string]any `json:"input_schema"`
	Provider    string         `json:"provider,omitempty"`
}

func schema(props map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// TaskTools is the task group of the catalog.
var TaskTools = []Tool{
	{
		Name:        "create_task",
		Description: "Maak een nieuwe taak aan. Gebruik dit wanneer de gebruiker vraagt om een taak, todo, opdracht of actie aan te maken.",
		Category:    "tasks",
		InputSchema: schema(map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Titel of beschrijving van de taak",
			},
			"memo": map[string]any{
				"type":        "string",
				"description": "Extra notities of details voor de taak",
			},
			"due_date": map[string]any{
				"type":        "string",
				"description": "Deadline in ISO 8601 formaat (YYYY-MM-DD)",
			},
			"priority": map[string]any{
				"type":        "string",
				"enum":        []string{"low", "medium", "high"},
				"description": "Prioriteit van de taak",
			},
			"delegated_to_name": map[string]any{
				"type":        "string",
				"description": "Naam van de persoon aan wie de taak gedelegeerd wordt",
			},
			"tags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Labels/tags voor de taak",
			},
		}, "title"),
	},
	{
		Name:        "list_tasks",
		Description: "Toon een lijst van taken. Gebruik dit om openstaande taken, todos of opdrachten te bekijken.",
		Category:    "tasks",
		InputSchema: schema(map[string]any{
			"status": map[string]any{
				"type":        "string",
				"enum":        []string{"new", "in_progress", "done", "cancelled", "overdue"},
				"description": "Filter op status",
			},
			"priority": map[string]any{
				"type":        "string",
				"enum":        []string{"low", "medium", "high"},
				"description": "Filter op prioriteit",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum aantal resultaten",
				"default":     20,
			},
		}),
	},
	{
		Name:        "complete_task",
		Description: "Markeer een taak als voltooid. Gebruik dit wanneer een taak afgerond is.",
		Category:    "tasks",
		InputSchema: schema(map[string]any{
			"task_id": map[string]any{
				"type":        "string",
				"description": "ID van de taak (UUID)",
			},
			"task_number": map[string]any{
				"type":        "integer",
				"description": "Taaknummer (alternatief voor task_id)",
			},
			"annotation": map[string]any{
				"type":        "string",
				"description": "Optionele opmerking bij voltooiing",
			},
		}),
	},
	{
		Name:        "update_task",
		Description: "Update een bestaande taak. Gebruik dit om taakdetails te wijzigen.",
		Category:    "tasks",
		InputSchema: schema(map[string]any{
			"task_id": map[string]any{
				"type":        "string",
				"description": "ID van de taak (UUID)",
			},
			"task_number": map[string]any{
				"type":        "integer",
				"description": "Taaknummer (alternatief voor task_id)",
			},
			"memo": map[string]any{
				"type":        "string",
				"description": "Nieuwe memo/notities",
			},
			"due_date": map[string]any{
				"type":        "string",
				"description": "Nieuwe deadline (YYYY-MM-DD)",
			},
			"priority": map[string]any{
				"type":        "string",
				"enum":        []string{"low", "medium", "high"},
				"description": "Nieuwe prioriteit",
			},
			"status": map[string]any{
				"type":        "string",
				"enum":        []string{"new", "in_progress", "done", "cancelled"},
				"description": "Nieuwe status",
			},
		}),
	},
	{
		Name:        "delete_task",
		Description: "Verwijder een taak. Gebruik dit om een taak permanent te verwijderen.",
		Category:    "tasks",
		InputSchema: schema(map[string]any{
			"task_id": map[string]any{
				"type":        "string",
				"description": "ID van de taak (UUID)",
			},
			"task_number": map[string]any{
				"type":        "integer",
				"description": "Taaknummer (alternatief voor task_id)",
			},
		}),
	},
}

// NoteTools is the note group of the catalog.
var NoteTools = []Tool{
	{
		Name:        "create_note",
		Description: "Maak een nieuwe notitie aan. Gebruik dit voor het opslaan van tekst, ideeën of informatie.",
		Category:    "notes",
		InputSchema: schema(map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Titel van de notitie",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Inhoud van de notitie",
			},
			"color": map[string]any{
				"type":        "string",
				"enum":        []string{"yellow", "blue", "red", "green", "purple", "orange", "pink", "gray", "white"},
				"description": "Kleur van de notitie",
			},
			"is_pinned": map[string]any{
				"type":        "boolean",
				"description": "Of de notitie vastgepind moet worden",
			},
		}),
	},
	{
		Name:        "list_notes",
		Description: "Toon een lijst van notities. Gebruik dit om opgeslagen notities te bekijken.",
		Category:    "notes",
		InputSchema: schema(map[string]any{
			"search": map[string]any{
				"type":        "string",
				"description": "Zoekterm in titel en inhoud",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum aantal resultaten",
				"default":     20,
			},
		}),
	},
	{
		Name:        "update_note",
		Description: "Update een bestaande notitie.",
		Category:    "notes",
		InputSchema: schema(map[string]any{
			"note_id": map[string]any{
				"type":        "string",
				"description": "ID van de notitie (UUID)",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Nieuwe titel",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Nieuwe inhoud",
			},
			"color": map[string]any{
				"type":        "string",
				"enum":        []string{"yellow", "blue", "red", "green", "purple", "orange", "pink", "gray", "white"},
				"description": "Nieuwe kleur",
			},
		}, "note_id"),
	},
	{
		Name:        "delete_note",
		Description: "Verwijder een notitie.",
		Category:    "notes",
		InputSchema: schema(map[string]any{
			"note_id": map[string]any{
				"type":        "string",
				"description": "ID van de notitie (UUID)",
			},
		}, "note_id"),
	},
}

// PersonTools is the contacts group of the catalog.
var PersonTools = []Tool{
	{
		Name:        "create_person",
		Description: "Voeg een nieuw contact toe. Gebruik dit voor het opslaan van contactgegevens.",
		Category:    "persons",
		InputSchema: schema(map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Naam van de persoon",
			},
			"email": map[string]any{
				"type":        "string",
				"description": "E-mailadres",
			},
			"phone_number": map[string]any{
				"type":        "string",
				"description": "Telefoonnummer",
			},
		}, "name"),
	},
	{
		Name:        "list_persons",
		Description: "Toon een lijst van contacten.",
		Category:    "persons",
		InputSchema: schema(map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum aantal resultaten",
				"default":     50,
			},
		}),
	},
}

// InboxTools is the inbox group of the catalog.
var InboxTools = []Tool{
	{
		Name:        "list_inbox",
		Description: "Toon inbox items die verwerkt moeten worden.",
		Category:    "inbox",
		InputSchema: schema(map[string]any{
			"status": map[string]any{
				"type":        "string",
				"enum":        []string{"unprocessed", "pending_review", "accepted", "rejected", "archived"},
				"description": "Filter op status",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum aantal resultaten",
				"default":     20,
			},
		}),
	},
}

var groups = []struct {
	provider string
	tools    []Tool
}{
	{ProviderTasks, TaskTools},
	{ProviderNotes, NoteTools},
	{ProviderPersons, PersonTools},
	{ProviderInbox, InboxTools},
}

// All returns every internal tool tagged with its provider.
func All() []Tool {
	var out []Tool
	for _, g := range groups {
		for _, t := range g.tools {
			t.Provider = g.provider
			out = append(out, t)
		}
	}
	return out
}

// ProviderFor reports which internal provider handles a tool name. The
// second return is false for unrecognized or external-only names.
func ProviderFor(name string) (string, bool) {
	for _, g := range groups {
		for _, t := range g.tools {
			if t.Name == name {
				return g.provider, true
			}
		}
	}
	return "", false
}

// Suggest returns the closest known tool name within edit distance 3, for
// "did you mean" hints on the CLI. Empty when nothing is close enough.
func Suggest(name string) string {
	best := ""
	bestDist := 4
	for _, g := range groups {
		for _, t := range g.tools {
			if d := levenshtein.ComputeDistance(name, t.Name); d < bestDist {
				best = t.Name
				bestDist = d
			}
		}
	}
	return best
}
