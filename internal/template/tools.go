package template

import "slices"

// Tool is a fixed external operation a tool stage can invoke.
type Tool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var tools = []Tool{
	{ID: "upscale", Name: "Upscale", Description: "Increase output resolution"},
	{ID: "remove-background", Name: "Remove Background", Description: "Cut the subject out onto a transparent background"},
	{ID: "multiview", Name: "Multiview", Description: "Render the subject from several camera angles"},
	{ID: "relight", Name: "Relight", Description: "Re-render the scene under new lighting"},
	{ID: "face-restore", Name: "Face Restore", Description: "Repair facial detail"},
}

// Tools returns a copy of the catalog of known tool operations.
func Tools() []Tool {
	return slices.Clone(tools)
}

// KnownTool reports whether id names a tool in the catalog.
// Stages may reference tools outside the catalog.
func KnownTool(id string) bool {
	return slices.ContainsFunc(tools, func(t Tool) bool {
		return t.ID == id
	})
}
