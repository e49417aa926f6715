package models

// Code is one entry of the status/priority registry the frontend uses to
// render select boxes. The old system kept these in a code_master table; they
// are fixed values, so the registry is compiled in.
type Code struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Label string `json:"label"`
}

var codeRegistry = map[string][]Code{
	"STATUS": {
		{Type: "STATUS", Value: string(StatusNotStarted), Label: "Not started"},
		{Type: "STATUS", Value: string(StatusInProgress), Label: "In progress"},
		{Type: "STATUS", Value: string(StatusCompleted), Label: "Completed"},
		{Type: "STATUS", Value: string(ProjectActive), Label: "Active"},
		{Type: "STATUS", Value: string(ProjectInactive), Label: "Inactive"},
	},
	"PRIORITY": {
		{Type: "PRIORITY", Value: "HIGH", Label: "High"},
		{Type: "PRIORITY", Value: "MEDIUM", Label: "Medium"},
		{Type: "PRIORITY", Value: "LOW", Label: "Low"},
	},
	"DEPENDENCY_KIND": {
		{Type: "DEPENDENCY_KIND", Value: string(FinishToStart), Label: "Finish to start"},
		{Type: "DEPENDENCY_KIND", Value: string(StartToStart), Label: "Start to start"},
		{Type: "DEPENDENCY_KIND", Value: string(FinishToFinish), Label: "Finish to finish"},
		{Type: "DEPENDENCY_KIND", Value: string(StartToFinish), Label: "Start to finish"},
	},
}

// CodesByType returns the registry entries for one code type, or nil when the
// type is unknown.
func CodesByType(codeType string) []Code {
	return codeRegistry[codeType]
}
