package assistant

import "encoding/json"

// Tool names advertised to the LLM. These are the only operations the
// assistant can perform; there is no tool to update or delete anything.
const (
	ToolSearchPatients    = "search_patients"
	ToolPatientHistory    = "get_patient_complete_history"
	ToolCreateAppointment = "create_appointment"
)

var registry = []Tool{
	{
		Type: "function",
		Function: ToolFunction{
			Name:        ToolSearchPatients,
			Description: "Search patients by name or national ID (DNI).",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Name or DNI of the patient to look up."}
				},
				"required": ["query"]
			}`),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        ToolPatientHistory,
			Description: "Fetch a patient's complete clinical history, including past appointments and medical notes.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"patient_id": {"type": "string", "description": "The patient's UUID."}
				},
				"required": ["patient_id"]
			}`),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name:        ToolCreateAppointment,
			Description: "Book a new medical appointment for a patient.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"patient_id": {"type": "string", "description": "The patient's UUID."},
					"date_time": {"type": "string", "description": "Date and time in full ISO 8601 format with timezone offset (e.g. 2026-02-22T11:00:00-06:00)."},
					"reason": {"type": "string", "description": "Short description of the visit reason."}
				},
				"required": ["patient_id", "date_time", "reason"]
			}`),
		},
	},
}

// Registry returns the tool declarations advertised to the LLM on every
// round.
func Registry() []Tool {
	return registry
}
