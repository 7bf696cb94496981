package api

type ClassificationRange struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Class string `json:"class"`
}

type ClassificationResponse struct {
	Ranges  []ClassificationRange `json:"ranges"`
	Default string                `json:"default"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}
