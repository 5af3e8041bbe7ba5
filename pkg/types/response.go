package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// FunctionError is the flattened failure body of the subscription function.
type FunctionError struct {
	Error string `json:"error"`
}

// FunctionFailure is the flattened failure body of the execute-workflow function.
type FunctionFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
