package types

// ------------------------------
// Request Types
// ------------------------------

// Credentials holds login parameters
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration holds parameters for a new account
type Registration struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	PasswordRepeat string `json:"passwordRepeat"`
}

// NoteRequest is the body of create and update calls
type NoteRequest struct {
	Owner   int64  `json:"owner"`
	Header  string `json:"header"`
	Content string `json:"content"`
}
