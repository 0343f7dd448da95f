package app

// User-facing notification texts.
const (
	msgLoggedIn       = "Logged in as %s"
	msgLoginFailed    = "Failed to log in! Check your credentials."
	msgRegistered     = "New user registered with email: %s! Please login."
	msgRegisterFailed = "Failed to create an account!"
	msgLoggedOut      = "User has logged out!"
	msgLogoutFailed   = "Failed to logout!"

	msgListFailed   = "Failed retrieving notes: %s"
	msgAdded        = "New note added"
	msgAddFailed    = "Failed adding note: %s"
	msgUpdated      = "Updated note"
	msgUpdateFailed = "Failed updating note: %s"
	msgDeleted      = "Note deleted"
	msgDeleteFailed = "Failed deleting note: %s"
	msgNoteLimit    = "Note limit reached"

	msgFetchFailed = "Failed to fetch note data!"
	msgEmptyNote   = "Note header/content must not be empty!"

	msgInvalidEmail     = "Please insert a valid email address"
	msgWeakPassword     = "Password is too weak"
	msgPasswordMismatch = "Passwords do not match!"
)
