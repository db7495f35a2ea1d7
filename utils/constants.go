package utils

// Application constants
const (
	// Session cookie name
	SessionCookieName = "bookswap"
)

// Flash messages
const (
	MsgRegisterSuccess  = "Registration successful. You can now log in."
	MsgLoginSuccess     = "Login successful."
	MsgLoginFailed      = "Login failed. Please check your username and password."
	MsgLoginLocked      = "Too many failed login attempts. Please try again later."
	MsgLoginRequired    = "Please log in to access this page."
	MsgBookCreated      = "Book added successfully."
	MsgBookUpdated      = "Book updated successfully."
	MsgBookDeleted      = "Book deleted successfully."
	MsgBookCreatedJSON  = "Book created successfully"
	MsgInterestsUpdated = "Interests updated successfully"
	MsgTransferSuccess  = "Book ownership updated successfully"
	MsgNoPermission     = "You do not have permission to modify this book."
	MsgNoCandidate      = "Please select a user to transfer the book to."
	MsgInvalidCandidate = "The selected user cannot receive this book. Only users who expressed interest are eligible."
	MsgBookNotFound     = "Book not found"
	MsgUsernameTaken    = "Username already in use. Please choose a different username."
	MsgEmailTaken       = "Email already in use. Please use a different email address."
)
