// Package messages holds the user facing text sent by the bot.
package messages

const (
	// ErrUserErrorProcessing is sent when a command fails for a reason the user cannot fix.
	ErrUserErrorProcessing = "There was an error processing your request. Please try again later."

	// ErrNotAdministrator is sent when a non administrator runs an administrator command.
	ErrNotAdministrator = "You must be an administrator to use this command"

	// ErrNotManager is sent when a user without the manage channels permission runs a staff command.
	ErrNotManager = "You must be able to manage channels to use this command"

	// ErrServerNotSetup is sent when a command requires the server to be set up first.
	ErrServerNotSetup = "The server is not set up yet, run `/setup` first"
)

// Setup wizard.
const (
	SetupSuccess         = "Server set up successfully"
	SetupAlready         = "Server already set up"
	SetupTimeout         = "Server setup timed out, please try again"
	SetupTooManyAttempts = "Too many invalid answers, please run the setup again"
	SetupTicketChannel   = "Please provide the channel ID to be used for listening to requests of opening a ticket"
	SetupLogChannel      = "Please provide the channel ID to be used for logging"
	SetupChannelInvalid  = "Invalid channel ID, provide the channel ID or its link"
	SetupChannelNotFound = "Channel does not exist"
	SetupChannelNotText  = "Channel must be a text channel"
	SetupRoleQuestion    = "Do you want to create a new role or use an existing one?"
	SetupRoleMention     = "Please mention the role you want to use as the %s role"
	SetupRoleInvalid     = "Invalid role, mention the role or provide its ID"
	SetupRoleNotFound    = "Role does not exist"
	SetupCreateNewRole   = "Create a new role"
	SetupUseExistingRole = "Use an existing role"
	TicketMessageTitle   = "Open a ticket"
	TicketMessageBody    = "React to this message to open a ticket"
)

// Reset.
const (
	ResetConfirm   = "Are you sure you want to reset the server? Type `%s` to confirm"
	ResetCancelled = "Reset cancelled"
	ResetTimeout   = "Reset timed out, nothing else will be deleted"
	ResetSuccess   = "Reset successful"
	ResetQuestion  = "Confirmation"
	ResetYes       = "Yes"
	ResetNo        = "No"

	ResetDeleteHelperRole        = "Do you want to delete the helper role?"
	ResetDeleteModeratorRole     = "Do you want to delete the moderator role?"
	ResetDeleteUnclaimedCategory = "Do you want to delete the unclaimed tickets category?"
	ResetDeleteClaimedCategory   = "Do you want to delete the claimed tickets category?"
)

// Tickets.
const (
	TicketWelcome         = "Hello <@%s>, welcome to your ticket channel, please type out the subject of your ticket"
	TicketSelectTitle     = "Select an option"
	TicketSelectBody      = "Please select the subject of your ticket"
	TicketSelectHint      = "Subject of your ticket"
	TicketCreated         = "Ticket created with subject: %s"
	TicketCreatedDM       = "Your ticket has been created : <#%s>"
	TicketCreationTimeout = "Ticket creation timed out, react again to open a new ticket"
	TicketClosedTitle     = "Ticket Closed"
	TicketClosedReason    = "Ticket closed"
	TicketClaimed         = "✅"
	TicketOtherSubject    = "Other"
)

// Log channel entries.
const (
	LogTicketCreated = "Ticket <#%s> opened by <@%s> with subject **%s**"
	LogTicketClaimed = "Ticket <#%s> claimed by <@%s>"
	LogTicketClosed  = "Ticket `%s` closed by <@%s>"
)

// Subjects.
const (
	SubjectAdded        = "✅"
	SubjectRemoved      = "✅"
	SubjectTooLong      = "❌ - The subject is too long"
	SubjectTooShort     = "❌ - The subject is too short"
	SubjectExists       = "❌ - Subject already exists"
	SubjectNotFound     = "❌ - Subject not found"
	SubjectNoneFound    = "❌ - No subjects found"
	SubjectChannelBad   = "❌ - Invalid channel ID"
	SubjectListEntry    = "- %s"
	SubjectListEntryTag = "- %s - <#%s>"
)
