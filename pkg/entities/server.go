package entities

// Server is the ticketing configuration for a guild.
type Server struct {
	// ID is the ID of the guild.
	ID string `json:"id" bson:"id" gorm:"primaryKey;size:32"`

	// SetupComplete is whether every step of the setup wizard has succeeded.
	SetupComplete bool `json:"setup_complete" bson:"setup_complete" gorm:"not null;default:false"`

	// TicketChannelID is the channel hosting the ticket message.
	TicketChannelID string `json:"ticket_channel_id" bson:"ticket_channel_id" gorm:"size:32"`

	// LogChannelID is the channel that receives informational ticket entries.
	LogChannelID string `json:"log_channel_id" bson:"log_channel_id" gorm:"size:32"`

	// UnclaimedCategoryID is the category new tickets are created in.
	UnclaimedCategoryID string `json:"unclaimed_category_id" bson:"unclaimed_category_id" gorm:"size:32"`

	// ClaimedCategoryID is the category claimed tickets are moved to.
	ClaimedCategoryID string `json:"claimed_category_id" bson:"claimed_category_id" gorm:"size:32"`

	// TicketMessageID is the message users react to in order to open a ticket.
	TicketMessageID string `json:"ticket_message_id" bson:"ticket_message_id" gorm:"size:32"`

	// HelperRoleID is the role allowed to claim tickets.
	HelperRoleID string `json:"helper_role_id" bson:"helper_role_id" gorm:"size:32"`

	// ModeratorRoleID is the role of the moderators.
	ModeratorRoleID string `json:"moderator_role_id" bson:"moderator_role_id" gorm:"size:32"`
}

// TableName sets the table name used by gorm.
func (Server) TableName() string {
	return "servers"
}

// Ready reports whether the server can accept tickets.
func (s *Server) Ready() bool {
	return s != nil &&
		s.SetupComplete &&
		s.TicketChannelID != "" &&
		s.LogChannelID != "" &&
		s.UnclaimedCategoryID != "" &&
		s.ClaimedCategoryID != "" &&
		s.TicketMessageID != "" &&
		s.HelperRoleID != "" &&
		s.ModeratorRoleID != ""
}

// ServerPatch is a partial update of a server. Nil fields are left untouched.
type ServerPatch struct {
	SetupComplete       *bool
	TicketChannelID     *string
	LogChannelID        *string
	UnclaimedCategoryID *string
	ClaimedCategoryID   *string
	TicketMessageID     *string
	HelperRoleID        *string
	ModeratorRoleID     *string
}

// Fields returns the patch as a column name to value map. The names match the bson and gorm column names.
func (p *ServerPatch) Fields() map[string]any {
	fields := make(map[string]any)
	if p == nil {
		return fields
	}

	if p.SetupComplete != nil {
		fields["setup_complete"] = *p.SetupComplete
	}
	if p.TicketChannelID != nil {
		fields["ticket_channel_id"] = *p.TicketChannelID
	}
	if p.LogChannelID != nil {
		fields["log_channel_id"] = *p.LogChannelID
	}
	if p.UnclaimedCategoryID != nil {
		fields["unclaimed_category_id"] = *p.UnclaimedCategoryID
	}
	if p.ClaimedCategoryID != nil {
		fields["claimed_category_id"] = *p.ClaimedCategoryID
	}
	if p.TicketMessageID != nil {
		fields["ticket_message_id"] = *p.TicketMessageID
	}
	if p.HelperRoleID != nil {
		fields["helper_role_id"] = *p.HelperRoleID
	}
	if p.ModeratorRoleID != nil {
		fields["moderator_role_id"] = *p.ModeratorRoleID
	}
	return fields
}

// Apply copies the set fields of the patch onto s.
func (p *ServerPatch) Apply(s *Server) {
	if p == nil || s == nil {
		return
	}

	if p.SetupComplete != nil {
		s.SetupComplete = *p.SetupComplete
	}
	if p.TicketChannelID != nil {
		s.TicketChannelID = *p.TicketChannelID
	}
	if p.LogChannelID != nil {
		s.LogChannelID = *p.LogChannelID
	}
	if p.UnclaimedCategoryID != nil {
		s.UnclaimedCategoryID = *p.UnclaimedCategoryID
	}
	if p.ClaimedCategoryID != nil {
		s.ClaimedCategoryID = *p.ClaimedCategoryID
	}
	if p.TicketMessageID != nil {
		s.TicketMessageID = *p.TicketMessageID
	}
	if p.HelperRoleID != nil {
		s.HelperRoleID = *p.HelperRoleID
	}
	if p.ModeratorRoleID != nil {
		s.ModeratorRoleID = *p.ModeratorRoleID
	}
}
