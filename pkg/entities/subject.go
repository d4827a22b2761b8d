package entities

import (
	"github.com/Jacobbrewer1/supportdesk/pkg/custom"
)

const (
	// SubjectNameMinLength is the minimum length of a subject name.
	SubjectNameMinLength = 1

	// SubjectNameMaxLength is the maximum length of a subject name.
	SubjectNameMaxLength = 100
)

// Subject is a named category a ticket can be classified under.
type Subject struct {
	// ID is the ID of the subject.
	ID string `json:"id" bson:"id" gorm:"primaryKey;size:36"`

	// ServerID is the guild the subject belongs to.
	ServerID string `json:"server_id" bson:"server_id" gorm:"size:32;not null;uniqueIndex:idx_subjects_server_name"`

	// Name is the name of the subject, unique per server.
	Name string `json:"name" bson:"name" gorm:"size:100;not null;uniqueIndex:idx_subjects_server_name"`

	// ChannelID is an optional channel hint for the subject.
	ChannelID string `json:"channel_id,omitempty" bson:"channel_id,omitempty" gorm:"size:32"`

	// CreatedAt is when the subject was added. Subjects are listed in this order.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at" gorm:"autoCreateTime:false"`
}

// TableName sets the table name used by gorm.
func (Subject) TableName() string {
	return "subjects"
}

// IsOther reports whether the subject is the synthetic "Other" choice.
func (s *Subject) IsOther() bool {
	return s.ID == ""
}

// OtherSubject returns the synthetic subject offered after the fuzzy matches.
func OtherSubject(name string) *Subject {
	return &Subject{Name: name}
}
