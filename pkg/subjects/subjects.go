// Package subjects manages the subjects tickets are classified under.
package subjects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Jacobbrewer1/supportdesk/pkg/custom"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
	"github.com/Jacobbrewer1/supportdesk/pkg/parser"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform"
	"github.com/Jacobbrewer1/supportdesk/pkg/workflow"
	"github.com/google/uuid"
)

const component = "subjects"

// Service adds, lists and removes subjects.
type Service struct {
	l      *slog.Logger
	store  dataaccess.SubjectDal
	client platform.Client
	now    func() time.Time
}

// NewService creates a subject service.
func NewService(l *slog.Logger, store dataaccess.SubjectDal, client platform.Client) *Service {
	return &Service{
		l:      l.With(slog.String(logging.KeyComponent, component)),
		store:  store,
		client: client,
		now:    time.Now,
	}
}

// Add creates a subject. channelRef is optional and may be a channel ID, mention or link.
func (s *Service) Add(ctx context.Context, serverID, name, channelRef string) (*entities.Subject, error) {
	name = strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(name); {
	case n < entities.SubjectNameMinLength:
		return nil, workflow.Validation(component, "add", messages.SubjectTooShort)
	case n > entities.SubjectNameMaxLength:
		return nil, workflow.Validation(component, "add", messages.SubjectTooLong)
	}

	channelID := ""
	if strings.TrimSpace(channelRef) != "" {
		id, err := s.channel(serverID, channelRef)
		if err != nil {
			return nil, err
		}
		channelID = id
	}

	if _, err := s.store.GetSubjectByName(ctx, serverID, name); err == nil {
		return nil, workflow.Validation(component, "add", messages.SubjectExists)
	} else if !errors.Is(err, dataaccess.ErrNotFound) {
		return nil, workflow.Remote(component, "add", "", err)
	}

	subject := &entities.Subject{
		ID:        uuid.NewString(),
		ServerID:  serverID,
		Name:      name,
		ChannelID: channelID,
		CreatedAt: custom.NewDatetime(s.now()),
	}
	if err := s.store.CreateSubject(ctx, subject); err != nil {
		// Lost a race with another add of the same name.
		if errors.Is(err, dataaccess.ErrDuplicate) {
			return nil, workflow.Validation(component, "add", messages.SubjectExists)
		}
		return nil, workflow.Remote(component, "add", "", err)
	}

	s.l.Info("Subject added",
		slog.String(logging.KeyGuildID, serverID),
		slog.String("subject", name),
	)
	return subject, nil
}

// List renders the subjects of the server, one per line.
func (s *Service) List(ctx context.Context, serverID string) (string, error) {
	subjects, err := s.store.ListSubjects(ctx, serverID)
	if err != nil {
		return "", workflow.Remote(component, "list", "", err)
	} else if len(subjects) == 0 {
		return "", workflow.Validation(component, "list", messages.SubjectNoneFound)
	}

	lines := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		if subject.ChannelID != "" {
			lines = append(lines, fmt.Sprintf(messages.SubjectListEntryTag, subject.Name, subject.ChannelID))
			continue
		}
		lines = append(lines, fmt.Sprintf(messages.SubjectListEntry, subject.Name))
	}
	return strings.Join(lines, "\n"), nil
}

// Remove deletes the subject with the name.
func (s *Service) Remove(ctx context.Context, serverID, name string) error {
	err := s.store.DeleteSubject(ctx, serverID, strings.TrimSpace(name))
	if errors.Is(err, dataaccess.ErrNotFound) {
		return workflow.Validation(component, "remove", messages.SubjectNotFound)
	} else if err != nil {
		return workflow.Remote(component, "remove", "", err)
	}

	s.l.Info("Subject removed",
		slog.String(logging.KeyGuildID, serverID),
		slog.String("subject", name),
	)
	return nil
}

func (s *Service) channel(serverID, ref string) (string, error) {
	id, err := parser.ChannelID(ref)
	if err != nil {
		return "", workflow.Validation(component, "add", messages.SubjectChannelBad)
	}

	ch, err := s.client.Channel(id)
	if errors.Is(err, platform.ErrNotFound) {
		return "", workflow.Validation(component, "add", messages.SubjectChannelBad)
	} else if err != nil {
		return "", workflow.Remote(component, "add", "", err)
	} else if ch.GuildID != serverID {
		return "", workflow.Validation(component, "add", messages.SubjectChannelBad)
	}
	return id, nil
}
