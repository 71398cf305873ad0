package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

const (
	defaultMessageLimit = 100
	maxMessageLength    = 2000
	authorLookupWorkers = 8
)

type messageCMStore interface {
	Create(ctx context.Context, msg *models.CommunityMessage) error
	Get(ctx context.Context, id string) (*models.CommunityMessage, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]*models.CommunityMessage, error)
}

type profileCMStore interface {
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
}

type memberCMStore interface {
	GetByUser(ctx context.Context, uid string) (*models.Member, error)
}

type messageService struct {
	messages messageCMStore
	profiles profileCMStore
	members  memberCMStore
}

func NewMessageService(messages messageCMStore, profiles profileCMStore, members memberCMStore) *messageService {
	return &messageService{messages: messages, profiles: profiles, members: members}
}

// List returns the latest messages, newest first, with their authors.
func (s *messageService) List(ctx context.Context, actor models.Actor, limit int) ([]*dto.MessageView, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > defaultMessageLimit {
		limit = defaultMessageLimit
	}
	msgs, err := s.messages.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	authors, err := s.authors(ctx, msgs)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &dto.MessageView{
			CommunityMessage: *m,
			Edited:           m.Edited(),
			Author:           authors[m.UserID],
		})
	}
	return out, nil
}

// authors looks up every distinct author concurrently. A deleted account
// leaves its messages without an author.
func (s *messageService) authors(ctx context.Context, msgs []*models.CommunityMessage) (map[string]*dto.MessageAuthor, error) {
	var mu sync.Mutex
	out := map[string]*dto.MessageAuthor{}
	seen := map[string]bool{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(authorLookupWorkers)
	for _, m := range msgs {
		uid := m.UserID
		if seen[uid] {
			continue
		}
		seen[uid] = true
		g.Go(func() error {
			author, err := s.author(gctx, uid)
			if err != nil || author == nil {
				return err
			}
			mu.Lock()
			out[uid] = author
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *messageService) author(ctx context.Context, uid string) (*dto.MessageAuthor, error) {
	profile, err := s.profiles.GetProfile(ctx, uid)
	if err != nil {
		var notFound *errs.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	author := &dto.MessageAuthor{
		UID:             uid,
		Nom:             profile.Nom,
		Prenom:          profile.Prenom,
		ProfilePhotoURL: profile.ProfilePhotoURL,
	}
	member, err := s.members.GetByUser(ctx, uid)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to load author member record", "author_uid", uid, "error", err)
	} else if member != nil && member.Cursus != nil {
		author.Cursus = member.Cursus.String()
	}
	return author, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errs.NewValidationError("le message ne peut pas être vide")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return "", errs.NewValidationError("le message est trop long")
	}
	return content, nil
}

func (s *messageService) Post(ctx context.Context, actor models.Actor, req dto.MessageRequest) (*models.CommunityMessage, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}
	msg := &models.CommunityMessage{
		MessageID: uuid.NewString(),
		UserID:    actor.UID,
		Content:   content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("message posted", "message_id", msg.MessageID)
	return msg, nil
}

// Edit is reserved to the author.
func (s *messageService) Edit(ctx context.Context, actor models.Actor, id string, req dto.MessageRequest) (*models.CommunityMessage, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}
	msg, err := s.messages.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.UserID != actor.UID {
		return nil, errs.NewForbiddenError("seul l'auteur peut modifier ce message")
	}
	if err := s.messages.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	return s.messages.Get(ctx, id)
}

// Delete is allowed to the author and to admins.
func (s *messageService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	msg, err := s.messages.Get(ctx, id)
	if err != nil {
		return err
	}
	if msg.UserID != actor.UID && !actor.IsAdmin {
		return errs.NewForbiddenError("vous ne pouvez pas supprimer ce message")
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("message deleted", "message_id", id, "moderated", msg.UserID != actor.UID)
	return nil
}
