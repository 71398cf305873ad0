package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

type messageStore struct {
	client *firestore.Client
}

func NewMessageStore(client *firestore.Client) *messageStore {
	return &messageStore{client: client}
}

func (s *messageStore) collection() *firestore.CollectionRef {
	return s.client.Collection("community_messages")
}

func (s *messageStore) Create(ctx context.Context, msg *models.CommunityMessage) error {
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	if _, err := s.collection().Doc(msg.MessageID).Set(ctx, msg); err != nil {
		return errs.NewDatabaseError("create", "failed to create message", err)
	}
	return nil
}

func (s *messageStore) Get(ctx context.Context, id string) (*models.CommunityMessage, error) {
	snap, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("message not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get message", err)
	}
	var msg models.CommunityMessage
	if err := snap.DataTo(&msg); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse message data", err)
	}
	return &msg, nil
}

func (s *messageStore) UpdateContent(ctx context.Context, id, content string) error {
	_, err := s.collection().Doc(id).Update(ctx, []firestore.Update{
		{Path: "content", Value: content},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("message not found")
		}
		return errs.NewDatabaseError("update", "failed to update message", err)
	}
	return nil
}

func (s *messageStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection().Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete message", err)
	}
	return nil
}

func (s *messageStore) List(ctx context.Context, limit int) ([]*models.CommunityMessage, error) {
	q := s.collection().OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*models.CommunityMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list messages", err)
		}
		var msg models.CommunityMessage
		if err := doc.DataTo(&msg); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse message data", err)
		}
		out = append(out, &msg)
	}
	return out, nil
}
