package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ducminhle1904/arlet-state/internal/config"
)

// Backend abstracts the remote document store. Collection names passed to a
// Backend are always fully qualified; prefixing happens in the Client above
// it.
type Backend interface {
	Set(ctx context.Context, collection, documentID string, fields map[string]interface{}, merge bool) error
	Get(ctx context.Context, collection, documentID string) (map[string]interface{}, bool, error)
	GetAll(ctx context.Context, collection string) (map[string]map[string]interface{}, error)
	Delete(ctx context.Context, collection, documentID string) error
	Close() error
}

// firestoreBackend implements Backend over the Cloud Firestore SDK.
type firestoreBackend struct {
	client *firestore.Client
}

func newFirestoreBackend(ctx context.Context, cfg config.FirebaseConfig) (Backend, error) {
	client, err := firestore.NewClient(ctx, cfg.ProjectID, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		return nil, err
	}
	return &firestoreBackend{client: client}, nil
}

func (b *firestoreBackend) Set(ctx context.Context, collection, documentID string, fields map[string]interface{}, merge bool) error {
	doc := b.client.Collection(collection).Doc(documentID)

	if merge {
		_, err := doc.Set(ctx, fields, firestore.MergeAll)
		return err
	}
	_, err := doc.Set(ctx, fields)
	return err
}

func (b *firestoreBackend) Get(ctx context.Context, collection, documentID string) (map[string]interface{}, bool, error) {
	snap, err := b.client.Collection(collection).Doc(documentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return snap.Data(), true, nil
}

func (b *firestoreBackend) GetAll(ctx context.Context, collection string) (map[string]map[string]interface{}, error) {
	docs := make(map[string]map[string]interface{})

	iter := b.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs[snap.Ref.ID] = snap.Data()
	}
	return docs, nil
}

func (b *firestoreBackend) Delete(ctx context.Context, collection, documentID string) error {
	_, err := b.client.Collection(collection).Doc(documentID).Delete(ctx)
	return err
}

func (b *firestoreBackend) Close() error {
	return b.client.Close()
}
