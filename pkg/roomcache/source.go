package roomcache

import (
	"context"

	"khietan/pkg/client"
	"khietan/pkg/mirror"
	"khietan/pkg/model"
)

// RemoteSource reads the public list from the homepage API.
type RemoteSource struct {
	client *client.HomepageClient
}

func NewRemoteSource(c *client.HomepageClient) *RemoteSource {
	return &RemoteSource{client: c}
}

func (s *RemoteSource) Fetch(ctx context.Context) ([]model.PublicRoom, error) {
	return s.client.ListRooms(ctx)
}

// MirrorSource reads the snapshot the admin service publishes to Redis.
type MirrorSource struct {
	store *mirror.Store
}

func NewMirrorSource(store *mirror.Store) *MirrorSource {
	return &MirrorSource{store: store}
}

func (s *MirrorSource) Fetch(ctx context.Context) ([]model.PublicRoom, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Rooms, nil
}
