package sink

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
	"github.com/Jeyasaravanan18/synctube-backend/mocks"
	"github.com/Jeyasaravanan18/synctube-backend/repositories"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDiskSink_Stores_Membership_Events(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIRoomEventRepository(ctrl)
	diskSink := NewDiskSink(repository, slog.Default())
	at := time.Now().UTC()

	// Given the repository accepts the join
	repository.EXPECT().StoreEvent(gomock.Any()).
		DoAndReturn(func(e repositories.DiskEvent) error {
			req.Equal("movie", e.Room)
			req.Equal(string(event.ParticipantJoinedKind), e.Kind)
			req.Equal("Alice", e.Nickname)
			req.Equal([]string{"Alice"}, e.Users)
			req.Equal("host", e.Detail)
			req.Equal(at, e.At)
			return nil
		}).
		Times(1)

	// When a join is consumed
	err := diskSink.Consume(context.Background(), event.ParticipantJoined{
		Room: "movie", ConnID: "c1", Nickname: "Alice", IsHost: true, Users: []string{"Alice"}, At: at,
	})

	// Then it is stored
	req.NoError(err)
}

func TestDiskSink_Skips_Relayed_Messages(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIRoomEventRepository(ctrl)
	diskSink := NewDiskSink(repository, slog.Default())

	// Given the repository must not be called
	repository.EXPECT().StoreEvent(gomock.Any()).Times(0)

	// When a relayed message is consumed
	err := diskSink.Consume(context.Background(), event.MessageRelayed{Room: "movie", Size: 10, At: time.Now()})

	// Then nothing is stored
	req.NoError(err)
}

func TestDiskSink_Canceled_Context(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIRoomEventRepository(ctrl)
	diskSink := NewDiskSink(repository, slog.Default())
	repository.EXPECT().StoreEvent(gomock.Any()).Times(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := diskSink.Consume(ctx, event.RoomClosed{Room: "movie", At: time.Now()})

	req.ErrorIs(err, context.Canceled)
}
