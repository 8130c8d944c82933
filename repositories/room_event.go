//go:generate go run go.uber.org/mock/mockgen -source=room_event.go -destination=../mocks/mock_room_event_repository.go -package=mocks
package repositories

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type IRoomEventRepository interface {
	StoreEvent(event DiskEvent) error
	GetEvents(room string, cursor *string) ([]DiskEvent, *string, error)
}

type RoomEventRepository struct {
	db          *badger.DB
	log         *slog.Logger
	limitEvents *int
}

func NewRoomEventRepository(db *badger.DB, log *slog.Logger, limitEvents *int) RoomEventRepository {
	return RoomEventRepository{db: db, log: log, limitEvents: limitEvents}
}

// DiskEvent is the persisted form of a room lifecycle event.
type DiskEvent struct {
	ID       uuid.UUID
	Room     string
	Kind     string
	ConnID   string
	Nickname string
	Users    []string
	Detail   string
	At       time.Time
}

func roomPrefix(room string) string {
	return fmt.Sprintf("evt:%s:", hex.EncodeToString([]byte(room)))
}

// StoreEvent persists an event in BadgerDB.
// The key is formatted as "evt:{hex(room)}:{timestamp_padded}:{uuid}" so that:
//  1. Any room id is safe inside the key once hex encoded.
//  2. The 19-digit zero padding keeps lexicographical order chronological.
//  3. The UUID separates two events of the same nanosecond.
func (r RoomEventRepository) StoreEvent(event DiskEvent) error {
	key := fmt.Sprintf("%s%019d:%s", roomPrefix(event.Room), event.At.UnixNano(), event.ID)
	value, err := fromDiskEvent(event)
	if err != nil {
		return err
	}
	bytes, err := proto.Marshal(value)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetEvents returns the events of a room, newest first, starting after the
// cursor when one is given. The returned cursor points at the last event read.
func (r RoomEventRepository) GetEvents(room string, cursor *string) ([]DiskEvent, *string, error) {
	var values [][]byte
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := roomPrefix(room)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Highest possible timestamp, then walk back in time
			seekKey = append([]byte(prefixStr), []byte("9999999999999999999")...)
		default:
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}
		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitEvents != nil && len(values) == *r.limitEvents {
				r.log.Debug(fmt.Sprintf("Maximum of %d events reached", *r.limitEvents))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			values = append(values, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	events := make([]DiskEvent, 0, len(values))
	for _, b := range values {
		var value structpb.Struct
		if err := proto.Unmarshal(b, &value); err != nil {
			return nil, nil, err
		}
		event, err := toDiskEvent(&value)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, event)
	}
	if lastKey == "" {
		return events, nil, nil
	}
	return events, &lastKey, nil
}

func fromDiskEvent(event DiskEvent) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":       event.ID.String(),
		"room":     event.Room,
		"kind":     event.Kind,
		"conn_id":  event.ConnID,
		"nickname": event.Nickname,
		"users":    lo.Map(event.Users, func(u string, _ int) any { return u }),
		"detail":   event.Detail,
		"at":       event.At.UTC().Format(time.RFC3339Nano),
	})
}

func toDiskEvent(value *structpb.Struct) (DiskEvent, error) {
	fields := value.GetFields()
	str := func(name string) string { return fields[name].GetStringValue() }

	id, err := uuid.Parse(str("id"))
	if err != nil {
		return DiskEvent{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, str("at"))
	if err != nil {
		return DiskEvent{}, err
	}
	var users []string
	for _, u := range fields["users"].GetListValue().GetValues() {
		users = append(users, u.GetStringValue())
	}
	return DiskEvent{
		ID:       id,
		Room:     str("room"),
		Kind:     str("kind"),
		ConnID:   str("conn_id"),
		Nickname: str("nickname"),
		Users:    users,
		Detail:   str("detail"),
		At:       at,
	}, nil
}
