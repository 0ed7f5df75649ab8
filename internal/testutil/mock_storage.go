//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/math-battle/internal/protocol/codec"
)

// MockRoomStore 房间存储 mock
type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) SaveRoom(ctx context.Context, snap codec.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockRoomStore) LoadRoom(ctx context.Context, code string) (*codec.Snapshot, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*codec.Snapshot), args.Error(1)
}

func (m *MockRoomStore) DeleteRoom(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}
