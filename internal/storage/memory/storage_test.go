package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSetAndGet() {
	s.Require().NoError(s.storage.Set(s.ctx, storage.KeyDeviceID, "device-1"))

	v, err := s.storage.Get(s.ctx, storage.KeyDeviceID)
	s.Require().NoError(err)
	s.Equal("device-1", v)
}

func (s *StorageSuite) TestGetMissingKey() {
	_, err := s.storage.Get(s.ctx, "missing")
	s.ErrorIs(err, model.ErrKeyNotFound)
}

func (s *StorageSuite) TestSetOverwrites() {
	_ = s.storage.Set(s.ctx, storage.KeyHistoryCollapsed, "0")
	_ = s.storage.Set(s.ctx, storage.KeyHistoryCollapsed, "1")

	v, err := s.storage.Get(s.ctx, storage.KeyHistoryCollapsed)
	s.Require().NoError(err)
	s.Equal("1", v)
	s.Equal(2, s.storage.Writes())
}

func (s *StorageSuite) TestDelete() {
	_ = s.storage.Set(s.ctx, storage.KeyDeviceID, "device-1")

	s.Require().NoError(s.storage.Delete(s.ctx, storage.KeyDeviceID))

	_, err := s.storage.Get(s.ctx, storage.KeyDeviceID)
	s.ErrorIs(err, model.ErrKeyNotFound)
}

func (s *StorageSuite) TestDeleteMissingKeyIsNoop() {
	s.NoError(s.storage.Delete(s.ctx, "missing"))
}
