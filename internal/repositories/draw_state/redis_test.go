package draw_state

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/KirkDiggler/secretsanta/internal/models"
	"github.com/KirkDiggler/secretsanta/internal/roster"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	roster *roster.Roster
	logger *logrus.Logger
	repo   Repository
	ctx    context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	s.roster = roster.Default()
	s.logger = logrus.New()
	s.logger.SetOutput(io.Discard)

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
		Roster:      s.roster,
		Logger:      s.logger,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) defaultState() *models.DrawState {
	return models.NewDrawState(s.roster.Names())
}

func (s *RedisRepositoryTestSuite) TestNewRedis_Validation() {
	_, err := NewRedis(nil)
	s.Error(err)

	_, err = NewRedis(&Config{Roster: s.roster})
	s.Error(err)

	_, err = NewRedis(&Config{RedisClient: s.client})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestLoadState_EmptyStore() {
	output, err := s.repo.LoadState(s.ctx, &LoadStateInput{})
	s.Require().NoError(err)

	s.Equal(s.defaultState(), output.State)
	s.False(output.Recovered)
	s.False(output.Discarded)
}

func (s *RedisRepositoryTestSuite) TestSaveState_WritesLayout() {
	state := s.defaultState()
	state.Assigned["Karan"] = "Shashi"
	state.Available = []string{"Karan", "Krisha", "Rekha", "Raj", "Roopesh", "Roosh", "Manisha", "Trevor", "Shannon"}
	state.DeviceLock = "Karan"

	err := s.repo.SaveState(s.ctx, &SaveStateInput{State: state})
	s.Require().NoError(err)

	version, err := s.mr.Get("santa:schema_version")
	s.Require().NoError(err)
	s.Equal(models.SchemaVersion, version)

	lock, err := s.mr.Get("santa:device_lock")
	s.Require().NoError(err)
	s.Equal("Karan", lock)

	rawAssigned, err := s.mr.Get("santa:assigned")
	s.Require().NoError(err)
	var assigned map[string]string
	s.Require().NoError(json.Unmarshal([]byte(rawAssigned), &assigned))
	s.Equal(map[string]string{"Karan": "Shashi"}, assigned)

	rawAvailable, err := s.mr.Get("santa:available")
	s.Require().NoError(err)
	var available []string
	s.Require().NoError(json.Unmarshal([]byte(rawAvailable), &available))
	s.Equal(state.Available, available)

	output, err := s.repo.LoadState(s.ctx, &LoadStateInput{})
	s.Require().NoError(err)
	s.Equal(state, output.State)
	s.False(output.Recovered)
}

func (s *RedisRepositoryTestSuite) TestSaveState_NilInput() {
	s.Error(s.repo.SaveState(s.ctx, nil))
	s.Error(s.repo.SaveState(s.ctx, &SaveStateInput{}))
}

func (s *RedisRepositoryTestSuite) TestLoadState_UnparsableFieldsMatchEmptyStore() {
	s.Require().NoError(s.mr.Set("santa:schema_version", models.SchemaVersion))
	s.Require().NoError(s.mr.Set("santa:assigned", "{not json"))
	s.Require().NoError(s.mr.Set("santa:available", "[\"Karan\","))

	output, err := s.repo.LoadState(s.ctx, &LoadStateInput{})
	s.Require().NoError(err)

	s.Equal(s.defaultState(), output.State)
	s.True(output.Recovered)
}

func (s *RedisRepositoryTestSuite) TestLoadState_WrongKeyTypeIsIgnored() {
	s.Require().NoError(s.mr.Set("santa:schema_version", models.SchemaVersion))
	s.mr.HSet("santa:assigned", "Karan", "Shashi")

	output, err := s.repo.LoadState(s.ctx, &LoadStateInput{})
	s.Require().NoError(err)

	s.Empty(output.State.Assigned)
	s.Equal(s.roster.Names(), output.State.Available)
}

func (s *RedisRepositoryTestSuite) TestLoadState_CorruptPoolRebuiltFromAssignments() {
	s.Require().NoError(s.mr.Set("santa:schema_version", models.SchemaVersion))
	s.Require().NoError(s.mr.Set("santa:assigned", `{"Karan":"Shashi"}`))
	s.Require().NoError(s.mr.Set("santa:available", "garbage"))
	s.Require().NoError(s.mr.Set("santa:device_lock", "Karan"))

	output, err := s.repo.LoadState(s.ctx, &LoadStateInput{})
	s.Require().NoError(err)

	s.True(output.Recovered)
	s.Equal(map[string]string{"Karan": "Shashi"}, output.State.Assigned)
	s.NotContains(output.State.Available, "Shashi")
	s.Len(output.State.Available, 9)
	s.Equal("Karan", output.State.DeviceLock)
}

func (s *RedisRepositoryTestSuite) TestLoadState_StaleVersionDiscardsEverything() {
	s.Require().NoError(s.mr.Set("santa:schema_version", "3"))
	s.Require().NoError(s.mr.Set("santa:assigned", `{"Karan":"Shashi"}`))
	s.Require().NoError(s.mr.Set("santa:device_lock", "Karan"))

	output, err := s.repo.LoadState(s.ctx, &LoadStateInput{})
	s.Require().NoError(err)

	s.True(output.Discarded)
	s.Equal(s.defaultState(), output.State)
	s.False(s.mr.Exists("santa:assigned"))
	s.False(s.mr.Exists("santa:device_lock"))
	s.False(s.mr.Exists("santa:schema_version"))
}

func (s *RedisRepositoryTestSuite) TestLoadState_UnversionedDataIsStale() {
	// data written before schema versioning existed
	s.Require().NoError(s.mr.Set("santa:assigned", `{"Karan":"Shashi"}`))
	s.Require().NoError(s.mr.Set("santa:available", `["Karan"]`))

	output, err := s.repo.LoadState(s.ctx, &LoadStateInput{})
	s.Require().NoError(err)

	s.True(output.Discarded)
	s.Equal(s.defaultState(), output.State)
}

func (s *RedisRepositoryTestSuite) TestResetState() {
	state := s.defaultState()
	state.Assigned["Trevor"] = "Raj"
	state.Available = []string{"Karan", "Krisha", "Rekha", "Shashi", "Roopesh", "Roosh", "Manisha", "Trevor", "Shannon"}
	state.DeviceLock = "Trevor"
	s.Require().NoError(s.repo.SaveState(s.ctx, &SaveStateInput{State: state}))

	s.Require().NoError(s.repo.ResetState(s.ctx, &ResetStateInput{}))

	for _, field := range allFields {
		s.False(s.mr.Exists("santa:"+field), field)
	}

	output, err := s.repo.LoadState(s.ctx, &LoadStateInput{})
	s.Require().NoError(err)
	s.Equal(s.defaultState(), output.State)
	s.False(output.State.IsLocked())
}

func (s *RedisRepositoryTestSuite) TestKeyPrefixIsolatesDevices() {
	other, err := NewRedis(&Config{
		RedisClient: s.client,
		KeyPrefix:   "kiosk-2",
		Roster:      s.roster,
		Logger:      s.logger,
	})
	s.Require().NoError(err)

	state := s.defaultState()
	state.DeviceLock = "Roosh"
	s.Require().NoError(other.SaveState(s.ctx, &SaveStateInput{State: state}))

	output, err := s.repo.LoadState(s.ctx, &LoadStateInput{})
	s.Require().NoError(err)
	s.False(output.State.IsLocked())

	s.True(s.mr.Exists("kiosk-2:device_lock"))
}
