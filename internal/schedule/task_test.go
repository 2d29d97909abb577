package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musikspil/internal/dependencies/mocks"
	"github.com/mcoot/musikspil/internal/testutil"
)

const interval = 250 * time.Millisecond

type TaskSuite struct {
	suite.Suite
	clock *clockwork.FakeClock
	ctx   context.Context
	ticks chan struct{}
	count atomic.Int32
}

func TestTaskSuite(t *testing.T) {
	suite.Run(t, new(TaskSuite))
}

func (s *TaskSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
	s.ticks = make(chan struct{}, 16)
	s.count.Store(0)
}

func (s *TaskSuite) tick(context.Context) {
	s.count.Add(1)
	s.ticks <- struct{}{}
}

func (s *TaskSuite) newTask(opts ...Option) *Task {
	return NewTask(s.clock, "test", interval, testutil.NopLogger(), opts...)
}

// waitTick waits for one tick to be delivered
func (s *TaskSuite) waitTick() {
	select {
	case <-s.ticks:
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for tick")
	}
}

// noTick asserts no further tick arrives
func (s *TaskSuite) noTick() {
	select {
	case <-s.ticks:
		s.Fail("unexpected tick")
	case <-time.After(50 * time.Millisecond):
	}
}

// waitForTickers blocks until the fake clock has exactly n live tickers
func (s *TaskSuite) waitForTickers(n int) {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	s.Require().NoError(s.clock.BlockUntilContext(ctx, n))
}

func (s *TaskSuite) TestTicksEveryInterval() {
	task := s.newTask()
	task.Start(s.ctx, s.tick)
	defer task.Stop()

	s.waitForTickers(1)
	s.noTick()

	s.clock.Advance(interval)
	s.waitTick()

	s.clock.Advance(interval)
	s.waitTick()

	s.Equal(int32(2), s.count.Load())
}

func (s *TaskSuite) TestImmediateTicksOnStart() {
	task := s.newTask(Immediately())
	task.Start(s.ctx, s.tick)
	defer task.Stop()

	s.waitTick()
	s.Equal(int32(1), s.count.Load())
}

func (s *TaskSuite) TestDoubleStartLeavesOneRun() {
	task := s.newTask()
	task.Start(s.ctx, s.tick)
	task.Start(s.ctx, s.tick)
	defer task.Stop()

	s.waitForTickers(1)
	s.True(task.Running())

	s.clock.Advance(interval)
	s.waitTick()
	s.noTick()
	s.Equal(int32(1), s.count.Load())
}

func (s *TaskSuite) TestStopHaltsTicks() {
	task := s.newTask()
	task.Start(s.ctx, s.tick)
	s.waitForTickers(1)

	task.Stop()
	s.False(task.Running())
	s.waitForTickers(0)

	s.clock.Advance(interval * 4)
	s.noTick()
	s.Equal(int32(0), s.count.Load())
}

func (s *TaskSuite) TestDoubleStopIsNoop() {
	task := s.newTask()
	task.Start(s.ctx, s.tick)

	task.Stop()
	task.Stop()
	s.False(task.Running())
}

func (s *TaskSuite) TestStopBeforeStartIsNoop() {
	task := s.newTask()
	task.Stop()
	s.False(task.Running())
}

func (s *TaskSuite) TestRestartAfterStop() {
	task := s.newTask()
	task.Start(s.ctx, s.tick)
	task.Stop()

	task.Start(s.ctx, s.tick)
	defer task.Stop()
	s.waitForTickers(1)

	s.clock.Advance(interval)
	s.waitTick()
	s.True(task.Running())
}

func (s *TaskSuite) TestContextCancelEndsRun() {
	ctx, cancel := context.WithCancel(s.ctx)
	task := s.newTask()
	task.Start(ctx, s.tick)

	cancel()
	s.Eventually(func() bool { return !task.Running() }, 2*time.Second, 10*time.Millisecond)

	// Stop after the run has already exited still returns
	task.Stop()
}

func (s *TaskSuite) TestNoTickAfterStopReturns() {
	var afterStop atomic.Bool
	var stopped atomic.Bool
	task := s.newTask(Immediately())
	task.Start(s.ctx, func(context.Context) {
		if stopped.Load() {
			afterStop.Store(true)
		}
	})
	s.waitForTickers(1)

	task.Stop()
	stopped.Store(true)

	s.clock.Advance(interval * 2)
	time.Sleep(20 * time.Millisecond)
	s.False(afterStop.Load())
}
