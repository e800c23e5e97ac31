package service_test

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
)

// taskQueueMock mocks service.TaskQueue. Expectations match on the task
// type only; payloads are asserted through MatchedBy where a test cares.
type taskQueueMock struct {
	mock.Mock
}

func (m *taskQueueMock) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if info, ok := args.Get(0).(*asynq.TaskInfo); ok {
		return info, args.Error(1)
	}
	return nil, args.Error(1)
}
