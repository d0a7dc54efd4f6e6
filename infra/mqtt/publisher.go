package mqtt

import (
	"context"
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/trainready/core/mqtt"
)

// MockPublisher records plans in memory for tests.
type MockPublisher struct {
	mu    sync.Mutex
	Plans []coremqtt.InductionPlan
	Fail  bool
}

// NewMockPublisher creates an empty MockPublisher.
func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

// PublishPlan stores the plan or fails when configured to.
func (m *MockPublisher) PublishPlan(_ context.Context, plan coremqtt.InductionPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Plans = append(m.Plans, plan)
	return nil
}

// Published returns a copy of the recorded plans.
func (m *MockPublisher) Published() []coremqtt.InductionPlan {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]coremqtt.InductionPlan, len(m.Plans))
	copy(out, m.Plans)
	return out
}

// Close is a no-op.
func (m *MockPublisher) Close() error { return nil }
