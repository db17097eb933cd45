package ramp

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/markusressel/motor2go/internal/configuration"
	"github.com/stretchr/testify/assert"
)

type MockMotor struct {
	ID string

	mu           sync.Mutex
	applied      []float64
	failuresLeft int
	alwaysFail   bool
	releaseCount int
}

func (motor *MockMotor) GetId() string {
	return motor.ID
}

func (motor *MockMotor) GetConfig() configuration.MotorConfig {
	return configuration.MotorConfig{ID: motor.ID}
}

func (motor *MockMotor) Apply(speed float64) error {
	motor.mu.Lock()
	defer motor.mu.Unlock()
	if motor.alwaysFail {
		return errors.New("hardware fault")
	}
	if motor.failuresLeft > 0 {
		motor.failuresLeft--
		return errors.New("hardware fault")
	}
	motor.applied = append(motor.applied, speed)
	return nil
}

func (motor *MockMotor) Release() error {
	motor.mu.Lock()
	defer motor.mu.Unlock()
	motor.releaseCount++
	return nil
}

func (motor *MockMotor) Applied() []float64 {
	motor.mu.Lock()
	defer motor.mu.Unlock()
	result := make([]float64, len(motor.applied))
	copy(result, motor.applied)
	return result
}

func (motor *MockMotor) ApplyCount() int {
	motor.mu.Lock()
	defer motor.mu.Unlock()
	return len(motor.applied)
}

func (motor *MockMotor) ReleaseCount() int {
	motor.mu.Lock()
	defer motor.mu.Unlock()
	return motor.releaseCount
}

func TestRampToTarget(t *testing.T) {
	// GIVEN
	motor := &MockMotor{ID: "motor1"}
	controller := NewRampController(motor, 0.05, 1*time.Millisecond)
	defer func() { _ = controller.Shutdown(time.Second) }()

	// WHEN
	controller.SetTarget(0.8)

	// THEN
	assert.Eventually(t, func() bool {
		return controller.CurrentSpeed() == 0.8
	}, 2*time.Second, 5*time.Millisecond)

	// let the in-flight motor command settle
	time.Sleep(20 * time.Millisecond)

	applied := motor.Applied()
	assert.Equal(t, 16, len(applied))
	assert.Equal(t, 0.8, applied[len(applied)-1])

	// every increment is at most stepSize and moves toward the target
	previous := 0.0
	for _, speed := range applied {
		delta := speed - previous
		assert.True(t, delta > 0, "ramp must be monotonic, got delta %f", delta)
		assert.LessOrEqual(t, delta, 0.05+1e-9)
		previous = speed
	}
}

func TestHoldsAtTargetWithoutFurtherCommands(t *testing.T) {
	// GIVEN
	motor := &MockMotor{ID: "motor1"}
	controller := NewRampController(motor, 0.2, 1*time.Millisecond)
	defer func() { _ = controller.Shutdown(time.Second) }()

	controller.SetTarget(0.6)
	assert.Eventually(t, func() bool {
		return controller.CurrentSpeed() == 0.6
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	// WHEN
	countAtTarget := motor.ApplyCount()
	time.Sleep(50 * time.Millisecond)

	// THEN
	assert.Equal(t, countAtTarget, motor.ApplyCount())
}

func TestSetTargetIsClamped(t *testing.T) {
	// GIVEN
	motor := &MockMotor{ID: "motor1"}
	controller := NewRampController(motor, 1.0, 1*time.Millisecond)
	defer func() { _ = controller.Shutdown(time.Second) }()

	// WHEN
	controller.SetTarget(5.0)

	// THEN
	assert.Equal(t, 1.0, controller.TargetSpeed())
	assert.Eventually(t, func() bool {
		return controller.CurrentSpeed() == 1.0
	}, 2*time.Second, 5*time.Millisecond)

	// WHEN
	controller.SetTarget(-5.0)

	// THEN
	assert.Equal(t, -1.0, controller.TargetSpeed())
}

func TestOversizedStepReachesTargetInOneStep(t *testing.T) {
	// GIVEN
	motor := &MockMotor{ID: "motor1"}
	controller := NewRampController(motor, 1.0, 1*time.Millisecond)
	defer func() { _ = controller.Shutdown(time.Second) }()

	// WHEN
	controller.SetTarget(1.0)

	// THEN
	assert.Eventually(t, func() bool {
		return controller.CurrentSpeed() == 1.0
	}, 2*time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []float64{1.0}, motor.Applied())
}

func TestDirectionReversalMidRamp(t *testing.T) {
	// GIVEN
	motor := &MockMotor{ID: "motor1"}
	controller := NewRampController(motor, 0.3, 1*time.Millisecond)
	defer func() { _ = controller.Shutdown(time.Second) }()

	controller.SetTarget(0.8)
	assert.Eventually(t, func() bool {
		return controller.CurrentSpeed() >= 0.3
	}, 2*time.Second, time.Millisecond)

	// WHEN
	controller.SetTarget(-0.5)

	// THEN
	assert.Eventually(t, func() bool {
		return controller.CurrentSpeed() == -0.5
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	// the ramp reverses direction without a special "pass through zero" phase,
	// every increment stays within stepSize
	applied := motor.Applied()
	for i := 1; i < len(applied); i++ {
		assert.LessOrEqual(t, math.Abs(applied[i]-applied[i-1]), 0.3+1e-9)
	}
	assert.Equal(t, -0.5, applied[len(applied)-1])
}

func TestStopRampsDownToZero(t *testing.T) {
	// GIVEN
	motor := &MockMotor{ID: "motor1"}
	controller := NewRampController(motor, 0.25, 1*time.Millisecond)
	defer func() { _ = controller.Shutdown(time.Second) }()

	controller.SetTarget(1.0)
	assert.Eventually(t, func() bool {
		return controller.CurrentSpeed() == 1.0
	}, 2*time.Second, 5*time.Millisecond)

	// WHEN
	controller.Stop()

	// THEN
	assert.Eventually(t, func() bool {
		return controller.CurrentSpeed() == 0.0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0.0, controller.TargetSpeed())
}

func TestShutdownIsIdempotent(t *testing.T) {
	// GIVEN
	motor := &MockMotor{ID: "motor1"}
	controller := NewRampController(motor, 0.05, 1*time.Millisecond)

	// WHEN
	err := controller.Shutdown(time.Second)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 1, motor.ReleaseCount())

	// WHEN the second call returns promptly without releasing again
	start := time.Now()
	err = controller.Shutdown(time.Second)

	// THEN
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 1, motor.ReleaseCount())
}

func TestShutdownInterruptsDelay(t *testing.T) {
	// GIVEN a worker that spends most of its time waiting out the delay
	motor := &MockMotor{ID: "motor1"}
	controller := NewRampController(motor, 0.05, 10*time.Second)

	// WHEN
	start := time.Now()
	err := controller.Shutdown(time.Second)

	// THEN shutdown does not wait out a full delay interval
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSetTargetAfterShutdownIsIgnored(t *testing.T) {
	// GIVEN
	motor := &MockMotor{ID: "motor1"}
	controller := NewRampController(motor, 0.05, 1*time.Millisecond)
	assert.NoError(t, controller.Shutdown(time.Second))
	countAfterShutdown := motor.ApplyCount()

	// WHEN
	controller.SetTarget(1.0)
	time.Sleep(50 * time.Millisecond)

	// THEN no further motor commands happen
	assert.Equal(t, 0.0, controller.TargetSpeed())
	assert.Equal(t, countAfterShutdown, motor.ApplyCount())
}

func TestTransientApplyFailureIsTolerated(t *testing.T) {
	// GIVEN a motor that rejects the first two commands
	motor := &MockMotor{ID: "motor1", failuresLeft: 2}
	controller := NewRampController(motor, 0.5, 1*time.Millisecond)
	defer func() { _ = controller.Shutdown(time.Second) }()

	// WHEN
	controller.SetTarget(-1.0)

	// THEN the ramp still converges
	assert.Eventually(t, func() bool {
		return controller.CurrentSpeed() == -1.0
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, controller.GetStatistics().ApplyErrorCount)
}

func TestPersistentApplyFailureStopsWorker(t *testing.T) {
	// GIVEN
	motor := &MockMotor{ID: "motor1", alwaysFail: true}
	controller := NewRampController(motor, 0.05, 1*time.Millisecond)

	// WHEN
	controller.SetTarget(1.0)
	err := controller.Wait()

	// THEN
	assert.True(t, errors.Is(err, ErrMotorFault))
	assert.Equal(t, maxConsecutiveApplyFailures, controller.GetStatistics().ApplyErrorCount)

	// the motor is still released on shutdown
	assert.NoError(t, controller.Shutdown(time.Second))
	assert.Equal(t, 1, motor.ReleaseCount())
}

func TestStatistics(t *testing.T) {
	// GIVEN
	motor := &MockMotor{ID: "motor1"}
	controller := NewRampController(motor, 0.25, 1*time.Millisecond)
	defer func() { _ = controller.Shutdown(time.Second) }()

	// WHEN
	controller.SetTarget(1.0)
	assert.Eventually(t, func() bool {
		return controller.CurrentSpeed() == 1.0
	}, 2*time.Second, 5*time.Millisecond)

	// THEN
	stats := controller.GetStatistics()
	assert.Equal(t, 4, stats.StepCount)
	assert.Equal(t, 0, stats.ApplyErrorCount)
	assert.Equal(t, 4, len(controller.RecentSpeeds()))
}
