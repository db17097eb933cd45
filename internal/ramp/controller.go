package ramp

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/motor2go/internal/motors"
	"github.com/markusressel/motor2go/internal/ui"
	"github.com/markusressel/motor2go/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	// maxConsecutiveApplyFailures is the number of consecutive failed motor
	// commands after which the ramp worker gives up and stops itself.
	// A single failed command is logged and tolerated.
	maxConsecutiveApplyFailures = 3

	recentSpeedsWindowSize = 64
)

var (
	ErrShutdownTimeout = errors.New("ramp worker did not exit before the shutdown timeout")
	ErrMotorFault      = errors.New("motor rejected too many consecutive commands")
)

// ControllerMap holds the ramp controllers of all configured motors, keyed by motor id.
var ControllerMap = cmap.New[RampController]()

type RampStatistics struct {
	// StepCount is the total number of speed increments applied to the motor
	StepCount int
	// ApplyErrorCount is the total number of failed motor commands
	ApplyErrorCount int
}

type RampController interface {
	GetMotorId() string

	// SetTarget sets the desired target speed of the motor.
	// The value is clamped to [motors.MinSpeed, motors.MaxSpeed].
	// Never blocks, the ramp worker picks up the new target on its next cycle.
	// Ignored once the controller has been shut down.
	SetTarget(speed float64)

	// Stop ramps the motor down to a standstill
	Stop()

	// CurrentSpeed returns the speed most recently applied by the ramp worker
	CurrentSpeed() float64

	// TargetSpeed returns the most recently set target speed
	TargetSpeed() float64

	StepSize() float64
	Delay() time.Duration

	// Shutdown terminates the ramp worker, waits for it to exit up to the given
	// timeout and releases the motor. Idempotent, a second call is a no-op.
	// Returns ErrShutdownTimeout if the worker did not exit in time, the motor
	// is released regardless.
	Shutdown(timeout time.Duration) error

	// Wait blocks until the ramp worker has exited and returns the error
	// that stopped it, if any
	Wait() error

	GetStatistics() RampStatistics

	// RecentSpeeds returns the most recently applied speed values
	RecentSpeeds() []float64
}

type rampController struct {
	motor    motors.Motor
	stepSize float64
	delay    time.Duration

	mu           sync.Mutex
	currentSpeed float64
	targetSpeed  float64
	running      bool
	workerErr    error
	stats        RampStatistics
	recentSpeeds *rolling.PointPolicy

	stopCh       chan struct{}
	doneCh       chan struct{}
	shutdownOnce sync.Once
}

// NewRampController creates a controller for the given motor and immediately
// starts its ramp worker. The controller is usable right away; Shutdown must be
// called before the motor is discarded.
func NewRampController(motor motors.Motor, stepSize float64, delay time.Duration) RampController {
	c := &rampController{
		motor:        motor,
		stepSize:     stepSize,
		delay:        delay,
		running:      true,
		recentSpeeds: rolling.NewPointPolicy(rolling.NewWindow(recentSpeedsWindowSize)),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	go c.rampLoop()

	return c
}

func (c *rampController) GetMotorId() string {
	return c.motor.GetId()
}

func (c *rampController) SetTarget(speed float64) {
	speed = util.Coerce(speed, motors.MinSpeed, motors.MaxSpeed)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		// tolerated so teardown ordering mistakes in caller code cannot crash
		return
	}
	c.targetSpeed = speed
}

func (c *rampController) Stop() {
	c.SetTarget(0)
}

func (c *rampController) CurrentSpeed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentSpeed
}

func (c *rampController) TargetSpeed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetSpeed
}

func (c *rampController) StepSize() float64 {
	return c.stepSize
}

func (c *rampController) Delay() time.Duration {
	return c.delay
}

func (c *rampController) Shutdown(timeout time.Duration) error {
	var shutdownErr error
	c.shutdownOnce.Do(func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()

		// interrupts the worker even while it is waiting out its delay
		close(c.stopCh)

		select {
		case <-c.doneCh:
		case <-time.After(timeout):
			ui.Warning("Ramp worker of motor %s did not exit within %s", c.motor.GetId(), timeout)
			shutdownErr = ErrShutdownTimeout
		}

		if err := c.motor.Release(); err != nil {
			ui.Warning("Unable to release motor %s: %v", c.motor.GetId(), err)
		}
	})
	return shutdownErr
}

func (c *rampController) Wait() error {
	<-c.doneCh
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.workerErr
}

func (c *rampController) GetStatistics() RampStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *rampController) RecentSpeeds() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var values []float64
	c.recentSpeeds.Reduce(func(w rolling.Window) float64 {
		for _, bucket := range w {
			values = append(values, bucket...)
		}
		return 0
	})
	return values
}

// rampLoop is the ramp worker. It narrows the gap between current and target
// speed by at most stepSize per cycle until it is told to terminate.
func (c *rampController) rampLoop() {
	defer close(c.doneCh)

	tick := time.NewTicker(c.delay)
	defer tick.Stop()

	consecutiveFailures := 0
	for {
		select {
		case <-c.stopCh:
			return
		case <-tick.C:
			applied, err := c.step()
			if err != nil {
				consecutiveFailures++
				c.mu.Lock()
				c.stats.ApplyErrorCount++
				c.mu.Unlock()

				ui.Warning("Motor %s rejected command: %v", c.motor.GetId(), err)
				if consecutiveFailures >= maxConsecutiveApplyFailures {
					ui.Error("Motor %s rejected %d consecutive commands, stopping ramp worker", c.motor.GetId(), consecutiveFailures)
					c.mu.Lock()
					c.workerErr = ErrMotorFault
					c.mu.Unlock()
					return
				}
			} else if applied {
				consecutiveFailures = 0
			}
		}
	}
}

// step advances the current speed one increment toward the target speed and
// commands the motor. Returns whether a motor command was issued.
func (c *rampController) step() (bool, error) {
	c.mu.Lock()
	target := c.targetSpeed
	current := c.currentSpeed
	c.mu.Unlock()

	if current == target {
		// nothing to do, avoids redundant motor commands
		return false, nil
	}

	diff := target - current
	var next float64
	if math.Abs(diff) <= c.stepSize {
		// the last increment of a ramp lands exactly on the target
		next = target
	} else {
		next = current + math.Copysign(c.stepSize, diff)
	}

	c.mu.Lock()
	c.currentSpeed = next
	c.stats.StepCount++
	c.recentSpeeds.Append(next)
	c.mu.Unlock()

	return true, c.motor.Apply(next)
}
