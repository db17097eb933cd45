package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRampConfig() RampConfig {
	return RampConfig{
		StepSize:        0.05,
		Delay:           20 * time.Millisecond,
		ShutdownTimeout: 5 * time.Second,
	}
}

func TestValidateConfigEmpty(t *testing.T) {
	// GIVEN
	config := Configuration{
		Ramp: validRampConfig(),
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.NoError(t, err)
}

func TestValidateRampInvalidStepSize(t *testing.T) {
	// GIVEN
	config := Configuration{
		Ramp: RampConfig{
			StepSize:        1.5,
			Delay:           20 * time.Millisecond,
			ShutdownTimeout: 5 * time.Second,
		},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stepSize")
}

func TestValidateRampInvalidDelay(t *testing.T) {
	// GIVEN
	config := Configuration{
		Ramp: RampConfig{
			StepSize:        0.05,
			Delay:           0,
			ShutdownTimeout: 5 * time.Second,
		},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "delay")
}

func TestValidateMotorWithoutSubConfig(t *testing.T) {
	// GIVEN
	config := Configuration{
		Ramp: validRampConfig(),
		Motors: []MotorConfig{
			{
				ID: "motor1",
			},
		},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sub-configuration")
}

func TestValidateMotorWithMultipleSubConfigs(t *testing.T) {
	// GIVEN
	config := Configuration{
		Ramp: validRampConfig(),
		Motors: []MotorConfig{
			{
				ID: "motor1",
				Gpio: &GpioMotorConfig{
					SpeedPin:    "11",
					ForwardPin:  "13",
					BackwardPin: "15",
				},
				File: &FileMotorConfig{
					Path: "/tmp/motor1",
				},
			},
		},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only one motor type")
}

func TestValidateMotorDuplicateId(t *testing.T) {
	// GIVEN
	config := Configuration{
		Ramp: validRampConfig(),
		Motors: []MotorConfig{
			{
				ID:   "motor1",
				File: &FileMotorConfig{Path: "/tmp/motor1"},
			},
			{
				ID:   "motor1",
				File: &FileMotorConfig{Path: "/tmp/motor2"},
			},
		},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestValidateGpioMotorMissingDirectionPins(t *testing.T) {
	// GIVEN
	config := Configuration{
		Ramp: validRampConfig(),
		Motors: []MotorConfig{
			{
				ID: "motor1",
				Gpio: &GpioMotorConfig{
					SpeedPin: "11",
				},
			},
		},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "forwardPin")
}

func TestValidateFileMotorMissingPath(t *testing.T) {
	// GIVEN
	config := Configuration{
		Ramp: validRampConfig(),
		Motors: []MotorConfig{
			{
				ID:   "motor1",
				File: &FileMotorConfig{},
			},
		},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "path")
}

func TestValidateCmdMotorMissingApply(t *testing.T) {
	// GIVEN
	config := Configuration{
		Ramp: validRampConfig(),
		Motors: []MotorConfig{
			{
				ID:  "motor1",
				Cmd: &CmdMotorConfig{},
			},
		},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "apply command")
}

func TestValidateMotorStepSizeOverrideOutOfRange(t *testing.T) {
	// GIVEN
	config := Configuration{
		Ramp: validRampConfig(),
		Motors: []MotorConfig{
			{
				ID:       "motor1",
				StepSize: 2.0,
				File:     &FileMotorConfig{Path: "/tmp/motor1"},
			},
		},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stepSize")
}
