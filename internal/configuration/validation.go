package configuration

import (
	"errors"
	"fmt"

	"github.com/markusressel/motor2go/internal/util"
	"golang.org/x/exp/slices"
)

func Validate(configPath string) error {
	return validateConfig(&CurrentConfig, configPath)
}

func validateConfig(config *Configuration, path string) error {
	err := validateRamp(config)
	if err != nil {
		return err
	}
	err = validateMotors(config)
	if err != nil {
		return err
	}

	if containsCmdMotors(config) {
		if _, err := util.CheckFilePermissionsForExecution(path); err != nil {
			return fmt.Errorf("config file '%s' has invalid permissions: %s", path, err)
		}
	}

	return nil
}

func validateRamp(config *Configuration) error {
	ramp := config.Ramp
	if ramp.StepSize <= 0 || ramp.StepSize > 1 {
		return fmt.Errorf("ramp: stepSize must be in (0, 1], got %f", ramp.StepSize)
	}
	if ramp.Delay <= 0 {
		return errors.New("ramp: delay must be > 0")
	}
	if ramp.ShutdownTimeout <= 0 {
		return errors.New("ramp: shutdownTimeout must be > 0")
	}
	return nil
}

func validateMotors(config *Configuration) error {
	var ids []string
	for _, motorConfig := range config.Motors {
		if len(motorConfig.ID) <= 0 {
			return errors.New("motor: id is missing")
		}
		if slices.Contains(ids, motorConfig.ID) {
			return fmt.Errorf("motor %s: duplicate id", motorConfig.ID)
		}
		ids = append(ids, motorConfig.ID)

		subConfigs := 0
		if motorConfig.Gpio != nil {
			subConfigs++
		}
		if motorConfig.File != nil {
			subConfigs++
		}
		if motorConfig.Cmd != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("motor %s: only one motor type can be used per motor definition block", motorConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("motor %s: sub-configuration for motor is missing, use one of: gpio | file | cmd", motorConfig.ID)
		}

		if motorConfig.StepSize < 0 || motorConfig.StepSize > 1 {
			return fmt.Errorf("motor %s: stepSize must be in (0, 1], got %f", motorConfig.ID, motorConfig.StepSize)
		}
		if motorConfig.Delay < 0 {
			return fmt.Errorf("motor %s: delay must be > 0", motorConfig.ID)
		}

		if motorConfig.Gpio != nil {
			gpio := motorConfig.Gpio
			if len(gpio.SpeedPin) <= 0 {
				return fmt.Errorf("motor %s: speedPin is missing", motorConfig.ID)
			}
			if len(gpio.ForwardPin) <= 0 || len(gpio.BackwardPin) <= 0 {
				return fmt.Errorf("motor %s: forwardPin and backwardPin are required for a bidirectional motor", motorConfig.ID)
			}
		}

		if motorConfig.File != nil {
			if len(motorConfig.File.Path) <= 0 {
				return fmt.Errorf("motor %s: no file path provided", motorConfig.ID)
			}
		}

		if motorConfig.Cmd != nil {
			if motorConfig.Cmd.Apply == nil || len(motorConfig.Cmd.Apply.Exec) <= 0 {
				return fmt.Errorf("motor %s: no apply command provided", motorConfig.ID)
			}
		}
	}

	return nil
}

func containsCmdMotors(config *Configuration) bool {
	for _, motorConfig := range config.Motors {
		if motorConfig.Cmd != nil {
			return true
		}
	}

	return false
}
