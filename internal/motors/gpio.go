package motors

import (
	"github.com/markusressel/motor2go/internal/configuration"
	"github.com/markusressel/motor2go/internal/ui"
	"gobot.io/x/gobot/drivers/gpio"
	"gobot.io/x/gobot/platforms/raspi"
)

// GpioMotor drives a bidirectional DC motor connected to a dual-channel
// motor driver board (f.ex. MDD3A) using a PWM speed pin and two direction pins.
type GpioMotor struct {
	Config configuration.MotorConfig

	adaptor  *raspi.Adaptor
	driver   *gpio.MotorDriver
	released bool
}

func NewGpioMotor(config configuration.MotorConfig) (*GpioMotor, error) {
	adaptor := raspi.NewAdaptor()
	if err := adaptor.Connect(); err != nil {
		return nil, err
	}

	driver := gpio.NewMotorDriver(adaptor, config.Gpio.SpeedPin)
	driver.ForwardPin = config.Gpio.ForwardPin
	driver.BackwardPin = config.Gpio.BackwardPin

	if err := driver.Start(); err != nil {
		_ = adaptor.Finalize()
		return nil, err
	}

	return &GpioMotor{
		Config:  config,
		adaptor: adaptor,
		driver:  driver,
	}, nil
}

func (motor *GpioMotor) GetId() string {
	return motor.Config.ID
}

func (motor *GpioMotor) GetConfig() configuration.MotorConfig {
	return motor.Config
}

func (motor *GpioMotor) Apply(speed float64) error {
	duty := Duty(speed)
	switch {
	case duty > 0:
		return motor.driver.Forward(byte(duty))
	case duty < 0:
		return motor.driver.Backward(byte(-duty))
	default:
		return motor.driver.Off()
	}
}

func (motor *GpioMotor) Release() error {
	if motor.released {
		return nil
	}
	motor.released = true

	if err := motor.driver.Off(); err != nil {
		ui.Warning("Unable to turn off motor %s: %v", motor.GetId(), err)
	}
	if err := motor.driver.Halt(); err != nil {
		ui.Warning("Unable to halt motor driver of %s: %v", motor.GetId(), err)
	}
	return motor.adaptor.Finalize()
}
