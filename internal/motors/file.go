package motors

import (
	"os/user"
	"path/filepath"
	"strings"

	"github.com/markusressel/motor2go/internal/configuration"
	"github.com/markusressel/motor2go/internal/util"
)

// FileMotor writes the signed duty cycle to a file.
// Mainly useful for testing and for drivers exposing a sysfs-like interface.
type FileMotor struct {
	Config configuration.MotorConfig
}

func (motor *FileMotor) GetId() string {
	return motor.Config.ID
}

func (motor *FileMotor) GetConfig() configuration.MotorConfig {
	return motor.Config
}

func (motor *FileMotor) Apply(speed float64) error {
	return util.WriteIntToFileAtomic(Duty(speed), motor.resolvedPath())
}

func (motor *FileMotor) Release() error {
	// writing 0 de-energizes the motor, there is no exclusive resource to give up
	return util.WriteIntToFileAtomic(0, motor.resolvedPath())
}

func (motor *FileMotor) resolvedPath() string {
	filePath := motor.Config.File.Path
	// resolve home dir path
	if strings.HasPrefix(filePath, "~") {
		currentUser, err := user.Current()
		if err != nil {
			return filePath
		}

		filePath = filepath.Join(currentUser.HomeDir, filePath[1:])
	}
	return filePath
}
