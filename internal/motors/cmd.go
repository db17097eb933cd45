package motors

import (
	"strconv"
	"strings"
	"time"

	"github.com/markusressel/motor2go/internal/configuration"
	"github.com/markusressel/motor2go/internal/util"
)

// CmdMotor delegates motor commands to external executables.
type CmdMotor struct {
	Config configuration.MotorConfig
}

func (motor *CmdMotor) GetId() string {
	return motor.Config.ID
}

func (motor *CmdMotor) GetConfig() configuration.MotorConfig {
	return motor.Config
}

func (motor *CmdMotor) Apply(speed float64) error {
	conf := motor.Config.Cmd.Apply

	speedArg := strconv.FormatFloat(speed, 'f', -1, 64)
	var args = []string{}
	for _, arg := range conf.Args {
		replaced := strings.ReplaceAll(arg, "%speed%", speedArg)
		args = append(args, replaced)
	}

	timeout := 2 * time.Second
	_, err := util.SafeCmdExecution(conf.Exec, args, timeout)
	return err
}

func (motor *CmdMotor) Release() error {
	conf := motor.Config.Cmd.Release
	if conf == nil {
		// no dedicated release command, stopping the motor is the best we can do
		return motor.Apply(0)
	}

	timeout := 2 * time.Second
	_, err := util.SafeCmdExecution(conf.Exec, conf.Args, timeout)
	return err
}
