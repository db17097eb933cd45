package motor

import (
	"strconv"

	"github.com/spf13/cobra"
)

var setSpeedCmd = &cobra.Command{
	Use:   "setSpeed",
	Short: "Set the speed of a motor directly, without ramping ([-1.0..1.0])",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		speed, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}

		motor, err := getMotor(motorId)
		if err != nil {
			return err
		}

		return motor.Apply(speed)
	},
}

func init() {
	Command.AddCommand(setSpeedCmd)
}
