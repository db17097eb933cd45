package motor

import (
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a motor and release its hardware resources",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		motor, err := getMotor(motorId)
		if err != nil {
			return err
		}

		if err = motor.Apply(0); err != nil {
			return err
		}
		return motor.Release()
	},
}

func init() {
	Command.AddCommand(stopCmd)
}
