package motor

import (
	"fmt"

	"github.com/markusressel/motor2go/internal/configuration"
	"github.com/markusressel/motor2go/internal/motors"
	"github.com/markusressel/motor2go/internal/ui"
	"github.com/spf13/cobra"
)

var motorId string

var Command = &cobra.Command{
	Use:              "motor",
	Short:            "Motor related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&motorId,
		"id", "i",
		"",
		"Motor ID as specified in the config",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getMotor(id string) (motors.Motor, error) {
	configPath := configuration.DetectConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	if err := configuration.Validate(configPath); err != nil {
		ui.Fatal(err.Error())
	}

	for _, config := range configuration.CurrentConfig.Motors {
		if config.ID == id {
			return motors.NewMotor(config)
		}
	}

	return nil, fmt.Errorf("no motor with id found: %s", id)
}
