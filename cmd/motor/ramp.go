package motor

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/motor2go/cmd/global"
	"github.com/markusressel/motor2go/internal/configuration"
	"github.com/markusressel/motor2go/internal/ramp"
	"github.com/markusressel/motor2go/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var rampCmd = &cobra.Command{
	Use:   "ramp",
	Short: "Ramp a motor to the given target speed and back to a standstill",
	Long: `Runs a full ramp cycle on the given motor: the speed is gradually
increased to the target value, then gradually reduced back to zero.
Afterwards the applied speed trajectory is printed as a graph.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}

		motor, err := getMotor(motorId)
		if err != nil {
			return err
		}

		rampConfig := configuration.CurrentConfig.Ramp
		stepSize := motor.GetConfig().StepSize
		if stepSize == 0 {
			stepSize = rampConfig.StepSize
		}
		delay := motor.GetConfig().Delay
		if delay == 0 {
			delay = rampConfig.Delay
		}

		printRampParameters(motor.GetId(), target, stepSize, delay)

		controller := ramp.NewRampController(motor, stepSize, delay)

		var trajectory []float64

		ui.Info("Ramping motor '%s' to %.2f...", motor.GetId(), target)
		controller.SetTarget(target)
		trajectory = waitForTarget(controller, delay, trajectory)

		ui.Info("Ramping motor '%s' back to a standstill...", motor.GetId())
		controller.Stop()
		trajectory = waitForTarget(controller, delay, trajectory)

		if err := controller.Shutdown(rampConfig.ShutdownTimeout); err != nil {
			ui.Warning("Best effort shutdown of motor %s: %v", motor.GetId(), err)
		}

		graph := asciigraph.Plot(
			trajectory,
			asciigraph.Height(10),
			asciigraph.Caption("speed / cycle"),
		)
		ui.Printfln(graph)

		return nil
	},
}

// waitForTarget polls the controller once per ramp cycle until the current
// speed has converged onto the target speed, recording the trajectory.
// The number of cycles is bounded so a faulted motor cannot stall the command.
func waitForTarget(controller ramp.RampController, delay time.Duration, trajectory []float64) []float64 {
	maxCycles := int(2.0/controller.StepSize()) + 16
	for cycle := 0; controller.CurrentSpeed() != controller.TargetSpeed(); cycle++ {
		if cycle > maxCycles {
			ui.Warning("Motor '%s' did not converge onto its target speed", controller.GetMotorId())
			break
		}
		trajectory = append(trajectory, controller.CurrentSpeed())
		time.Sleep(delay)
	}
	return append(trajectory, controller.CurrentSpeed())
}

func printRampParameters(motorId string, target float64, stepSize float64, delay time.Duration) {
	tab := table.Table{
		Headers: []string{"", ""},
		Rows: [][]string{
			{"Motor", motorId},
			{"Target speed", fmt.Sprintf("%.2f", target)},
			{"Step size", fmt.Sprintf("%.3f", stepSize)},
			{"Delay", delay.String()},
		},
	}
	var buf bytes.Buffer
	tableErr := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if tableErr != nil {
		panic(tableErr)
	}
	ui.Printfln(buf.String())
}

func init() {
	Command.AddCommand(rampCmd)
}
