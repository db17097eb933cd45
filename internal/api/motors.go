package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/motor2go/internal/ramp"
)

type (
	MotorState struct {
		Id           string  `json:"id"`
		CurrentSpeed float64 `json:"currentSpeed"`
		TargetSpeed  float64 `json:"targetSpeed"`
		StepSize     float64 `json:"stepSize"`
		Delay        string  `json:"delay"`
	}

	SetTargetRequest struct {
		Speed float64 `json:"speed"`
	}
)

func registerMotorEndpoints(rest *echo.Echo) {
	group := rest.Group("/motor")

	group.GET("/", getMotors)
	group.GET("/:"+urlParamId+"/", getMotor)
	group.PUT("/:"+urlParamId+"/target/", setMotorTarget)
	group.POST("/:"+urlParamId+"/stop/", stopMotor)
}

func motorState(controller ramp.RampController) MotorState {
	return MotorState{
		Id:           controller.GetMotorId(),
		CurrentSpeed: controller.CurrentSpeed(),
		TargetSpeed:  controller.TargetSpeed(),
		StepSize:     controller.StepSize(),
		Delay:        controller.Delay().String(),
	}
}

// returns the state of all currently configured motors
func getMotors(c echo.Context) error {
	data := map[string]MotorState{}
	for id, controller := range ramp.ControllerMap.Items() {
		data[id] = motorState(controller)
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getMotor(c echo.Context) error {
	id := c.Param(urlParamId)
	controller, exists := ramp.ControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, motorState(controller), indentationChar)
}

// sets the target speed of a motor, the value is clamped to [-1, 1]
func setMotorTarget(c echo.Context) error {
	id := c.Param(urlParamId)
	controller, exists := ramp.ControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request SetTargetRequest
	if err := c.Bind(&request); err != nil {
		return returnError(c, err)
	}

	controller.SetTarget(request.Speed)
	return c.JSONPretty(http.StatusOK, motorState(controller), indentationChar)
}

func stopMotor(c echo.Context) error {
	id := c.Param(urlParamId)
	controller, exists := ramp.ControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	controller.Stop()
	return c.JSONPretty(http.StatusOK, motorState(controller), indentationChar)
}
