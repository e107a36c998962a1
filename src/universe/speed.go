package universe

import "time"

const (
	MinSpeed = 0
	MaxSpeed = 100
	DefSpeed = 20

	minSpeedInterval = 10 * time.Millisecond
)

//SpeedToInterval converts the speed slider value to the interval between the steps
//speed 0 waits one second, every speed point takes 9ms off, never below 10ms
func SpeedToInterval(speed int) time.Duration {
	speed = max(MinSpeed, min(MaxSpeed, speed))
	return max(minSpeedInterval, time.Second-time.Duration(speed)*9*time.Millisecond)
}
