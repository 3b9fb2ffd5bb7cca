//go:build rp2040

package main

import (
	"machine"
	"strconv"
	"time"

	"tinygo.org/x/drivers/adxl345"

	"picodelay/core"
)

// sensorTask samples an ADXL345 accelerometer between delays.
//
// Hardware Setup:
//   - ADXL345 connected via I2C0: SDA=GPIO4, SCL=GPIO5
//   - Address: 0x53 (SDO/ALT ADDRESS pin low)
type sensorTask struct {
	sleep  sleeper
	dev    adxl345.Device
	period time.Duration
	fails  int
}

func newSensorTask(sched core.Scheduler, period time.Duration) (*sensorTask, error) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       machine.GPIO4,
		SCL:       machine.GPIO5,
		Frequency: 400 * machine.KHz,
	})
	if err != nil {
		return nil, err
	}

	s := &sensorTask{
		sleep:  sleeper{sched: sched},
		dev:    adxl345.New(machine.I2C0),
		period: period,
	}
	s.dev.Configure()
	s.dev.SetRate(adxl345.RATE_100HZ)
	s.dev.SetRange(adxl345.RANGE_2G)
	return s, nil
}

func (s *sensorTask) poll(w core.Waker) {
	for s.sleep.elapsed(s.period, w) {
		x, y, z, err := s.dev.ReadAcceleration()
		if err != nil {
			s.fails++
			println("[ACCEL] read failed (" + strconv.Itoa(s.fails) + "): " + err.Error())
			continue
		}
		println("[ACCEL] x=" + strconv.Itoa(int(x)) +
			" y=" + strconv.Itoa(int(y)) +
			" z=" + strconv.Itoa(int(z)))
	}
}
